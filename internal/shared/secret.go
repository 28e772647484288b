package shared

const Redacted = "REDACTED"

// Secret is a config string that never prints its value.
type Secret struct {
	Value string
}

func (s Secret) String() string {
	if s.Value == "" {
		return ""
	}
	return Redacted
}

func (s *Secret) UnmarshalYAML(unmarshal func(interface{}) error) error {
	return unmarshal(&s.Value)
}

// Decode lets envconfig fill the secret from the environment.
func (s *Secret) Decode(value string) error {
	s.Value = value
	return nil
}
