package shared

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	defaultHTTPAddress    = ":3000"
	defaultDBPath         = "./data/server.db"
	defaultTokenTTL       = time.Hour
	defaultRequestTimeout = 10 * time.Second
	defaultMaxBodyBytes   = 2 << 20
)

// ServerConfig is read from a YAML file and then overridden from SVC_*
// environment variables.
type ServerConfig struct {
	HTTPAddress    string        `yaml:"http_address" envconfig:"http_address"`
	DBPath         string        `yaml:"db_path" envconfig:"db_path"`
	StaticDir      string        `yaml:"static_dir" split_words:"true"`
	TokenSecret    Secret        `yaml:"token_secret" split_words:"true"`
	TokenTTL       time.Duration `yaml:"token_ttl" split_words:"true"`
	RequestTimeout time.Duration `yaml:"request_timeout" split_words:"true"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes" split_words:"true"`
	SentryDsn      Secret        `yaml:"sentry_dsn" split_words:"true"`
	Debug          bool          `yaml:"debug"`
}

// ReadServerConfig unmarshals the config file and applies environment
// overrides and defaults.
func ReadServerConfig(path string) (ServerConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return ServerConfig{}, errors.Wrap(err, "open config")
	}
	defer f.Close()
	return readServerConfig(f)
}

func readServerConfig(r io.Reader) (c ServerConfig, err error) {
	bts, err := io.ReadAll(r)
	if err != nil {
		return c, errors.Wrap(err, "read config")
	}
	if err = yaml.Unmarshal(bts, &c); err != nil {
		return c, errors.Wrap(err, "parse config")
	}
	if err = envconfig.Process("svc", &c); err != nil {
		return c, errors.Wrap(err, "process environment")
	}
	c.applyDefaults()
	return c, nil
}

// DefaultServerConfig is what the server runs with when no file is given.
func DefaultServerConfig() ServerConfig {
	var c ServerConfig
	c.applyDefaults()
	return c
}

func (c *ServerConfig) applyDefaults() {
	if c.HTTPAddress == "" {
		c.HTTPAddress = defaultHTTPAddress
	}
	if c.DBPath == "" {
		c.DBPath = defaultDBPath
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = defaultTokenTTL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = defaultMaxBodyBytes
	}
}

const (
	DefaultServerURL     = "http://localhost:3000"
	DefaultClientTimeout = 20
)

// ClientConfig is the state file of svc-cli.
type ClientConfig struct {
	ServerURL      string `json:"server_url"`
	Email          string `json:"email"`
	Token          string `json:"token"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

func LoadClientConfig(path string) (*ClientConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c ClientConfig
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = DefaultClientTimeout
	}
	return &c, nil
}

func SaveClientConfig(path string, c *ClientConfig) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0600)
}
