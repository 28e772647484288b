package server

import (
	"encoding/json"
	"net/http"
	"net/url"
)

// RequestContext is everything a page or API handler gets about the
// request. It is built once by the Dispatcher and must not be modified.
type RequestContext struct {
	Method  string // lower case
	Path    string // without leading and trailing slashes
	BaseURL string
	Query   url.Values
	Header  http.Header
	Body    string
	Payload map[string]any
	User    UserContext
	Store   Store
}

// Decode copies the parsed payload into v.
func (rc *RequestContext) Decode(v any) error {
	b, err := json.Marshal(rc.Payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// UserContext says who made the request. Fields holds the stored user
// record (without secrets) when IsLoggedIn is true.
type UserContext struct {
	IsLoggedIn bool
	Email      string
	Fields     map[string]any
}

// Field returns a record field as a string, or "".
func (u UserContext) Field(key string) string {
	s, _ := u.Fields[key].(string)
	return s
}

// MarshalJSON flattens the user record next to isLoggedIn.
func (u UserContext) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Fields)+1)
	for k, v := range u.Fields {
		out[k] = v
	}
	out["isLoggedIn"] = u.IsLoggedIn
	return json.Marshal(out)
}

// parsePayload never fails: anything but a JSON object yields an empty map.
func parsePayload(body string) map[string]any {
	payload := map[string]any{}
	if body == "" {
		return payload
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil || payload == nil {
		return map[string]any{}
	}
	return payload
}
