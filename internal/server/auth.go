package server

import (
	"context"
	"encoding/json"
	"strings"
)

// LoginCookie carries the session token.
const LoginCookie = "login-token"

// secretUserFields never leave the users collection.
var secretUserFields = []string{"hashedPassword"}

// TokenVerifier resolves a session token to the email it was issued for.
// It returns "" for missing, expired or invalid tokens.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// parseCookies splits a Cookie header into name/value pairs. Later
// duplicates win.
func parseCookies(header string) map[string]string {
	cookies := map[string]string{}
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		cookies[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return cookies
}

// buildUser resolves the login cookie into a UserContext. Any failure on
// the way yields an anonymous user; errors are only logged.
func (d *Dispatcher) buildUser(ctx context.Context, cookieHeader string) UserContext {
	anonymous := UserContext{}

	token := parseCookies(cookieHeader)[LoginCookie]
	if token == "" {
		return anonymous
	}
	email, err := d.verifier.Verify(ctx, token)
	if err != nil {
		d.log.WithError(err).Warn("Token verification failed")
		return anonymous
	}
	if email == "" {
		return anonymous
	}

	raw, err := d.store.Read(ctx, CollectionUsers, email)
	if err != nil {
		d.log.WithError(err).WithField("email", email).Warn("Reading user record failed")
		return anonymous
	}
	if raw == "" {
		return anonymous
	}

	fields := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		fields = map[string]any{}
	}
	for _, k := range secretUserFields {
		delete(fields, k)
	}
	return UserContext{IsLoggedIn: true, Email: email, Fields: fields}
}
