package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Virginijus03/45-server/internal/shared"
)

// TokenService issues, verifies and revokes login tokens. A token is a
// signed JWT whose ID must also exist in the tokens collection, so deleting
// the record logs the token out before it expires.
type TokenService struct {
	Store  Store
	Secret []byte
	TTL    time.Duration
	Log    *logrus.Logger

	now func() time.Time
}

var _ TokenVerifier = (*TokenService)(nil)

func (s *TokenService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Issue creates a token for email and stores its record.
func (s *TokenService) Issue(ctx context.Context, email string) (shared.TokenResponse, error) {
	rec := shared.TokenRecord{
		ID:      uuid.NewString(),
		Email:   email,
		Expires: s.clock().Add(s.TTL).Unix(),
	}
	tok, err := shared.SignToken(s.Secret, rec.ID, email, time.Unix(rec.Expires, 0))
	if err != nil {
		return shared.TokenResponse{}, err
	}
	if err := createRecord(ctx, s.Store, CollectionTokens, rec.ID, rec); err != nil {
		return shared.TokenResponse{}, errors.Wrap(err, "store token")
	}
	return shared.TokenResponse{Token: tok, Email: email, Expires: rec.Expires}, nil
}

// Verify returns the email a live token belongs to, or "".
func (s *TokenService) Verify(ctx context.Context, token string) (string, error) {
	rec, ok, err := s.lookup(ctx, token)
	if err != nil || !ok {
		return "", err
	}
	return rec.Email, nil
}

// Revoke deletes the token's record. Unknown tokens are not an error.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	rec, ok, err := s.lookup(ctx, token)
	if err != nil || !ok {
		return err
	}
	err = s.Store.Delete(ctx, CollectionTokens, rec.ID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func (s *TokenService) lookup(ctx context.Context, token string) (shared.TokenRecord, bool, error) {
	if token == "" {
		return shared.TokenRecord{}, false, nil
	}
	id, email, err := shared.ParseToken(s.Secret, token)
	if err != nil {
		return shared.TokenRecord{}, false, nil
	}
	rec, ok, err := readRecord[shared.TokenRecord](ctx, s.Store, CollectionTokens, id)
	if err != nil || !ok {
		return shared.TokenRecord{}, false, err
	}
	if rec.Email != email || rec.Expires <= s.clock().Unix() {
		return shared.TokenRecord{}, false, nil
	}
	return rec, true, nil
}

// API is the api/token route.
func (s *TokenService) API() APIBundle {
	return APIBundle{
		"post":   s.post,
		"get":    s.get,
		"delete": s.delete,
	}
}

// post logs in with email and password.
func (s *TokenService) post(ctx context.Context, rc *RequestContext) Response {
	var req shared.TokenRequest
	if err := rc.Decode(&req); err != nil {
		return JSONError(http.StatusBadRequest, "invalid payload")
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || len(req.Password) < shared.MinPasswordLength {
		return JSONError(http.StatusBadRequest, "email and password are required")
	}

	user, ok, err := readRecord[shared.UserRecord](ctx, s.Store, CollectionUsers, req.Email)
	if err != nil {
		s.logError(err, "Reading user failed")
		return JSONError(http.StatusInternalServerError, "could not read user")
	}
	if !ok || !shared.CheckPassword(user.HashedPassword, req.Password) {
		return JSONError(http.StatusUnauthorized, "wrong email or password")
	}

	resp, err := s.Issue(ctx, req.Email)
	if err != nil {
		s.logError(err, "Issuing token failed")
		return JSONError(http.StatusInternalServerError, "could not create token")
	}
	h := http.Header{}
	h.Set("Set-Cookie", loginCookie(resp.Token, time.Unix(resp.Expires, 0)).String())
	return JSON(http.StatusCreated, resp, h)
}

// get describes the token the request carries.
func (s *TokenService) get(ctx context.Context, rc *RequestContext) Response {
	rec, ok, err := s.lookup(ctx, requestToken(rc))
	if err != nil {
		s.logError(err, "Reading token failed")
		return JSONError(http.StatusInternalServerError, "could not read token")
	}
	if !ok {
		return JSONError(http.StatusUnauthorized, "not logged in")
	}
	return JSON(http.StatusOK, shared.TokenResponse{Email: rec.Email, Expires: rec.Expires}, nil)
}

// delete logs out.
func (s *TokenService) delete(ctx context.Context, rc *RequestContext) Response {
	if err := s.Revoke(ctx, requestToken(rc)); err != nil {
		s.logError(err, "Revoking token failed")
		return JSONError(http.StatusInternalServerError, "could not delete token")
	}
	h := http.Header{}
	h.Set("Set-Cookie", expiredLoginCookie().String())
	return JSON(http.StatusOK, map[string]bool{"ok": true}, h)
}

func (s *TokenService) logError(err error, msg string) {
	if s.Log != nil {
		s.Log.WithError(err).Error(msg)
	}
}

func requestToken(rc *RequestContext) string {
	return parseCookies(rc.Header.Get("Cookie"))[LoginCookie]
}

func loginCookie(token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     LoginCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func expiredLoginCookie() *http.Cookie {
	return &http.Cookie{
		Name:     LoginCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
