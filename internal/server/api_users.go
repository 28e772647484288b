package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Virginijus03/45-server/internal/shared"
)

// UsersAPI is the api/users route: registration and the logged in user's
// own account.
type UsersAPI struct {
	Store  Store
	Tokens *TokenService
	Log    *logrus.Logger
}

func (a *UsersAPI) API() APIBundle {
	return APIBundle{
		"post":   a.register,
		"get":    a.get,
		"put":    a.update,
		"delete": a.remove,
	}
}

func (a *UsersAPI) register(ctx context.Context, rc *RequestContext) Response {
	var req shared.RegisterRequest
	if err := rc.Decode(&req); err != nil {
		return JSONError(http.StatusBadRequest, "invalid payload")
	}
	req.Fullname = strings.TrimSpace(req.Fullname)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if msg := validateRegistration(req); msg != "" {
		return JSONError(http.StatusBadRequest, msg)
	}

	hash, err := shared.HashPassword(req.Password)
	if err != nil {
		a.Log.WithError(err).Error("Hashing password failed")
		return JSONError(http.StatusInternalServerError, "could not create user")
	}
	rec := shared.UserRecord{
		Fullname:       req.Fullname,
		Email:          req.Email,
		HashedPassword: hash,
		RegisterDate:   time.Now().Unix(),
	}
	if err := createRecord(ctx, a.Store, CollectionUsers, rec.Email, rec); err != nil {
		if errors.Is(err, ErrExists) {
			return JSONError(http.StatusConflict, "user already exists")
		}
		a.Log.WithError(err).Error("Creating user failed")
		return JSONError(http.StatusInternalServerError, "could not create user")
	}
	return JSON(http.StatusCreated, rec.View(), nil)
}

func (a *UsersAPI) get(ctx context.Context, rc *RequestContext) Response {
	if !rc.User.IsLoggedIn {
		return JSONError(http.StatusUnauthorized, "not logged in")
	}
	rec, ok, err := readRecord[shared.UserRecord](ctx, a.Store, CollectionUsers, rc.User.Email)
	if err != nil {
		a.Log.WithError(err).Error("Reading user failed")
		return JSONError(http.StatusInternalServerError, "could not read user")
	}
	if !ok {
		return JSONError(http.StatusNotFound, "user not found")
	}
	return JSON(http.StatusOK, rec.View(), nil)
}

func (a *UsersAPI) update(ctx context.Context, rc *RequestContext) Response {
	if !rc.User.IsLoggedIn {
		return JSONError(http.StatusUnauthorized, "not logged in")
	}
	var req shared.UserUpdateRequest
	if err := rc.Decode(&req); err != nil {
		return JSONError(http.StatusBadRequest, "invalid payload")
	}
	req.Fullname = strings.TrimSpace(req.Fullname)
	if req.Fullname == "" && req.Password == "" {
		return JSONError(http.StatusBadRequest, "nothing to update")
	}
	if req.Password != "" && len(req.Password) < shared.MinPasswordLength {
		return JSONError(http.StatusBadRequest, "password is too short")
	}

	rec, ok, err := readRecord[shared.UserRecord](ctx, a.Store, CollectionUsers, rc.User.Email)
	if err != nil {
		a.Log.WithError(err).Error("Reading user failed")
		return JSONError(http.StatusInternalServerError, "could not read user")
	}
	if !ok {
		return JSONError(http.StatusNotFound, "user not found")
	}
	if req.Fullname != "" {
		rec.Fullname = req.Fullname
	}
	if req.Password != "" {
		if rec.HashedPassword, err = shared.HashPassword(req.Password); err != nil {
			a.Log.WithError(err).Error("Hashing password failed")
			return JSONError(http.StatusInternalServerError, "could not update user")
		}
	}
	if err := updateRecord(ctx, a.Store, CollectionUsers, rec.Email, rec); err != nil {
		a.Log.WithError(err).Error("Updating user failed")
		return JSONError(http.StatusInternalServerError, "could not update user")
	}
	return JSON(http.StatusOK, rec.View(), nil)
}

// remove deletes the account and logs the current token out.
func (a *UsersAPI) remove(ctx context.Context, rc *RequestContext) Response {
	if !rc.User.IsLoggedIn {
		return JSONError(http.StatusUnauthorized, "not logged in")
	}
	if err := a.Store.Delete(ctx, CollectionUsers, rc.User.Email); err != nil && !errors.Is(err, ErrNotFound) {
		a.Log.WithError(err).Error("Deleting user failed")
		return JSONError(http.StatusInternalServerError, "could not delete user")
	}
	if a.Tokens != nil {
		if err := a.Tokens.Revoke(ctx, requestToken(rc)); err != nil {
			a.Log.WithError(err).Warn("Revoking token of deleted user failed")
		}
	}
	h := http.Header{}
	h.Set("Set-Cookie", expiredLoginCookie().String())
	return JSON(http.StatusOK, map[string]bool{"ok": true}, h)
}

func validateRegistration(req shared.RegisterRequest) string {
	switch {
	case req.Fullname == "":
		return "fullname is required"
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		return "a valid email is required"
	case len(req.Password) < shared.MinPasswordLength:
		return "password is too short"
	}
	return ""
}
