package server

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Virginijus03/45-server/internal/shared"
)

// ServicesAPI is the api/services route. Reading is public; changes need a
// logged in user.
type ServicesAPI struct {
	Store Store
	Log   *logrus.Logger
}

func (a *ServicesAPI) API() APIBundle {
	return APIBundle{
		"get":    a.get,
		"post":   a.create,
		"put":    a.update,
		"delete": a.remove,
	}
}

// ListServices returns every stored service, oldest first.
func ListServices(ctx context.Context, s Store) ([]shared.Service, error) {
	keys, err := s.List(ctx, CollectionServices)
	if err != nil {
		return nil, err
	}
	out := make([]shared.Service, 0, len(keys))
	for _, k := range keys {
		svc, ok, err := readRecord[shared.Service](ctx, s, CollectionServices, k)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, svc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

func (a *ServicesAPI) get(ctx context.Context, rc *RequestContext) Response {
	if id := rc.Query.Get("id"); id != "" {
		svc, ok, err := readRecord[shared.Service](ctx, a.Store, CollectionServices, id)
		if err != nil {
			a.Log.WithError(err).Error("Reading service failed")
			return JSONError(http.StatusInternalServerError, "could not read service")
		}
		if !ok {
			return JSONError(http.StatusNotFound, "service not found")
		}
		return JSON(http.StatusOK, svc, nil)
	}

	list, err := ListServices(ctx, a.Store)
	if err != nil {
		a.Log.WithError(err).Error("Listing services failed")
		return JSONError(http.StatusInternalServerError, "could not list services")
	}
	return JSON(http.StatusOK, shared.ServicesResponse{Services: list}, nil)
}

func (a *ServicesAPI) create(ctx context.Context, rc *RequestContext) Response {
	if !rc.User.IsLoggedIn {
		return JSONError(http.StatusUnauthorized, "not logged in")
	}
	var req shared.ServiceRequest
	if err := rc.Decode(&req); err != nil {
		return JSONError(http.StatusBadRequest, "invalid payload")
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return JSONError(http.StatusBadRequest, "title is required")
	}

	svc := shared.Service{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		Icon:        strings.TrimSpace(req.Icon),
		IsActive:    req.IsActive == nil || *req.IsActive,
		CreatedAt:   time.Now().Unix(),
	}
	if err := createRecord(ctx, a.Store, CollectionServices, svc.ID, svc); err != nil {
		a.Log.WithError(err).Error("Creating service failed")
		return JSONError(http.StatusInternalServerError, "could not create service")
	}
	return JSON(http.StatusCreated, svc, nil)
}

func (a *ServicesAPI) update(ctx context.Context, rc *RequestContext) Response {
	if !rc.User.IsLoggedIn {
		return JSONError(http.StatusUnauthorized, "not logged in")
	}
	var req shared.ServiceRequest
	if err := rc.Decode(&req); err != nil {
		return JSONError(http.StatusBadRequest, "invalid payload")
	}
	id := req.ID
	if id == "" {
		id = rc.Query.Get("id")
	}
	if id == "" {
		return JSONError(http.StatusBadRequest, "id is required")
	}

	svc, ok, err := readRecord[shared.Service](ctx, a.Store, CollectionServices, id)
	if err != nil {
		a.Log.WithError(err).Error("Reading service failed")
		return JSONError(http.StatusInternalServerError, "could not read service")
	}
	if !ok {
		return JSONError(http.StatusNotFound, "service not found")
	}
	if t := strings.TrimSpace(req.Title); t != "" {
		svc.Title = t
	}
	if req.Description != "" {
		svc.Description = strings.TrimSpace(req.Description)
	}
	if req.Icon != "" {
		svc.Icon = strings.TrimSpace(req.Icon)
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}
	if err := updateRecord(ctx, a.Store, CollectionServices, svc.ID, svc); err != nil {
		a.Log.WithError(err).Error("Updating service failed")
		return JSONError(http.StatusInternalServerError, "could not update service")
	}
	return JSON(http.StatusOK, svc, nil)
}

func (a *ServicesAPI) remove(ctx context.Context, rc *RequestContext) Response {
	if !rc.User.IsLoggedIn {
		return JSONError(http.StatusUnauthorized, "not logged in")
	}
	id := rc.Query.Get("id")
	if id == "" {
		return JSONError(http.StatusBadRequest, "id is required")
	}
	if err := a.Store.Delete(ctx, CollectionServices, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return JSONError(http.StatusNotFound, "service not found")
		}
		a.Log.WithError(err).Error("Deleting service failed")
		return JSONError(http.StatusInternalServerError, "could not delete service")
	}
	return JSON(http.StatusOK, map[string]bool{"ok": true}, nil)
}
