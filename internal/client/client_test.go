package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Virginijus03/45-server/internal/server"
	"github.com/Virginijus03/45-server/internal/shared"
	"github.com/Virginijus03/45-server/web"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	assets, err := server.NewFSAssets(web.Files, "")
	require.NoError(t, err)
	logger, _ := test.NewNullLogger()

	d, _, err := server.New(server.Options{
		Store:       server.NewMemoryStore(),
		Assets:      assets,
		Logger:      logger,
		TokenSecret: []byte("client-test-secret"),
		TokenTTL:    time.Hour,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(server.Handler(d, nil))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := New(filepath.Join(t.TempDir(), "cli.json"))
	require.NoError(t, err)
	c.Cfg.ServerURL = srv.URL + "/"
	return c
}

func TestNewWithoutConfigFile(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, shared.DefaultServerURL, c.Cfg.ServerURL)
	assert.Equal(t, time.Duration(shared.DefaultClientTimeout)*time.Second, c.HTTP.Timeout)
}

func TestLoginAndManageServices(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv)
	ctx := context.Background()

	_, err := c.AddService(ctx, shared.ServiceRequest{Title: "Before login"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "not logged in", apiErr.Message)

	_, err = c.Register(ctx, shared.RegisterRequest{Fullname: "Grace Hopper", Email: "grace@example.com", Password: "cobol-1959"})
	require.NoError(t, err)

	tr, err := c.Login(ctx, "grace@example.com", "cobol-1959")
	require.NoError(t, err)
	assert.NotEmpty(t, tr.Token)

	saved, err := shared.LoadClientConfig(c.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, tr.Token, saved.Token)
	assert.Equal(t, "grace@example.com", saved.Email)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", me.Fullname)

	svc, err := c.AddService(ctx, shared.ServiceRequest{Title: "Compilers", Description: "A-0"})
	require.NoError(t, err)
	assert.True(t, svc.IsActive)

	off := false
	svc, err = c.UpdateService(ctx, shared.ServiceRequest{ID: svc.ID, IsActive: &off})
	require.NoError(t, err)
	assert.False(t, svc.IsActive)
	assert.Equal(t, "Compilers", svc.Title)

	list, err := c.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, svc.ID, list[0].ID)

	require.NoError(t, c.DeleteService(ctx, svc.ID))
	err = c.DeleteService(ctx, svc.ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	require.NoError(t, c.Logout(ctx))
	assert.Empty(t, c.Cfg.Token)
	_, err = c.Me(ctx)
	assert.Error(t, err)
}

func TestLoginFailure(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv)

	_, err := c.Login(context.Background(), "nobody@example.com", "password1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Empty(t, c.Cfg.Token)
}
