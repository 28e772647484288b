// Package client talks to a running server's JSON API on behalf of
// svc-cli. The login token is kept in the client config file and sent back
// as the login cookie.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Virginijus03/45-server/internal/shared"
)

const loginCookie = "login-token"

type Client struct {
	ConfigPath string
	Cfg        *shared.ClientConfig
	HTTP       *http.Client
}

// New loads the config at configPath. A missing file is not an error; the
// defaults are used and the file is written on the first login.
func New(configPath string) (*Client, error) {
	cfg, err := shared.LoadClientConfig(configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = &shared.ClientConfig{ServerURL: shared.DefaultServerURL, TimeoutSeconds: shared.DefaultClientTimeout}
	}
	return &Client{
		ConfigPath: configPath,
		Cfg:        cfg,
		HTTP:       &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}, nil
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return http.StatusText(e.Status) + ": " + e.Message
}

func (c *Client) do(ctx context.Context, method, route string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	endpoint := strings.TrimRight(c.Cfg.ServerURL, "/") + "/api/" + route
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Cfg.Token != "" {
		req.AddCookie(&http.Cookie{Name: loginCookie, Value: c.Cfg.Token})
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, route)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er shared.ErrorResponse
		if json.Unmarshal(b, &er) != nil || er.Error == "" {
			er.Error = strings.TrimSpace(string(b))
		}
		return &APIError{Status: resp.StatusCode, Message: er.Error}
	}
	if out == nil {
		return nil
	}
	return errors.Wrap(json.Unmarshal(b, out), "decode response")
}

// Login exchanges credentials for a token and saves it to the config file.
func (c *Client) Login(ctx context.Context, email, password string) (shared.TokenResponse, error) {
	var tr shared.TokenResponse
	err := c.do(ctx, http.MethodPost, "token", shared.TokenRequest{Email: email, Password: password}, &tr)
	if err != nil {
		return tr, err
	}
	c.Cfg.Email = tr.Email
	c.Cfg.Token = tr.Token
	return tr, shared.SaveClientConfig(c.ConfigPath, c.Cfg)
}

// Logout revokes the token on the server and forgets it locally.
func (c *Client) Logout(ctx context.Context) error {
	if c.Cfg.Token == "" {
		return nil
	}
	if err := c.do(ctx, http.MethodDelete, "token", nil, nil); err != nil {
		return err
	}
	c.Cfg.Token = ""
	return shared.SaveClientConfig(c.ConfigPath, c.Cfg)
}

func (c *Client) Register(ctx context.Context, req shared.RegisterRequest) (shared.UserView, error) {
	var u shared.UserView
	err := c.do(ctx, http.MethodPost, "users", req, &u)
	return u, err
}

func (c *Client) Me(ctx context.Context) (shared.UserView, error) {
	var u shared.UserView
	err := c.do(ctx, http.MethodGet, "users", nil, &u)
	return u, err
}

func (c *Client) ListServices(ctx context.Context) ([]shared.Service, error) {
	var sr shared.ServicesResponse
	if err := c.do(ctx, http.MethodGet, "services", nil, &sr); err != nil {
		return nil, err
	}
	return sr.Services, nil
}

func (c *Client) AddService(ctx context.Context, req shared.ServiceRequest) (shared.Service, error) {
	var s shared.Service
	err := c.do(ctx, http.MethodPost, "services", req, &s)
	return s, err
}

func (c *Client) UpdateService(ctx context.Context, req shared.ServiceRequest) (shared.Service, error) {
	var s shared.Service
	err := c.do(ctx, http.MethodPut, "services", req, &s)
	return s, err
}

func (c *Client) DeleteService(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "services?id="+url.QueryEscape(id), nil, nil)
}
