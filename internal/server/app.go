package server

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Options are what New needs to assemble the application.
type Options struct {
	Store          Store
	Assets         Assets
	Logger         *logrus.Logger
	Metrics        *Metrics
	TokenSecret    []byte
	TokenTTL       time.Duration
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// New builds the route tables once and returns the Dispatcher serving
// them, plus the TokenService it verifies logins with.
func New(opts Options) (*Dispatcher, *TokenService, error) {
	if len(opts.TokenSecret) == 0 {
		return nil, nil, errors.New("token secret is empty")
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	tokens := &TokenService{Store: opts.Store, Secret: opts.TokenSecret, TTL: opts.TokenTTL, Log: log}
	if tokens.TTL <= 0 {
		tokens.TTL = time.Hour
	}
	users := &UsersAPI{Store: opts.Store, Tokens: tokens, Log: log}
	services := &ServicesAPI{Store: opts.Store, Log: log}
	pages := &Pages{Assets: opts.Assets, Store: opts.Store, Tokens: tokens, Log: log}

	d, err := NewDispatcher(DispatcherConfig{
		Pages: pages.Table(),
		API: APITable{
			"services": services.API(),
			"users":    users.API(),
			"token":    tokens.API(),
		},
		Assets:         opts.Assets,
		Store:          opts.Store,
		Verifier:       tokens,
		Logger:         log,
		Metrics:        opts.Metrics,
		RequestTimeout: opts.RequestTimeout,
		MaxBodyBytes:   opts.MaxBodyBytes,
	})
	if err != nil {
		return nil, nil, err
	}
	return d, tokens, nil
}
