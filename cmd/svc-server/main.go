package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/Virginijus03/45-server/internal/server"
	"github.com/Virginijus03/45-server/internal/shared"
	"github.com/Virginijus03/45-server/web"
)

var configFile = flag.String("f", "", "The config file to read for settings.")

func main() {
	flag.Parse()
	logger := logrus.StandardLogger()

	cfg := shared.DefaultServerConfig()
	if *configFile != "" {
		var err error
		if cfg, err = shared.ReadServerConfig(*configFile); err != nil {
			logger.WithError(err).Fatal("Error reading config file")
		}
	}
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	if cfg.SentryDsn.Value != "" {
		err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDsn.Value})
		if err != nil {
			logger.WithError(err).Fatal("Error initializing Sentry")
		}
		defer sentry.Flush(2 * time.Second)
	}

	if cfg.TokenSecret.Value == "" {
		logger.Fatal("token_secret (or SVC_TOKEN_SECRET) must be set")
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			logger.WithError(err).WithField("dir", dir).Fatal("Could not create database directory")
		}
	}
	db, err := server.OpenDB(cfg.DBPath)
	if err != nil {
		logger.WithError(err).Fatal("Could not open database")
	}
	defer db.Close()
	if err := server.RunMigrations(db, logger); err != nil {
		logger.WithError(err).Fatal("Migrations failed")
	}

	assets, err := server.NewFSAssets(web.Files, cfg.StaticDir)
	if err != nil {
		logger.WithError(err).Fatal("Could not load embedded assets")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	dispatcher, _, err := server.New(server.Options{
		Store:          server.NewSQLiteStore(db),
		Assets:         assets,
		Logger:         logger,
		Metrics:        server.NewMetrics(registry),
		TokenSecret:    []byte(cfg.TokenSecret.Value),
		TokenTTL:       cfg.TokenTTL,
		RequestTimeout: cfg.RequestTimeout,
		MaxBodyBytes:   cfg.MaxBodyBytes,
	})
	if err != nil {
		logger.WithError(err).Fatal("Could not build the application")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           server.Handler(dispatcher, registry),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"address": cfg.HTTPAddress,
			"db":      cfg.DBPath,
		}).Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("Graceful shutdown failed")
	}
	logger.Info("Server stopped")
}
