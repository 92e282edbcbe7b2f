package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stevemurr/website-registry/collection"
	"github.com/stevemurr/website-registry/config"
	"github.com/stevemurr/website-registry/handler"
	"github.com/stevemurr/website-registry/store"
	"github.com/stevemurr/website-registry/telemetry"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := cfg.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server error")
	}
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	shutdownTracing, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.WithError(err).Warn("flush traces")
		}
	}()

	s, err := store.New(cfg.Backend, cfg.DataDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.WithError(err).Warn("close store")
		}
	}()

	if cfg.SeedDir != "" {
		n, err := store.Seed(ctx, s, cfg.SeedDir)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"dir": cfg.SeedDir, "keys": n}).Info("seeded assets")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.New(s, collection.New(s), log),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	log.WithFields(logrus.Fields{
		"addr":  srv.Addr,
		"store": cfg.Backend,
		"data":  cfg.DataDir,
	}).Info("website registry starting")
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
