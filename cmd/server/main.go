package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/gabrielflorianoo/VoiceCalc/internal/api"
	"github.com/gabrielflorianoo/VoiceCalc/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if err := cfg.Log.Apply(); err != nil {
		logrus.Fatalf("configure logging: %v", err)
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logrus.Fatalf("create data directory: %v", err)
		}
	}

	server, err := api.NewServer(api.Config{
		DBPath:         cfg.Database.Path,
		AllowedOrigins: cfg.Server.Origins(),
		SilentDB:       cfg.Database.Silent,
		SessionTTL:     cfg.Sessions.TTL,
	})
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}
	defer func() {
		if cerr := server.Close(); cerr != nil {
			logrus.WithError(cerr).Warn("close server")
		}
	}()

	router, err := server.Router()
	if err != nil {
		logrus.Fatalf("configure router: %v", err)
	}

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("starting vozcalc backend on :%s", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			logrus.Errorf("server exited: %v", err)
			return
		}
	case <-ctx.Done():
		logrus.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("graceful shutdown")
	}
	logrus.Info("server stopped")
}
