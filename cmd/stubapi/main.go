package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rmontanez/shopfront/internal/stubapi"
	"github.com/rmontanez/shopfront/pkg/config"
	"github.com/rmontanez/shopfront/pkg/env"
	"github.com/rmontanez/shopfront/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "stubapi"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Debug(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "stubapi",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	addr := flag.String("addr", env.Get("SHOPFRONT_STUB_ADDR", ":4000"), "listen address")
	flag.Parse()

	server := stubapi.New(
		stubapi.WithLogger(logg),
		stubapi.WithSecret(os.Getenv("SHOPFRONT_STUB_SECRET")),
		stubapi.WithPayPalClientID(os.Getenv("SHOPFRONT_STUB_PAYPAL_CLIENT_ID")),
	)

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logg.Info(logg.WithField(ctx, "addr", *addr), "stub backend listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "stub backend failed", err)
			os.Exit(1)
		}
	}()

	<-shutdownCtx.Done()

	drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(drainCtx); err != nil {
		logg.Error(ctx, "shutdown failed", err)
	}
}
