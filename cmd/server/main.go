// Package main initializes and starts the PolicyFinder web server,
// setting up configuration, logging, the policy store backend, services,
// handlers and graceful shutdown.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/PolicyFinder/internal/app"
	"github.com/atinyakov/PolicyFinder/internal/config"
	"github.com/atinyakov/PolicyFinder/internal/logger"
	"github.com/atinyakov/PolicyFinder/internal/server/handler/http"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse command-line, file and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize the policy store backend and the services on top of it.
	wire, err := app.NewWire(options)
	if err != nil {
		zapLogger.Fatal("cannot init policy store", zap.Error(err))
	}
	defer func() { _ = wire.Close() }()
	policyService := wire.Policies
	feedbackService := wire.Feedback

	// Create HTTP handlers for the pages and the JSON API.
	pages := &http.PageHandler{
		Policies:  policyService,
		Feedback:  feedbackService,
		PublicURL: options.PublicURL,
		AdClient:  options.AdClient,
		Log:       zapLogger,
	}
	api := &http.APIHandler{Policies: policyService, Feedback: feedbackService, Log: zapLogger}

	// Build the router with middleware and routes.
	router := http.NewRouter(pages, api, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zapLogger.Info("starting HTTP server",
			zap.String("addr", options.Port),
			zap.String("backend", options.Backend),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		zapLogger.Info("shutting down HTTP server")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zapLogger.Fatal("server stopped with error", zap.Error(err))
	}
}
