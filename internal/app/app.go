package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ayo6706/terminal-country-switch/internal/api"
	"github.com/ayo6706/terminal-country-switch/internal/config"
	"github.com/ayo6706/terminal-country-switch/internal/gateway"
	"github.com/ayo6706/terminal-country-switch/internal/observability"
	"github.com/ayo6706/terminal-country-switch/internal/service"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Run bootstraps the HTTP server, blocking until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	observability.Init()

	if placeholders := cfg.Placeholders(); len(placeholders) > 0 {
		logger.Warn("configuration still holds template values", zap.Strings("keys", placeholders))
	}

	countrySvc := NewCountryUpdateService(cfg).WithLogger(logger)
	router := api.NewRouter(cfg, logger, countrySvc)

	// WriteTimeout must outlast a full recovery: update, export, close, retry.
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 4*cfg.VendorTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting",
			zap.String("port", cfg.HTTPPort),
			zap.String("partner_portal_url", cfg.PartnerPortalURL),
			zap.Duration("vendor_timeout", cfg.VendorTimeout),
			zap.Bool("operator_auth", cfg.OperatorJWTSecret != ""),
		)
		serverErr <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 4*cfg.VendorTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return nil
}

// NewCountryUpdateService wires the three vendor clients behind the workflow.
func NewCountryUpdateService(cfg *config.Config) *service.CountryUpdateService {
	client := gateway.NewHTTPClient(cfg.VendorTimeout)
	return service.NewCountryUpdateService(
		gateway.NewPartnerPortalClient(client, cfg.PartnerPortalURL, cfg.Credentials()),
		gateway.NewExportClient(client, cfg.ExportURL, cfg.ClientKey, cfg.ClientSecret, cfg.ExportVersion),
		gateway.NewCloseBatchClient(client, cfg.CloseBatchURL, cfg.CloseBatchVersion),
	)
}

// newLogger builds the production JSON logger. Unknown levels fall back to
// info rather than failing startup.
func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
