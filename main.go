package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docker/go-units"
	_ "github.com/joho/godotenv/autoload"

	"github.com/Pranavsangichetty/portfolio/internal/analytics"
	"github.com/Pranavsangichetty/portfolio/internal/config"
	"github.com/Pranavsangichetty/portfolio/internal/content"
	"github.com/Pranavsangichetty/portfolio/internal/session"
	"github.com/Pranavsangichetty/portfolio/internal/web"
)

// Version is set via ldflags during build.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(os.Stdout, cfg)
	slog.SetDefault(logger)

	seed, err := content.LoadSeed(cfg.SeedFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracker, err := analytics.Open(ctx, cfg.AnalyticsDSN)
	if err != nil {
		return err
	}
	defer tracker.Close()
	go cleanupVisits(ctx, tracker, cfg.Retention, logger)

	sessions := session.NewManager(session.Config{
		TTL:              cfg.SessionTTL,
		SweepInterval:    cfg.SweepInterval,
		MaxSessions:      cfg.MaxSessions,
		UploadQuota:      cfg.UploadQuotaBytes(),
		StrictCategories: cfg.StrictCategories,
		Secure:           cfg.SecureCookies,
	}, seed, content.NewMockDeliverer(logger), logger)
	go sessions.Run(ctx)

	srv := web.New(web.Options{
		Sessions:      sessions,
		Tracker:       tracker,
		Logger:        logger,
		MaxUploadSize: cfg.MaxUploadSizeBytes(),
		StatsEnabled:  cfg.StatsEnabled,
		PublicDir:     cfg.PublicDir,
		Version:       Version,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("portfolio listening",
			"addr", httpServer.Addr,
			"seed", cfg.SeedFile,
			"max_upload", units.HumanSize(float64(cfg.MaxUploadSizeBytes())),
			"strict_categories", cfg.StrictCategories,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// cleanupVisits drops visits past the retention window at startup and once a day.
func cleanupVisits(ctx context.Context, tracker *analytics.Tracker, retention time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		n, err := tracker.Cleanup(ctx, retention)
		switch {
		case err != nil:
			logger.Warn("visit cleanup failed", "error", err)
		case n > 0:
			logger.Info("privacy cleanup removed old visits", "count", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
