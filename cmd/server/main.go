package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/shelfstock/internal/auth"
	"github.com/JonMunkholm/shelfstock/internal/config"
	"github.com/JonMunkholm/shelfstock/internal/core"
	"github.com/JonMunkholm/shelfstock/internal/database"
	"github.com/JonMunkholm/shelfstock/internal/logging"
	"github.com/JonMunkholm/shelfstock/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"import_timeout", cfg.Import.Timeout,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()
	pool, err := database.Open(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	service := core.NewService(pool,
		core.WithImportWait(cfg.Import.MaxWait),
		core.WithImportTimeout(cfg.Import.Timeout),
	)
	if err := service.EnsureSchema(ctx); err != nil {
		slog.Error("failed to create inventory schema", "error", err)
		os.Exit(1)
	}

	users, err := auth.NewStore(pool, cfg.Auth.BcryptCost)
	if err != nil {
		slog.Error("failed to create credential store", "error", err)
		os.Exit(1)
	}
	if err := users.EnsureSchema(ctx); err != nil {
		slog.Error("failed to create users schema", "error", err)
		os.Exit(1)
	}
	if seeded, err := users.SeedDefault(ctx, cfg.Auth.SeedUser, cfg.Auth.SeedPassword); err != nil {
		slog.Error("failed to seed default login", "error", err)
		os.Exit(1)
	} else if seeded {
		slog.Warn("seeded default login; change its password", "user", cfg.Auth.SeedUser)
	}

	server := web.NewServer(service, users, cfg)

	// Graceful shutdown
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Let a running import commit or roll back before the pool closes.
		if err := service.WaitForImports(shutdownCtx); err != nil {
			slog.Warn("import did not complete in time", "error", err)
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-stopped
	slog.Info("server stopped")
}
