package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"request-logger/internal/config"
	"request-logger/internal/notify"
	"request-logger/internal/repository"
	"request-logger/internal/server"
	users "request-logger/internal/userService"
	"request-logger/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("invalid configuration", map[string]any{"error": err.Error()})
	}
	utils.Configure(os.Stdout, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := notify.NewBus()

	repo, closeRepo, err := openRepo(ctx, cfg.DB, bus)
	if err != nil {
		utils.Fatal("failed to open user store", map[string]any{"error": err.Error()})
	}
	defer closeRepo()

	rl, err := server.NewRequestLogger(cfg.RequestLog, bus)
	if err != nil {
		utils.Fatal("failed to build request logger", map[string]any{"error": err.Error()})
	}
	defer rl.Close()

	router := server.SetupRouter(users.NewUserService(repo), rl)

	srv := &http.Server{
		Addr:              cfg.App.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			utils.Error("graceful shutdown failed", map[string]any{"error": err.Error()})
		}
	}()

	utils.Info("starting users server", map[string]any{
		"addr":  srv.Addr,
		"sink":  cfg.RequestLog.Sink,
		"store": storeKind(cfg.DB),
	})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		utils.Fatal("server stopped", map[string]any{"error": err.Error()})
	}
}

// openRepo returns the Postgres store when a database URL is configured and
// an instrumented in-memory store otherwise. Both report query timings on bus.
func openRepo(ctx context.Context, db config.DBConfig, bus *notify.Bus) (repository.UserDB, func(), error) {
	if db.URL == "" {
		return repository.NewInstrumentedRepo(repository.NewMemoryRepo(), bus), func() {}, nil
	}

	repo, err := repository.NewPostgresRepo(ctx, db.URL, bus)
	if err != nil {
		return nil, nil, err
	}
	return repo, repo.Close, nil
}

func storeKind(db config.DBConfig) string {
	if db.URL == "" {
		return "memory"
	}
	return "postgres"
}
