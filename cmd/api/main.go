package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/energydash/energydash-go/internal/config"
	"github.com/energydash/energydash-go/internal/crypto"
	"github.com/energydash/energydash-go/internal/handler"
	"github.com/energydash/energydash-go/internal/middleware"
	"github.com/energydash/energydash-go/internal/model"
	"github.com/energydash/energydash-go/internal/repository"
	"github.com/energydash/energydash-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg)

	ctx := context.Background()

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Migrate {
		if err := repository.RunMigrations(ctx, db); err != nil {
			slog.Error("migrations failed", "error", err)
			os.Exit(1)
		}
	}

	tokens, err := crypto.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.JWTExpiry())
	if err != nil {
		slog.Error("token service", "error", err)
		os.Exit(1)
	}
	hasher := crypto.NewPasswordHasher(crypto.DefaultHashParams())

	authService := service.NewAuthService(repository.NewUserRepository(db), hasher, tokens)
	energyService := service.NewEnergyService(repository.NewEnergyRepository(db), model.DefaultSources)

	router := handler.NewRouter(handler.RouterConfig{
		Auth:               handler.NewAuthHandler(authService),
		Energy:             handler.NewEnergyHandler(energyService),
		Health:             handler.NewHealthHandler(db),
		Metrics:            middleware.NewMetrics(),
		Tokens:             tokens,
		Users:              authService,
		CORSOrigins:        cfg.CORSOrigins,
		AuthRateLimitRPS:   cfg.AuthRateLimitRPS,
		AuthRateLimitBurst: cfg.AuthRateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func setupLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
