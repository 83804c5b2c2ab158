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

	"golang.org/x/sync/errgroup"

	"github.com/inventox/inventox/internal/app"
	"github.com/inventox/inventox/internal/auth"
	"github.com/inventox/inventox/internal/platform/cache"
	"github.com/inventox/inventox/internal/platform/db"
	"github.com/inventox/inventox/internal/rbac"
	"github.com/inventox/inventox/internal/settings"
	"github.com/inventox/inventox/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	var throttle *auth.LoginThrottle
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// The throttle fails open without Redis; logins still work.
		logger.Warn("redis unavailable, login throttle disabled", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		throttle = auth.NewLoginThrottle(redisClient, cfg.LoginAttemptLimit, cfg.LoginAttemptWindow)
	}

	issuer := auth.NewIssuer(cfg.JWTSecret)
	guard := rbac.Middleware{Verifier: issuer, Logger: logger}

	settingsService := settings.NewService(settings.NewRepository(pool))
	authService := auth.NewService(auth.NewRepository(pool), settingsService, issuer, throttle, logger)
	usersService := users.NewService(users.NewRepository(pool))

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AuthHandler:     auth.NewHandler(logger, authService, guard),
		SettingsHandler: settings.NewHandler(logger, settingsService, guard),
		UsersHandler:    users.NewHandler(logger, usersService, guard),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
