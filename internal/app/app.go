package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/subtally/subtally/internal/adapter/postgres"
	subrepo "github.com/subtally/subtally/internal/adapter/postgres/subscription"
	tokenrepo "github.com/subtally/subtally/internal/adapter/postgres/token"
	userrepo "github.com/subtally/subtally/internal/adapter/postgres/user"
	"github.com/subtally/subtally/internal/auth"
	"github.com/subtally/subtally/internal/config"
	authsvc "github.com/subtally/subtally/internal/service/auth"
	subsvc "github.com/subtally/subtally/internal/service/subscription"
	"github.com/subtally/subtally/internal/transport/middleware"
	"github.com/subtally/subtally/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires services and transport, and serves HTTP until ctx is
// canceled, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Database.Migrate {
		if err := postgres.Migrate(cfg.Database.DSN); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	users := userrepo.New(pool)
	tokens := tokenrepo.New(pool)
	subs := subrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	authService := authsvc.NewService(logger, users, tokens, txManager, jwtManager, cfg.Auth)
	subService := subsvc.NewService(logger, subs)

	listener := postgres.NewListener(cfg.Database.DSN, logger)
	listenCtx, stopListener := context.WithCancel(context.Background())
	defer stopListener()
	go listener.Run(listenCtx)

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	router := rest.NewRouter(rest.RouterDeps{
		Auth:          rest.NewAuthHandler(authService, logger),
		Subscriptions: rest.NewSubscriptionHandler(subService, logger),
		Events:        rest.NewEventsHandler(listener, logger),
		Sync:          rest.NewSyncHandler(subService, cfg.Sync.CronSecret, cfg.Sync.WindowDays, logger),
		Webhook:       rest.NewWebhookHandler(logger),
		Health:        rest.NewHealthHandler(pool),
		Validator:     authService,
		Logger:        logger,
		Limiter:       limiter,
	}, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}
