// Package agroclima wires the application together: record store,
// migrations, cache, services and the HTTP server.
//
// When the storage connection string or the token secret is missing the
// application still starts, but every identity and record operation is
// served by a stub that reports the missing configuration instead of
// failing on a dead connection.
package agroclima

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/agroclima/agroclima-pro/internal/cache"
	"github.com/agroclima/agroclima-pro/internal/config"
	"github.com/agroclima/agroclima-pro/internal/lib/jwt"
	"github.com/agroclima/agroclima-pro/internal/migrations"
	accountservice "github.com/agroclima/agroclima-pro/internal/services/account"
	subservice "github.com/agroclima/agroclima-pro/internal/services/subscription"
	"github.com/agroclima/agroclima-pro/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage // nil in unconfigured mode
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	var (
		accountRepo  accountservice.AccountRepository
		subRepo      subservice.SubscriptionRepository
		profileCache accountservice.Cache
		db           *repository.Storage
		readyCheck   func() error
	)

	if cfg.Configured() {
		storage, err := repository.New(cfg.StorageConnectionString)
		if err != nil {
			return nil, err
		}
		if err = migrations.Run(storage.DB, cfg.MigrationsPath); err != nil {
			return nil, err
		}
		db = storage
		accountRepo = storage
		subRepo = storage
		readyCheck = func() error { return repository.CheckDatabaseReady(storage) }

		if cfg.AddressRedis != "" {
			cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
			if err != nil {
				return nil, err
			}
			profileCache = cacheRedis
		} else {
			profileCache = cache.NewNoop()
		}
	} else {
		logger.Warn("storage or token secret missing, starting in unconfigured mode")
		stub := repository.NewUnconfigured()
		accountRepo = stub
		subRepo = stub
		profileCache = cache.NewNoop()
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	accountService := accountservice.NewAccountService(accountRepo, profileCache, jwtMaker, logger)
	subscriptionService := subservice.NewSubscriptionService(subRepo, profileCache, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, jwtMaker, accountService, subscriptionService, readyCheck)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.db != nil {
			a.db.DB.Close()
		}
		return err
	}
}
