// Command console serves the admin console: login, session expiry, route
// permissions and user management over HTTP.
//
// @title                       Admin Console API
// @version                     1.0
// @description                 Session, permission and user management surface of the admin console.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/99minutos/admin-console/internal/api"
	"github.com/99minutos/admin-console/internal/api/handler"
	"github.com/99minutos/admin-console/internal/api/middleware"
	"github.com/99minutos/admin-console/internal/core/ports"
	"github.com/99minutos/admin-console/internal/core/service"
	"github.com/99minutos/admin-console/internal/infrastructure/config"
	"github.com/99minutos/admin-console/internal/infrastructure/db/memory"
	mongostore "github.com/99minutos/admin-console/internal/infrastructure/db/mongo"
	redisstore "github.com/99minutos/admin-console/internal/infrastructure/db/redis"
	"github.com/99minutos/admin-console/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
)

// sessionStorage is a key-value backend the readiness probe can ping.
type sessionStorage interface {
	ports.KeyValueStore
	handler.Pinger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{})
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "admin-console",
	})

	storage, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("failed to open session storage")
	}
	defer closeStorage()

	seed, err := memory.SeedUsers(cfg.MockAPI.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed users")
	}

	mockAPI := service.NewMockAPI(memory.NewUserStore(seed), service.MockAPIOptions{
		LatencyMin: cfg.MockAPI.LatencyMin,
		LatencyMax: cfg.MockAPI.LatencyMax,
		FailNext:   cfg.MockAPI.FailNext,
		BcryptCost: cfg.MockAPI.BcryptCost,
	}, logger.Component("mock_api"))

	sessions := service.NewSessionManager(mockAPI, storage, service.AuthStoreOptions{
		SessionTimeout: cfg.Session.Timeout,
	}, logger.Component("auth_store"))
	// a forgotten client is restored from its persisted snapshot if it returns
	go sessions.RunSweeper(ctx, sweepInterval, cfg.Session.Timeout)

	e := api.NewRouter(api.Deps{
		API:         mockAPI,
		Sessions:    sessions,
		Guard:       service.NewRouteGuard(logger.Component("route_guard")),
		Layouts:     service.NewLayoutLoader(logger.Component("layout_loader")),
		Tokens:      middleware.NewTokens(cfg.JWTSecret, cfg.Session.TokenTTL),
		Health:      map[string]handler.Pinger{cfg.Storage.Driver: storage},
		Log:         logger.Component("http"),
		Development: cfg.IsDevelopment(),
	})

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("storage", cfg.Storage.Driver).
			Dur("session_timeout", cfg.Session.Timeout).
			Msg("console listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (sessionStorage, func(), error) {
	log := logger.Component("storage")

	switch cfg.Storage.Driver {
	case config.StorageRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				log.Warn().Err(err).Msg("closing redis client")
			}
		}
		return redisstore.NewKeyValueStore(client, cfg.Redis.Prefix, cfg.Session.TokenTTL), closeFn, nil

	case config.StorageMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				log.Warn().Err(err).Msg("disconnecting mongo client")
			}
		}
		return mongostore.NewKeyValueStore(db), closeFn, nil

	default:
		return memory.NewKeyValueStore(), func() {}, nil
	}
}
