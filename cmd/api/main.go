// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/carterperez-dev/homemgmt/internal/admin"
	"github.com/carterperez-dev/homemgmt/internal/auth"
	"github.com/carterperez-dev/homemgmt/internal/catalog"
	"github.com/carterperez-dev/homemgmt/internal/config"
	"github.com/carterperez-dev/homemgmt/internal/core"
	"github.com/carterperez-dev/homemgmt/internal/entity"
	"github.com/carterperez-dev/homemgmt/internal/health"
	"github.com/carterperez-dev/homemgmt/internal/homeassistant"
	"github.com/carterperez-dev/homemgmt/internal/metrics"
	"github.com/carterperez-dev/homemgmt/internal/middleware"
	"github.com/carterperez-dev/homemgmt/internal/migrations"
	"github.com/carterperez-dev/homemgmt/internal/notify"
	"github.com/carterperez-dev/homemgmt/internal/room"
	"github.com/carterperez-dev/homemgmt/internal/server"
	"github.com/carterperez-dev/homemgmt/internal/store/memory"
	"github.com/carterperez-dev/homemgmt/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	genKeys := flag.Bool("generate-keys", false, "write a new session signing key pair and exit")
	flag.Parse()

	if err := run(*configPath, *genKeys); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// repositories is the storage backend every domain service runs on.
type repositories struct {
	users    user.Repository
	userTx   user.Transactor
	sessions auth.Repository
	rooms    room.Repository
	entities entity.Repository
	roomUoW  room.UnitOfWork
	services catalog.Repository
	probe    health.Checker
	stats    admin.HandlerConfig
	close    func() error
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string, genKeys bool) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log, cfg.IsDevelopment())
	slog.SetDefault(logger)

	if genKeys {
		if err := auth.GenerateKeyPair(cfg.Session.PrivateKeyPath, cfg.Session.PublicKeyPath); err != nil {
			return err
		}
		logger.Info("session key pair written",
			"private_key", cfg.Session.PrivateKeyPath,
			"public_key", cfg.Session.PublicKeyPath,
		)
		return nil
	}

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	repos, err := openRepositories(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redis != nil {
		logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)
	} else {
		logger.Info("redis disabled, rate limits are per process")
	}

	tokens, err := auth.NewTokenManager(cfg.Session)
	if err != nil {
		return err
	}
	logger.Info("session token manager initialized",
		"algorithm", "ES256",
		"key_id", tokens.GetKeyID(),
	)

	events := notify.Noop()
	if cfg.MQTT.Enabled {
		publisher, mqttErr := notify.Connect(cfg.MQTT)
		if mqttErr != nil {
			logger.Warn("mqtt unavailable, change events disabled", "error", mqttErr)
		} else {
			events = publisher
			logger.Info("mqtt connected", "broker", cfg.MQTT.Broker)
		}
	}

	homeAssistant := homeassistant.NewClient(cfg.HomeAssistant)
	if !homeAssistant.Configured() {
		logger.Info("home assistant url not set, live entity listing disabled")
	}

	userSvc := user.NewService(repos.users, repos.userTx, logger)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(repos.sessions, tokens, userSvc, logger)
	authHandler := auth.NewHandler(authSvc)

	entitySvc := entity.NewService(
		repos.entities,
		homeAssistant,
		events,
		cfg.Entities.DefaultRoomID,
		logger,
	)
	entityHandler := entity.NewHandler(entitySvc)

	roomSvc := room.NewService(repos.rooms, repos.entities, repos.roomUoW, events, logger)
	roomHandler := room.NewHandler(roomSvc, entityHandler.ListByRoom)

	catalogSvc := catalog.NewService(repos.services, userSvc, events, logger)
	catalogHandler := catalog.NewHandler(catalogSvc)

	if cfg.Bootstrap.AdminEmail != "" && cfg.Bootstrap.AdminPassword != "" {
		created, bootErr := userSvc.EnsureAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword)
		if bootErr != nil {
			return bootErr
		}
		if created {
			logger.Info("bootstrap administrator created", "email", cfg.Bootstrap.AdminEmail)
		}
	}

	var redisProbe health.Checker
	if redis != nil {
		redisProbe = redis
	}
	healthHandler := health.NewHandler(
		health.Probe{Name: "database", Checker: repos.probe},
		health.Probe{Name: "redis", Checker: redisProbe},
	)

	adminCfg := repos.stats
	adminCfg.RedisStats = redis.PoolStats
	adminCfg.RedisPing = redis.Ping
	adminCfg.Counters = map[string]admin.Counter{
		"users":    userSvc,
		"sessions": admin.CounterFunc(repos.sessions.CountValid),
		"rooms":    roomSvc,
		"entities": entitySvc,
		"services": catalogSvc,
	}
	adminHandler := admin.NewHandler(adminCfg)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Recoverer)
	router.Use(middleware.Logger(logger))
	router.Use(metrics.Instrument)
	router.Use(
		middleware.NewRateLimiter(redis.RawClient(), middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen:   true,
			BypassFunc: isInfraPath,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Handle("/metrics", metrics.Handler())
	router.Get("/.well-known/jwks.json", tokens.GetJWKSHandler())

	authenticator := middleware.Authenticator(authSvc)
	adminOnly := middleware.RequireAdmin
	loginLimiter := middleware.NewRateLimiter(redis.RawClient(), middleware.RateLimitConfig{
		Limit:    middleware.PerMinute(10, 5),
		KeyFunc:  middleware.KeyByIPAndPath,
		FailOpen: true,
	}).Handler

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator, adminOnly, loginLimiter)
		userHandler.RegisterRoutes(r, authenticator, adminOnly)
		roomHandler.RegisterRoutes(r, authenticator, adminOnly)
		entityHandler.RegisterRoutes(r, authenticator)
		catalogHandler.RegisterRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := events.Close(); err != nil {
		logger.Error("event publisher close error", "error", err)
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := repos.close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func openRepositories(
	ctx context.Context,
	cfg config.DatabaseConfig,
	logger *slog.Logger,
) (*repositories, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		store := memory.New()
		logger.Warn("using in-memory store, data is lost on restart")

		return &repositories{
			users:    store.Users(),
			userTx:   store.UserTransactor(),
			sessions: store.Sessions(),
			rooms:    store.Rooms(),
			entities: store.Entities(),
			roomUoW:  store.RoomUnitOfWork(),
			services: store.Services(),
			probe:    store,
			close:    func() error { return nil },
		}, nil

	case config.DriverPostgres, "":
		db, err := core.NewDatabase(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("database connected",
			"max_open_conns", cfg.MaxOpenConns,
			"max_idle_conns", cfg.MaxIdleConns,
		)

		if cfg.AutoMigrate {
			version, migErr := migrations.Apply(db.DB.DB)
			if migErr != nil {
				_ = db.Close() //nolint:errcheck // already failing
				return nil, migErr
			}
			logger.Info("database migrated", "version", version)
		}

		return &repositories{
			users:    user.NewRepository(db.DB),
			userTx:   user.NewTransactor(db),
			sessions: auth.NewRepository(db.DB),
			rooms:    room.NewRepository(db.DB),
			entities: entity.NewRepository(db.DB),
			roomUoW:  room.NewUnitOfWork(db),
			services: catalog.NewRepository(db.DB),
			probe:    db,
			stats: admin.HandlerConfig{
				DBStats: db.Stats,
				DBPing:  db.Ping,
			},
			close: db.Close,
		}, nil
	}

	return nil, fmt.Errorf("unknown database driver %q: %w", cfg.Driver, errors.ErrUnsupported)
}

func isInfraPath(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/livez", "/readyz", "/metrics":
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/.well-known/")
}

func setupLogger(cfg config.LogConfig, addSource bool) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level, AddSource: addSource}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
