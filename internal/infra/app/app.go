package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-admin/internal/core/port"
	"github.com/arklim/social-platform-admin/internal/infra/config"
	"github.com/arklim/social-platform-admin/internal/infra/database"
	kafkainfra "github.com/arklim/social-platform-admin/internal/infra/kafka"
	"github.com/arklim/social-platform-admin/internal/infra/logger"
	redisinfra "github.com/arklim/social-platform-admin/internal/infra/redis"
	"github.com/arklim/social-platform-admin/internal/infra/security"
	"github.com/arklim/social-platform-admin/internal/infra/telemetry"
	postgresrepo "github.com/arklim/social-platform-admin/internal/repository/postgres"
	redisrepo "github.com/arklim/social-platform-admin/internal/repository/redis"
	"github.com/arklim/social-platform-admin/internal/transport/http/routes"
	"github.com/arklim/social-platform-admin/internal/usecase"
)

type Application struct {
	cfg       *config.AppConfig
	engine    *gin.Engine
	logger    *zap.Logger
	pool      *pgxpool.Pool
	redis     *redisinfra.Client
	producer  *kafkainfra.Producer
	telemetry *telemetry.Provider
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	tel, err := telemetry.Attach(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	rotationCfg := security.RotationArgon2Config()
	if cfg.Argon2.RotationMemory > 0 {
		rotationCfg.Memory = cfg.Argon2.RotationMemory
	}
	if cfg.Argon2.RotationIterations > 0 {
		rotationCfg.Iterations = cfg.Argon2.RotationIterations
	}
	if cfg.Argon2.Parallelism > 0 {
		rotationCfg.Parallelism = cfg.Argon2.Parallelism
	}
	if cfg.Argon2.SaltLength > 0 {
		rotationCfg.SaltLength = cfg.Argon2.SaltLength
	}
	if cfg.Argon2.KeyLength > 0 {
		rotationCfg.KeyLength = cfg.Argon2.KeyLength
	}

	hasher, err := security.NewArgon2Hasher(rotationCfg)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init hasher: %w", err)
	}

	var producer *kafkainfra.Producer
	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	repos := postgresrepo.NewRepositories(pool)
	sessionRegistry := redisrepo.NewSessionRegistry(redisClient.Client(), cfg.Session.KeyPrefix)

	accountService := usecase.NewAccountService(
		repos.Admins,
		sessionRegistry,
		repos.Activity,
		eventPublisher,
		hasher,
		security.DefaultPasswordValidator(),
		log,
	)

	engine := routes.Register(routes.Dependencies{
		Config:   cfg,
		Logger:   log,
		Accounts: accountService,
		Sessions: sessionRegistry,
		Database: pool,
		Cache:    redisClient,
	})

	return &Application{
		cfg:       cfg,
		engine:    engine,
		logger:    log,
		pool:      pool,
		redis:     redisClient,
		producer:  producer,
		telemetry: tel,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			_ = a.producer.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting HTTP server", zap.String("address", srv.Addr))
		a.telemetry.SetServing(true)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("run http server: %w", err)
		}
	}()
	defer a.telemetry.SetServing(false)

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	a.logger.Info("HTTP server stopped")
	return nil
}
