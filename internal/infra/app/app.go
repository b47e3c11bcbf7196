package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ruslanmv/medical-ai-hospital/internal/core/port"
	"github.com/ruslanmv/medical-ai-hospital/internal/infra/config"
	"github.com/ruslanmv/medical-ai-hospital/internal/infra/database"
	kafkainfra "github.com/ruslanmv/medical-ai-hospital/internal/infra/kafka"
	"github.com/ruslanmv/medical-ai-hospital/internal/infra/logger"
	"github.com/ruslanmv/medical-ai-hospital/internal/infra/mail"
	"github.com/ruslanmv/medical-ai-hospital/internal/infra/mcp"
	redisinfra "github.com/ruslanmv/medical-ai-hospital/internal/infra/redis"
	"github.com/ruslanmv/medical-ai-hospital/internal/infra/security"
	postgresrepo "github.com/ruslanmv/medical-ai-hospital/internal/repository/postgres"
	redisrepo "github.com/ruslanmv/medical-ai-hospital/internal/repository/redis"
	"github.com/ruslanmv/medical-ai-hospital/internal/transport/http/middleware"
	"github.com/ruslanmv/medical-ai-hospital/internal/transport/http/routes"
	"github.com/ruslanmv/medical-ai-hospital/internal/usecase"
)

// Application bundles the wired gateway and the resources it owns.
type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
}

// New assembles the gateway from configuration: storage, event publisher,
// mailer, upstream tool client, services, and the HTTP router.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if err := security.ConfigureArgon2(security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}); err != nil {
		return nil, fmt.Errorf("configure argon2: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	if cfg.Postgres.RunMigrations {
		if err := database.RunMigrations(ctx, pool, log); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
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

	var mailer port.Mailer
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTP, log)
	} else {
		mailer = mail.NewLogMailer(log)
	}

	users := postgresrepo.NewUserRepository(pool)
	sessionRepo := postgresrepo.NewSessionRepository(pool)
	resetRepo := postgresrepo.NewResetTokenRepository(pool)
	patientRepo := postgresrepo.NewPatientRepository(pool)
	clinicalRepo := postgresrepo.NewClinicalRepository(pool)

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: "gateway:rate-limit",
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{Namespace: "gateway"})
	if err != nil {
		_ = redisClient.Close()
		pool.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	validator := security.BuildPasswordValidator(security.PasswordPolicyConfig{
		MinLength:        cfg.Password.MinLength,
		MinStrengthScore: cfg.Password.MinStrengthScore,
	})

	sessions := usecase.NewSessionService(sessionRepo, eventPublisher, log).
		WithTTL(cfg.Session.TTL)
	auth := usecase.NewAuthService(users, sessions, eventPublisher, validator, log)
	resets := usecase.NewPasswordResetService(users, resetRepo, sessions, mailer, eventPublisher, validator, cfg.Frontend.BaseURL, log).
		WithTTL(cfg.Reset.TTL)
	patients := usecase.NewPatientService(patientRepo, clinicalRepo, log)
	chat := usecase.NewChatService(mcp.NewClient(cfg.MCP, log), log)

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Metrics:     metrics,
		Database:    pool,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Auth:          auth,
			Sessions:      sessions,
			PasswordReset: resets,
			Patients:      patients,
			Chat:          chat,
		},
	})

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully
// and releases owned resources.
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
			if err := a.producer.Close(); err != nil {
				a.logger.Warn("failed to close kafka producer", zap.Error(err))
			}
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

	a.logger.Info("starting hospital gateway",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
