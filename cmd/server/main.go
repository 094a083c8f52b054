package main

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/redshot/mern-auth-server/api"
	"github.com/redshot/mern-auth-server/config"
	"github.com/redshot/mern-auth-server/flow"
	"github.com/redshot/mern-auth-server/health"
	"github.com/redshot/mern-auth-server/logger"
	"github.com/redshot/mern-auth-server/mailer"
	"github.com/redshot/mern-auth-server/persistence"
	"github.com/redshot/mern-auth-server/session"
)

const version = "1.0.0"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger.InitLogger(cfg.LogLevel)
	defer logger.Log.Sync()

	logger.Log.Info("Starting Auth Server",
		zap.Int("port", cfg.Port),
		zap.String("db_type", cfg.DBType),
	)

	// Storage
	store, err := persistence.NewStorage(cfg.DBType, cfg.DSN, nil)
	if err != nil {
		logger.Log.Fatal("failed to initialize storage", zap.Error(err))
	}

	// Mail dispatch runs outside the request path.
	smtp := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	dispatcher := mailer.NewDispatcher(smtp, logger.Log, 256)
	dispatcher.Start()
	defer dispatcher.Close()

	// Flows
	hasher := flow.NewBcryptHasher(14)
	issuer := flow.NewTokenIssuer([]byte(cfg.SigningKey), cfg.TokenTTL, cfg.ClockSkew)

	signupManager := flow.NewSignupManager(store, hasher, issuer, dispatcher, cfg.ClientURL)
	activationManager := flow.NewActivationManager(store, issuer)
	activationManager.SetIDGenerator(func() string { return uuid.New().String() })
	loginManager := flow.NewLoginManager(store, hasher)

	sessionManager := session.NewManager(session.NewHS256Strategy([]byte(cfg.SigningKey), cfg.SessionTTL))

	// Health checks
	healthManager := health.NewManager(version, 0)
	if repo, ok := store.(*persistence.Repository); ok {
		healthManager.Register("database", func(ctx context.Context) error {
			db, err := repo.DB().DB()
			if err != nil {
				return err
			}
			return db.PingContext(ctx)
		})
	}

	// Signup rate limiting: Redis when configured, in-memory otherwise.
	var limiter flow.RateLimiter = flow.NewMemoryRateLimiter()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter = flow.NewRedisRateLimiter(client, "")
		healthManager.Register("redis", func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	}
	signupManager.SetRateLimit(limiter, cfg.SignupRateLimit, cfg.SignupRateWindow)

	// Handler
	h := api.NewHandler(signupManager, activationManager, loginManager, sessionManager)
	h.SetHealthManager(healthManager)

	// Setup Echo
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	g := e.Group("/api")
	h.RegisterRoutes(g)

	logger.Log.Info("Server is starting", zap.Int("port", cfg.Port))
	if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		logger.Log.Fatal("server failed to start", zap.Error(err))
	}
}
