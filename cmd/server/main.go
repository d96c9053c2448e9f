package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/segyhp/pension-verification/internal/auth"
	"github.com/segyhp/pension-verification/internal/config"
	"github.com/segyhp/pension-verification/internal/facematch"
	"github.com/segyhp/pension-verification/internal/handler"
	"github.com/segyhp/pension-verification/internal/mailer"
	"github.com/segyhp/pension-verification/internal/ratelimit"
	"github.com/segyhp/pension-verification/internal/repository"
	"github.com/segyhp/pension-verification/internal/service"
	"github.com/segyhp/pension-verification/internal/storage"
	"github.com/segyhp/pension-verification/pkg/logger"
	"github.com/segyhp/pension-verification/pkg/metrics"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(ctx, "failed to load configuration", "error", err)
	}

	if err := logger.Init(cfg.LoggerConfig()); err != nil {
		logger.Fatal(ctx, "failed to initialize logger", "error", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize database", "error", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient, err := initRedis(cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize redis", "error", err)
	}
	defer redisClient.Close()

	// Initialize object storage
	store, err := storage.NewS3Store(storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		UseSSL:    cfg.Storage.UseSSL,
		Versioned: cfg.Storage.Versioned,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to initialize object storage", "error", err)
	}
	if err := store.EnsureBucket(ctx, cfg.Storage.Region); err != nil {
		logger.Fatal(ctx, "failed to prepare storage bucket", "bucket", cfg.Storage.Bucket, "error", err)
	}

	var matcher facematch.Matcher
	if cfg.FaceMatch.Enabled {
		matcher = facematch.NewClient(cfg.FaceMatch.URL, cfg.FaceMatch.APIKey, cfg.GetFaceMatchTimeout())
	}

	m := metrics.New()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.GetJWTTTL())

	// Initialize repositories
	pensionerRepo := repository.NewPensionerRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	logRepo := repository.NewVerificationLogRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	// Initialize services
	clock := service.Clock(time.Now)
	authService := service.NewAuthService(staffRepo, pensionerRepo, tokens, clock)
	pensionerService := service.NewPensionerService(pensionerRepo, clock)
	verificationService := service.NewVerificationService(pensionerRepo, reviewRepo, logRepo, mailer.New(cfg.MailerConfig()), m, clock)
	benefitService := service.NewBenefitService(pensionerRepo, m, cfg.Business.CurrencyLocale)
	documentService := service.NewDocumentService(pensionerRepo, documentRepo, store, matcher, m, clock)

	if cfg.Auth.BootstrapAdminEmail != "" && cfg.Auth.BootstrapAdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPassword); err != nil {
			logger.Fatal(ctx, "failed to create bootstrap admin", "error", err)
		}
	}

	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewRedisLimiter(redisClient)
	}
	trustedProxies, err := cfg.GetTrustedProxies()
	if err != nil {
		logger.Fatal(ctx, "invalid trusted proxies", "error", err)
	}

	// Setup routes
	router := handler.NewRouter(handler.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Pensioner:    handler.NewPensionerHandler(pensionerService),
		Verification: handler.NewVerificationHandler(verificationService),
		Benefit:      handler.NewBenefitHandler(benefitService),
		Document:     handler.NewDocumentHandler(documentService, cfg.Server.MaxUploadBytes),
		Health:       handler.NewHealthHandler(db, redisClient, store, cfg.GetHealthTimeout()),
	}, handler.RouterConfig{
		Verifier:       tokens,
		Limiter:        limiter,
		APILimit:       ratelimit.PerMinute(cfg.RateLimit.APIPerMinute),
		LoginLimit:     ratelimit.PerMinute(cfg.RateLimit.LoginPerMinute),
		TrustedProxies: trustedProxies,
		CORSOrigins:    cfg.GetCORSOrigins(),
		Metrics:        m,
	})

	// Start server
	readTimeout, writeTimeout, idleTimeout := cfg.GetServerTimeouts()
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	go func() {
		logger.Info(ctx, "server starting", "addr", server.Addr, "env", cfg.Server.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "server failed to start", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.GetShutdownTimeout())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "server forced to shutdown", "error", err)
	}

	logger.Info(ctx, "server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func initRedis(cfg *config.Config) (*redis.Client, error) {
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		return redis.NewClient(opts), nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}), nil
}
