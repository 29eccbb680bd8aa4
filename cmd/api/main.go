package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"eventticketing/config"
	_ "eventticketing/docs"
	"eventticketing/internal/adapters/auth"
	"eventticketing/internal/adapters/barcode"
	"eventticketing/internal/adapters/email"
	deliveryhttp "eventticketing/internal/delivery/http"
	"eventticketing/internal/delivery/http/controllers"
	"eventticketing/internal/delivery/http/middleware"
	"eventticketing/internal/domain"
	"eventticketing/internal/repository/postgres"
	"eventticketing/internal/services"
)

// @title Event Ticketing API
// @version 1.0
// @description Ticket issuance and redemption service.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey ScannerKeyAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey IssueKeyAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()
	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}
	cancel()

	// Repositories
	ticketRepo := postgres.NewTicketRepository(db)
	typeRepo := postgres.NewTicketTypeRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	keyRepo := postgres.NewScannerKeyRepository(db)
	adminRepo := postgres.NewAdminRepository(db)

	// Adapters
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretKey,
		},
	}, logger)
	if err != nil {
		logger.Error("init mailer", "err", err)
		os.Exit(1)
	}
	renderer := email.NewTemplateRenderer()

	var barcodeGen domain.BarcodeGenerator = barcode.NoopGenerator{}
	if cfg.BarcodeURLTemplate != "" {
		gen, err := barcode.NewURLGenerator(cfg.BarcodeURLTemplate)
		if err != nil {
			logger.Warn("invalid barcode URL template, barcodes disabled", "err", err)
		} else {
			barcodeGen = gen
		}
	}

	jwtAuth := auth.NewJWTAuth(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(0)

	// Services
	emailSvc := services.NewEmailService(mailer, renderer, logger)
	redemptionSvc := services.NewRedemptionService(ticketRepo, keyRepo)
	issuanceSvc := services.NewIssuanceService(ticketRepo, typeRepo, eventRepo, emailSvc, barcodeGen, logger, cfg.PublicBaseURL)
	authSvc := services.NewAuthService(adminRepo, hasher, jwtAuth)

	// Seed the bootstrap admin so /admin/* is usable on a fresh database.
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := authSvc.EnsureAdmin(bootCtx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			bootCancel()
			logger.Error("bootstrap admin", "err", err)
			os.Exit(1)
		}
		bootCancel()
	}

	// Optional Redis-backed rate limiter on the validate endpoint.
	var rateLimit func(http.HandlerFunc) http.HandlerFunc
	if cfg.RedisAddr != "" && cfg.RateLimitPerMinute > 0 {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unreachable, rate limiting disabled", "err", err)
		} else {
			rateLimit = middleware.RateLimit(&middleware.RedisCounter{Client: redisClient}, cfg.RateLimitPerMinute, logger)
			defer redisClient.Close()
		}
	}

	mux := deliveryhttp.NewRouter(deliveryhttp.RouterConfig{
		Tickets:   controllers.NewTicketController(logger, redemptionSvc, issuanceSvc),
		Admin:     controllers.NewAdminController(logger, redemptionSvc),
		Auth:      controllers.NewAuthController(logger, authSvc),
		Health:    controllers.NewHealthController(db),
		Verifier:  jwtAuth,
		IssueKey:  cfg.IssueAPIKey,
		RateLimit: rateLimit,
	})

	handler := middleware.Logging(logger, mux)
	if len(cfg.CORSAllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server startup failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "err", err)
		os.Exit(1)
	}
	logger.Info("server exiting")
}
