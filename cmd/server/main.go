package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cuentos-server/internal/config"
	"cuentos-server/internal/email"
	"cuentos-server/internal/handler"
	"cuentos-server/internal/messaging"
	"cuentos-server/internal/payment"
	"cuentos-server/internal/realtime"
	"cuentos-server/internal/repository"
	"cuentos-server/internal/service"
	"cuentos-server/migrations"
	"cuentos-server/pkg/database"
	"cuentos-server/pkg/logger"
	"cuentos-server/pkg/migration"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, relying on the environment")
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	log, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: "json",
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)
	zap.L().Info("Logger initialized", zap.String("logLevel", cfg.LogLevel))

	// --- External Connections ---
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgPool, err := database.NewPool(ctx, database.Config{
		DSN:         cfg.GetDSN(),
		MaxConns:    cfg.DBMaxConns,
		IdleTimeout: cfg.DBIdleTimeout,
	})
	if err != nil {
		zap.L().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgPool.Close()
	zap.L().Info("Connected to PostgreSQL")

	migrator := migration.NewMigrator(migration.Config{
		MigrationsPath: ".",
		MigrationsFS:   migrations.FS,
	}, pgPool)
	if err := migrator.Up(ctx); err != nil {
		zap.L().Fatal("Failed to apply database migrations", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		// The rate limiter degrades to allow-all without redis, keep booting.
		zap.L().Warn("Redis unavailable at startup, intake rate limiting degraded", zap.Error(err))
	} else {
		zap.L().Info("Connected to Redis")
	}
	defer redisClient.Close()

	mqConn, err := connectRabbitMQ(cfg.RabbitMQURL, log)
	if err != nil {
		zap.L().Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer mqConn.Close()
	zap.L().Info("Connected to RabbitMQ")

	// --- Dependency Injection ---
	requestRepo := repository.NewPgRequestRepository(pgPool, log)
	optionRepo := repository.NewPgPlotOptionRepository(pgPool, log)

	sender, err := email.NewHTTPSender(cfg.EmailAPIBaseURL, cfg.EmailAPIKey, cfg.EmailFrom, cfg.EmailTimeout, log)
	if err != nil {
		zap.L().Fatal("Failed to create email sender", zap.Error(err))
	}
	gateway, err := payment.NewHTTPGateway(cfg.PaymentAPIBaseURL, cfg.PaymentAccessToken, cfg.PaymentTimeout, log)
	if err != nil {
		zap.L().Fatal("Failed to create payment gateway", zap.Error(err))
	}
	publisher, err := messaging.NewRabbitMQChangePublisher(mqConn, cfg.ChangeEventQueue)
	if err != nil {
		zap.L().Fatal("Failed to create change publisher", zap.Error(err))
	}

	svc := service.NewRequestService(requestRepo, optionRepo, sender, gateway, publisher,
		service.Options{
			PublicBaseURL: cfg.PublicBaseURL,
			PriceAmount:   cfg.StoryPriceAmount,
			PriceCurrency: cfg.StoryPriceCurrency,
			StaffEmail:    cfg.StaffEmail,
		}, log)

	// --- Realtime Feed ---
	hub := realtime.NewHub()
	wsLogger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerologlog.Logger = wsLogger
	wsHandler := realtime.NewWebSocketHandler(hub, wsLogger)

	consumer, err := realtime.NewConsumer(mqConn, hub, cfg.ChangeEventQueue)
	if err != nil {
		zap.L().Fatal("Failed to create change-event consumer", zap.Error(err))
	}

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(handler.ZapLoggingMiddleware(log))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.PublicBaseURL}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	rateLimit := handler.NewIntakeRateLimit(redisClient, uint(cfg.IntakeRateLimit), cfg.IntakeRateWindow, log)
	requestHandler := handler.NewRequestHandler(svc, log)
	requestHandler.RegisterRoutes(router, rateLimit)

	router.GET("/ws/dashboard", func(c *gin.Context) {
		wsHandler.ServeWS(c.Writer, c.Request)
	})

	p := ginprometheus.NewPrometheus("gin")
	p.Use(router)

	// --- Start Background Workers ---
	go func() {
		zap.L().Info("Starting change-event consumer...")
		if err := consumer.StartConsuming(); err != nil {
			zap.L().Error("Change-event consumer stopped with error", zap.Error(err))
		} else {
			zap.L().Info("Change-event consumer stopped gracefully")
		}
	}()

	// --- Start HTTP Server ---
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	zap.L().Info("Starting HTTP server", zap.String("port", cfg.Port))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("HTTP server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down server...")

	consumer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}

// connectRabbitMQ dials the broker with retries; the broker routinely comes up
// after the service in compose environments.
func connectRabbitMQ(url string, log *zap.Logger) (*amqp091.Connection, error) {
	var conn *amqp091.Connection
	var err error
	maxRetries := 50
	retryDelay := 5 * time.Second

	log.Info("Attempting to connect to RabbitMQ",
		zap.Int("max_retries", maxRetries), zap.Duration("retry_delay", retryDelay))

	for i := 0; i < maxRetries; i++ {
		attempt := i + 1
		conn, err = amqp091.Dial(url)
		if err == nil {
			log.Info("Connected to RabbitMQ", zap.Int("attempt", attempt))
			go func() {
				notifyClose := make(chan *amqp091.Error)
				conn.NotifyClose(notifyClose)
				if closeErr := <-notifyClose; closeErr != nil {
					log.Error("RabbitMQ connection closed unexpectedly", zap.Error(closeErr))
				} else {
					log.Info("RabbitMQ connection closed gracefully")
				}
			}()
			return conn, nil
		}
		log.Warn("RabbitMQ connection failed, retrying...",
			zap.Int("attempt", attempt), zap.Int("max_attempts", maxRetries), zap.Error(err))
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxRetries, err)
}
