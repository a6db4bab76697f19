package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"careerhub-api/internal/adapters/cache"
	"careerhub-api/internal/adapters/messaging"
	"careerhub-api/internal/adapters/persistence/models"
	"careerhub-api/internal/app"
	"careerhub-api/internal/config"
	"careerhub-api/internal/core/services"
	"careerhub-api/internal/logger"
	"careerhub-api/internal/pkg/password"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "careerhub-api/docs" // Swagger docs
)

// @title CareerHub API
// @version 1.0
// @description Courses, progress tracking, certificates and referrals
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@careerhub.dev

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// Connect to database
	db, err := config.ConnectDatabase(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := config.CloseDatabase(db); err != nil {
			zlog.Warn("error closing database", zap.Error(err))
		}
	}()

	if err := models.AutoMigrate(db); err != nil {
		zlog.Fatal("failed to auto migrate", zap.Error(err))
	}
	zlog.Info("database migration completed")

	if cfg.IsDev() {
		seeder := config.NewSeeder(db, cfg, zlog, password.NewHasher(cfg.JWT.BcryptCost))
		if err := seeder.Run(context.Background()); err != nil {
			zlog.Warn("seeding failed", zap.Error(err))
		}
	}

	publisher, err := newPublisher(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to create notification publisher", zap.Error(err))
	}

	verifyCache, closeCache := newVerificationCache(cfg, zlog)
	defer closeCache()

	application := app.New(cfg, db, publisher, verifyCache, zlog)
	if err := application.Start(); err != nil {
		zlog.Fatal("failed to start background workers", zap.Error(err))
	}

	// Graceful shutdown
	done := make(chan struct{})
	go gracefulShutdown(application, zlog, done)

	zlog.Info("server starting", zap.String("port", cfg.Port), zap.String("mode", cfg.AppMode))
	if err := application.Fiber.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
	<-done
}

// newPublisher picks the notification transport named by NOTIFY_DRIVER
func newPublisher(cfg *config.Config, log *zap.Logger) (services.Publisher, error) {
	switch cfg.Notify.Driver {
	case config.NotifyRabbitMQ:
		log.Info("notifications via rabbitmq", zap.String("queue", cfg.Notify.RabbitMQQueue))
		return messaging.NewRabbitMQPublisher(cfg.Notify.RabbitMQURL, cfg.Notify.RabbitMQQueue)
	case config.NotifyKafka:
		log.Info("notifications via kafka", zap.Strings("brokers", cfg.Notify.KafkaBrokers), zap.String("topic", cfg.Notify.KafkaTopic))
		return messaging.NewKafkaPublisher(cfg.Notify.KafkaBrokers, cfg.Notify.KafkaTopic), nil
	default:
		return messaging.NewLogPublisher(log), nil
	}
}

// newVerificationCache returns the redis cache when REDIS_ADDR is set. An
// unreachable redis degrades to no caching rather than failing startup.
func newVerificationCache(cfg *config.Config, log *zap.Logger) (services.VerificationCache, func()) {
	if cfg.Redis.Addr == "" {
		return cache.Nop{}, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, certificate verification cache disabled", zap.Error(err))
		_ = client.Close()
		return cache.Nop{}, func() {}
	}

	log.Info("certificate verification cache enabled", zap.String("addr", cfg.Redis.Addr))
	return cache.NewCertificateCache(client), func() { _ = client.Close() }
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(application *app.App, log *zap.Logger, done chan<- struct{}) {
	defer close(done)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := application.Shutdown(ctx); err != nil {
		log.Error("error during shutdown", zap.Error(err))
		return
	}
	log.Info("server stopped gracefully")
}
