package app

import (
	"context"
	"errors"

	"careerhub-api/internal/adapters/http/handlers"
	"careerhub-api/internal/adapters/http/middleware"
	"careerhub-api/internal/adapters/http/routes"
	"careerhub-api/internal/adapters/persistence/repositories"
	"careerhub-api/internal/config"
	"careerhub-api/internal/core/services"
	"careerhub-api/internal/pkg/jwt"
	"careerhub-api/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App owns the HTTP server and the background completion workers
type App struct {
	Fiber      *fiber.App
	Queue      *services.CompletionQueue
	Reconciler *services.ReconcileService
	Signer     *jwt.Signer
	Hasher     *password.Hasher

	publisher services.Publisher
	log       *zap.Logger
}

// New wires repositories, services, handlers and routes
func New(cfg *config.Config, db *gorm.DB, publisher services.Publisher, cache services.VerificationCache, log *zap.Logger) *App {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	courseRepo := repositories.NewCourseRepository(db)
	progressRepo := repositories.NewProgressRepository(db)
	certRepo := repositories.NewCertificateRepository(db)
	referralRepo := repositories.NewReferralRepository(db)

	// Collaborators
	signer := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.AccessTokenMins)
	hasher := password.NewHasher(cfg.JWT.BcryptCost)
	ids := services.NewIdentifierGenerator(userRepo, certRepo)
	notifier := services.NewNotificationService(publisher, log)

	// Services
	certService := services.NewCertificateService(certRepo, userRepo, courseRepo, ids, notifier, cache,
		services.CertificateServiceConfig{BaseURL: cfg.Certificate.BaseURL, CacheTTL: cfg.Certificate.CacheTTL}, log)
	evaluator := services.NewCompletionEvaluator(courseRepo, progressRepo, certService, log)
	queue := services.NewCompletionQueue(evaluator, cfg.Completion.Workers, cfg.Completion.QueueSize, cfg.Completion.Timeout, log)
	reconciler := services.NewReconcileService(progressRepo, evaluator,
		cfg.Completion.ReconcileSchedule, cfg.Completion.ReconcileBatch, cfg.Completion.Timeout, log)
	progressService := services.NewProgressService(progressRepo, courseRepo, queue, log)
	referralService := services.NewReferralService(userRepo, referralRepo, ids, notifier, cfg.Referral.RewardPoints, log)
	authService := services.NewAuthService(userRepo, referralService, hasher, signer, log)
	userService := services.NewUserService(userRepo, log)
	courseService := services.NewCourseService(courseRepo, log)

	f := fiber.New(fiber.Config{
		AppName:      "CareerHub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler(log),
	})
	middleware.Setup(f, cfg, log)

	routes.Setup(f, &routes.Handlers{
		Health:      handlers.NewHealthHandler(db, cfg),
		Auth:        handlers.NewAuthHandler(authService, log),
		User:        handlers.NewUserHandler(userService, log),
		Course:      handlers.NewCourseHandler(courseService, log),
		Progress:    handlers.NewProgressHandler(progressService, log),
		Certificate: handlers.NewCertificateHandler(certService, log),
		Referral:    handlers.NewReferralHandler(referralService, log),
	}, signer, cfg.Certificate.CacheTTL)

	return &App{
		Fiber:      f,
		Queue:      queue,
		Reconciler: reconciler,
		Signer:     signer,
		Hasher:     hasher,
		publisher:  publisher,
		log:        log,
	}
}

// Start launches the completion workers and the reconciliation schedule
func (a *App) Start() error {
	a.Queue.Start()
	return a.Reconciler.Start()
}

// Shutdown stops accepting requests, drains queued completions and closes the publisher
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error

	if err := a.Fiber.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, err)
	}
	a.Reconciler.Stop(ctx)
	if err := a.Queue.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.publisher.Close(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
