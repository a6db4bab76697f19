package routes

import (
	"time"

	"careerhub-api/internal/adapters/http/handlers"
	"careerhub-api/internal/adapters/http/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Handlers groups every HTTP handler the API exposes
type Handlers struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Course      *handlers.CourseHandler
	Progress    *handlers.ProgressHandler
	Certificate *handlers.CertificateHandler
	Referral    *handlers.ReferralHandler
}

// Setup configures all routes for the application
func Setup(app *fiber.App, h *Handlers, tokens middleware.TokenValidator, verifyCacheTTL time.Duration) {
	auth := middleware.AuthMiddleware(tokens)

	// Health check & root routes
	app.Get("/", h.Health.Root)
	app.Get("/health", h.Health.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", h.Health.APIInfo)

	setupAuthRoutes(apiV1.Group("/auth"), h.Auth, auth)
	setupProfileRoutes(apiV1.Group("/profile", auth, middleware.NoCacheHeaders()), h.User)
	setupUserRoutes(apiV1.Group("/users", auth, middleware.AdminOnly()), h.User)
	setupCourseRoutes(apiV1.Group("/courses"), h.Course, auth)
	setupProgressRoutes(apiV1.Group("/progress", auth, middleware.NoCacheHeaders()), h.Progress)
	setupCertificateRoutes(apiV1.Group("/certificates"), h.Certificate, auth, verifyCacheTTL)
	setupReferralRoutes(apiV1.Group("/referrals", auth), h.Referral)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, auth fiber.Handler) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)

	// Protected routes
	router.Get("/me", auth, handler.Me)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
}

// setupUserRoutes configures user management routes (Admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.ListUsers)
	router.Put("/:id", handler.UpdateUser)
}

// setupCourseRoutes configures course routes. Reads are public.
func setupCourseRoutes(router fiber.Router, handler *handlers.CourseHandler, auth fiber.Handler) {
	router.Get("/", handler.ListCourses)
	router.Get("/:id", handler.GetCourse)

	author := middleware.CourseAuthor()
	router.Post("/", auth, author, handler.CreateCourse)
	router.Put("/:id", auth, author, handler.UpdateCourse)
	router.Delete("/:id", auth, author, handler.DeleteCourse)
	router.Post("/:id/modules", auth, author, handler.AddModule)
	router.Put("/:id/modules/:moduleId", auth, author, handler.UpdateModule)
	router.Delete("/:id/modules/:moduleId", auth, author, handler.RemoveModule)
}

// setupProgressRoutes configures progress routes (Authenticated)
func setupProgressRoutes(router fiber.Router, handler *handlers.ProgressHandler) {
	router.Post("/complete-module", handler.CompleteModule)
	// static path must be registered before /:courseId
	router.Get("/my-courses-progress", handler.MyCoursesProgress)
	router.Get("/:courseId", handler.GetCourseProgress)
}

// setupCertificateRoutes configures certificate routes
func setupCertificateRoutes(router fiber.Router, handler *handlers.CertificateHandler, auth fiber.Handler, verifyCacheTTL time.Duration) {
	// Public verification
	router.Get("/verify/:certificateId", middleware.CacheControl(verifyCacheTTL), handler.VerifyCertificate)

	router.Get("/my-certificates", auth, handler.MyCertificates)
	router.Get("/:id", auth, handler.GetCertificate)

	// Admin only
	router.Post("/", auth, middleware.AdminOnly(), handler.IssueCertificate)
	router.Delete("/:id", auth, middleware.AdminOnly(), handler.RevokeCertificate)
}

// setupReferralRoutes configures referral routes (Authenticated)
func setupReferralRoutes(router fiber.Router, handler *handlers.ReferralHandler) {
	router.Get("/my-referrals", handler.MyReferrals)
	router.Get("/my-code", handler.MyCode)

	// Admin only
	admin := middleware.AdminOnly()
	router.Post("/", admin, handler.CreateReferral)
	router.Get("/", admin, handler.ListReferrals)
	router.Get("/:id", admin, handler.GetReferral)
	router.Patch("/:id", admin, handler.UpdateReferralStatus)
}
