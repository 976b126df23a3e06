package routers

import (
	"edhub/config"
	adminControllers "edhub/controllers/admin"
	authControllers "edhub/controllers/auth"
	courseControllers "edhub/controllers/course"
	progressControllers "edhub/controllers/progress"
	userControllers "edhub/controllers/user"
	"edhub/logger"
	"edhub/middleware"
	"edhub/repository"
	"edhub/routers/adminRoutes"
	"edhub/routers/authRoutes"
	"edhub/routers/courseRoutes"
	"edhub/routers/progressRoutes"
	"edhub/routers/userRoutes"
	"edhub/services"
	"edhub/utils"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Deps are the external collaborators the HTTP layer is built on
type Deps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Mailer utils.Mailer
	Runner utils.CodeRunner
}

// NewApp creates the fiber app with the shared middleware stack and every route mounted
func NewApp(cfg *config.Config, deps Deps, accessLog bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "EdHub",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CorsOrigins,
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))
	if accessLog {
		// Log every request
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	SetupRoutes(app, cfg, deps)
	return app
}

func SetupRoutes(app *fiber.App, cfg *config.Config, deps Deps) {
	db, log := deps.DB, deps.Log

	courseRepo := repository.NewCourseRepo(db, log)
	userRepo := repository.NewUserRepo(db, log)
	progressRepo := repository.NewProgressRepo(db, log)
	reviewRepo := repository.NewReviewRepo(db, log)

	courseService := services.NewCourseService(db, log, courseRepo, userRepo)
	enrollmentService := services.NewEnrollmentService(db, log, courseRepo, userRepo, progressRepo, deps.Mailer)
	progressService := services.NewProgressService(db, log, courseRepo, userRepo, progressRepo, deps.Mailer)
	userService := services.NewUserService(db, log, courseRepo, userRepo, progressRepo)
	authService := services.NewAuthService(db, log, userRepo, deps.Mailer, cfg.SaltRound)
	practiceService := services.NewPracticeService(log, courseRepo, userRepo, deps.Runner)
	reviewService := services.NewReviewService(db, log, courseRepo, userRepo, reviewRepo)
	maintenanceService := services.NewMaintenanceService(db, log, courseRepo, progressRepo, reviewRepo)

	api := app.Group("/api")
	api.Get("/health", healthCheck(db))

	authRoutes.SetupAuthRoutes(api, cfg, authControllers.NewAuthController(cfg, log, authService, userService))
	courseRoutes.SetupCourseRoutes(api, cfg,
		courseControllers.NewCourseController(log, courseService, enrollmentService, practiceService),
		courseControllers.NewReviewController(log, reviewService),
	)
	progressRoutes.SetupProgressRoutes(api, cfg, progressControllers.NewProgressController(log, progressService))
	userRoutes.SetupUserRoutes(api, cfg, userControllers.NewUserController(log, userService))
	adminRoutes.SetupAdminRoutes(api, cfg, adminControllers.NewMaintenanceController(log, maintenanceService))
}

func healthCheck(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Database unavailable", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", nil)
	}
}

// errorHandler keeps fiber's own errors (unknown route, bad method, body limit) in the JSON envelope
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return middleware.JsonResponse(c, code, false, message, nil)
}
