package adminRoutes

import (
	"edhub/config"
	adminControllers "edhub/controllers/admin"
	"edhub/middleware"
	"edhub/models"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(api fiber.Router, cfg *config.Config, ctrl *adminControllers.MaintenanceController) {
	adminGroup := api.Group("/admin", middleware.JWTMiddleware(cfg), middleware.RequireRoles(models.RoleAdmin))

	adminGroup.Post("/course-stats/reconcile", ctrl.ReconcileCourseStats)
}
