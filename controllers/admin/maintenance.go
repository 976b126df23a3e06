package adminController

import (
	"edhub/controllers"
	"edhub/logger"
	"edhub/middleware"
	"edhub/services"

	"github.com/gofiber/fiber/v2"
)

type MaintenanceController struct {
	log         *logger.Logger
	maintenance services.MaintenanceService
}

func NewMaintenanceController(log *logger.Logger, maintenance services.MaintenanceService) *MaintenanceController {
	return &MaintenanceController{log: log.With("controller", "MaintenanceController"), maintenance: maintenance}
}

// ReconcileCourseStats recomputes enrollment counts and ratings on demand
func (mc *MaintenanceController) ReconcileCourseStats(c *fiber.Ctx) error {
	changed, err := mc.maintenance.ReconcileCourseStats(c.UserContext())
	if err != nil {
		return controllers.ErrorResponse(c, mc.log, err, "Failed to reconcile course stats!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course stats reconciled", fiber.Map{"changed": changed})
}
