package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/reserva/internal/config"
	"github.com/localnerve/reserva/internal/services"
	"gorm.io/gorm"
)

// HealthHandler serves GET /healthz
type HealthHandler struct {
	Cfg *config.Config
	DB  *gorm.DB
	Log *log.Logger
}

// Get handles GET /healthz
// @Summary Service health
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /healthz [get]
func (h *HealthHandler) Get(c *fiber.Ctx) error {
	result := services.HealthCheck(h.Cfg, h.DB, h.Log)

	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(result)
}
