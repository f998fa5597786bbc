package health

import (
	healthsvc "quartermaster-backend/internal/application/health"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Handlers holds dependencies for health endpoints.
type Handlers struct {
	Rdb *redis.Client
	DB  healthsvc.DBPinger
}

// JSON returns service status, runtime and dependency pings. 503 when unhealthy.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := healthsvc.CollectHealth(c.Context(), h.Rdb, h.DB)
	code := fiber.StatusOK
	if result.Status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"service":      "quartermaster-api",
		"status":       result.Status,
		"runtime":      result.Runtime,
		"dependencies": result.Dependencies,
	})
}
