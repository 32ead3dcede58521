package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jobfinder-service/internal/persistence"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct {
	version  string
	postgres *persistence.Postgres
	redis    *persistence.Redis
}

// NewHealthHandler constructs the handler.
func NewHealthHandler(version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{version: version, postgres: postgres, redis: redis}
}

// Live reports the process is up.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "version": h.version})
}

// Ready reports whether the backing stores are reachable.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	checks := fiber.Map{"postgres": "ok", "redis": "ok"}
	healthy := true

	if err := h.postgres.Ping(c.Context()); err != nil {
		checks["postgres"] = err.Error()
		healthy = false
	}
	if err := h.redis.Ping(c.Context()); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	}

	status := fiber.StatusOK
	if !healthy {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{"status": checks})
}
