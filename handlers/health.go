package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gradglobe/counsel-api/database"
)

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	store       database.Storage
	environment string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store database.Storage, environment string) *HealthHandler {
	if environment == "" {
		environment = "development"
	}
	return &HealthHandler{store: store, environment: environment}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "ok"
	if err := h.store.HealthCheck(); err != nil {
		status = "degraded"
	}

	return c.JSON(fiber.Map{
		"status":      status,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": h.environment,
	})
}
