package admin

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gradglobe/counsel-api/services"
	"github.com/gradglobe/counsel-api/utils/response"
)

// StatsHandler serves the admin statistics endpoints
type StatsHandler struct {
	stats *services.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(stats *services.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// GetStats handles GET /api/admin/stats
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.stats.ComputeStats(c.Context())
	if err != nil {
		log.Printf("compute stats failed: %v", err)
		return response.InternalServerError(c, "Failed to compute statistics")
	}

	return response.Success(c, stats)
}

// GetAnalytics handles GET /api/admin/analytics
func (h *StatsHandler) GetAnalytics(c *fiber.Ctx) error {
	analytics, err := h.stats.ComputeAnalytics(c.Context())
	if err != nil {
		log.Printf("compute analytics failed: %v", err)
		return response.InternalServerError(c, "Failed to compute analytics")
	}

	return response.Success(c, analytics)
}
