package handlers

import (
	"maninews/internal/services"

	"github.com/gofiber/fiber/v2"
)

// StatsHandler serves the dashboard figures.
type StatsHandler struct {
	service *services.StatsService
}

func NewStatsHandler(service *services.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/stats", h.HandleGetStats)
}

// HandleGetStats returns the dashboard statistics.
func (h *StatsHandler) HandleGetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats(c.UserContext())
	if err != nil {
		return respondError(c, "Failed to fetch statistics", err)
	}
	return c.JSON(stats)
}
