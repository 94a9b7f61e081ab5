package handler

import (
	"strconv"

	"go-price-compare/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetRecentRuns returns the latest analysis runs
// Query params: limit (default 10)
func (h *DashboardHandler) GetRecentRuns(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	runs := h.service.GetRecentRuns(limit)
	return c.JSON(fiber.Map{
		"success": true,
		"limit":   limit,
		"data":    runs,
	})
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": h.service.GetDashboardStats()})
}
