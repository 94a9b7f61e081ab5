package handler

import (
	"go-price-compare/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the API, the websocket stream and the health check.
func RegisterRoutes(app *fiber.App, inv *InventoryHandler, cmp *ComparisonHandler, dash *DashboardHandler, hub *ws.Hub, api ...fiber.Handler) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1", api...)

	// Bulk Routes
	bulk := v1.Group("/bulk")
	bulk.Post("/upload", inv.Upload)
	bulk.Post("/analyze", cmp.Analyze)

	// Price lookup
	v1.Get("/search", cmp.SearchPrice)

	// Inventory Routes
	inventory := v1.Group("/inventory")
	inventory.Get("/search", inv.Search)
	inventory.Get("/match", inv.Match)
	inventory.Get("/stats", inv.Stats)
	inventory.Delete("/", inv.Clear)

	// Dashboard Routes
	v1.Get("/dashboard/stats", dash.GetDashboardStats)
	v1.Get("/dashboard/runs", dash.GetRecentRuns)

	if hub == nil {
		return
	}

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(hub.Serve))
}
