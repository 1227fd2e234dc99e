package bridge

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// BridgePath is the route a sidecar connects to.
const BridgePath = "/ws/bridge"

// RegisterRoutes registers the sidecar endpoint on a Fiber app.
func (b *Bridge) RegisterRoutes(app *fiber.App) {
	app.Use(BridgePath, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get(BridgePath, websocket.New(b.handleSidecar))
}

// RegisterAPIRoutes registers bridge status routes.
func (b *Bridge) RegisterAPIRoutes(api fiber.Router) {
	api.Get("/bridge", func(c *fiber.Ctx) error {
		return c.JSON(b.GetStats())
	})
}

// handleSidecar serves an inbound sidecar connection.
func (b *Bridge) handleSidecar(c *websocket.Conn) {
	p, err := b.attach(c)
	if err != nil {
		b.log.Warn("refusing sidecar", "error", err)
		return
	}
	defer b.detach(p)

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			b.log.Debug("sidecar read error", "session", p.id, "error", err)
			return
		}
		b.handleMessage(p, data)
	}
}
