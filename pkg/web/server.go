// Package web serves the bot's believed state over HTTP and a websocket
// stream, for decision layers running out of process and for dashboards.
package web

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/botforge/go-botforge/internal/log"
	"github.com/botforge/go-botforge/pkg/botforge"
	"github.com/botforge/go-botforge/pkg/hub"
	"github.com/botforge/go-botforge/pkg/protocol"
	"github.com/botforge/go-botforge/pkg/sensory"
	"github.com/botforge/go-botforge/pkg/sound"
)

// Config holds the server settings.
type Config struct {
	Port              string
	BroadcastInterval time.Duration
}

// DefaultConfig returns port 8090 with a 250ms state stream.
func DefaultConfig() Config {
	return Config{
		Port:              "8090",
		BroadcastInterval: 250 * time.Millisecond,
	}
}

// Bot is what the server reads from and drives.
type Bot interface {
	botforge.API
	Status() botforge.Status
	Combat() botforge.CombatStatus
	Player(id uuid.UUID) (sensory.TrackedPlayer, bool)
	RecentSoundsIn(category string) []sound.Event
}

// Server is the inspection API server
type Server struct {
	app *fiber.App
	api fiber.Router
	cfg Config
	bot Bot
	log *slog.Logger

	// Hub for the state stream
	stateHub *hub.Hub
}

// NewServer creates a server for bot.
func NewServer(cfg Config, bot Bot) *Server {
	d := DefaultConfig()
	if cfg.Port == "" {
		cfg.Port = d.Port
	}
	if cfg.BroadcastInterval <= 0 {
		cfg.BroadcastInterval = d.BroadcastInterval
	}

	s := &Server{
		cfg:      cfg,
		bot:      bot,
		log:      log.Component("web"),
		stateHub: hub.New("state"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "botforge",
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New())

	// Health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		st := s.bot.Status()
		return c.JSON(fiber.Map{
			"status":  "ok",
			"ticks":   st.Ticks,
			"players": st.TrackedPlayers,
		})
	})

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/players", s.handleListPlayers)
	api.Get("/players/:id", s.handleGetPlayer)
	api.Get("/nearest", s.handleNearest)
	api.Get("/sounds", s.handleSounds)
	api.Get("/combat", s.handleCombat)
	api.Post("/attack/:id", s.handleAttack)
	api.Post("/controls/:control", s.handleControl)
	api.Post("/look", s.handleLook)
	api.Post("/look/:id", s.handleLookAtPlayer)
	api.Post("/chat", s.handleChat)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/state", websocket.New(s.stateHub.Serve))

	s.app = app
	s.api = api
	return s
}

// App returns the fiber app so other components can mount routes.
func (s *Server) App() *fiber.App {
	return s.app
}

// API returns the /api route group.
func (s *Server) API() fiber.Router {
	return s.api
}

// Run serves until ctx is done, streaming bot status to /ws/state every
// BroadcastInterval.
func (s *Server) Run(ctx context.Context) error {
	go s.stateHub.Run(ctx)
	go s.streamState(ctx)

	go func() {
		<-ctx.Done()
		if err := s.app.Shutdown(); err != nil {
			s.log.Warn("shutdown", "error", err)
		}
	}()

	s.log.Info("listening", "addr", "http://localhost:"+s.cfg.Port)
	return s.app.Listen(":" + s.cfg.Port)
}

func (s *Server) streamState(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.BroadcastInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.stateHub.ClientCount() == 0 {
				continue
			}
			msg, err := protocol.NewStateMessage(s.snapshot())
			if err != nil {
				s.log.Error("encode state", "error", err)
				continue
			}
			if err := s.stateHub.Broadcast(msg); err != nil {
				s.log.Debug("state dropped", "error", err)
			}
		}
	}
}

// StateFrame is what /ws/state streams.
type StateFrame struct {
	Status  botforge.Status         `json:"status"`
	Players []sensory.TrackedPlayer `json:"players"`
	Sounds  []sound.Event           `json:"sounds"`
}

func (s *Server) snapshot() StateFrame {
	return StateFrame{
		Status:  s.bot.Status(),
		Players: s.bot.TrackedPlayers(),
		Sounds:  s.bot.RecentSounds(),
	}
}
