package web

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/botforge/go-botforge/pkg/geom"
	"github.com/botforge/go-botforge/pkg/movement"
	"github.com/botforge/go-botforge/pkg/world"
)

// handleStatus returns the bot summary
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.bot.Status())
}

// handleListPlayers returns every tracked player
func (s *Server) handleListPlayers(c *fiber.Ctx) error {
	return c.JSON(s.bot.TrackedPlayers())
}

// handleGetPlayer returns one tracked player
func (s *Server) handleGetPlayer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid player id"})
	}

	p, ok := s.bot.Player(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not tracked"})
	}
	return c.JSON(p)
}

// handleNearest returns the nearest player with a known position
func (s *Server) handleNearest(c *fiber.Ctx) error {
	p, ok := s.bot.FindNearestEnemy()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no enemy located"})
	}
	return c.JSON(p)
}

// handleSounds returns retained sounds, optionally filtered by ?category=
func (s *Server) handleSounds(c *fiber.Ctx) error {
	if cat := c.Query("category"); cat != "" {
		return c.JSON(s.bot.RecentSoundsIn(cat))
	}
	return c.JSON(s.bot.RecentSounds())
}

// handleCombat returns cooldown and crit state
func (s *Server) handleCombat(c *fiber.Ctx) error {
	return c.JSON(s.bot.Combat())
}

// handleAttack requests a swing at a player
func (s *Server) handleAttack(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid player id"})
	}

	return c.JSON(fiber.Map{
		"target":     id,
		"dispatched": s.bot.Attack(id),
	})
}

// ControlRequest is the request body for a timed control
type ControlRequest struct {
	DurationMs int64 `json:"duration_ms"`
}

// handleControl holds a movement control for a duration
func (s *Server) handleControl(c *fiber.Ctx) error {
	axis, ok := movement.ParseAxis(c.Params("control"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown control"})
	}

	var req ControlRequest
	if err := c.BodyParser(&req); err != nil || req.DurationMs <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "duration_ms must be positive"})
	}
	d := time.Duration(req.DurationMs) * time.Millisecond

	switch axis {
	case movement.Forward:
		s.bot.MoveForward(d)
	case movement.Back:
		s.bot.MoveBackward(d)
	case movement.Left:
		s.bot.MoveLeft(d)
	case movement.Right:
		s.bot.MoveRight(d)
	case movement.Jump:
		s.bot.Jump(d)
	case movement.Sneak:
		s.bot.Sneak(d)
	case movement.Sprint:
		s.bot.Sprint(d)
	}

	return c.JSON(fiber.Map{
		"control":     axis.String(),
		"duration_ms": req.DurationMs,
	})
}

// LookRequest is the request body for a view change, in radians
type LookRequest struct {
	Yaw   *float64 `json:"yaw"`
	Pitch *float64 `json:"pitch"`
}

// handleLook turns the bot's head
func (s *Server) handleLook(c *fiber.Ctx) error {
	var req LookRequest
	if err := c.BodyParser(&req); err != nil || req.Yaw == nil || req.Pitch == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "yaw and pitch are required"})
	}

	s.bot.Look(*req.Yaw, *req.Pitch)
	return c.JSON(fiber.Map{"yaw": *req.Yaw, "pitch": *req.Pitch})
}

// handleLookAtPlayer aims at the middle of a player's believed position
func (s *Server) handleLookAtPlayer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid player id"})
	}

	p, ok := s.bot.Player(id)
	if !ok || p.Position == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not located"})
	}
	target := geom.Offset(*p.Position, 0, world.PlayerHeight/2, 0)
	s.bot.LookAt(target)
	return c.JSON(fiber.Map{"target": id, "position": target})
}

// ChatRequest is the request body for a chat message
type ChatRequest struct {
	Message string `json:"message"`
}

// handleChat sends a chat message
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "message is required"})
	}

	s.bot.Chat(req.Message)
	return c.JSON(fiber.Map{"sent": true})
}
