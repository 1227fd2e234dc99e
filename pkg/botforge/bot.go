package botforge

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/botforge/go-botforge/internal/log"
	"github.com/botforge/go-botforge/pkg/combat"
	"github.com/botforge/go-botforge/pkg/geom"
	"github.com/botforge/go-botforge/pkg/movement"
	"github.com/botforge/go-botforge/pkg/sensory"
	"github.com/botforge/go-botforge/pkg/sound"
	"github.com/botforge/go-botforge/pkg/world"
)

// Config groups the tracker configs.
type Config struct {
	Sensory sensory.Config
	Sound   sound.Config
	Combat  combat.Config
}

// DefaultConfig returns every tracker's defaults.
func DefaultConfig() Config {
	return Config{
		Sensory: sensory.DefaultConfig(),
		Sound:   sound.DefaultConfig(),
		Combat:  combat.DefaultConfig(),
	}
}

// Report summarises one completed tick for observers.
type Report struct {
	Tick    uint64
	Time    time.Time
	Self    world.Pose
	Players []sensory.TrackedPlayer
}

// TickHook observes completed ticks. Hooks run on the tick goroutine.
type TickHook func(Report)

// Option configures a Bot.
type Option func(*options)

type options struct {
	now       func() time.Time
	soundOpts []sound.Option
	hooks     []TickHook
}

// WithClock drives every tracker from now instead of time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithSoundOptions passes options to the sound tracker.
func WithSoundOptions(opts ...sound.Option) Option {
	return func(o *options) {
		o.soundOpts = append(o.soundOpts, opts...)
	}
}

// WithTickHook registers an observer for completed ticks.
func WithTickHook(h TickHook) Option {
	return func(o *options) {
		o.hooks = append(o.hooks, h)
	}
}

// Bot is the per-bot perception and timing core.
type Bot struct {
	sensory  *sensory.Tracker
	sound    *sound.Tracker
	combat   *combat.Tracker
	movement *movement.Timer
	host     Host

	now   func() time.Time
	hooks []TickHook
	log   *slog.Logger

	mu       sync.RWMutex
	self     world.Pose
	lastTick time.Time
	ticks    uint64
}

// New creates a bot whose controls and attacks go to host.
func New(cfg Config, host Host, opts ...Option) *Bot {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	soundOpts := append([]sound.Option{sound.WithClock(o.now)}, o.soundOpts...)
	mv := movement.NewTimer(host)
	mv.SetClock(o.now)

	return &Bot{
		sensory:  sensory.New(cfg.Sensory),
		sound:    sound.New(cfg.Sound, soundOpts...),
		combat:   combat.New(cfg.Combat, host, combat.WithClock(o.now)),
		movement: mv,
		host:     host,
		now:      o.now,
		hooks:    o.hooks,
		log:      log.Component("bot"),
	}
}

// Tick feeds one simulation step to every tracker. The host calls it once
// per tick, from a single goroutine.
func (b *Bot) Tick(snap world.Snapshot) {
	if snap.Time.IsZero() {
		snap.Time = b.now()
	}

	b.sensory.Update(snap)
	b.combat.Update(snap)
	b.movement.Tick(snap.Time)

	b.mu.Lock()
	b.self = snap.Self
	b.lastTick = snap.Time
	b.ticks++
	n := b.ticks
	b.mu.Unlock()

	if len(b.hooks) == 0 {
		return
	}
	r := Report{
		Tick:    n,
		Time:    snap.Time,
		Self:    snap.Self,
		Players: b.sensory.TrackedPlayers(),
	}
	for _, h := range b.hooks {
		h(r)
	}
}

// HearSound records a sound heard at the bot's current position.
func (b *Bot) HearSound(raw sound.RawSound) sound.Event {
	b.mu.RLock()
	listener := b.self.Position
	b.mu.RUnlock()
	return b.sound.Hear(raw, listener)
}

// Run drives the sound prune loop until ctx is done.
func (b *Bot) Run(ctx context.Context) {
	b.log.Info("bot started")
	b.sound.Run(ctx)
	b.movement.ReleaseAll()
	b.log.Info("bot stopped")
}

// TrackedPlayers returns every tracked player record.
func (b *Bot) TrackedPlayers() []sensory.TrackedPlayer { return b.sensory.TrackedPlayers() }

// FindNearestEnemy returns the closest player with a known position.
func (b *Bot) FindNearestEnemy() (sensory.TrackedPlayer, bool) { return b.sensory.FindNearestEnemy() }

// RecentSounds returns retained sounds, oldest first.
func (b *Bot) RecentSounds() []sound.Event { return b.sound.RecentSounds() }

func (b *Bot) StrongAttackCharged() bool { return b.combat.StrongAttackCharged() }
func (b *Bot) DamageMultiplier() float64 { return b.combat.DamageMultiplier() }
func (b *Bot) InCritWindow() bool        { return b.combat.InCritWindow() }

// Attack swings at target if the swing is valid.
func (b *Bot) Attack(target uuid.UUID) bool { return b.combat.Attack(target) }

func (b *Bot) MoveForward(d time.Duration)  { b.movement.MoveForward(d) }
func (b *Bot) MoveBackward(d time.Duration) { b.movement.MoveBackward(d) }
func (b *Bot) MoveLeft(d time.Duration)     { b.movement.MoveLeft(d) }
func (b *Bot) MoveRight(d time.Duration)    { b.movement.MoveRight(d) }
func (b *Bot) Jump(d time.Duration)         { b.movement.Jump(d) }
func (b *Bot) Sneak(d time.Duration)        { b.movement.Sneak(d) }
func (b *Bot) Sprint(d time.Duration)       { b.movement.Sprint(d) }

// Player returns the record for one tracked player.
func (b *Bot) Player(id uuid.UUID) (sensory.TrackedPlayer, bool) { return b.sensory.Player(id) }

// RecentSoundsIn returns retained sounds of one category.
func (b *Bot) RecentSoundsIn(category string) []sound.Event { return b.sound.RecentSoundsIn(category) }

// ChatLimit is the longest chat line the game accepts, in runes.
const ChatLimit = 256

// Look turns the bot's head. Pitch is clamped to straight up or down. The
// new direction applies to attacks immediately, before the next tick
// confirms it.
func (b *Bot) Look(yaw, pitch float64) {
	pitch = math.Max(-math.Pi/2, math.Min(math.Pi/2, pitch))

	b.mu.Lock()
	b.self.Yaw, b.self.Pitch = yaw, pitch
	b.mu.Unlock()
	b.combat.Look(yaw, pitch)

	if b.host == nil {
		return
	}
	if err := b.host.Look(yaw, pitch); err != nil {
		b.log.Warn("look not delivered", "error", err)
	}
}

// LookAt turns the bot's eyes toward target.
func (b *Bot) LookAt(target geom.Vec) {
	b.mu.RLock()
	eye := b.self.EyePosition()
	b.mu.RUnlock()

	b.Look(geom.YawPitch(geom.Sub(target, eye)))
}

// Chat sends message, split into lines of at most ChatLimit runes. Blank
// messages are dropped.
func (b *Bot) Chat(message string) {
	message = strings.TrimSpace(message)
	if message == "" || b.host == nil {
		return
	}
	for _, line := range chatLines(message) {
		if err := b.host.Chat(line); err != nil {
			b.log.Warn("chat not delivered", "error", err)
			return
		}
	}
}

func chatLines(message string) []string {
	runes := []rune(message)
	lines := make([]string, 0, len(runes)/ChatLimit+1)
	for len(runes) > ChatLimit {
		lines = append(lines, string(runes[:ChatLimit]))
		runes = runes[ChatLimit:]
	}
	return append(lines, string(runes))
}
