// Package config loads botforge configuration: embedded YAML defaults, an
// optional user file layered on top, then environment overrides.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/botforge/go-botforge/pkg/bridge"
	"github.com/botforge/go-botforge/pkg/combat"
	"github.com/botforge/go-botforge/pkg/sensory"
	"github.com/botforge/go-botforge/pkg/sound"
	"github.com/botforge/go-botforge/pkg/web"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every tunable of a botforge process.
type Config struct {
	Sensory SensoryConfig `yaml:"sensory"`
	Sound   SoundConfig   `yaml:"sound"`
	Combat  CombatConfig  `yaml:"combat"`
	Bridge  BridgeConfig  `yaml:"bridge"`
	Web     WebConfig     `yaml:"web"`
	Trace   TraceConfig   `yaml:"trace"`
	Log     LogConfig     `yaml:"log"`
}

// SensoryConfig holds vision parameters.
type SensoryConfig struct {
	ViewDistance float64 `yaml:"view_distance"` // blocks
	FOVDegrees   float64 `yaml:"fov_degrees"`   // full cone angle
}

// SoundConfig holds hearing parameters.
type SoundConfig struct {
	MaxSoundAge   time.Duration `yaml:"max_sound_age"`
	FuzzyAngle    float64       `yaml:"fuzzy_angle"` // degrees
	PruneInterval time.Duration `yaml:"prune_interval"`
	Seed          uint64        `yaml:"seed"` // 0 = nondeterministic
}

// CombatConfig holds attack validation parameters.
type CombatConfig struct {
	MaxReach   float64 `yaml:"max_reach"`
	CritCharge float64 `yaml:"crit_charge"`
}

// BridgeConfig holds the game-client connection settings.
type BridgeConfig struct {
	URL              string        `yaml:"url"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	ReconnectDelay   time.Duration `yaml:"reconnect_delay"`
}

// WebConfig holds the inspection API settings.
type WebConfig struct {
	Enabled           bool          `yaml:"enabled"`
	Port              string        `yaml:"port"`
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`
}

// TraceConfig holds the CSV trace settings.
type TraceConfig struct {
	Path string `yaml:"path"` // empty disables tracing
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads the embedded defaults, merges the YAML file at path when path
// is non-empty, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only keys present in the file overwrite defaults.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Default returns the embedded defaults without file or env layering.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: invalid embedded defaults: %v", err))
	}
	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("BOTFORGE_BRIDGE_URL"); v != "" {
		c.Bridge.URL = v
	}
	if v := os.Getenv("BOTFORGE_WEB_PORT"); v != "" {
		c.Web.Port = v
	}
	if v := os.Getenv("BOTFORGE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// SensoryOptions converts to the sensory tracker's config.
func (c *Config) SensoryOptions() sensory.Config {
	return sensory.Config{
		ViewDistance: c.Sensory.ViewDistance,
		FOVDegrees:   c.Sensory.FOVDegrees,
	}
}

// SoundOptions converts to the sound tracker's config.
func (c *Config) SoundOptions() sound.Config {
	return sound.Config{
		MaxSoundAge:   c.Sound.MaxSoundAge,
		FuzzyAngle:    c.Sound.FuzzyAngle,
		PruneInterval: c.Sound.PruneInterval,
	}
}

// CombatOptions converts to the combat tracker's config.
func (c *Config) CombatOptions() combat.Config {
	return combat.Config{
		MaxReach:   c.Combat.MaxReach,
		CritCharge: c.Combat.CritCharge,
	}
}

// BridgeOptions converts to the bridge client's config.
func (c *Config) BridgeOptions() bridge.Config {
	return bridge.Config{
		URL:              c.Bridge.URL,
		HandshakeTimeout: c.Bridge.HandshakeTimeout,
		ReconnectDelay:   c.Bridge.ReconnectDelay,
	}
}

// WebOptions converts to the web server's config.
func (c *Config) WebOptions() web.Config {
	return web.Config{
		Port:              c.Web.Port,
		BroadcastInterval: c.Web.BroadcastInterval,
	}
}
