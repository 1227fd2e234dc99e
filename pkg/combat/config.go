package combat

// Vanilla interaction limits.
const (
	DefaultMaxReach   = 3.0
	DefaultCritCharge = 0.848
)

// Config holds attack validation parameters.
type Config struct {
	MaxReach   float64 // blocks from eye to target hitbox
	CritCharge float64 // minimum charge ratio for a critical hit
}

// DefaultConfig returns vanilla survival values.
func DefaultConfig() Config {
	return Config{
		MaxReach:   DefaultMaxReach,
		CritCharge: DefaultCritCharge,
	}
}

func (c Config) withDefaults() Config {
	if c.MaxReach == 0 {
		c.MaxReach = DefaultMaxReach
	}
	if c.CritCharge == 0 {
		c.CritCharge = DefaultCritCharge
	}
	return c
}
