package sensory

// Config holds the vision parameters.
//
// Values are not validated. A negative ViewDistance or FOVDegrees puts every
// player out of view; FOVDegrees of 360 or more disables the angle check.
type Config struct {
	ViewDistance float64 // blocks
	FOVDegrees   float64 // full cone angle
}

// DefaultConfig returns a 128 block view distance with a 180° cone.
func DefaultConfig() Config {
	return Config{
		ViewDistance: 128,
		FOVDegrees:   180,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ViewDistance == 0 {
		c.ViewDistance = d.ViewDistance
	}
	if c.FOVDegrees == 0 {
		c.FOVDegrees = d.FOVDegrees
	}
	return c
}
