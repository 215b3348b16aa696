package engine

// Config holds all configuration options for an Engine.
type Config struct {
	// Seed seeds the engine's random source. Zero means a seed is drawn from
	// host entropy; Engine.Seed reports the seed actually used.
	Seed uint64 `json:"seed"`

	// WeightMin is the lower bound of [rw] and [irw] weights when none is given.
	WeightMin float64 `json:"weight_min"`

	// WeightMax is the upper bound of [rw] and [irw] weights when none is given.
	WeightMax float64 `json:"weight_max"`

	// MaxDepth limits how deeply [call], [select] and [library] may nest.
	// It keeps self-referencing macros and entries from exhausting the stack.
	MaxDepth int `json:"max_depth"`

	// MaxLoopCount sets a hard upper limit on the iterations of one [loop].
	MaxLoopCount int `json:"max_loop_count"`
}

// DefaultConfig returns a Config with safe default values.
func DefaultConfig() *Config {
	return &Config{
		Seed:         0,
		WeightMin:    1.0,
		WeightMax:    1.5,
		MaxDepth:     64,
		MaxLoopCount: 10_000,
	}
}
