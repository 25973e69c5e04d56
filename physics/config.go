package physics

import (
	"fmt"
	"math"
)

// Config holds the tunable parameters of a Simulation.
type Config struct {
	LinkDistance         float64 `toml:"link_distance"`
	LinkIterations       int     `toml:"link_iterations"`
	LinkValueStiffness   bool    `toml:"link_value_stiffness"`   // Scale stiffness by link value
	RepulsionStrength    float64 `toml:"repulsion_strength"`     // Negative repels
	RepulsionDistanceMin float64 `toml:"repulsion_distance_min"` // Softening floor
	RepulsionDistanceMax float64 `toml:"repulsion_distance_max"` // 0 means unbounded
	Theta                float64 `toml:"theta"`                  // Barnes-Hut opening angle
	CenterX              float64 `toml:"center_x"`
	CenterY              float64 `toml:"center_y"`
	CenterStrength       float64 `toml:"center_strength"`
	VelocityDecay        float64 `toml:"velocity_decay"` // Fraction of velocity lost per tick
	Alpha                float64 `toml:"alpha"`          // Initial alpha
	AlphaMin             float64 `toml:"alpha_min"`
	AlphaDecay           float64 `toml:"alpha_decay"`       // 0 derives it from ConvergenceSteps
	ConvergenceSteps     int     `toml:"convergence_steps"` // Ticks from Alpha to AlphaMin
	AlphaTarget          float64 `toml:"alpha_target"`
	ReheatAlpha          float64 `toml:"reheat_alpha"` // alphaTarget while dragging
	Seed                 int64   `toml:"seed"`         // Jitter seed
}

// DefaultConfig returns the default parameters for a viewport of the given size.
func DefaultConfig(width, height float64) Config {
	return Config{
		LinkDistance:         100,
		LinkIterations:       2,
		RepulsionStrength:    -300,
		RepulsionDistanceMin: 1,
		RepulsionDistanceMax: 0,
		Theta:                0.9,
		CenterX:              width / 2,
		CenterY:              height / 2,
		CenterStrength:       1,
		VelocityDecay:        0.4,
		Alpha:                1,
		AlphaMin:             0.001,
		ConvergenceSteps:     300,
		AlphaTarget:          0,
		ReheatAlpha:          0.3,
		Seed:                 1,
	}
}

// EffectiveAlphaDecay returns AlphaDecay, or the rate that takes alpha from 1
// to AlphaMin in ConvergenceSteps ticks when AlphaDecay is zero.
func (c Config) EffectiveAlphaDecay() float64 {
	if c.AlphaDecay > 0 {
		return c.AlphaDecay
	}
	steps := c.ConvergenceSteps
	if steps <= 0 {
		steps = 300
	}
	return 1 - math.Pow(c.AlphaMin, 1/float64(steps))
}

// Validate rejects negative or non-finite parameters.
func (c Config) Validate() error {
	finite := map[string]float64{
		"link_distance":          c.LinkDistance,
		"repulsion_strength":     c.RepulsionStrength,
		"repulsion_distance_min": c.RepulsionDistanceMin,
		"repulsion_distance_max": c.RepulsionDistanceMax,
		"theta":                  c.Theta,
		"center_x":               c.CenterX,
		"center_y":               c.CenterY,
		"center_strength":        c.CenterStrength,
		"velocity_decay":         c.VelocityDecay,
		"alpha":                  c.Alpha,
		"alpha_min":              c.AlphaMin,
		"alpha_decay":            c.AlphaDecay,
		"alpha_target":           c.AlphaTarget,
		"reheat_alpha":           c.ReheatAlpha,
	}
	for name, v := range finite {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid(name, v, "must be finite")
		}
	}

	nonNegative := map[string]float64{
		"link_distance":          c.LinkDistance,
		"repulsion_distance_min": c.RepulsionDistanceMin,
		"repulsion_distance_max": c.RepulsionDistanceMax,
		"theta":                  c.Theta,
		"center_strength":        c.CenterStrength,
		"alpha_decay":            c.AlphaDecay,
		"alpha_target":           c.AlphaTarget,
		"reheat_alpha":           c.ReheatAlpha,
	}
	for name, v := range nonNegative {
		if v < 0 {
			return invalid(name, v, "must not be negative")
		}
	}

	switch {
	case c.VelocityDecay < 0 || c.VelocityDecay >= 1:
		return invalid("velocity_decay", c.VelocityDecay, "must be in [0, 1)")
	case c.AlphaMin <= 0 || c.AlphaMin >= 1:
		return invalid("alpha_min", c.AlphaMin, "must be in (0, 1)")
	case c.Alpha < c.AlphaMin || c.Alpha > 1:
		return invalid("alpha", c.Alpha, "must be in [alpha_min, 1]")
	case c.AlphaDecay >= 1:
		return invalid("alpha_decay", c.AlphaDecay, "must be below 1")
	case c.AlphaTarget > 1 || c.ReheatAlpha > 1:
		return fmt.Errorf("%w: alpha_target and reheat_alpha must not exceed 1", ErrInvalidConfiguration)
	case c.LinkIterations < 1:
		return fmt.Errorf("%w: link_iterations = %d, must be at least 1", ErrInvalidConfiguration, c.LinkIterations)
	case c.ConvergenceSteps < 0:
		return fmt.Errorf("%w: convergence_steps = %d, must not be negative", ErrInvalidConfiguration, c.ConvergenceSteps)
	case c.RepulsionDistanceMax > 0 && c.RepulsionDistanceMax < c.RepulsionDistanceMin:
		return invalid("repulsion_distance_max", c.RepulsionDistanceMax, "must not be below repulsion_distance_min")
	}
	return nil
}

func invalid(name string, v float64, reason string) error {
	return fmt.Errorf("%w: %s = %v, %s", ErrInvalidConfiguration, name, v, reason)
}
