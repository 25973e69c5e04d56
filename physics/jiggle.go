package physics

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

const jiggleScale = 1e-6

// Jiggler yields a deterministic sequence of tiny non-zero offsets used to
// separate coincident bodies. The same seed always yields the same sequence.
type Jiggler struct {
	noise opensimplex.Noise
	n     uint64
}

// NewJiggler creates a jitter source seeded with seed.
func NewJiggler(seed int64) *Jiggler {
	return &Jiggler{noise: opensimplex.New(seed)}
}

// Next returns a value in [-1e-6, 1e-6], never zero.
func (j *Jiggler) Next() float64 {
	j.n++
	// Walk the noise field along an irrational diagonal so samples never repeat.
	t := float64(j.n)
	v := j.noise.Eval2(t*0.7548776662466927, t*0.5698402909980532)
	if v == 0 {
		v = 0.5
	}
	return v * jiggleScale
}

// nonZero replaces an exactly-zero component with jitter.
func (j *Jiggler) nonZero(v float64) float64 {
	if v == 0 {
		return j.Next()
	}
	return v
}
