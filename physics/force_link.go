package physics

import (
	"math"
)

// StrengthFunc returns the stiffness of a link given its endpoint degrees.
type StrengthFunc func(l *Link, sourceDegree, targetDegree int) float64

// DefaultStrength weakens links attached to busy nodes so hubs are not
// over-constrained: 1 / min(deg(source), deg(target)).
func DefaultStrength(_ *Link, sourceDegree, targetDegree int) float64 {
	m := sourceDegree
	if targetDegree < m {
		m = targetDegree
	}
	if m < 1 {
		m = 1
	}
	return 1 / float64(m)
}

// ValueStrength scales DefaultStrength by the link value relative to maxValue,
// so heavier links pull harder. Values above maxValue are capped.
func ValueStrength(maxValue float64) StrengthFunc {
	return func(l *Link, sourceDegree, targetDegree int) float64 {
		w := 1.0
		if maxValue > 0 {
			w = math.Max(0, math.Min(l.Value/maxValue, 1))
		}
		return w * DefaultStrength(l, sourceDegree, targetDegree)
	}
}

// LinkForce is a spring along every link toward a rest distance.
type LinkForce struct {
	Distance   float64
	Iterations int
	Strength   StrengthFunc

	count     []int
	bias      []float64
	strengths []float64
	jiggle    *Jiggler
}

// NewLinkForce creates a spring force with the given rest distance.
func NewLinkForce(distance float64, iterations int) *LinkForce {
	if iterations < 1 {
		iterations = 1
	}
	return &LinkForce{
		Distance:   distance,
		Iterations: iterations,
		Strength:   DefaultStrength,
	}
}

// Name returns the name of the force
func (f *LinkForce) Name() string {
	return "link"
}

// Initialize caches degrees, endpoint bias and stiffness per link.
func (f *LinkForce) Initialize(nodes []*Node, links []*Link, jiggle *Jiggler) error {
	f.jiggle = jiggle
	f.count = make([]int, len(nodes))
	for _, l := range links {
		f.count[l.Source]++
		f.count[l.Target]++
	}

	strength := f.Strength
	if strength == nil {
		strength = DefaultStrength
	}
	f.bias = make([]float64, len(links))
	f.strengths = make([]float64, len(links))
	for i, l := range links {
		s, t := f.count[l.Source], f.count[l.Target]
		f.bias[i] = float64(s) / float64(s+t)
		f.strengths[i] = strength(l, s, t)
	}
	return nil
}

// Apply relaxes every link toward its rest distance using predicted positions.
func (f *LinkForce) Apply(step *Step) {
	for k := 0; k < f.Iterations; k++ {
		for i, l := range step.Links {
			source, target := step.Nodes[l.Source], step.Nodes[l.Target]

			x := f.jiggle.nonZero(target.X + target.VX - source.X - source.VX)
			y := f.jiggle.nonZero(target.Y + target.VY - source.Y - source.VY)
			d := math.Sqrt(x*x + y*y)
			c := (d - f.Distance) / d * step.Alpha * f.strengths[i]
			x *= c
			y *= c

			b := f.bias[i]
			target.VX -= x * b
			target.VY -= y * b
			source.VX += x * (1 - b)
			source.VY += y * (1 - b)
		}
	}
}
