package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ManyBodyForce is pairwise repulsion (negative strength) or attraction
// (positive strength), approximated through the step's quadtree.
type ManyBodyForce struct {
	Strength    float64
	Theta       float64
	DistanceMin float64
	DistanceMax float64 // 0 means unbounded
}

// NewManyBodyForce creates a many-body force with the given strength and opening angle.
func NewManyBodyForce(strength, theta float64) *ManyBodyForce {
	return &ManyBodyForce{
		Strength:    strength,
		Theta:       theta,
		DistanceMin: 1,
	}
}

// Name returns the name of the force
func (f *ManyBodyForce) Name() string {
	return "charge"
}

// Initialize implements Force; the many-body force keeps no per-node state.
func (f *ManyBodyForce) Initialize([]*Node, []*Link, *Jiggler) error {
	return nil
}

// Kernel returns the velocity contribution at the given alpha. Separations
// under DistanceMin are softened to avoid singular forces.
func (f *ManyBodyForce) Kernel(alpha float64) Kernel {
	min2 := f.DistanceMin * f.DistanceMin
	max2 := math.Inf(1)
	if f.DistanceMax > 0 {
		max2 = f.DistanceMax * f.DistanceMax
	}
	return func(d r2.Vec, mass float64) r2.Vec {
		l := d.X*d.X + d.Y*d.Y
		if l >= max2 {
			return r2.Vec{}
		}
		if l < min2 {
			l = math.Sqrt(min2 * l)
		}
		return r2.Scale(f.Strength*mass*alpha/l, d)
	}
}

// Apply adds the approximated many-body velocity to every indexed node.
func (f *ManyBodyForce) Apply(step *Step) {
	if f.Strength == 0 || step.Index == nil {
		return
	}
	kernel := f.Kernel(step.Alpha)
	for _, n := range step.Nodes {
		if !n.finite() {
			continue
		}
		dv := step.Index.ForceOn(n, f.Theta, kernel)
		n.VX += dv.X
		n.VY += dv.Y
	}
}
