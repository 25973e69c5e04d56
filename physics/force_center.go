package physics

// CenterForce pulls the layout centroid toward a target point without
// changing relative positions: every node receives the same velocity delta.
type CenterForce struct {
	X, Y     float64
	Strength float64
}

// NewCenterForce creates a centering force toward (x, y).
func NewCenterForce(x, y float64) *CenterForce {
	return &CenterForce{X: x, Y: y, Strength: 1}
}

// Name returns the name of the force
func (f *CenterForce) Name() string {
	return "center"
}

// Initialize implements Force; the centering force keeps no per-node state.
func (f *CenterForce) Initialize([]*Node, []*Link, *Jiggler) error {
	return nil
}

// Apply shifts all velocities by a fraction of the centroid-to-target vector.
func (f *CenterForce) Apply(step *Step) {
	var sx, sy float64
	n := 0
	for _, node := range step.Nodes {
		if !node.finite() {
			continue
		}
		sx += node.X
		sy += node.Y
		n++
	}
	if n == 0 {
		return
	}

	k := f.Strength * step.Alpha
	dx := (f.X - sx/float64(n)) * k
	dy := (f.Y - sy/float64(n)) * k
	for _, node := range step.Nodes {
		node.VX += dx
		node.VY += dy
	}
}
