package physics

// Step is the per-tick state handed to each force.
type Step struct {
	Alpha float64
	Nodes []*Node
	Links []*Link
	Index *Quadtree
}

// Force mutates node velocities from current positions.
type Force interface {
	// Name identifies the force in errors and logs.
	Name() string
	// Initialize is called once the node and link tables are final, and again
	// whenever they are replaced.
	Initialize(nodes []*Node, links []*Link, jiggle *Jiggler) error
	// Apply adds this force's velocity deltas for one tick.
	Apply(step *Step)
}
