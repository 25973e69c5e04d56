// Package physics implements the force-directed layout engine: a quadtree
// spatial index, pluggable forces, a velocity integrator with an alpha
// annealing schedule, drag pinning, and a tick scheduler.
package physics

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/TFMV/forcegraph/models"
)

// State is the scheduler-visible lifecycle of a Simulation.
type State int

const (
	// Idle means alpha has cooled to alphaMin and no ticks are wanted.
	Idle State = iota
	// Running means ticks should keep being scheduled.
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// NodeState is a copy of one body taken at a tick boundary.
type NodeState struct {
	ID     string
	Group  string
	Degree int
	X, Y   float64
	VX, VY float64
	Fixed  bool
}

// LinkState is a copy of one link; Source and Target index Snapshot.Nodes.
type LinkState struct {
	Source int
	Target int
	Value  float64
}

// Snapshot is a consistent view of the simulation after a completed tick.
type Snapshot struct {
	Tick        int
	Alpha       float64
	AlphaTarget float64
	State       State
	Nodes       []NodeState
	Links       []LinkState
}

// TickHandler receives a snapshot after every completed tick.
type TickHandler func(Snapshot)

type handlerEntry struct {
	id int
	fn TickHandler
}

type body struct {
	x, y, vx, vy float64
}

// Simulation owns all mutable node state. Ticks and interaction calls are
// serialised by a mutex, so interaction writes land between ticks.
type Simulation struct {
	mu sync.Mutex

	cfg    Config
	nodes  []*Node
	links  []*Link
	byID   map[string]*Node
	forces []Force
	jiggle *Jiggler

	alpha         float64
	alphaTarget   float64
	alphaMin      float64
	alphaDecay    float64
	velocityDecay float64
	state         State
	tick          int

	dragging map[string]pointer
	handlers []handlerEntry
	nextID   int
	wake     chan struct{}

	backup      []body
	backupAlpha float64
	current     string
}

// NewSimulation builds a running simulation over a loaded graph, with the
// link, charge and center forces applied in that order.
func NewSimulation(g *models.Graph, cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:           cfg,
		byID:          make(map[string]*Node, g.Len()),
		jiggle:        NewJiggler(cfg.Seed),
		alpha:         cfg.Alpha,
		alphaTarget:   cfg.AlphaTarget,
		alphaMin:      cfg.AlphaMin,
		alphaDecay:    cfg.EffectiveAlphaDecay(),
		velocityDecay: cfg.VelocityDecay,
		state:         Running,
		dragging:      make(map[string]pointer),
		wake:          make(chan struct{}, 1),
	}

	degrees := g.Degrees()
	s.nodes = make([]*Node, len(g.Nodes))
	for i, mn := range g.Nodes {
		n := &Node{ID: mn.ID, Group: mn.Group, Index: i, Degree: degrees[i]}
		n.Release()
		placeInitial(n, i, cfg.CenterX, cfg.CenterY)
		s.nodes[i] = n
		s.byID[n.ID] = n
	}

	maxValue := 0.0
	s.links = make([]*Link, len(g.Links))
	for i, ml := range g.Links {
		s.links[i] = &Link{Index: i, Source: ml.SourceIndex, Target: ml.TargetIndex, Value: ml.Value}
		maxValue = math.Max(maxValue, ml.Value)
	}

	link := NewLinkForce(cfg.LinkDistance, cfg.LinkIterations)
	if cfg.LinkValueStiffness {
		link.Strength = ValueStrength(maxValue)
	}
	charge := NewManyBodyForce(cfg.RepulsionStrength, cfg.Theta)
	charge.DistanceMin = cfg.RepulsionDistanceMin
	charge.DistanceMax = cfg.RepulsionDistanceMax
	center := NewCenterForce(cfg.CenterX, cfg.CenterY)
	center.Strength = cfg.CenterStrength

	for _, f := range []Force{link, charge, center} {
		if err := s.AddForce(f); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AddForce initializes f and appends it after the existing forces.
func (s *Simulation) AddForce(f Force) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := f.Initialize(s.nodes, s.links, s.jiggle); err != nil {
		return fmt.Errorf("initialize force %q: %w", f.Name(), err)
	}
	s.forces = append(s.forces, f)
	return nil
}

// Force returns the first registered force with the given name.
func (s *Simulation) Force(name string) (Force, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.forces {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// OnTick registers h and returns a function that unregisters it. Handlers
// run on the ticking goroutine after the tick's state is committed, and must
// not block for long.
func (s *Simulation) OnTick(h TickHandler) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.handlers = append(s.handlers, handlerEntry{id: id, fn: h})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, e := range s.handlers {
			if e.id == id {
				s.handlers = append(s.handlers[:i:i], s.handlers[i+1:]...)
				return
			}
		}
	}
}

// Tick advances the simulation one step and notifies handlers. On failure the
// state is rolled back, the simulation goes Idle and no handler is called.
// A panicking handler does not undo the tick; every handler still runs and
// the first panic is returned as a *TickError alongside the snapshot.
func (s *Simulation) Tick() (Snapshot, error) {
	s.mu.Lock()
	snap, err := s.step()
	handlers := make([]TickHandler, len(s.handlers))
	for i, e := range s.handlers {
		handlers[i] = e.fn
	}
	s.mu.Unlock()

	if err != nil {
		return Snapshot{}, err
	}
	var herr error
	for _, h := range handlers {
		if err := notify(h, snap); err != nil && herr == nil {
			herr = err
		}
	}
	return snap, herr
}

// notify runs one handler, turning a panic into a TickError. The tick has
// already been committed at that point.
func notify(h TickHandler, snap Snapshot) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &TickError{Tick: snap.Tick, Err: fmt.Errorf("tick handler panic: %v", r)}
		}
	}()
	h(snap)
	return nil
}

func (s *Simulation) step() (snap Snapshot, err error) {
	s.save()
	defer func() {
		if r := recover(); r != nil {
			s.restore()
			err = &TickError{Tick: s.tick + 1, Force: s.current, Err: fmt.Errorf("panic: %v", r)}
		}
		s.current = ""
	}()

	st := &Step{
		Alpha: s.alpha,
		Nodes: s.nodes,
		Links: s.links,
		Index: BuildQuadtree(s.nodes, s.jiggle),
	}
	for _, f := range s.forces {
		s.current = f.Name()
		f.Apply(st)
	}
	s.current = ""

	friction := 1 - s.velocityDecay
	for _, n := range s.nodes {
		if math.IsNaN(n.FX) {
			n.X += n.VX
			n.VX *= friction
		} else {
			n.X = n.FX
			n.VX = 0
		}
		if math.IsNaN(n.FY) {
			n.Y += n.VY
			n.VY *= friction
		} else {
			n.Y = n.FY
			n.VY = 0
		}
		if !n.finite() {
			s.restore()
			return Snapshot{}, &TickError{Tick: s.tick + 1, Err: fmt.Errorf("%w: node %q", ErrNonFinite, n.ID)}
		}
	}

	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay
	s.alpha = math.Max(s.alphaMin, math.Min(1, s.alpha))
	s.tick++
	if s.alpha <= s.alphaMin && s.alphaTarget == 0 {
		s.state = Idle
	}
	return s.snapshot(), nil
}

func (s *Simulation) save() {
	if cap(s.backup) < len(s.nodes) {
		s.backup = make([]body, len(s.nodes))
	}
	s.backup = s.backup[:len(s.nodes)]
	for i, n := range s.nodes {
		s.backup[i] = body{n.X, n.Y, n.VX, n.VY}
	}
	s.backupAlpha = s.alpha
}

func (s *Simulation) restore() {
	for i, n := range s.nodes {
		b := s.backup[i]
		n.X, n.Y, n.VX, n.VY = b.x, b.y, b.vx, b.vy
	}
	s.alpha = s.backupAlpha
	s.state = Idle
}

func (s *Simulation) snapshot() Snapshot {
	snap := Snapshot{
		Tick:        s.tick,
		Alpha:       s.alpha,
		AlphaTarget: s.alphaTarget,
		State:       s.state,
		Nodes:       make([]NodeState, len(s.nodes)),
		Links:       make([]LinkState, len(s.links)),
	}
	for i, n := range s.nodes {
		snap.Nodes[i] = NodeState{
			ID: n.ID, Group: n.Group, Degree: n.Degree,
			X: n.X, Y: n.Y, VX: n.VX, VY: n.VY,
			Fixed: n.Fixed(),
		}
	}
	for i, l := range s.links {
		snap.Links[i] = LinkState{Source: l.Source, Target: l.Target, Value: l.Value}
	}
	return snap
}

// Snapshot returns the state as of the last completed tick.
func (s *Simulation) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Run ticks until the simulation goes Idle, maxTicks ticks have run (when
// positive) or ctx is done. It returns the number of ticks executed.
func (s *Simulation) Run(ctx context.Context, maxTicks int) (int, error) {
	n := 0
	for s.State() == Running && (maxTicks <= 0 || n < maxTicks) {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if _, err := s.Tick(); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// State reports whether more ticks are wanted.
func (s *Simulation) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Alpha returns the current alpha.
func (s *Simulation) Alpha() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alpha
}

// SetAlpha sets alpha, clamped to [alphaMin, 1].
func (s *Simulation) SetAlpha(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: alpha = %v", ErrInvalidConfiguration, v)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alpha = math.Max(s.alphaMin, math.Min(1, v))
	return nil
}

// AlphaTarget returns the value alpha is decaying toward.
func (s *Simulation) AlphaTarget() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alphaTarget
}

// SetAlphaTarget sets the value alpha decays toward; it must be in [0, 1].
func (s *Simulation) SetAlphaTarget(v float64) error {
	if !(v >= 0 && v <= 1) {
		return fmt.Errorf("%w: alpha_target = %v", ErrInvalidConfiguration, v)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alphaTarget = v
	return nil
}

// Restart marks the simulation Running and wakes a parked scheduler.
func (s *Simulation) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restartLocked()
}

func (s *Simulation) restartLocked() {
	s.state = Running
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() Config {
	return s.cfg
}

// Node returns a copy of the named node's current state.
func (s *Simulation) Node(id string) (NodeState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byID[id]
	if !ok {
		return NodeState{}, false
	}
	return NodeState{
		ID: n.ID, Group: n.Group, Degree: n.Degree,
		X: n.X, Y: n.Y, VX: n.VX, VY: n.VY,
		Fixed: n.Fixed(),
	}, true
}

// Place moves a node to (x, y) and zeroes its velocity, e.g. to seed a layout.
func (s *Simulation) Place(id string, x, y float64) error {
	if err := checkFinite(x, y); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	n.X, n.Y, n.VX, n.VY = x, y, 0, 0
	return nil
}
