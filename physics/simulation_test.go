package physics_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/forcegraph/models"
	"github.com/TFMV/forcegraph/physics"
)

func newSim(t *testing.T, ids []string, edges [][2]string, mutate func(*physics.Config)) *physics.Simulation {
	t.Helper()
	nodes := make([]models.Node, len(ids))
	for i, id := range ids {
		nodes[i] = models.Node{ID: id, Group: "g"}
	}
	links := make([]models.Link, len(edges))
	for i, e := range edges {
		links[i] = models.Link{Source: e[0], Target: e[1], Value: 1}
	}
	g, err := models.Load(nodes, links)
	require.NoError(t, err)

	cfg := physics.DefaultConfig(800, 600)
	if mutate != nil {
		mutate(&cfg)
	}
	sim, err := physics.NewSimulation(g, cfg)
	require.NoError(t, err)
	return sim
}

func distance(a, b physics.NodeState) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func TestNewSimulation_RejectsInvalidConfig(t *testing.T) {
	g, err := models.Load([]models.Node{{ID: "a"}}, nil)
	require.NoError(t, err)

	cfg := physics.DefaultConfig(800, 600)
	cfg.VelocityDecay = math.NaN()
	_, err = physics.NewSimulation(g, cfg)
	assert.ErrorIs(t, err, physics.ErrInvalidConfiguration)
}

func TestNewSimulation_InitialPlacement(t *testing.T) {
	sim := newSim(t, []string{"a", "b", "c", "d"}, nil, nil)
	snap := sim.Snapshot()

	assert.Equal(t, physics.Running, sim.State())
	assert.Equal(t, 1.0, snap.Alpha)
	seen := map[[2]float64]bool{}
	for _, n := range snap.Nodes {
		assert.Less(t, math.Hypot(n.X-400, n.Y-300), 30.0)
		assert.False(t, n.Fixed)
		seen[[2]float64{n.X, n.Y}] = true
	}
	assert.Len(t, seen, 4)

	f, ok := sim.Force("charge")
	require.True(t, ok)
	assert.Equal(t, "charge", f.Name())
	_, ok = sim.Force("gravity")
	assert.False(t, ok)
}

func TestSimulation_TwoNodesSettleAtLinkDistance(t *testing.T) {
	sim := newSim(t, []string{"a", "b"}, [][2]string{{"a", "b"}}, nil)

	ticks, err := sim.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.InDelta(t, 300, ticks, 2)

	snap := sim.Snapshot()
	assert.InDelta(t, 100, distance(snap.Nodes[0], snap.Nodes[1]), 5)
	assert.LessOrEqual(t, snap.Alpha, sim.Config().AlphaMin)
	assert.Equal(t, physics.Idle, snap.State)
}

func TestSimulation_ChainCentredOnTarget(t *testing.T) {
	sim := newSim(t, []string{"a", "b", "c", "d", "e"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "e"}}, nil)

	_, err := sim.Run(context.Background(), 0)
	require.NoError(t, err)

	var cx, cy float64
	snap := sim.Snapshot()
	for _, n := range snap.Nodes {
		cx += n.X
		cy += n.Y
	}
	assert.InDelta(t, 400, cx/5, 5)
	assert.InDelta(t, 300, cy/5, 5)
	for _, l := range snap.Links {
		assert.InDelta(t, 100, distance(snap.Nodes[l.Source], snap.Nodes[l.Target]), 30)
	}
}

func TestSimulation_CoincidentNodesSeparate(t *testing.T) {
	sim := newSim(t, []string{"a", "b", "c"}, nil, nil)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, sim.Place(id, 400, 300))
	}

	ticks, err := sim.Run(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, 50, ticks)

	snap := sim.Snapshot()
	for i := range snap.Nodes {
		for j := i + 1; j < len(snap.Nodes); j++ {
			assert.Greater(t, distance(snap.Nodes[i], snap.Nodes[j]), 1.0, "%d-%d", i, j)
		}
	}
}

func TestSimulation_ZeroRepulsionCollapsesLink(t *testing.T) {
	sim := newSim(t, []string{"a", "b"}, [][2]string{{"a", "b"}}, func(c *physics.Config) {
		c.RepulsionStrength = 0
		c.LinkDistance = 0
	})

	_, err := sim.Run(context.Background(), 0)
	require.NoError(t, err)
	snap := sim.Snapshot()
	assert.Less(t, distance(snap.Nodes[0], snap.Nodes[1]), 1.0)
}

func TestSimulation_LinkValueStiffness(t *testing.T) {
	g, err := models.Load(
		[]models.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}},
		[]models.Link{{Source: "a", Target: "b", Value: 1}, {Source: "c", Target: "d", Value: 4}},
	)
	require.NoError(t, err)

	cfg := physics.DefaultConfig(800, 600)
	cfg.RepulsionStrength = 0
	cfg.LinkValueStiffness = true
	sim, err := physics.NewSimulation(g, cfg)
	require.NoError(t, err)
	require.NoError(t, sim.Place("a", 100, 100))
	require.NoError(t, sim.Place("b", 300, 100))
	require.NoError(t, sim.Place("c", 100, 400))
	require.NoError(t, sim.Place("d", 300, 400))

	_, err = sim.Tick()
	require.NoError(t, err)
	snap := sim.Snapshot()
	light := distance(snap.Nodes[0], snap.Nodes[1])
	heavy := distance(snap.Nodes[2], snap.Nodes[3])
	assert.Less(t, heavy, light, "heavier link pulls harder")
	assert.Less(t, light, 200.0)
}

func TestSimulation_PinnedNodeNeverMoves(t *testing.T) {
	sim := newSim(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"a", "c"}}, func(c *physics.Config) {
		c.RepulsionStrength = -5000
	})
	require.NoError(t, sim.Fix("a", 50, 50))

	ticks := 0
	cancel := sim.OnTick(func(s physics.Snapshot) {
		ticks++
		assert.Equal(t, 50.0, s.Nodes[0].X)
		assert.Equal(t, 50.0, s.Nodes[0].Y)
		assert.Zero(t, s.Nodes[0].VX)
		assert.True(t, s.Nodes[0].Fixed)
	})
	defer cancel()

	_, err := sim.Run(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 100, ticks)

	require.NoError(t, sim.Release("a"))
	n, ok := sim.Node("a")
	require.True(t, ok)
	assert.False(t, n.Fixed)
}

func TestSimulation_AlphaMonotoneAndBounded(t *testing.T) {
	sim := newSim(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}}, nil)
	alphaMin := sim.Config().AlphaMin

	var alphas []float64
	sim.OnTick(func(s physics.Snapshot) { alphas = append(alphas, s.Alpha) })
	_, err := sim.Run(context.Background(), 1000)
	require.NoError(t, err)

	require.NotEmpty(t, alphas)
	prev := 1.0
	for i, a := range alphas {
		assert.GreaterOrEqual(t, a, alphaMin, "tick %d", i)
		assert.LessOrEqual(t, a, prev, "tick %d", i)
		prev = a
	}
	assert.Equal(t, physics.Idle, sim.State())

	// Idle simulations stay put until restarted.
	ticks, err := sim.Run(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, ticks)

	sim.Restart()
	assert.Equal(t, physics.Running, sim.State())
}

func TestSimulation_SetAlphaClamps(t *testing.T) {
	sim := newSim(t, []string{"a"}, nil, nil)

	require.NoError(t, sim.SetAlpha(5))
	assert.Equal(t, 1.0, sim.Alpha())
	require.NoError(t, sim.SetAlpha(-1))
	assert.Equal(t, sim.Config().AlphaMin, sim.Alpha())
	assert.ErrorIs(t, sim.SetAlpha(math.NaN()), physics.ErrInvalidConfiguration)

	require.NoError(t, sim.SetAlphaTarget(0.5))
	assert.Equal(t, 0.5, sim.AlphaTarget())
	assert.ErrorIs(t, sim.SetAlphaTarget(1.5), physics.ErrInvalidConfiguration)
}

func TestSimulation_Deterministic(t *testing.T) {
	run := func() physics.Snapshot {
		sim := newSim(t, []string{"a", "b", "c", "d"}, [][2]string{{"a", "b"}}, nil)
		for _, id := range []string{"a", "b", "c"} {
			require.NoError(t, sim.Place(id, 100, 100))
		}
		_, err := sim.Run(context.Background(), 40)
		require.NoError(t, err)
		return sim.Snapshot()
	}
	assert.Equal(t, run(), run())
}

func TestSimulation_EmptyGraph(t *testing.T) {
	sim := newSim(t, nil, nil, nil)
	snap, err := sim.Tick()
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Tick)
	assert.Empty(t, snap.Nodes)
}

func TestSimulation_UnknownNode(t *testing.T) {
	sim := newSim(t, []string{"a"}, nil, nil)

	assert.ErrorIs(t, sim.Place("x", 0, 0), physics.ErrUnknownNode)
	assert.ErrorIs(t, sim.Fix("x", 0, 0), physics.ErrUnknownNode)
	assert.ErrorIs(t, sim.Release("x"), physics.ErrUnknownNode)
	assert.ErrorIs(t, sim.DragStart("x", 0, 0), physics.ErrUnknownNode)
	assert.ErrorIs(t, sim.DragMove("x", 0, 0), physics.ErrUnknownNode)
	assert.ErrorIs(t, sim.DragEnd("x"), physics.ErrUnknownNode)
	_, ok := sim.Node("x")
	assert.False(t, ok)
}

func TestSimulation_RejectsNonFinitePlacement(t *testing.T) {
	sim := newSim(t, []string{"a", "b", "c"}, [][2]string{{"a", "c"}}, nil)
	before, _ := sim.Node("c")

	assert.ErrorIs(t, sim.Place("c", math.NaN(), math.NaN()), physics.ErrNonFinite)
	assert.ErrorIs(t, sim.Place("c", 0, math.Inf(-1)), physics.ErrNonFinite)
	assert.ErrorIs(t, sim.Fix("c", math.Inf(1), 0), physics.ErrNonFinite)

	after, _ := sim.Node("c")
	assert.Equal(t, before, after)
	for i := 0; i < 3; i++ {
		_, err := sim.Tick()
		require.NoError(t, err)
	}
	assert.Equal(t, physics.Running, sim.State())
}

func TestSimulation_PanickingHandler(t *testing.T) {
	sim := newSim(t, []string{"a", "b"}, [][2]string{{"a", "b"}}, nil)

	var later int
	sim.OnTick(func(physics.Snapshot) { panic("handler boom") })
	sim.OnTick(func(physics.Snapshot) { later++ })

	snap, err := sim.Tick()
	require.Error(t, err)
	var te *physics.TickError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 1, te.Tick)
	assert.Contains(t, err.Error(), "handler boom")
	assert.Equal(t, 1, snap.Tick, "the tick itself is committed")
	assert.Equal(t, 1, sim.Snapshot().Tick)
	assert.Equal(t, 1, later, "remaining handlers still run")

	_, err = sim.Run(context.Background(), 5)
	assert.Error(t, err)
}

func TestSimulation_HandlersAndCancel(t *testing.T) {
	sim := newSim(t, []string{"a", "b"}, [][2]string{{"a", "b"}}, nil)

	var first, second int
	cancelFirst := sim.OnTick(func(physics.Snapshot) { first++ })
	sim.OnTick(func(s physics.Snapshot) {
		second++
		assert.Equal(t, second, s.Tick)
	})

	_, err := sim.Run(context.Background(), 3)
	require.NoError(t, err)
	cancelFirst()
	cancelFirst()
	_, err = sim.Run(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 3, first)
	assert.Equal(t, 5, second)
}

func TestSimulation_RunHonoursContext(t *testing.T) {
	sim := newSim(t, []string{"a", "b"}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ticks, err := sim.Run(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, ticks)
}

type panicForce struct{}

func (panicForce) Name() string { return "boom" }

func (panicForce) Initialize([]*physics.Node, []*physics.Link, *physics.Jiggler) error {
	return nil
}

func (panicForce) Apply(step *physics.Step) {
	step.Nodes[0].VX += 1000
	panic("exploded")
}

type nanForce struct{}

func (nanForce) Name() string { return "nan" }

func (nanForce) Initialize([]*physics.Node, []*physics.Link, *physics.Jiggler) error {
	return nil
}

func (nanForce) Apply(step *physics.Step) {
	step.Nodes[1].VY = math.NaN()
}

type failingInit struct{ panicForce }

func (failingInit) Initialize([]*physics.Node, []*physics.Link, *physics.Jiggler) error {
	return errors.New("no tables")
}

func TestSimulation_TickRollsBack(t *testing.T) {
	tests := []struct {
		name  string
		force physics.Force
		check func(t *testing.T, err error)
	}{
		{
			name:  "Panic",
			force: panicForce{},
			check: func(t *testing.T, err error) {
				var te *physics.TickError
				require.ErrorAs(t, err, &te)
				assert.Equal(t, "boom", te.Force)
				assert.Equal(t, 3, te.Tick)
			},
		},
		{
			name:  "NonFinite",
			force: nanForce{},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, physics.ErrNonFinite)
				var te *physics.TickError
				require.ErrorAs(t, err, &te)
				assert.Empty(t, te.Force)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := newSim(t, []string{"a", "b"}, [][2]string{{"a", "b"}}, nil)
			_, err := sim.Run(context.Background(), 2)
			require.NoError(t, err)
			before := sim.Snapshot()

			calls := 0
			sim.OnTick(func(physics.Snapshot) { calls++ })
			require.NoError(t, sim.AddForce(tt.force))

			_, err = sim.Tick()
			require.Error(t, err)
			tt.check(t, err)

			after := sim.Snapshot()
			assert.Equal(t, before.Nodes, after.Nodes)
			assert.Equal(t, before.Alpha, after.Alpha)
			assert.Equal(t, before.Tick, after.Tick)
			assert.Equal(t, physics.Idle, after.State)
			assert.Zero(t, calls)
		})
	}
}

func TestSimulation_AddForceInitError(t *testing.T) {
	sim := newSim(t, []string{"a"}, nil, nil)
	err := sim.AddForce(failingInit{})
	assert.ErrorContains(t, err, "no tables")
	_, ok := sim.Force("boom")
	assert.False(t, ok)
}

func TestSimulation_DragScenario(t *testing.T) {
	sim := newSim(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}}, nil)
	_, err := sim.Run(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, physics.Idle, sim.State())

	start, _ := sim.Node("a")
	require.NoError(t, sim.DragStart("a", start.X, start.Y))
	assert.Equal(t, physics.Running, sim.State())
	assert.Equal(t, 0.3, sim.AlphaTarget())
	assert.ErrorIs(t, sim.DragStart("a", 0, 0), physics.ErrAlreadyDragging)
	assert.ErrorIs(t, sim.Release("a"), physics.ErrAlreadyDragging)

	// Pinned where it was until the pointer moves.
	snap, err := sim.Tick()
	require.NoError(t, err)
	assert.Equal(t, start.X, snap.Nodes[0].X)
	assert.Equal(t, start.Y, snap.Nodes[0].Y)

	require.NoError(t, sim.DragMove("a", 200, 200))
	assert.ErrorIs(t, sim.DragMove("a", math.Inf(1), 0), physics.ErrNonFinite)
	assert.Equal(t, []physics.Drag{{ID: "a", PointerX: 200, PointerY: 200}}, sim.Dragging())

	for i := 0; i < 100; i++ {
		snap, err := sim.Tick()
		require.NoError(t, err)
		assert.Equal(t, 200.0, snap.Nodes[0].X)
		assert.Equal(t, 200.0, snap.Nodes[0].Y)
		assert.Equal(t, 0.3, snap.AlphaTarget)
		assert.Equal(t, physics.Running, snap.State)
	}
	// Alpha converges on the reheat target while the drag lasts.
	assert.InDelta(t, 0.3, sim.Alpha(), 0.05)

	require.NoError(t, sim.DragEnd("a"))
	assert.Zero(t, sim.AlphaTarget())
	assert.Empty(t, sim.Dragging())
	assert.ErrorIs(t, sim.DragEnd("a"), physics.ErrNotDragging)
	assert.ErrorIs(t, sim.DragMove("a", 1, 1), physics.ErrNotDragging)

	n, _ := sim.Node("a")
	assert.False(t, n.Fixed)

	_, err = sim.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, physics.Idle, sim.State())
}

func TestSimulation_OverlappingDrags(t *testing.T) {
	sim := newSim(t, []string{"a", "b"}, [][2]string{{"a", "b"}}, nil)

	require.NoError(t, sim.DragStart("a", 0, 0))
	require.NoError(t, sim.DragStart("b", 0, 0))
	require.NoError(t, sim.DragEnd("a"))
	// One drag still holds the layout warm.
	assert.Equal(t, 0.3, sim.AlphaTarget())
	require.NoError(t, sim.DragEnd("b"))
	assert.Zero(t, sim.AlphaTarget())
}
