package render_test

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/forcegraph/physics"
	"github.com/TFMV/forcegraph/render"
)

func snapshot() physics.Snapshot {
	return physics.Snapshot{
		Nodes: []physics.NodeState{
			{ID: "hub", Group: "1", Degree: 3, X: 400, Y: 300},
			{ID: "left", Group: "2", Degree: 1, X: 200, Y: 300},
			{ID: "right", Group: "2", Degree: 1, X: 600, Y: 300},
			{ID: "down", Group: "3", Degree: 1, X: 400, Y: 500},
		},
		Links: []physics.LinkState{
			{Source: 0, Target: 1, Value: 4},
			{Source: 0, Target: 2, Value: 1},
			{Source: 0, Target: 3, Value: 9},
		},
	}
}

func TestStyleHelpers(t *testing.T) {
	assert.Equal(t, 5.0, render.NodeRadius(0))
	assert.Equal(t, 11.0, render.NodeRadius(3))
	assert.Equal(t, 3.0, render.StrokeWidth(9))
	assert.Zero(t, render.StrokeWidth(-1))
}

func TestOrdinal(t *testing.T) {
	p := render.Category10()
	o := render.NewOrdinal(len(p.NodeColors))

	assert.Equal(t, "#1f77b4", p.Color(o, "b"))
	assert.Equal(t, "#ff7f0e", p.Color(o, "a"))
	assert.Equal(t, "#1f77b4", p.Color(o, "b"))

	for i := 0; i < 8; i++ {
		o.Index(string(rune('c' + i)))
	}
	// The eleventh distinct group wraps around.
	assert.Equal(t, 0, o.Index("z"))
}

func TestPaletteByName(t *testing.T) {
	for _, name := range []string{"", "category10", "vivid", "Dark"} {
		p, err := render.PaletteByName(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, p.NodeColors)
	}
	_, err := render.PaletteByName("neon")
	assert.Error(t, err)
}

func TestViewport(t *testing.T) {
	v := render.Identity().Pan(10, 20)
	x, y := v.Apply(1, 2)
	assert.Equal(t, 11.0, x)
	assert.Equal(t, 22.0, y)

	z := v.ZoomAt(2, 100, 100)
	// The anchor stays under the cursor.
	lx, ly := v.Invert(100, 100)
	sx, sy := z.Apply(lx, ly)
	assert.InDelta(t, 100, sx, 1e-9)
	assert.InDelta(t, 100, sy, 1e-9)
	assert.Equal(t, 2.0, z.Scale)

	assert.Equal(t, render.MaxScale, z.ZoomAt(1000, 0, 0).Scale)
	assert.Equal(t, render.MinScale, z.ZoomAt(0.0001, 0, 0).Scale)

	var zero render.Viewport
	x, y = zero.Invert(5, 6)
	assert.Equal(t, 5.0, x)
	assert.Equal(t, 6.0, y)
}

func TestFit(t *testing.T) {
	snap := snapshot()
	v := render.Fit(snap, 800, 600, 50)

	for _, n := range snap.Nodes {
		x, y := v.Apply(n.X, n.Y)
		assert.GreaterOrEqual(t, x, 50-1e-9)
		assert.LessOrEqual(t, x, 750+1e-9)
		assert.GreaterOrEqual(t, y, 50-1e-9)
		assert.LessOrEqual(t, y, 550+1e-9)
	}
	assert.Equal(t, render.Identity(), render.Fit(physics.Snapshot{}, 800, 600, 50))
}

func TestSVGRenderer(t *testing.T) {
	opts := render.NewDefaultOptions("svg")
	opts.Title = "test & graph"
	out, err := render.Generate(snapshot(), opts)
	require.NoError(t, err)

	doc := string(out)
	assert.Equal(t, 4, strings.Count(doc, "<circle"))
	assert.Equal(t, 3, strings.Count(doc, "<line"))
	assert.Contains(t, doc, `r="11"`)
	assert.Contains(t, doc, "stroke-width:3.000")
	assert.Contains(t, doc, "fill:#1f77b4")
	assert.Contains(t, doc, "fill:#ff7f0e")
	for _, id := range []string{"hub", "left", "right", "down"} {
		assert.Contains(t, doc, "<title>"+id+"</title>")
	}
	assert.Contains(t, doc, "test &amp; graph")

	// Well-formed XML.
	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error())
			break
		}
	}
}

func TestSVGRenderer_NoLabelsAndBadSize(t *testing.T) {
	opts := render.NewDefaultOptions("svg")
	opts.ShowLabels = false
	out, err := (&render.SVGRenderer{}).Render(snapshot(), opts)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<text")

	opts.Width = 0
	_, err = (&render.SVGRenderer{}).Render(snapshot(), opts)
	assert.Error(t, err)
}

func TestASCIIRenderer(t *testing.T) {
	opts := render.NewDefaultOptions("ascii")
	opts.ShowLabels = false
	r := &render.ASCIIRenderer{}

	frame := r.Frame(snapshot(), opts)
	cols, rows := render.GridSize(opts)
	assert.Equal(t, 80, cols)
	assert.Equal(t, 30, rows)
	require.Len(t, frame.Cells, rows)

	nodes := 0
	for y, row := range frame.Slots {
		for x, slot := range row {
			if slot >= 0 {
				nodes++
				assert.NotEqual(t, ' ', frame.Cells[y][x])
			}
		}
	}
	assert.Equal(t, 4, nodes)

	hx, hy := render.CellOf(opts, 400, 300)
	assert.Equal(t, 'O', frame.Cells[hy][hx])
	assert.Equal(t, 0, frame.Slots[hy][hx])
	lx, ly := render.CellOf(opts, 200, 300)
	assert.Equal(t, '@', frame.Cells[ly][lx])

	out, err := r.Render(snapshot(), opts)
	require.NoError(t, err)
	assert.Equal(t, rows, strings.Count(string(out), "\n"))
	assert.Contains(t, string(out), "·")
	assert.True(t, strings.HasPrefix(string(out), "+---"))
}

func TestASCIIRenderer_Labels(t *testing.T) {
	opts := render.NewDefaultOptions("ascii")
	opts.Title = "forcegraph"
	out, err := render.Generate(snapshot(), opts)
	require.NoError(t, err)

	for _, id := range []string{"hub", "left", "right", "down"} {
		assert.Contains(t, string(out), id)
	}
	assert.Contains(t, string(out), "forcegraph")
}

func TestCellRoundTrip(t *testing.T) {
	opts := render.NewDefaultOptions("ascii")
	opts.Columns, opts.Rows = 42, 22

	for _, p := range [][2]int{{1, 1}, {10, 5}, {40, 20}} {
		sx, sy := render.ScreenOf(opts, p[0], p[1])
		x, y := render.CellOf(opts, sx, sy)
		assert.Equal(t, p[0], x)
		assert.Equal(t, p[1], y)
	}
}

func TestGetRenderer(t *testing.T) {
	r, err := render.GetRenderer("SVG")
	require.NoError(t, err)
	assert.Equal(t, "SVG Renderer", r.Name())
	assert.NotEmpty(t, r.Description())

	_, err = render.GetRenderer("png")
	assert.Error(t, err)
}
