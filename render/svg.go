package render

import (
	"bytes"
	"fmt"
	"html"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/TFMV/forcegraph/physics"
)

// SVGRenderer outputs SVG format
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Description returns a description of the renderer
func (r *SVGRenderer) Description() string {
	return "Renders the layout as a scalable vector graphic with degree-sized nodes"
}

// Render creates an SVG representation of the snapshot. Links are drawn
// first so nodes sit on top; each node group carries a <title> tooltip.
func (r *SVGRenderer) Render(snap physics.Snapshot, options *Options) ([]byte, error) {
	var buf bytes.Buffer
	palette := options.palette()
	vp := options.viewport(snap)
	width, height := int(math.Round(options.Width)), int(math.Round(options.Height))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid SVG size %dx%d", width, height)
	}

	canvas := svg.New(&buf)
	canvas.Start(width, height)
	if options.Title != "" {
		canvas.Title(options.Title)
	}
	canvas.Rect(0, 0, width, height, "fill:"+palette.Background)

	canvas.Gtransform(fmt.Sprintf("translate(%.3f,%.3f) scale(%.4f)", vp.X, vp.Y, vp.scale()))

	canvas.Group(fmt.Sprintf(`class="links" stroke="%s" stroke-opacity="0.6"`, palette.EdgeColor))
	for _, l := range snap.Links {
		s, t := snap.Nodes[l.Source], snap.Nodes[l.Target]
		canvas.Line(round(s.X), round(s.Y), round(t.X), round(t.Y),
			fmt.Sprintf("stroke-width:%.3f", StrokeWidth(l.Value)))
	}
	canvas.Gend()

	scale := NewOrdinal(len(palette.NodeColors))
	canvas.Group(`class="nodes" stroke="#fff" stroke-width="1.5"`)
	for _, n := range snap.Nodes {
		canvas.Group(fmt.Sprintf(`class="node" data-group="%s"`, html.EscapeString(n.Group)))
		canvas.Title(n.ID)
		canvas.Circle(round(n.X), round(n.Y), round(NodeRadius(n.Degree)),
			"fill:"+palette.Color(scale, n.Group))
		canvas.Gend()
	}
	canvas.Gend()

	if options.ShowLabels {
		canvas.Group(fmt.Sprintf(`class="labels" fill="%s" font-size="12px" text-anchor="middle"`, palette.LabelColor))
		for _, n := range snap.Nodes {
			canvas.Text(round(n.X), round(n.Y-20), n.ID)
		}
		canvas.Gend()
	}

	canvas.Gend()
	canvas.End()
	return buf.Bytes(), nil
}

func round(v float64) int {
	return int(math.Round(v))
}
