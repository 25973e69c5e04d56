package render

import (
	"math"

	"github.com/TFMV/forcegraph/physics"
)

// Zoom limits.
const (
	MinScale float64 = 0.1
	MaxScale float64 = 8
)

// Viewport is a zoom/pan transform from layout to screen coordinates:
// screen = layout*Scale + (X, Y). It never touches the simulation.
type Viewport struct {
	Scale float64
	X, Y  float64
}

// Identity returns the transform that leaves coordinates unchanged.
func Identity() Viewport {
	return Viewport{Scale: 1}
}

func (v Viewport) scale() float64 {
	if v.Scale == 0 {
		return 1
	}
	return v.Scale
}

// Apply maps a layout point to the screen.
func (v Viewport) Apply(x, y float64) (float64, float64) {
	k := v.scale()
	return x*k + v.X, y*k + v.Y
}

// Invert maps a screen point back to layout coordinates, e.g. for a pointer.
func (v Viewport) Invert(sx, sy float64) (float64, float64) {
	k := v.scale()
	return (sx - v.X) / k, (sy - v.Y) / k
}

// Pan shifts the view by a screen-space offset.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.Scale = v.scale()
	v.X += dx
	v.Y += dy
	return v
}

// ZoomAt scales by factor while keeping the screen point (sx, sy) fixed.
func (v Viewport) ZoomAt(factor, sx, sy float64) Viewport {
	k := v.scale()
	nk := math.Max(MinScale, math.Min(MaxScale, k*factor))
	lx, ly := v.Invert(sx, sy)
	return Viewport{Scale: nk, X: sx - lx*nk, Y: sy - ly*nk}
}

// Fit returns the transform that centres every node of snap inside a
// width x height screen with padding on each side.
func Fit(snap physics.Snapshot, width, height, padding float64) Viewport {
	if len(snap.Nodes) == 0 {
		return Identity()
	}

	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	for _, n := range snap.Nodes {
		x0 = math.Min(x0, n.X)
		y0 = math.Min(y0, n.Y)
		x1 = math.Max(x1, n.X)
		y1 = math.Max(y1, n.Y)
	}

	w := math.Max(width-2*padding, 1)
	h := math.Max(height-2*padding, 1)
	k := MaxScale
	if x1 > x0 {
		k = math.Min(k, w/(x1-x0))
	}
	if y1 > y0 {
		k = math.Min(k, h/(y1-y0))
	}
	k = math.Max(MinScale, k)

	cx, cy := (x0+x1)/2, (y0+y1)/2
	return Viewport{Scale: k, X: width/2 - cx*k, Y: height/2 - cy*k}
}
