// Package render draws simulation snapshots. Renderers only read snapshots;
// the viewport transform is applied at draw time and never feeds back into
// the layout.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/TFMV/forcegraph/physics"
)

// Options defines rendering configuration options
type Options struct {
	Format     string   // Output format (svg, ascii)
	Width      float64  // Width of the output in screen units
	Height     float64  // Height of the output in screen units
	Palette    *Palette // Colours; nil selects Category10
	Viewport   Viewport // Zoom/pan transform
	Fit        bool     // Replace Viewport with one that frames every node
	Padding    float64  // Margin kept by Fit
	ShowLabels bool     // Show node labels
	Title      string   // Optional heading
	Columns    int      // ASCII grid width; 0 derives it from Width
	Rows       int      // ASCII grid height; 0 derives it from Height
}

// Renderer interface defines methods that all rendering backends must implement
type Renderer interface {
	// Render draws one snapshot using the provided options
	Render(snap physics.Snapshot, options *Options) ([]byte, error)

	// Name returns the name of the renderer
	Name() string

	// Description returns a description of the renderer
	Description() string
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions(format string) *Options {
	return &Options{
		Format:     format,
		Width:      800,
		Height:     600,
		Palette:    Category10(),
		Viewport:   Identity(),
		Padding:    40,
		ShowLabels: true,
	}
}

// GetRenderer returns the appropriate renderer based on format
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{}, nil
	case "ascii", "txt":
		return &ASCIIRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Generate renders snap in the format named by options.
func Generate(snap physics.Snapshot, options *Options) ([]byte, error) {
	renderer, err := GetRenderer(options.Format)
	if err != nil {
		return nil, err
	}
	return renderer.Render(snap, options)
}

// NodeRadius grows with degree: 5 + 2*degree.
func NodeRadius(degree int) float64 {
	return 5 + 2*float64(degree)
}

// StrokeWidth is the square root of the link value, so heavy links stay legible.
func StrokeWidth(value float64) float64 {
	if value <= 0 {
		return 0
	}
	return math.Sqrt(value)
}

func (o *Options) palette() *Palette {
	if o.Palette == nil {
		return Category10()
	}
	return o.Palette
}

// viewport resolves the transform to use for snap.
func (o *Options) viewport(snap physics.Snapshot) Viewport {
	if o.Fit {
		return Fit(snap, o.Width, o.Height, o.Padding)
	}
	return o.Viewport
}
