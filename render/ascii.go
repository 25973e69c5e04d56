package render

import (
	"strings"

	"github.com/TFMV/forcegraph/physics"
)

// Grid glyphs.
const (
	edgeGlyph  = '·'
	emptyGlyph = ' '
)

// nodeSymbols are assigned per group, cycling like the colour scale.
var nodeSymbols = []rune{'O', '@', '#', 'X', '*', '+'}

// NodeSymbol is the character drawn for nodes in a palette slot.
func NodeSymbol(slot int) rune {
	return nodeSymbols[slot%len(nodeSymbols)]
}

// Frame is a character grid plus, per cell, the palette slot of the node
// drawn there (-1 elsewhere) so hosts can colour it.
type Frame struct {
	Cells [][]rune
	Slots [][]int
}

// String joins the rows with newlines.
func (f *Frame) String() string {
	var b strings.Builder
	for _, row := range f.Cells {
		b.WriteString(string(row))
		b.WriteRune('\n')
	}
	return b.String()
}

// ASCIIRenderer outputs ASCII art format
type ASCIIRenderer struct{}

// Name returns the name of the renderer
func (r *ASCIIRenderer) Name() string {
	return "ASCII Renderer"
}

// Description returns a description of the renderer
func (r *ASCIIRenderer) Description() string {
	return "Renders graphs as ASCII art for terminal or text-based output"
}

// Render creates an ASCII representation of the snapshot
func (r *ASCIIRenderer) Render(snap physics.Snapshot, options *Options) ([]byte, error) {
	return []byte(r.Frame(snap, options).String()), nil
}

// GridSize returns the number of columns and rows used for options.
func GridSize(options *Options) (int, int) {
	width, height := options.Columns, options.Rows
	if width <= 0 {
		width = max(int(options.Width/10), 40) // Scale down for ASCII
	}
	if height <= 0 {
		height = max(int(options.Height/20), 20) // Characters are about twice as tall as wide
	}
	return max(width, 3), max(height, 3)
}

// CellOf maps a screen point to a grid cell inside the border.
func CellOf(options *Options, sx, sy float64) (int, int) {
	width, height := GridSize(options)
	x := int(sx*float64(width-2)/options.Width) + 1
	y := int(sy*float64(height-2)/options.Height) + 1
	return clamp(x, 1, width-2), clamp(y, 1, height-2)
}

// ScreenOf maps the centre of a grid cell back to a screen point; it is the
// inverse of CellOf used for pointer input.
func ScreenOf(options *Options, col, row int) (float64, float64) {
	width, height := GridSize(options)
	sx := (float64(col-1) + 0.5) * options.Width / float64(width-2)
	sy := (float64(row-1) + 0.5) * options.Height / float64(height-2)
	return sx, sy
}

// Frame draws the border, links, nodes and labels onto a fresh grid.
func (r *ASCIIRenderer) Frame(snap physics.Snapshot, options *Options) *Frame {
	width, height := GridSize(options)
	vp := options.viewport(snap)

	f := &Frame{Cells: make([][]rune, height), Slots: make([][]int, height)}
	for i := range f.Cells {
		f.Cells[i] = make([]rune, width)
		f.Slots[i] = make([]int, width)
		for j := range f.Cells[i] {
			f.Cells[i][j] = emptyGlyph
			f.Slots[i][j] = -1
		}
	}
	grid := f.Cells

	// Draw a border around the graph
	for i := 0; i < width; i++ {
		grid[0][i] = '-'
		grid[height-1][i] = '-'
	}
	for i := 0; i < height; i++ {
		grid[i][0] = '|'
		grid[i][width-1] = '|'
	}
	grid[0][0] = '+'
	grid[0][width-1] = '+'
	grid[height-1][0] = '+'
	grid[height-1][width-1] = '+'

	cell := func(n physics.NodeState) (int, int) {
		sx, sy := vp.Apply(n.X, n.Y)
		return CellOf(options, sx, sy)
	}

	for _, l := range snap.Links {
		x1, y1 := cell(snap.Nodes[l.Source])
		x2, y2 := cell(snap.Nodes[l.Target])
		drawLine(grid, x1, y1, x2, y2)
	}

	scale := NewOrdinal(len(options.palette().NodeColors))
	for _, n := range snap.Nodes {
		x, y := cell(n)
		slot := scale.Index(n.Group)
		grid[y][x] = NodeSymbol(slot)
		f.Slots[y][x] = slot

		// Label below the node, truncated at the border.
		if options.ShowLabels && y+1 < height-1 {
			for i, c := range []rune(n.ID) {
				if x+i >= width-1 {
					break
				}
				if f.Slots[y+1][x+i] < 0 {
					grid[y+1][x+i] = c
				}
			}
		}
	}

	if options.Title != "" && height > 3 {
		for i, c := range []rune(options.Title) {
			if i+2 >= width-1 {
				break
			}
			grid[0][i+2] = c
		}
	}

	return f
}

// Clamp a value between lo and hi
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

func isNodeSymbol(r rune) bool {
	for _, s := range nodeSymbols {
		if r == s {
			return true
		}
	}
	return false
}

// Draw a line on the ASCII grid using Bresenham's algorithm
func drawLine(grid [][]rune, x1, y1, x2, y2 int) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 >= x2 {
		sx = -1
	}
	sy := 1
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy

	for {
		if y1 > 0 && y1 < len(grid)-1 && x1 > 0 && x1 < len(grid[0])-1 && !isNodeSymbol(grid[y1][x1]) {
			grid[y1][x1] = edgeGlyph
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
