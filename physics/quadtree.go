package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// maxDepth bounds subdivision. Below it, cells are narrower than the float
// spacing of their coordinates and bodies are chained in one leaf instead.
const maxDepth = 52

// Kernel returns the velocity contribution on a body from a mass at offset d.
type Kernel func(d r2.Vec, mass float64) r2.Vec

// Quadtree is a Barnes-Hut spatial index over node positions. It is built
// from scratch each tick and never updated in place.
type Quadtree struct {
	root   *cell
	x0, y0 float64
	size   float64
	count  int
	jiggle *Jiggler
}

type cell struct {
	children [4]*cell
	bodies   []*Node // Leaf only; bodies sharing one position
	mass     float64
	centroid r2.Vec
}

func (c *cell) leaf() bool {
	return c.children == [4]*cell{}
}

// Cell is a read-only view of a quadtree cell handed to Visit.
type Cell struct {
	X0, Y0   float64
	Size     float64
	Mass     float64
	Centroid r2.Vec
	Bodies   []*Node
	Leaf     bool
}

// BuildQuadtree indexes every node with a finite position exactly once.
func BuildQuadtree(nodes []*Node, jiggle *Jiggler) *Quadtree {
	t := &Quadtree{jiggle: jiggle}

	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		if !n.finite() {
			continue
		}
		x0 = math.Min(x0, n.X)
		y0 = math.Min(y0, n.Y)
		x1 = math.Max(x1, n.X)
		y1 = math.Max(y1, n.Y)
	}
	if x0 > x1 {
		return t
	}

	size := math.Max(x1-x0, y1-y0)
	if size == 0 {
		size = 1
	}
	t.x0, t.y0, t.size = x0, y0, size
	t.root = &cell{}

	for _, n := range nodes {
		if n.finite() {
			t.insert(n)
			t.count++
		}
	}
	t.root.accumulate()
	return t
}

// quadrant returns 0..3 for NW, NE, SW, SE relative to the cell midpoint.
func quadrant(n *Node, x0, y0, half float64) int {
	i := 0
	if n.X >= x0+half {
		i |= 1
	}
	if n.Y >= y0+half {
		i |= 2
	}
	return i
}

func childOrigin(i int, x0, y0, half float64) (float64, float64) {
	if i&1 != 0 {
		x0 += half
	}
	if i&2 != 0 {
		y0 += half
	}
	return x0, y0
}

func (t *Quadtree) insert(n *Node) {
	c := t.root
	x0, y0, size := t.x0, t.y0, t.size

	for depth := 0; ; depth++ {
		if c.leaf() {
			if len(c.bodies) == 0 {
				c.bodies = []*Node{n}
				return
			}
			other := c.bodies[0]
			if (other.X == n.X && other.Y == n.Y) || depth >= maxDepth {
				c.bodies = append(c.bodies, n)
				return
			}
			// Push the resident bodies one level down, then keep descending.
			existing := c.bodies
			c.bodies = nil
			c.children[quadrant(other, x0, y0, size/2)] = &cell{bodies: existing}
		}

		half := size / 2
		i := quadrant(n, x0, y0, half)
		if c.children[i] == nil {
			c.children[i] = &cell{bodies: []*Node{n}}
			return
		}
		c = c.children[i]
		x0, y0 = childOrigin(i, x0, y0, half)
		size = half
	}
}

func (c *cell) accumulate() {
	if c.leaf() {
		c.mass = float64(len(c.bodies))
		var sum r2.Vec
		for _, b := range c.bodies {
			sum = r2.Add(sum, b.Pos())
		}
		if c.mass > 0 {
			c.centroid = r2.Scale(1/c.mass, sum)
		}
		return
	}

	var weighted r2.Vec
	for _, child := range c.children {
		if child == nil {
			continue
		}
		child.accumulate()
		c.mass += child.mass
		weighted = r2.Add(weighted, r2.Scale(child.mass, child.centroid))
	}
	if c.mass > 0 {
		c.centroid = r2.Scale(1/c.mass, weighted)
	}
}

// Len returns the number of indexed bodies.
func (t *Quadtree) Len() int {
	return t.count
}

// Bounds returns the square covered by the root cell.
func (t *Quadtree) Bounds() (x0, y0, size float64) {
	return t.x0, t.y0, t.size
}

// Visit walks cells depth first. Returning true from fn skips that cell's children.
func (t *Quadtree) Visit(fn func(c Cell) bool) {
	if t.root != nil {
		t.visit(t.root, t.x0, t.y0, t.size, fn)
	}
}

func (t *Quadtree) visit(c *cell, x0, y0, size float64, fn func(c Cell) bool) {
	skip := fn(Cell{
		X0: x0, Y0: y0, Size: size,
		Mass: c.mass, Centroid: c.centroid,
		Bodies: c.bodies, Leaf: c.leaf(),
	})
	if skip {
		return
	}
	half := size / 2
	for i, child := range c.children {
		if child != nil {
			cx, cy := childOrigin(i, x0, y0, half)
			t.visit(child, cx, cy, half, fn)
		}
	}
}

// ForceOn sums kernel contributions on n from every other indexed body. A
// cell that does not contain n and whose side over centroid distance is below
// theta counts as one body of its aggregate mass. Theta zero is exact.
func (t *Quadtree) ForceOn(n *Node, theta float64, kernel Kernel) r2.Vec {
	var acc r2.Vec
	if t.root != nil {
		t.forceFrom(t.root, t.x0, t.y0, t.size, n, theta*theta, kernel, &acc)
	}
	return acc
}

func (t *Quadtree) forceFrom(c *cell, x0, y0, size float64, n *Node, theta2 float64, kernel Kernel, acc *r2.Vec) {
	if c.mass == 0 {
		return
	}

	if c.leaf() {
		for _, b := range c.bodies {
			if b == n {
				continue
			}
			d := r2.Vec{X: t.jiggle.nonZero(b.X - n.X), Y: t.jiggle.nonZero(b.Y - n.Y)}
			*acc = r2.Add(*acc, kernel(d, 1))
		}
		return
	}

	d := r2.Sub(c.centroid, n.Pos())
	l := d.X*d.X + d.Y*d.Y
	inside := n.X >= x0 && n.X <= x0+size && n.Y >= y0 && n.Y <= y0+size
	if !inside && size*size < theta2*l {
		d.X = t.jiggle.nonZero(d.X)
		d.Y = t.jiggle.nonZero(d.Y)
		*acc = r2.Add(*acc, kernel(d, c.mass))
		return
	}

	half := size / 2
	for i, child := range c.children {
		if child != nil {
			cx, cy := childOrigin(i, x0, y0, half)
			t.forceFrom(child, cx, cy, half, n, theta2, kernel, acc)
		}
	}
}
