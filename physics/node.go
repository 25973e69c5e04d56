package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Node is a simulated body. FX and FY hold NaN while the axis is free.
type Node struct {
	ID     string
	Group  string
	Index  int
	Degree int
	X, Y   float64
	VX, VY float64
	FX, FY float64
}

// Link joins two entries of the node table by index.
type Link struct {
	Index  int
	Source int
	Target int
	Value  float64
}

// Pos returns the node position as a vector.
func (n *Node) Pos() r2.Vec {
	return r2.Vec{X: n.X, Y: n.Y}
}

// Fixed reports whether either axis is pinned.
func (n *Node) Fixed() bool {
	return !math.IsNaN(n.FX) || !math.IsNaN(n.FY)
}

// Fix pins both axes.
func (n *Node) Fix(x, y float64) {
	n.FX = x
	n.FY = y
}

// Release frees both axes.
func (n *Node) Release() {
	n.FX = math.NaN()
	n.FY = math.NaN()
}

func (n *Node) finite() bool {
	return !math.IsNaN(n.X) && !math.IsNaN(n.Y) && !math.IsInf(n.X, 0) && !math.IsInf(n.Y, 0)
}

// Phyllotaxis arrangement for nodes without a starting position.
const (
	initialRadius = 10
	initialAngle  = math.Pi * (3 - 2.2360679774997896) // π(3 - √5)
)

func placeInitial(n *Node, i int, cx, cy float64) {
	r := initialRadius * math.Sqrt(0.5+float64(i))
	a := float64(i) * initialAngle
	n.X = cx + r*math.Cos(a)
	n.Y = cy + r*math.Sin(a)
}
