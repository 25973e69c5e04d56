package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewGraph creates an empty graph with a unique ID and timestamps
func NewGraph(name string) *Graph {
	now := time.Now()
	return &Graph{
		ID:        uuid.New().String(),
		Name:      name,
		Nodes:     []Node{},
		Links:     []Link{},
		CreatedAt: now,
		UpdatedAt: now,
		index:     make(map[string]int),
	}
}

// Load builds a graph from declared nodes and links. Every link endpoint must
// name a declared node; the first one that does not aborts the load with a
// *ReferenceError.
func Load(nodes []Node, links []Link) (*Graph, error) {
	g := NewGraph("")
	g.Nodes = make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if _, exists := g.index[n.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, n.ID)
		}
		g.index[n.ID] = len(g.Nodes)
		g.Nodes = append(g.Nodes, n)
	}

	g.Links = make([]Link, 0, len(links))
	for i, l := range links {
		resolved, err := g.resolve(i, l)
		if err != nil {
			return nil, err
		}
		g.Links = append(g.Links, resolved)
	}

	g.computeDegree()
	return g, nil
}

func (g *Graph) resolve(pos int, l Link) (Link, error) {
	src, ok := g.index[l.Source]
	if !ok {
		return l, &ReferenceError{Link: pos, Endpoint: "source", ID: l.Source}
	}
	dst, ok := g.index[l.Target]
	if !ok {
		return l, &ReferenceError{Link: pos, Endpoint: "target", ID: l.Target}
	}
	l.SourceIndex = src
	l.TargetIndex = dst
	return l, nil
}

// computeDegree re-sums the degree table from scratch. The graph is small and
// static enough that incremental bookkeeping is not worth it.
func (g *Graph) computeDegree() {
	g.degree = make([]int, len(g.Nodes))
	for _, l := range g.Links {
		g.degree[l.SourceIndex]++
		g.degree[l.TargetIndex]++
	}
}

// AddLink validates and appends a link, then re-sums degrees
func (g *Graph) AddLink(l Link) error {
	resolved, err := g.resolve(len(g.Links), l)
	if err != nil {
		return err
	}
	g.Links = append(g.Links, resolved)
	g.computeDegree()
	g.UpdatedAt = time.Now()
	return nil
}

// RemoveLink removes the link at position i, then re-sums degrees
func (g *Graph) RemoveLink(i int) error {
	if i < 0 || i >= len(g.Links) {
		return fmt.Errorf("%w: %d", ErrLinkIndex, i)
	}
	g.Links = append(g.Links[:i], g.Links[i+1:]...)
	g.computeDegree()
	g.UpdatedAt = time.Now()
	return nil
}

// DegreeOf returns the number of links in which the node appears as source or
// target. A self-loop counts twice.
func (g *Graph) DegreeOf(nodeID string) (int, error) {
	i, ok := g.index[nodeID]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNode, nodeID)
	}
	return g.degree[i], nil
}

// Degrees returns a copy of the degree table, indexed like Nodes.
func (g *Graph) Degrees() []int {
	out := make([]int, len(g.degree))
	copy(out, g.degree)
	return out
}
