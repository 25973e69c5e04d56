package models

import (
	"fmt"
)

// NodeFilter is a function type used to filter nodes in queries
type NodeFilter func(node *Node) bool

// FindNode returns a node by its ID
func (g *Graph) FindNode(id string) (*Node, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	return &g.Nodes[i], nil
}

// LinksOf returns all links touching a node, in input order
func (g *Graph) LinksOf(nodeID string) []Link {
	var result []Link
	for _, l := range g.Links {
		if l.Source == nodeID || l.Target == nodeID {
			result = append(result, l)
		}
	}
	return result
}

// Neighbors returns all nodes directly connected to a node, in node-table order
func (g *Graph) Neighbors(nodeID string) []Node {
	connected := make(map[int]bool)
	for _, l := range g.Links {
		if l.Source == nodeID {
			connected[l.TargetIndex] = true
		}
		if l.Target == nodeID {
			connected[l.SourceIndex] = true
		}
	}

	var result []Node
	for i, n := range g.Nodes {
		if connected[i] {
			result = append(result, n)
		}
	}
	return result
}

// FilterNodes returns nodes that match the provided filter function
func (g *Graph) FilterNodes(filter NodeFilter) []Node {
	var result []Node
	for i := range g.Nodes {
		if filter(&g.Nodes[i]) {
			result = append(result, g.Nodes[i])
		}
	}
	return result
}

// Groups returns the distinct group labels in first-seen order
func (g *Graph) Groups() []string {
	seen := make(map[string]bool)
	var result []string
	for _, n := range g.Nodes {
		if !seen[n.Group] {
			seen[n.Group] = true
			result = append(result, n.Group)
		}
	}
	return result
}
