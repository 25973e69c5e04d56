// Package models provides the graph model consumed by the layout engine.
// A Graph is validated once at load time and is static afterwards, apart from
// explicit link mutations which keep the derived degree table in sync.
package models

import (
	"time"
)

// Node represents a node in the graph
type Node struct {
	ID    string `json:"id"`
	Group string `json:"group,omitempty"` // Category label, passed through to presentation
}

// Link represents a connection between two nodes
type Link struct {
	Source string  `json:"source"` // ID of the source node
	Target string  `json:"target"` // ID of the target node
	Value  float64 `json:"value"`  // Drives stroke width and, optionally, spring stiffness

	// Resolved positions in the node table. Set by Load and AddLink.
	SourceIndex int `json:"-"`
	TargetIndex int `json:"-"`
}

// Graph represents a validated collection of nodes and links
type Graph struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Nodes     []Node    `json:"nodes"`
	Links     []Link    `json:"links"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	index  map[string]int
	degree []int
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.Nodes)
}
