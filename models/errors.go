package models

import (
	"errors"
	"fmt"
)

var (
	// ErrReference indicates a link endpoint that does not name a declared node.
	ErrReference = errors.New("models: link references unknown node")
	// ErrDuplicateNode indicates two nodes share an identifier.
	ErrDuplicateNode = errors.New("models: duplicate node id")
	// ErrUnknownNode indicates a lookup for an identifier not in the graph.
	ErrUnknownNode = errors.New("models: unknown node")
	// ErrLinkIndex indicates a link index out of range.
	ErrLinkIndex = errors.New("models: link index out of range")
)

// ReferenceError reports the first link whose endpoint failed to resolve.
type ReferenceError struct {
	Link     int    // Position of the offending link in the input
	Endpoint string // "source" or "target"
	ID       string // The unresolved identifier
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("models: link %d %s %q does not exist in the graph", e.Link, e.Endpoint, e.ID)
}

// Is lets errors.Is match ReferenceError against ErrReference.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrReference
}
