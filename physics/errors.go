package physics

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration indicates a negative or non-finite parameter.
	ErrInvalidConfiguration = errors.New("physics: invalid configuration")
	// ErrNonFinite indicates a NaN or infinite coordinate, either produced by a
	// tick or passed to Place, Fix or DragMove.
	ErrNonFinite = errors.New("physics: non-finite node position")
	// ErrUnknownNode indicates an interaction named a node not in the simulation.
	ErrUnknownNode = errors.New("physics: unknown node")
	// ErrNotDragging indicates a drag move or end for a node that is not being dragged.
	ErrNotDragging = errors.New("physics: node is not being dragged")
	// ErrAlreadyDragging indicates a second drag start on the same node.
	ErrAlreadyDragging = errors.New("physics: node is already being dragged")
)

// TickError reports a tick that could not complete, in which case the
// simulation state is rolled back to the start of that tick, or a tick
// handler that panicked after the tick was committed.
type TickError struct {
	Tick  int
	Force string // Empty unless a force panicked
	Err   error
}

func (e *TickError) Error() string {
	if e.Force != "" {
		return fmt.Sprintf("physics: tick %d: force %q: %v", e.Tick, e.Force, e.Err)
	}
	return fmt.Sprintf("physics: tick %d: %v", e.Tick, e.Err)
}

func (e *TickError) Unwrap() error {
	return e.Err
}
