package physics

import (
	"fmt"
	"math"
	"sort"
)

// pointer is the last pointer position reported for an active drag.
type pointer struct {
	x, y float64
}

// Drag is an active drag as seen by hosts.
type Drag struct {
	ID       string
	PointerX float64
	PointerY float64
}

// DragStart pins the node at its current simulated position. The first
// concurrent drag raises alphaTarget to the reheat value and restarts the
// simulation so the layout keeps responding while the node is held.
func (s *Simulation) DragStart(id string, x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	if _, active := s.dragging[id]; active {
		return fmt.Errorf("%w: %q", ErrAlreadyDragging, id)
	}

	if len(s.dragging) == 0 {
		s.alphaTarget = s.cfg.ReheatAlpha
		s.restartLocked()
	}
	s.dragging[id] = pointer{x, y}
	n.Fix(n.X, n.Y)
	return nil
}

// DragMove pins the node at the pointer, given in layout coordinates.
func (s *Simulation) DragMove(id string, x, y float64) error {
	if err := checkFinite(x, y); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	if _, active := s.dragging[id]; !active {
		return fmt.Errorf("%w: %q", ErrNotDragging, id)
	}
	s.dragging[id] = pointer{x, y}
	n.Fix(x, y)
	return nil
}

// DragEnd releases the pin. When no other drag remains, alphaTarget returns
// to zero and the layout cools down again.
func (s *Simulation) DragEnd(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	if _, active := s.dragging[id]; !active {
		return fmt.Errorf("%w: %q", ErrNotDragging, id)
	}

	delete(s.dragging, id)
	if len(s.dragging) == 0 {
		s.alphaTarget = 0
	}
	n.Release()
	return nil
}

// Dragging lists active drags ordered by node ID.
func (s *Simulation) Dragging() []Drag {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Drag, 0, len(s.dragging))
	for id, p := range s.dragging {
		out = append(out, Drag{ID: id, PointerX: p.x, PointerY: p.y})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Fix pins a node without touching the cooling schedule.
func (s *Simulation) Fix(id string, x, y float64) error {
	if err := checkFinite(x, y); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	n.Fix(x, y)
	return nil
}

// Release unpins a node that is not being dragged.
func (s *Simulation) Release(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	if _, active := s.dragging[id]; active {
		return fmt.Errorf("%w: %q", ErrAlreadyDragging, id)
	}
	n.Release()
	return nil
}

func checkFinite(x, y float64) error {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return fmt.Errorf("%w: (%v, %v)", ErrNonFinite, x, y)
	}
	return nil
}
