package cmd

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mj1618/device-cli/internal/model"
)

// session holds the last hierarchy handed to the caller, tagged with a
// generation id. Index-addressed operations resolve against the generation
// the caller saw; once a new hierarchy replaces it, stale indices fail
// loudly instead of tapping whatever now occupies that slot.
type session struct {
	mu         sync.Mutex
	hierarchy  *model.UiHierarchy
	generation string
}

func newSession() *session {
	return &session{}
}

// update replaces the session hierarchy and mints a new generation.
func (s *session) update(h *model.UiHierarchy) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hierarchy = h
	s.generation = uuid.NewString()
	return s.generation
}

// current returns the session hierarchy and its generation, or nil.
func (s *session) current() (*model.UiHierarchy, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hierarchy, s.generation
}

// elementAt reports the snapshot element under a logical coordinate, or nil
// with no snapshot or no hit. The flat sequence is in depth-first document
// order, so the last hit is the innermost element containing the point.
func (s *session) elementAt(x, y int) *model.UiElement {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hierarchy == nil {
		return nil
	}
	var hit *model.UiElement
	for i := range s.hierarchy.Elements {
		if s.hierarchy.Elements[i].Bounds.Contains(x, y) {
			hit = &s.hierarchy.Elements[i]
		}
	}
	return hit
}

// resolveIndex finds the element behind a previously reported index.
func (s *session) resolveIndex(idx int) (*model.UiElement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hierarchy == nil {
		return nil, fmt.Errorf("no ui snapshot in this session; run `ui` (or the get_ui tool) first")
	}
	el := model.FindByIndex(s.hierarchy.Elements, idx)
	if el == nil {
		return nil, fmt.Errorf("index %d is not in the current ui snapshot (%d elements); re-run `ui` and use a fresh index",
			idx, len(s.hierarchy.Elements))
	}
	return el, nil
}
