package load

import (
	"cmp"
	"fmt"
	"slices"
)

// ContainedOperations returns every operation reachable from the service,
// directly or through (nested) resources. Each operation appears once and
// the result is ordered by shape id.
func (m *Model) ContainedOperations(serviceID string) ([]*Operation, error) {
	if m.services == nil {
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}
	s, ok := m.services[serviceID]
	if !ok {
		return nil, NewModelError(serviceID, "unknown service", nil)
	}
	w := &walker{
		model:   m,
		ops:     make(map[string]*Operation),
		visited: make(map[string]bool),
		active:  make(map[string]bool),
	}
	if err := w.walk(s.ID, s.Operations, s.Resources); err != nil {
		return nil, err
	}
	ops := make([]*Operation, 0, len(w.ops))
	for _, o := range w.ops {
		ops = append(ops, o)
	}
	slices.SortFunc(ops, func(a, b *Operation) int { return cmp.Compare(a.ID, b.ID) })
	return ops, nil
}

type walker struct {
	model   *Model
	ops     map[string]*Operation
	visited map[string]bool
	// active tracks the resources on the current path to detect cycles.
	active map[string]bool
}

func (w *walker) walk(owner string, ops, resources []string) error {
	for _, id := range ops {
		w.ops[id] = w.model.operations[id]
	}
	for _, id := range resources {
		if w.active[id] {
			return NewModelError(owner, fmt.Sprintf("resource cycle through %q", id), nil)
		}
		if w.visited[id] {
			continue
		}
		w.visited[id] = true
		w.active[id] = true
		r := w.model.resources[id]
		if err := w.walk(r.ID, r.Operations, r.Resources); err != nil {
			return err
		}
		delete(w.active, id)
	}
	return nil
}
