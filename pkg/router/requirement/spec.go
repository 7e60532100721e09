package requirement

import "fmt"

// Entry is one line of a requirement spec: a location or a definition
// together with its unexpanded condition.
type Entry struct {
	Label        Label
	Condition    Requirement
	IsDefinition bool
}

type DuplicateLabel Label

func (e DuplicateLabel) Error() string {
	return fmt.Sprintf("duplicate label %q in requirement spec", Label(e))
}

// Spec is an immutable, ordered set of entries.
type Spec struct {
	entries []Entry
	index   map[Label]int
}

// NewSpec returns a Spec holding entries in the given order.
func NewSpec(entries ...Entry) (*Spec, error) {
	s := &Spec{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[Label]int, len(entries)),
	}
	for _, e := range entries {
		if _, ok := s.index[e.Label]; ok {
			return nil, DuplicateLabel(e.Label)
		}
		s.index[e.Label] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return s, nil
}

func (s *Spec) Lookup(label Label) (Entry, bool) {
	i, ok := s.index[label]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

func (s *Spec) IsDefinition(label Label) bool {
	e, ok := s.Lookup(label)
	return ok && e.IsDefinition
}

// Labels returns every label in declaration order.
func (s *Spec) Labels() []Label {
	labels := make([]Label, len(s.entries))
	for i, e := range s.entries {
		labels[i] = e.Label
	}
	return labels
}

// Locations returns the labels of non-definition entries in
// declaration order.
func (s *Spec) Locations() []Label {
	var labels []Label
	for _, e := range s.entries {
		if !e.IsDefinition {
			labels = append(labels, e.Label)
		}
	}
	return labels
}

// Definitions returns the labels of definition entries in declaration
// order.
func (s *Spec) Definitions() []Label {
	var labels []Label
	for _, e := range s.entries {
		if e.IsDefinition {
			labels = append(labels, e.Label)
		}
	}
	return labels
}

func (s *Spec) Len() int {
	return len(s.entries)
}
