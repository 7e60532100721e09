package requirement

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	defaultMaxRepeats = 1
	minPasses         = 16
	passesPerLabel    = 4
)

// NoFixedPointError is returned by Run when simplification keeps
// changing after the pass budget is spent.
type NoFixedPointError struct {
	Passes  int
	Changed []Label
}

func (e *NoFixedPointError) Error() string {
	return fmt.Sprintf("requirements did not reach a fixed point after %d passes (still changing: %v)", e.Passes, e.Changed)
}

// Simplifier expands definition references and reduces every label of
// a Spec to a canonical Requirement. Results are memoized for the
// lifetime of the Simplifier.
type Simplifier struct {
	spec        *Spec
	log         logrus.FieldLogger
	maxRepeats  int
	maxPasses   int
	cache       map[Label]Requirement
	unreachable map[Label]struct{}
}

type SimplifierOption func(*Simplifier)

// WithMaxRepeats bounds how many times one definition may be expanded
// again on a single recursion path before that branch is Impossible.
func WithMaxRepeats(n int) SimplifierOption {
	return func(s *Simplifier) {
		s.maxRepeats = n
	}
}

// WithMaxPasses bounds the number of fixed-point passes made by Run. A
// value <= 0 selects a budget proportional to the number of labels.
func WithMaxPasses(n int) SimplifierOption {
	return func(s *Simplifier) {
		s.maxPasses = n
	}
}

func WithLogger(log logrus.FieldLogger) SimplifierOption {
	return func(s *Simplifier) {
		s.log = log
	}
}

func NewSimplifier(spec *Spec, options ...SimplifierOption) *Simplifier {
	s := &Simplifier{
		spec:        spec,
		maxRepeats:  defaultMaxRepeats,
		cache:       make(map[Label]Requirement, spec.Len()),
		unreachable: make(map[Label]struct{}),
	}
	for _, option := range options {
		option(s)
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	if s.maxPasses <= 0 {
		s.maxPasses = DefaultMaxPasses(spec.Len())
	}
	if s.maxRepeats < 0 {
		s.maxRepeats = 0
	}
	return s
}

// DefaultMaxPasses is the pass budget used for a spec with n labels.
func DefaultMaxPasses(n int) int {
	if p := passesPerLabel * n; p > minPasses {
		return p
	}
	return minPasses
}

// Simplify returns the canonical Requirement of label. Labels that are
// never declared are plain atoms and simplify to themselves.
func (s *Simplifier) Simplify(label Label) Requirement {
	if r, ok := s.cache[label]; ok {
		return r
	}
	entry, ok := s.spec.Lookup(label)
	if !ok {
		return Atom(label)
	}
	r := s.expand(entry.Condition, map[Label]int{label: 1})
	s.cache[label] = r
	return r
}

// Resolve expands every definition atom in r using the current
// results. Resolving a Requirement returned by Simplify yields it
// unchanged.
func (s *Simplifier) Resolve(r Requirement) Requirement {
	return s.expand(r, make(map[Label]int))
}

// Run simplifies every label repeatedly, alternating between forward
// and reverse declaration order, until a whole pass leaves every result
// unchanged. Labels that end up Impossible are recorded as unreachable.
func (s *Simplifier) Run() (map[Label]Requirement, error) {
	labels := s.spec.Labels()
	for pass := 0; ; pass++ {
		if pass >= s.maxPasses {
			return nil, &NoFixedPointError{Passes: s.maxPasses, Changed: s.changing(labels)}
		}
		order := labels
		if pass%2 == 1 {
			order = reversed(labels)
		}

		changed := 0
		for _, label := range order {
			entry, _ := s.spec.Lookup(label)
			r := s.expand(entry.Condition, map[Label]int{label: 1})
			if prev, ok := s.cache[label]; !ok || !prev.Equal(r) {
				changed++
			}
			s.cache[label] = r
		}
		s.log.Debugf("Loop %d: %d of %d labels changed", pass, changed, len(labels))
		if changed == 0 {
			break
		}
	}

	s.unreachable = make(map[Label]struct{})
	result := make(map[Label]Requirement, len(labels))
	for _, label := range labels {
		r := s.cache[label]
		if r.IsImpossible() {
			s.unreachable[label] = struct{}{}
		}
		result[label] = r
	}
	return result, nil
}

// Unreachable returns the labels whose Requirement is Impossible after
// the last successful Run, in declaration order.
func (s *Simplifier) Unreachable() []Label {
	var labels []Label
	for _, label := range s.spec.Labels() {
		if _, ok := s.unreachable[label]; ok {
			labels = append(labels, label)
		}
	}
	return labels
}

func (s *Simplifier) changing(labels []Label) []Label {
	var changed []Label
	for _, label := range labels {
		entry, _ := s.spec.Lookup(label)
		if r := s.expand(entry.Condition, map[Label]int{label: 1}); !r.Equal(s.cache[label]) {
			changed = append(changed, label)
		}
	}
	return changed
}

func (s *Simplifier) expand(condition Requirement, path map[Label]int) Requirement {
	if condition.IsImpossible() || condition.IsAlways() {
		return condition
	}
	result := Impossible()
	for _, c := range condition.clauses {
		term := Always()
		for _, atom := range c.atoms {
			term = term.And(s.resolve(atom, path))
			if term.IsImpossible() {
				break
			}
		}
		result = result.Or(term)
		if result.IsAlways() {
			break
		}
	}
	return result
}

func (s *Simplifier) resolve(atom Label, path map[Label]int) Requirement {
	entry, ok := s.spec.Lookup(atom)
	if !ok || !entry.IsDefinition {
		return Atom(atom)
	}
	depth := path[atom]
	if depth > s.maxRepeats {
		return Impossible()
	}
	if depth == 0 {
		if r, ok := s.cache[atom]; ok {
			return r
		}
	}
	path[atom]++
	r := s.expand(entry.Condition, path)
	path[atom]--
	return r
}

func reversed(labels []Label) []Label {
	out := make([]Label, len(labels))
	for i, label := range labels {
		out[len(labels)-1-i] = label
	}
	return out
}
