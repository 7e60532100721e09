package router

import (
	"github.com/operator-framework/item-router/pkg/router/requirement"
)

// tracker classifies locations as assigned, assignable or unreachable
// for the items placed so far, and records the unlock wave (rank) of
// every location the first time it becomes reachable.
type tracker struct {
	locations    []Label
	requirements map[Label]requirement.Requirement

	assignments map[Label]Label
	itemAt      map[Label]Label
	obtained    map[Label]struct{}

	snapshot  map[Label]struct{}
	reachable map[Label]struct{}
	ranks     map[Label]int
	fresh     bool
}

func newTracker(locations []Label, requirements map[Label]requirement.Requirement) *tracker {
	t := &tracker{
		locations:    locations,
		requirements: requirements,
	}
	t.reset()
	return t
}

// reset clears every assignment.
func (t *tracker) reset() {
	t.assignments = make(map[Label]Label, len(t.locations))
	t.itemAt = make(map[Label]Label, len(t.locations))
	t.obtained = make(map[Label]struct{}, len(t.locations))
	t.snapshot = nil
	t.reachable = make(map[Label]struct{}, len(t.locations))
	t.ranks = make(map[Label]int, len(t.locations))
	t.fresh = false
}

// assign commits item at location. Items that do not count towards
// requirements, such as the filler, pass obtains=false.
func (t *tracker) assign(location, item Label, obtains bool) {
	t.assignments[location] = item
	if obtains {
		t.itemAt[item] = location
		t.obtained[item] = struct{}{}
	}
}

func (t *tracker) has(item Label) bool {
	_, ok := t.obtained[item]
	return ok
}

func (t *tracker) assigned(location Label) (Label, bool) {
	item, ok := t.assignments[location]
	return item, ok
}

// locationOf returns where an obtained item was placed.
func (t *tracker) locationOf(item Label) (Label, bool) {
	location, ok := t.itemAt[item]
	return location, ok
}

func (t *tracker) rank(location Label) (int, bool) {
	t.refresh()
	r, ok := t.ranks[location]
	return r, ok
}

// refresh recomputes reachability when the obtained item set differs
// from the one seen by the previous computation.
func (t *tracker) refresh() {
	if t.fresh && sameItems(t.snapshot, t.obtained) {
		return
	}
	for _, location := range t.locations {
		if _, ok := t.reachable[location]; ok {
			continue
		}
		r := t.requirements[location]
		if !r.Satisfied(t.has) {
			continue
		}
		t.reachable[location] = struct{}{}
		t.ranks[location] = t.rankOf(r)
	}
	t.snapshot = make(map[Label]struct{}, len(t.obtained))
	for item := range t.obtained {
		t.snapshot[item] = struct{}{}
	}
	t.fresh = true
}

// rankOf is 0 for an unconditional requirement, and otherwise one more
// than the highest rank among the locations holding the items of the
// cheapest satisfied clause.
func (t *tracker) rankOf(r requirement.Requirement) int {
	if r.IsAlways() {
		return 0
	}
	best := -1
	for _, c := range r.Clauses() {
		if !c.SatisfiedBy(t.has) {
			continue
		}
		k := 0
		for _, atom := range c.Atoms() {
			if n := t.ranks[t.itemAt[atom]] + 1; n > k {
				k = n
			}
		}
		if best < 0 || k < best {
			best = k
		}
	}
	return best
}

// AssignableLocations returns reachable locations that hold no item
// yet, in declaration order.
func (t *tracker) AssignableLocations() []Label {
	t.refresh()
	var result []Label
	for _, location := range t.locations {
		if _, ok := t.assignments[location]; ok {
			continue
		}
		if _, ok := t.reachable[location]; ok {
			result = append(result, location)
		}
	}
	return result
}

// UnreachableLocations returns locations that are neither assigned nor
// assignable, in declaration order.
func (t *tracker) UnreachableLocations() []Label {
	t.refresh()
	var result []Label
	for _, location := range t.locations {
		if _, ok := t.assignments[location]; ok {
			continue
		}
		if _, ok := t.reachable[location]; !ok {
			result = append(result, location)
		}
	}
	return result
}

// UnassignedLocations returns every location without an item.
func (t *tracker) UnassignedLocations() []Label {
	var result []Label
	for _, location := range t.locations {
		if _, ok := t.assignments[location]; !ok {
			result = append(result, location)
		}
	}
	return result
}

// ItemUnlockedLocations reports which currently unreachable locations
// would become reachable if candidates were obtained as well. It does
// not change the tracker.
func (t *tracker) ItemUnlockedLocations(candidates ...Label) []Label {
	extra := make(map[Label]struct{}, len(candidates))
	for _, c := range candidates {
		extra[c] = struct{}{}
	}
	has := func(item Label) bool {
		if _, ok := extra[item]; ok {
			return true
		}
		return t.has(item)
	}
	var result []Label
	for _, location := range t.UnreachableLocations() {
		if t.requirements[location].Satisfied(has) {
			result = append(result, location)
		}
	}
	return result
}

func sameItems(a, b map[Label]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for item := range a {
		if _, ok := b[item]; !ok {
			return false
		}
	}
	return true
}
