package router

import (
	"math/rand"
	"sort"

	"github.com/operator-framework/item-router/pkg/router/requirement"
)

// goalSelector picks the clause to work towards next: the bundle of
// items whose placement unlocks an unreachable location.
type goalSelector struct {
	tracker    *tracker
	filter     *restrictionFilter
	rng        *rand.Rand
	remembered *requirement.Clause
}

type candidateGoal struct {
	clause   requirement.Clause
	missing  int
	unlocked int
}

// ChooseGoal returns the next goal clause, or false when nothing is
// unreachable or no clause can be worked towards.
func (g *goalSelector) ChooseGoal() (requirement.Clause, bool) {
	unreachable := g.tracker.UnreachableLocations()
	if len(unreachable) == 0 {
		return requirement.Clause{}, false
	}

	seen := make(map[string]struct{})
	var candidates []candidateGoal
	for _, location := range unreachable {
		for _, c := range g.tracker.requirements[location].Clauses() {
			if _, ok := seen[c.Key()]; ok {
				continue
			}
			seen[c.Key()] = struct{}{}
			missing := c.Missing(g.tracker.has)
			if len(missing) == 0 || g.blocked(missing) {
				continue
			}
			candidates = append(candidates, candidateGoal{
				clause:   c,
				missing:  len(missing),
				unlocked: len(g.tracker.ItemUnlockedLocations(missing...)),
			})
		}
	}
	if len(candidates) == 0 {
		return requirement.Clause{}, false
	}

	if g.remembered != nil {
		var focused []candidateGoal
		for _, cg := range candidates {
			if g.remembered.SubsetOf(cg.clause) {
				focused = append(focused, cg)
			}
		}
		if len(focused) > 0 {
			candidates = focused
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.missing != b.missing {
			return a.missing < b.missing
		}
		if a.unlocked != b.unlocked {
			return a.unlocked > b.unlocked
		}
		return a.clause.Key() < b.clause.Key()
	})
	ties := 1
	for ties < len(candidates) &&
		candidates[ties].missing == candidates[0].missing &&
		candidates[ties].unlocked == candidates[0].unlocked {
		ties++
	}
	goal := candidates[g.rng.Intn(ties)].clause
	g.remembered = &goal
	return goal, true
}

// blocked reports whether a missing item is pinned by a custom
// assignment; such items arrive only when their own location does.
func (g *goalSelector) blocked(missing []Label) bool {
	for _, item := range missing {
		if _, ok := g.filter.pinnedTo(item); ok {
			return true
		}
	}
	return false
}

// BottleneckValue is the number of unassigned locations that could
// still take item. Scarce items are placed first.
func (g *goalSelector) BottleneckValue(item Label) int {
	n := 0
	for _, location := range g.tracker.UnassignedLocations() {
		if g.filter.Compatible(location, item) {
			n++
		}
	}
	return n
}
