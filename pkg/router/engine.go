package router

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/operator-framework/item-router/pkg/router/requirement"
)

// goalWeight is how much more likely an item of the active goal is to
// be picked for an opportunistic unlock.
const goalWeight = 3

// attempt is one pass of the assignment engine. All of its state is
// discarded when it returns a restartSignal.
type attempt struct {
	router *Router
	number int
	seed   int64
	rng    *rand.Rand
	log    logrus.FieldLogger

	tracker   *tracker
	filter    *restrictionFilter
	goals     *goalSelector
	preferred map[Label]struct{}

	step       int
	placements []Placement
}

func (r *Router) newAttempt(n int) *attempt {
	seed := attemptSeed(r.seed, n)
	rng := rand.New(rand.NewSource(seed))
	t := newTracker(r.locations, r.requirements)
	f := newRestrictionFilter(r.problem.Restrictions, r.problem.Customs, r.filler, t)
	return &attempt{
		router:  r,
		number:  n,
		seed:    seed,
		rng:     rng,
		log:     r.log.WithFields(logrus.Fields{"seed": r.seed, "attempt": n}),
		tracker: t,
		filter:  f,
		goals: &goalSelector{
			tracker: t,
			filter:  f,
			rng:     rng,
		},
	}
}

// run places every item or returns the reason it could not.
func (a *attempt) run() *restartSignal {
	budget := a.router.iterationFactor * len(a.router.locations)
	for a.step = 0; ; a.step++ {
		a.honorCustoms()
		unreachable := a.tracker.UnreachableLocations()
		if len(unreachable) == 0 {
			break
		}
		if a.step >= budget {
			return &restartSignal{
				reason: fmt.Sprintf("iteration budget of %d exhausted with %d unreachable locations", budget, len(unreachable)),
			}
		}

		goal, ok := a.goals.ChooseGoal()
		if ok && a.pursue(goal) {
			continue
		}
		if sig := a.unlock(goal, ok); sig != nil {
			return sig
		}
	}
	if sig := a.fill(); sig != nil {
		return sig
	}
	return a.forceCustom()
}

// honorCustoms commits every custom assignment whose location is
// assignable, repeating while doing so opens more of them.
func (a *attempt) honorCustoms() {
	for {
		progressed := false
		for _, location := range a.tracker.AssignableLocations() {
			item, ok := a.router.problem.Customs[location]
			if !ok {
				continue
			}
			a.place(location, item, true)
			progressed = true
		}
		if !progressed {
			return
		}
	}
}

type plannedPlacement struct {
	location Label
	item     Label
}

// pursue places every missing item of goal, or nothing at all when one
// of them has no location left.
func (a *attempt) pursue(goal requirement.Clause) bool {
	missing := a.byScarcity(goal.Missing(a.tracker.has))
	unlocked := a.tracker.ItemUnlockedLocations(missing...)

	used := make(map[Label]struct{}, len(missing))
	plan := make([]plannedPlacement, 0, len(missing))
	for _, item := range missing {
		var candidates []Label
		for _, location := range a.filter.ValidLocations(item) {
			if _, ok := used[location]; !ok {
				candidates = append(candidates, location)
			}
		}
		if len(candidates) == 0 {
			a.log.WithField("goal", goal).Debugf("abandoning goal, no location for %s", item)
			return false
		}
		location := a.pick(a.spare(item, candidates))
		used[location] = struct{}{}
		plan = append(plan, plannedPlacement{location: location, item: item})
	}

	for _, p := range plan {
		a.place(p.location, p.item, false)
	}
	a.preferred = make(map[Label]struct{}, len(unlocked))
	for _, location := range unlocked {
		a.preferred[location] = struct{}{}
	}
	a.log.WithField("goal", goal).Debugf("goal placed, %d locations unlocked", len(unlocked))
	return true
}

type weightedItem struct {
	item   Label
	weight int
}

// unlock places a single item that opens at least one new location,
// falling back to any item some unreachable location asks for.
func (a *attempt) unlock(goal requirement.Clause, hasGoal bool) *restartSignal {
	weight := func(item Label) int {
		if hasGoal && goal.Contains(item) {
			return goalWeight
		}
		return 1
	}

	var candidates []weightedItem
	for _, item := range a.router.mandatory {
		if !a.placeable(item) || len(a.tracker.ItemUnlockedLocations(item)) == 0 {
			continue
		}
		candidates = append(candidates, weightedItem{item: item, weight: weight(item)})
	}
	if len(candidates) == 0 {
		seen := make(map[Label]struct{})
		for _, location := range a.tracker.UnreachableLocations() {
			for _, c := range a.tracker.requirements[location].Clauses() {
				for _, item := range c.Missing(a.tracker.has) {
					if _, ok := seen[item]; ok {
						continue
					}
					seen[item] = struct{}{}
					if a.placeable(item) {
						candidates = append(candidates, weightedItem{item: item, weight: weight(item)})
					}
				}
			}
		}
	}
	if len(candidates) == 0 {
		return &restartSignal{
			reason: fmt.Sprintf("no item can make progress towards %d unreachable locations", len(a.tracker.UnreachableLocations())),
		}
	}

	total := 0
	for _, c := range candidates {
		total += c.weight
	}
	x := a.rng.Intn(total)
	chosen := candidates[len(candidates)-1].item
	for _, c := range candidates {
		if x < c.weight {
			chosen = c.item
			break
		}
		x -= c.weight
	}
	a.place(a.pick(a.spare(chosen, a.filter.ValidLocations(chosen))), chosen, false)
	return nil
}

// placeable reports whether the engine may place item now: it is not
// yet placed, not reserved by a custom assignment, and has somewhere
// to go.
func (a *attempt) placeable(item Label) bool {
	if a.tracker.has(item) {
		return false
	}
	if _, ok := a.filter.pinnedTo(item); ok {
		return false
	}
	return len(a.filter.ValidLocations(item)) > 0
}

// fill runs once every location is reachable: mandatory items first,
// scarcest first, then the rest of the pool, then the filler.
func (a *attempt) fill() *restartSignal {
	a.preferred = nil

	var mandatory []Label
	for _, item := range a.router.mandatory {
		if _, ok := a.filter.pinnedTo(item); ok || a.tracker.has(item) {
			continue
		}
		mandatory = append(mandatory, item)
	}
	for _, item := range a.byScarcity(mandatory) {
		valid := a.filter.ValidLocations(item)
		if len(valid) == 0 {
			return &restartSignal{reason: "no assignable locations for mandatory item", item: item}
		}
		a.place(a.pick(a.spare(item, valid)), item, false)
	}

	var optional []Label
	for _, item := range a.router.pool {
		if _, ok := a.filter.pinnedTo(item); ok || a.tracker.has(item) {
			continue
		}
		optional = append(optional, item)
	}
	sort.SliceStable(optional, func(i, j int) bool {
		return tiebreak(optional[i], a.seed) < tiebreak(optional[j], a.seed)
	})
	for _, item := range optional {
		valid := a.filter.ValidLocations(item)
		if len(valid) == 0 {
			a.log.WithField("item", item).Debug("no location left for optional item")
			continue
		}
		a.place(a.pick(valid), item, false)
	}

	for _, location := range a.tracker.AssignableLocations() {
		a.place(location, a.router.filler, false)
	}
	return nil
}

// forceCustom re-checks the finished assignment against the custom
// assignments and the mandatory items.
func (a *attempt) forceCustom() *restartSignal {
	for _, location := range sortedKeys(a.router.problem.Customs) {
		want := a.router.problem.Customs[location]
		if got, ok := a.tracker.assigned(location); !ok || got != want {
			return &restartSignal{reason: fmt.Sprintf("custom assignment at %s was not honored", location), item: want}
		}
	}
	for _, item := range a.router.mandatory {
		if !a.tracker.has(item) {
			return &restartSignal{reason: "mandatory item was not placed", item: item}
		}
	}
	if unassigned := a.tracker.UnassignedLocations(); len(unassigned) > 0 {
		return &restartSignal{reason: fmt.Sprintf("%d locations left without an item", len(unassigned))}
	}
	return nil
}

// byScarcity orders items by how few locations could still take them,
// breaking ties with the seeded hash.
func (a *attempt) byScarcity(items []Label) []Label {
	type scored struct {
		item  Label
		value int
		hash  uint64
	}
	s := make([]scored, len(items))
	for i, item := range items {
		s[i] = scored{item: item, value: a.goals.BottleneckValue(item), hash: tiebreak(item, a.seed)}
	}
	sort.Slice(s, func(i, j int) bool {
		if s[i].value != s[j].value {
			return s[i].value < s[j].value
		}
		if s[i].hash != s[j].hash {
			return s[i].hash < s[j].hash
		}
		return s[i].item < s[j].item
	})
	result := make([]Label, len(s))
	for i := range s {
		result[i] = s[i].item
	}
	return result
}

// spare drops the candidates that are the last location left for some
// other unplaced mandatory item. When every candidate is someone's last
// location, candidates is returned unchanged.
func (a *attempt) spare(item Label, candidates []Label) []Label {
	reserved := a.reserved(item)
	if len(reserved) == 0 {
		return candidates
	}
	var kept []Label
	for _, location := range candidates {
		if _, ok := reserved[location]; !ok {
			kept = append(kept, location)
		}
	}
	if len(kept) == 0 {
		return candidates
	}
	return kept
}

// reserved returns the unassigned locations that are the only
// compatible location of an unplaced mandatory item other than item.
func (a *attempt) reserved(item Label) map[Label]struct{} {
	unassigned := a.tracker.UnassignedLocations()
	reserved := make(map[Label]struct{})
	for _, other := range a.router.mandatory {
		if other == item || a.tracker.has(other) {
			continue
		}
		if _, ok := a.filter.pinnedTo(other); ok {
			continue
		}
		var only Label
		n := 0
		for _, location := range unassigned {
			if a.filter.Compatible(location, other) {
				only = location
				if n++; n > 1 {
					break
				}
			}
		}
		if n == 1 {
			reserved[only] = struct{}{}
		}
	}
	return reserved
}

// pick chooses one of candidates. Locations unlocked by the last goal
// are preferred; otherwise candidates are ordered by rank, requirement
// complexity and seeded hash, and the linearity-weighted draw selects
// an index.
func (a *attempt) pick(candidates []Label) Label {
	if len(a.preferred) > 0 {
		var preferred []Label
		for _, location := range candidates {
			if _, ok := a.preferred[location]; ok {
				preferred = append(preferred, location)
			}
		}
		if len(preferred) > 0 {
			candidates = preferred
		}
	}

	type keyed struct {
		location   Label
		rank       int
		complexity int
		hash       uint64
	}
	ks := make([]keyed, len(candidates))
	for i, location := range candidates {
		rank, _ := a.tracker.rank(location)
		ks[i] = keyed{
			location:   location,
			rank:       rank,
			complexity: a.tracker.requirements[location].Complexity(),
			hash:       tiebreak(location, a.seed),
		}
	}
	sort.Slice(ks, func(i, j int) bool {
		if ks[i].rank != ks[j].rank {
			return ks[i].rank < ks[j].rank
		}
		if ks[i].complexity != ks[j].complexity {
			return ks[i].complexity < ks[j].complexity
		}
		if ks[i].hash != ks[j].hash {
			return ks[i].hash < ks[j].hash
		}
		return ks[i].location < ks[j].location
	})
	return ks[linearIndex(len(ks), a.rng.Float64(), a.router.linearity)].location
}

func (a *attempt) place(location, item Label, custom bool) {
	rank, _ := a.tracker.rank(location)
	a.tracker.assign(location, item, item != a.router.filler)
	delete(a.preferred, location)
	a.placements = append(a.placements, Placement{
		Location: location,
		Item:     item,
		Rank:     rank,
		Step:     a.step,
		Custom:   custom,
	})
}

func (a *attempt) route() *Route {
	return &Route{
		Seed:        a.router.seed,
		Attempt:     a.number,
		AttemptSeed: a.seed,
		Placements:  append([]Placement(nil), a.placements...),
		attempt:     a,
	}
}

func (a *attempt) position(sig *restartSignal) Position {
	return position{
		attempt:    a.number,
		placements: append([]Placement(nil), a.placements...),
		reason:     sig.String(),
	}
}
