package router

import (
	"fmt"
)

// Placement records one committed assignment, in the order it was made.
type Placement struct {
	Location Label `json:"location"`
	Item     Label `json:"item"`
	Rank     int   `json:"rank"`
	Step     int   `json:"step"`
	Custom   bool  `json:"custom,omitempty"`
}

// Route is a complete, solvable assignment of items to locations.
type Route struct {
	Seed        int64
	Attempt     int
	AttemptSeed int64
	Placements  []Placement

	attempt *attempt
}

// Assignments returns the location -> item map of the route.
func (r *Route) Assignments() map[Label]Label {
	result := make(map[Label]Label, len(r.Placements))
	for _, p := range r.Placements {
		result[p.Location] = p.Item
	}
	return result
}

// Item returns the item placed at location.
func (r *Route) Item(location Label) (Label, bool) {
	return r.attempt.tracker.assigned(location)
}

// Location returns where item was placed.
func (r *Route) Location(item Label) (Label, bool) {
	return r.attempt.tracker.locationOf(item)
}

// Rank returns the unlock wave of location.
func (r *Route) Rank(location Label) (int, bool) {
	return r.attempt.tracker.rank(location)
}

// UnreachableLocations returns the locations no placed item unlocks.
// It is empty for every route returned by Solve.
func (r *Route) UnreachableLocations() []Label {
	return r.attempt.tracker.UnreachableLocations()
}

// ValidLocations returns the filler-held locations that could take item
// instead, in declaration order.
func (r *Route) ValidLocations(item Label) []Label {
	var result []Label
	for _, location := range r.attempt.router.locations {
		held, ok := r.attempt.tracker.assigned(location)
		if !ok || held != r.attempt.router.filler {
			continue
		}
		if _, custom := r.attempt.router.problem.Customs[location]; custom {
			continue
		}
		if r.attempt.filter.Compatible(location, item) {
			result = append(result, location)
		}
	}
	return result
}

// BottleneckValue is the number of locations that could still take
// item.
func (r *Route) BottleneckValue(item Label) int {
	return len(r.ValidLocations(item))
}

// AssignItem places an extra item into a filler-held location, chosen
// the same way the engine chooses, and returns that location.
func (r *Route) AssignItem(item Label) (Label, error) {
	if location, ok := r.attempt.tracker.locationOf(item); ok {
		return "", fmt.Errorf("item %s is already placed at %s", item, location)
	}
	candidates := r.ValidLocations(item)
	if len(candidates) == 0 {
		return "", &RouterError{Kind: NoAssignableLocations, Item: item}
	}
	location := r.attempt.pick(candidates)
	r.attempt.tracker.assign(location, item, item != r.attempt.router.filler)
	for i := range r.Placements {
		if r.Placements[i].Location == location {
			r.Placements[i].Item = item
		}
	}
	return location, nil
}
