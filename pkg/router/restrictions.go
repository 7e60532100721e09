package router

import (
	"github.com/operator-framework/item-router/pkg/router/loader"
)

// restrictionFilter combines the restriction map with the custom
// assignments to decide which item may go where.
type restrictionFilter struct {
	restrictions loader.Restrictions
	customs      loader.Customs
	pinned       map[Label]Label
	filler       Label
	tracker      *tracker
}

func newRestrictionFilter(restrictions loader.Restrictions, customs loader.Customs, filler Label, t *tracker) *restrictionFilter {
	pinned := make(map[Label]Label, len(customs))
	for location, item := range customs {
		if item != filler {
			pinned[item] = location
		}
	}
	return &restrictionFilter{
		restrictions: restrictions,
		customs:      customs,
		pinned:       pinned,
		filler:       filler,
		tracker:      t,
	}
}

// Compatible reports whether item may ever occupy location. A location
// with a custom assignment only takes its custom item, and a custom
// item only goes to its custom location.
func (f *restrictionFilter) Compatible(location, item Label) bool {
	if custom, ok := f.customs[location]; ok {
		return custom == item
	}
	if pinned, ok := f.pinned[item]; ok && pinned != location {
		return false
	}
	return f.restrictions.Allows(location, item)
}

// pinnedTo returns the custom location of item, if any.
func (f *restrictionFilter) pinnedTo(item Label) (Label, bool) {
	location, ok := f.pinned[item]
	return location, ok
}

// ValidLocations returns the assignable locations item may occupy
// right now.
func (f *restrictionFilter) ValidLocations(item Label) []Label {
	var result []Label
	for _, location := range f.tracker.AssignableLocations() {
		if f.Compatible(location, item) {
			result = append(result, location)
		}
	}
	return result
}
