package router

import (
	"github.com/operator-framework/item-router/pkg/router/loader"
	"github.com/operator-framework/item-router/pkg/router/requirement"
)

type Label = requirement.Label

// Problem is the immutable input of a route: the requirement spec, the
// optional restrictions and custom assignments, and the declared item
// pool. Items referenced by location requirements join the pool
// automatically.
type Problem struct {
	Spec         *requirement.Spec
	Restrictions loader.Restrictions
	Customs      loader.Customs
	Items        []Label
}

// ProblemFromInputs builds a Problem from loaded inputs and an
// explicitly declared item pool.
func ProblemFromInputs(in *loader.Inputs, items ...Label) Problem {
	return Problem{
		Spec:         in.Spec,
		Restrictions: in.Restrictions,
		Customs:      in.Customs,
		Items:        items,
	}
}
