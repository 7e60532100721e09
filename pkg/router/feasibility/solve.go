package feasibility

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-air/gini"
)

// NotSatisfiable is an error composed of a set of applied constraints
// that is sufficient to make a solution impossible.
type NotSatisfiable []AppliedConstraint

func (e NotSatisfiable) Error() string {
	const msg = "constraints not satisfiable"
	if len(e) == 0 {
		return msg
	}
	s := make([]string, len(e))
	for i, a := range e {
		s[i] = a.String()
	}
	return fmt.Sprintf("%s: %s", msg, strings.Join(s, ", "))
}

const (
	satisfiable   = 1
	unsatisfiable = -1
)

// Solve returns the Variables that are true in some model satisfying
// every constraint, or NotSatisfiable when no model exists. Variables
// that no constraint forces may take either value.
func Solve(variables []Variable) (result []Variable, err error) {
	d, err := newLitMapping(variables)
	if err != nil {
		return nil, err
	}
	defer func() {
		// This likely indicates a bug, so discard whatever
		// return values were produced.
		if derr := d.Error(); derr != nil {
			result = nil
			err = derr
		}
	}()

	g := gini.New()
	d.AddConstraints(g)
	d.AssumeConstraints(g)

	switch g.Solve() {
	case satisfiable:
		return d.Selected(g), nil
	case unsatisfiable:
		conflicts := d.Conflicts(g)
		sort.SliceStable(conflicts, func(i, j int) bool {
			return conflicts[i].String() < conflicts[j].String()
		})
		return nil, NotSatisfiable(conflicts)
	}
	return nil, fmt.Errorf("unexpected internal error")
}
