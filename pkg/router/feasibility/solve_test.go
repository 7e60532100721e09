package feasibility

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotSatisfiableError(t *testing.T) {
	type tc struct {
		Name   string
		Error  NotSatisfiable
		String string
	}

	for _, tt := range []tc{
		{
			Name:   "nil",
			String: "constraints not satisfiable",
		},
		{
			Name:   "empty",
			String: "constraints not satisfiable",
			Error:  NotSatisfiable{},
		},
		{
			Name: "single failure",
			Error: NotSatisfiable{
				AppliedConstraint{
					Variable:   NewVariable("a", Mandatory()),
					Constraint: Mandatory(),
				},
			},
			String: fmt.Sprintf("constraints not satisfiable: %s",
				Mandatory().String("a")),
		},
		{
			Name: "multiple failures",
			Error: NotSatisfiable{
				AppliedConstraint{
					Variable:   NewVariable("a", Mandatory()),
					Constraint: Mandatory(),
				},
				AppliedConstraint{
					Variable:   NewVariable("b", Dependency()),
					Constraint: Dependency(),
				},
			},
			String: fmt.Sprintf("constraints not satisfiable: %s, %s",
				Mandatory().String("a"), Dependency().String("b")),
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.String, tt.Error.Error())
		})
	}
}

func TestSolve(t *testing.T) {
	type tc struct {
		Name      string
		Variables []Variable
		Selected  []Identifier
		Error     bool
	}

	for _, tt := range []tc{
		{
			Name: "no variables",
		},
		{
			Name:      "mandatory variable is selected",
			Variables: []Variable{NewVariable("a", Mandatory())},
			Selected:  []Identifier{"a"},
		},
		{
			Name: "dependency pulls in a candidate",
			Variables: []Variable{
				NewVariable("a", Mandatory(), Dependency("b")),
				NewVariable("b"),
			},
			Selected: []Identifier{"a", "b"},
		},
		{
			Name: "dependency without candidates fails",
			Variables: []Variable{
				NewVariable("a", Mandatory(), Dependency()),
			},
			Error: true,
		},
		{
			Name: "at most bounds mandatory selections",
			Variables: []Variable{
				NewVariable("a", Mandatory()),
				NewVariable("b", Mandatory()),
				NewVariable("c", AtMost(1, "a", "b")),
			},
			Error: true,
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			selected, err := Solve(tt.Variables)
			if tt.Error {
				var ns NotSatisfiable
				require.ErrorAs(t, err, &ns)
				assert.NotEmpty(t, ns)
				return
			}
			require.NoError(t, err)
			var ids []Identifier
			for _, v := range selected {
				ids = append(ids, v.Identifier())
			}
			assert.Equal(t, tt.Selected, ids)
		})
	}
}

func TestSolveDuplicateIdentifier(t *testing.T) {
	_, err := Solve([]Variable{NewVariable("a"), NewVariable("a")})
	assert.Equal(t, DuplicateIdentifier("a"), err)
}

func TestCheck(t *testing.T) {
	allow := func(pairs ...string) func(string, string) bool {
		set := make(map[string]bool)
		for _, p := range pairs {
			set[p] = true
		}
		return func(location, item string) bool {
			return set[item+"@"+location]
		}
	}

	type tc struct {
		Name      string
		Placement Placement
		Conflicts []string
	}

	for _, tt := range []tc{
		{
			Name: "unrestricted items fit",
			Placement: Placement{
				Locations: []string{"A", "B"},
				Items:     []string{"X", "Y"},
			},
		},
		{
			Name: "more items than locations",
			Placement: Placement{
				Locations: []string{"A"},
				Items:     []string{"X", "Y"},
			},
			Conflicts: []string{"location/A permits at most 1 of X@A, Y@A"},
		},
		{
			Name: "item without compatible location",
			Placement: Placement{
				Locations:  []string{"A", "B"},
				Items:      []string{"X"},
				Compatible: allow(),
			},
			Conflicts: []string{"item/X has no candidate placements", "item/X is mandatory"},
		},
		{
			Name: "two items compete for one slot",
			Placement: Placement{
				Locations:  []string{"A", "B"},
				Items:      []string{"X", "Y"},
				Compatible: allow("X@A", "Y@A"),
			},
			Conflicts: []string{"location/A permits at most 1 of X@A, Y@A"},
		},
		{
			Name: "forced pair ignores restrictions",
			Placement: Placement{
				Locations:  []string{"A", "B"},
				Items:      []string{"X"},
				Compatible: allow("X@B"),
				Forced:     map[string]string{"A": "Z"},
			},
		},
		{
			Name: "forced pair takes the only slot",
			Placement: Placement{
				Locations:  []string{"A", "B"},
				Items:      []string{"X"},
				Compatible: allow("X@A"),
				Forced:     map[string]string{"A": "Z"},
			},
			Conflicts: []string{"item/X has no candidate placements", "item/X is mandatory"},
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			err := Check(tt.Placement)
			if len(tt.Conflicts) == 0 {
				assert.NoError(t, err)
				return
			}
			var ns NotSatisfiable
			require.ErrorAs(t, err, &ns)
			var got []string
			for _, a := range ns {
				got = append(got, a.String())
			}
			sort.Strings(got)
			for _, c := range tt.Conflicts {
				assert.Contains(t, got, c)
			}
		})
	}
}
