package feasibility

import (
	"fmt"
	"strings"

	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

type DuplicateIdentifier Identifier

func (e DuplicateIdentifier) Error() string {
	return fmt.Sprintf("duplicate identifier %q in input", Identifier(e))
}

// litMapping translates between Variables/Constraints and the literals
// of the circuit handed to gini.
type litMapping struct {
	inorder     []Variable
	lits        map[Identifier]z.Lit
	constraints map[z.Lit]AppliedConstraint
	c           *logic.C
	errs        []error
}

func newLitMapping(variables []Variable) (*litMapping, error) {
	d := litMapping{
		inorder:     variables,
		lits:        make(map[Identifier]z.Lit, len(variables)),
		constraints: make(map[z.Lit]AppliedConstraint),
		c:           logic.NewCCap(len(variables)),
	}

	for _, v := range variables {
		if _, ok := d.lits[v.Identifier()]; ok {
			return nil, DuplicateIdentifier(v.Identifier())
		}
		m := d.c.Lit()
		d.lits[v.Identifier()] = m
	}

	for _, v := range variables {
		for _, constraint := range v.Constraints() {
			m := constraint.apply(d.c, &d, v.Identifier())
			if m == z.LitNull {
				continue
			}
			d.constraints[m] = AppliedConstraint{
				Variable:   v,
				Constraint: constraint,
			}
		}
	}

	return &d, nil
}

// LitOf returns the positive literal of the Variable with the given
// Identifier.
func (d *litMapping) LitOf(id Identifier) z.Lit {
	if m, ok := d.lits[id]; ok {
		return m
	}
	d.errs = append(d.errs, fmt.Errorf("variable %q referenced but not provided", id))
	return z.LitNull
}

// Error aggregates every lookup failure seen so far. A non-nil value
// points at a bug in a Constraint implementation.
func (d *litMapping) Error() error {
	if len(d.errs) == 0 {
		return nil
	}
	s := make([]string, len(d.errs))
	for i, err := range d.errs {
		s[i] = err.Error()
	}
	return fmt.Errorf("%d errors encountered: %s", len(s), strings.Join(s, ", "))
}

func (d *litMapping) AddConstraints(g inter.S) {
	d.c.ToCnf(g)
}

func (d *litMapping) AssumeConstraints(s inter.S) {
	for m := range d.constraints {
		s.Assume(m)
	}
}

// Selected returns the Variables that are true in the current model of
// g, in input order.
func (d *litMapping) Selected(g inter.S) []Variable {
	var result []Variable
	for _, v := range d.inorder {
		if g.Value(d.LitOf(v.Identifier())) {
			result = append(result, v)
		}
	}
	return result
}

// Conflicts returns the applied constraints among the failed
// assumptions of g.
func (d *litMapping) Conflicts(g inter.Assumable) []AppliedConstraint {
	whys := g.Why(nil)
	as := make([]AppliedConstraint, 0, len(whys))
	for _, why := range whys {
		if a, ok := d.constraints[why]; ok {
			as = append(as, a)
		}
	}
	return as
}
