package requirement

import (
	"sort"
	"strings"
)

const impossibleString = "<impossible>"

// Requirement is a disjunction of Clauses in canonical form: clauses are
// deduplicated, no clause is a superset of another, and clauses are
// ordered by size and then by key. The zero value is Impossible.
type Requirement struct {
	clauses []Clause
}

// Always returns the Requirement that holds under any assignment.
func Always() Requirement {
	return Requirement{clauses: []Clause{{}}}
}

// Impossible returns the Requirement that holds under no assignment.
func Impossible() Requirement {
	return Requirement{}
}

// Of returns the disjunction of the given clauses. Of with no clauses
// is Impossible.
func Of(clauses ...Clause) Requirement {
	return normalize(append([]Clause(nil), clauses...))
}

// Atom returns the Requirement satisfied exactly by holding atom.
func Atom(atom Label) Requirement {
	return Requirement{clauses: []Clause{NewClause(atom)}}
}

func normalize(clauses []Clause) Requirement {
	sort.Slice(clauses, func(i, j int) bool {
		if clauses[i].Len() != clauses[j].Len() {
			return clauses[i].Len() < clauses[j].Len()
		}
		return clauses[i].key < clauses[j].key
	})
	kept := clauses[:0]
	for _, c := range clauses {
		dominated := false
		for _, k := range kept {
			if k.SubsetOf(c) {
				dominated = true
				break
			}
		}
		if !dominated {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return Impossible()
	}
	return Requirement{clauses: kept}
}

func (r Requirement) IsImpossible() bool {
	return len(r.clauses) == 0
}

func (r Requirement) IsAlways() bool {
	return len(r.clauses) == 1 && r.clauses[0].Len() == 0
}

// Clauses returns a copy of the clauses of r.
func (r Requirement) Clauses() []Clause {
	return append([]Clause(nil), r.clauses...)
}

// Or returns the disjunction of r and o.
func (r Requirement) Or(o Requirement) Requirement {
	switch {
	case r.IsImpossible():
		return o
	case o.IsImpossible():
		return r
	}
	merged := make([]Clause, 0, len(r.clauses)+len(o.clauses))
	merged = append(merged, r.clauses...)
	merged = append(merged, o.clauses...)
	return normalize(merged)
}

// And returns the conjunction of r and o, distributed back into
// disjunctive form.
func (r Requirement) And(o Requirement) Requirement {
	switch {
	case r.IsImpossible() || o.IsImpossible():
		return Impossible()
	case r.IsAlways():
		return o
	case o.IsAlways():
		return r
	}
	product := make([]Clause, 0, len(r.clauses)*len(o.clauses))
	for _, a := range r.clauses {
		for _, b := range o.clauses {
			product = append(product, a.Union(b))
		}
	}
	return normalize(product)
}

func (r Requirement) Equal(o Requirement) bool {
	if len(r.clauses) != len(o.clauses) {
		return false
	}
	for i := range r.clauses {
		if !r.clauses[i].Equal(o.clauses[i]) {
			return false
		}
	}
	return true
}

// Satisfied reports whether some clause of r holds given has.
func (r Requirement) Satisfied(has func(Label) bool) bool {
	for _, c := range r.clauses {
		if c.SatisfiedBy(has) {
			return true
		}
	}
	return false
}

// Implies reports whether every assignment satisfying r also satisfies
// o.
func (r Requirement) Implies(o Requirement) bool {
	for _, c := range r.clauses {
		found := false
		for _, d := range o.clauses {
			if d.SubsetOf(c) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Atoms returns every atom mentioned by r, sorted.
func (r Requirement) Atoms() []Label {
	seen := make(map[Label]struct{})
	var atoms []Label
	for _, c := range r.clauses {
		for _, atom := range c.atoms {
			if _, ok := seen[atom]; ok {
				continue
			}
			seen[atom] = struct{}{}
			atoms = append(atoms, atom)
		}
	}
	sort.Slice(atoms, func(i, j int) bool { return atoms[i] < atoms[j] })
	return atoms
}

// Complexity is the total number of atoms across all clauses.
func (r Requirement) Complexity() int {
	n := 0
	for _, c := range r.clauses {
		n += c.Len()
	}
	return n
}

// String renders r in the condition syntax accepted by ParseCondition.
func (r Requirement) String() string {
	if r.IsImpossible() {
		return impossibleString
	}
	if r.IsAlways() {
		return "*"
	}
	s := make([]string, len(r.clauses))
	for i, c := range r.clauses {
		s[i] = c.String()
	}
	return strings.Join(s, " | ")
}
