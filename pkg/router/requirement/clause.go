package requirement

import (
	"sort"
	"strings"
)

// Label names a location, an item, or a definition. All three share one
// namespace.
type Label string

func (l Label) String() string {
	return string(l)
}

// Clause is an immutable conjunction of atoms. Atoms are kept sorted
// and deduplicated so that two clauses with the same members are
// equal.
type Clause struct {
	atoms []Label
	key   string
}

// NewClause returns the Clause containing each of the given atoms.
func NewClause(atoms ...Label) Clause {
	seen := make(map[Label]struct{}, len(atoms))
	sorted := make([]Label, 0, len(atoms))
	for _, atom := range atoms {
		if _, ok := seen[atom]; ok {
			continue
		}
		seen[atom] = struct{}{}
		sorted = append(sorted, atom)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return clauseOf(sorted)
}

func clauseOf(sorted []Label) Clause {
	s := make([]string, len(sorted))
	for i, atom := range sorted {
		s[i] = string(atom)
	}
	return Clause{atoms: sorted, key: strings.Join(s, "&")}
}

// Atoms returns a copy of the clause members in sorted order.
func (c Clause) Atoms() []Label {
	return append([]Label(nil), c.atoms...)
}

func (c Clause) Len() int {
	return len(c.atoms)
}

// Key is the canonical identity of the clause.
func (c Clause) Key() string {
	return c.key
}

func (c Clause) String() string {
	if len(c.atoms) == 0 {
		return "*"
	}
	return c.key
}

func (c Clause) Equal(o Clause) bool {
	return c.key == o.key
}

func (c Clause) Contains(atom Label) bool {
	i := sort.Search(len(c.atoms), func(i int) bool { return c.atoms[i] >= atom })
	return i < len(c.atoms) && c.atoms[i] == atom
}

// SubsetOf reports whether every atom of c is also an atom of o.
func (c Clause) SubsetOf(o Clause) bool {
	if len(c.atoms) > len(o.atoms) {
		return false
	}
	j := 0
	for _, atom := range c.atoms {
		for j < len(o.atoms) && o.atoms[j] < atom {
			j++
		}
		if j == len(o.atoms) || o.atoms[j] != atom {
			return false
		}
		j++
	}
	return true
}

// Union returns the conjunction of c and o.
func (c Clause) Union(o Clause) Clause {
	merged := make([]Label, 0, len(c.atoms)+len(o.atoms))
	i, j := 0, 0
	for i < len(c.atoms) && j < len(o.atoms) {
		switch {
		case c.atoms[i] == o.atoms[j]:
			merged = append(merged, c.atoms[i])
			i++
			j++
		case c.atoms[i] < o.atoms[j]:
			merged = append(merged, c.atoms[i])
			i++
		default:
			merged = append(merged, o.atoms[j])
			j++
		}
	}
	merged = append(merged, c.atoms[i:]...)
	merged = append(merged, o.atoms[j:]...)
	return clauseOf(merged)
}

// Missing returns the atoms for which has reports false.
func (c Clause) Missing(has func(Label) bool) []Label {
	var missing []Label
	for _, atom := range c.atoms {
		if !has(atom) {
			missing = append(missing, atom)
		}
	}
	return missing
}

// SatisfiedBy reports whether has holds for every atom. The empty
// clause is always satisfied.
func (c Clause) SatisfiedBy(has func(Label) bool) bool {
	for _, atom := range c.atoms {
		if !has(atom) {
			return false
		}
	}
	return true
}
