package requirement

import (
	"fmt"
	"strings"
)

const (
	alwaysToken = "*"
	orToken     = "|"
	andToken    = "&"
)

// ParseError describes a condition that could not be parsed.
type ParseError struct {
	Condition string
	Reason    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid condition %q: %s", e.Condition, e.Reason)
}

// ParseCondition parses an OR-of-AND condition such as "A & B | C".
// The condition "*" always holds, and a term mentioning "<impossible>"
// never does, so String output parses back to the same Requirement.
// Definition references are left as plain atoms; expanding them is the
// Simplifier's job.
func ParseCondition(condition string) (Requirement, error) {
	trimmed := strings.TrimSpace(condition)
	if trimmed == "" {
		return Impossible(), &ParseError{Condition: condition, Reason: "empty condition"}
	}
	if trimmed == alwaysToken {
		return Always(), nil
	}

	var clauses []Clause
	for _, term := range strings.Split(trimmed, orToken) {
		var atoms []Label
		holds := true
		for _, atom := range strings.Split(term, andToken) {
			atom = strings.TrimSpace(atom)
			switch {
			case atom == "":
				return Impossible(), &ParseError{Condition: condition, Reason: "empty atom"}
			case atom == alwaysToken:
				// "*" inside a clause adds nothing to it.
				continue
			case atom == impossibleString:
				holds = false
				continue
			case strings.ContainsAny(atom, " \t"):
				return Impossible(), &ParseError{Condition: condition, Reason: fmt.Sprintf("atom %q contains whitespace", atom)}
			}
			atoms = append(atoms, Label(atom))
		}
		if holds {
			clauses = append(clauses, NewClause(atoms...))
		}
	}
	return Of(clauses...), nil
}

// MustParseCondition is like ParseCondition but panics on error. It is
// intended for tests and static tables.
func MustParseCondition(condition string) Requirement {
	r, err := ParseCondition(condition)
	if err != nil {
		panic(err)
	}
	return r
}
