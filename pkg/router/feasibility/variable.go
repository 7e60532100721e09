package feasibility

// Identifier values uniquely identify a Variable within one call to
// Solve.
type Identifier string

func (id Identifier) String() string {
	return string(id)
}

// Variable is a boolean decision in a feasibility problem, together
// with the constraints that mention it as their subject.
type Variable interface {
	Identifier() Identifier
	Constraints() []Constraint
}

type variable struct {
	id          Identifier
	constraints []Constraint
}

func (v variable) Identifier() Identifier {
	return v.id
}

func (v variable) Constraints() []Constraint {
	return v.constraints
}

// NewVariable returns a Variable with the given constraints.
func NewVariable(id Identifier, constraints ...Constraint) Variable {
	return variable{id: id, constraints: constraints}
}
