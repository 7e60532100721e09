package feasibility

import "sort"

// Placement describes which items must find a location, which
// item/location pairs are allowed, and which pairs are forced.
type Placement struct {
	Locations  []string
	Items      []string
	Compatible func(location, item string) bool
	Forced     map[string]string
}

// PairIdentifier names the decision "item is placed at location".
func PairIdentifier(item, location string) Identifier {
	return Identifier(item + "@" + location)
}

// ItemIdentifier names the decision "item is placed somewhere".
func ItemIdentifier(item string) Identifier {
	return Identifier("item/" + item)
}

// LocationIdentifier names the capacity of a location.
func LocationIdentifier(location string) Identifier {
	return Identifier("location/" + location)
}

// Variables encodes p: one Variable per allowed pair, one per item that
// must be placed (Mandatory, Dependency on its pairs, AtMost one pair)
// and one per location (AtMost one pair).
func (p Placement) Variables() []Variable {
	items := p.items()
	byLocation := make(map[string][]Identifier, len(p.Locations))
	var variables []Variable

	for _, item := range items {
		var pairs []Identifier
		for _, location := range p.Locations {
			if forced, ok := p.Forced[location]; ok && forced != item {
				continue
			}
			if p.Forced[location] != item && p.Compatible != nil && !p.Compatible(location, item) {
				continue
			}
			id := PairIdentifier(item, location)
			pairs = append(pairs, id)
			byLocation[location] = append(byLocation[location], id)

			var constraints []Constraint
			if p.Forced[location] == item {
				constraints = append(constraints, Mandatory())
			}
			variables = append(variables, NewVariable(id, constraints...))
		}

		constraints := []Constraint{Mandatory(), Dependency(pairs...)}
		if len(pairs) > 1 {
			constraints = append(constraints, AtMost(1, pairs...))
		}
		variables = append(variables, NewVariable(ItemIdentifier(item), constraints...))
	}

	for _, location := range p.Locations {
		pairs := byLocation[location]
		var constraints []Constraint
		if len(pairs) > 1 {
			constraints = append(constraints, AtMost(1, pairs...))
		}
		variables = append(variables, NewVariable(LocationIdentifier(location), constraints...))
	}
	return variables
}

// items returns the items that must be placed: the declared ones plus
// every forced item, without duplicates.
func (p Placement) items() []string {
	seen := make(map[string]struct{}, len(p.Items)+len(p.Forced))
	var items []string
	for _, item := range p.Items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		items = append(items, item)
	}
	var forced []string
	for _, item := range p.Forced {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		forced = append(forced, item)
	}
	sort.Strings(forced)
	return append(items, forced...)
}

// Check returns nil when every item of p can be given a distinct
// location, and NotSatisfiable otherwise.
func Check(p Placement) error {
	_, err := Solve(p.Variables())
	return err
}
