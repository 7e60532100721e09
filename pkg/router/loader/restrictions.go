package loader

import (
	"bufio"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/operator-framework/item-router/pkg/router/requirement"
)

const (
	itemSeparator = ","

	// maxSubstitutions bounds alias expansion so that cyclic aliases
	// fail instead of growing forever.
	maxSubstitutions = 64
)

// Restrictions maps a location to the set of items it may hold. A
// location without an entry accepts any item.
type Restrictions map[requirement.Label][]requirement.Label

// Allows reports whether item may be placed at location.
func (r Restrictions) Allows(location, item requirement.Label) bool {
	allowed, ok := r[location]
	if !ok {
		return true
	}
	for _, each := range allowed {
		if each == item {
			return true
		}
	}
	return false
}

type restrictionLine struct {
	number   int
	location string
	items    []string
}

// ParseRestrictions reads a restriction spec. Lines are
//
//	LOCATION ITEM[,ITEM...]
//	.def NAME VALUE
//
// Aliases declared with .def are substituted item by item, repeatedly,
// until no alias remains. Repeated lines for one location accumulate.
func ParseRestrictions(r io.Reader) (Restrictions, error) {
	aliases := make(map[string][]string)
	var lines []restrictionLine

	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		fields := strings.Fields(line)
		if fields[0] == definitionDirective {
			if len(fields) != 3 {
				return nil, errors.Errorf("line %d: expected .def NAME VALUE, got %q", n, line)
			}
			if _, ok := aliases[fields[1]]; ok {
				return nil, errors.Errorf("line %d: alias %q redefined", n, fields[1])
			}
			aliases[fields[1]] = splitItems(fields[2])
			continue
		}
		if len(fields) != 2 {
			return nil, errors.Errorf("line %d: expected LOCATION ITEMS, got %q", n, line)
		}
		lines = append(lines, restrictionLine{number: n, location: fields[0], items: splitItems(fields[1])})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading restriction spec")
	}

	restrictions := make(Restrictions)
	for _, l := range lines {
		items, err := substitute(l.items, aliases)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", l.number)
		}
		location := requirement.Label(l.location)
		restrictions[location] = mergeItems(restrictions[location], items)
	}
	return restrictions, nil
}

func splitItems(value string) []string {
	var items []string
	for _, item := range strings.Split(value, itemSeparator) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func substitute(items []string, aliases map[string][]string) ([]string, error) {
	for i := 0; i < maxSubstitutions; i++ {
		changed := false
		next := make([]string, 0, len(items))
		for _, item := range items {
			if value, ok := aliases[item]; ok {
				next = append(next, value...)
				changed = true
				continue
			}
			next = append(next, item)
		}
		if !changed {
			return next, nil
		}
		items = next
	}
	return nil, errors.Errorf("alias substitution did not settle after %d rounds", maxSubstitutions)
}

func mergeItems(existing []requirement.Label, items []string) []requirement.Label {
	seen := make(map[requirement.Label]struct{}, len(existing)+len(items))
	for _, item := range existing {
		seen[item] = struct{}{}
	}
	for _, item := range items {
		label := requirement.Label(item)
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		existing = append(existing, label)
	}
	sort.Slice(existing, func(i, j int) bool { return existing[i] < existing[j] })
	return existing
}
