package loader

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/operator-framework/item-router/pkg/router/requirement"
)

const (
	definitionDirective = ".def"
	commentPrefix       = "#"
)

// ParseRequirements reads a requirement spec. Each non-blank,
// non-comment line is
//
//	[.def] LABEL CONDITION
//
// where CONDITION is "*" or an OR-of-AND expression using "|" and "&".
func ParseRequirements(r io.Reader) (*requirement.Spec, error) {
	var entries []requirement.Entry
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}

		fields := strings.Fields(line)
		entry := requirement.Entry{}
		if fields[0] == definitionDirective {
			entry.IsDefinition = true
			fields = fields[1:]
		}
		if len(fields) < 2 {
			return nil, errors.Errorf("line %d: expected a label and a condition, got %q", n, line)
		}

		entry.Label = requirement.Label(fields[0])
		condition, err := requirement.ParseCondition(strings.Join(fields[1:], " "))
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", n)
		}
		entry.Condition = condition
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading requirement spec")
	}

	spec, err := requirement.NewSpec(entries...)
	if err != nil {
		return nil, errors.Wrap(err, "building requirement spec")
	}
	return spec, nil
}
