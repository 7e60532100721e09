package router

import (
	"bytes"
	"fmt"
	"io"
)

// Report writes one line per placement, in placement order:
//
//	location<padding> : item [definition]
//
// where definition is the most specific definition the location's
// requirement implies, if any.
func (r *Route) Report(w io.Writer) error {
	width := 0
	for _, p := range r.Placements {
		if n := len(p.Location); n > width {
			width = n
		}
	}
	for _, p := range r.Placements {
		line := fmt.Sprintf("%-*s : %s", width, p.Location, p.Item)
		if def, ok := r.attempt.router.BestDefinition(p.Location); ok {
			line += fmt.Sprintf(" [%s]", def)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Route) String() string {
	var b bytes.Buffer
	_ = r.Report(&b)
	return b.String()
}

// BestDefinition returns the definition that best describes what
// reaching label takes: among the satisfiable, conditional definitions
// implied by the label's requirement, the one with the most atoms,
// ties broken by name.
func (r *Router) BestDefinition(label Label) (Label, bool) {
	req := r.Requirement(label)
	if req.IsAlways() || req.IsImpossible() {
		return "", false
	}
	var best Label
	bestComplexity := -1
	for _, def := range r.definitions {
		if def == label {
			continue
		}
		d := r.requirements[def]
		if d.IsAlways() || d.IsImpossible() || !req.Implies(d) {
			continue
		}
		c := d.Complexity()
		if c > bestComplexity || (c == bestComplexity && def < best) {
			best, bestComplexity = def, c
		}
	}
	return best, bestComplexity >= 0
}
