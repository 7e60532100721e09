package router

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/operator-framework/item-router/pkg/router/feasibility"
	"github.com/operator-framework/item-router/pkg/router/requirement"
)

// Solver computes routes.
type Solver interface {
	Solve(ctx context.Context) (*Route, error)
}

// Router places the items of one Problem. Requirements are simplified
// once in New; each call to Solve starts from an empty assignment.
type Router struct {
	config
	problem      Problem
	requirements map[Label]requirement.Requirement
	definitions  []Label
	locations    []Label
	mandatory    []Label
	pool         []Label
}

var _ Solver = &Router{}

// New validates p and prepares it for solving. Problems no seed could
// solve are rejected with a *ConfigurationError.
func New(p Problem, options ...Option) (*Router, error) {
	c, err := newConfig(options...)
	if err != nil {
		return nil, &ConfigurationError{Reason: "invalid option", Err: err}
	}
	if p.Spec == nil {
		return nil, &ConfigurationError{Reason: "no requirement spec"}
	}
	r := &Router{
		config:      *c,
		problem:     p,
		locations:   p.Spec.Locations(),
		definitions: p.Spec.Definitions(),
	}
	if len(r.locations) == 0 {
		return nil, &ConfigurationError{Reason: "requirement spec declares no locations"}
	}
	if r.maxRestarts <= 0 {
		r.maxRestarts = DefaultMaxRestarts(len(r.locations))
	}

	s := requirement.NewSimplifier(p.Spec,
		requirement.WithMaxPasses(r.maxPasses),
		requirement.WithMaxRepeats(r.maxRepeats),
		requirement.WithLogger(r.log),
	)
	if r.requirements, err = s.Run(); err != nil {
		return nil, &ConfigurationError{Reason: "requirement simplification failed", Err: err}
	}
	var impossible []Label
	for _, label := range s.Unreachable() {
		if p.Spec.IsDefinition(label) {
			r.log.WithField("definition", label).Warn("definition can never be satisfied")
			continue
		}
		impossible = append(impossible, label)
	}
	if len(impossible) > 0 {
		return nil, &ConfigurationError{Reason: "locations can never be reached", Labels: impossible}
	}

	if err := r.checkCustoms(); err != nil {
		return nil, err
	}
	r.collectItems()

	if err := feasibility.Check(r.placement()); err != nil {
		return nil, &ConfigurationError{Reason: "mandatory items cannot all be placed", Err: err}
	}
	return r, nil
}

func (r *Router) checkCustoms() error {
	isLocation := make(map[Label]struct{}, len(r.locations))
	for _, location := range r.locations {
		isLocation[location] = struct{}{}
	}
	var unknown, repeated, locked []Label
	seen := make(map[Label]struct{}, len(r.problem.Customs))
	for _, location := range sortedKeys(r.problem.Customs) {
		item := r.problem.Customs[location]
		if _, ok := isLocation[location]; !ok {
			unknown = append(unknown, location)
			continue
		}
		if item != r.filler {
			if _, ok := seen[item]; ok {
				repeated = append(repeated, item)
			}
			seen[item] = struct{}{}
			if locksItself(r.requirements[location], item) {
				locked = append(locked, location)
			}
		}
		if !r.problem.Restrictions.Allows(location, item) {
			r.log.WithFields(logrus.Fields{
				"location": location,
				"item":     item,
			}).Warn("custom assignment conflicts with restrictions, honoring it anyway")
		}
	}
	if len(unknown) > 0 {
		return &ConfigurationError{Reason: "custom assignments name unknown locations", Labels: unknown}
	}
	if len(repeated) > 0 {
		return &ConfigurationError{Reason: "custom assignments place an item more than once", Labels: repeated}
	}
	if len(locked) > 0 {
		return &ConfigurationError{Reason: "custom assignment locks its own location", Labels: locked}
	}
	return nil
}

// locksItself reports whether every way of reaching a location needs
// the item pinned there.
func locksItself(req requirement.Requirement, item Label) bool {
	clauses := req.Clauses()
	if len(clauses) == 0 {
		return false
	}
	for _, clause := range clauses {
		if !clause.Contains(item) {
			return false
		}
	}
	return true
}

// collectItems derives the mandatory items, every atom required by a
// location, and the item pool: declared items first, then mandatory and
// custom items that were not declared.
func (r *Router) collectItems() {
	seen := make(map[Label]struct{})
	mandatory := make(map[Label]struct{})
	for _, location := range r.locations {
		for _, atom := range r.requirements[location].Atoms() {
			if atom == r.filler {
				continue
			}
			if _, ok := mandatory[atom]; !ok {
				mandatory[atom] = struct{}{}
				r.mandatory = append(r.mandatory, atom)
			}
		}
	}
	sort.Slice(r.mandatory, func(i, j int) bool { return r.mandatory[i] < r.mandatory[j] })

	add := func(item Label) {
		if item == r.filler {
			return
		}
		if _, ok := seen[item]; ok {
			return
		}
		seen[item] = struct{}{}
		r.pool = append(r.pool, item)
	}
	for _, item := range r.problem.Items {
		add(item)
	}
	for _, item := range r.mandatory {
		add(item)
	}
	for _, location := range sortedKeys(r.problem.Customs) {
		add(r.problem.Customs[location])
	}
}

func (r *Router) placement() feasibility.Placement {
	p := feasibility.Placement{
		Locations: make([]string, len(r.locations)),
		Items:     make([]string, len(r.mandatory)),
		Compatible: func(location, item string) bool {
			if custom, ok := r.problem.Customs[Label(location)]; ok && custom == r.filler {
				return false
			}
			return r.problem.Restrictions.Allows(Label(location), Label(item))
		},
		Forced: make(map[string]string, len(r.problem.Customs)),
	}
	for i, location := range r.locations {
		p.Locations[i] = string(location)
	}
	for i, item := range r.mandatory {
		p.Items[i] = string(item)
	}
	for location, item := range r.problem.Customs {
		if item != r.filler {
			p.Forced[string(location)] = string(item)
		}
	}
	return p
}

// Solve runs attempts until one produces a complete route or the
// restart budget is spent. The context is checked between attempts.
func (r *Router) Solve(ctx context.Context) (*Route, error) {
	var last *restartSignal
	for n := 0; n <= r.maxRestarts; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a := r.newAttempt(n)
		sig := a.run()
		if sig == nil {
			return a.route(), nil
		}
		last = sig
		a.log.Debugf("restarting route: %s", sig)
		r.tracer.Trace(a.position(sig))
	}
	return nil, &RouterError{
		Kind:     RouteIncomplete,
		Restarts: r.maxRestarts,
		Reason:   last.String(),
	}
}

// Requirement returns the simplified requirement of a label.
func (r *Router) Requirement(label Label) requirement.Requirement {
	if req, ok := r.requirements[label]; ok {
		return req
	}
	return requirement.Atom(label)
}

// Locations returns the placeable labels in declaration order.
func (r *Router) Locations() []Label {
	return append([]Label(nil), r.locations...)
}

// MandatoryItems returns, sorted, every item some location requires.
func (r *Router) MandatoryItems() []Label {
	return append([]Label(nil), r.mandatory...)
}

// Pool returns every item the router will try to place.
func (r *Router) Pool() []Label {
	return append([]Label(nil), r.pool...)
}

func (r *Router) MaxRestarts() int {
	return r.maxRestarts
}

func (r *Router) Filler() Label {
	return r.filler
}

func sortedKeys(m map[Label]Label) []Label {
	keys := make([]Label, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
