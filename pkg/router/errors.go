package router

import (
	"fmt"
	"strings"
)

type RouterErrorKind int

const (
	// NoAssignableLocations means an item had nowhere left to go.
	NoAssignableLocations RouterErrorKind = iota
	// RouteIncomplete means every attempt allowed by the restart
	// budget hit a dead end.
	RouteIncomplete
)

func (k RouterErrorKind) String() string {
	switch k {
	case NoAssignableLocations:
		return "NoAssignableLocations"
	case RouteIncomplete:
		return "RouteIncomplete"
	}
	return fmt.Sprintf("RouterErrorKind(%d)", int(k))
}

// RouterError reports that a route could not be completed with the
// randomness available. The configuration itself may still be sound;
// another seed can succeed.
type RouterError struct {
	Kind     RouterErrorKind
	Item     Label
	Restarts int
	Reason   string
}

func (e *RouterError) Error() string {
	switch e.Kind {
	case NoAssignableLocations:
		return fmt.Sprintf("no assignable locations for item %s", e.Item)
	default:
		msg := fmt.Sprintf("could not complete route after %d restarts", e.Restarts)
		if e.Reason != "" {
			msg += ": " + e.Reason
		}
		return msg
	}
}

// ConfigurationError reports a problem no seed can solve: the
// requirement spec has no fixed point, a location can never be reached,
// the custom assignments are malformed, or the mandatory items cannot
// all be placed under the restrictions.
type ConfigurationError struct {
	Reason string
	Labels []Label
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := "invalid route configuration: " + e.Reason
	if len(e.Labels) > 0 {
		s := make([]string, len(e.Labels))
		for i, l := range e.Labels {
			s[i] = string(l)
		}
		msg += " (" + strings.Join(s, ", ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// restartSignal is returned by an attempt that reached a dead end. The
// outer loop discards the attempt and tries again with a new seed.
type restartSignal struct {
	reason string
	item   Label
}

func (s *restartSignal) String() string {
	if s.item != "" {
		return fmt.Sprintf("%s (item %s)", s.reason, s.item)
	}
	return s.reason
}
