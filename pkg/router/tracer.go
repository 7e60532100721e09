package router

import (
	"bytes"
	"fmt"
	"io"
)

// Position describes an attempt at the moment it was abandoned.
type Position interface {
	Attempt() int
	Placements() []Placement
	Reason() string
}

type position struct {
	attempt    int
	placements []Placement
	reason     string
}

func (p position) Attempt() int {
	return p.attempt
}

func (p position) Placements() []Placement {
	return p.placements
}

func (p position) Reason() string {
	return p.reason
}

// Tracer is notified of every restart.
type Tracer interface {
	Trace(p Position)
}

type DefaultTracer struct{}

func (DefaultTracer) Trace(_ Position) {
}

type LoggingTracer struct {
	Writer io.Writer
}

// Trace writes the position with a single Write so traces of
// concurrent solves sharing Writer stay whole.
func (t LoggingTracer) Trace(p Position) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "---\nAttempt %d:\n", p.Attempt())
	for _, pl := range p.Placements() {
		fmt.Fprintf(&b, "- %s: %s (rank %d)\n", pl.Location, pl.Item, pl.Rank)
	}
	fmt.Fprintf(&b, "Restart:\n- %s\n", p.Reason())
	_, _ = t.Writer.Write(b.Bytes())
}

// TracerFunc adapts a function to the Tracer interface.
type TracerFunc func(p Position)

func (f TracerFunc) Trace(p Position) {
	f(p)
}
