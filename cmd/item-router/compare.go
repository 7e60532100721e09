package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/operator-framework/item-router/pkg/router"
)

type compareOptions struct {
	routeOptions

	against int64
	color   string
}

func newCompareCmd() *cobra.Command {
	o := compareOptions{routeOptions: defaultRouteOptions()}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Show how the routes of two seeds differ",
		Long: `The item-router compare command solves the same problem with --seed and
        --against and prints a line diff of the two routes, one
        "location : item" line per location, sorted by location.

        $ item-router compare -r requirements.txt --seed 1 --against 2
        `,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.complete(cmd.Flags()); err != nil {
				return err
			}
			return runCompare(cmd.Context(), o, cmd.OutOrStdout())
		},
	}

	o.addFlags(cmd.Flags())
	cmd.Flags().Int64Var(&o.against, "against", 1, "The seed to compare --seed with.")
	cmd.Flags().StringVar(&o.color, "color", "auto", "Color the diff. One of: [auto, always, never]")
	return cmd
}

func runCompare(ctx context.Context, o compareOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if o.Requirements == "" {
		return errors.New("--requirements is required")
	}
	var colored bool
	switch o.color {
	case "always":
		colored = true
	case "never":
	case "auto":
		fd := os.Stdout.Fd()
		colored = out == os.Stdout && (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
	default:
		return fmt.Errorf("%s is not a supported color mode", o.color)
	}

	problem, err := o.problem()
	if err != nil {
		return err
	}
	a, err := solveListing(ctx, o.routeOptions, problem, o.Seed)
	if err != nil {
		return err
	}
	b, err := solveListing(ctx, o.routeOptions, problem, o.against)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "--- seed %d\n+++ seed %d\n", o.Seed, o.against)
	return writeDiff(a, b, out, colored)
}

// solveListing solves problem for seed and lists its assignments
// sorted by location.
func solveListing(ctx context.Context, o routeOptions, problem router.Problem, seed int64) (string, error) {
	r, err := router.New(problem, o.routerOptions(seed, router.DefaultTracer{})...)
	if err != nil {
		return "", err
	}
	route, err := r.Solve(ctx)
	if err != nil {
		return "", errors.Wrapf(err, "seed %d", seed)
	}
	assignments := route.Assignments()
	locations := make([]string, 0, len(assignments))
	width := 0
	for location := range assignments {
		locations = append(locations, string(location))
		if len(location) > width {
			width = len(location)
		}
	}
	sort.Strings(locations)

	var b bytes.Buffer
	for _, location := range locations {
		fmt.Fprintf(&b, "%-*s : %s\n", width, location, assignments[router.Label(location)])
	}
	return b.String(), nil
}

// writeDiff writes a line diff turning a into b. Removed lines start
// with "-", added lines with "+" and unchanged lines with a space.
func writeDiff(a, b string, w io.Writer, colored bool) error {
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	plain := color.New()
	for _, c := range []*color.Color{added, removed, plain} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	for _, d := range diffs {
		prefix, c := " ", plain
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix, c = "+", added
		case diffmatchpatch.DiffDelete:
			prefix, c = "-", removed
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			if _, err := c.Fprint(w, prefix+line); err != nil {
				return err
			}
		}
	}
	return nil
}
