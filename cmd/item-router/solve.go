package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/operator-framework/item-router/pkg/metrics"
	"github.com/operator-framework/item-router/pkg/router"
)

const (
	outputYAML   = "yaml"
	outputJSON   = "json"
	outputReport = "report"
)

type solveOptions struct {
	routeOptions

	seeds    int
	parallel int
	output   string
	metrics  bool

	gatherer prometheus.Gatherer
	stderr   io.Writer
}

// newSolveCmd returns a command that solves routes for one or more seeds.
func newSolveCmd() *cobra.Command {
	o := solveOptions{
		routeOptions: defaultRouteOptions(),
		gatherer:     prometheus.DefaultGatherer,
		stderr:       os.Stderr,
	}
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a route",
		Long: `The item-router solve command places every item of the pool so that
        each location is reachable with the items placed before it.

        With --seeds N the command solves seeds SEED..SEED+N-1 concurrently
        and reports every route, failed seeds included.

        $ item-router solve -r requirements.txt --restrictions restrictions.txt --seed 42 -o report
        `,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.complete(cmd.Flags()); err != nil {
				return err
			}
			return runSolve(cmd.Context(), o, cmd.OutOrStdout())
		},
	}

	o.addFlags(cmd.Flags())
	cmd.Flags().IntVar(&o.seeds, "seeds", 1, "Number of consecutive seeds to solve, starting at --seed.")
	cmd.Flags().IntVar(&o.parallel, "parallel", 4, "Maximum number of seeds solved at once.")
	cmd.Flags().StringVarP(&o.output, "output", "o", outputYAML, "Output format. One of: [yaml, json, report]")
	cmd.Flags().BoolVar(&o.metrics, "metrics", false, "Print solver metrics to stderr when done.")
	return cmd
}

type solveResult struct {
	Seed        int64             `json:"seed"`
	Attempt     int               `json:"attempt"`
	Assignments map[string]string `json:"assignments,omitempty"`
	Error       string            `json:"error,omitempty"`

	route *router.Route
}

func runSolve(ctx context.Context, o solveOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	switch o.output {
	case outputYAML, outputJSON, outputReport:
	default:
		return fmt.Errorf("%s is not a supported output format", o.output)
	}
	if o.seeds < 1 {
		return fmt.Errorf("--seeds must be at least 1, got %d", o.seeds)
	}
	if o.Requirements == "" {
		return errors.New("--requirements is required")
	}

	problem, err := o.problem()
	if err != nil {
		return err
	}
	results, err := solveSeeds(ctx, o, problem)
	if err != nil {
		return err
	}

	if err := writeResults(out, o.output, results); err != nil {
		return err
	}
	if o.metrics {
		if err := metrics.WriteText(o.stderr, o.gatherer); err != nil {
			return errors.Wrap(err, "writing metrics")
		}
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d seeds could not be routed", failed, len(results))
	}
	return nil
}

// solveSeeds solves every requested seed with its own Router. Seeds
// that cannot be routed are reported in their result; configuration
// errors stop the whole batch.
func solveSeeds(ctx context.Context, o solveOptions, problem router.Problem) ([]solveResult, error) {
	results := make([]solveResult, o.seeds)
	warn := color.New(color.FgYellow)

	tracer := o.tracer(&lockedWriter{w: o.stderr})
	g, ctx := errgroup.WithContext(ctx)
	if o.parallel > 0 {
		g.SetLimit(o.parallel)
	}
	for i := 0; i < o.seeds; i++ {
		i := i
		seed := o.Seed + int64(i)
		g.Go(func() error {
			r, err := router.New(problem, o.routerOptions(seed, tracer)...)
			if err != nil {
				return err
			}
			route, err := router.NewInstrumentedRouter(r,
				metrics.RegisterRouteSolveSuccess,
				metrics.RegisterRouteSolveFailure,
			).Solve(ctx)

			var re *router.RouterError
			switch {
			case errors.As(err, &re):
				results[i] = solveResult{Seed: seed, Error: err.Error()}
				return nil
			case err != nil:
				return errors.Wrapf(err, "seed %d", seed)
			}

			for _, p := range route.Placements {
				switch {
				case p.Custom:
					metrics.EmitPlacement("custom")
				case p.Item == r.Filler():
					metrics.EmitPlacement("filler")
				default:
					metrics.EmitPlacement("item")
				}
			}
			assignments := make(map[string]string, len(route.Placements))
			for location, item := range route.Assignments() {
				assignments[string(location)] = string(item)
			}
			results[i] = solveResult{
				Seed:        seed,
				Attempt:     route.Attempt,
				Assignments: assignments,
				route:       route,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, r := range results {
		if r.Error != "" {
			warn.Fprintf(o.stderr, "seed %d: %s\n", r.Seed, r.Error)
		}
	}
	return results, nil
}

// lockedWriter serializes writes of the seeds solved concurrently.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func (o solveOptions) tracer(w io.Writer) router.Tracer {
	var logging router.Tracer = router.DefaultTracer{}
	if o.trace {
		logging = router.LoggingTracer{Writer: w}
	}
	return router.TracerFunc(func(p router.Position) {
		metrics.EmitRouteRestart()
		logging.Trace(p)
	})
}

func writeResults(w io.Writer, format string, results []solveResult) error {
	switch format {
	case outputReport:
		for i, r := range results {
			if len(results) > 1 {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "# seed %d\n", r.Seed)
			}
			if r.route == nil {
				fmt.Fprintf(w, "# %s\n", r.Error)
				continue
			}
			if err := r.route.Report(w); err != nil {
				return err
			}
		}
		return nil
	case outputJSON:
		var v interface{} = results
		if len(results) == 1 && results[0].Error == "" {
			v = results[0].Assignments
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		var v interface{} = results
		if len(results) == 1 && results[0].Error == "" {
			v = results[0].Assignments
		}
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
}
