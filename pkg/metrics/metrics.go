package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const (
	Outcome   = "outcome"
	Succeeded = "succeeded"
	Failed    = "failed"
	KindLabel = "kind"
)

var (
	routeSolveSummary = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "item_router_solve_duration_seconds",
			Help:       "The duration of a route solve, restarts included",
			Objectives: map[float64]float64{0.95: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{Outcome},
	)

	routeRestartCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "item_router_restarts_total",
			Help: "Monotonic count of attempts abandoned and restarted with a new seed",
		},
	)

	routePlacementCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "item_router_placements_total",
			Help: "Monotonic count of items placed by successful solves",
		},
		[]string{KindLabel},
	)
)

// Collectors returns every collector of this package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		routeSolveSummary,
		routeRestartCount,
		routePlacementCount,
	}
}

// RegisterRouter registers the router collectors with the default
// registry.
func RegisterRouter() {
	prometheus.MustRegister(Collectors()...)
}

func RegisterRouteSolveSuccess(duration time.Duration) {
	routeSolveSummary.WithLabelValues(Succeeded).Observe(duration.Seconds())
}

func RegisterRouteSolveFailure(duration time.Duration) {
	routeSolveSummary.WithLabelValues(Failed).Observe(duration.Seconds())
}

func EmitRouteRestart() {
	routeRestartCount.Inc()
}

// EmitPlacement counts one placement; kind is "custom", "item" or
// "filler".
func EmitPlacement(kind string) {
	routePlacementCount.WithLabelValues(kind).Inc()
}

// WriteText writes every metric family gathered by g in the Prometheus
// text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
