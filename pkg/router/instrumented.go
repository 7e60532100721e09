package router

import (
	"context"
	"time"
)

type InstrumentedRouter struct {
	router                Solver
	successMetricsEmitter func(time.Duration)
	failureMetricsEmitter func(time.Duration)
}

var _ Solver = &InstrumentedRouter{}

func NewInstrumentedRouter(router Solver, successMetricsEmitter, failureMetricsEmitter func(time.Duration)) *InstrumentedRouter {
	return &InstrumentedRouter{
		router:                router,
		successMetricsEmitter: successMetricsEmitter,
		failureMetricsEmitter: failureMetricsEmitter,
	}
}

func (ir *InstrumentedRouter) Solve(ctx context.Context) (*Route, error) {
	start := time.Now()
	route, err := ir.router.Solve(ctx)
	if err != nil {
		ir.failureMetricsEmitter(time.Since(start))
	} else {
		ir.successMetricsEmitter(time.Since(start))
	}
	return route, err
}
