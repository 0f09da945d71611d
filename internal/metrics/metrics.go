// Package metrics records hydroplant lifecycle events as Prometheus metrics.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/hydroplant/pkg/domain"
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Collectors holds the hydroplant metrics.
type Collectors struct {
	Sessions     *prometheus.CounterVec
	Syncs        *prometheus.CounterVec
	Transactions *prometheus.CounterVec
	Confirmation prometheus.Histogram
	Stage        prometheus.Gauge
	Milestones   prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		Sessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hydroplant_sessions_total",
				Help: "Connect attempts by path and outcome",
			},
			[]string{"path", "outcome"},
		),
		Syncs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hydroplant_syncs_total",
				Help: "State synchronization rounds by outcome",
			},
			[]string{"outcome"},
		),
		Transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hydroplant_transactions_total",
				Help: "Water transactions by outcome",
			},
			[]string{"outcome"},
		),
		Confirmation: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hydroplant_transaction_duration_seconds",
				Help:    "Time from submission to receipt",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30, 60},
			},
		),
		Stage: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "hydroplant_stage",
				Help: "Growth stage of the last snapshot",
			},
		),
		Milestones: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "hydroplant_milestones_total",
				Help: "Bloom milestones reached",
			},
		),
	}

	for _, col := range []prometheus.Collector{c.Sessions, c.Syncs, c.Transactions, c.Confirmation, c.Stage, c.Milestones} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Hooks returns lifecycle hooks feeding the collectors.
func (c *Collectors) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnConnect: func(ctx context.Context, e *domain.SessionEvent) {
			c.Sessions.WithLabelValues(string(e.Path), outcome(e.Err)).Inc()
		},
		OnSync: func(ctx context.Context, e *domain.SyncEvent) {
			c.Syncs.WithLabelValues(outcome(e.Err)).Inc()
			if e.Err == nil {
				c.Stage.Set(float64(e.Snapshot.Stage))
			}
		},
		OnTransaction: func(ctx context.Context, e *domain.TxEvent) {
			c.Transactions.WithLabelValues(outcome(e.Err)).Inc()
			if e.Err == nil {
				c.Confirmation.Observe(e.Duration.Seconds())
			}
		},
		OnMilestone: func(ctx context.Context, s domain.Snapshot) {
			c.Milestones.Inc()
		},
	}
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
