// Package metrics exposes Prometheus instrumentation for the staffing
// engine: run throughput, proposal outcomes, and commit results.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the engine's Prometheus metrics.
type Collector struct {
	runsTotal          prometheus.Counter
	runDuration        prometheus.Histogram
	proposalsScheduled prometheus.Counter
	proposalsFailed    prometheus.Counter
	commitsTotal       prometheus.Counter
	commitFailures     prometheus.Counter
}

// NewCollector creates and registers the engine metrics. A nil registerer
// falls back to the default registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		runsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "staffing_runs_total",
			Help: "Total number of completed wave passes",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "staffing_run_duration_seconds",
			Help:    "Wall time of one full wave pass",
			Buckets: prometheus.DefBuckets,
		}),
		proposalsScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "staffing_proposals_scheduled_total",
			Help: "Total proposals emitted with an assignment",
		}),
		proposalsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "staffing_proposals_failed_total",
			Help: "Total proposals emitted with a failure reason",
		}),
		commitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "staffing_commits_total",
			Help: "Total proposals committed to schedules",
		}),
		commitFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "staffing_commit_failures_total",
			Help: "Total commit transactions rolled back",
		}),
	}

	reg.MustRegister(c.runsTotal, c.runDuration,
		c.proposalsScheduled, c.proposalsFailed,
		c.commitsTotal, c.commitFailures)
	return c
}

// ObserveRun records one completed wave pass.
func (c *Collector) ObserveRun(d time.Duration, scheduled, failed int) {
	if c == nil {
		return
	}
	c.runsTotal.Inc()
	c.runDuration.Observe(d.Seconds())
	c.proposalsScheduled.Add(float64(scheduled))
	c.proposalsFailed.Add(float64(failed))
}

// ObserveCommit records committed proposals.
func (c *Collector) ObserveCommit(count int) {
	if c == nil {
		return
	}
	c.commitsTotal.Add(float64(count))
}

// ObserveCommitFailure records a rolled-back commit transaction.
func (c *Collector) ObserveCommitFailure() {
	if c == nil {
		return
	}
	c.commitFailures.Inc()
}
