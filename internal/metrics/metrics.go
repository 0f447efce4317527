// Package metrics defines the Prometheus collectors for region sweeps.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for RegionOutcomes.
const (
	OutcomeFull        = "full"
	OutcomeDisplayOnly = "display_only"
	OutcomeNoPrice     = "no_price"
	OutcomeFetchError  = "fetch_error"
)

type Metrics struct {
	RegionOutcomes *prometheus.CounterVec
	RegionDuration *prometheus.HistogramVec
	RegionsActive  prometheus.Gauge
	RateFetches    *prometheus.CounterVec
	Runs           *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// the binary and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RegionOutcomes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "regionprice_region_outcomes_total",
				Help: "Per-region extraction outcomes",
			},
			[]string{"outcome"},
		),
		RegionDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "regionprice_region_duration_seconds",
				Help:    "Time to fetch and extract one region",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		RegionsActive: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "regionprice_regions_in_flight",
				Help: "Region fetches currently in flight",
			},
		),
		RateFetches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "regionprice_rate_fetches_total",
				Help: "Exchange rate table fetches",
			},
			[]string{"result"},
		),
		Runs: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "regionprice_runs_total",
				Help: "Comparison runs by result",
			},
			[]string{"result"},
		),
	}
}

// Nop returns collectors registered nowhere.
func Nop() *Metrics { return New(prometheus.NewRegistry()) }
