// Package metrics exposes the machine's sales, stock and cash as Prometheus
// collectors on a per-machine registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coffeemachine/pkg/supply"
)

// Recorder owns one Prometheus registry per machine so several machines
// (or tests) never collide on registration.
type Recorder struct {
	registry *prometheus.Registry

	saleAttempts      *prometheus.CounterVec
	supplyLevel       *prometheus.GaugeVec
	cashBalance       prometheus.Gauge
	coffeesSinceClean prometheus.Gauge
	cashWithdrawn     prometheus.Counter
	cleanings         prometheus.Counter
}

// New creates and registers the machine collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		saleAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "coffeemachine",
				Subsystem: "sales",
				Name:      "attempts_total",
				Help:      "Sale attempts by recipe and outcome.",
			},
			[]string{"recipe", "outcome"},
		),
		supplyLevel: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "coffeemachine",
				Subsystem: "supply",
				Name:      "level",
				Help:      "Current stock per consumable.",
			},
			[]string{"resource"},
		),
		cashBalance: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "coffeemachine",
				Subsystem: "cash",
				Name:      "balance_dollars",
				Help:      "Money currently held by the machine.",
			},
		),
		coffeesSinceClean: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "coffeemachine",
				Name:      "coffees_since_clean",
				Help:      "Drinks made since the last cleaning.",
			},
		),
		cashWithdrawn: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "coffeemachine",
				Subsystem: "cash",
				Name:      "withdrawn_dollars_total",
				Help:      "Money handed over by take operations.",
			},
		),
		cleanings: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "coffeemachine",
				Name:      "cleanings_total",
				Help:      "Number of cleaning cycles.",
			},
		),
	}
	r.registry.MustRegister(
		r.saleAttempts,
		r.supplyLevel,
		r.cashBalance,
		r.coffeesSinceClean,
		r.cashWithdrawn,
		r.cleanings,
	)
	return r
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveSale counts one sale attempt.
func (r *Recorder) ObserveSale(recipe, outcome string) {
	r.saleAttempts.WithLabelValues(recipe, outcome).Inc()
}

// ObserveWithdrawal adds a take amount.
func (r *Recorder) ObserveWithdrawal(amount int) {
	r.cashWithdrawn.Add(float64(amount))
}

// ObserveCleaning counts one cleaning.
func (r *Recorder) ObserveCleaning() {
	r.cleanings.Inc()
}

// SetState refreshes every gauge from a machine snapshot.
func (r *Recorder) SetState(levels supply.Levels, balance, coffeesSinceClean int) {
	for _, res := range supply.Resources {
		r.supplyLevel.WithLabelValues(res.String()).Set(float64(levels.Of(res)))
	}
	r.cashBalance.Set(float64(balance))
	r.coffeesSinceClean.Set(float64(coffeesSinceClean))
}
