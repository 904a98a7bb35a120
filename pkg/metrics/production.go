package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ProductionMetrics records launch and completion activity.
type ProductionMetrics struct {
	launchDuration prometheus.Histogram
	launchSuccess  prometheus.Counter
	launchFailure  prometheus.Counter
	itemsLaunched  prometheus.Counter
	itemsProduced  prometheus.Counter
}

// NewProductionMetrics registers the production metrics on the provided
// registerer. A nil registerer yields a no-op instance, which tests use.
func NewProductionMetrics(reg prometheus.Registerer) *ProductionMetrics {
	if reg == nil {
		return &ProductionMetrics{}
	}
	launchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "launch_duration_seconds",
		Help:    "Duration of production launches in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	launchSuccess := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "launch_success_total",
		Help: "Production launches that moved every staged item.",
	})
	launchFailure := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "launch_failure_total",
		Help: "Production launches that failed or moved only part of the cart.",
	})
	itemsLaunched := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "items_launched_total",
		Help: "Items moved from the cart into production batches.",
	})
	itemsProduced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "items_produced_total",
		Help: "Batch items marked as produced.",
	})
	reg.MustRegister(launchDuration, launchSuccess, launchFailure, itemsLaunched, itemsProduced)
	return &ProductionMetrics{
		launchDuration: launchDuration,
		launchSuccess:  launchSuccess,
		launchFailure:  launchFailure,
		itemsLaunched:  itemsLaunched,
		itemsProduced:  itemsProduced,
	}
}

// ObserveLaunchDuration records how long a launch took.
func (p *ProductionMetrics) ObserveLaunchDuration(duration time.Duration) {
	if p == nil || p.launchDuration == nil {
		return
	}
	p.launchDuration.Observe(duration.Seconds())
}

// IncLaunchSuccess increments the successful launch counter.
func (p *ProductionMetrics) IncLaunchSuccess() {
	if p == nil || p.launchSuccess == nil {
		return
	}
	p.launchSuccess.Inc()
}

// IncLaunchFailure increments the failed launch counter.
func (p *ProductionMetrics) IncLaunchFailure() {
	if p == nil || p.launchFailure == nil {
		return
	}
	p.launchFailure.Inc()
}

// AddItemsLaunched counts items moved into a batch.
func (p *ProductionMetrics) AddItemsLaunched(count int) {
	if p == nil || p.itemsLaunched == nil || count <= 0 {
		return
	}
	p.itemsLaunched.Add(float64(count))
}

// IncItemsProduced counts a batch item flipped to done.
func (p *ProductionMetrics) IncItemsProduced() {
	if p == nil || p.itemsProduced == nil {
		return
	}
	p.itemsProduced.Inc()
}
