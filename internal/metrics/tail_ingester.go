package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tailCyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tokenpulse",
		Subsystem: "tail_ingester",
		Name:      "cycles_total",
		Help:      "Count of executed ingestion cycles.",
	}, []string{"status"})
	tailCycleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tokenpulse",
		Subsystem: "tail_ingester",
		Name:      "cycle_duration_seconds",
		Help:      "Duration of a full ingestion cycle.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"status"})
	tailEventsInserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tokenpulse",
		Subsystem: "tail_ingester",
		Name:      "events_inserted_total",
		Help:      "Count of transfer events stored per feed.",
	}, []string{"address"})
	tailEventsDuplicate = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tokenpulse",
		Subsystem: "tail_ingester",
		Name:      "events_duplicate_total",
		Help:      "Count of already-stored events re-seen per feed.",
	}, []string{"address"})
	tailRangeHint = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "tokenpulse",
		Subsystem: "tail_ingester",
		Name:      "range_hint_blocks",
		Help:      "Current adaptive fetch range per feed.",
	}, []string{"address"})
	tailSkippedTicks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tokenpulse",
		Subsystem: "tail_ingester",
		Name:      "skipped_ticks_total",
		Help:      "Count of poll ticks skipped because a cycle was in flight.",
	})
)

// TailIngester tracks metrics for the tailing ingestion worker.
type TailIngester struct{}

// NewTailIngester constructs a TailIngester metrics collector.
func NewTailIngester() *TailIngester {
	return &TailIngester{}
}

// ObserveCycle records outcome and duration of a full ingestion cycle.
func (m TailIngester) ObserveCycle(err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	tailCyclesTotal.WithLabelValues(status).Inc()
	tailCycleDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}

// ObserveFeed records insert and duplicate counts for one feed pass.
func (m TailIngester) ObserveFeed(address string, inserted, duplicates int) {
	tailEventsInserted.WithLabelValues(address).Add(float64(inserted))
	tailEventsDuplicate.WithLabelValues(address).Add(float64(duplicates))
}

// SetRangeHint publishes the current adaptive range for a feed.
func (m TailIngester) SetRangeHint(address string, hint uint64) {
	tailRangeHint.WithLabelValues(address).Set(float64(hint))
}

// IncSkippedTick records a poll tick dropped by the single-flight guard.
func (m TailIngester) IncSkippedTick() {
	tailSkippedTicks.Inc()
}
