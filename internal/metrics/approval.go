package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	approvalWindowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tokenpulse",
		Subsystem: "approval",
		Name:      "windows_total",
		Help:      "Count of evaluated aggregate windows by verdict.",
	}, []string{"status"})
	approvalWindowsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tokenpulse",
		Subsystem: "approval",
		Name:      "windows_skipped_total",
		Help:      "Count of windows skipped because a fact already existed.",
	})
	approvalBatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tokenpulse",
		Subsystem: "approval",
		Name:      "batches_total",
		Help:      "Count of per-pair approval batches.",
	}, []string{"status"})
	approvalBatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tokenpulse",
		Subsystem: "approval",
		Name:      "batch_duration_seconds",
		Help:      "Duration of a per-pair approval batch.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})
)

// Approval tracks metrics for the window approval driver.
type Approval struct{}

// NewApproval constructs an Approval metrics collector.
func NewApproval() *Approval {
	return &Approval{}
}

// ObserveWindow records the verdict assigned to one aggregate window.
func (m Approval) ObserveWindow(status string) {
	approvalWindowsTotal.WithLabelValues(status).Inc()
}

// IncSkippedWindow records a window short-circuited by an existing fact.
func (m Approval) IncSkippedWindow() {
	approvalWindowsSkipped.Inc()
}

// ObserveBatch records outcome and duration of one token/window-size batch.
func (m Approval) ObserveBatch(err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	approvalBatchesTotal.WithLabelValues(status).Inc()
	approvalBatchDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}
