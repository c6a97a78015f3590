package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	evmRPCRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tokenpulse",
		Subsystem: "rpc_client",
		Name:      "operations_total",
		Help:      "Count of node RPC operations.",
	}, []string{"endpoint", "operation", "status"})
	evmRPCRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tokenpulse",
		Subsystem: "rpc_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of node RPC operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "operation", "status"})
	evmRPCFailoversTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tokenpulse",
		Subsystem: "rpc_client",
		Name:      "failovers_total",
		Help:      "Count of switches to a fallback provider endpoint.",
	}, []string{"from", "to"})
)

// RPCClient tracks metrics for RPC calls to EVM provider endpoints.
type RPCClient struct{}

// NewRPCClient constructs a metrics collector for RPC calls.
func NewRPCClient() *RPCClient {
	return &RPCClient{}
}

// Observe records a single RPC call outcome and duration.
func (m RPCClient) Observe(endpoint, operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	evmRPCRequestsTotal.WithLabelValues(endpoint, operation, status).Inc()
	evmRPCRequestDuration.WithLabelValues(endpoint, operation, status).Observe(time.Since(started).Seconds())
}

// ObserveFailover records a switch from one provider endpoint to another.
func (m RPCClient) ObserveFailover(from, to string) {
	evmRPCFailoversTotal.WithLabelValues(from, to).Inc()
}
