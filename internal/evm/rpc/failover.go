package rpc

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

type (
	// Endpoint is one dialed provider endpoint.
	Endpoint interface {
		Name() string
		BlockNumber(ctx context.Context) (uint64, error)
		HeaderTime(ctx context.Context, number uint64) (time.Time, error)
		TransferLogs(ctx context.Context, feed model.Feed, from, to uint64) ([]model.TransferEvent, error)
	}

	// Metrics observes provider calls and endpoint switches.
	Metrics interface {
		Observe(endpoint, operation string, err error, started time.Time)
		ObserveFailover(from, to string)
	}
)

// Failover fronts an ordered list of endpoints. Calls go to the active
// endpoint; when it is unreachable the facade switches to the next one and
// retries, and the switch is sticky for subsequent calls and cycles.
type Failover struct {
	endpoints []Endpoint
	metrics   Metrics
	logger    *zap.Logger

	mu     sync.Mutex
	active int
}

// NewFailover builds a Failover over at least one endpoint.
func NewFailover(endpoints []Endpoint, metrics Metrics, logger *zap.Logger) (*Failover, error) {
	if len(endpoints) == 0 {
		return nil, errors.New("at least one provider endpoint is required")
	}
	return &Failover{endpoints: endpoints, metrics: metrics, logger: logger}, nil
}

// Active returns the name of the endpoint currently serving calls.
func (f *Failover) Active() string {
	return f.current().Name()
}

// BlockNumber returns the current chain head from the active endpoint.
func (f *Failover) BlockNumber(ctx context.Context) (uint64, error) {
	var head uint64
	err := f.do(ctx, "block_number", func(e Endpoint) error {
		var callErr error
		head, callErr = e.BlockNumber(ctx)
		return callErr
	})
	return head, err
}

// HeaderTime returns the timestamp of the given block.
func (f *Failover) HeaderTime(ctx context.Context, number uint64) (time.Time, error) {
	var ts time.Time
	err := f.do(ctx, "header_time", func(e Endpoint) error {
		var callErr error
		ts, callErr = e.HeaderTime(ctx, number)
		return callErr
	})
	return ts, err
}

// TransferLogs fetches validated Transfer logs for one feed.
func (f *Failover) TransferLogs(ctx context.Context, feed model.Feed, from, to uint64) ([]model.TransferEvent, error) {
	var events []model.TransferEvent
	err := f.do(ctx, "get_logs", func(e Endpoint) error {
		var callErr error
		events, callErr = e.TransferLogs(ctx, feed, from, to)
		return callErr
	})
	return events, err
}

// do runs call against the active endpoint, classifying errors at this
// boundary. Unavailable endpoints trigger a sticky switch; every endpoint is
// tried at most once per call.
func (f *Failover) do(ctx context.Context, operation string, call func(Endpoint) error) error {
	var lastErr error

	for attempt := 0; attempt < len(f.endpoints); attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		endpoint := f.current()
		started := time.Now()
		err := call(endpoint)
		f.metrics.Observe(endpoint.Name(), operation, err, started)
		if err == nil {
			return nil
		}

		classified := Classify(err)
		if !errors.Is(classified, ErrUnavailable) {
			return classified
		}
		lastErr = classified

		next := f.advance()
		if next != endpoint.Name() {
			f.logger.Warn("provider unavailable, failing over",
				zap.String("from", endpoint.Name()),
				zap.String("to", next),
				zap.Error(err))
			f.metrics.ObserveFailover(endpoint.Name(), next)
		}
	}

	return lastErr
}

func (f *Failover) current() Endpoint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.endpoints[f.active]
}

func (f *Failover) advance() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = (f.active + 1) % len(f.endpoints)
	return f.endpoints[f.active].Name()
}
