package approval

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/tokenpulse/tokenpulse-backend/internal/clock"
	"github.com/tokenpulse/tokenpulse-backend/internal/metrics"
	"github.com/tokenpulse/tokenpulse-backend/internal/model"
	"github.com/tokenpulse/tokenpulse-backend/pkg/singleflight"
	"github.com/tokenpulse/tokenpulse-backend/pkg/workerpool"
)

// Config tunes the batch driver.
type Config struct {
	// Workers bounds concurrent (token, window size) streams per pass.
	// Streams are independent; windows within one stream stay sequential.
	Workers int
	// BatchLimit caps windows consumed per stream per pass.
	BatchLimit int
}

func (c Config) withDefaults() Config {
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.BatchLimit == 0 {
		c.BatchLimit = 500
	}
	return c
}

// BatchDriver consumes window aggregates in chronological order per stream
// and emits one immutable fact per window. Aggregates are read-only to the
// driver; re-runs over already-processed windows are no-ops.
type BatchDriver struct {
	repo    Repository
	logger  *zap.Logger
	cfg     Config
	guard   *singleflight.Guard
	metrics *metrics.Approval
	now     func() time.Time
}

// NewBatchDriver builds the approval batch driver.
func NewBatchDriver(repo Repository, cfg Config, logger *zap.Logger) *BatchDriver {
	return &BatchDriver{
		repo:    repo,
		logger:  logger,
		cfg:     cfg.withDefaults(),
		guard:   singleflight.NewGuard(),
		metrics: metrics.NewApproval(),
		now:     time.Now,
	}
}

// RunLoop runs approval passes at the given interval until the context is
// canceled.
func (d *BatchDriver) RunLoop(ctx context.Context, interval time.Duration) error {
	for {
		if err := d.ProcessAll(ctx); err != nil && !errors.Is(err, singleflight.ErrBusy) {
			d.logger.Error("approval pass failed", zap.Error(err))
		}

		if err := clock.SleepWithContext(ctx, interval); err != nil {
			return err
		}
	}
}

// ProcessAll discovers every (token, window size) stream and processes them
// concurrently under the single-flight guard. One stream's failure never
// blocks another.
func (d *BatchDriver) ProcessAll(ctx context.Context) error {
	if !d.guard.TryAcquire() {
		return singleflight.ErrBusy
	}
	defer d.guard.Release()

	pairs, err := d.repo.TokenWindowPairs(ctx)
	if err != nil {
		return fmt.Errorf("discover approval streams: %w", err)
	}
	if len(pairs) == 0 {
		return nil
	}

	var failed atomic.Int64
	err = workerpool.Process(ctx, d.cfg.Workers, pairs, func(ctx context.Context, pair model.TokenWindow) error {
		if err := d.ProcessToken(ctx, pair.Token, pair.WindowSize); err != nil {
			failed.Add(1)
			d.logger.Error("approval stream failed",
				zap.String("token", pair.Token),
				zap.Uint32("window_size", pair.WindowSize),
				zap.Error(err))
		}
		return nil
	})
	if err != nil {
		return err
	}

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d approval streams failed", n, len(pairs))
	}
	return nil
}

// ProcessToken consumes one stream's unprocessed windows: windows whose end
// strictly exceeds the stream cursor, oldest first, each scored against its
// true predecessor. The cursor advances past every processed window
// regardless of verdict — rejection is a terminal classification, not a
// retry signal.
func (d *BatchDriver) ProcessToken(ctx context.Context, token string, windowSize uint32) error {
	started := time.Now()
	err := d.processToken(ctx, token, windowSize)
	d.metrics.ObserveBatch(err, started)
	return err
}

func (d *BatchDriver) processToken(ctx context.Context, token string, windowSize uint32) error {
	cursor, _, err := d.repo.ApprovalCursor(ctx, token, windowSize)
	if err != nil {
		return fmt.Errorf("read approval cursor: %w", err)
	}

	windows, err := d.repo.WindowAggregatesAfter(ctx, token, windowSize, cursor.LastApprovedWindowEnd, d.cfg.BatchLimit)
	if err != nil {
		return fmt.Errorf("select window aggregates: %w", err)
	}
	if len(windows) == 0 {
		return nil
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].WindowStart.Before(windows[j].WindowStart)
	})

	// Continuity needs the window immediately preceding the batch, which by
	// definition sits at or below the cursor.
	previous, err := d.precedingWindow(ctx, token, windowSize, windows[0].WindowStart)
	if err != nil {
		return err
	}

	processed := 0
	var procErr error
	for i := range windows {
		window := windows[i]
		if err := ctx.Err(); err != nil {
			procErr = err
			break
		}
		if err := d.processWindow(ctx, window, previous); err != nil {
			procErr = err
			break
		}
		previous = &window
		processed++
	}

	if processed > 0 {
		next := model.ApprovalCursor{
			Token:                 token,
			WindowSize:            windowSize,
			LastApprovedWindowEnd: windows[processed-1].WindowEnd,
			UpdatedAt:             d.now().UTC(),
		}
		if err := d.repo.UpsertApprovalCursor(ctx, next); err != nil {
			return fmt.Errorf("advance approval cursor: %w", err)
		}
	}

	return procErr
}

func (d *BatchDriver) precedingWindow(ctx context.Context, token string, windowSize uint32, before time.Time) (*model.WindowAggregate, error) {
	prev, found, err := d.repo.WindowAggregateBefore(ctx, token, windowSize, before)
	if err != nil {
		return nil, fmt.Errorf("fetch preceding window: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &prev, nil
}

func (d *BatchDriver) processWindow(ctx context.Context, window model.WindowAggregate, previous *model.WindowAggregate) error {
	// A fact may already exist when a previous run advanced partway or a
	// concurrent trigger raced us; the re-check keeps facts unique.
	exists, err := d.repo.ApprovedFactExists(ctx, window.ChainID, window.Token, window.WindowSize, window.WindowStart)
	if err != nil {
		return fmt.Errorf("check fact existence: %w", err)
	}
	if exists {
		d.metrics.IncSkippedWindow()
		return nil
	}

	result := EvaluateWindow(window, previous)
	fact := factFromResult(window, result, d.now().UTC())
	if err := d.repo.InsertApprovedFact(ctx, fact); err != nil {
		return fmt.Errorf("insert approved fact: %w", err)
	}

	d.metrics.ObserveWindow(string(result.Status))
	if result.Status != model.StatusApproved {
		d.logger.Warn("window not approved",
			zap.String("token", window.Token),
			zap.Uint32("window_size", window.WindowSize),
			zap.Time("window_start", window.WindowStart),
			zap.String("status", string(result.Status)),
			zap.Int("score", result.Score))
	}
	return nil
}

func factFromResult(window model.WindowAggregate, result model.ApprovalResult, evaluatedAt time.Time) model.ApprovedFact {
	fact := model.ApprovedFact{
		ChainID:     window.ChainID,
		Token:       window.Token,
		WindowSize:  window.WindowSize,
		WindowStart: window.WindowStart,
		WindowEnd:   window.WindowEnd,
		Status:      result.Status,
		Score:       result.Score,
		EvaluatedAt: evaluatedAt,
	}
	for _, violation := range result.FailedRules {
		fact.FailedRules = append(fact.FailedRules, violation.Rule)
		fact.Reasons = append(fact.Reasons, violation.Reason)
	}
	return fact
}
