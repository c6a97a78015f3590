// Package service implements the cursor-based ingestion worker that tails
// tracked feeds from an EVM provider into the durable event store.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tokenpulse/tokenpulse-backend/internal/clock"
	evmrpc "github.com/tokenpulse/tokenpulse-backend/internal/evm/rpc"
	"github.com/tokenpulse/tokenpulse-backend/internal/metrics"
	"github.com/tokenpulse/tokenpulse-backend/internal/model"
	"github.com/tokenpulse/tokenpulse-backend/pkg/singleflight"
)

var (
	// ErrIngestionDisabled is returned when a cycle starts while runtime
	// control forbids ingestion; the polling loop stops on it.
	ErrIngestionDisabled = errors.New("ingestion disabled")
	// ErrKillSwitchTripped is returned when the threshold check trips the
	// kill switch at the top of a cycle; the polling loop stops on it.
	ErrKillSwitchTripped = errors.New("kill switch tripped")
)

// Config tunes the tailing worker.
type Config struct {
	// Confirmations is the depth subtracted from the chain head; blocks above
	// safeHead = head - Confirmations are never processed.
	Confirmations uint64
	// Rewind is the number of already-processed blocks re-fetched every cycle
	// to tolerate short reorganizations.
	Rewind uint64
	// BackfillWindow is how far below safeHead a brand-new feed starts.
	BackfillWindow uint64
	// InitialRange seeds the adaptive per-feed range hint.
	InitialRange uint64
	MinRange     uint64
	MaxRange     uint64
	// RangeGrowth is the multiplicative factor applied to a working range
	// after a successful fetch. The range adapts upward slowly and downward
	// fast (halving on provider rejection).
	RangeGrowth       float64
	MaxShrinkAttempts int
	// TailThreshold is the block distance to safeHead below which a feed
	// transitions from bootstrap to tail mode.
	TailThreshold uint64
}

// DefaultConfig returns the production worker tuning.
func DefaultConfig() Config {
	return Config{
		Confirmations:     12,
		Rewind:            6,
		BackfillWindow:    50_000,
		InitialRange:      2_000,
		MinRange:          64,
		MaxRange:          10_000,
		RangeGrowth:       1.1,
		MaxShrinkAttempts: 8,
		TailThreshold:     64,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Confirmations == 0 {
		c.Confirmations = d.Confirmations
	}
	if c.Rewind == 0 {
		c.Rewind = d.Rewind
	}
	if c.BackfillWindow == 0 {
		c.BackfillWindow = d.BackfillWindow
	}
	if c.InitialRange == 0 {
		c.InitialRange = d.InitialRange
	}
	if c.MinRange == 0 {
		c.MinRange = d.MinRange
	}
	if c.MaxRange == 0 {
		c.MaxRange = d.MaxRange
	}
	if c.RangeGrowth <= 1 {
		c.RangeGrowth = d.RangeGrowth
	}
	if c.MaxShrinkAttempts == 0 {
		c.MaxShrinkAttempts = d.MaxShrinkAttempts
	}
	if c.TailThreshold == 0 {
		c.TailThreshold = d.TailThreshold
	}
	return c
}

// TailIngesterService runs the periodic ingestion cycle over the tracked
// feeds. At most one cycle executes at any time, enforced by a single-slot
// guard rather than the polling interval.
type TailIngesterService struct {
	repo     Repository
	provider Provider
	control  Control
	logger   *zap.Logger
	cfg      Config
	feeds    []model.Feed
	guard    *singleflight.Guard
	metrics  *metrics.TailIngester
}

// NewTailIngesterService builds the worker for a fixed set of feeds.
func NewTailIngesterService(
	repo Repository,
	provider Provider,
	control Control,
	feeds []model.Feed,
	cfg Config,
	logger *zap.Logger,
) (*TailIngesterService, error) {
	if len(feeds) == 0 {
		return nil, errors.New("at least one feed is required")
	}

	return &TailIngesterService{
		repo:     repo,
		provider: provider,
		control:  control,
		logger:   logger,
		cfg:      cfg.withDefaults(),
		feeds:    feeds,
		guard:    singleflight.NewGuard(),
		metrics:  metrics.NewTailIngester(),
	}, nil
}

// RunLoop polls RunCycle at the given interval until the context is canceled,
// ingestion is disabled, or the kill switch trips.
func (s *TailIngesterService) RunLoop(ctx context.Context, interval time.Duration) error {
	for {
		enabled, err := s.control.IsEnabled(ctx)
		switch {
		case err != nil:
			s.logger.Error("runtime state unavailable, skipping tick", zap.Error(err))
		case !enabled:
			s.logger.Info("ingestion disabled, stopping loop")
			return nil
		default:
			m, err := s.RunCycle(ctx)
			switch {
			case errors.Is(err, singleflight.ErrBusy):
				s.metrics.IncSkippedTick()
				s.logger.Warn("previous cycle still running, tick skipped")
			case errors.Is(err, ErrIngestionDisabled):
				s.logger.Info("ingestion disabled, stopping loop")
				return nil
			case errors.Is(err, ErrKillSwitchTripped):
				s.logger.Error("kill switch tripped, stopping loop")
				return nil
			case err != nil:
				s.logger.Error("cycle failed", zap.Error(err))
			default:
				s.logger.Info("cycle complete",
					zap.Uint64("inserted", m.Inserted),
					zap.Uint64("duplicates", m.Duplicates),
					zap.Uint64("errors", m.Errors),
					zap.Uint64("last_block", m.LastBlock))
			}
		}

		if err := clock.SleepWithContext(ctx, interval); err != nil {
			return err
		}
	}
}

// RunCycle executes a single ingestion cycle under the single-flight guard.
// Returns singleflight.ErrBusy when a cycle is already in flight.
func (s *TailIngesterService) RunCycle(ctx context.Context) (model.CycleMetrics, error) {
	if !s.guard.TryAcquire() {
		return model.CycleMetrics{}, singleflight.ErrBusy
	}
	defer s.guard.Release()

	started := time.Now()
	m, err := s.cycle(ctx)
	s.metrics.ObserveCycle(err, started)
	return m, err
}

func (s *TailIngesterService) cycle(ctx context.Context) (model.CycleMetrics, error) {
	enabled, err := s.control.IsEnabled(ctx)
	if err != nil {
		return model.CycleMetrics{}, fmt.Errorf("check enabled: %w", err)
	}
	if !enabled {
		return model.CycleMetrics{}, ErrIngestionDisabled
	}

	verdict, err := s.control.EvaluateThresholds(ctx)
	if err != nil {
		return model.CycleMetrics{}, fmt.Errorf("check thresholds: %w", err)
	}
	if verdict.ShouldKill {
		if err := s.control.TriggerKillSwitch(ctx, verdict.Reason); err != nil {
			return model.CycleMetrics{}, fmt.Errorf("trigger kill switch: %w", err)
		}
		return model.CycleMetrics{}, ErrKillSwitchTripped
	}

	cycleMetrics := model.CycleMetrics{Provider: s.provider.Active()}

	head, err := s.provider.BlockNumber(ctx)
	if err != nil {
		cycleMetrics.Errors++
		if pubErr := s.control.PublishCycleMetrics(ctx, cycleMetrics); pubErr != nil {
			s.logger.Error("publish cycle metrics failed", zap.Error(pubErr))
		}
		return cycleMetrics, fmt.Errorf("fetch chain head: %w", err)
	}
	if head <= s.cfg.Confirmations {
		if err := s.control.PublishCycleMetrics(ctx, cycleMetrics); err != nil {
			return cycleMetrics, fmt.Errorf("publish cycle metrics: %w", err)
		}
		return cycleMetrics, nil
	}
	safeHead := head - s.cfg.Confirmations

	for i, feed := range s.feeds {
		if err := ctx.Err(); err != nil {
			return cycleMetrics, err
		}
		// The kill switch is cooperative: a trip mid-cycle lets the current
		// feed finish but no further feed starts.
		if i > 0 {
			enabled, err := s.control.IsEnabled(ctx)
			if err != nil {
				return cycleMetrics, fmt.Errorf("check enabled: %w", err)
			}
			if !enabled {
				s.logger.Warn("ingestion disabled mid-cycle, remaining feeds skipped",
					zap.Int("remaining", len(s.feeds)-i))
				break
			}
		}

		res, err := s.processFeed(ctx, feed, safeHead)
		if err != nil {
			cycleMetrics.Errors++
			s.logger.Error("feed failed",
				zap.Uint64("chain_id", feed.ChainID),
				zap.String("address", feed.Address),
				zap.Error(err))
			continue
		}

		cycleMetrics.Inserted += uint64(res.inserted)
		cycleMetrics.Duplicates += uint64(res.duplicates)
		if res.reached > cycleMetrics.LastBlock {
			cycleMetrics.LastBlock = res.reached
		}
	}

	cycleMetrics.Provider = s.provider.Active()
	if err := s.control.PublishCycleMetrics(ctx, cycleMetrics); err != nil {
		return cycleMetrics, fmt.Errorf("publish cycle metrics: %w", err)
	}

	return cycleMetrics, nil
}

type feedResult struct {
	inserted   int
	duplicates int
	reached    uint64
	caughtUp   bool
}

func (s *TailIngesterService) processFeed(ctx context.Context, feed model.Feed, safeHead uint64) (feedResult, error) {
	cursor, found, err := s.repo.IngestCursor(ctx, feed.ChainID, feed.Address)
	if err != nil {
		return feedResult{}, fmt.Errorf("read cursor: %w", err)
	}
	if !found {
		cursor = s.bootstrapCursor(feed, safeHead)
		if err := s.repo.UpsertIngestCursor(ctx, cursor); err != nil {
			return feedResult{}, fmt.Errorf("init cursor: %w", err)
		}
		s.logger.Info("cursor initialized",
			zap.Uint64("chain_id", feed.ChainID),
			zap.String("address", feed.Address),
			zap.Uint64("start_block", cursor.LastProcessedBlock))
	}

	if cursor.LastProcessedBlock >= safeHead {
		return feedResult{reached: cursor.LastProcessedBlock, caughtUp: true}, nil
	}

	from := uint64(0)
	if cursor.LastProcessedBlock > s.cfg.Rewind {
		from = cursor.LastProcessedBlock - s.cfg.Rewind
	}

	span := cursor.RangeHint
	if span < s.cfg.MinRange {
		span = s.cfg.MinRange
	}
	if span > s.cfg.MaxRange {
		span = s.cfg.MaxRange
	}

	events, to, usedSpan, err := s.fetchAdaptive(ctx, feed, from, span, safeHead)
	if err != nil {
		return feedResult{}, err
	}

	inserted, duplicates, err := s.storeEvents(ctx, feed, events, from, to)
	if err != nil {
		return feedResult{}, err
	}

	blockTime, err := s.provider.HeaderTime(ctx, to)
	if err != nil {
		return feedResult{}, fmt.Errorf("block %d timestamp: %w", to, err)
	}

	// Advance to the block actually reached, never backward and never past
	// the safe head observed at the top of the cycle.
	if to > cursor.LastProcessedBlock {
		cursor.LastProcessedBlock = to
		cursor.LastBlockTime = blockTime
	}
	cursor.RangeHint = s.grownHint(usedSpan)
	cursor.Provider = s.provider.Active()
	cursor.Mode = model.CursorBootstrap
	if safeHead-cursor.LastProcessedBlock <= s.cfg.TailThreshold {
		cursor.Mode = model.CursorTail
	}

	if err := s.repo.UpsertIngestCursor(ctx, cursor); err != nil {
		return feedResult{}, fmt.Errorf("advance cursor: %w", err)
	}

	s.metrics.ObserveFeed(feed.Address, inserted, duplicates)
	s.metrics.SetRangeHint(feed.Address, cursor.RangeHint)

	return feedResult{
		inserted:   inserted,
		duplicates: duplicates,
		reached:    cursor.LastProcessedBlock,
		caughtUp:   cursor.LastProcessedBlock >= safeHead,
	}, nil
}

func (s *TailIngesterService) bootstrapCursor(feed model.Feed, safeHead uint64) model.Cursor {
	start := uint64(0)
	if safeHead > s.cfg.BackfillWindow {
		start = safeHead - s.cfg.BackfillWindow
	}
	return model.Cursor{
		ChainID:            feed.ChainID,
		Address:            feed.Address,
		LastProcessedBlock: start,
		RangeHint:          s.cfg.InitialRange,
		Mode:               model.CursorBootstrap,
		Provider:           s.provider.Active(),
	}
}

// fetchAdaptive requests logs for [from, from+span-1], halving the span on a
// range-too-large rejection until the provider accepts it or the floor is
// reached. Any other error aborts the feed for this cycle.
func (s *TailIngesterService) fetchAdaptive(
	ctx context.Context,
	feed model.Feed,
	from, span, safeHead uint64,
) ([]model.TransferEvent, uint64, uint64, error) {
	for attempt := 0; attempt < s.cfg.MaxShrinkAttempts; attempt++ {
		to := from + span - 1
		if to > safeHead {
			to = safeHead
			span = to - from + 1
		}

		events, err := s.provider.TransferLogs(ctx, feed, from, to)
		if err == nil {
			return events, to, span, nil
		}
		if !errors.Is(err, evmrpc.ErrRangeTooLarge) {
			return nil, 0, 0, fmt.Errorf("fetch logs [%d, %d]: %w", from, to, err)
		}
		if span <= s.cfg.MinRange {
			return nil, 0, 0, fmt.Errorf("range floor %d still rejected: %w", s.cfg.MinRange, err)
		}

		span /= 2
		if span < s.cfg.MinRange {
			span = s.cfg.MinRange
		}
		s.logger.Debug("range too large, shrinking",
			zap.String("address", feed.Address),
			zap.Uint64("span", span))
	}

	return nil, 0, 0, fmt.Errorf("range shrink attempts exhausted for feed %s", feed.Address)
}

// storeEvents resolves block timestamps and inserts only events whose
// uniqueness tuple is not yet stored. Re-seen tuples are counted as
// duplicates, never treated as errors.
func (s *TailIngesterService) storeEvents(
	ctx context.Context,
	feed model.Feed,
	events []model.TransferEvent,
	from, to uint64,
) (int, int, error) {
	if len(events) == 0 {
		return 0, 0, nil
	}

	existing, err := s.repo.TransferEventKeys(ctx, feed.ChainID, feed.Address, from, to)
	if err != nil {
		return 0, 0, fmt.Errorf("lookup existing events: %w", err)
	}

	blockTimes := make(map[uint64]time.Time)
	now := time.Now().UTC()
	fresh := make([]model.TransferEvent, 0, len(events))
	duplicates := 0

	for _, event := range events {
		if _, ok := existing[event.Key()]; ok {
			duplicates++
			continue
		}

		ts, ok := blockTimes[event.BlockNumber]
		if !ok {
			ts, err = s.provider.HeaderTime(ctx, event.BlockNumber)
			if err != nil {
				return 0, 0, fmt.Errorf("block %d timestamp: %w", event.BlockNumber, err)
			}
			blockTimes[event.BlockNumber] = ts
		}

		event.BlockTime = ts
		event.IngestedAt = now
		fresh = append(fresh, event)
	}

	if len(fresh) > 0 {
		if err := s.repo.InsertTransferEvents(ctx, fresh); err != nil {
			return 0, 0, fmt.Errorf("insert events: %w", err)
		}
	}

	return len(fresh), duplicates, nil
}

// grownHint applies the slow multiplicative growth to a working span.
func (s *TailIngesterService) grownHint(usedSpan uint64) uint64 {
	hint := uint64(float64(usedSpan) * s.cfg.RangeGrowth)
	if hint <= usedSpan {
		hint = usedSpan + 1
	}
	if hint > s.cfg.MaxRange {
		hint = s.cfg.MaxRange
	}
	if hint < s.cfg.MinRange {
		hint = s.cfg.MinRange
	}
	return hint
}

// ForceBackfill drops the feed's cursor and reprocesses the configured
// backfill window until the feed catches up to the safe head. Intended for
// newly added feeds and operational recovery.
func (s *TailIngesterService) ForceBackfill(ctx context.Context, feed model.Feed) error {
	if !s.guard.TryAcquire() {
		return singleflight.ErrBusy
	}
	defer s.guard.Release()

	if err := s.repo.DeleteIngestCursor(ctx, feed.ChainID, feed.Address); err != nil {
		return fmt.Errorf("reset cursor: %w", err)
	}
	s.logger.Info("cursor dropped for forced backfill",
		zap.Uint64("chain_id", feed.ChainID),
		zap.String("address", feed.Address))

	total := model.CycleMetrics{Provider: s.provider.Active()}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		enabled, err := s.control.IsEnabled(ctx)
		if err != nil {
			return fmt.Errorf("check enabled: %w", err)
		}
		if !enabled {
			return ErrIngestionDisabled
		}

		head, err := s.provider.BlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("fetch chain head: %w", err)
		}
		if head <= s.cfg.Confirmations {
			break
		}
		safeHead := head - s.cfg.Confirmations

		res, err := s.processFeed(ctx, feed, safeHead)
		if err != nil {
			return err
		}
		total.Inserted += uint64(res.inserted)
		total.Duplicates += uint64(res.duplicates)
		if res.reached > total.LastBlock {
			total.LastBlock = res.reached
		}

		if res.caughtUp {
			break
		}
	}

	if err := s.control.PublishCycleMetrics(ctx, total); err != nil {
		return fmt.Errorf("publish cycle metrics: %w", err)
	}

	s.logger.Info("forced backfill complete",
		zap.String("address", feed.Address),
		zap.Uint64("inserted", total.Inserted),
		zap.Uint64("duplicates", total.Duplicates))
	return nil
}
