// Package control owns the ingestion runtime state: the operator toggle, the
// environment override and the kill switch. It is the single source of truth
// for whether ingestion is allowed to run right now.
package control

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

var (
	// ErrBlockedByEnv is returned when enabling ingestion while the immutable
	// environment override disables it.
	ErrBlockedByEnv = errors.New("ingestion disabled by environment override")
	// ErrBlockedByKillSwitch is returned when enabling ingestion while the
	// kill switch is armed.
	ErrBlockedByKillSwitch = errors.New("ingestion blocked by armed kill switch")
)

const (
	defaultCacheTTL       = 5 * time.Second
	defaultMinSamples     = 100
	defaultMaxErrorRate   = 0.2
	defaultMaxDupRate     = 0.5
	countersRolloverAfter = 24 * time.Hour
)

// Config tunes the controller's read cache and safety thresholds.
type Config struct {
	CacheTTL         time.Duration
	MinSamples       uint64
	MaxErrorRate     float64
	MaxDuplicateRate float64
}

func (c Config) withDefaults() Config {
	if c.CacheTTL <= 0 {
		c.CacheTTL = defaultCacheTTL
	}
	if c.MinSamples == 0 {
		c.MinSamples = defaultMinSamples
	}
	if c.MaxErrorRate <= 0 {
		c.MaxErrorRate = defaultMaxErrorRate
	}
	if c.MaxDuplicateRate <= 0 {
		c.MaxDuplicateRate = defaultMaxDupRate
	}
	return c
}

// Controller mediates every read and write of the runtime state singleton.
// Reads go through a short-TTL cache; every write invalidates the cache
// synchronously, so staleness is bounded by the TTL.
type Controller struct {
	repo        Repository
	logger      *zap.Logger
	cfg         Config
	envDisabled bool
	now         func() time.Time

	mu        sync.Mutex
	cached    *model.RuntimeConfig
	fetchedAt time.Time
}

// NewController builds a Controller. envDisabled captures the immutable
// environment override at process start; no in-process call can clear it.
func NewController(repo Repository, envDisabled bool, cfg Config, logger *zap.Logger) *Controller {
	return &Controller{
		repo:        repo,
		logger:      logger,
		cfg:         cfg.withDefaults(),
		envDisabled: envDisabled,
		now:         time.Now,
	}
}

// IsEnabled reports whether ingestion is allowed to run right now.
// The environment override is checked first and unconditionally.
func (c *Controller) IsEnabled(ctx context.Context) (bool, error) {
	if c.envDisabled {
		return false, nil
	}

	cfg, err := c.load(ctx)
	if err != nil {
		return false, err
	}
	return cfg.Enabled && !cfg.KillSwitchArmed, nil
}

// Toggle applies the operator enable/disable action.
func (c *Controller) Toggle(ctx context.Context, enabled bool) error {
	cfg, err := c.fetch(ctx)
	if err != nil {
		return err
	}

	if enabled {
		if c.envDisabled {
			return ErrBlockedByEnv
		}
		if cfg.KillSwitchArmed {
			return ErrBlockedByKillSwitch
		}
		cfg.KillReason = ""
		if cfg.Mode == model.ModeOff {
			cfg.Mode = model.ModeActive
		}
	}
	cfg.Enabled = enabled

	if err := c.persist(ctx, cfg); err != nil {
		return err
	}

	c.logger.Info("ingestion toggled", zap.Bool("enabled", enabled))
	return nil
}

// TriggerKillSwitch forcibly disables ingestion. Idempotent; requires an
// explicit ResetKillSwitch before ingestion can be enabled again.
func (c *Controller) TriggerKillSwitch(ctx context.Context, reason string) error {
	cfg, err := c.fetch(ctx)
	if err != nil {
		return err
	}

	cfg.Enabled = false
	cfg.Mode = model.ModeOff
	cfg.KillSwitchArmed = true
	cfg.KillReason = reason

	if err := c.persist(ctx, cfg); err != nil {
		return err
	}

	c.logger.Error("kill switch triggered", zap.String("reason", reason))
	return nil
}

// ResetKillSwitch clears the armed kill switch. It does not re-enable
// ingestion; the operator must separately Toggle(true).
func (c *Controller) ResetKillSwitch(ctx context.Context) error {
	cfg, err := c.fetch(ctx)
	if err != nil {
		return err
	}

	cfg.KillSwitchArmed = false
	cfg.KillReason = ""

	if err := c.persist(ctx, cfg); err != nil {
		return err
	}

	c.logger.Warn("kill switch reset")
	return nil
}

// PublishCycleMetrics folds one cycle's counters into the rolling 24h window
// and records the last observed block, provider and run time.
func (c *Controller) PublishCycleMetrics(ctx context.Context, m model.CycleMetrics) error {
	cfg, err := c.fetch(ctx)
	if err != nil {
		return err
	}

	now := c.now()
	if now.Sub(cfg.CountersSince) >= countersRolloverAfter {
		cfg.EventsIngested = 0
		cfg.Duplicates = 0
		cfg.Errors = 0
		cfg.CountersSince = now
	}

	cfg.EventsIngested += m.Inserted
	cfg.Duplicates += m.Duplicates
	cfg.Errors += m.Errors
	if m.LastBlock > cfg.LastBlock {
		cfg.LastBlock = m.LastBlock
	}
	if m.Provider != "" {
		cfg.LastProvider = m.Provider
	}
	cfg.LastRun = now

	return c.persist(ctx, cfg)
}

// Status returns a fresh (uncached) copy of the runtime state.
func (c *Controller) Status(ctx context.Context) (model.RuntimeConfig, error) {
	return c.fetch(ctx)
}

// EvaluateThresholds applies CheckThresholds to the current rolling counters.
func (c *Controller) EvaluateThresholds(ctx context.Context) (ThresholdVerdict, error) {
	cfg, err := c.load(ctx)
	if err != nil {
		return ThresholdVerdict{}, err
	}
	return c.CheckThresholds(cfg.EventsIngested, cfg.Duplicates, cfg.Errors), nil
}

func (c *Controller) load(ctx context.Context) (model.RuntimeConfig, error) {
	c.mu.Lock()
	if c.cached != nil && c.now().Sub(c.fetchedAt) < c.cfg.CacheTTL {
		cfg := *c.cached
		c.mu.Unlock()
		return cfg, nil
	}
	c.mu.Unlock()

	cfg, err := c.fetch(ctx)
	if err != nil {
		return model.RuntimeConfig{}, err
	}

	c.mu.Lock()
	c.cached = &cfg
	c.fetchedAt = c.now()
	c.mu.Unlock()

	return cfg, nil
}

func (c *Controller) fetch(ctx context.Context) (model.RuntimeConfig, error) {
	cfg, found, err := c.repo.RuntimeConfig(ctx)
	if err != nil {
		return model.RuntimeConfig{}, fmt.Errorf("read runtime config: %w", err)
	}
	if !found {
		return model.RuntimeConfig{
			Enabled:       false,
			Mode:          model.ModeOff,
			CountersSince: c.now(),
		}, nil
	}
	return cfg, nil
}

func (c *Controller) persist(ctx context.Context, cfg model.RuntimeConfig) error {
	cfg.UpdatedAt = c.now()
	if err := c.repo.UpsertRuntimeConfig(ctx, cfg); err != nil {
		return fmt.Errorf("write runtime config: %w", err)
	}
	c.invalidate()
	return nil
}

func (c *Controller) invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
}
