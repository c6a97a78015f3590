package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

// UpsertRuntimeConfig writes a new version of the runtime config singleton;
// the table replaces older versions by updated_at.
func (r *Repository) UpsertRuntimeConfig(ctx context.Context, cfg model.RuntimeConfig) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("upsert_runtime_config", err, start)
	}()

	const query = `
INSERT INTO runtime_config (
	id,
	enabled,
	mode,
	kill_switch_armed,
	kill_reason,
	events_ingested,
	duplicates,
	errors,
	counters_since,
	last_block,
	last_provider,
	last_run,
	updated_at
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare runtime config batch: %w", err)
	}

	if err = batch.Append(
		uint8(1),
		cfg.Enabled,
		string(cfg.Mode),
		cfg.KillSwitchArmed,
		cfg.KillReason,
		cfg.EventsIngested,
		cfg.Duplicates,
		cfg.Errors,
		cfg.CountersSince,
		cfg.LastBlock,
		cfg.LastProvider,
		cfg.LastRun,
		cfg.UpdatedAt,
	); err != nil {
		return fmt.Errorf("append runtime config: %w", err)
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("upsert runtime config: %w", err)
	}
	return nil
}
