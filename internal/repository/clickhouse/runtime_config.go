package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

// RuntimeConfig returns the runtime config singleton, reporting whether one
// has ever been written.
func (r *Repository) RuntimeConfig(ctx context.Context) (model.RuntimeConfig, bool, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("runtime_config", err, start)
	}()

	const query = `
SELECT enabled, mode, kill_switch_armed, kill_reason,
	events_ingested, duplicates, errors, counters_since,
	last_block, last_provider, last_run, updated_at
FROM runtime_config FINAL
WHERE id = 1
LIMIT 1`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return model.RuntimeConfig{}, false, fmt.Errorf("query runtime config: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return model.RuntimeConfig{}, false, fmt.Errorf("iterate runtime config: %w", err)
		}
		return model.RuntimeConfig{}, false, nil
	}

	var cfg model.RuntimeConfig
	var mode string
	if err = rows.Scan(
		&cfg.Enabled,
		&mode,
		&cfg.KillSwitchArmed,
		&cfg.KillReason,
		&cfg.EventsIngested,
		&cfg.Duplicates,
		&cfg.Errors,
		&cfg.CountersSince,
		&cfg.LastBlock,
		&cfg.LastProvider,
		&cfg.LastRun,
		&cfg.UpdatedAt,
	); err != nil {
		return model.RuntimeConfig{}, false, fmt.Errorf("scan runtime config: %w", err)
	}
	cfg.Mode = model.IngestMode(mode)

	if err = rows.Err(); err != nil {
		return model.RuntimeConfig{}, false, fmt.Errorf("iterate runtime config: %w", err)
	}

	return cfg, true, nil
}
