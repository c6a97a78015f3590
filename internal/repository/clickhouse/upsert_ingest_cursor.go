package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

// UpsertIngestCursor writes a new cursor version; the table replaces older
// versions by updated_at.
func (r *Repository) UpsertIngestCursor(ctx context.Context, cursor model.Cursor) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("upsert_ingest_cursor", err, start)
	}()

	const query = `
INSERT INTO ingest_cursors (
	chain_id,
	address,
	last_processed_block,
	last_block_time,
	range_hint,
	mode,
	provider,
	updated_at
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare ingest cursor batch: %w", err)
	}

	if err = batch.Append(
		cursor.ChainID,
		cursor.Address,
		cursor.LastProcessedBlock,
		cursor.LastBlockTime,
		cursor.RangeHint,
		string(cursor.Mode),
		cursor.Provider,
		time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("append ingest cursor: %w", err)
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("upsert ingest cursor: %w", err)
	}
	return nil
}
