package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

// IngestCursor returns the feed's ingestion cursor, reporting whether one
// exists.
func (r *Repository) IngestCursor(ctx context.Context, chainID uint64, address string) (model.Cursor, bool, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("ingest_cursor", err, start)
	}()

	const query = `
SELECT last_processed_block, last_block_time, range_hint, mode, provider, updated_at
FROM ingest_cursors FINAL
WHERE chain_id = ? AND address = ?
LIMIT 1`

	rows, err := r.conn.Query(ctx, query, chainID, address)
	if err != nil {
		return model.Cursor{}, false, fmt.Errorf("query ingest cursor: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return model.Cursor{}, false, fmt.Errorf("iterate ingest cursor: %w", err)
		}
		return model.Cursor{}, false, nil
	}

	cursor := model.Cursor{ChainID: chainID, Address: address}
	var mode string
	if err = rows.Scan(
		&cursor.LastProcessedBlock,
		&cursor.LastBlockTime,
		&cursor.RangeHint,
		&mode,
		&cursor.Provider,
		&cursor.UpdatedAt,
	); err != nil {
		return model.Cursor{}, false, fmt.Errorf("scan ingest cursor: %w", err)
	}
	cursor.Mode = model.CursorMode(mode)

	if err = rows.Err(); err != nil {
		return model.Cursor{}, false, fmt.Errorf("iterate ingest cursor: %w", err)
	}

	return cursor, true, nil
}
