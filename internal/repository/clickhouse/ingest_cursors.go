package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

// IngestCursors returns every feed cursor, for status and backlog reporting.
func (r *Repository) IngestCursors(ctx context.Context) ([]model.Cursor, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("ingest_cursors", err, start)
	}()

	const query = `
SELECT chain_id, address, last_processed_block, last_block_time, range_hint, mode, provider, updated_at
FROM ingest_cursors FINAL
ORDER BY chain_id, address`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query ingest cursors: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	var cursors []model.Cursor
	for rows.Next() {
		var cursor model.Cursor
		var mode string
		if err = rows.Scan(
			&cursor.ChainID,
			&cursor.Address,
			&cursor.LastProcessedBlock,
			&cursor.LastBlockTime,
			&cursor.RangeHint,
			&mode,
			&cursor.Provider,
			&cursor.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ingest cursor: %w", err)
		}
		cursor.Mode = model.CursorMode(mode)
		cursors = append(cursors, cursor)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingest cursors: %w", err)
	}

	return cursors, nil
}
