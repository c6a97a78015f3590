package clickhouse

import (
	"context"
	"fmt"
	"time"
)

// MaxEventBlock returns the highest block number stored for a feed.
func (r *Repository) MaxEventBlock(ctx context.Context, chainID uint64, address string) (uint64, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("max_event_block", err, start)
	}()

	const query = `
SELECT coalesce(max(block_number), toUInt64(0)) AS max_block
FROM transfer_events
WHERE chain_id = ? AND address = ?`

	rows, err := r.conn.Query(ctx, query, chainID, address)
	if err != nil {
		return 0, fmt.Errorf("query max event block: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	var block uint64
	if !rows.Next() {
		return 0, fmt.Errorf("max event block not found")
	}
	if err = rows.Scan(&block); err != nil {
		return 0, fmt.Errorf("scan max event block: %w", err)
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate max event block: %w", err)
	}

	return block, nil
}
