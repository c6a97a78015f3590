package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

// TransferEventKeys returns the (block_number, log_index) tuples already
// stored for a feed within a block range. The worker uses the set for
// insert-if-absent deduplication.
func (r *Repository) TransferEventKeys(ctx context.Context, chainID uint64, address string, fromBlock, toBlock uint64) (map[model.EventKey]struct{}, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("transfer_event_keys", err, start)
	}()

	const query = `
SELECT block_number, log_index
FROM transfer_events
WHERE chain_id = ? AND address = ? AND block_number BETWEEN ? AND ?`

	rows, err := r.conn.Query(ctx, query, chainID, address, fromBlock, toBlock)
	if err != nil {
		return nil, fmt.Errorf("query transfer event keys: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	keys := make(map[model.EventKey]struct{})
	for rows.Next() {
		var key model.EventKey
		if err = rows.Scan(&key.BlockNumber, &key.LogIndex); err != nil {
			return nil, fmt.Errorf("scan transfer event key: %w", err)
		}
		keys[key] = struct{}{}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfer event keys: %w", err)
	}

	return keys, nil
}
