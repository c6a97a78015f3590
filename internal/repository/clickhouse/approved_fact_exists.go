package clickhouse

import (
	"context"
	"fmt"
	"time"
)

// ApprovedFactExists reports whether a fact is already stored for the window.
func (r *Repository) ApprovedFactExists(ctx context.Context, chainID uint64, token string, windowSize uint32, windowStart time.Time) (bool, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("approved_fact_exists", err, start)
	}()

	const query = `
SELECT count() AS facts
FROM approved_facts
WHERE chain_id = ? AND token = ? AND window_size = ? AND window_start = ?`

	rows, err := r.conn.Query(ctx, query, chainID, token, windowSize, windowStart)
	if err != nil {
		return false, fmt.Errorf("query approved fact existence: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	var count uint64
	if !rows.Next() {
		return false, fmt.Errorf("approved fact count not found")
	}
	if err = rows.Scan(&count); err != nil {
		return false, fmt.Errorf("scan approved fact count: %w", err)
	}
	if err = rows.Err(); err != nil {
		return false, fmt.Errorf("iterate approved fact count: %w", err)
	}

	return count > 0, nil
}
