package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

// WindowAggregatesAfter returns one stream's aggregates whose window end
// strictly exceeds the given time, oldest first. The aggregates table is
// populated externally and read-only here.
func (r *Repository) WindowAggregatesAfter(ctx context.Context, token string, windowSize uint32, after time.Time, limit int) ([]model.WindowAggregate, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("window_aggregates_after", err, start)
	}()

	const query = `
SELECT chain_id, token, window_size, window_start, window_end,
	event_count, inflow_total, outflow_total,
	unique_senders, unique_receivers, duplicate_count
FROM window_aggregates
WHERE token = ? AND window_size = ? AND window_end > ?
ORDER BY window_start ASC
LIMIT ?`

	rows, err := r.conn.Query(ctx, query, token, windowSize, after, uint64(limit))
	if err != nil {
		return nil, fmt.Errorf("query window aggregates: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	var windows []model.WindowAggregate
	for rows.Next() {
		var w model.WindowAggregate
		if err = scanWindowAggregate(rows, &w); err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate window aggregates: %w", err)
	}

	return windows, nil
}

func scanWindowAggregate(rows Rows, w *model.WindowAggregate) error {
	if err := rows.Scan(
		&w.ChainID,
		&w.Token,
		&w.WindowSize,
		&w.WindowStart,
		&w.WindowEnd,
		&w.EventCount,
		&w.InflowTotal,
		&w.OutflowTotal,
		&w.UniqueSenders,
		&w.UniqueReceivers,
		&w.DuplicateCount,
	); err != nil {
		return fmt.Errorf("scan window aggregate: %w", err)
	}
	return nil
}
