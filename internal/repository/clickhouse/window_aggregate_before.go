package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

// WindowAggregateBefore returns the latest aggregate of a stream starting
// strictly before the given time, used to seed continuity checks.
func (r *Repository) WindowAggregateBefore(ctx context.Context, token string, windowSize uint32, before time.Time) (model.WindowAggregate, bool, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("window_aggregate_before", err, start)
	}()

	const query = `
SELECT chain_id, token, window_size, window_start, window_end,
	event_count, inflow_total, outflow_total,
	unique_senders, unique_receivers, duplicate_count
FROM window_aggregates
WHERE token = ? AND window_size = ? AND window_start < ?
ORDER BY window_start DESC
LIMIT 1`

	rows, err := r.conn.Query(ctx, query, token, windowSize, before)
	if err != nil {
		return model.WindowAggregate{}, false, fmt.Errorf("query preceding window aggregate: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return model.WindowAggregate{}, false, fmt.Errorf("iterate preceding window aggregate: %w", err)
		}
		return model.WindowAggregate{}, false, nil
	}

	var w model.WindowAggregate
	if err = scanWindowAggregate(rows, &w); err != nil {
		return model.WindowAggregate{}, false, err
	}
	if err = rows.Err(); err != nil {
		return model.WindowAggregate{}, false, fmt.Errorf("iterate preceding window aggregate: %w", err)
	}

	return w, true, nil
}
