package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

// TokenWindowPairs returns the distinct (token, window size) streams present
// in the aggregates table.
func (r *Repository) TokenWindowPairs(ctx context.Context) ([]model.TokenWindow, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("token_window_pairs", err, start)
	}()

	const query = `
SELECT DISTINCT token, window_size
FROM window_aggregates
ORDER BY token, window_size`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query token window pairs: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	var pairs []model.TokenWindow
	for rows.Next() {
		var pair model.TokenWindow
		if err = rows.Scan(&pair.Token, &pair.WindowSize); err != nil {
			return nil, fmt.Errorf("scan token window pair: %w", err)
		}
		pairs = append(pairs, pair)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token window pairs: %w", err)
	}

	return pairs, nil
}
