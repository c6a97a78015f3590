package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

// ApprovalCursor returns one stream's consumption cursor, reporting whether
// it exists.
func (r *Repository) ApprovalCursor(ctx context.Context, token string, windowSize uint32) (model.ApprovalCursor, bool, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("approval_cursor", err, start)
	}()

	const query = `
SELECT last_approved_window_end, updated_at
FROM approval_cursors FINAL
WHERE token = ? AND window_size = ?
LIMIT 1`

	rows, err := r.conn.Query(ctx, query, token, windowSize)
	if err != nil {
		return model.ApprovalCursor{}, false, fmt.Errorf("query approval cursor: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return model.ApprovalCursor{}, false, fmt.Errorf("iterate approval cursor: %w", err)
		}
		return model.ApprovalCursor{}, false, nil
	}

	cursor := model.ApprovalCursor{Token: token, WindowSize: windowSize}
	if err = rows.Scan(&cursor.LastApprovedWindowEnd, &cursor.UpdatedAt); err != nil {
		return model.ApprovalCursor{}, false, fmt.Errorf("scan approval cursor: %w", err)
	}
	if err = rows.Err(); err != nil {
		return model.ApprovalCursor{}, false, fmt.Errorf("iterate approval cursor: %w", err)
	}

	return cursor, true, nil
}
