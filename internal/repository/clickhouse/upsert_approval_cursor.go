package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

// UpsertApprovalCursor writes a new cursor version; the table replaces older
// versions by updated_at.
func (r *Repository) UpsertApprovalCursor(ctx context.Context, cursor model.ApprovalCursor) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("upsert_approval_cursor", err, start)
	}()

	const query = `
INSERT INTO approval_cursors (
	token,
	window_size,
	last_approved_window_end,
	updated_at
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare approval cursor batch: %w", err)
	}

	if err = batch.Append(
		cursor.Token,
		cursor.WindowSize,
		cursor.LastApprovedWindowEnd,
		cursor.UpdatedAt,
	); err != nil {
		return fmt.Errorf("append approval cursor: %w", err)
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("upsert approval cursor: %w", err)
	}
	return nil
}
