package clickhouse

import (
	"context"
	"fmt"
	"time"
)

// DeleteIngestCursor drops a feed's cursor. Only the forced-backfill path
// uses this; normal operation never deletes cursors.
func (r *Repository) DeleteIngestCursor(ctx context.Context, chainID uint64, address string) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("delete_ingest_cursor", err, start)
	}()

	// mutations_sync so the caller observes the delete immediately; this is
	// a rare manual operation, not a hot path.
	const query = `
ALTER TABLE ingest_cursors DELETE
WHERE chain_id = ? AND address = ?
SETTINGS mutations_sync = 2`

	if err = r.conn.Exec(ctx, query, chainID, address); err != nil {
		return fmt.Errorf("delete ingest cursor: %w", err)
	}
	return nil
}
