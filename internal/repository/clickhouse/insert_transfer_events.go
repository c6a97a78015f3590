package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

// InsertTransferEvents stores transfer event rows in ClickHouse.
func (r *Repository) InsertTransferEvents(ctx context.Context, events []model.TransferEvent) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_transfer_events", err, start)
	}()

	if len(events) == 0 {
		return nil
	}

	const query = `
INSERT INTO transfer_events (
	chain_id,
	address,
	block_number,
	log_index,
	tx_hash,
	from_addr,
	to_addr,
	amount,
	block_time,
	ingested_at
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare transfer events batch: %w", err)
	}

	for _, event := range events {
		if err = batch.Append(
			event.ChainID,
			event.Address,
			event.BlockNumber,
			event.LogIndex,
			event.TxHash,
			event.From,
			event.To,
			event.Amount,
			event.BlockTime,
			event.IngestedAt,
		); err != nil {
			return fmt.Errorf("append transfer event: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert transfer events: %w", err)
	}
	return nil
}
