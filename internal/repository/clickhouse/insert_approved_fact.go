package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

// InsertApprovedFact stores one immutable approval fact.
func (r *Repository) InsertApprovedFact(ctx context.Context, fact model.ApprovedFact) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_approved_fact", err, start)
	}()

	const query = `
INSERT INTO approved_facts (
	chain_id,
	token,
	window_size,
	window_start,
	window_end,
	status,
	score,
	failed_rules,
	reasons,
	evaluated_at
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare approved fact batch: %w", err)
	}

	if err = batch.Append(
		fact.ChainID,
		fact.Token,
		fact.WindowSize,
		fact.WindowStart,
		fact.WindowEnd,
		string(fact.Status),
		int32(fact.Score),
		fact.FailedRules,
		fact.Reasons,
		fact.EvaluatedAt,
	); err != nil {
		return fmt.Errorf("append approved fact: %w", err)
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert approved fact: %w", err)
	}
	return nil
}
