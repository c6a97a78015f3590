// Package approval converts externally produced window aggregates into
// immutable quality-classified facts: a pure rule-scoring engine plus an
// idempotent batch driver with a per-stream consumption cursor.
package approval

import (
	"fmt"
	"math/big"

	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

const (
	// maxDuplicateShare is the tolerated fraction of re-seen events within
	// one window before the duplication rule fires.
	maxDuplicateShare = 0.5
	// spikeMultiplier bounds window-over-window event count growth.
	spikeMultiplier = 10
)

// A rule inspects one window, optionally against its immediate predecessor,
// and reports a violation reason. Rules are total: no clock reads, no
// randomness, no I/O, and "no penalty" is a nil result, never an error.
type rule struct {
	name    string
	penalty int
	check   func(current model.WindowAggregate, previous *model.WindowAggregate) (string, bool)
}

// orderedRules is the fixed evaluation order; failed rules are reported in
// this order so identical inputs always produce identical results.
var orderedRules = []rule{
	{name: "continuity", penalty: 30, check: checkContinuity},
	{name: "volume_sanity", penalty: 25, check: checkVolumeSanity},
	{name: "duplication", penalty: 20, check: checkDuplication},
	{name: "anomaly_spike", penalty: 15, check: checkAnomalySpike},
	{name: "counterparty_coverage", penalty: 35, check: checkCounterpartyCoverage},
}

// checkContinuity requires the window to start exactly where its predecessor
// ended. The first window of a stream has no predecessor and passes.
func checkContinuity(current model.WindowAggregate, previous *model.WindowAggregate) (string, bool) {
	if previous == nil {
		return "", false
	}
	if current.WindowStart.Equal(previous.WindowEnd) {
		return "", false
	}
	if current.WindowStart.After(previous.WindowEnd) {
		gap := current.WindowStart.Sub(previous.WindowEnd)
		return fmt.Sprintf("gap of %s since previous window end", gap), true
	}
	return fmt.Sprintf("overlaps previous window by %s", previous.WindowEnd.Sub(current.WindowStart)), true
}

// checkVolumeSanity rejects windows whose flow totals contradict their event
// count or fail to parse as non-negative integers.
func checkVolumeSanity(current model.WindowAggregate, _ *model.WindowAggregate) (string, bool) {
	inflow, ok := parseTotal(current.InflowTotal)
	if !ok {
		return fmt.Sprintf("inflow total %q is not a valid amount", current.InflowTotal), true
	}
	outflow, ok := parseTotal(current.OutflowTotal)
	if !ok {
		return fmt.Sprintf("outflow total %q is not a valid amount", current.OutflowTotal), true
	}
	if inflow.Sign() < 0 || outflow.Sign() < 0 {
		return "negative flow total", true
	}
	if current.EventCount == 0 && (inflow.Sign() != 0 || outflow.Sign() != 0) {
		return "non-zero flow totals with zero events", true
	}
	return "", false
}

func parseTotal(s string) (*big.Int, bool) {
	if s == "" {
		return big.NewInt(0), true
	}
	v, ok := new(big.Int).SetString(s, 10)
	return v, ok
}

// checkDuplication fires when more than half of the window's observed events
// were duplicates of already-stored entries.
func checkDuplication(current model.WindowAggregate, _ *model.WindowAggregate) (string, bool) {
	total := current.EventCount + current.DuplicateCount
	if total == 0 {
		return "", false
	}
	share := float64(current.DuplicateCount) / float64(total)
	if share > maxDuplicateShare {
		return fmt.Sprintf("duplicate share %.2f over %.2f", share, maxDuplicateShare), true
	}
	return "", false
}

// checkAnomalySpike flags an implausible jump in event count relative to the
// immediately preceding window.
func checkAnomalySpike(current model.WindowAggregate, previous *model.WindowAggregate) (string, bool) {
	if previous == nil || previous.EventCount == 0 {
		return "", false
	}
	if current.EventCount > previous.EventCount*spikeMultiplier {
		return fmt.Sprintf("event count %d over %dx previous %d",
			current.EventCount, spikeMultiplier, previous.EventCount), true
	}
	return "", false
}

// checkCounterpartyCoverage requires a non-empty window to name at least one
// sender and one receiver.
func checkCounterpartyCoverage(current model.WindowAggregate, _ *model.WindowAggregate) (string, bool) {
	if current.EventCount == 0 {
		return "", false
	}
	if current.UniqueSenders == 0 || current.UniqueReceivers == 0 {
		return fmt.Sprintf("%d events with %d senders and %d receivers",
			current.EventCount, current.UniqueSenders, current.UniqueReceivers), true
	}
	return "", false
}
