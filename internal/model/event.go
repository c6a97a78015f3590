// Package model defines domain models for on-chain event ingestion and approval.
package model

import "time"

// Feed identifies one tracked token contract on one chain.
type Feed struct {
	ChainID uint64
	Address string
}

// EventKey is the per-feed uniqueness key of a raw event.
type EventKey struct {
	BlockNumber uint64
	LogIndex    uint32
}

// TransferEvent is one normalized ERC-20 Transfer log entry.
// The tuple (ChainID, Address, BlockNumber, LogIndex) is unique; re-ingesting
// an already stored tuple is a counted no-op, never an error.
type TransferEvent struct {
	ChainID     uint64
	Address     string
	BlockNumber uint64
	LogIndex    uint32
	TxHash      string
	From        string
	To          string
	Amount      string
	BlockTime   time.Time
	IngestedAt  time.Time
}

// Key returns the per-feed uniqueness key of the event.
func (e TransferEvent) Key() EventKey {
	return EventKey{BlockNumber: e.BlockNumber, LogIndex: e.LogIndex}
}
