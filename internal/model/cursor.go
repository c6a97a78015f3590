package model

import "time"

// CursorMode describes the catch-up phase of a feed.
type CursorMode string

var (
	// CursorBootstrap marks a feed still catching up over its backfill window.
	CursorBootstrap CursorMode = "bootstrap"
	// CursorTail marks a feed tracking close to the safe head.
	CursorTail CursorMode = "tail"
)

// Cursor is the persisted ingestion position of one feed. LastProcessedBlock
// is monotonically non-decreasing and never exceeds the safe head observed
// when it was written.
type Cursor struct {
	ChainID            uint64
	Address            string
	LastProcessedBlock uint64
	LastBlockTime      time.Time
	RangeHint          uint64
	Mode               CursorMode
	Provider           string
	UpdatedAt          time.Time
}
