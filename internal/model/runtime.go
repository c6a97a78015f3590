package model

import "time"

// IngestMode is the operator-facing run mode of the ingestion worker.
type IngestMode string

var (
	ModeOff    IngestMode = "off"
	ModeCanary IngestMode = "canary"
	ModeActive IngestMode = "active"
)

// RuntimeConfig is the process-wide ingestion runtime state singleton.
// Counters roll over a 24h window anchored at CountersSince.
type RuntimeConfig struct {
	Enabled         bool
	Mode            IngestMode
	KillSwitchArmed bool
	KillReason      string
	EventsIngested  uint64
	Duplicates      uint64
	Errors          uint64
	CountersSince   time.Time
	LastBlock       uint64
	LastProvider    string
	LastRun         time.Time
	UpdatedAt       time.Time
}

// CycleMetrics summarizes one completed ingestion cycle.
type CycleMetrics struct {
	Inserted   uint64
	Duplicates uint64
	Errors     uint64
	LastBlock  uint64
	Provider   string
}
