package model

import "time"

// WindowAggregate is an externally produced summary of events within one
// fixed time bucket for one token. This repository reads aggregates and never
// mutates them.
type WindowAggregate struct {
	ChainID         uint64
	Token           string
	WindowSize      uint32 // seconds
	WindowStart     time.Time
	WindowEnd       time.Time
	EventCount      uint64
	InflowTotal     string
	OutflowTotal    string
	UniqueSenders   uint64
	UniqueReceivers uint64
	DuplicateCount  uint64
}

// ApprovalStatus classifies a scored window.
type ApprovalStatus string

var (
	StatusApproved    ApprovalStatus = "approved"
	StatusQuarantined ApprovalStatus = "quarantined"
	StatusRejected    ApprovalStatus = "rejected"
)

// RuleViolation is one failed quality rule with its penalty.
type RuleViolation struct {
	Rule    string
	Penalty int
	Reason  string
}

// ApprovalResult is the outcome of scoring one window aggregate.
type ApprovalResult struct {
	Status      ApprovalStatus
	Score       int
	FailedRules []RuleViolation
}

// ApprovedFact is the immutable quality-classified record derived from one
// window aggregate. Keyed by (ChainID, Token, WindowSize, WindowStart); the
// gate never produces two facts for the same window.
type ApprovedFact struct {
	ChainID     uint64
	Token       string
	WindowSize  uint32
	WindowStart time.Time
	WindowEnd   time.Time
	Status      ApprovalStatus
	Score       int
	FailedRules []string
	Reasons     []string
	EvaluatedAt time.Time
}

// TokenWindow identifies one approval stream.
type TokenWindow struct {
	Token      string
	WindowSize uint32
}

// ApprovalCursor tracks consumption progress of one approval stream. Only
// windows whose end strictly exceeds LastApprovedWindowEnd are candidates;
// the cursor advances past a window regardless of its resulting status.
type ApprovalCursor struct {
	Token                 string
	WindowSize            uint32
	LastApprovedWindowEnd time.Time
	UpdatedAt             time.Time
}
