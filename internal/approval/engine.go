package approval

import "github.com/tokenpulse/tokenpulse-backend/internal/model"

// Score boundaries partitioning [0, 100] into the three verdicts.
const (
	approvedFloor    = 80
	quarantinedFloor = 50
)

// EvaluateWindow scores one window aggregate against its immediate
// predecessor (nil for the first window of a stream). Pure and deterministic:
// identical inputs produce identical results.
func EvaluateWindow(current model.WindowAggregate, previous *model.WindowAggregate) model.ApprovalResult {
	var failed []model.RuleViolation
	penalties := 0

	for _, r := range orderedRules {
		reason, violated := r.check(current, previous)
		if !violated {
			continue
		}
		failed = append(failed, model.RuleViolation{
			Rule:    r.name,
			Penalty: r.penalty,
			Reason:  reason,
		})
		penalties += r.penalty
	}

	score := 100 - penalties
	if score < 0 {
		score = 0
	}

	return model.ApprovalResult{
		Status:      StatusForScore(score),
		Score:       score,
		FailedRules: failed,
	}
}

// StatusForScore maps a score in [0, 100] onto its verdict.
func StatusForScore(score int) model.ApprovalStatus {
	switch {
	case score >= approvedFloor:
		return model.StatusApproved
	case score >= quarantinedFloor:
		return model.StatusQuarantined
	default:
		return model.StatusRejected
	}
}
