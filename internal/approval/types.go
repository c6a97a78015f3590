package approval

import (
	"context"
	"time"

	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Repository interface {
		TokenWindowPairs(ctx context.Context) ([]model.TokenWindow, error)
		WindowAggregatesAfter(ctx context.Context, token string, windowSize uint32, after time.Time, limit int) ([]model.WindowAggregate, error)
		WindowAggregateBefore(ctx context.Context, token string, windowSize uint32, before time.Time) (model.WindowAggregate, bool, error)
		ApprovedFactExists(ctx context.Context, chainID uint64, token string, windowSize uint32, windowStart time.Time) (bool, error)
		InsertApprovedFact(ctx context.Context, fact model.ApprovedFact) error
		ApprovalCursor(ctx context.Context, token string, windowSize uint32) (model.ApprovalCursor, bool, error)
		UpsertApprovalCursor(ctx context.Context, cursor model.ApprovalCursor) error
	}
)
