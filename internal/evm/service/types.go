package service

import (
	"context"
	"time"

	"github.com/tokenpulse/tokenpulse-backend/internal/control"
	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Repository interface {
		IngestCursor(ctx context.Context, chainID uint64, address string) (model.Cursor, bool, error)
		UpsertIngestCursor(ctx context.Context, cursor model.Cursor) error
		DeleteIngestCursor(ctx context.Context, chainID uint64, address string) error
		TransferEventKeys(ctx context.Context, chainID uint64, address string, fromBlock, toBlock uint64) (map[model.EventKey]struct{}, error)
		InsertTransferEvents(ctx context.Context, events []model.TransferEvent) error
	}

	Provider interface {
		Active() string
		BlockNumber(ctx context.Context) (uint64, error)
		HeaderTime(ctx context.Context, number uint64) (time.Time, error)
		TransferLogs(ctx context.Context, feed model.Feed, from, to uint64) ([]model.TransferEvent, error)
	}

	Control interface {
		IsEnabled(ctx context.Context) (bool, error)
		EvaluateThresholds(ctx context.Context) (control.ThresholdVerdict, error)
		TriggerKillSwitch(ctx context.Context, reason string) error
		PublishCycleMetrics(ctx context.Context, m model.CycleMetrics) error
	}
)
