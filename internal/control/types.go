package control

import (
	"context"

	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Repository interface {
		RuntimeConfig(ctx context.Context) (model.RuntimeConfig, bool, error)
		UpsertRuntimeConfig(ctx context.Context, cfg model.RuntimeConfig) error
	}
)
