package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/tokenpulse/tokenpulse-backend/internal/control"
	evmrpc "github.com/tokenpulse/tokenpulse-backend/internal/evm/rpc"
	"github.com/tokenpulse/tokenpulse-backend/internal/evm/service"
	"github.com/tokenpulse/tokenpulse-backend/internal/metrics"
	"github.com/tokenpulse/tokenpulse-backend/internal/model"
	"github.com/tokenpulse/tokenpulse-backend/internal/repository/clickhouse"
)

type config struct {
	ClickhouseDSN  string `long:"clickhouse-dsn" env:"EVM_BACKFILL_CLICKHOUSE_DSN" description:"ClickHouse DSN"`
	PrimaryRPCURL  string `long:"primary-rpc-url" env:"EVM_BACKFILL_PRIMARY_RPC_URL" description:"primary EVM JSON-RPC endpoint" required:"true"`
	FallbackRPCURL string `long:"fallback-rpc-url" env:"EVM_BACKFILL_FALLBACK_RPC_URL" description:"fallback EVM JSON-RPC endpoint"`
	RPS            int    `long:"rps" env:"EVM_BACKFILL_RPS" description:"max requests per second per endpoint" default:"10"`
	ChainID        uint64 `long:"chain-id" env:"EVM_BACKFILL_CHAIN_ID" description:"EVM chain id" default:"1"`
	Token          string `long:"token" env:"EVM_BACKFILL_TOKEN" description:"token contract address to backfill" required:"true"`
	BackfillWindow uint64 `long:"backfill-window" env:"EVM_BACKFILL_WINDOW" description:"blocks below the safe head to reprocess" default:"50000"`
	EnvDisabled    bool   `long:"env-disabled" env:"EVM_INGESTER_DISABLED" description:"immutable environment override disabling ingestion"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if cfg.ClickhouseDSN == "" {
		logger.Fatal("ClickHouse DSN is required")
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("evm backfill failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer func() {
		_ = repo.Close()
	}()

	primary, err := evmrpc.Dial(ctx, "primary", cfg.PrimaryRPCURL, cfg.RPS)
	if err != nil {
		return fmt.Errorf("init primary endpoint: %w", err)
	}
	defer primary.Close()

	endpoints := []evmrpc.Endpoint{primary}
	if cfg.FallbackRPCURL != "" {
		fallback, err := evmrpc.Dial(ctx, "fallback", cfg.FallbackRPCURL, cfg.RPS)
		if err != nil {
			return fmt.Errorf("init fallback endpoint: %w", err)
		}
		defer fallback.Close()
		endpoints = append(endpoints, fallback)
	}

	provider, err := evmrpc.NewFailover(endpoints, metrics.NewRPCClient(), logger)
	if err != nil {
		return err
	}

	controller := control.NewController(repo, cfg.EnvDisabled, control.Config{}, logger)

	feed := model.Feed{
		ChainID: cfg.ChainID,
		Address: strings.ToLower(strings.TrimSpace(cfg.Token)),
	}
	svc, err := service.NewTailIngesterService(
		repo,
		provider,
		controller,
		[]model.Feed{feed},
		service.Config{BackfillWindow: cfg.BackfillWindow},
		logger,
	)
	if err != nil {
		return err
	}

	return svc.ForceBackfill(ctx, feed)
}
