package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tokenpulse/tokenpulse-backend/internal/control"
	evmrpc "github.com/tokenpulse/tokenpulse-backend/internal/evm/rpc"
	"github.com/tokenpulse/tokenpulse-backend/internal/evm/service"
	"github.com/tokenpulse/tokenpulse-backend/internal/metrics"
	"github.com/tokenpulse/tokenpulse-backend/internal/model"
	"github.com/tokenpulse/tokenpulse-backend/internal/repository/clickhouse"
)

type config struct {
	ClickhouseDSN  string        `long:"clickhouse-dsn" env:"EVM_INGESTER_CLICKHOUSE_DSN" description:"ClickHouse DSN"`
	PrimaryRPCURL  string        `long:"primary-rpc-url" env:"EVM_INGESTER_PRIMARY_RPC_URL" description:"primary EVM JSON-RPC endpoint" required:"true"`
	FallbackRPCURL string        `long:"fallback-rpc-url" env:"EVM_INGESTER_FALLBACK_RPC_URL" description:"fallback EVM JSON-RPC endpoint"`
	RPS            int           `long:"rps" env:"EVM_INGESTER_RPS" description:"max requests per second per endpoint" default:"10"`
	ChainID        uint64        `long:"chain-id" env:"EVM_INGESTER_CHAIN_ID" description:"EVM chain id" default:"1"`
	Tokens         []string      `long:"token" env:"EVM_INGESTER_TOKENS" env-delim:"," description:"tracked token contract addresses" required:"true"`
	Interval       time.Duration `long:"interval" env:"EVM_INGESTER_INTERVAL" description:"polling interval" default:"15s"`
	Confirmations  uint64        `long:"confirmations" env:"EVM_INGESTER_CONFIRMATIONS" description:"confirmation depth below the chain head" default:"12"`
	BackfillWindow uint64        `long:"backfill-window" env:"EVM_INGESTER_BACKFILL_WINDOW" description:"blocks below the safe head a new feed starts from" default:"50000"`
	EnvDisabled    bool          `long:"env-disabled" env:"EVM_INGESTER_DISABLED" description:"immutable environment override disabling ingestion"`
	MetricsAddr    string        `long:"metrics-addr" env:"EVM_INGESTER_METRICS_ADDR" description:"prometheus metrics addr" default:":9090"`
	Once           bool          `long:"once" description:"run a single cycle and exit"`
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
		logger.Fatal("evm ingester failed", zap.Error(err))
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

	provider, closeProvider, err := newProvider(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeProvider()

	controller := control.NewController(repo, cfg.EnvDisabled, control.Config{}, logger)

	svc, err := service.NewTailIngesterService(
		repo,
		provider,
		controller,
		feedsFromTokens(cfg.ChainID, cfg.Tokens),
		service.Config{
			Confirmations:  cfg.Confirmations,
			BackfillWindow: cfg.BackfillWindow,
		},
		logger,
	)
	if err != nil {
		return err
	}

	if cfg.Once {
		_, err := svc.RunCycle(ctx)
		return err
	}

	go serveMetrics(ctx, cfg.MetricsAddr, logger)
	return svc.RunLoop(ctx, cfg.Interval)
}

func newProvider(ctx context.Context, cfg config, logger *zap.Logger) (*evmrpc.Failover, func(), error) {
	clients := make([]*evmrpc.Client, 0, 2)
	closeAll := func() {
		for _, c := range clients {
			c.Close()
		}
	}

	primary, err := evmrpc.Dial(ctx, "primary", cfg.PrimaryRPCURL, cfg.RPS)
	if err != nil {
		return nil, nil, fmt.Errorf("init primary endpoint: %w", err)
	}
	clients = append(clients, primary)

	endpoints := []evmrpc.Endpoint{primary}
	if cfg.FallbackRPCURL != "" {
		fallback, err := evmrpc.Dial(ctx, "fallback", cfg.FallbackRPCURL, cfg.RPS)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("init fallback endpoint: %w", err)
		}
		clients = append(clients, fallback)
		endpoints = append(endpoints, fallback)
	}

	provider, err := evmrpc.NewFailover(endpoints, metrics.NewRPCClient(), logger)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	return provider, closeAll, nil
}

func feedsFromTokens(chainID uint64, tokens []string) []model.Feed {
	feeds := make([]model.Feed, 0, len(tokens))
	for _, token := range tokens {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		feeds = append(feeds, model.Feed{ChainID: chainID, Address: token})
	}
	return feeds
}

func serveMetrics(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		if err := s.Shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()

	logger.Info("serving metrics", zap.String("addr", addr))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", zap.Error(err))
	}
}
