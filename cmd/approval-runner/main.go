package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tokenpulse/tokenpulse-backend/internal/approval"
	"github.com/tokenpulse/tokenpulse-backend/internal/metrics"
	"github.com/tokenpulse/tokenpulse-backend/internal/repository/clickhouse"
)

type config struct {
	ClickhouseDSN string        `long:"clickhouse-dsn" env:"APPROVAL_RUNNER_CLICKHOUSE_DSN" description:"ClickHouse DSN"`
	Interval      time.Duration `long:"interval" env:"APPROVAL_RUNNER_INTERVAL" description:"pass interval" default:"1m"`
	Workers       int           `long:"workers" env:"APPROVAL_RUNNER_WORKERS" description:"concurrent approval streams" default:"4"`
	BatchLimit    int           `long:"batch-limit" env:"APPROVAL_RUNNER_BATCH_LIMIT" description:"max windows per stream per pass" default:"500"`
	MetricsAddr   string        `long:"metrics-addr" env:"APPROVAL_RUNNER_METRICS_ADDR" description:"prometheus metrics addr" default:":9091"`
	Once          bool          `long:"once" description:"run a single pass and exit"`
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
		logger.Fatal("approval runner failed", zap.Error(err))
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

	driver := approval.NewBatchDriver(repo, approval.Config{
		Workers:    cfg.Workers,
		BatchLimit: cfg.BatchLimit,
	}, logger)

	if cfg.Once {
		return driver.ProcessAll(ctx)
	}

	go serveMetrics(ctx, cfg.MetricsAddr, logger)
	return driver.RunLoop(ctx, cfg.Interval)
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
