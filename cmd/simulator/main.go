// Package main runs the supply chain simulator with its gRPC health service and REST gateway.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/supplychain-simulator/internal/metrics"
	"github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/export"
	"github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/repository/clickhouse"
	"github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/service/simulator"
)

type config struct {
	Addr          string `long:"addr" env:"SIMULATOR_ADDR" description:"gRPC listen address" default:":8000"`
	RestAddr      string `long:"rest-addr" env:"SIMULATOR_REST_ADDR" description:"REST listen address" default:":8001"`
	ClickhouseDSN string `long:"clickhouse-dsn" env:"SIMULATOR_CLICKHOUSE_DSN" description:"ClickHouse DSN for the block export; export is disabled when empty"`
	LogJSON       bool   `long:"log-json" env:"SIMULATOR_LOG_JSON" description:"emit production JSON logs"`
	Autoplay      string `long:"autoplay" env:"SIMULATOR_AUTOPLAY" description:"run the probabilistic ticker" default:"true" choice:"true" choice:"false"`
}

const pingTimeout = 5 * time.Second

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "failed to parse flags: %v\n", err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.LogJSON)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("simulator failed", zap.Error(err))
	}
}

func newLogger(json bool) (*zap.Logger, error) {
	if json {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	sessionID := uuid.NewString()
	logger = logger.With(zap.String("session_id", sessionID))

	var sink simulator.BlockSink
	if cfg.ClickhouseDSN != "" {
		writer, closeExport, err := newExportWriter(ctx, cfg.ClickhouseDSN, sessionID, logger)
		if err != nil {
			return err
		}
		defer closeExport()
		sink = writer
	} else {
		logger.Info("ClickHouse DSN not set, block export disabled")
	}

	sim, err := simulator.NewSimulator(metrics.NewSimulator(), sink, logger.Named("simulator"), simulator.Options{})
	if err != nil {
		return fmt.Errorf("init simulator: %w", err)
	}
	defer sim.Close()

	srv, err := newServer(cfg, sim, logger)
	if err != nil {
		return err
	}
	serveErr := srv.Start()

	if cfg.Autoplay == "true" {
		go func() {
			if err := sim.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("simulator loop stopped", zap.Error(err))
			}
		}()
	} else {
		logger.Info("autoplay disabled, waiting for manual progress")
	}

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		logger.Error("server stopped", zap.Error(err))
	}

	logger.Info("Shutting down")
	sim.Close()
	srv.Shutdown()
	return nil
}

// newExportWriter connects to ClickHouse and starts the block export. The returned
// func flushes pending blocks and closes the connection.
func newExportWriter(ctx context.Context, dsn, sessionID string, logger *zap.Logger) (*export.Writer, func(), error) {
	repo, err := clickhouse.NewRepository(dsn, metrics.NewClickhouseRepository())
	if err != nil {
		return nil, nil, fmt.Errorf("init repository: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := repo.Ping(pingCtx); err != nil {
		_ = repo.Close()
		return nil, nil, err
	}

	writer, err := export.NewWriter(repo, metrics.NewExport(), logger.Named("export"), sessionID)
	if err != nil {
		_ = repo.Close()
		return nil, nil, fmt.Errorf("init export writer: %w", err)
	}
	writer.Start(context.WithoutCancel(ctx))
	logger.Info("block export enabled")

	return writer, func() {
		writer.Stop()
		if err := repo.Close(); err != nil {
			logger.Error("close clickhouse", zap.Error(err))
		}
	}, nil
}
