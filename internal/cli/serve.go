package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"swap-ledger/internal/extract"
	"swap-ledger/internal/ledger"
	"swap-ledger/internal/observability"
	"swap-ledger/internal/ocr"
	"swap-ledger/internal/orchestrator"
	"swap-ledger/internal/server"
	"swap-ledger/internal/storage"
	"swap-ledger/internal/storage/clickhouse"
	"swap-ledger/internal/storage/migrations"
	"swap-ledger/internal/storage/postgres"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and extraction pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return err
	}

	tokenStore := postgres.NewTokenStore(pool)
	txStore := postgres.NewTransactionStore(pool)

	var auditLog storage.ExtractionLogStore
	if cfg.ClickHouse.Enabled {
		conn, err := clickhouse.NewConn(ctx, cfg.ClickHouse.DSN)
		if err != nil {
			return err
		}
		defer conn.Close()
		if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
			return err
		}
		auditLog = clickhouse.NewExtractionLogStore(conn)
	}

	metrics := observability.NewMetrics("")
	svc := ledger.NewService(tokenStore, txStore, logger)
	broadcaster := server.NewBroadcaster(logger)

	orch := orchestrator.New(orchestrator.Options{
		Recognizer: ocr.NewHTTPClient(cfg.OCR.Endpoint, ocr.WithTimeout(cfg.OCR.RequestTimeout)),
		Extractor:  extract.NewExtractor(),
		Ledger:     svc,
		AuditLog:   auditLog,
		Notify:     broadcaster.BroadcastReceipt,
		Metrics:    metrics,
		Logger:     logger,
	})

	srv := server.NewServer(server.Options{
		Addr:           cfg.Server.Addr,
		Ledger:         svc,
		Orchestrator:   orch,
		Broadcaster:    broadcaster,
		Metrics:        metrics,
		Logger:         logger,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
