package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"tracker/internal/auth"
	"tracker/internal/cli"
	"tracker/internal/config"
	"tracker/internal/export"
	"tracker/internal/export/sheets"
	applog "tracker/internal/log"
	"tracker/internal/services"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger("info")
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel)

	repo := cli.InitSQLite(logger, cfg.DBPath)
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize export backend", applog.FieldError, err, "backend", cfg.ExportBackend)
		os.Exit(1)
	}

	shell := cli.NewShell(os.Stdin, os.Stdout,
		auth.NewService(repo),
		services.NewExpenseService(repo, logger),
		services.NewBudgetService(repo, logger),
		exporter,
		logger,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stop()
		return shell.Run(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Session ended with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Session closed")
}

func newExporter(ctx context.Context, cfg *config.Config) (export.Destination, error) {
	if cfg.ExportBackend == config.ExportSheets {
		return sheets.NewFromEnv(ctx)
	}
	return &export.CSVDestination{Dir: cfg.ExportDir}, nil
}
