package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/robertorzech/budget/internal/cli"
	"github.com/robertorzech/budget/internal/events"
	"github.com/robertorzech/budget/internal/log"
	"github.com/robertorzech/budget/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(log.ComponentWorker)
	cfg := cli.LoadConfig(logger)

	if !cfg.EventsEnabled() {
		logger.Error("AMQP_URL is required for the archive worker")
		os.Exit(1)
	}

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	archive, err := worker.NewArchiveWorker(cfg.ArchivePath)
	if err != nil {
		logger.Error("Failed to open archive", log.FieldError, err, "path", cfg.ArchivePath)
		os.Exit(1)
	}
	defer archive.Close()

	ctx, stop := cli.SignalContext()
	defer stop()

	logger.Info("Starting budget-worker",
		log.FieldQueue, cfg.AMQPQueue, "archive", cfg.ArchivePath)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumeEvents(gctx, archive.HandleEvent)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
