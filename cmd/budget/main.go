package main

import (
	"context"
	"net/http"
	"os"
	"strconv"

	"github.com/robertorzech/budget/internal/cli"
	"github.com/robertorzech/budget/internal/events"
	apphttp "github.com/robertorzech/budget/internal/http"
	"github.com/robertorzech/budget/internal/ledger"
	"github.com/robertorzech/budget/internal/log"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadConfig(logger)
	store := cli.OpenStore(logger, cfg)

	ctx, stop := cli.SignalContext()
	defer stop()

	var opts []ledger.Option
	var eventsClient *events.Client
	if cfg.EventsEnabled() {
		var err error
		eventsClient, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize event feed", log.FieldError, err)
			os.Exit(1)
		}
		defer eventsClient.Close()
		opts = append(opts, ledger.WithEvents(eventsClient))
		logger.Info("Event feed enabled",
			"exchange", cfg.AMQPExchange, log.FieldQueue, cfg.AMQPQueue)
	}

	led := ledger.New(ctx, store, opts...)
	srv := apphttp.NewServer(":"+strconv.Itoa(cfg.Port), led, logger)

	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cli.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	}()

	logger.Info("Starting budget server",
		"port", cfg.Port, log.FieldBackend, cfg.Backend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
