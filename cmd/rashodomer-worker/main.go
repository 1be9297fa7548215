package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/artempelyovin/rashodomer-be/internal/cli"
	"github.com/artempelyovin/rashodomer-be/internal/events"
	applog "github.com/artempelyovin/rashodomer-be/internal/log"
)

// The worker tails the entity event queue and writes an audit line per
// event. It is the consuming end of the notifications the API publishes.
func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentWorker)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	logger.Info("Starting rashodomer-worker")

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return client.ConsumeEntityEvents(ctx, func(msg *events.EntityEventMessage) error {
			logger.Info("Entity event",
				"entity", msg.Entity,
				"id", msg.ID,
				"user_id", msg.UserID,
				"action", msg.Action,
				"timestamp", msg.Timestamp)
			return nil
		})
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
