package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// runScheduled repeats job on the cron schedule until ctx is cancelled.
// A run still in progress when the next one is due causes that one to be skipped.
func runScheduled(ctx context.Context, logger *slog.Logger, schedule string, job func(context.Context) error) error {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(
		cron.Recover(cronLogger),
		cron.SkipIfStillRunning(cronLogger),
	))

	if _, err := c.AddFunc(schedule, func() {
		if err := job(ctx); err != nil {
			logger.Warn("scheduled run failed", slog.Any("error", err))
		}
	}); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	c.Start()
	logger.Info("scheduler started", slog.String("schedule", schedule))

	<-ctx.Done()
	logger.Info("scheduler stopping, waiting for the running job")
	<-c.Stop().Done()
	return nil
}
