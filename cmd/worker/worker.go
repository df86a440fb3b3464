// Package worker provides the worker command, the long-running broker
// consumer that drives the ingestion pipeline.
package worker

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"poupeai/statement-ingestion/cmd/root"
	"poupeai/statement-ingestion/internal/container"
	"poupeai/statement-ingestion/internal/logging"

	"github.com/spf13/cobra"
)

var shutdownTimeout = 30 * time.Second

// Cmd is the worker command
var Cmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume ingestion jobs from the broker",
	Long: `Connect to the broker and process statement ingestion jobs until
interrupted. In-flight jobs are allowed to finish on SIGINT or SIGTERM.`,
	RunE: run,
}

func init() {
	Cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", shutdownTimeout, "Time allowed for in-flight jobs on shutdown")
}

func run(cmd *cobra.Command, args []string) error {
	if root.AppConfig == nil {
		return errors.New("configuration not loaded")
	}

	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}

	// Clients live on base: the signal only stops the intake of new jobs.
	c, err := container.NewContainer(base, root.AppConfig)
	if err != nil {
		return err
	}
	defer c.Close()
	logger := c.GetLogger()

	w, err := c.NewWorker()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(base, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := w.Start(ctx); err != nil {
		return err
	}
	logger.Info("Worker started")

	<-ctx.Done()
	logger.Info("Shutting down worker, waiting for in-flight jobs",
		logging.F("timeout", shutdownTimeout.String()))

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(base), shutdownTimeout)
	defer cancel()
	err = w.Stop(stopCtx)

	snap := c.GetStats().Snapshot()
	logger.Info("Worker stopped",
		logging.F("processed", snap.Processed),
		logging.F("completed", snap.Completed),
		logging.F("failed", snap.Failed))
	return err
}
