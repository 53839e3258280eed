package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ypsync/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scheduled reconciliation in the foreground",
	Long: `Runs the scheduler loop until interrupted. Reconciliation runs on the
configured interval (scheduler.reconcile.interval).

Changes to the configuration file are picked up while running: a new
interval or enabled flag takes effect on the next scheduler tick.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if watchConfig != nil && settingsService != nil {
		go func() {
			err := watchConfig(ctx, func() {
				if err := scheduler.UpdateConfig(ctx, settingsService.GetSchedulerConfig()); err != nil {
					logger.Warn("serve: applying reloaded configuration: %v", err)
				}
			})
			if err != nil {
				logger.Warn("serve: config watch stopped: %v", err)
			}
		}()
	}

	cmd.Println("Scheduler running. Press Ctrl+C to stop.")
	err := scheduler.Start(ctx)
	if stopErr := scheduler.Stop(); stopErr != nil && err == nil {
		err = stopErr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	cmd.Println("Scheduler stopped.")
	return nil
}
