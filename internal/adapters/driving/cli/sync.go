package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ypsync/internal/core/ports/driving"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the remote task service into the local store",
	Long: `Fetches every category and its tasks, diffs them against the last
committed snapshot, applies the delta to the local record store and commits
the new snapshot.

With --dry-run the delta is computed and printed but nothing is applied or
committed.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().Bool("dry-run", false, "Compute the delta without applying or committing it")
	addOutputFlag(syncCmd)
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if reconciler == nil {
		return errors.New("reconciler not configured")
	}

	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("getting dry-run flag: %w", err)
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var result *driving.RunResult
	if dryRun {
		result, err = reconciler.DryRun(ctx)
	} else {
		result, err = reconciler.Run(ctx)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if format != formatText {
		return writeStructured(cmd.OutOrStdout(), format, result)
	}

	p := newPrinter(cmd.OutOrStdout())
	if dryRun && result.Delta != nil {
		p.delta(result.Delta)
		return nil
	}
	p.runResult(result)
	return nil
}
