package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

var deltaCmd = &cobra.Command{
	Use:   "delta",
	Short: "Inspect computed deltas",
}

var deltaShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the delta of the last committed run",
	Args:  cobra.NoArgs,
	RunE:  runDeltaShow,
}

func init() {
	addOutputFlag(deltaShowCmd)
	deltaCmd.AddCommand(deltaShowCmd)
	rootCmd.AddCommand(deltaCmd)
}

func runDeltaShow(cmd *cobra.Command, _ []string) error {
	if reconciler == nil {
		return errors.New("reconciler not configured")
	}

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	delta, err := reconciler.LastDelta(cmd.Context())
	if errors.Is(err, domain.ErrNotFound) {
		cmd.Println("No run has been committed yet. Run 'ypsync sync' first.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load delta: %w", err)
	}

	if format != formatText {
		return writeStructured(cmd.OutOrStdout(), format, delta)
	}
	newPrinter(cmd.OutOrStdout()).delta(delta)
	return nil
}
