package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"categories"},
	Short:   "Manage remote categories",
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remote categories",
	Args:  cobra.NoArgs,
	RunE:  runCategoryList,
}

var categoryPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every remote category except the kept ones",
	Long: `Deletes every remote category whose id is not listed with --keep.

This cannot be undone. Without --yes the command only lists what would be
deleted.`,
	Args: cobra.NoArgs,
	RunE: runCategoryPurge,
}

func init() {
	addOutputFlag(categoryListCmd)

	categoryPurgeCmd.Flags().StringSlice("keep", nil, "Category ids to keep (repeatable or comma separated)")
	categoryPurgeCmd.Flags().Bool("yes", false, "Delete without asking")

	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryPurgeCmd)
	rootCmd.AddCommand(categoryCmd)
}

func runCategoryList(cmd *cobra.Command, _ []string) error {
	if taskService == nil {
		return errors.New("task service not configured")
	}

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	categories, err := taskService.ListCategories(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	if format != formatText {
		return writeStructured(cmd.OutOrStdout(), format, categories)
	}

	if len(categories) == 0 {
		cmd.Println("No categories.")
		return nil
	}
	for _, c := range categories {
		cmd.Printf("%s  %s\n", c.ID, c.Title())
	}
	return nil
}

func runCategoryPurge(cmd *cobra.Command, _ []string) error {
	if taskService == nil {
		return errors.New("task service not configured")
	}

	keep, _ := cmd.Flags().GetStringSlice("keep") //nolint:errcheck // flag is registered above
	yes, _ := cmd.Flags().GetBool("yes")          //nolint:errcheck // flag is registered above

	if !yes {
		categories, err := taskService.ListCategories(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}
		kept := make(map[string]bool, len(keep))
		for _, id := range keep {
			kept[id] = true
		}
		cmd.Println("Would delete:")
		for _, c := range categories {
			if !kept[c.ID] {
				cmd.Printf("  %s  %s\n", c.ID, c.Title())
			}
		}
		cmd.Println("Re-run with --yes to delete.")
		return nil
	}

	deleted, err := taskService.PurgeCategories(cmd.Context(), keep)
	if err != nil {
		return fmt.Errorf("failed to purge categories: %w", err)
	}
	cmd.Printf("Deleted %d categories.\n", len(deleted))
	for _, id := range deleted {
		cmd.Printf("  %s\n", id)
	}
	return nil
}
