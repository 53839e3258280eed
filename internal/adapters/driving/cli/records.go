package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Query the local mirror",
}

var recordsListCmd = &cobra.Command{
	Use:   "list [category-id]",
	Short: "List local records",
	Long: `Lists the local category records followed by their task records.
With a category id only the tasks of that category are listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecordsList,
}

func init() {
	addOutputFlag(recordsListCmd)
	recordsCmd.AddCommand(recordsListCmd)
	rootCmd.AddCommand(recordsCmd)
}

// recordListing is the structured output of records list.
type recordListing struct {
	Categories []domain.CategoryRecord `json:"categories,omitempty"`
	Tasks      []domain.TaskRecord     `json:"tasks"`
}

func runRecordsList(cmd *cobra.Command, args []string) error {
	if recordQuery == nil {
		return errors.New("record query not configured")
	}

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var listing recordListing
	categoryID := ""
	if len(args) > 0 {
		categoryID = args[0]
	} else {
		listing.Categories, err = recordQuery.ListCategories(ctx)
		if err != nil {
			return fmt.Errorf("failed to list records: %w", err)
		}
	}

	listing.Tasks, err = recordQuery.ListTasks(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	if format != formatText {
		return writeStructured(cmd.OutOrStdout(), format, listing)
	}

	if categoryID == "" {
		cmd.Printf("Categories (%d)\n", len(listing.Categories))
		for _, c := range listing.Categories {
			cmd.Printf("  %s  %s%s\n", c.ID, c.Title, deletedMarker(c.Deleted))
		}
		cmd.Println()
	}

	cmd.Printf("Tasks (%d)\n", len(listing.Tasks))
	for _, t := range listing.Tasks {
		line := fmt.Sprintf("  %s/%s  [%s] %s", t.CategoryID, t.ID, t.Status, t.Title)
		if t.ParentID != "" {
			line += "  (child of " + t.ParentID + ")"
		}
		if t.ETA != "" {
			line += "  eta " + t.ETA
		}
		cmd.Println(line + deletedMarker(t.Deleted))
	}
	return nil
}

func deletedMarker(deleted bool) string {
	if deleted {
		return " (deleted)"
	}
	return ""
}
