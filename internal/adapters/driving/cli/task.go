package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Create and modify remote tasks",
}

var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a task with one sub-task per action",
	Long: `Creates a parent task in the named category (created when missing) and
one child task per action.

The request is either read from a JSON file (--file, "-" for stdin):

  {
    "type": "create",
    "title": "Plan trip",
    "description": "Summer holiday",
    "category": "Personal",
    "dueDate": "2025-07-01T00:00:00Z",
    "estimatedDuration": 90,
    "actions": [
      {"id": 1, "title": "Book flights", "description": "", "estimatedDuration": 30}
    ]
  }

or built from flags. Each --action is "title" or "title|description|minutes".`,
	Args: cobra.NoArgs,
	RunE: runTaskCreate,
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete <category-id> <task-id>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskComplete,
}

var taskUncompleteCmd = &cobra.Command{
	Use:   "uncomplete <category-id> <task-id>",
	Short: "Mark a task as needing action",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskUncomplete,
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <category-id> <task-id>",
	Short: "Change the title, notes or due date of a task",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskUpdate,
}

func init() {
	taskCreateCmd.Flags().StringP("file", "f", "", `JSON request file ("-" reads stdin)`)
	taskCreateCmd.Flags().String("title", "", "Task title")
	taskCreateCmd.Flags().String("description", "", "Task description")
	taskCreateCmd.Flags().String("category", "", "Category title")
	taskCreateCmd.Flags().String("due", "", "Due date (RFC 3339)")
	taskCreateCmd.Flags().Int("duration", 0, "Estimated duration in minutes")
	taskCreateCmd.Flags().StringArray("action", nil, `Action as "title" or "title|description|minutes" (repeatable)`)
	addOutputFlag(taskCreateCmd)

	taskUpdateCmd.Flags().String("title", "", "New title")
	taskUpdateCmd.Flags().String("notes", "", "New notes")
	taskUpdateCmd.Flags().String("due", "", "New due date (RFC 3339)")

	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskCompleteCmd)
	taskCmd.AddCommand(taskUncompleteCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	rootCmd.AddCommand(taskCmd)
}

func runTaskCreate(cmd *cobra.Command, _ []string) error {
	if taskService == nil {
		return errors.New("task service not configured")
	}

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("file") //nolint:errcheck // flag is registered above

	var created *domain.CreatedTasks
	if path != "" {
		raw, err := readRequest(cmd, path)
		if err != nil {
			return err
		}
		created, err = taskService.HandleRequest(cmd.Context(), raw)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
	} else {
		req, err := requestFromFlags(cmd)
		if err != nil {
			return err
		}
		created, err = taskService.CreateTask(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
	}

	if format != formatText {
		return writeStructured(cmd.OutOrStdout(), format, created)
	}

	cmd.Printf("Created task %s in category %s\n", created.Parent.ID, created.CategoryID)
	for _, child := range created.Children {
		cmd.Printf("  - %s %s\n", child.ID, child.Title())
	}
	return nil
}

func readRequest(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading request from stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading request file: %w", err)
	}
	return raw, nil
}

func requestFromFlags(cmd *cobra.Command) (domain.CreateTaskRequest, error) {
	flags := cmd.Flags()
	title, _ := flags.GetString("title")             //nolint:errcheck // flag is registered above
	description, _ := flags.GetString("description") //nolint:errcheck // flag is registered above
	category, _ := flags.GetString("category")       //nolint:errcheck // flag is registered above
	due, _ := flags.GetString("due")                 //nolint:errcheck // flag is registered above
	duration, _ := flags.GetInt("duration")          //nolint:errcheck // flag is registered above
	rawActions, _ := flags.GetStringArray("action")  //nolint:errcheck // flag is registered above

	req := domain.CreateTaskRequest{
		Type:              domain.RequestTypeCreate,
		Title:             title,
		Description:       description,
		Category:          category,
		DueDate:           due,
		EstimatedDuration: duration,
	}
	for i, raw := range rawActions {
		action, err := parseAction(raw)
		if err != nil {
			return domain.CreateTaskRequest{}, fmt.Errorf("action %d: %w", i, err)
		}
		req.Actions = append(req.Actions, action)
	}
	return req, nil
}

// parseAction parses "title|description|minutes". Trailing parts are optional.
func parseAction(raw string) (domain.ActionSpec, error) {
	parts := strings.SplitN(raw, "|", 3)
	action := domain.ActionSpec{Title: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		action.Description = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
		minutes, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return domain.ActionSpec{}, fmt.Errorf("%w: duration %q is not a number", domain.ErrInvalidInput, parts[2])
		}
		action.EstimatedDuration = &minutes
	}
	return action, nil
}

func runTaskComplete(cmd *cobra.Command, args []string) error {
	if taskService == nil {
		return errors.New("task service not configured")
	}

	task, err := taskService.CompleteTask(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	cmd.Printf("Completed %s %q\n", task.ID, task.Title())
	return nil
}

func runTaskUncomplete(cmd *cobra.Command, args []string) error {
	if taskService == nil {
		return errors.New("task service not configured")
	}

	task, err := taskService.UncompleteTask(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to reopen task: %w", err)
	}
	cmd.Printf("Reopened %s %q\n", task.ID, task.Title())
	return nil
}

func runTaskUpdate(cmd *cobra.Command, args []string) error {
	if taskService == nil {
		return errors.New("task service not configured")
	}

	req := domain.TaskUpdateRequest{CategoryID: args[0], TaskID: args[1]}
	req.Title = changedString(cmd, "title")
	req.Description = changedString(cmd, "notes")
	req.DueDate = changedString(cmd, "due")
	if req.Title == nil && req.Description == nil && req.DueDate == nil {
		return errors.New("nothing to update: set --title, --notes or --due")
	}

	if err := taskService.UpdateTask(cmd.Context(), req); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	cmd.Printf("Updated %s\n", args[1])
	return nil
}

func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name) //nolint:errcheck // flag is registered
	return &v
}
