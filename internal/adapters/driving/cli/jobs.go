package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

var historyLimit int

var jobsCmd = &cobra.Command{
	Use:   "jobs [job-id]",
	Short: "Show background jobs and their recent runs",
	Long: `Show the state of the background jobs run by 'ypsync serve'.

With a job id, the most recent runs of that job are listed as well.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runJobs,
}

func init() {
	jobsCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of runs to show")
	addOutputFlag(jobsCmd)
	rootCmd.AddCommand(jobsCmd)
}

type jobListing struct {
	Jobs []jobView       `json:"jobs"`
	Runs []domain.JobRun `json:"runs,omitempty"`
}

type jobView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Enabled     bool      `json:"enabled"`
	Interval    string    `json:"interval"`
	LastRun     time.Time `json:"last_run,omitzero"`
	NextRun     time.Time `json:"next_run,omitzero"`
	LastSuccess time.Time `json:"last_success,omitzero"`
	LastError   string    `json:"last_error,omitempty"`
	Failures    int       `json:"failures"`
}

func runJobs(cmd *cobra.Command, args []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	jobs, err := scheduler.Jobs(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load jobs: %w", err)
	}

	listing := jobListing{Jobs: make([]jobView, 0, len(jobs))}
	for _, j := range jobs {
		if len(args) == 1 && j.ID != args[0] {
			continue
		}
		listing.Jobs = append(listing.Jobs, jobView{
			ID:          j.ID,
			Name:        domain.JobName(j.ID),
			Enabled:     j.Enabled,
			Interval:    j.Interval.String(),
			LastRun:     j.LastRun,
			NextRun:     j.NextRun,
			LastSuccess: j.LastSuccess,
			LastError:   j.LastError,
			Failures:    j.Failures,
		})
	}

	if len(args) == 1 {
		if listing.Runs, err = scheduler.History(cmd.Context(), args[0], historyLimit); err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
	}

	if format != formatText {
		return writeStructured(cmd.OutOrStdout(), format, listing)
	}

	if len(listing.Jobs) == 0 {
		cmd.Println("No jobs have been scheduled yet. Start them with 'ypsync serve'.")
		return nil
	}

	p := newPrinter(cmd.OutOrStdout())
	for _, j := range listing.Jobs {
		p.heading(j.Name + " (" + j.ID + ")")
		p.row("Enabled", yesNo(j.Enabled))
		p.row("Interval", j.Interval)
		p.row("Last run", formatWhen(j.LastRun))
		p.row("Next run", formatWhen(j.NextRun))
		p.row("Last success", formatWhen(j.LastSuccess))
		if j.LastError != "" {
			p.row("Last error", p.removed.Render(j.LastError))
			p.row("Failures", j.Failures)
		}
		cmd.Println()
	}

	if len(args) == 1 {
		p.heading("Recent runs")
		if len(listing.Runs) == 0 {
			cmd.Println("No runs recorded.")
		}
		for _, r := range listing.Runs {
			cmd.Printf("  %s  %-8s %s\n", r.StartedAt.Local().Format(time.DateTime), runOutcome(r), runDetail(r))
		}
	}
	return nil
}

func formatWhen(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(time.DateTime)
}

func runOutcome(r domain.JobRun) string {
	switch {
	case r.Skipped:
		return "skipped"
	case r.Succeeded():
		return "ok"
	default:
		return "failed"
	}
}

func runDetail(r domain.JobRun) string {
	switch {
	case !r.Succeeded():
		return r.Error
	case r.RunID != "":
		return fmt.Sprintf("%s, %d changes in %s", r.RunID, r.Changes, r.EndedAt.Sub(r.StartedAt).Round(time.Millisecond))
	default:
		return ""
	}
}
