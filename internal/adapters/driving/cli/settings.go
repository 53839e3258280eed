package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure remote access, deletion handling, scheduling and logging.

Use subcommands to change specific settings or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure the settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsPolicyCmd = &cobra.Command{
	Use:   "policy <report|archive>",
	Short: "Set the deletion policy",
	Long: `Set how remote deletions reach the local store.

Available policies:
  report  - Log deletions, keep local records untouched
  archive - Mark local records deleted (rows are never removed)`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsPolicy,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsPolicyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	g := settings.Google
	p := newPrinter(cmd.OutOrStdout())

	p.heading("Google")
	p.row("Credentials file", g.CredentialsFile)
	p.row("Token file", g.TokenFile)
	p.row("Rate limit", fmt.Sprintf("%g req/s, burst %d", g.RequestsPerSecond, g.Burst))
	p.row("Page size", g.PageSize)
	p.row("Include", fmt.Sprintf("completed %s, deleted %s, hidden %s",
		yesNo(g.ShowCompleted), yesNo(g.ShowDeleted), yesNo(g.ShowHidden)))
	cmd.Println()

	p.heading("Storage")
	dataDir := settings.Storage.DataDir
	if dataDir == "" {
		dataDir = p.muted.Render("(config directory)")
	}
	p.row("Data directory", dataDir)
	cmd.Println()

	p.heading("Reconcile")
	p.row("Deletion policy", settings.Reconcile.DeletionPolicy.Description())
	p.row("Owner", settings.Reconcile.Owner)
	p.row("Category cache", settings.Reconcile.CategoryCacheTTL)
	cmd.Println()

	p.heading("Scheduler")
	p.row("Enabled", yesNo(settings.Scheduler.Enabled))
	job := settings.Scheduler.Job(domain.JobReconcile)
	p.row("Reconcile job", fmt.Sprintf("%s, every %s", yesNo(job.Enabled), job.Interval))
	cmd.Println()

	p.heading("Log")
	p.row("Verbose", yesNo(settings.Log.Verbose))
	p.row("JSON", yesNo(settings.Log.JSON))
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Println(p.removed.Render("Warning: " + err.Error()))
		cmd.Println("Run 'ypsync settings wizard' to fix it.")
		return nil
	}
	cmd.Println("Configuration is valid.")
	return nil
}

// prompter asks one question per line of input. An empty answer keeps the
// current value.
type prompter struct {
	cmd *cobra.Command
	in  *bufio.Reader
}

func (q prompter) step(n int, title string) {
	q.cmd.Println()
	q.cmd.Printf("%d. %s\n", n, title)
}

func (q prompter) ask(label, current string) string {
	q.cmd.Printf("   %s [%s]: ", label, current)
	line, _ := q.in.ReadString('\n')
	if answer := strings.TrimSpace(line); answer != "" {
		return answer
	}
	return current
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("ypsync settings wizard. Press enter to keep a value.")
	q := prompter{cmd: cmd, in: bufio.NewReader(cmd.InOrStdin())}

	q.step(1, "Google credentials")
	settings.Google.CredentialsFile = q.ask("Credentials file", settings.Google.CredentialsFile)
	settings.Google.TokenFile = q.ask("Token file", settings.Google.TokenFile)

	q.step(2, "Remote deletions")
	policies := domain.AllDeletionPolicies()
	current := 1
	for i, policy := range policies {
		if policy == settings.Reconcile.DeletionPolicy {
			current = i + 1
		}
		cmd.Printf("   %d) %s\n", i+1, policy.Description())
	}
	choice := parseChoice(q.ask("Choice", strconv.Itoa(current)), len(policies), current)
	settings.Reconcile.DeletionPolicy = policies[choice-1]

	q.step(3, "Background reconciliation")
	job := settings.Scheduler.Job(domain.JobReconcile)
	answer := q.ask("Interval", job.Interval.String())
	if job.Interval, err = time.ParseDuration(answer); err != nil {
		return fmt.Errorf("%w: interval %q", domain.ErrInvalidInput, answer)
	}
	settings.Scheduler.SetJob(domain.JobReconcile, job)

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println()
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Saved, but the settings are not usable yet: %v\n", err)
		return nil
	}
	cmd.Println("All settings are valid and saved.")
	return nil
}

func runSettingsPolicy(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	policy := domain.DeletionPolicy(strings.ToLower(args[0]))
	if err := settingsService.SetDeletionPolicy(policy); err != nil {
		return fmt.Errorf("failed to set deletion policy: %w", err)
	}

	cmd.Printf("Deletion policy set to: %s\n", policy.Description())
	return nil
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
