package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ypsync/internal/core/ports/driving"
	"github.com/custodia-labs/ypsync/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// Options are the global flags handed to the service factory.
type Options struct {
	ConfigDir string
	Verbose   bool
}

// Services are the core ports the commands drive.
// Only Reconciler is required; commands needing a missing port fail.
type Services struct {
	Reconciler driving.Reconciler
	Tasks      driving.TaskService
	Records    driving.RecordQuery
	Settings   driving.SettingsService
	Scheduler  driving.Scheduler

	// WatchConfig blocks and calls onChange after the config file changed.
	WatchConfig func(ctx context.Context, onChange func()) error

	// Close releases the stores opened by the factory.
	Close func() error
}

// Factory builds services once the global flags are parsed.
type Factory func(ctx context.Context, opts Options) (*Services, error)

// Services used by commands. Set by the factory or directly in tests.
var (
	reconciler      driving.Reconciler
	taskService     driving.TaskService
	recordQuery     driving.RecordQuery
	settingsService driving.SettingsService
	scheduler       driving.Scheduler
	watchConfig     func(ctx context.Context, onChange func()) error
	closeServices   func() error
)

var (
	factory   Factory
	configDir string
	verbose   bool
)

// annotationNoServices marks commands that run without the factory.
const annotationNoServices = "no-services"

var rootCmd = &cobra.Command{
	Use:   "ypsync",
	Short: "Mirror a remote task service into a local store",
	Long: `ypsync detects changes in Google Tasks by diffing the current remote
state against the last committed snapshot, and mirrors the resulting delta
into a local record database.

It also creates tasks (a parent with one child per action) from JSON
payloads, and exposes the same operations over MCP.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.ypsync)")
}

// Execute runs the root command with services built by f.
func Execute(ctx context.Context, f Factory) error {
	factory = f
	defer func() {
		if closeServices != nil {
			if err := closeServices(); err != nil {
				logger.Warn("closing stores: %v", err)
			}
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

func setupServices(cmd *cobra.Command, _ []string) error {
	if verbose {
		logger.SetVerbose(true)
	}
	if factory == nil || cmd.Annotations[annotationNoServices] == "true" {
		return nil
	}

	svc, err := factory(cmd.Context(), Options{ConfigDir: configDir, Verbose: verbose})
	if err != nil {
		return err
	}
	if svc == nil || svc.Reconciler == nil {
		return errors.New("reconciler not configured")
	}

	reconciler = svc.Reconciler
	taskService = svc.Tasks
	recordQuery = svc.Records
	settingsService = svc.Settings
	scheduler = svc.Scheduler
	watchConfig = svc.WatchConfig
	closeServices = svc.Close
	return nil
}
