package env

import (
	"fmt"
	"time"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

// Prefix is prepended to every variable name.
const Prefix = "YPSYNC_"

// Config is the environment overlay for application settings.
// Unset variables leave the file settings untouched.
type Config struct {
	// ConfigDir overrides the --config-dir default.
	ConfigDir string `env:"CONFIG_DIR"`

	Google struct {
		CredentialsFile   string  `env:"CREDENTIALS_FILE"`
		TokenFile         string  `env:"TOKEN_FILE"`
		RequestsPerSecond float64 `env:"REQUESTS_PER_SECOND"`
		Burst             int     `env:"BURST"`
		PageSize          int64   `env:"PAGE_SIZE"`
		ShowCompleted     *bool   `env:"SHOW_COMPLETED"`
		ShowDeleted       *bool   `env:"SHOW_DELETED"`
		ShowHidden        *bool   `env:"SHOW_HIDDEN"`
	} `envPrefix:"GOOGLE_"`

	Storage struct {
		DataDir string `env:"DATA_DIR"`
	} `envPrefix:"STORAGE_"`

	Reconcile struct {
		DeletionPolicy   string        `env:"DELETION_POLICY"`
		Owner            string        `env:"OWNER"`
		CategoryCacheTTL time.Duration `env:"CATEGORY_CACHE_TTL"`
	} `envPrefix:"RECONCILE_"`

	Scheduler struct {
		Enabled  *bool         `env:"ENABLED"`
		Interval time.Duration `env:"RECONCILE_INTERVAL"`
	} `envPrefix:"SCHEDULER_"`

	Log struct {
		Verbose *bool `env:"VERBOSE"`
		JSON    *bool `env:"JSON"`
	} `envPrefix:"LOG_"`
}

// Load parses YPSYNC_* variables from the process environment.
func Load() (*Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom parses variables from the given map instead of the process
// environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("%w: environment: %w", domain.ErrInvalidInput, err)
	}
	if p := cfg.Reconcile.DeletionPolicy; p != "" && !domain.DeletionPolicy(p).IsValid() {
		return nil, fmt.Errorf("%w: %sRECONCILE_DELETION_POLICY %q", domain.ErrInvalidInput, Prefix, p)
	}
	return cfg, nil
}

// Apply merges the set variables over settings.
func (c *Config) Apply(settings *domain.AppSettings) error {
	overlay := domain.AppSettings{
		Google: domain.GoogleSettings{
			CredentialsFile:   c.Google.CredentialsFile,
			TokenFile:         c.Google.TokenFile,
			RequestsPerSecond: c.Google.RequestsPerSecond,
			Burst:             c.Google.Burst,
			PageSize:          c.Google.PageSize,
		},
		Storage: domain.StorageSettings{DataDir: c.Storage.DataDir},
		Reconcile: domain.ReconcileSettings{
			DeletionPolicy:   domain.DeletionPolicy(c.Reconcile.DeletionPolicy),
			Owner:            c.Reconcile.Owner,
			CategoryCacheTTL: c.Reconcile.CategoryCacheTTL,
		},
	}

	// Zero values in the overlay never override; booleans are applied below
	// because false is a meaningful setting.
	if err := mergo.Merge(settings, overlay, mergo.WithOverride); err != nil {
		return fmt.Errorf("merge environment settings: %w", err)
	}

	setBool(&settings.Google.ShowCompleted, c.Google.ShowCompleted)
	setBool(&settings.Google.ShowDeleted, c.Google.ShowDeleted)
	setBool(&settings.Google.ShowHidden, c.Google.ShowHidden)
	setBool(&settings.Scheduler.Enabled, c.Scheduler.Enabled)
	setBool(&settings.Log.Verbose, c.Log.Verbose)
	setBool(&settings.Log.JSON, c.Log.JSON)

	if c.Scheduler.Interval > 0 {
		job := settings.Scheduler.Job(domain.JobReconcile)
		job.Interval = c.Scheduler.Interval
		settings.Scheduler.SetJob(domain.JobReconcile, job)
	}

	return nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
