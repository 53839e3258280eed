package driving

import "github.com/custodia-labs/ypsync/internal/core/domain"

// SettingsService reads and writes the settings file.
type SettingsService interface {
	// Get returns the stored settings layered over the defaults.
	Get() (*domain.AppSettings, error)

	// Save stores every field of settings and writes the file.
	Save(settings *domain.AppSettings) error

	// SetDeletionPolicy changes only reconcile.deletion_policy.
	SetDeletionPolicy(policy domain.DeletionPolicy) error

	// Validate reports every problem with the stored settings.
	Validate() error

	GetDefaults() domain.AppSettings

	// GetSchedulerConfig returns the job configuration, falling back to
	// defaults when the stored settings cannot be read.
	GetSchedulerConfig() domain.SchedulerConfig
}
