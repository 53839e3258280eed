package domain

import "time"

const unknownDescription = "Unknown"

// DeletionPolicy defines what the delta applier does with records that
// disappeared from the remote side.
type DeletionPolicy string

// Available deletion policies.
const (
	// DeletionPolicyReport only reports deletions. Local records stay untouched.
	DeletionPolicyReport DeletionPolicy = "report"

	// DeletionPolicyArchive marks local records as deleted. Rows are never removed.
	DeletionPolicyArchive DeletionPolicy = "archive"
)

// IsValid returns true if the deletion policy is recognised.
func (p DeletionPolicy) IsValid() bool {
	switch p {
	case DeletionPolicyReport, DeletionPolicyArchive:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p DeletionPolicy) String() string {
	return string(p)
}

// Description returns a human-readable description of the policy.
func (p DeletionPolicy) Description() string {
	switch p {
	case DeletionPolicyReport:
		return "Report (log deletions, keep local records)"
	case DeletionPolicyArchive:
		return "Archive (mark local records deleted)"
	default:
		return unknownDescription
	}
}

// AllDeletionPolicies returns all available deletion policies.
func AllDeletionPolicies() []DeletionPolicy {
	return []DeletionPolicy{
		DeletionPolicyReport,
		DeletionPolicyArchive,
	}
}

// GoogleSettings holds remote task service configuration.
type GoogleSettings struct {
	// CredentialsFile is the OAuth client secret JSON downloaded from the console.
	CredentialsFile string

	// TokenFile is where the OAuth token is persisted and refreshed.
	TokenFile string

	// RequestsPerSecond caps the request rate against the API.
	RequestsPerSecond float64

	// Burst is the token bucket size of the rate limiter.
	Burst int

	// PageSize is the page size used when listing tasks.
	PageSize int64

	// ShowCompleted, ShowDeleted and ShowHidden are passed to task listing.
	ShowCompleted bool
	ShowDeleted   bool
	ShowHidden    bool
}

// StorageSettings holds local storage configuration.
type StorageSettings struct {
	// DataDir holds the snapshot and record databases.
	// Empty means the config directory.
	DataDir string
}

// ReconcileSettings holds reconciliation behaviour.
type ReconcileSettings struct {
	// DeletionPolicy controls how remote deletions reach the local store.
	DeletionPolicy DeletionPolicy

	// Owner is stamped as assignee and creator on locally created tasks.
	Owner string

	// CategoryCacheTTL bounds how long a title-to-id mapping is trusted.
	CategoryCacheTTL time.Duration
}

// LogSettings holds logging configuration.
type LogSettings struct {
	// Verbose enables debug and info output.
	Verbose bool

	// JSON switches the log format from console to JSON lines.
	JSON bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Google holds remote service settings.
	Google GoogleSettings

	// Storage holds local storage settings.
	Storage StorageSettings

	// Reconcile holds reconciliation settings.
	Reconcile ReconcileSettings

	// Scheduler holds background scheduling settings.
	Scheduler SchedulerConfig

	// Log holds logging settings.
	Log LogSettings
}

// Default values for settings.
const (
	DefaultRequestsPerSecond = 5.0
	DefaultBurst             = 10
	DefaultPageSize          = 100
	DefaultCategoryCacheTTL  = 10 * time.Minute
	DefaultOwner             = "Admin"
)

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Google: GoogleSettings{
			CredentialsFile:   "credentials.json",
			TokenFile:         "token.json",
			RequestsPerSecond: DefaultRequestsPerSecond,
			Burst:             DefaultBurst,
			PageSize:          DefaultPageSize,
			ShowCompleted:     true,
			ShowDeleted:       true,
			ShowHidden:        true,
		},
		Reconcile: ReconcileSettings{
			DeletionPolicy:   DeletionPolicyReport,
			Owner:            DefaultOwner,
			CategoryCacheTTL: DefaultCategoryCacheTTL,
		},
		Scheduler: DefaultSchedulerConfig(),
	}
}
