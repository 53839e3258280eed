package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/core/ports/driven"
	"github.com/custodia-labs/ypsync/internal/core/ports/driving"
)

var _ driving.SettingsService = (*SettingsService)(nil)

//nolint:gosec // G101: key names, not credentials.
const (
	keyCredentialsFile   = "google.credentials_file"
	keyTokenFile         = "google.token_file"
	keyRequestsPerSecond = "google.requests_per_second"
	keyBurst             = "google.burst"
	keyPageSize          = "google.page_size"
	keyShowCompleted     = "google.show_completed"
	keyShowDeleted       = "google.show_deleted"
	keyShowHidden        = "google.show_hidden"
	keyDataDir           = "storage.data_dir"
	keyDeletionPolicy    = "reconcile.deletion_policy"
	keyOwner             = "reconcile.owner"
	keyCategoryCacheTTL  = "reconcile.category_cache_ttl"
	keySchedulerEnabled  = "scheduler.enabled"
	keyLogVerbose        = "log.verbose"
	keyLogJSON           = "log.json"
)

// schedulerJobKeys maps job ids to their table under [scheduler].
var schedulerJobKeys = map[string]string{
	domain.JobReconcile: "reconcile",
}

func jobKey(jobID, field string) string {
	return "scheduler." + schedulerJobKeys[jobID] + "." + field
}

// SettingsService maps domain.AppSettings onto dotted config keys.
type SettingsService struct {
	configStore driven.ConfigStore
	read        reader
}

func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore, read: reader{configStore}}
}

// Get layers the stored values over the defaults. Values that are missing
// or cannot be used keep their default.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()
	r := s.read

	return &domain.AppSettings{
		Google: domain.GoogleSettings{
			CredentialsFile:   r.string(keyCredentialsFile, d.Google.CredentialsFile),
			TokenFile:         r.string(keyTokenFile, d.Google.TokenFile),
			RequestsPerSecond: r.positiveFloat(keyRequestsPerSecond, d.Google.RequestsPerSecond),
			Burst:             r.nonZeroInt(keyBurst, d.Google.Burst),
			PageSize:          int64(r.nonZeroInt(keyPageSize, int(d.Google.PageSize))),
			ShowCompleted:     r.bool(keyShowCompleted, d.Google.ShowCompleted),
			ShowDeleted:       r.bool(keyShowDeleted, d.Google.ShowDeleted),
			ShowHidden:        r.bool(keyShowHidden, d.Google.ShowHidden),
		},
		// An empty data dir means the config dir.
		Storage: domain.StorageSettings{DataDir: r.string(keyDataDir, "")},
		Reconcile: domain.ReconcileSettings{
			DeletionPolicy:   r.deletionPolicy(keyDeletionPolicy, d.Reconcile.DeletionPolicy),
			Owner:            r.string(keyOwner, d.Reconcile.Owner),
			CategoryCacheTTL: r.duration(keyCategoryCacheTTL, d.Reconcile.CategoryCacheTTL),
		},
		Scheduler: s.GetSchedulerConfig(),
		Log: domain.LogSettings{
			Verbose: r.bool(keyLogVerbose, d.Log.Verbose),
			JSON:    r.bool(keyLogJSON, d.Log.JSON),
		},
	}, nil
}

type setting struct {
	key   string
	value any
}

// settingValues lists every stored key of settings in file order.
func settingValues(settings *domain.AppSettings) []setting {
	values := []setting{
		{keyCredentialsFile, settings.Google.CredentialsFile},
		{keyTokenFile, settings.Google.TokenFile},
		{keyRequestsPerSecond, settings.Google.RequestsPerSecond},
		{keyBurst, settings.Google.Burst},
		{keyPageSize, settings.Google.PageSize},
		{keyShowCompleted, settings.Google.ShowCompleted},
		{keyShowDeleted, settings.Google.ShowDeleted},
		{keyShowHidden, settings.Google.ShowHidden},
		{keyDataDir, settings.Storage.DataDir},
		{keyDeletionPolicy, settings.Reconcile.DeletionPolicy.String()},
		{keyOwner, settings.Reconcile.Owner},
		{keyCategoryCacheTTL, settings.Reconcile.CategoryCacheTTL.String()},
		{keySchedulerEnabled, settings.Scheduler.Enabled},
	}
	for jobID := range schedulerJobKeys {
		job, ok := settings.Scheduler.Jobs[jobID]
		if !ok {
			continue
		}
		values = append(values,
			setting{jobKey(jobID, "enabled"), job.Enabled},
			setting{jobKey(jobID, "interval"), job.Interval.String()},
		)
	}
	return append(values,
		setting{keyLogVerbose, settings.Log.Verbose},
		setting{keyLogJSON, settings.Log.JSON},
	)
}

// Save stores every field of settings and writes the file once.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	for _, v := range settingValues(settings) {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("set %s: %w", v.key, err)
		}
	}
	return s.write()
}

func (s *SettingsService) SetDeletionPolicy(policy domain.DeletionPolicy) error {
	if !policy.IsValid() {
		return fmt.Errorf("%w: deletion policy %q", domain.ErrInvalidInput, policy)
	}
	if err := s.configStore.Set(keyDeletionPolicy, policy.String()); err != nil {
		return fmt.Errorf("set %s: %w", keyDeletionPolicy, err)
	}
	return s.write()
}

func (s *SettingsService) write() error {
	if err := s.configStore.Save(); err != nil {
		return fmt.Errorf("writing %s: %w", s.configStore.Path(), err)
	}
	return nil
}

// Validate joins every problem found in the stored settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidInput}, args...)...)
	}

	var errs []error
	if settings.Google.CredentialsFile == "" {
		errs = append(errs, invalid("%s is empty", keyCredentialsFile))
	}
	if settings.Google.RequestsPerSecond <= 0 {
		errs = append(errs, invalid("%s must be positive", keyRequestsPerSecond))
	}
	if settings.Google.PageSize <= 0 || settings.Google.PageSize > 100 {
		errs = append(errs, invalid("%s must be between 1 and 100", keyPageSize))
	}
	// Get hides an unknown policy behind the default; report it here.
	if raw := s.configStore.GetString(keyDeletionPolicy); raw != "" && !domain.DeletionPolicy(raw).IsValid() {
		errs = append(errs, invalid("%s %q", keyDeletionPolicy, raw))
	}
	if job := settings.Scheduler.Job(domain.JobReconcile); job.Enabled && job.Interval < domain.MinJobInterval {
		errs = append(errs, invalid("%s must be at least %s", jobKey(domain.JobReconcile, "interval"), domain.MinJobInterval))
	}
	return errors.Join(errs...)
}

func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// GetSchedulerConfig reads [scheduler] over DefaultSchedulerConfig.
func (s *SettingsService) GetSchedulerConfig() domain.SchedulerConfig {
	cfg := domain.DefaultSchedulerConfig()
	cfg.Enabled = s.read.bool(keySchedulerEnabled, cfg.Enabled)

	for jobID := range schedulerJobKeys {
		job := cfg.Job(jobID)
		job.Enabled = s.read.bool(jobKey(jobID, "enabled"), job.Enabled)
		job.Interval = s.read.duration(jobKey(jobID, "interval"), job.Interval)
		cfg.SetJob(jobID, job)
	}
	return cfg
}

// reader returns a fallback for keys that are missing or unusable.
type reader struct {
	store driven.ConfigStore
}

func (r reader) string(key, fallback string) string {
	if v := r.store.GetString(key); v != "" {
		return v
	}
	return fallback
}

// nonZeroInt treats a stored 0 as unset.
func (r reader) nonZeroInt(key string, fallback int) int {
	if v := r.store.GetInt(key); v != 0 {
		return v
	}
	return fallback
}

func (r reader) bool(key string, fallback bool) bool {
	if _, ok := r.store.Get(key); !ok {
		return fallback
	}
	return r.store.GetBool(key)
}

func (r reader) positiveFloat(key string, fallback float64) float64 {
	raw, _ := r.store.Get(key)
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	}
	if f <= 0 {
		return fallback
	}
	return f
}

// duration parses Go duration strings such as "15m". Negative values are
// unusable.
func (r reader) duration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(r.store.GetString(key))
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func (r reader) deletionPolicy(key string, fallback domain.DeletionPolicy) domain.DeletionPolicy {
	if p := domain.DeletionPolicy(r.store.GetString(key)); p.IsValid() {
		return p
	}
	return fallback
}
