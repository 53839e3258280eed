package tasks

import (
	"github.com/custodia-labs/ypsync/internal/connectors/google"
	"github.com/custodia-labs/ypsync/internal/core/domain"
)

// maxPageSize is the largest page the Tasks API accepts.
const maxPageSize = 100

// Config holds Google Tasks client configuration.
type Config struct {
	// PageSize is the page size for list requests.
	PageSize int64
	// ShowCompleted includes completed tasks if true.
	ShowCompleted bool
	// ShowDeleted includes deleted tasks if true.
	ShowDeleted bool
	// ShowHidden includes hidden tasks if true.
	ShowHidden bool
	// Quota paces requests against the API.
	Quota google.Quota
	// MaxAttempts bounds retries of rate limited requests.
	MaxAttempts int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PageSize:      domain.DefaultPageSize,
		ShowCompleted: true,
		ShowDeleted:   true, // deletions must stay visible to the diff
		ShowHidden:    true,
		Quota:         google.DefaultQuota,
		MaxAttempts:   3,
	}
}

// ConfigFromSettings extracts configuration from application settings.
func ConfigFromSettings(s domain.GoogleSettings) *Config {
	cfg := DefaultConfig()

	if s.PageSize > 0 && s.PageSize <= maxPageSize {
		cfg.PageSize = s.PageSize
	}
	cfg.ShowCompleted = s.ShowCompleted
	cfg.ShowDeleted = s.ShowDeleted
	cfg.ShowHidden = s.ShowHidden

	if s.RequestsPerSecond > 0 {
		cfg.Quota.PerSecond = s.RequestsPerSecond
	}
	if s.Burst > 0 {
		cfg.Quota.Burst = s.Burst
	}

	return cfg
}
