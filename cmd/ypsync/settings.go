package main

import (
	"github.com/custodia-labs/ypsync/internal/adapters/driven/config/env"
	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/core/ports/driving"
	"github.com/custodia-labs/ypsync/internal/logger"
)

// envSettings overlays YPSYNC_* variables on the file settings.
// Get and Save still see the file alone, so the wizard never persists
// environment values.
type envSettings struct {
	driving.SettingsService
	env *env.Config
}

// effective returns the file settings with the environment applied.
func (s *envSettings) effective() (*domain.AppSettings, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	if err := s.env.Apply(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// GetSchedulerConfig keeps environment overrides across config reloads.
func (s *envSettings) GetSchedulerConfig() domain.SchedulerConfig {
	settings, err := s.effective()
	if err != nil {
		logger.Warn("scheduler config: %v", err)
		return s.SettingsService.GetSchedulerConfig()
	}
	return settings.Scheduler
}
