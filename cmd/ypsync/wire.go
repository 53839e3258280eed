package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/ypsync/internal/adapters/driven/config/env"
	"github.com/custodia-labs/ypsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ypsync/internal/adapters/driven/storage/bolt"
	"github.com/custodia-labs/ypsync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ypsync/internal/adapters/driving/cli"
	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/core/services"
	"github.com/custodia-labs/ypsync/internal/logger"
)

// build opens the stores and assembles the core services.
// The remote client connects on first use so local-only commands work
// without credentials.
func build(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	envCfg, err := env.Load()
	if err != nil {
		return nil, err
	}

	dir := opts.ConfigDir
	if dir == "" {
		dir = envCfg.ConfigDir
	}
	if dir == "" {
		if dir, err = file.DefaultDir(); err != nil {
			return nil, fmt.Errorf("resolve config directory: %w", err)
		}
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: open config: %w", domain.ErrLocalStore, err)
	}
	settingsService := &envSettings{SettingsService: services.NewSettingsService(configStore), env: envCfg}

	settings, err := settingsService.effective()
	if err != nil {
		return nil, err
	}
	logger.SetJSON(settings.Log.JSON)
	logger.SetVerbose(settings.Log.Verbose || opts.Verbose)

	dataDir := resolvePath(dir, settings.Storage.DataDir)
	logger.Debug("config dir %s, data dir %s", dir, dataDir)

	snapshots, err := bolt.NewSnapshotStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("%w: open snapshot store: %w", domain.ErrLocalStore, err)
	}
	sqlStore, err := sqlite.NewStore(dataDir)
	if err != nil {
		_ = snapshots.Close()
		return nil, fmt.Errorf("%w: open record store: %w", domain.ErrLocalStore, err)
	}

	google := settings.Google
	google.CredentialsFile = resolvePath(dir, google.CredentialsFile)
	google.TokenFile = resolvePath(dir, google.TokenFile)
	client := newLazyClient(ctx, google)

	cache := services.NewCategoryCache(settings.Reconcile.CategoryCacheTTL)
	applier := services.NewDeltaApplier(sqlStore.RecordStore(), settings.Reconcile.DeletionPolicy, settings.Reconcile.Owner)
	reconciler := services.NewReconciler(client, snapshots, applier, cache)

	return &cli.Services{
		Reconciler:  reconciler,
		Tasks:       services.NewTaskService(client, cache),
		Records:     services.NewRecordService(sqlStore.RecordStore()),
		Settings:    settingsService,
		Scheduler:   services.NewScheduler(settings.Scheduler, sqlStore.SchedulerStore(), reconciler),
		WatchConfig: configStore.Watch,
		Close: func() error {
			return errors.Join(sqlStore.Close(), snapshots.Close())
		},
	}, nil
}

// resolvePath anchors a relative path at the config directory.
// An empty path resolves to the directory itself.
func resolvePath(dir, path string) string {
	if path == "" {
		return dir
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
