package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ypsync/internal/adapters/driven/config/env"
	"github.com/custodia-labs/ypsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ypsync/internal/adapters/driving/cli"
	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/core/ports/driven"
	"github.com/custodia-labs/ypsync/internal/core/services"
	"github.com/custodia-labs/ypsync/internal/logger"
)

func quietLogger(t *testing.T) {
	t.Helper()
	logger.SetOutput(io.Discard)
	t.Cleanup(func() {
		logger.SetJSON(false)
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	})
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "empty is the directory", path: "", want: "/etc/ypsync"},
		{name: "relative", path: "token.json", want: "/etc/ypsync/token.json"},
		{name: "absolute", path: "/var/lib/ypsync", want: "/var/lib/ypsync"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolvePath("/etc/ypsync", tt.path))
		})
	}
}

func TestBuild_LocalCommandsWithoutCredentials(t *testing.T) {
	quietLogger(t)
	t.Setenv("YPSYNC_CONFIG_DIR", "")
	dir := t.TempDir()

	svc, err := build(context.Background(), cli.Options{ConfigDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	require.NotNil(t, svc.Reconciler)
	require.NotNil(t, svc.Tasks)
	require.NotNil(t, svc.Scheduler)
	require.NotNil(t, svc.WatchConfig)

	categories, err := svc.Records.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, categories)

	_, err = svc.Tasks.ListCategories(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	settings, err := svc.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings().Google.CredentialsFile, settings.Google.CredentialsFile)
}

func TestBuild_ConfigDirFromEnvironment(t *testing.T) {
	quietLogger(t)
	dir := filepath.Join(t.TempDir(), "conf")
	t.Setenv("YPSYNC_CONFIG_DIR", dir)

	svc, err := build(context.Background(), cli.Options{})
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	assert.DirExists(t, dir)
}

func TestBuild_InvalidEnvironment(t *testing.T) {
	quietLogger(t)
	t.Setenv("YPSYNC_RECONCILE_DELETION_POLICY", "shred")

	_, err := build(context.Background(), cli.Options{ConfigDir: t.TempDir()})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type stubClient struct {
	driven.TaskClient
	categories domain.Collection
}

func (s *stubClient) ListCategories(context.Context) (domain.Collection, error) {
	return s.categories, nil
}

func TestLazyClient_ConnectsOnceAndRetriesFailures(t *testing.T) {
	calls := 0
	stub := &stubClient{categories: domain.Collection{domain.NewRecord("c1", nil)}}
	c := &lazyClient{
		ctx: context.Background(),
		connect: func(context.Context, domain.GoogleSettings) (driven.TaskClient, error) {
			calls++
			if calls == 1 {
				return nil, domain.ErrAuthRequired
			}
			return stub, nil
		},
	}

	_, err := c.ListCategories(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	got, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = c.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestLazyClient_PropagatesConnectError(t *testing.T) {
	boom := errors.New("boom")
	c := &lazyClient{
		ctx: context.Background(),
		connect: func(context.Context, domain.GoogleSettings) (driven.TaskClient, error) {
			return nil, boom
		},
	}

	_, err := c.GetTask(context.Background(), "c1", "t1")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, c.DeleteCategory(context.Background(), "c1"), boom)
}

func TestEnvSettings(t *testing.T) {
	store := memory.NewConfigStore()
	base := services.NewSettingsService(store)
	envCfg, err := env.LoadFrom(map[string]string{
		"YPSYNC_SCHEDULER_RECONCILE_INTERVAL": "2m",
		"YPSYNC_RECONCILE_OWNER":              "ops",
	})
	require.NoError(t, err)
	s := &envSettings{SettingsService: base, env: envCfg}

	effective, err := s.effective()
	require.NoError(t, err)
	assert.Equal(t, "ops", effective.Reconcile.Owner)

	sched := s.GetSchedulerConfig()
	assert.Equal(t, 2*time.Minute, sched.Job(domain.JobReconcile).Interval)

	plain, err := s.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultOwner, plain.Reconcile.Owner, "Get reads the file alone")
}
