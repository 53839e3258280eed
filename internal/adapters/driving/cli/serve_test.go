package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

func TestServeCmd_ReloadsSchedulerConfig(t *testing.T) {
	sched := newFakeScheduler()
	settings := newFakeSettingsService()
	settings.settings.Scheduler.Jobs[domain.JobReconcile] = domain.JobConfig{
		Enabled:  true,
		Interval: 5 * time.Minute,
	}

	watch := func(ctx context.Context, onChange func()) error {
		onChange()
		<-ctx.Done()
		return nil
	}
	withServices(t, Services{
		Reconciler:  &fakeReconciler{},
		Settings:    settings,
		Scheduler:   sched,
		WatchConfig: watch,
	})

	out, err := executeCommand(t, "", "serve")

	require.NoError(t, err)
	assert.Contains(t, out, "Scheduler running.")
	assert.Contains(t, out, "Scheduler stopped.")

	sched.mu.Lock()
	defer sched.mu.Unlock()
	assert.True(t, sched.started)
	assert.True(t, sched.stopped)
	require.Len(t, sched.configs, 1)
	assert.Equal(t, 5*time.Minute, sched.configs[0].Job(domain.JobReconcile).Interval)
}

func TestServeCmd_WatchFailureKeepsRunning(t *testing.T) {
	sched := newFakeScheduler()
	watch := func(_ context.Context, _ func()) error {
		return errors.New("inotify limit reached")
	}
	withServices(t, Services{
		Reconciler:  &fakeReconciler{},
		Settings:    newFakeSettingsService(),
		Scheduler:   sched,
		WatchConfig: watch,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	serveCmd.SetContext(ctx)
	t.Cleanup(func() { serveCmd.SetContext(context.Background()) })

	_, err := executeCommand(t, "", "serve")

	require.NoError(t, err)
	assert.True(t, sched.stopped)
	assert.Empty(t, sched.configs)
}

func TestServeCmd_NoScheduler(t *testing.T) {
	withServices(t, Services{Reconciler: &fakeReconciler{}})

	_, err := executeCommand(t, "", "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheduler not configured")
}
