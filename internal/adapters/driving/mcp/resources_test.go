package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

func TestExtractCategoryID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid category tasks URI",
			uri:      "ypsync://records/categories/cat-123/tasks",
			expected: "cat-123",
		},
		{
			name:     "invalid prefix",
			uri:      "file://records/categories/cat-123/tasks",
			expected: "",
		},
		{
			name:     "missing tasks suffix",
			uri:      "ypsync://records/categories/cat-123",
			expected: "",
		},
		{
			name:     "nested path",
			uri:      "ypsync://records/categories/a/b/tasks",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractCategoryID(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleLatestDeltaResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the last delta", func(t *testing.T) {
		delta := domain.NewDelta()
		delta.RunID = "run-7"
		delta.NewCategories["c1"] = domain.NewRecord("c1", domain.Fields{
			domain.FieldTitle: domain.StringValue("Inbox"),
		})

		server, err := NewServer(&Ports{Reconciler: &mockReconciler{delta: delta}}, "test")
		require.NoError(t, err)

		result, err := server.handleLatestDeltaResource(ctx, makeReadResourceRequest(uriLatestDelta))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var decoded domain.Delta
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &decoded))
		assert.Equal(t, "run-7", decoded.RunID)
		assert.Equal(t, "Inbox", decoded.NewCategories["c1"].Title())
	})

	t.Run("no committed run is not found", func(t *testing.T) {
		rec := &mockReconciler{err: domain.ErrNotFound}
		server, err := NewServer(&Ports{Reconciler: rec}, "test")
		require.NoError(t, err)

		_, err = server.handleLatestDeltaResource(ctx, makeReadResourceRequest(uriLatestDelta))
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		rec := &mockReconciler{err: errors.New("bucket corrupted")}
		server, err := NewServer(&Ports{Reconciler: rec}, "test")
		require.NoError(t, err)

		_, err = server.handleLatestDeltaResource(ctx, makeReadResourceRequest(uriLatestDelta))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading delta")
	})
}

func TestServer_handleCategoriesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil record query returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Reconciler: &mockReconciler{}}, "test")
		require.NoError(t, err)

		result, err := server.handleCategoriesResource(ctx, makeReadResourceRequest(uriCategories))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns categories", func(t *testing.T) {
		records := &mockRecordQuery{
			categories: []domain.CategoryRecord{{ID: "c1", Title: "Inbox"}},
		}
		server, err := NewServer(&Ports{Reconciler: &mockReconciler{}, Records: records}, "test")
		require.NoError(t, err)

		result, err := server.handleCategoriesResource(ctx, makeReadResourceRequest(uriCategories))

		require.NoError(t, err)
		var decoded []map[string]any
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &decoded))
		require.Len(t, decoded, 1)
		assert.Equal(t, "c1", decoded[0]["id"])
		assert.Equal(t, "Inbox", decoded[0]["title"])
	})

	t.Run("empty store returns empty array", func(t *testing.T) {
		server, err := NewServer(&Ports{Reconciler: &mockReconciler{}, Records: &mockRecordQuery{}}, "test")
		require.NoError(t, err)

		result, err := server.handleCategoriesResource(ctx, makeReadResourceRequest(uriCategories))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns error on query failure", func(t *testing.T) {
		records := &mockRecordQuery{err: errors.New("db locked")}
		server, err := NewServer(&Ports{Reconciler: &mockReconciler{}, Records: records}, "test")
		require.NoError(t, err)

		_, err = server.handleCategoriesResource(ctx, makeReadResourceRequest(uriCategories))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db locked")
	})
}

func TestServer_handleTasksResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns tasks of the category", func(t *testing.T) {
		records := &mockRecordQuery{
			tasks: []domain.TaskRecord{{ID: "t1", CategoryID: "c1", Title: "Buy milk", ETA: "15 minutes"}},
		}
		server, err := NewServer(&Ports{Reconciler: &mockReconciler{}, Records: records}, "test")
		require.NoError(t, err)

		uri := "ypsync://records/categories/c1/tasks"
		result, err := server.handleTasksResource(ctx, makeReadResourceRequest(uri))

		require.NoError(t, err)
		assert.Equal(t, "c1", records.lastCategory)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, uri, result.Contents[0].URI)
		assert.Contains(t, result.Contents[0].Text, `"eta": "15 minutes"`)
	})

	t.Run("invalid URI is not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Reconciler: &mockReconciler{}, Records: &mockRecordQuery{}}, "test")
		require.NoError(t, err)

		_, err = server.handleTasksResource(ctx, makeReadResourceRequest("ypsync://records/categories/"))
		assert.Error(t, err)
	})

	t.Run("nil record query is not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Reconciler: &mockReconciler{}}, "test")
		require.NoError(t, err)

		_, err = server.handleTasksResource(ctx, makeReadResourceRequest("ypsync://records/categories/c1/tasks"))
		assert.Error(t, err)
	})
}

func TestServer_handleJobsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists job state", func(t *testing.T) {
		sched := &mockScheduler{jobs: []domain.Job{{
			ID:       domain.JobReconcile,
			Interval: domain.DefaultReconcileInterval,
			Enabled:  true,
			Failures: 2,
		}}}
		server, err := NewServer(&Ports{Reconciler: &mockReconciler{}, Scheduler: sched}, "test")
		require.NoError(t, err)

		result, err := server.handleJobsResource(ctx, makeReadResourceRequest(uriJobs))

		require.NoError(t, err)
		var jobs []domain.Job
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &jobs))
		require.Len(t, jobs, 1)
		assert.Equal(t, domain.JobReconcile, jobs[0].ID)
		assert.Equal(t, 2, jobs[0].Failures)
	})

	t.Run("no jobs yet is an empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Reconciler: &mockReconciler{}, Scheduler: &mockScheduler{}}, "test")
		require.NoError(t, err)

		result, err := server.handleJobsResource(ctx, makeReadResourceRequest(uriJobs))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("without a scheduler", func(t *testing.T) {
		server, err := NewServer(&Ports{Reconciler: &mockReconciler{}}, "test")
		require.NoError(t, err)

		_, err = server.handleJobsResource(ctx, makeReadResourceRequest(uriJobs))
		assert.Error(t, err)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		sched := &mockScheduler{err: errors.New("database is locked")}
		server, err := NewServer(&Ports{Reconciler: &mockReconciler{}, Scheduler: sched}, "test")
		require.NoError(t, err)

		_, err = server.handleJobsResource(ctx, makeReadResourceRequest(uriJobs))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing jobs")
	})
}

func TestServer_handleJobRunsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns bounded history", func(t *testing.T) {
		sched := &mockScheduler{runs: []domain.JobRun{
			{JobID: domain.JobReconcile, RunID: "run-9", Changes: 3},
			{JobID: domain.JobReconcile, Skipped: true},
		}}
		server, err := NewServer(&Ports{Reconciler: &mockReconciler{}, Scheduler: sched}, "test")
		require.NoError(t, err)

		result, err := server.handleJobRunsResource(ctx, makeReadResourceRequest("ypsync://jobs/reconcile/runs"))

		require.NoError(t, err)
		assert.Equal(t, domain.JobReconcile, sched.lastJobID)
		assert.Equal(t, jobRunsLimit, sched.lastLimit)

		var runs []domain.JobRun
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &runs))
		require.Len(t, runs, 2)
		assert.Equal(t, "run-9", runs[0].RunID)
		assert.True(t, runs[1].Skipped)
	})

	t.Run("malformed uri", func(t *testing.T) {
		sched := &mockScheduler{}
		server, err := NewServer(&Ports{Reconciler: &mockReconciler{}, Scheduler: sched}, "test")
		require.NoError(t, err)

		_, err = server.handleJobRunsResource(ctx, makeReadResourceRequest("ypsync://jobs/reconcile"))
		assert.Error(t, err)
		assert.Empty(t, sched.lastJobID)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		sched := &mockScheduler{err: errors.New("database is locked")}
		server, err := NewServer(&Ports{Reconciler: &mockReconciler{}, Scheduler: sched}, "test")
		require.NoError(t, err)

		_, err = server.handleJobRunsResource(ctx, makeReadResourceRequest("ypsync://jobs/reconcile/runs"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading job history")
	})
}

func TestPathSegment(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"ypsync://jobs/reconcile/runs", "reconcile"},
		{"ypsync://jobs//runs", ""},
		{"ypsync://jobs/a/b/runs", ""},
		{"ypsync://jobs/reconcile", ""},
		{"ypsync://records/reconcile/runs", ""},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, pathSegment(tt.uri, uriJobs+"/", "/runs"))
		})
	}
}
