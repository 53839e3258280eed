package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

func sampleCategories() domain.Collection {
	return domain.Collection{
		domain.NewRecord("c1", domain.Fields{domain.FieldTitle: domain.StringValue("Inbox")}),
		domain.NewRecord("c2", domain.Fields{domain.FieldTitle: domain.StringValue("Work")}),
		domain.NewRecord("c3", domain.Fields{domain.FieldTitle: domain.StringValue("Old")}),
	}
}

func TestCategoryListCmd(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		withServices(t, Services{Reconciler: &fakeReconciler{}, Tasks: &fakeTaskService{categories: sampleCategories()}})

		out, err := executeCommand(t, "", "category", "list")

		require.NoError(t, err)
		assert.Contains(t, out, "c1  Inbox")
		assert.Contains(t, out, "c3  Old")
	})

	t.Run("alias and json", func(t *testing.T) {
		withServices(t, Services{Reconciler: &fakeReconciler{}, Tasks: &fakeTaskService{categories: sampleCategories()}})

		out, err := executeCommand(t, "", "categories", "list", "-o", "json")

		require.NoError(t, err)
		assert.Contains(t, out, `"title": "Work"`)
	})

	t.Run("empty", func(t *testing.T) {
		withServices(t, Services{Reconciler: &fakeReconciler{}, Tasks: &fakeTaskService{}})

		out, err := executeCommand(t, "", "category", "list")

		require.NoError(t, err)
		assert.Contains(t, out, "No categories.")
	})

	t.Run("failure", func(t *testing.T) {
		withServices(t, Services{Reconciler: &fakeReconciler{}, Tasks: &fakeTaskService{err: errors.New("quota")}})

		_, err := executeCommand(t, "", "category", "list")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "quota")
	})
}

func TestCategoryPurgeCmd(t *testing.T) {
	t.Run("without --yes only previews", func(t *testing.T) {
		tasks := &fakeTaskService{categories: sampleCategories()}
		withServices(t, Services{Reconciler: &fakeReconciler{}, Tasks: tasks})

		out, err := executeCommand(t, "", "category", "purge", "--keep", "c1,c2")

		require.NoError(t, err)
		assert.Equal(t, 0, tasks.purgeCalls)
		assert.Contains(t, out, "Would delete:")
		assert.Contains(t, out, "c3  Old")
		assert.NotContains(t, out, "c1  Inbox")
	})

	t.Run("with --yes deletes", func(t *testing.T) {
		tasks := &fakeTaskService{purged: []string{"c3"}}
		withServices(t, Services{Reconciler: &fakeReconciler{}, Tasks: tasks})

		out, err := executeCommand(t, "", "category", "purge", "--keep", "c1", "--keep", "c2", "--yes")

		require.NoError(t, err)
		assert.Equal(t, 1, tasks.purgeCalls)
		assert.Equal(t, []string{"c1", "c2"}, tasks.keep)
		assert.Contains(t, out, "Deleted 1 categories.")
	})
}

func TestRecordsListCmd(t *testing.T) {
	due := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	records := func() *fakeRecordQuery {
		return &fakeRecordQuery{
			categories: []domain.CategoryRecord{
				{ID: "c1", Title: "Inbox"},
				{ID: "c2", Title: "Gone", Deleted: true},
			},
			tasks: []domain.TaskRecord{
				{ID: "t1", CategoryID: "c1", Title: "Plan trip", Status: domain.StatusNeedsAction, ETA: "90 minutes", DueDate: &due},
				{ID: "t2", CategoryID: "c1", Title: "Book flights", Status: domain.StatusCompleted, ParentID: "t1"},
			},
		}
	}

	t.Run("all records", func(t *testing.T) {
		q := records()
		withServices(t, Services{Reconciler: &fakeReconciler{}, Records: q})

		out, err := executeCommand(t, "", "records", "list")

		require.NoError(t, err)
		assert.Equal(t, "", q.lastCategory)
		assert.Contains(t, out, "Categories (2)")
		assert.Contains(t, out, "c2  Gone (deleted)")
		assert.Contains(t, out, "Tasks (2)")
		assert.Contains(t, out, "c1/t1  [needsAction] Plan trip  eta 90 minutes")
		assert.Contains(t, out, "(child of t1)")
	})

	t.Run("one category", func(t *testing.T) {
		q := records()
		withServices(t, Services{Reconciler: &fakeReconciler{}, Records: q})

		out, err := executeCommand(t, "", "records", "list", "c1")

		require.NoError(t, err)
		assert.Equal(t, "c1", q.lastCategory)
		assert.NotContains(t, out, "Categories")
	})

	t.Run("yaml", func(t *testing.T) {
		withServices(t, Services{Reconciler: &fakeReconciler{}, Records: records()})

		out, err := executeCommand(t, "", "records", "list", "-o", "yaml")

		require.NoError(t, err)
		assert.Contains(t, out, "categories:")
		assert.Contains(t, out, "parent_id: t1")
		assert.Contains(t, out, "2025-07-01T00:00:00Z")
	})

	t.Run("no record query", func(t *testing.T) {
		withServices(t, Services{Reconciler: &fakeReconciler{}})

		_, err := executeCommand(t, "", "records", "list")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "record query not configured")
	})
}
