package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func urgentRequest() domain.CreateTaskRequest {
	return domain.CreateTaskRequest{
		Type:              domain.RequestTypeCreate,
		Title:             "Fix roof",
		Description:       "Leak above the door",
		Category:          "Urgent",
		DueDate:           "2019-06-26T00:00:00.000Z",
		EstimatedDuration: 90,
		Actions: []domain.ActionSpec{
			{Title: "Buy tiles", Description: "Red ones", EstimatedDuration: intPtr(30)},
			{Title: "Call roofer"},
		},
	}
}

func TestTaskService_CreateTask_CreatesCategoryWhenMissing(t *testing.T) {
	client := newFakeTaskClient()
	client.addCategory("c1", "Inbox")
	svc := NewTaskService(client, nil)

	created, err := svc.CreateTask(context.Background(), urgentRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, client.createCategoryCalls)
	assert.NotEqual(t, "c1", created.CategoryID)
	assert.Equal(t, "Fix roof", created.Parent.Title())
	require.Len(t, created.Children, 2)

	require.Len(t, client.created, 3)
	parent := client.created[0]
	assert.Empty(t, parent.parentID)
	assert.Equal(t, "Leak above the door\n\nEstimated Duration: 90 minutes", parent.fields.String(domain.FieldNotes))
	assert.Equal(t, "2019-06-26T00:00:00.000Z", parent.fields.String(domain.FieldDue))

	first := client.created[1]
	assert.Equal(t, created.Parent.ID, first.parentID)
	assert.Equal(t, "Red ones\n\nEstimated Duration: 30 minutes", first.fields.String(domain.FieldNotes))

	second := client.created[2]
	assert.Equal(t, created.Parent.ID, second.parentID)
	assert.NotContains(t, second.fields.String(domain.FieldNotes), "Estimated Duration")
}

func TestTaskService_CreateTask_ReusesExistingCategory(t *testing.T) {
	client := newFakeTaskClient()
	client.addCategory("c1", "Urgent")
	client.addCategory("c2", "Urgent")
	svc := NewTaskService(client, nil)
	ctx := context.Background()

	req := urgentRequest()
	req.Actions = nil

	created, err := svc.CreateTask(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "c1", created.CategoryID, "first match wins")
	assert.Zero(t, client.createCategoryCalls)

	// Second request hits the cache.
	_, err = svc.CreateTask(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, client.listCategoriesCalls)
}

func TestTaskService_CreateTask_StaleCacheRetries(t *testing.T) {
	client := newFakeTaskClient()
	client.addCategory("c1", "Urgent")
	cache := NewCategoryCache(0)
	cache.Replace(domain.Collection{rec("gone", "title", "Urgent")})
	svc := NewTaskService(client, cache)

	req := urgentRequest()
	req.Actions = nil

	created, err := svc.CreateTask(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "c1", created.CategoryID)
}

func TestTaskService_CreateTask_Validation(t *testing.T) {
	client := newFakeTaskClient()
	svc := NewTaskService(client, nil)

	req := urgentRequest()
	req.Title = ""

	_, err := svc.CreateTask(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, client.listCategoriesCalls)
}

func TestTaskService_CreateTask_ChildFailureReturnsPartial(t *testing.T) {
	client := newFakeTaskClient()
	client.addCategory("c1", "Urgent")
	client.createChildErr = errors.New("quota exceeded")
	svc := NewTaskService(client, nil)

	created, err := svc.CreateTask(context.Background(), urgentRequest())
	require.Error(t, err)
	assert.ErrorContains(t, err, "quota exceeded")

	require.NotNil(t, created)
	assert.Equal(t, "c1", created.CategoryID)
	assert.NotEmpty(t, created.Parent.ID)
	assert.Empty(t, created.Children)
}

func TestTaskService_CreateTask_ParentFailure(t *testing.T) {
	client := newFakeTaskClient()
	client.addCategory("c1", "Urgent")
	client.createTaskErr = errors.New("backend error")
	svc := NewTaskService(client, nil)

	created, err := svc.CreateTask(context.Background(), urgentRequest())
	assert.Nil(t, created)
	assert.ErrorContains(t, err, "create parent task")
}

func TestTaskService_HandleRequest(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{
			name: "create",
			raw: `{"type":"create","title":"Fix roof","description":"d","category":"Urgent",
				"dueDate":"2019-06-26T00:00:00.000Z","estimatedDuration":15,
				"actions":[{"id":1,"title":"a","description":"","dueDate":"","estimatedDuration":0}]}`,
		},
		{
			name:    "update is not supported",
			raw:     `{"type":"update","title":"x"}`,
			wantErr: domain.ErrInputContract,
		},
		{
			name:    "malformed",
			raw:     `{"type":`,
			wantErr: domain.ErrInputContract,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newFakeTaskClient()
			svc := NewTaskService(client, nil)

			created, err := svc.HandleRequest(context.Background(), []byte(tt.raw))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, client.created)
				return
			}
			require.NoError(t, err)
			require.Len(t, created.Children, 1)
			assert.NotContains(t, client.created[1].fields.String(domain.FieldNotes), "Estimated Duration")
		})
	}
}

func TestTaskService_UpdateTask(t *testing.T) {
	client := newFakeTaskClient()
	client.addCategory("c1", "Urgent")
	client.addTask("c1", rec("t1", "title", "old"))
	client.addTask("c1", rec("t2", "title", "child"))
	client.updateTaskErr["t3"] = domain.ErrNotFound
	svc := NewTaskService(client, nil)

	err := svc.UpdateTask(context.Background(), domain.TaskUpdateRequest{
		CategoryID: "c1",
		TaskID:     "t1",
		Title:      strPtr("new"),
		Actions: []domain.ActionPatch{
			{TaskID: "t2", Description: strPtr("details")},
			{TaskID: "t3", Title: strPtr("missing")},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	t1, _ := client.GetTask(context.Background(), "c1", "t1")
	assert.Equal(t, "new", t1.Title())
	t2, _ := client.GetTask(context.Background(), "c1", "t2")
	assert.Equal(t, "details", t2.Fields.String(domain.FieldNotes))
}

func TestTaskService_CompleteAndUncomplete(t *testing.T) {
	client := newFakeTaskClient()
	client.addCategory("c1", "Urgent")
	client.addTask("c1", rec("t1", "title", "x", "status", "needsAction"))
	svc := NewTaskService(client, nil)
	ctx := context.Background()

	done, err := svc.CompleteTask(ctx, "c1", "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, done.Fields.String(domain.FieldStatus))

	undone, err := svc.UncompleteTask(ctx, "c1", "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNeedsAction, undone.Fields.String(domain.FieldStatus))
	assert.Equal(t, domain.NullValue(), undone.Fields[domain.FieldCompleted])

	_, err = svc.CompleteTask(ctx, "", "t1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CompleteTask(ctx, "c1", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskService_PurgeCategories(t *testing.T) {
	client := newFakeTaskClient()
	client.addCategory("keep", "Default")
	client.addCategory("c1", "Urgent")
	client.addCategory("c2", "Family")
	client.deleteErr["c2"] = errors.New("forbidden")
	svc := NewTaskService(client, nil)

	deleted, err := svc.PurgeCategories(context.Background(), []string{"keep"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "forbidden")
	assert.Equal(t, []string{"c1"}, deleted)

	remaining, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"keep", "c2"}, remaining.IDs())
}
