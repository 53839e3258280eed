package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/core/ports/driven"
)

// Ensure fakeTaskClient implements the interface.
var _ driven.TaskClient = (*fakeTaskClient)(nil)

// fakeTaskClient is an in-memory remote task service.
type fakeTaskClient struct {
	mu         sync.Mutex
	categories domain.Collection
	tasks      map[string]domain.Collection
	nextID     int

	listCategoriesErr error
	listTasksErr      map[string]error
	createTaskErr     error
	createChildErr    error
	updateTaskErr     map[string]error
	deleteErr         map[string]error

	listCategoriesCalls int
	createCategoryCalls int
	created             []createdTask
}

type createdTask struct {
	categoryID string
	parentID   string
	fields     domain.Fields
}

func newFakeTaskClient() *fakeTaskClient {
	return &fakeTaskClient{
		tasks:         make(map[string]domain.Collection),
		listTasksErr:  make(map[string]error),
		updateTaskErr: make(map[string]error),
		deleteErr:     make(map[string]error),
	}
}

func (f *fakeTaskClient) addCategory(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories = append(f.categories, domain.NewRecord(id, domain.Fields{"title": domain.StringValue(title)}))
	if _, ok := f.tasks[id]; !ok {
		f.tasks[id] = domain.Collection{}
	}
}

func (f *fakeTaskClient) addTask(categoryID string, rec domain.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[categoryID] = append(f.tasks[categoryID], rec)
}

func (f *fakeTaskClient) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s%d", prefix, f.nextID)
}

func (f *fakeTaskClient) ListCategories(_ context.Context) (domain.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCategoriesCalls++
	if f.listCategoriesErr != nil {
		return nil, f.listCategoriesErr
	}
	return f.categories.Clone(), nil
}

func (f *fakeTaskClient) GetCategory(_ context.Context, categoryID string) (domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if c.ID == categoryID {
			return c.Clone(), nil
		}
	}
	return domain.Record{}, domain.ErrNotFound
}

func (f *fakeTaskClient) CreateCategory(_ context.Context, title string) (domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCategoryCalls++
	rec := domain.NewRecord(f.id("cat-"), domain.Fields{"title": domain.StringValue(title)})
	f.categories = append(f.categories, rec)
	f.tasks[rec.ID] = domain.Collection{}
	return rec.Clone(), nil
}

func (f *fakeTaskClient) DeleteCategory(_ context.Context, categoryID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[categoryID]; err != nil {
		return err
	}
	out := f.categories[:0]
	for _, c := range f.categories {
		if c.ID != categoryID {
			out = append(out, c)
		}
	}
	f.categories = out
	delete(f.tasks, categoryID)
	return nil
}

func (f *fakeTaskClient) ListTasks(_ context.Context, categoryID string) (domain.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.listTasksErr[categoryID]; err != nil {
		return nil, err
	}
	return f.tasks[categoryID].Clone(), nil
}

func (f *fakeTaskClient) GetTask(_ context.Context, categoryID, taskID string) (domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks[categoryID] {
		if t.ID == taskID {
			return t.Clone(), nil
		}
	}
	return domain.Record{}, domain.ErrNotFound
}

func (f *fakeTaskClient) CreateTask(_ context.Context, categoryID string, fields domain.Fields, parentID string) (domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createTaskErr != nil {
		return domain.Record{}, f.createTaskErr
	}
	if parentID != "" && f.createChildErr != nil {
		return domain.Record{}, f.createChildErr
	}
	if _, ok := f.tasks[categoryID]; !ok {
		return domain.Record{}, domain.ErrNotFound
	}
	rec := domain.NewRecord(f.id("task-"), fields.Clone())
	rec.Fields["status"] = domain.StringValue(domain.StatusNeedsAction)
	if parentID != "" {
		rec.Fields["parent"] = domain.StringValue(parentID)
	}
	f.tasks[categoryID] = append(f.tasks[categoryID], rec)
	f.created = append(f.created, createdTask{categoryID: categoryID, parentID: parentID, fields: fields.Clone()})
	return rec.Clone(), nil
}

func (f *fakeTaskClient) UpdateTask(_ context.Context, categoryID, taskID string, fields domain.Fields) (domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.updateTaskErr[taskID]; err != nil {
		return domain.Record{}, err
	}
	tasks := f.tasks[categoryID]
	for i := range tasks {
		if tasks[i].ID != taskID {
			continue
		}
		for k, v := range fields {
			tasks[i].Fields[k] = v
		}
		return tasks[i].Clone(), nil
	}
	return domain.Record{}, domain.ErrNotFound
}

func rec(id string, kv ...any) domain.Record {
	fields := domain.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		v, err := domain.FieldValueOf(kv[i+1])
		if err != nil {
			panic(err)
		}
		fields[kv[i].(string)] = v
	}
	return domain.NewRecord(id, fields)
}
