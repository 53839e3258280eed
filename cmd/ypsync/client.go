package main

import (
	"context"
	"sync"

	"github.com/custodia-labs/ypsync/internal/connectors/google"
	"github.com/custodia-labs/ypsync/internal/connectors/google/tasks"
	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/core/ports/driven"
)

var _ driven.TaskClient = (*lazyClient)(nil)

// lazyClient connects to Google Tasks on the first remote call.
// A failed connect is retried on the next call.
type lazyClient struct {
	ctx      context.Context
	settings domain.GoogleSettings
	connect  func(ctx context.Context, s domain.GoogleSettings) (driven.TaskClient, error)

	mu     sync.Mutex
	client driven.TaskClient
}

func newLazyClient(ctx context.Context, settings domain.GoogleSettings) *lazyClient {
	return &lazyClient{ctx: ctx, settings: settings, connect: connectGoogle}
}

func connectGoogle(ctx context.Context, s domain.GoogleSettings) (driven.TaskClient, error) {
	cfg, err := google.LoadOAuthConfig(s.CredentialsFile)
	if err != nil {
		return nil, err
	}
	ts, err := google.NewFileTokenSource(ctx, cfg, s.TokenFile)
	if err != nil {
		return nil, err
	}
	svc, err := google.NewTasksService(ctx, ts)
	if err != nil {
		return nil, err
	}
	return tasks.New(svc, tasks.ConfigFromSettings(s)), nil
}

func (c *lazyClient) get() (driven.TaskClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	client, err := c.connect(c.ctx, c.settings)
	if err != nil {
		return nil, err
	}
	c.client = client
	return client, nil
}

func (c *lazyClient) ListCategories(ctx context.Context) (domain.Collection, error) {
	client, err := c.get()
	if err != nil {
		return nil, err
	}
	return client.ListCategories(ctx)
}

func (c *lazyClient) GetCategory(ctx context.Context, categoryID string) (domain.Record, error) {
	client, err := c.get()
	if err != nil {
		return domain.Record{}, err
	}
	return client.GetCategory(ctx, categoryID)
}

func (c *lazyClient) CreateCategory(ctx context.Context, title string) (domain.Record, error) {
	client, err := c.get()
	if err != nil {
		return domain.Record{}, err
	}
	return client.CreateCategory(ctx, title)
}

func (c *lazyClient) DeleteCategory(ctx context.Context, categoryID string) error {
	client, err := c.get()
	if err != nil {
		return err
	}
	return client.DeleteCategory(ctx, categoryID)
}

func (c *lazyClient) ListTasks(ctx context.Context, categoryID string) (domain.Collection, error) {
	client, err := c.get()
	if err != nil {
		return nil, err
	}
	return client.ListTasks(ctx, categoryID)
}

func (c *lazyClient) GetTask(ctx context.Context, categoryID, taskID string) (domain.Record, error) {
	client, err := c.get()
	if err != nil {
		return domain.Record{}, err
	}
	return client.GetTask(ctx, categoryID, taskID)
}

func (c *lazyClient) CreateTask(ctx context.Context, categoryID string, fields domain.Fields, parentID string) (domain.Record, error) {
	client, err := c.get()
	if err != nil {
		return domain.Record{}, err
	}
	return client.CreateTask(ctx, categoryID, fields, parentID)
}

func (c *lazyClient) UpdateTask(ctx context.Context, categoryID, taskID string, fields domain.Fields) (domain.Record, error) {
	client, err := c.get()
	if err != nil {
		return domain.Record{}, err
	}
	return client.UpdateTask(ctx, categoryID, taskID, fields)
}
