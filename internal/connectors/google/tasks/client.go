package tasks

import (
	"context"
	"fmt"
	"time"

	tasksapi "google.golang.org/api/tasks/v1"

	"github.com/custodia-labs/ypsync/internal/connectors/google"
	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/core/ports/driven"
	"github.com/custodia-labs/ypsync/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.TaskClient = (*Client)(nil)

// Client is the driven.TaskClient over the Google Tasks API.
// Task lists are categories.
type Client struct {
	svc     *tasksapi.Service
	cfg     *Config
	limiter *google.Throttle
}

// New creates a client. A nil cfg uses DefaultConfig.
func New(svc *tasksapi.Service, cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Client{
		svc:     svc,
		cfg:     cfg,
		limiter: google.NewThrottle(cfg.Quota),
	}
}

// ListCategories returns every task list, following pagination.
func (c *Client) ListCategories(ctx context.Context) (domain.Collection, error) {
	out := domain.Collection{}
	pageToken := ""
	for {
		var resp *tasksapi.TaskLists
		err := c.call(ctx, "list task lists", func() error {
			call := c.svc.Tasklists.List().MaxResults(c.cfg.PageSize).Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			var err error
			resp, err = call.Do()
			return err
		})
		if err != nil {
			return nil, err
		}

		for _, list := range resp.Items {
			out = append(out, TaskListToRecord(list))
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}
	logger.Debug("google: fetched %d task lists", len(out))
	return out, nil
}

// GetCategory returns one task list.
func (c *Client) GetCategory(ctx context.Context, categoryID string) (domain.Record, error) {
	var list *tasksapi.TaskList
	err := c.call(ctx, "get task list "+categoryID, func() error {
		var err error
		list, err = c.svc.Tasklists.Get(categoryID).Context(ctx).Do()
		return err
	})
	if err != nil {
		return domain.Record{}, err
	}
	return TaskListToRecord(list), nil
}

// CreateCategory creates a task list.
func (c *Client) CreateCategory(ctx context.Context, title string) (domain.Record, error) {
	var list *tasksapi.TaskList
	err := c.call(ctx, "create task list", func() error {
		var err error
		list, err = c.svc.Tasklists.Insert(&tasksapi.TaskList{Title: title}).Context(ctx).Do()
		return err
	})
	if err != nil {
		return domain.Record{}, err
	}
	return TaskListToRecord(list), nil
}

// DeleteCategory deletes a task list and its tasks.
func (c *Client) DeleteCategory(ctx context.Context, categoryID string) error {
	return c.call(ctx, "delete task list "+categoryID, func() error {
		return c.svc.Tasklists.Delete(categoryID).Context(ctx).Do()
	})
}

// ListTasks returns every task of a task list, following pagination.
func (c *Client) ListTasks(ctx context.Context, categoryID string) (domain.Collection, error) {
	out := domain.Collection{}
	pageToken := ""
	for {
		var resp *tasksapi.Tasks
		err := c.call(ctx, "list tasks of "+categoryID, func() error {
			call := c.svc.Tasks.List(categoryID).
				MaxResults(c.cfg.PageSize).
				ShowCompleted(c.cfg.ShowCompleted).
				ShowDeleted(c.cfg.ShowDeleted).
				ShowHidden(c.cfg.ShowHidden).
				Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			var err error
			resp, err = call.Do()
			return err
		})
		if err != nil {
			return nil, err
		}

		for _, task := range resp.Items {
			out = append(out, TaskToRecord(task))
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}
	return out, nil
}

// GetTask returns one task.
func (c *Client) GetTask(ctx context.Context, categoryID, taskID string) (domain.Record, error) {
	var task *tasksapi.Task
	err := c.call(ctx, "get task "+taskID, func() error {
		var err error
		task, err = c.svc.Tasks.Get(categoryID, taskID).Context(ctx).Do()
		return err
	})
	if err != nil {
		return domain.Record{}, err
	}
	return TaskToRecord(task), nil
}

// CreateTask inserts a task, optionally as a subtask of parentID.
func (c *Client) CreateTask(ctx context.Context, categoryID string, fields domain.Fields, parentID string) (domain.Record, error) {
	payload, err := FieldsToTask(fields)
	if err != nil {
		return domain.Record{}, err
	}

	var task *tasksapi.Task
	err = c.call(ctx, "create task in "+categoryID, func() error {
		call := c.svc.Tasks.Insert(categoryID, payload).Context(ctx)
		if parentID != "" {
			call = call.Parent(parentID)
		}
		var err error
		task, err = call.Do()
		return err
	})
	if err != nil {
		return domain.Record{}, err
	}
	return TaskToRecord(task), nil
}

// UpdateTask patches the given fields of a task.
func (c *Client) UpdateTask(ctx context.Context, categoryID, taskID string, fields domain.Fields) (domain.Record, error) {
	payload, err := FieldsToTask(fields)
	if err != nil {
		return domain.Record{}, err
	}

	var task *tasksapi.Task
	err = c.call(ctx, "update task "+taskID, func() error {
		var err error
		task, err = c.svc.Tasks.Patch(categoryID, taskID, payload).Context(ctx).Do()
		return err
	})
	if err != nil {
		return domain.Record{}, err
	}
	return TaskToRecord(task), nil
}

// call paces fn through the rate limiter and retries it while rate limited.
func (c *Client) call(ctx context.Context, op string, fn func() error) error {
	attempts := max(c.cfg.MaxAttempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if waitErr := c.limiter.Wait(ctx); waitErr != nil {
			return fmt.Errorf("%s: %w", op, waitErr)
		}
		if err = fn(); err == nil {
			return nil
		}
		if !google.IsRateLimited(err) || attempt == attempts {
			break
		}
		c.limiter.Pause(google.RetryAfter(err, time.Now()))
		logger.Warn("google: %s rate limited, attempt %d of %d", op, attempt, attempts)
	}
	return fmt.Errorf("%s: %w", op, google.WrapError(err))
}
