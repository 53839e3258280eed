package google

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	tasksapi "google.golang.org/api/tasks/v1"
	"google.golang.org/api/option"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

// NewTasksService creates a Google Tasks API service using the provided TokenSource.
// Extra options are appended, e.g. option.WithEndpoint in tests.
func NewTasksService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*tasksapi.Service, error) {
	opts = append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	svc, err := tasksapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create tasks service: %w", err)
	}
	return svc, nil
}

// LoadOAuthConfig reads an installed-app client secret file.
func LoadOAuthConfig(credentialsFile string) (*oauth2.Config, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: read credentials %s: %v", domain.ErrAuthRequired, credentialsFile, err)
	}
	cfg, err := googleoauth.ConfigFromJSON(data, tasksapi.TasksScope)
	if err != nil {
		return nil, fmt.Errorf("%w: parse credentials %s: %v", domain.ErrAuthRequired, credentialsFile, err)
	}
	return cfg, nil
}
