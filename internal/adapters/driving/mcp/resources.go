package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for ypsync resources.
	uriScheme = "ypsync://"

	uriLatestDelta = uriScheme + "delta/latest"
	uriCategories  = uriScheme + "records/categories"
	uriJobs        = uriScheme + "jobs"

	// jobRunsLimit bounds the history returned by the job runs template.
	jobRunsLimit = 20

	mimeJSON = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriLatestDelta,
		Name:        "latest-delta",
		Description: "Delta computed by the last committed reconciliation run",
		MIMEType:    mimeJSON,
	}, s.handleLatestDeltaResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriCategories,
		Name:        "categories",
		Description: "Local category records",
		MIMEType:    mimeJSON,
	}, s.handleCategoriesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriCategories + "/{categoryId}/tasks",
		Name:        "category-tasks",
		Description: "Local task records of a category",
		MIMEType:    mimeJSON,
	}, s.handleTasksResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriJobs,
		Name:        "jobs",
		Description: "Background jobs with their schedule and last outcome",
		MIMEType:    mimeJSON,
	}, s.handleJobsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriJobs + "/{jobId}/runs",
		Name:        "job-runs",
		Description: "Most recent runs of a background job, newest first",
		MIMEType:    mimeJSON,
	}, s.handleJobRunsResource)
}

// handleLatestDeltaResource returns the last committed delta.
func (s *Server) handleLatestDeltaResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	delta, err := s.ports.Reconciler.LastDelta(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("loading delta: %w", err)
	}
	return jsonResource(req.Params.URI, delta)
}

// handleCategoriesResource returns the local category records.
func (s *Server) handleCategoriesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Records == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: mimeJSON,
				Text:     "[]",
			}},
		}, nil
	}

	categories, err := s.ports.Records.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	if categories == nil {
		categories = []domain.CategoryRecord{}
	}
	return jsonResource(req.Params.URI, categories)
}

// handleTasksResource returns the local task records of one category.
func (s *Server) handleTasksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Records == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract categoryId from URI: ypsync://records/categories/{categoryId}/tasks
	categoryID := extractCategoryID(req.Params.URI)
	if categoryID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	tasks, err := s.ports.Records.ListTasks(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	if tasks == nil {
		tasks = []domain.TaskRecord{}
	}
	return jsonResource(req.Params.URI, tasks)
}

// handleJobsResource returns the persisted state of every scheduled job.
func (s *Server) handleJobsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Scheduler == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	jobs, err := s.ports.Scheduler.Jobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	return jsonResource(req.Params.URI, jobs)
}

func (s *Server) handleJobRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	jobID := pathSegment(req.Params.URI, uriJobs+"/", "/runs")
	if s.ports.Scheduler == nil || jobID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	runs, err := s.ports.Scheduler.History(ctx, jobID, jobRunsLimit)
	if err != nil {
		return nil, fmt.Errorf("loading job history: %w", err)
	}
	if runs == nil {
		runs = []domain.JobRun{}
	}
	return jsonResource(req.Params.URI, runs)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(data),
		}},
	}, nil
}

// extractCategoryID extracts the category ID from a URI like
// ypsync://records/categories/{categoryId}/tasks.
func extractCategoryID(uri string) string {
	return pathSegment(uri, uriCategories+"/", "/tasks")
}

// pathSegment returns the single path segment between prefix and suffix,
// or "" if uri does not have that shape.
func pathSegment(uri, prefix, suffix string) string {
	rest, ok := strings.CutPrefix(uri, prefix)
	if !ok {
		return ""
	}
	id, ok := strings.CutSuffix(rest, suffix)
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}
