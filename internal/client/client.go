// Package client is a small HTTP client for the workflow REST API, used by
// the seed command.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"workflow-builder/backend/pkg/models"
)

const apiPrefix = "/api/v1"

// Error is a non-2xx response, decoded from its problem+json body when
// one is present.
type Error struct {
	StatusCode int
	Title      string
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("workflow api: %d %s: %s", e.StatusCode, e.Title, e.Detail)
	}
	return fmt.Sprintf("workflow api: %d %s", e.StatusCode, e.Title)
}

// WorkflowClient talks to a running workflow builder server.
type WorkflowClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewWorkflowClient creates a client for the server at baseURL.
func NewWorkflowClient(baseURL string, timeout time.Duration) *WorkflowClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WorkflowClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListWorkflows returns every stored workflow.
func (c *WorkflowClient) ListWorkflows(ctx context.Context) ([]models.Workflow, error) {
	var out []models.Workflow
	if err := c.do(ctx, http.MethodGet, "/workflows", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateWorkflow stores a new workflow.
func (c *WorkflowClient) CreateWorkflow(ctx context.Context, insert models.InsertWorkflow) (*models.Workflow, error) {
	var out models.Workflow
	if err := c.do(ctx, http.MethodPost, "/workflows", insert, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExecuteWorkflow starts or resumes a simulated run.
func (c *WorkflowClient) ExecuteWorkflow(ctx context.Context, id string) (*models.ExecutionResponse, error) {
	var out models.ExecutionResponse
	if err := c.do(ctx, http.MethodPost, "/workflows/"+id+"/execute", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *WorkflowClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}
	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&problem); err == nil {
		if problem.Title != "" {
			apiErr.Title = problem.Title
		}
		apiErr.Detail = problem.Detail
	}
	return apiErr
}
