package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-builder/backend/pkg/models"
)

func TestWorkflowClient(t *testing.T) {
	var created models.InsertWorkflow
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/workflows":
			_ = json.NewEncoder(w).Encode([]models.Workflow{{ID: "w1", Name: "Existing"}})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/workflows":
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(models.Workflow{ID: "w2", Name: created.Name})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/workflows/w2/execute":
			_ = json.NewEncoder(w).Encode(models.ExecutionResponse{
				Message:   "Workflow execution started",
				Execution: &models.Execution{WorkflowID: "w2", Status: models.ExecutionStatusRunning},
			})
		default:
			w.Header().Set("Content-Type", "application/problem+json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"type":"about:blank","title":"Not Found","status":404,"detail":"workflow not found"}`))
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c := NewWorkflowClient(srv.URL+"/", time.Second)

	list, err := c.ListWorkflows(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Existing", list[0].Name)

	wf, err := c.CreateWorkflow(ctx, models.InsertWorkflow{Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "w2", wf.ID)
	assert.Equal(t, "New", created.Name)

	resp, err := c.ExecuteWorkflow(ctx, "w2")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusRunning, resp.Execution.Status)

	_, err = c.ExecuteWorkflow(ctx, "missing")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "workflow not found", apiErr.Detail)
}

func TestWorkflowClientPlainError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewWorkflowClient(srv.URL, time.Second).ListWorkflows(context.Background())
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Title)
	assert.Empty(t, apiErr.Detail)
}
