package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-builder/backend/internal/catalog"
	"workflow-builder/backend/internal/repository"
	"workflow-builder/backend/internal/services"
	"workflow-builder/backend/pkg/models"
)

func newTestServer(t *testing.T) (*Server, *services.WorkflowService) {
	t.Helper()
	executor := services.NewExecutor(time.Hour)
	t.Cleanup(executor.Close)
	workflows := services.NewWorkflowService(repository.NewMemoryStore(), executor, catalog.Default(), nil)
	return NewServer(workflows, "test"), workflows
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestListAndGetWorkflow(t *testing.T) {
	ctx := context.Background()
	s, workflows := newTestServer(t)

	created, err := workflows.Create(ctx, models.InsertWorkflow{Name: "Tooling", IsActive: true})
	require.NoError(t, err)
	_, err = workflows.Create(ctx, models.InsertWorkflow{Name: "Draft"})
	require.NoError(t, err)

	result, err := s.handleListWorkflows(ctx, callRequest("list_workflows", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	var all []models.Workflow
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &all))
	assert.Len(t, all, 2)

	result, err = s.handleListWorkflows(ctx, callRequest("list_workflows", map[string]interface{}{"active": true}))
	require.NoError(t, err)
	var active []models.Workflow
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &active))
	require.Len(t, active, 1)
	assert.Equal(t, created.ID, active[0].ID)

	result, err = s.handleGetWorkflow(ctx, callRequest("get_workflow", map[string]interface{}{"id": created.ID}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	var got models.Workflow
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &got))
	assert.Equal(t, "Tooling", got.Name)
}

func TestToolErrors(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestServer(t)

	result, err := s.handleGetWorkflow(ctx, callRequest("get_workflow", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Missing required parameter: id")

	result, err = s.handleExecuteWorkflow(ctx, callRequest("execute_workflow", map[string]interface{}{"id": "ghost"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "not found")

	result, err = s.handleValidateWorkflow(ctx, callRequest("validate_workflow", map[string]interface{}{"id": "ghost"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestExecuteAndStopWorkflow(t *testing.T) {
	ctx := context.Background()
	s, workflows := newTestServer(t)

	wf, err := workflows.Create(ctx, models.InsertWorkflow{
		Name:  "Runnable",
		Nodes: []models.WorkflowNode{{ID: "a", Type: "manual-trigger"}, {ID: "b", Type: "merge"}},
	})
	require.NoError(t, err)
	args := map[string]interface{}{"id": wf.ID}

	result, err := s.handleExecuteWorkflow(ctx, callRequest("execute_workflow", args))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))
	var started models.ExecutionResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &started))
	assert.Equal(t, models.ExecutionStatusRunning, started.Execution.Status)

	result, err = s.handleStopWorkflow(ctx, callRequest("stop_workflow", args))
	require.NoError(t, err)
	require.False(t, result.IsError)
	var stopped models.ExecutionResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &stopped))
	assert.Equal(t, models.ExecutionStatusStopped, stopped.Execution.Status)

	result, err = s.handleStopWorkflow(ctx, callRequest("stop_workflow", args))
	require.NoError(t, err)
	assert.True(t, result.IsError, "stopping a finished run is rejected")
}

func TestValidateWorkflowTool(t *testing.T) {
	ctx := context.Background()
	s, workflows := newTestServer(t)

	wf, err := workflows.Create(ctx, models.InsertWorkflow{
		Name:  "Broken",
		Nodes: []models.WorkflowNode{{ID: "a", Type: "teleport"}},
	})
	require.NoError(t, err)

	result, err := s.handleValidateWorkflow(ctx, callRequest("validate_workflow", map[string]interface{}{"id": wf.ID}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	var report models.ValidationReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &report))
	assert.False(t, report.Valid)
}
