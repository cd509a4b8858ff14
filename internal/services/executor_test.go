package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-builder/backend/pkg/models"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.ExecutionEvent
}

func (p *recordingPublisher) Publish(event models.ExecutionEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) statuses() []models.ExecutionStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []models.ExecutionStatus
	for _, e := range p.events {
		if e.Type == "status" {
			out = append(out, e.Status)
		}
	}
	return out
}

func chain(ids ...string) *models.Workflow {
	wf := &models.Workflow{ID: "wf-1"}
	for i, id := range ids {
		wf.Nodes = append(wf.Nodes, models.WorkflowNode{ID: id, Type: "delay", Data: models.NodeData{Label: id}})
		if i > 0 {
			wf.Edges = append(wf.Edges, models.WorkflowEdge{ID: "e-" + id, Source: ids[i-1], Target: id})
		}
	}
	return wf
}

func TestExecutor_RunsToCompletion(t *testing.T) {
	pub := &recordingPublisher{}
	ex := NewExecutor(time.Millisecond, WithPublisher(pub))
	defer ex.Close()

	exec, err := ex.Execute(context.Background(), chain("a", "b", "c"))
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusRunning, exec.Status)
	assert.Equal(t, 3, exec.TotalSteps)
	assert.NotEmpty(t, exec.ID)

	require.Eventually(t, func() bool {
		return ex.Status("wf-1").Status == models.ExecutionStatusCompleted
	}, 2*time.Second, 5*time.Millisecond)

	final := ex.Status("wf-1")
	assert.Equal(t, 3, final.CurrentStep)
	assert.NotNil(t, final.FinishedAt)
	for _, step := range final.Steps {
		assert.Equal(t, models.ExecutionStatusCompleted, step.Status)
	}
	assert.Equal(t, []models.ExecutionStatus{models.ExecutionStatusRunning, models.ExecutionStatusCompleted}, pub.statuses())
}

func TestExecutor_SimulatedError(t *testing.T) {
	ex := NewExecutor(time.Millisecond)
	defer ex.Close()

	wf := chain("a", "b", "c")
	wf.Nodes[1].Data.Config = map[string]interface{}{SimulateErrorKey: true}

	_, err := ex.Execute(context.Background(), wf)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return ex.Status("wf-1").Status == models.ExecutionStatusError
	}, 2*time.Second, 5*time.Millisecond)

	final := ex.Status("wf-1")
	assert.Equal(t, 1, final.CurrentStep)
	assert.Equal(t, models.ExecutionStatusCompleted, final.Steps[0].Status)
	assert.Equal(t, models.ExecutionStatusError, final.Steps[1].Status)
	assert.Equal(t, models.ExecutionStatusIdle, final.Steps[2].Status)
	assert.Contains(t, final.Error, "b")
}

func TestExecutor_PauseResumeStop(t *testing.T) {
	pub := &recordingPublisher{}
	ex := NewExecutor(time.Hour, WithPublisher(pub))
	defer ex.Close()
	ctx := context.Background()

	_, err := ex.Pause(ctx, "wf-1")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = ex.Execute(ctx, chain("a", "b"))
	require.NoError(t, err)

	again, err := ex.Execute(ctx, chain("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusRunning, again.Status)

	paused, err := ex.Pause(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusPaused, paused.Status)
	assert.Equal(t, models.ExecutionStatusPaused, paused.Steps[0].Status)

	_, err = ex.Pause(ctx, "wf-1")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	resumed, err := ex.Execute(ctx, chain("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusRunning, resumed.Status)
	assert.Equal(t, paused.ID, resumed.ID)

	stopped, err := ex.Stop(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusStopped, stopped.Status)
	assert.NotNil(t, stopped.FinishedAt)

	_, err = ex.Stop(ctx, "wf-1")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	restarted, err := ex.Execute(ctx, chain("a", "b"))
	require.NoError(t, err)
	assert.NotEqual(t, stopped.ID, restarted.ID)
	assert.Equal(t, 0, restarted.CurrentStep)

	assert.Equal(t, []models.ExecutionStatus{
		models.ExecutionStatusRunning,
		models.ExecutionStatusPaused,
		models.ExecutionStatusRunning,
		models.ExecutionStatusStopped,
		models.ExecutionStatusRunning,
	}, pub.statuses())
}

func TestExecutor_EmptyWorkflowCompletesImmediately(t *testing.T) {
	ex := NewExecutor(time.Hour)
	defer ex.Close()

	exec, err := ex.Execute(context.Background(), &models.Workflow{ID: "empty"})
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusCompleted, exec.Status)
	assert.Equal(t, 0, exec.TotalSteps)
}

func TestExecutor_StatusAndForget(t *testing.T) {
	ex := NewExecutor(time.Hour)
	defer ex.Close()

	idle := ex.Status("unknown")
	assert.Equal(t, models.ExecutionStatusIdle, idle.Status)
	assert.Empty(t, idle.Steps)

	_, err := ex.Execute(context.Background(), chain("a"))
	require.NoError(t, err)
	ex.Forget("wf-1")
	assert.Equal(t, models.ExecutionStatusIdle, ex.Status("wf-1").Status)
}

func TestExecutor_SnapshotsAreCopies(t *testing.T) {
	ex := NewExecutor(time.Hour)
	defer ex.Close()

	exec, err := ex.Execute(context.Background(), chain("a", "b"))
	require.NoError(t, err)
	exec.Steps[0].Status = models.ExecutionStatusError

	assert.Equal(t, models.ExecutionStatusRunning, ex.Status("wf-1").Steps[0].Status)
}

func TestPlanOrder(t *testing.T) {
	nodes := []models.WorkflowNode{{ID: "c"}, {ID: "a"}, {ID: "b"}, {ID: "d"}}

	t.Run("topological with stable ties", func(t *testing.T) {
		edges := []models.WorkflowEdge{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "c"},
			{Source: "a", Target: "ghost"},
			{Source: "d", Target: "d"},
		}
		assert.Equal(t, []string{"a", "b", "c", "d"}, ids(PlanOrder(nodes, edges)))
	})

	t.Run("cycle falls back to stored order", func(t *testing.T) {
		edges := []models.WorkflowEdge{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "a"},
		}
		assert.Equal(t, []string{"c", "d", "a", "b"}, ids(PlanOrder(nodes, edges)))
	})

	t.Run("no edges keeps stored order", func(t *testing.T) {
		assert.Equal(t, []string{"c", "a", "b", "d"}, ids(PlanOrder(nodes, nil)))
	})
}

func ids(nodes []models.WorkflowNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}
