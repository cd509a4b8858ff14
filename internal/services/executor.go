package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"workflow-builder/backend/internal/logging"
	"workflow-builder/backend/pkg/models"
)

// SimulateErrorKey is the node config key that makes a simulated step fail.
const SimulateErrorKey = "simulateError"

// Executor drives simulated workflow runs. Nothing is actually executed: one
// node "completes" per step delay until the run finishes, errors, is paused
// or is stopped. There is at most one run per workflow.
type Executor struct {
	mu        sync.Mutex
	runs      map[string]*run
	stepDelay time.Duration

	publisher EventPublisher
	metrics   *executionMetrics
	logger    *logging.Logger
	now       func() time.Time
}

type run struct {
	exec  models.Execution
	nodes []models.WorkflowNode
	timer *time.Timer
	// token invalidates timers that fire after a pause, stop or restart.
	token uint64
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithPublisher sets where execution events are sent.
func WithPublisher(p EventPublisher) ExecutorOption {
	return func(e *Executor) {
		if p != nil {
			e.publisher = p
		}
	}
}

// WithMeter sets the meter used for execution counters.
func WithMeter(m metric.Meter) ExecutorOption {
	return func(e *Executor) { e.metrics = newExecutionMetrics(m) }
}

// WithExecutorLogger sets the executor's logger.
func WithExecutorLogger(l *logging.Logger) ExecutorOption {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExecutor creates an Executor that advances one node per stepDelay.
func NewExecutor(stepDelay time.Duration, opts ...ExecutorOption) *Executor {
	if stepDelay <= 0 {
		stepDelay = time.Second
	}
	e := &Executor{
		runs:      make(map[string]*run),
		stepDelay: stepDelay,
		publisher: nopPublisher{},
		logger:    logging.NewNop(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = newExecutionMetrics(nil)
	}
	return e
}

// Execute starts a run for the workflow, resumes it if paused, or returns the
// current run unchanged if it is already running.
func (e *Executor) Execute(ctx context.Context, workflow *models.Workflow) (*models.Execution, error) {
	e.mu.Lock()
	var events []models.ExecutionEvent
	r, ok := e.runs[workflow.ID]

	switch {
	case ok && r.exec.Status == models.ExecutionStatusRunning:
		snapshot := cloneExecution(r.exec)
		e.mu.Unlock()
		return snapshot, nil

	case ok && r.exec.Status == models.ExecutionStatusPaused:
		events = append(events, e.transition(r, models.ExecutionStatusRunning))
		e.schedule(workflow.ID, r)

	default:
		if ok {
			e.cancel(r)
		}
		r = e.newRun(workflow)
		e.runs[workflow.ID] = r
		events = append(events, e.transition(r, models.ExecutionStatusRunning))
		if r.exec.TotalSteps == 0 {
			events = append(events, e.finish(r, models.ExecutionStatusCompleted, ""))
		} else {
			e.schedule(workflow.ID, r)
		}
	}

	snapshot := cloneExecution(r.exec)
	e.emit(ctx, events)
	e.mu.Unlock()

	e.logger.Info("Execution requested", "workflow_id", workflow.ID, "run_id", snapshot.ID, "status", snapshot.Status)
	return snapshot, nil
}

// Pause suspends a running run.
func (e *Executor) Pause(ctx context.Context, workflowID string) (*models.Execution, error) {
	e.mu.Lock()
	r, ok := e.runs[workflowID]
	if !ok || r.exec.Status != models.ExecutionStatusRunning {
		status := models.ExecutionStatusIdle
		if ok {
			status = r.exec.Status
		}
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot pause a %s execution", ErrInvalidTransition, status)
	}

	e.cancel(r)
	e.markCurrentStep(r, models.ExecutionStatusPaused)
	event := e.transition(r, models.ExecutionStatusPaused)
	snapshot := cloneExecution(r.exec)
	e.emit(ctx, []models.ExecutionEvent{event})
	e.mu.Unlock()

	return snapshot, nil
}

// Stop terminates a running or paused run.
func (e *Executor) Stop(ctx context.Context, workflowID string) (*models.Execution, error) {
	e.mu.Lock()
	r, ok := e.runs[workflowID]
	if !ok || (r.exec.Status != models.ExecutionStatusRunning && r.exec.Status != models.ExecutionStatusPaused) {
		status := models.ExecutionStatusIdle
		if ok {
			status = r.exec.Status
		}
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot stop a %s execution", ErrInvalidTransition, status)
	}

	e.cancel(r)
	e.markCurrentStep(r, models.ExecutionStatusStopped)
	event := e.finish(r, models.ExecutionStatusStopped, "")
	snapshot := cloneExecution(r.exec)
	e.emit(ctx, []models.ExecutionEvent{event})
	e.mu.Unlock()

	return snapshot, nil
}

// Status returns the current or last run, or an idle snapshot.
func (e *Executor) Status(workflowID string) *models.Execution {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.runs[workflowID]
	if !ok {
		return &models.Execution{WorkflowID: workflowID, Status: models.ExecutionStatusIdle, Steps: []models.ExecutionStep{}}
	}
	return cloneExecution(r.exec)
}

// Forget cancels and drops any run for the workflow.
func (e *Executor) Forget(workflowID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if r, ok := e.runs[workflowID]; ok {
		e.cancel(r)
		delete(e.runs, workflowID)
	}
}

// Close cancels every pending timer.
func (e *Executor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for id, r := range e.runs {
		e.cancel(r)
		delete(e.runs, id)
	}
}

func (e *Executor) newRun(workflow *models.Workflow) *run {
	nodes := PlanOrder(workflow.Nodes, workflow.Edges)
	steps := make([]models.ExecutionStep, len(nodes))
	for i, n := range nodes {
		steps[i] = models.ExecutionStep{
			NodeID:   n.ID,
			NodeType: n.Type,
			Label:    n.Data.Label,
			Status:   models.ExecutionStatusIdle,
		}
	}
	now := e.now()
	return &run{
		nodes: nodes,
		exec: models.Execution{
			ID:         uuid.New().String(),
			WorkflowID: workflow.ID,
			Status:     models.ExecutionStatusIdle,
			TotalSteps: len(nodes),
			Steps:      steps,
			StartedAt:  &now,
		},
	}
}

// schedule arms the timer for the current step. Caller holds e.mu.
func (e *Executor) schedule(workflowID string, r *run) {
	r.token++
	token := r.token
	e.markCurrentStep(r, models.ExecutionStatusRunning)
	r.timer = time.AfterFunc(e.stepDelay, func() { e.advance(workflowID, r, token) })
}

// cancel disarms any pending timer. Caller holds e.mu.
func (e *Executor) cancel(r *run) {
	r.token++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (e *Executor) advance(workflowID string, r *run, token uint64) {
	e.mu.Lock()
	if e.runs[workflowID] != r || r.token != token || r.exec.Status != models.ExecutionStatusRunning {
		e.mu.Unlock()
		return
	}

	var events []models.ExecutionEvent
	idx := r.exec.CurrentStep
	node := r.nodes[idx]
	now := e.now()
	r.exec.Steps[idx].FinishedAt = &now
	r.timer = nil

	if shouldFail(node) {
		r.exec.Steps[idx].Status = models.ExecutionStatusError
		events = append(events, e.stepEvent(r, node.ID, models.ExecutionStatusError))
		events = append(events, e.finish(r, models.ExecutionStatusError,
			fmt.Sprintf("node %q failed", nodeName(node))))
	} else {
		r.exec.Steps[idx].Status = models.ExecutionStatusCompleted
		r.exec.CurrentStep++
		events = append(events, e.stepEvent(r, node.ID, models.ExecutionStatusCompleted))
		if r.exec.CurrentStep >= r.exec.TotalSteps {
			events = append(events, e.finish(r, models.ExecutionStatusCompleted, ""))
		} else {
			e.schedule(workflowID, r)
		}
	}
	e.metrics.recordStep(context.Background(), node.Type)
	e.emit(context.Background(), events)
	e.mu.Unlock()
}

func (e *Executor) transition(r *run, status models.ExecutionStatus) models.ExecutionEvent {
	now := e.now()
	r.exec.Status = status
	r.exec.UpdatedAt = &now
	return models.ExecutionEvent{
		Type:       "status",
		WorkflowID: r.exec.WorkflowID,
		RunID:      r.exec.ID,
		Status:     status,
		Timestamp:  now,
	}
}

func (e *Executor) finish(r *run, status models.ExecutionStatus, reason string) models.ExecutionEvent {
	event := e.transition(r, status)
	r.exec.FinishedAt = r.exec.UpdatedAt
	r.exec.Error = reason
	return event
}

func (e *Executor) stepEvent(r *run, nodeID string, status models.ExecutionStatus) models.ExecutionEvent {
	return models.ExecutionEvent{
		Type:       "step",
		WorkflowID: r.exec.WorkflowID,
		RunID:      r.exec.ID,
		Status:     status,
		NodeID:     nodeID,
		Timestamp:  e.now(),
	}
}

func (e *Executor) markCurrentStep(r *run, status models.ExecutionStatus) {
	if r.exec.CurrentStep < len(r.exec.Steps) {
		r.exec.Steps[r.exec.CurrentStep].Status = status
	}
}

// emit records and publishes events. Caller holds e.mu so subscribers see
// events in order.
func (e *Executor) emit(ctx context.Context, events []models.ExecutionEvent) {
	for _, ev := range events {
		if ev.Type == "status" {
			e.metrics.recordTransition(ctx, ev.Status)
			e.logger.Debug("Execution status changed", "workflow_id", ev.WorkflowID, "run_id", ev.RunID, "status", ev.Status)
		}
		e.publisher.Publish(ev)
	}
}

func shouldFail(node models.WorkflowNode) bool {
	switch v := node.Data.Config[SimulateErrorKey].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

func nodeName(node models.WorkflowNode) string {
	if node.Data.Label != "" {
		return node.Data.Label
	}
	return node.ID
}

func cloneExecution(exec models.Execution) *models.Execution {
	out := exec
	out.Steps = append(make([]models.ExecutionStep, 0, len(exec.Steps)), exec.Steps...)
	return &out
}

// PlanOrder returns the nodes in topological order of the edges. Ties keep
// the stored node order; edges to unknown nodes and self-loops are ignored,
// and nodes caught in a cycle are appended in stored order.
func PlanOrder(nodes []models.WorkflowNode, edges []models.WorkflowEdge) []models.WorkflowNode {
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if _, dup := index[n.ID]; !dup {
			index[n.ID] = i
		}
	}

	inDegree := make([]int, len(nodes))
	next := make([][]int, len(nodes))
	for _, edge := range edges {
		s, okS := index[edge.Source]
		t, okT := index[edge.Target]
		if !okS || !okT || s == t {
			continue
		}
		next[s] = append(next[s], t)
		inDegree[t]++
	}

	ordered := make([]models.WorkflowNode, 0, len(nodes))
	done := make([]bool, len(nodes))
	for {
		progressed := false
		for i := range nodes {
			if done[i] || inDegree[i] > 0 {
				continue
			}
			done[i] = true
			progressed = true
			ordered = append(ordered, nodes[i])
			for _, t := range next[i] {
				inDegree[t]--
			}
			// Restart so a newly freed earlier node wins over later ones.
			break
		}
		if !progressed {
			break
		}
	}

	for i, n := range nodes {
		if !done[i] {
			ordered = append(ordered, n)
		}
	}
	return ordered
}
