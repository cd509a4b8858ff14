package models

import "time"

// ExecutionStatus is the lifecycle state of a simulated workflow run.
type ExecutionStatus string

const (
	ExecutionStatusIdle      ExecutionStatus = "idle"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusPaused    ExecutionStatus = "paused"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusError     ExecutionStatus = "error"
	ExecutionStatusStopped   ExecutionStatus = "stopped"
)

// Terminal reports whether no further transition can happen without a new run.
func (s ExecutionStatus) Terminal() bool {
	switch s {
	case ExecutionStatusCompleted, ExecutionStatusError, ExecutionStatusStopped:
		return true
	}
	return false
}

// ExecutionStep is the simulated result of a single node.
type ExecutionStep struct {
	NodeID     string          `json:"nodeId"`
	NodeType   string          `json:"nodeType"`
	Label      string          `json:"label"`
	Status     ExecutionStatus `json:"status"`
	FinishedAt *time.Time      `json:"finishedAt,omitempty"`
}

// Execution is a snapshot of a workflow's current (or last) simulated run.
type Execution struct {
	ID          string          `json:"id,omitempty"`
	WorkflowID  string          `json:"workflowId"`
	Status      ExecutionStatus `json:"status"`
	CurrentStep int             `json:"currentStep"`
	TotalSteps  int             `json:"totalSteps"`
	Steps       []ExecutionStep `json:"steps"`
	Error       string          `json:"error,omitempty"`
	StartedAt   *time.Time      `json:"startedAt,omitempty"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
	FinishedAt  *time.Time      `json:"finishedAt,omitempty"`
}

// ExecutionEvent is published on every run transition and completed step.
type ExecutionEvent struct {
	Type       string          `json:"type"` // "status" or "step"
	WorkflowID string          `json:"workflowId"`
	RunID      string          `json:"runId"`
	Status     ExecutionStatus `json:"status"`
	NodeID     string          `json:"nodeId,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// ExecutionResponse mirrors the execute/pause/stop reply: a human message
// plus the run snapshot.
type ExecutionResponse struct {
	Message   string     `json:"message"`
	Execution *Execution `json:"execution"`
}

// Severity of a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationIssue describes a single problem found in a workflow graph.
type ValidationIssue struct {
	Severity Severity `json:"severity"`
	NodeID   string   `json:"nodeId,omitempty"`
	EdgeID   string   `json:"edgeId,omitempty"`
	Message  string   `json:"message"`
}

// ValidationReport is advisory; it never blocks saving a workflow.
type ValidationReport struct {
	Valid  bool              `json:"valid"`
	Issues []ValidationIssue `json:"issues"`
}
