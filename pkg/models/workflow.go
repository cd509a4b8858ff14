package models

import (
	"time"
)

// Position is the location of a node on the editor canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the display and configuration payload attached to a node.
type NodeData struct {
	Label       string                 `json:"label"`
	Description string                 `json:"description,omitempty"`
	Category    string                 `json:"category,omitempty"`
	Config      map[string]interface{} `json:"config,omitempty"`
}

// WorkflowNode is a single trigger, action or transform step in the graph.
type WorkflowNode struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"` // Catalog node type
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// WorkflowEdge is a directed connection between two nodes.
type WorkflowEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Workflow is a named graph of nodes and edges representing an automation.
type Workflow struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Nodes       []WorkflowNode `json:"nodes"`
	Edges       []WorkflowEdge `json:"edges"`
	IsActive    bool           `json:"isActive"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// InsertWorkflow is the payload accepted when creating a workflow.
type InsertWorkflow struct {
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Nodes       []WorkflowNode `json:"nodes,omitempty"`
	Edges       []WorkflowEdge `json:"edges,omitempty"`
	IsActive    bool           `json:"isActive,omitempty"`
}

// UpdateWorkflow is a partial update. Nil fields are left untouched.
type UpdateWorkflow struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Nodes       *[]WorkflowNode `json:"nodes,omitempty"`
	Edges       *[]WorkflowEdge `json:"edges,omitempty"`
	IsActive    *bool           `json:"isActive,omitempty"`
}

// Clone returns a deep copy so callers can't reach into stored state.
func (w *Workflow) Clone() *Workflow {
	if w == nil {
		return nil
	}
	out := *w
	if w.Description != nil {
		d := *w.Description
		out.Description = &d
	}
	out.Nodes = cloneNodes(w.Nodes)
	out.Edges = append(make([]WorkflowEdge, 0, len(w.Edges)), w.Edges...)
	return &out
}

func cloneNodes(nodes []WorkflowNode) []WorkflowNode {
	out := make([]WorkflowNode, len(nodes))
	for i, n := range nodes {
		out[i] = n
		if n.Data.Config != nil {
			cfg := make(map[string]interface{}, len(n.Data.Config))
			for k, v := range n.Data.Config {
				cfg[k] = v
			}
			out[i].Data.Config = cfg
		}
	}
	return out
}
