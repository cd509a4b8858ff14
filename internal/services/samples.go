package services

import "workflow-builder/backend/pkg/models"

func describe(s string) *string { return &s }

// SampleWorkflows returns the demo workflows loaded by the seed command and
// the --seed server flag.
func SampleWorkflows() []models.InsertWorkflow {
	return []models.InsertWorkflow{
		{
			Name:        "Lead Notification",
			Description: describe("Post new webhook leads to Slack and email sales."),
			IsActive:    true,
			Nodes: []models.WorkflowNode{
				node("trigger-1", "webhook-trigger", "New Lead", "trigger", 100, 100, map[string]interface{}{"path": "/leads", "method": "POST"}),
				node("filter-1", "filter", "Qualified Only", "transform", 350, 100, map[string]interface{}{"condition": "lead.score >= 50"}),
				node("slack-1", "slack-message", "Notify Sales Channel", "action", 600, 50, map[string]interface{}{"channel": "#sales", "text": "New qualified lead"}),
				node("email-1", "send-email", "Email Account Owner", "action", 600, 175, map[string]interface{}{"to": "owner@example.com", "subject": "New lead"}),
			},
			Edges: []models.WorkflowEdge{
				{ID: "e1", Source: "trigger-1", Target: "filter-1"},
				{ID: "e2", Source: "filter-1", Target: "slack-1"},
				{ID: "e3", Source: "filter-1", Target: "email-1"},
			},
		},
		{
			Name:        "Nightly Report",
			Description: describe("Query yesterday's orders every night and mail a summary."),
			Nodes: []models.WorkflowNode{
				node("trigger-1", "schedule-trigger", "Every Night", "trigger", 100, 100, map[string]interface{}{"cron": "0 2 * * *"}),
				node("query-1", "database-query", "Load Orders", "action", 350, 100, map[string]interface{}{"query": "SELECT * FROM orders WHERE day = current_date - 1"}),
				node("map-1", "map-fields", "Summarize", "transform", 600, 100, map[string]interface{}{"mapping": map[string]interface{}{"total": "sum(amount)"}}),
				node("email-1", "send-email", "Send Report", "action", 850, 100, map[string]interface{}{"to": "reports@example.com", "subject": "Nightly orders"}),
			},
			Edges: []models.WorkflowEdge{
				{ID: "e1", Source: "trigger-1", Target: "query-1"},
				{ID: "e2", Source: "query-1", Target: "map-1"},
				{ID: "e3", Source: "map-1", Target: "email-1"},
			},
		},
		{
			Name:        "Manual Sync",
			Description: describe("Push records to a partner API on demand."),
			Nodes: []models.WorkflowNode{
				node("trigger-1", "manual-trigger", "Run Now", "trigger", 100, 100, nil),
				node("http-1", "http-request", "Push to Partner", "action", 350, 100, map[string]interface{}{"url": "https://partner.example.com/sync", "method": "POST"}),
			},
			Edges: []models.WorkflowEdge{
				{ID: "e1", Source: "trigger-1", Target: "http-1"},
			},
		},
	}
}

func node(id, nodeType, label, category string, x, y float64, config map[string]interface{}) models.WorkflowNode {
	return models.WorkflowNode{
		ID:       id,
		Type:     nodeType,
		Position: models.Position{X: x, Y: y},
		Data: models.NodeData{
			Label:    label,
			Category: category,
			Config:   config,
		},
	}
}
