package services

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/robfig/cron/v3"

	"workflow-builder/backend/internal/catalog"
	"workflow-builder/backend/pkg/models"
)

// ValidateWorkflow inspects a workflow graph against the node catalog. The
// report is advisory: saving never depends on it.
func ValidateWorkflow(cat *catalog.Catalog, workflow *models.Workflow) models.ValidationReport {
	v := &validator{catalog: cat}
	v.check(workflow)

	report := models.ValidationReport{Valid: true, Issues: v.issues}
	if report.Issues == nil {
		report.Issues = []models.ValidationIssue{}
	}
	for _, issue := range report.Issues {
		if issue.Severity == models.SeverityError {
			report.Valid = false
			break
		}
	}
	return report
}

type validator struct {
	catalog *catalog.Catalog
	issues  []models.ValidationIssue
}

func (v *validator) errorf(nodeID, edgeID, format string, args ...interface{}) {
	v.issues = append(v.issues, models.ValidationIssue{
		Severity: models.SeverityError,
		NodeID:   nodeID,
		EdgeID:   edgeID,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (v *validator) warnf(nodeID, edgeID, format string, args ...interface{}) {
	v.issues = append(v.issues, models.ValidationIssue{
		Severity: models.SeverityWarning,
		NodeID:   nodeID,
		EdgeID:   edgeID,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (v *validator) check(workflow *models.Workflow) {
	if len(workflow.Nodes) == 0 {
		v.warnf("", "", "workflow has no nodes")
		return
	}

	nodes := make(map[string]bool, len(workflow.Nodes))
	hasTrigger := false
	for _, node := range workflow.Nodes {
		if node.ID == "" {
			v.errorf("", "", "node %q has an empty id", node.Data.Label)
		} else if nodes[node.ID] {
			v.errorf(node.ID, "", "duplicate node id %q", node.ID)
		}
		nodes[node.ID] = true

		nodeType, ok := v.catalog.Get(node.Type)
		if !ok {
			v.errorf(node.ID, "", "unknown node type %q", node.Type)
			continue
		}
		if nodeType.Category == catalog.CategoryTrigger {
			hasTrigger = true
		}
		v.checkConfig(node, nodeType)
	}
	if !hasTrigger {
		v.warnf("", "", "workflow has no trigger node")
	}

	edges := make(map[string]bool, len(workflow.Edges))
	for _, edge := range workflow.Edges {
		if edge.ID != "" && edges[edge.ID] {
			v.errorf("", edge.ID, "duplicate edge id %q", edge.ID)
		}
		edges[edge.ID] = true

		if !nodes[edge.Source] {
			v.errorf("", edge.ID, "edge source %q does not exist", edge.Source)
		}
		if !nodes[edge.Target] {
			v.errorf("", edge.ID, "edge target %q does not exist", edge.Target)
		}
		if edge.Source == edge.Target {
			v.warnf(edge.Source, edge.ID, "edge connects node %q to itself", edge.Source)
		}
	}

	if hasCycle(workflow.Nodes, workflow.Edges) {
		v.warnf("", "", "graph contains a cycle; execution order falls back to node order")
	}
}

func (v *validator) checkConfig(node models.WorkflowNode, nodeType catalog.NodeType) {
	for _, field := range nodeType.Fields {
		value, present := node.Data.Config[field.Name]
		if !present || isBlank(value) {
			if field.Required && field.Default == nil {
				v.errorf(node.ID, "", "%s: missing required field %q", nodeType.Label, field.Name)
			}
			continue
		}

		switch field.Kind {
		case catalog.KindCron:
			spec, ok := value.(string)
			if !ok {
				v.errorf(node.ID, "", "%s: field %q must be a string", nodeType.Label, field.Name)
				continue
			}
			if _, err := cron.ParseStandard(spec); err != nil {
				v.errorf(node.ID, "", "%s: invalid cron expression %q: %v", nodeType.Label, spec, err)
			}
		case catalog.KindExpression:
			src, ok := value.(string)
			if !ok {
				v.errorf(node.ID, "", "%s: field %q must be a string", nodeType.Label, field.Name)
				continue
			}
			if _, err := expr.Compile(src, expr.AsBool()); err != nil {
				v.errorf(node.ID, "", "%s: invalid condition %q: %v", nodeType.Label, src, err)
			}
		case catalog.KindNumber:
			switch value.(type) {
			case float64, float32, int, int64:
			default:
				v.errorf(node.ID, "", "%s: field %q must be a number", nodeType.Label, field.Name)
			}
		case catalog.KindObject:
			if _, ok := value.(map[string]interface{}); !ok {
				v.errorf(node.ID, "", "%s: field %q must be an object", nodeType.Label, field.Name)
			}
		}
	}
}

func isBlank(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	}
	return false
}

func hasCycle(nodes []models.WorkflowNode, edges []models.WorkflowEdge) bool {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}
	// Self-loops are reported separately.
	filtered := edges[:0:0]
	for _, e := range edges {
		if known[e.Source] && known[e.Target] && e.Source != e.Target {
			filtered = append(filtered, e)
		}
	}

	ordered := PlanOrder(nodes, filtered)
	seen := make(map[string]int, len(ordered))
	for i, n := range ordered {
		if _, ok := seen[n.ID]; !ok {
			seen[n.ID] = i
		}
	}
	for _, e := range filtered {
		if seen[e.Source] >= seen[e.Target] {
			return true
		}
	}
	return false
}
