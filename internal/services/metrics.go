package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"workflow-builder/backend/pkg/models"
)

const meterName = "workflow-builder/backend/internal/services"

type executionMetrics struct {
	transitions metric.Int64Counter
	steps       metric.Int64Counter
}

func newExecutionMetrics(meter metric.Meter) *executionMetrics {
	if meter == nil {
		meter = otel.Meter(meterName)
	}

	m := &executionMetrics{}
	var err error
	m.transitions, err = meter.Int64Counter(
		"workflow.executions.transitions",
		metric.WithDescription("Simulated execution status transitions"),
	)
	if err != nil {
		m.transitions = noop.Int64Counter{}
	}
	m.steps, err = meter.Int64Counter(
		"workflow.executions.steps",
		metric.WithDescription("Simulated node steps completed"),
	)
	if err != nil {
		m.steps = noop.Int64Counter{}
	}
	return m
}

func (m *executionMetrics) recordTransition(ctx context.Context, status models.ExecutionStatus) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(status))))
}

func (m *executionMetrics) recordStep(ctx context.Context, nodeType string) {
	m.steps.Add(ctx, 1, metric.WithAttributes(attribute.String("node_type", nodeType)))
}
