package services

import "workflow-builder/backend/pkg/models"

// EventPublisher receives execution events as they happen. Implementations
// must not block.
type EventPublisher interface {
	Publish(event models.ExecutionEvent)
}

// EventPublisherFunc adapts a function to EventPublisher.
type EventPublisherFunc func(event models.ExecutionEvent)

// Publish calls f(event).
func (f EventPublisherFunc) Publish(event models.ExecutionEvent) { f(event) }

type nopPublisher struct{}

func (nopPublisher) Publish(models.ExecutionEvent) {}
