package repository

import (
	"context"
	"errors"

	"workflow-builder/backend/pkg/models"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("not found")

// UserStore is an interface for storing and retrieving users.
type UserStore interface {
	// GetUser retrieves a user by its ID.
	GetUser(ctx context.Context, id string) (*models.User, error)
	// GetUserByUsername retrieves the first user with the given username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// CreateUser saves a new user and assigns its ID.
	CreateUser(ctx context.Context, user models.InsertUser) (*models.User, error)
}

// WorkflowStore is an interface for storing and retrieving workflows.
type WorkflowStore interface {
	// ListWorkflows returns every workflow in insertion order.
	ListWorkflows(ctx context.Context) ([]*models.Workflow, error)
	// GetWorkflow retrieves a workflow by its ID.
	GetWorkflow(ctx context.Context, id string) (*models.Workflow, error)
	// CreateWorkflow saves a new workflow and assigns its ID and timestamps.
	CreateWorkflow(ctx context.Context, workflow models.InsertWorkflow) (*models.Workflow, error)
	// UpdateWorkflow applies a partial update to an existing workflow.
	UpdateWorkflow(ctx context.Context, id string, update models.UpdateWorkflow) (*models.Workflow, error)
	// DeleteWorkflow removes a workflow.
	DeleteWorkflow(ctx context.Context, id string) error
}

// Repository is the full storage surface used by the service layer.
type Repository interface {
	UserStore
	WorkflowStore
}
