package services

import (
	"context"
	"fmt"
	"strings"

	"workflow-builder/backend/internal/catalog"
	"workflow-builder/backend/internal/logging"
	"workflow-builder/backend/internal/repository"
	"workflow-builder/backend/pkg/models"
)

// WorkflowService is a service for managing workflows and their simulated runs.
type WorkflowService struct {
	store    repository.WorkflowStore
	executor *Executor
	catalog  *catalog.Catalog
	logger   *logging.Logger
}

// NewWorkflowService creates a new WorkflowService.
func NewWorkflowService(store repository.WorkflowStore, executor *Executor, cat *catalog.Catalog, logger *logging.Logger) *WorkflowService {
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &WorkflowService{
		store:    store,
		executor: executor,
		catalog:  cat,
		logger:   logger,
	}
}

// Catalog returns the node catalog workflows are validated against.
func (s *WorkflowService) Catalog() *catalog.Catalog {
	return s.catalog
}

// List returns all workflows, optionally filtered by their active flag.
func (s *WorkflowService) List(ctx context.Context, active *bool) ([]*models.Workflow, error) {
	workflows, err := s.store.ListWorkflows(ctx)
	if err != nil || active == nil {
		return workflows, err
	}

	filtered := make([]*models.Workflow, 0, len(workflows))
	for _, w := range workflows {
		if w.IsActive == *active {
			filtered = append(filtered, w)
		}
	}
	return filtered, nil
}

// Get retrieves a workflow by its ID.
func (s *WorkflowService) Get(ctx context.Context, id string) (*models.Workflow, error) {
	return s.store.GetWorkflow(ctx, id)
}

// Create saves a new workflow.
func (s *WorkflowService) Create(ctx context.Context, insert models.InsertWorkflow) (*models.Workflow, error) {
	insert.Name = strings.TrimSpace(insert.Name)
	if insert.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	workflow, err := s.store.CreateWorkflow(ctx, insert)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Workflow created", "workflow_id", workflow.ID, "name", workflow.Name, "nodes", len(workflow.Nodes))
	return workflow, nil
}

// Update applies a partial update.
func (s *WorkflowService) Update(ctx context.Context, id string, update models.UpdateWorkflow) (*models.Workflow, error) {
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		update.Name = &name
	}

	workflow, err := s.store.UpdateWorkflow(ctx, id, update)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Workflow updated", "workflow_id", id)
	return workflow, nil
}

// Delete removes a workflow and forgets its run, if any.
func (s *WorkflowService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteWorkflow(ctx, id); err != nil {
		return err
	}
	s.executor.Forget(id)
	s.logger.Info("Workflow deleted", "workflow_id", id)
	return nil
}

// Execute starts or resumes the simulated run of a workflow.
func (s *WorkflowService) Execute(ctx context.Context, id string) (*models.ExecutionResponse, error) {
	workflow, err := s.store.GetWorkflow(ctx, id)
	if err != nil {
		return nil, err
	}

	before := s.executor.Status(id).Status
	exec, err := s.executor.Execute(ctx, workflow)
	if err != nil {
		return nil, err
	}

	message := "Workflow execution started"
	switch before {
	case models.ExecutionStatusRunning:
		message = "Workflow is already running"
	case models.ExecutionStatusPaused:
		message = "Workflow execution resumed"
	}
	return &models.ExecutionResponse{Message: message, Execution: exec}, nil
}

// Pause suspends the run of a workflow.
func (s *WorkflowService) Pause(ctx context.Context, id string) (*models.ExecutionResponse, error) {
	if _, err := s.store.GetWorkflow(ctx, id); err != nil {
		return nil, err
	}
	exec, err := s.executor.Pause(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.ExecutionResponse{Message: "Workflow execution paused", Execution: exec}, nil
}

// Stop terminates the run of a workflow.
func (s *WorkflowService) Stop(ctx context.Context, id string) (*models.ExecutionResponse, error) {
	if _, err := s.store.GetWorkflow(ctx, id); err != nil {
		return nil, err
	}
	exec, err := s.executor.Stop(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.ExecutionResponse{Message: "Workflow execution stopped", Execution: exec}, nil
}

// Execution returns the current or last run of a workflow.
func (s *WorkflowService) Execution(ctx context.Context, id string) (*models.Execution, error) {
	if _, err := s.store.GetWorkflow(ctx, id); err != nil {
		return nil, err
	}
	return s.executor.Status(id), nil
}

// Validate checks a stored workflow against the node catalog.
func (s *WorkflowService) Validate(ctx context.Context, id string) (*models.ValidationReport, error) {
	workflow, err := s.store.GetWorkflow(ctx, id)
	if err != nil {
		return nil, err
	}
	report := ValidateWorkflow(s.catalog, workflow)
	return &report, nil
}

// Seed creates the sample workflows whose names are not already taken.
func (s *WorkflowService) Seed(ctx context.Context) (int, error) {
	existing, err := s.store.ListWorkflows(ctx)
	if err != nil {
		return 0, err
	}
	names := make(map[string]bool, len(existing))
	for _, w := range existing {
		names[w.Name] = true
	}

	created := 0
	for _, sample := range SampleWorkflows() {
		if names[sample.Name] {
			s.logger.Debug("Skipping existing workflow", "name", sample.Name)
			continue
		}
		if _, err := s.Create(ctx, sample); err != nil {
			return created, fmt.Errorf("failed to seed workflow %q: %w", sample.Name, err)
		}
		created++
	}
	return created, nil
}
