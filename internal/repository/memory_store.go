package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"workflow-builder/backend/pkg/models"
)

// MemoryStore is an in-process implementation of Repository. Data lives only
// as long as the process.
type MemoryStore struct {
	mu sync.RWMutex

	users     map[string]*models.User
	userOrder []string

	workflows     map[string]*models.Workflow
	workflowOrder []string

	now func() time.Time
}

// NewMemoryStore creates a new, empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]*models.User),
		workflows: make(map[string]*models.Workflow),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// GetUser retrieves a user by its ID.
func (s *MemoryStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u := *user
	return &u, nil
}

// GetUserByUsername retrieves the first registered user with the given username.
func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.userOrder {
		if user := s.users[id]; user.Username == username {
			u := *user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// CreateUser saves a new user and assigns its ID.
func (s *MemoryStore) CreateUser(ctx context.Context, insert models.InsertUser) (*models.User, error) {
	user := &models.User{
		ID:       uuid.New().String(),
		Username: insert.Username,
		Password: insert.Password,
	}

	s.mu.Lock()
	s.users[user.ID] = user
	s.userOrder = append(s.userOrder, user.ID)
	s.mu.Unlock()

	u := *user
	return &u, nil
}

// ListWorkflows returns every workflow in insertion order.
func (s *MemoryStore) ListWorkflows(ctx context.Context) ([]*models.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	workflows := make([]*models.Workflow, 0, len(s.workflowOrder))
	for _, id := range s.workflowOrder {
		workflows = append(workflows, s.workflows[id].Clone())
	}
	return workflows, nil
}

// GetWorkflow retrieves a workflow by its ID.
func (s *MemoryStore) GetWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	workflow, ok := s.workflows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return workflow.Clone(), nil
}

// CreateWorkflow saves a new workflow and assigns its ID and timestamps.
func (s *MemoryStore) CreateWorkflow(ctx context.Context, insert models.InsertWorkflow) (*models.Workflow, error) {
	now := s.now()
	workflow := (&models.Workflow{
		ID:          uuid.New().String(),
		Name:        insert.Name,
		Description: insert.Description,
		Nodes:       insert.Nodes,
		Edges:       insert.Edges,
		IsActive:    insert.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}).Clone()

	s.mu.Lock()
	s.workflows[workflow.ID] = workflow
	s.workflowOrder = append(s.workflowOrder, workflow.ID)
	s.mu.Unlock()

	return workflow.Clone(), nil
}

// UpdateWorkflow applies a partial update. Last write wins.
func (s *MemoryStore) UpdateWorkflow(ctx context.Context, id string, update models.UpdateWorkflow) (*models.Workflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.workflows[id]
	if !ok {
		return nil, ErrNotFound
	}

	workflow := existing.Clone()
	if update.Name != nil {
		workflow.Name = *update.Name
	}
	if update.Description != nil {
		workflow.Description = update.Description
	}
	if update.Nodes != nil {
		workflow.Nodes = *update.Nodes
	}
	if update.Edges != nil {
		workflow.Edges = *update.Edges
	}
	if update.IsActive != nil {
		workflow.IsActive = *update.IsActive
	}
	if now := s.now(); now.After(workflow.UpdatedAt) {
		workflow.UpdatedAt = now
	}

	// Clone again so the caller's update slices are not aliased into the store.
	s.workflows[id] = workflow.Clone()
	return workflow, nil
}

// DeleteWorkflow removes a workflow.
func (s *MemoryStore) DeleteWorkflow(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workflows[id]; !ok {
		return ErrNotFound
	}
	delete(s.workflows, id)
	for i, wid := range s.workflowOrder {
		if wid == id {
			s.workflowOrder = append(s.workflowOrder[:i], s.workflowOrder[i+1:]...)
			break
		}
	}
	return nil
}
