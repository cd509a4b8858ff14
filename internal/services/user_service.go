package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"workflow-builder/backend/internal/repository"
	"workflow-builder/backend/pkg/models"
)

// UserService backs the mocked register and login forms.
type UserService struct {
	store repository.UserStore
}

// NewUserService creates a new UserService.
func NewUserService(store repository.UserStore) *UserService {
	return &UserService{store: store}
}

// Register creates a user after checking the username is free.
func (s *UserService) Register(ctx context.Context, insert models.InsertUser) (*models.User, error) {
	insert.Username = strings.TrimSpace(insert.Username)
	if insert.Username == "" || insert.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	if _, err := s.store.GetUserByUsername(ctx, insert.Username); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateUsername, insert.Username)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	return s.store.CreateUser(ctx, insert)
}

// Login compares the plaintext password. This is a mock, not authentication.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Password != password {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Get retrieves a user by its ID.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}
