package services

import "errors"

var (
	// ErrInvalidInput is returned when a payload fails basic checks.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidTransition is returned when a run can't move to the requested state.
	ErrInvalidTransition = errors.New("invalid execution transition")
	// ErrDuplicateUsername is returned when registering a taken username.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrInvalidCredentials is returned by the mock login.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
