package models

import "errors"

var (
	// ErrNotAuthenticated is returned when an operation requires a user and none is present.
	// Nothing is persisted when it is returned.
	ErrNotAuthenticated = errors.New("user not authenticated")
	// ErrNotFound is returned when a course, lesson, quiz, activity or session does not exist
	ErrNotFound = errors.New("not found")
	// ErrTransientIO is returned when a collaborator could not be reached or failed.
	// It must never be conflated with an empty result.
	ErrTransientIO = errors.New("collaborator unavailable")
	// ErrDefinitionIntegrity marks malformed content definitions that are tolerated locally
	ErrDefinitionIntegrity = errors.New("content definition integrity violation")
	// ErrInvalidInput is returned for malformed request parameters
	ErrInvalidInput = errors.New("invalid input")
)
