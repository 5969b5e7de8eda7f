package domain

import "errors"

// Sentinel errors shared by repositories and services. Callers match them with errors.Is;
// services wrap them with context using fmt.Errorf("...: %w", err).
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("not authorized")
	ErrInvalidInput = errors.New("invalid input")

	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrAlreadyCancelled  = errors.New("event is already cancelled")
	ErrEventNotActive    = errors.New("event is not active")
	ErrAlreadyReviewed   = errors.New("already reviewed")

	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrUpstream         = errors.New("payment provider request failed")

	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
