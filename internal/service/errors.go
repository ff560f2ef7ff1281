package service

import "errors"

// Typed errors for mapping onto HTTP status codes in the delivery layer.
var (
	// Validation / domain state.
	ErrValidation         = errors.New("validation failed")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadyGraded      = errors.New("submission already graded")
	ErrGradingInFlight    = errors.New("grading already in progress for this submission")

	// External dependencies.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrContentFetch    = errors.New("failed to fetch submission content")
	ErrGradingRemote   = errors.New("remote grading failed")
	ErrGradingTimeout  = errors.New("remote grading timed out")
	ErrStore           = errors.New("store operation failed")
)
