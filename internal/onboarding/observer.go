// Package onboarding tracks first-run milestone progress from domain
// events. Workflow code never writes tutorial state; it only publishes
// events, and this observer consumes them independently.
package onboarding

import (
	"time"

	"github.com/sanyaade-teachings/GradeWise/internal/models"
)

// Milestone steps, in the order a new instructor walks through the app.
const (
	StepNone               = 0
	StepAssignmentCreated  = 1
	StepSubmissionUploaded = 2
	StepSubmissionGraded   = 3
)

// Apply folds one event into the owner's progress. Steps only move
// forward: replayed or out-of-order events never regress progress.
func Apply(progress models.OnboardingProgress, event models.DomainEvent) models.OnboardingProgress {
	step := progress.Step

	switch event.Kind {
	case models.EventAssignmentCreated:
		if step < StepAssignmentCreated {
			step = StepAssignmentCreated
		}
	case models.EventSubmissionUploaded:
		if step < StepSubmissionUploaded {
			step = StepSubmissionUploaded
		}
	case models.EventSubmissionGraded:
		if step < StepSubmissionGraded {
			step = StepSubmissionGraded
		}
	default:
		return progress
	}

	return models.OnboardingProgress{
		OwnerID:   event.OwnerID,
		Step:      step,
		Completed: progress.Completed || step >= StepSubmissionGraded,
		UpdatedAt: time.Now(),
	}
}
