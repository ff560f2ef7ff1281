package models

// Domain events published on the message bus. Workflow code only emits
// these; onboarding progress is tracked by an independent consumer.

const (
	EventAssignmentCreated  = "assignment.created"
	EventSubmissionUploaded = "submission.uploaded"
	EventSubmissionGraded   = "submission.graded"
)

type DomainEvent struct {
	Kind         string `json:"kind"`
	OwnerID      string `json:"owner_id"`
	AssignmentID string `json:"assignment_id"`
	SubmissionID string `json:"submission_id,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}
