package models

import "time"

// Data Transfer Objects

type CreateAssignmentRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	GradingRubric  string `json:"grading_rubric"`
	EducationLevel string `json:"education_level"`
}

type UploadSubmissionRequest struct {
	AssignmentID string `json:"assignment_id"`
	FileName     string `json:"file_name"`
	FileContent  []byte `json:"-"`
}

type SubmissionsResponse struct {
	Submissions []Submission `json:"submissions"`
	Total       int          `json:"total"`
}

type GradingResponse struct {
	SubmissionID  string    `json:"submission_id"`
	GradingResult string    `json:"grading_result"`
	GradedAt      time.Time `json:"graded_at"`
}

// GradeRequest is the payload of the remote grading procedure. Only the
// prompt is consumed for model input; the rest is advisory, for logging.
type GradeRequest struct {
	SubmissionID string `json:"submission_id,omitempty"`
	FileURL      string `json:"file_url,omitempty"`
	FileName     string `json:"file_name,omitempty"`
	Prompt       string `json:"prompt"`
}

type GradeResponse struct {
	Result string `json:"result"`
}

type OnboardingProgress struct {
	OwnerID   string    `json:"-" db:"owner_id"`
	Step      int       `json:"step" db:"step"`
	Completed bool      `json:"completed" db:"completed"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
