package models

import (
	"time"
)

type Submission struct {
	ID            string    `json:"id" db:"id"`
	OwnerID       string    `json:"-" db:"owner_id"`
	AssignmentID  string    `json:"assignment_id" db:"assignment_id"`
	FileName      string    `json:"file_name" db:"file_name"`
	ObjectKey     string    `json:"-" db:"object_key"`
	FileURL       string    `json:"file_url" db:"file_url"`
	Graded        bool      `json:"graded" db:"graded"`
	GradingResult *string   `json:"grading_result,omitempty" db:"grading_result"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// SubmissionFilter narrows list results by grading state.
type SubmissionFilter string

const (
	FilterAll      SubmissionFilter = "all"
	FilterGraded   SubmissionFilter = "graded"
	FilterUngraded SubmissionFilter = "ungraded"
)

func ParseSubmissionFilter(s string) SubmissionFilter {
	switch s {
	case "graded":
		return FilterGraded
	case "ungraded":
		return FilterUngraded
	default:
		return FilterAll
	}
}
