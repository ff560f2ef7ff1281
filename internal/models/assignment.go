package models

import (
	"time"
)

type Assignment struct {
	ID             string    `json:"id" db:"id"`
	OwnerID        string    `json:"-" db:"owner_id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	GradingRubric  string    `json:"grading_rubric" db:"grading_rubric"`
	EducationLevel string    `json:"education_level" db:"education_level"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

type AssignmentWithStats struct {
	Assignment
	TotalSubmissions    int `json:"total_submissions" db:"total_submissions"`
	GradedSubmissions   int `json:"graded_submissions" db:"graded_submissions"`
	UngradedSubmissions int `json:"ungraded_submissions" db:"ungraded_submissions"`
}

// EducationLevels are the grade bands an assignment can target.
var EducationLevels = []string{
	"Elementary School",
	"Middle School",
	"High School",
	"College Freshman",
	"College Sophomore",
	"College Junior",
	"College Senior",
	"Graduate",
}

func IsValidEducationLevel(level string) bool {
	for _, l := range EducationLevels {
		if l == level {
			return true
		}
	}
	return false
}
