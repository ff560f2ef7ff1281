package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/sanyaade-teachings/GradeWise/internal/models"
)

// SubmissionRepository persists submissions under (owner, assignment).
// MarkGraded only ever moves graded false -> true; nothing here or in the
// service layer writes graded back to false.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, ownerID, assignmentID, id string) (*models.Submission, error)
	ListByAssignment(ctx context.Context, ownerID, assignmentID string, filter models.SubmissionFilter) ([]models.Submission, error)
	MarkGraded(ctx context.Context, ownerID, assignmentID, id, result string) error
	Delete(ctx context.Context, ownerID, assignmentID, id string) error
	DeleteAllByAssignment(ctx context.Context, ownerID, assignmentID string) error
}

type submissionRepository struct {
	*PostgresRepository
}

func NewSubmissionRepository(db *sql.DB, logger zerolog.Logger) SubmissionRepository {
	return &submissionRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	query := `
		INSERT INTO submissions (id, owner_id, assignment_id, file_name, object_key, file_url, graded, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		submission.ID,
		submission.OwnerID,
		submission.AssignmentID,
		submission.FileName,
		submission.ObjectKey,
		submission.FileURL,
		submission.CreatedAt,
	)

	return err
}

func (r *submissionRepository) GetByID(ctx context.Context, ownerID, assignmentID, id string) (*models.Submission, error) {
	query := `
		SELECT id, owner_id, assignment_id, file_name, object_key, file_url, graded, grading_result, created_at
		FROM submissions
		WHERE owner_id = $1 AND assignment_id = $2 AND id = $3
	`

	submission := &models.Submission{}
	err := r.db.QueryRowContext(ctx, query, ownerID, assignmentID, id).Scan(
		&submission.ID,
		&submission.OwnerID,
		&submission.AssignmentID,
		&submission.FileName,
		&submission.ObjectKey,
		&submission.FileURL,
		&submission.Graded,
		&submission.GradingResult,
		&submission.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return submission, err
}

func (r *submissionRepository) ListByAssignment(ctx context.Context, ownerID, assignmentID string, filter models.SubmissionFilter) ([]models.Submission, error) {
	query := `
		SELECT id, owner_id, assignment_id, file_name, object_key, file_url, graded, grading_result, created_at
		FROM submissions
		WHERE owner_id = $1 AND assignment_id = $2
	`

	switch filter {
	case models.FilterGraded:
		query += ` AND graded`
	case models.FilterUngraded:
		query += ` AND NOT graded`
	}

	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []models.Submission
	for rows.Next() {
		var submission models.Submission
		err := rows.Scan(
			&submission.ID,
			&submission.OwnerID,
			&submission.AssignmentID,
			&submission.FileName,
			&submission.ObjectKey,
			&submission.FileURL,
			&submission.Graded,
			&submission.GradingResult,
			&submission.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, submission)
	}

	return submissions, rows.Err()
}

func (r *submissionRepository) MarkGraded(ctx context.Context, ownerID, assignmentID, id, result string) error {
	query := `
		UPDATE submissions
		SET graded = TRUE, grading_result = $1
		WHERE owner_id = $2 AND assignment_id = $3 AND id = $4
	`

	_, err := r.db.ExecContext(ctx, query, result, ownerID, assignmentID, id)
	return err
}

func (r *submissionRepository) Delete(ctx context.Context, ownerID, assignmentID, id string) error {
	query := `DELETE FROM submissions WHERE owner_id = $1 AND assignment_id = $2 AND id = $3`
	_, err := r.db.ExecContext(ctx, query, ownerID, assignmentID, id)
	return err
}

// DeleteAllByAssignment removes every submission of one assignment in a
// single statement. Cascade delete runs this before touching the
// assignment row, so an interrupted cascade never leaves a dangling
// assignment with half of its submissions gone.
func (r *submissionRepository) DeleteAllByAssignment(ctx context.Context, ownerID, assignmentID string) error {
	query := `DELETE FROM submissions WHERE owner_id = $1 AND assignment_id = $2`
	_, err := r.db.ExecContext(ctx, query, ownerID, assignmentID)
	return err
}
