package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/sanyaade-teachings/GradeWise/internal/models"
)

// AssignmentRepository persists assignments. Every query is scoped by the
// owner id of the authenticated principal; there is no unscoped access path.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, ownerID, id string) (*models.Assignment, error)
	GetAllByOwner(ctx context.Context, ownerID string) ([]models.AssignmentWithStats, error)
	Delete(ctx context.Context, ownerID, id string) error
	Exists(ctx context.Context, ownerID, id string) (bool, error)
}

type assignmentRepository struct {
	*PostgresRepository
}

func NewAssignmentRepository(db *sql.DB, logger zerolog.Logger) AssignmentRepository {
	return &assignmentRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	query := `
		INSERT INTO assignments (id, owner_id, name, description, grading_rubric, education_level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		assignment.ID,
		assignment.OwnerID,
		assignment.Name,
		assignment.Description,
		assignment.GradingRubric,
		assignment.EducationLevel,
		assignment.CreatedAt,
	)

	return err
}

func (r *assignmentRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Assignment, error) {
	query := `
		SELECT id, owner_id, name, description, grading_rubric, education_level, created_at
		FROM assignments
		WHERE owner_id = $1 AND id = $2
	`

	assignment := &models.Assignment{}
	err := r.db.QueryRowContext(ctx, query, ownerID, id).Scan(
		&assignment.ID,
		&assignment.OwnerID,
		&assignment.Name,
		&assignment.Description,
		&assignment.GradingRubric,
		&assignment.EducationLevel,
		&assignment.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return assignment, err
}

func (r *assignmentRepository) GetAllByOwner(ctx context.Context, ownerID string) ([]models.AssignmentWithStats, error) {
	query := `
		SELECT
			a.id, a.owner_id, a.name, a.description, a.grading_rubric, a.education_level, a.created_at,
			COUNT(s.id) as total_submissions,
			COUNT(CASE WHEN s.graded THEN 1 END) as graded_submissions,
			COUNT(CASE WHEN NOT s.graded THEN 1 END) as ungraded_submissions
		FROM assignments a
		LEFT JOIN submissions s ON a.id = s.assignment_id AND s.owner_id = a.owner_id
		WHERE a.owner_id = $1
		GROUP BY a.id
		ORDER BY a.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []models.AssignmentWithStats
	for rows.Next() {
		var assignment models.AssignmentWithStats
		err := rows.Scan(
			&assignment.ID,
			&assignment.OwnerID,
			&assignment.Name,
			&assignment.Description,
			&assignment.GradingRubric,
			&assignment.EducationLevel,
			&assignment.CreatedAt,
			&assignment.TotalSubmissions,
			&assignment.GradedSubmissions,
			&assignment.UngradedSubmissions,
		)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}

	return assignments, rows.Err()
}

func (r *assignmentRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM assignments WHERE owner_id = $1 AND id = $2`
	_, err := r.db.ExecContext(ctx, query, ownerID, id)
	return err
}

func (r *assignmentRepository) Exists(ctx context.Context, ownerID, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM assignments WHERE owner_id = $1 AND id = $2)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, ownerID, id).Scan(&exists)
	return exists, err
}
