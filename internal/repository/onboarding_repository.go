package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/sanyaade-teachings/GradeWise/internal/models"
)

type OnboardingRepository interface {
	Get(ctx context.Context, ownerID string) (*models.OnboardingProgress, error)
	Upsert(ctx context.Context, progress *models.OnboardingProgress) error
}

type onboardingRepository struct {
	*PostgresRepository
}

func NewOnboardingRepository(db *sql.DB, logger zerolog.Logger) OnboardingRepository {
	return &onboardingRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *onboardingRepository) Get(ctx context.Context, ownerID string) (*models.OnboardingProgress, error) {
	query := `
		SELECT owner_id, step, completed, updated_at
		FROM onboarding_progress
		WHERE owner_id = $1
	`

	progress := &models.OnboardingProgress{}
	err := r.db.QueryRowContext(ctx, query, ownerID).Scan(
		&progress.OwnerID,
		&progress.Step,
		&progress.Completed,
		&progress.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return progress, err
}

func (r *onboardingRepository) Upsert(ctx context.Context, progress *models.OnboardingProgress) error {
	query := `
		INSERT INTO onboarding_progress (owner_id, step, completed, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id) DO UPDATE
		SET step = GREATEST(onboarding_progress.step, EXCLUDED.step),
		    completed = onboarding_progress.completed OR EXCLUDED.completed,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		progress.OwnerID,
		progress.Step,
		progress.Completed,
		progress.UpdatedAt,
	)

	return err
}
