package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sanyaade-teachings/GradeWise/internal/auth"
	"github.com/sanyaade-teachings/GradeWise/internal/models"
	"github.com/sanyaade-teachings/GradeWise/internal/repository"
	"github.com/sanyaade-teachings/GradeWise/internal/service/integration"
	"github.com/sanyaade-teachings/GradeWise/internal/service/storage"
)

type AssignmentService interface {
	CreateAssignment(ctx context.Context, principal auth.Principal, req *models.CreateAssignmentRequest) (*models.Assignment, error)
	GetAssignmentByID(ctx context.Context, principal auth.Principal, id string) (*models.Assignment, error)
	GetAllAssignments(ctx context.Context, principal auth.Principal) ([]models.AssignmentWithStats, error)
	DeleteAssignment(ctx context.Context, principal auth.Principal, id string) error
}

type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	submissionRepo repository.SubmissionRepository
	blobStore      storage.Storage
	events         integration.EventPublisher
	logger         zerolog.Logger
}

func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	submissionRepo repository.SubmissionRepository,
	blobStore storage.Storage,
	events integration.EventPublisher,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
		blobStore:      blobStore,
		events:         events,
		logger:         logger,
	}
}

func (s *assignmentService) CreateAssignment(ctx context.Context, principal auth.Principal, req *models.CreateAssignmentRequest) (*models.Assignment, error) {
	// Validation happens before any I/O.
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if strings.TrimSpace(req.GradingRubric) == "" {
		return nil, fmt.Errorf("%w: grading rubric is required", ErrValidation)
	}
	if !models.IsValidEducationLevel(req.EducationLevel) {
		return nil, fmt.Errorf("%w: unknown education level %q", ErrValidation, req.EducationLevel)
	}

	assignment := &models.Assignment{
		ID:             uuid.New().String(),
		OwnerID:        principal.UID,
		Name:           req.Name,
		Description:    req.Description,
		GradingRubric:  req.GradingRubric,
		EducationLevel: req.EducationLevel,
		CreatedAt:      time.Now(),
	}

	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("%w: failed to create assignment: %v", ErrStore, err)
	}

	s.publishEvent(ctx, &models.DomainEvent{
		Kind:         models.EventAssignmentCreated,
		OwnerID:      principal.UID,
		AssignmentID: assignment.ID,
		Timestamp:    time.Now().Unix(),
	})

	s.logger.Info().
		Str("assignment_id", assignment.ID).
		Str("owner_id", principal.UID).
		Msg("Assignment created")

	return assignment, nil
}

func (s *assignmentService) GetAssignmentByID(ctx context.Context, principal auth.Principal, id string) (*models.Assignment, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, principal.UID, id)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get assignment: %v", ErrStore, err)
	}
	if assignment == nil {
		return nil, ErrAssignmentNotFound
	}
	return assignment, nil
}

func (s *assignmentService) GetAllAssignments(ctx context.Context, principal auth.Principal) ([]models.AssignmentWithStats, error) {
	assignments, err := s.assignmentRepo.GetAllByOwner(ctx, principal.UID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list assignments: %v", ErrStore, err)
	}
	return assignments, nil
}

// DeleteAssignment cascades: the submission batch is removed first, the
// assignment document after. An interruption between the two leaves an
// intact assignment with zero submissions, never a dangling assignment
// whose children are half-deleted.
func (s *assignmentService) DeleteAssignment(ctx context.Context, principal auth.Principal, id string) error {
	assignment, err := s.assignmentRepo.GetByID(ctx, principal.UID, id)
	if err != nil {
		return fmt.Errorf("%w: failed to get assignment: %v", ErrStore, err)
	}
	if assignment == nil {
		return ErrAssignmentNotFound
	}

	submissions, err := s.submissionRepo.ListByAssignment(ctx, principal.UID, id, models.FilterAll)
	if err != nil {
		return fmt.Errorf("%w: failed to list submissions: %v", ErrStore, err)
	}

	if err := s.submissionRepo.DeleteAllByAssignment(ctx, principal.UID, id); err != nil {
		return fmt.Errorf("%w: failed to delete submissions: %v", ErrStore, err)
	}

	if err := s.assignmentRepo.Delete(ctx, principal.UID, id); err != nil {
		return fmt.Errorf("%w: failed to delete assignment: %v", ErrStore, err)
	}

	// Blob cleanup is best-effort once the documents are gone.
	for _, submission := range submissions {
		if err := s.blobStore.Delete(ctx, submission.ObjectKey); err != nil {
			s.logger.Error().Err(err).
				Str("object_key", submission.ObjectKey).
				Msg("Failed to delete submission blob")
		}
	}

	s.logger.Info().
		Str("assignment_id", id).
		Int("submissions_deleted", len(submissions)).
		Msg("Assignment deleted with cascade")

	return nil
}

func (s *assignmentService) publishEvent(ctx context.Context, event *models.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("kind", event.Kind).Msg("Failed to publish domain event")
	}
}
