package service

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
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

type SubmissionService interface {
	UploadSubmission(ctx context.Context, principal auth.Principal, req *models.UploadSubmissionRequest) (*models.Submission, error)
	ListSubmissions(ctx context.Context, principal auth.Principal, assignmentID string, filter models.SubmissionFilter) (*models.SubmissionsResponse, error)
	DeleteSubmission(ctx context.Context, principal auth.Principal, assignmentID, id string) error
}

type submissionService struct {
	submissionRepo repository.SubmissionRepository
	assignmentRepo repository.AssignmentRepository
	blobStore      storage.Storage
	events         integration.EventPublisher
	logger         zerolog.Logger
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	assignmentRepo repository.AssignmentRepository,
	blobStore storage.Storage,
	events integration.EventPublisher,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		submissionRepo: submissionRepo,
		assignmentRepo: assignmentRepo,
		blobStore:      blobStore,
		events:         events,
		logger:         logger,
	}
}

// UploadSubmission writes the blob first and creates the document after,
// so a submission row always points at stored content.
func (s *submissionService) UploadSubmission(ctx context.Context, principal auth.Principal, req *models.UploadSubmissionRequest) (*models.Submission, error) {
	// Extension check comes before any I/O.
	if strings.ToLower(filepath.Ext(req.FileName)) != ".txt" {
		return nil, fmt.Errorf("%w: invalid file type, please upload a .txt file", ErrValidation)
	}
	if req.FileName == "" || len(req.FileContent) == 0 {
		return nil, fmt.Errorf("%w: file name and content are required", ErrValidation)
	}

	exists, err := s.assignmentRepo.Exists(ctx, principal.UID, req.AssignmentID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check assignment existence: %v", ErrStore, err)
	}
	if !exists {
		return nil, ErrAssignmentNotFound
	}

	submissionID := uuid.New().String()
	objectKey := fmt.Sprintf("submissions/%s/%s_%s", req.AssignmentID, submissionID, req.FileName)

	if err := s.blobStore.Upload(ctx, objectKey, bytes.NewReader(req.FileContent), int64(len(req.FileContent))); err != nil {
		return nil, fmt.Errorf("%w: failed to store file: %v", ErrStore, err)
	}

	submission := &models.Submission{
		ID:           submissionID,
		OwnerID:      principal.UID,
		AssignmentID: req.AssignmentID,
		FileName:     req.FileName,
		ObjectKey:    objectKey,
		FileURL:      s.blobStore.GetURL(objectKey),
		Graded:       false,
		CreatedAt:    time.Now(),
	}

	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		// The document failed; remove the orphaned blob.
		if delErr := s.blobStore.Delete(ctx, objectKey); delErr != nil {
			s.logger.Error().Err(delErr).Str("object_key", objectKey).Msg("Failed to clean up orphaned blob")
		}
		return nil, fmt.Errorf("%w: failed to create submission: %v", ErrStore, err)
	}

	s.publishEvent(ctx, &models.DomainEvent{
		Kind:         models.EventSubmissionUploaded,
		OwnerID:      principal.UID,
		AssignmentID: req.AssignmentID,
		SubmissionID: submissionID,
		Timestamp:    time.Now().Unix(),
	})

	s.logger.Info().
		Str("submission_id", submissionID).
		Str("assignment_id", req.AssignmentID).
		Str("file_name", req.FileName).
		Msg("Submission uploaded")

	return submission, nil
}

func (s *submissionService) ListSubmissions(ctx context.Context, principal auth.Principal, assignmentID string, filter models.SubmissionFilter) (*models.SubmissionsResponse, error) {
	exists, err := s.assignmentRepo.Exists(ctx, principal.UID, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check assignment existence: %v", ErrStore, err)
	}
	if !exists {
		return nil, ErrAssignmentNotFound
	}

	submissions, err := s.submissionRepo.ListByAssignment(ctx, principal.UID, assignmentID, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list submissions: %v", ErrStore, err)
	}

	return &models.SubmissionsResponse{
		Submissions: submissions,
		Total:       len(submissions),
	}, nil
}

func (s *submissionService) DeleteSubmission(ctx context.Context, principal auth.Principal, assignmentID, id string) error {
	submission, err := s.submissionRepo.GetByID(ctx, principal.UID, assignmentID, id)
	if err != nil {
		return fmt.Errorf("%w: failed to get submission: %v", ErrStore, err)
	}
	if submission == nil {
		return ErrSubmissionNotFound
	}

	if err := s.submissionRepo.Delete(ctx, principal.UID, assignmentID, id); err != nil {
		return fmt.Errorf("%w: failed to delete submission: %v", ErrStore, err)
	}

	if err := s.blobStore.Delete(ctx, submission.ObjectKey); err != nil {
		s.logger.Error().Err(err).
			Str("object_key", submission.ObjectKey).
			Msg("Failed to delete submission blob")
	}

	s.logger.Info().
		Str("submission_id", id).
		Str("assignment_id", assignmentID).
		Msg("Submission deleted")

	return nil
}

func (s *submissionService) publishEvent(ctx context.Context, event *models.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("kind", event.Kind).Msg("Failed to publish domain event")
	}
}
