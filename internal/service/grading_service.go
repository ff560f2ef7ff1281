package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sanyaade-teachings/GradeWise/internal/auth"
	"github.com/sanyaade-teachings/GradeWise/internal/models"
	"github.com/sanyaade-teachings/GradeWise/internal/repository"
	"github.com/sanyaade-teachings/GradeWise/internal/service/integration"
	"github.com/sanyaade-teachings/GradeWise/internal/service/prompt"
	"github.com/sanyaade-teachings/GradeWise/internal/service/storage"
)

// GradingService drives a submission from ungraded to graded:
// fetch blob text -> build prompt -> call the remote grading procedure
// exactly once -> persist the result. Any failure before persistence
// leaves the submission ungraded and retryable; persistence is the point
// of no return.
type GradingService interface {
	GradeSubmission(ctx context.Context, principal auth.Principal, assignmentID, submissionID string) (*models.GradingResponse, error)
}

type gradingService struct {
	submissionRepo repository.SubmissionRepository
	assignmentRepo repository.AssignmentRepository
	blobStore      storage.Storage
	graderClient   integration.GraderClient
	events         integration.EventPublisher
	logger         zerolog.Logger

	// In-flight state is keyed by submission id: grading one submission
	// never blocks a grading attempt on another.
	inFlightMu sync.Mutex
	inFlight   map[string]bool
}

func NewGradingService(
	submissionRepo repository.SubmissionRepository,
	assignmentRepo repository.AssignmentRepository,
	blobStore storage.Storage,
	graderClient integration.GraderClient,
	events integration.EventPublisher,
	logger zerolog.Logger,
) GradingService {
	return &gradingService{
		submissionRepo: submissionRepo,
		assignmentRepo: assignmentRepo,
		blobStore:      blobStore,
		graderClient:   graderClient,
		events:         events,
		logger:         logger,
		inFlight:       make(map[string]bool),
	}
}

func (s *gradingService) GradeSubmission(ctx context.Context, principal auth.Principal, assignmentID, submissionID string) (*models.GradingResponse, error) {
	if !s.acquire(submissionID) {
		return nil, ErrGradingInFlight
	}
	defer s.release(submissionID)

	// The parent assignment is a precondition for prompt construction.
	assignment, err := s.assignmentRepo.GetByID(ctx, principal.UID, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get assignment: %v", ErrStore, err)
	}
	if assignment == nil {
		return nil, ErrAssignmentNotFound
	}

	submission, err := s.submissionRepo.GetByID(ctx, principal.UID, assignmentID, submissionID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get submission: %v", ErrStore, err)
	}
	if submission == nil {
		return nil, ErrSubmissionNotFound
	}
	if submission.Graded {
		return nil, ErrAlreadyGraded
	}

	s.logger.Info().
		Str("submission_id", submissionID).
		Str("assignment_id", assignmentID).
		Msg("Grading started")

	essayText, err := s.fetchContent(ctx, submission)
	if err != nil {
		return nil, err
	}

	gradingPrompt := prompt.Build(*assignment, essayText)

	// Exactly one remote call per attempt; a failure here is reported to
	// the caller, who may retry explicitly.
	gradeResp, err := s.graderClient.Grade(ctx, principal.Token, &models.GradeRequest{
		SubmissionID: submission.ID,
		FileURL:      submission.FileURL,
		FileName:     submission.FileName,
		Prompt:       gradingPrompt,
	})
	if err != nil {
		s.logger.Error().Err(err).
			Str("submission_id", submissionID).
			Msg("Grading attempt failed, submission stays ungraded")
		return nil, classifyGraderError(err)
	}

	// Point of no return: once persisted, graded never reverts.
	if err := s.submissionRepo.MarkGraded(ctx, principal.UID, assignmentID, submissionID, gradeResp.Result); err != nil {
		return nil, fmt.Errorf("%w: failed to persist grading result: %v", ErrStore, err)
	}

	s.publishEvent(ctx, &models.DomainEvent{
		Kind:         models.EventSubmissionGraded,
		OwnerID:      principal.UID,
		AssignmentID: assignmentID,
		SubmissionID: submissionID,
		Timestamp:    time.Now().Unix(),
	})

	s.logger.Info().
		Str("submission_id", submissionID).
		Msg("Grading completed")

	return &models.GradingResponse{
		SubmissionID:  submissionID,
		GradingResult: gradeResp.Result,
		GradedAt:      time.Now(),
	}, nil
}

func (s *gradingService) fetchContent(ctx context.Context, submission *models.Submission) (string, error) {
	reader, _, err := s.blobStore.Download(ctx, submission.ObjectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return "", fmt.Errorf("%w: submission file is missing", ErrContentFetch)
		}
		return "", fmt.Errorf("%w: %v", ErrContentFetch, err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read submission file: %v", ErrContentFetch, err)
	}

	return string(content), nil
}

// classifyGraderError maps client-level failures onto the service error
// vocabulary that the delivery layer knows how to render.
func classifyGraderError(err error) error {
	switch {
	case errors.Is(err, integration.ErrGraderUnauthorized):
		return ErrUnauthenticated
	case errors.Is(err, integration.ErrGraderTimeout):
		return fmt.Errorf("%w: %v", ErrGradingTimeout, err)
	default:
		return fmt.Errorf("%w: %v", ErrGradingRemote, err)
	}
}

func (s *gradingService) acquire(submissionID string) bool {
	s.inFlightMu.Lock()
	defer s.inFlightMu.Unlock()

	if s.inFlight[submissionID] {
		return false
	}
	s.inFlight[submissionID] = true
	return true
}

func (s *gradingService) release(submissionID string) {
	s.inFlightMu.Lock()
	defer s.inFlightMu.Unlock()
	delete(s.inFlight, submissionID)
}

func (s *gradingService) publishEvent(ctx context.Context, event *models.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("kind", event.Kind).Msg("Failed to publish domain event")
	}
}
