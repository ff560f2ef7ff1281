package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sanyaade-teachings/GradeWise/internal/auth"
	"github.com/sanyaade-teachings/GradeWise/internal/models"
	"github.com/sanyaade-teachings/GradeWise/internal/repository"
)

type OnboardingService interface {
	GetProgress(ctx context.Context, principal auth.Principal) (*models.OnboardingProgress, error)
}

type onboardingService struct {
	onboardingRepo repository.OnboardingRepository
	logger         zerolog.Logger
}

func NewOnboardingService(onboardingRepo repository.OnboardingRepository, logger zerolog.Logger) OnboardingService {
	return &onboardingService{
		onboardingRepo: onboardingRepo,
		logger:         logger,
	}
}

func (s *onboardingService) GetProgress(ctx context.Context, principal auth.Principal) (*models.OnboardingProgress, error) {
	progress, err := s.onboardingRepo.Get(ctx, principal.UID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get onboarding progress: %v", ErrStore, err)
	}
	if progress == nil {
		return &models.OnboardingProgress{OwnerID: principal.UID}, nil
	}
	return progress, nil
}
