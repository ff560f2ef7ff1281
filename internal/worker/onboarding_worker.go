package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sanyaade-teachings/GradeWise/internal/models"
	"github.com/sanyaade-teachings/GradeWise/internal/onboarding"
	"github.com/sanyaade-teachings/GradeWise/internal/repository"
	"github.com/sanyaade-teachings/GradeWise/internal/worker/queue"
)

// OnboardingWorker consumes domain events from the bus and advances each
// owner's onboarding progress through the milestone observer.
type OnboardingWorker interface {
	Start(ctx context.Context) error
	Stop() error
}

type onboardingWorker struct {
	pool           *WorkerPool
	consumer       queue.Consumer
	onboardingRepo repository.OnboardingRepository
	logger         zerolog.Logger
}

func NewOnboardingWorker(
	pool *WorkerPool,
	consumer queue.Consumer,
	onboardingRepo repository.OnboardingRepository,
	logger zerolog.Logger,
) OnboardingWorker {
	return &onboardingWorker{
		pool:           pool,
		consumer:       consumer,
		onboardingRepo: onboardingRepo,
		logger:         logger,
	}
}

func (w *onboardingWorker) Start(ctx context.Context) error {
	w.logger.Info().Msg("Starting onboarding worker...")

	if err := w.pool.Start(ctx); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}

	msgs, err := w.consumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("failed to start consuming messages: %w", err)
	}

	go w.processMessages(ctx, msgs)

	w.logger.Info().Msg("Onboarding worker started")
	return nil
}

func (w *onboardingWorker) Stop() error {
	w.logger.Info().Msg("Stopping onboarding worker...")

	if err := w.pool.Stop(); err != nil {
		w.logger.Error().Err(err).Msg("Failed to stop worker pool")
	}

	if err := w.consumer.Close(); err != nil {
		w.logger.Error().Err(err).Msg("Failed to close queue consumer")
	}

	return nil
}

func (w *onboardingWorker) processMessages(ctx context.Context, msgs <-chan queue.Message) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Stopping message processing")
			return
		case msg, ok := <-msgs:
			if !ok {
				w.logger.Warn().Msg("Message channel closed")
				return
			}

			w.pool.Submit(func() {
				if err := w.processMessage(ctx, msg); err != nil {
					w.logger.Error().Err(err).Msg("Failed to process event")

					if isPermanentError(err) {
						// Malformed events cannot succeed on redelivery.
						if ackErr := msg.Ack(false); ackErr != nil {
							w.logger.Error().Err(ackErr).Msg("Failed to ack message")
						}
						return
					}

					if nackErr := msg.Nack(false, true); nackErr != nil {
						w.logger.Error().Err(nackErr).Msg("Failed to nack message")
					}
					return
				}

				if err := msg.Ack(false); err != nil {
					w.logger.Error().Err(err).Msg("Failed to ack message")
				}
			})
		}
	}
}

func (w *onboardingWorker) processMessage(ctx context.Context, msg queue.Message) error {
	var event models.DomainEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return permanent(fmt.Errorf("failed to unmarshal event: %w", err))
	}

	if strings.TrimSpace(event.OwnerID) == "" {
		return permanent(errors.New("empty owner_id"))
	}

	current, err := w.onboardingRepo.Get(ctx, event.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to get onboarding progress: %w", err)
	}
	if current == nil {
		current = &models.OnboardingProgress{OwnerID: event.OwnerID}
	}

	updated := onboarding.Apply(*current, event)
	if updated.Step == current.Step && updated.Completed == current.Completed {
		return nil
	}

	if err := w.onboardingRepo.Upsert(ctx, &updated); err != nil {
		return fmt.Errorf("failed to persist onboarding progress: %w", err)
	}

	w.logger.Info().
		Str("owner_id", event.OwnerID).
		Str("kind", event.Kind).
		Int("step", updated.Step).
		Msg("Onboarding progress advanced")

	return nil
}

type permanentError struct {
	err error
}

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

func permanent(err error) error {
	return permanentError{err: err}
}

func isPermanentError(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}
