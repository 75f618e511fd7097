package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rentora/rentora-backend/internal/verification/domain"
	"github.com/rentora/rentora-backend/internal/verification/extractor"
	"github.com/rentora/rentora-backend/internal/verification/identity"
	"github.com/rentora/rentora-backend/pkg/logger"
)

// Store persists verification attempts and the mirrored account status
type Store interface {
	CreatePending(ctx context.Context, userID string) (*domain.VerificationRecord, error)
	Complete(ctx context.Context, id string, status domain.Status, verifiedAt *time.Time) error
	GetByID(ctx context.Context, id string) (*domain.VerificationRecord, error)
	SetUserVerificationStatus(ctx context.Context, userID string, status domain.AccountStatus) error
}

// EventPublisher notifies other services of terminal verification outcomes
type EventPublisher interface {
	PublishVerificationCompleted(ctx context.Context, rec *domain.VerificationRecord, reason string)
}

// Service runs the verification flow: record the attempt, read both card
// sides, cross-validate the identifiers, and persist the decision.
type Service struct {
	store       Store
	extractor   extractor.TextExtractor
	events      EventPublisher
	sideTimeout time.Duration
	log         *logger.Logger
}

// NewService creates a new verification service.
// events may be nil when no broker is configured.
func NewService(store Store, ext extractor.TextExtractor, events EventPublisher, sideTimeout time.Duration, log *logger.Logger) *Service {
	return &Service{
		store:       store,
		extractor:   ext,
		events:      events,
		sideTimeout: sideTimeout,
		log:         log,
	}
}

// Verify runs one verification attempt for the given user.
//
// A PENDING record is written before any OCR work; if that write fails the
// attempt is aborted and no extraction runs. Both sides are then extracted
// concurrently, each under its own timeout. An unreadable side is absorbed
// as empty text so cross-validation can produce a FAILED decision instead
// of an error. Only infrastructure failures surface as an error return.
func (s *Service) Verify(ctx context.Context, userID string, front, back []byte) (*domain.Result, error) {
	rec, err := s.store.CreatePending(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("verification_id", rec.ID).
		Str("user_id", userID).
		Msg("verification attempt started")

	sides := s.extractBothSides(ctx, rec.ID, front, back)

	outcome := identity.CrossValidate(sides[0].Candidate, sides[1].Candidate)

	var verifiedAt *time.Time
	if outcome.Status == domain.StatusVerified {
		now := time.Now().UTC()
		verifiedAt = &now
	}

	// Two writes, not one transaction: if the second fails, the record is
	// terminal but the account row lags until the user retries.
	if err := s.store.Complete(ctx, rec.ID, outcome.Status, verifiedAt); err != nil {
		return nil, fmt.Errorf("persist verification outcome: %w", err)
	}
	if err := s.store.SetUserVerificationStatus(ctx, userID, outcome.Status.AccountStatus()); err != nil {
		return nil, fmt.Errorf("update account verification status: %w", err)
	}

	rec.Status = outcome.Status
	rec.VerifiedAt = verifiedAt

	if s.events != nil {
		s.events.PublishVerificationCompleted(ctx, rec, outcome.Reason)
	}

	s.log.Info().
		Str("verification_id", rec.ID).
		Str("user_id", userID).
		Str("status", string(outcome.Status)).
		Msg("verification attempt completed")

	return &domain.Result{
		VerificationID: rec.ID,
		Status:         outcome.Status,
		Reason:         outcome.Reason,
	}, nil
}

// Get returns a verification record by ID
func (s *Service) Get(ctx context.Context, id string) (*domain.VerificationRecord, error) {
	return s.store.GetByID(ctx, id)
}

// extractBothSides runs OCR on both images concurrently. Index 0 is the
// front, index 1 the back. A failed or timed-out side comes back with empty
// raw text; the sibling side is never cancelled because of it.
func (s *Service) extractBothSides(ctx context.Context, verificationID string, front, back []byte) [2]domain.ExtractedIdentifier {
	inputs := [2]struct {
		side  domain.Side
		image []byte
	}{
		{domain.SideFront, front},
		{domain.SideBack, back},
	}

	var results [2]domain.ExtractedIdentifier

	var wg sync.WaitGroup
	for i := range inputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			sideCtx, cancel := context.WithTimeout(ctx, s.sideTimeout)
			defer cancel()

			text, err := s.extractor.ExtractText(sideCtx, inputs[i].image)
			if err != nil {
				s.log.Warn().Err(err).
					Str("verification_id", verificationID).
					Str("side", string(inputs[i].side)).
					Msg("text extraction failed, treating side as unreadable")
				text = ""
			}

			results[i] = domain.ExtractedIdentifier{
				RawText:   text,
				Candidate: identity.ParseIdentifier(text, inputs[i].side),
				Side:      inputs[i].side,
			}
		}(i)
	}
	wg.Wait()

	return results
}
