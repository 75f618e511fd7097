package events

import (
	"context"

	"github.com/rentora/rentora-backend/internal/verification/domain"
	"github.com/rentora/rentora-backend/pkg/logger"
	"github.com/rentora/rentora-backend/pkg/messaging"
)

// publisher is the slice of messaging.Publisher this package needs
type publisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// VerificationEventPublisher publishes verification lifecycle events
type VerificationEventPublisher struct {
	publisher publisher
	logger    *logger.Logger
}

// NewVerificationEventPublisher creates a new verification event publisher
func NewVerificationEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*VerificationEventPublisher, error) {
	pub, err := messaging.NewPublisher(rmq, messaging.ExchangeVerificationEvents, "verification-service", log)
	if err != nil {
		return nil, err
	}

	return &VerificationEventPublisher{
		publisher: pub,
		logger:    log,
	}, nil
}

// PublishVerificationCompleted publishes a terminal verification outcome.
// Publishing is best-effort: a broker failure is logged and swallowed so the
// outcome already persisted is still returned to the caller.
func (p *VerificationEventPublisher) PublishVerificationCompleted(ctx context.Context, rec *domain.VerificationRecord, reason string) {
	data := messaging.VerificationCompletedEvent{
		VerificationID: rec.ID,
		UserID:         rec.UserID,
		Status:         string(rec.Status),
		Reason:         reason,
		VerifiedAt:     rec.VerifiedAt,
	}

	if err := p.publisher.Publish(ctx, messaging.EventVerificationCompleted, data); err != nil {
		p.logger.Error().Err(err).
			Str("verification_id", rec.ID).
			Str("user_id", rec.UserID).
			Msg("failed to publish verification completed event")
	}
}
