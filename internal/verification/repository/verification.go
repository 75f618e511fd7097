package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rentora/rentora-backend/internal/verification/domain"
	"github.com/rentora/rentora-backend/pkg/database"
	"github.com/rentora/rentora-backend/pkg/errors"
)

// VerificationRepository handles persistence of verification attempts and
// the verification status mirrored onto the user account row.
type VerificationRepository struct {
	db *database.DB
}

// NewVerificationRepository creates a new verification repository
func NewVerificationRepository(db *database.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// CreatePending inserts a new PENDING record for the given user.
// Called before any OCR work starts; every attempt gets its own record.
func (r *VerificationRepository) CreatePending(ctx context.Context, userID string) (*domain.VerificationRecord, error) {
	rec := &domain.VerificationRecord{
		ID:     uuid.New().String(),
		UserID: userID,
		Status: domain.StatusPending,
	}

	query := `
		INSERT INTO identity_verifications (id, user_id, status)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query, rec.ID, rec.UserID, rec.Status).
		Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return nil, appErr
		}
		return nil, err
	}

	return rec, nil
}

// Complete transitions a record from PENDING to a terminal status.
// The status guard in the WHERE clause enforces the single-transition
// invariant: a record that already reached a terminal state is never
// updated again, and attempting to do so is a conflict.
func (r *VerificationRepository) Complete(ctx context.Context, id string, status domain.Status, verifiedAt *time.Time) error {
	query := `
		UPDATE identity_verifications
		SET status = $2, verified_at = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4
	`

	res, err := r.db.ExecContext(ctx, query, id, status, verifiedAt, domain.StatusPending)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.Conflict("verification attempt is not pending")
	}

	return nil
}

// GetByID gets a verification record by ID
func (r *VerificationRepository) GetByID(ctx context.Context, id string) (*domain.VerificationRecord, error) {
	var rec domain.VerificationRecord

	query := `
		SELECT id, user_id, status, verified_at, created_at, updated_at
		FROM identity_verifications
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &rec, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("verification")
	}
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// SetUserVerificationStatus mirrors a terminal outcome onto the user row.
// Concurrent attempts for the same user race freely; the account reflects
// whichever attempt completed last (last-write-wins, no locking).
func (r *VerificationRepository) SetUserVerificationStatus(ctx context.Context, userID string, status domain.AccountStatus) error {
	query := `
		UPDATE users
		SET verification_status = $2, updated_at = NOW()
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, userID, status)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("user")
	}

	return nil
}
