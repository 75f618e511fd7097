package database

import (
	"strings"

	"github.com/lib/pq"
	"github.com/rentora/rentora-backend/pkg/errors"
)

// MapPQError converts a PostgreSQL error to an AppError with meaningful messages.
// Returns nil if the error is not a pq.Error.
func MapPQError(err error) *errors.AppError {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return nil
	}

	switch pqErr.Code {
	// Check constraint violation (23514)
	case "23514":
		return mapCheckConstraint(pqErr)

	// Unique constraint violation (23505)
	case "23505":
		return errors.Conflict("a record with these values already exists")

	// Foreign key violation (23503)
	case "23503":
		return errors.BadRequest("referenced user does not exist")

	// Not null violation (23502)
	case "23502":
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{
			col: "must not be empty",
		})

	default:
		return nil
	}
}

// mapCheckConstraint maps specific CHECK constraint names to user-friendly messages.
func mapCheckConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "identity_verifications_status"):
		return errors.Validation(map[string]string{
			"status": "must be one of: PENDING, VERIFIED, FAILED",
		})

	case strings.Contains(constraint, "verification_status"):
		return errors.Validation(map[string]string{
			"verification_status": "must be one of: pending, approved, rejected",
		})

	default:
		return errors.BadRequest("data validation failed: " + constraint)
	}
}
