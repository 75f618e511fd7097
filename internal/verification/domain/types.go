package domain

import "time"

// Status represents the lifecycle state of a verification record.
// A record starts PENDING and transitions exactly once to VERIFIED or
// FAILED; it never transitions again. New attempts create new records.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusVerified Status = "VERIFIED"
	StatusFailed   Status = "FAILED"
)

// IsTerminal returns true for states a record never leaves
func (s Status) IsTerminal() bool {
	return s == StatusVerified || s == StatusFailed
}

// AccountStatus is the verification status carried on the user account row.
// It mirrors the outcome of the user's most recently completed attempt.
type AccountStatus string

const (
	AccountPending  AccountStatus = "pending"
	AccountApproved AccountStatus = "approved"
	AccountRejected AccountStatus = "rejected"
)

// AccountStatus maps a record status to the corresponding account status
func (s Status) AccountStatus() AccountStatus {
	switch s {
	case StatusVerified:
		return AccountApproved
	case StatusFailed:
		return AccountRejected
	default:
		return AccountPending
	}
}

// Side identifies which face of the ID card an image shows.
// The back side carries a longer identifier format than the front.
type Side string

const (
	SideFront Side = "front"
	SideBack  Side = "back"
)

// VerificationRecord is one identity verification attempt
type VerificationRecord struct {
	ID         string     `db:"id" json:"id"`
	UserID     string     `db:"user_id" json:"userId"`
	Status     Status     `db:"status" json:"status"`
	VerifiedAt *time.Time `db:"verified_at" json:"verifiedAt,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updatedAt"`
}

// ExtractedIdentifier holds the per-side extraction state for one request.
// It is never persisted; only the terminal outcome is.
type ExtractedIdentifier struct {
	RawText   string
	Candidate string // empty when no identifier pattern was found
	Side      Side
}

// Outcome is the cross-validation decision for a front/back pair.
// Reason is set only for FAILED outcomes.
type Outcome struct {
	Status Status
	Reason string
}

// Result is what a completed verification attempt returns to the caller.
// Reason is present only for FAILED outcomes decided by cross-validation;
// infrastructure failures are reported as errors, not as a Result.
type Result struct {
	VerificationID string `json:"verificationId"`
	Status         Status `json:"status"`
	Reason         string `json:"reason,omitempty"`
}
