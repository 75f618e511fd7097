package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/rentora/rentora-backend/internal/verification/domain"
	"github.com/rentora/rentora-backend/internal/verification/repository"
	"github.com/rentora/rentora-backend/pkg/database"
	"github.com/rentora/rentora-backend/pkg/errors"
	"github.com/rentora/rentora-backend/pkg/logger"
	"github.com/rentora/rentora-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*repository.VerificationRepository, *testutil.MockDB) {
	t.Helper()
	mockDB := testutil.NewMockDB(t)
	t.Cleanup(func() { mockDB.Close() })

	db := database.NewFromSqlx(mockDB.DB, logger.New("test", "test"))
	return repository.NewVerificationRepository(db), mockDB
}

func TestCreatePending(t *testing.T) {
	repo, mockDB := newRepo(t)

	now := time.Now().UTC()
	mockDB.ExpectQuery(`INSERT INTO identity_verifications (id, user_id, status)`).
		WithArgs(testutil.AnyUUID{}, "user-1", string(domain.StatusPending)).
		WillReturnRows(testutil.MockRows("created_at", "updated_at").AddRow(now, now))

	rec, err := repo.CreatePending(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, domain.StatusPending, rec.Status)
	assert.Nil(t, rec.VerifiedAt)
	assert.Equal(t, now, rec.CreatedAt)

	mockDB.ExpectationsWereMet(t)
}

func TestCreatePending_InsertFails(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.ExpectQuery(`INSERT INTO identity_verifications (id, user_id, status)`).
		WillReturnError(fmt.Errorf("connection refused"))

	rec, err := repo.CreatePending(context.Background(), "user-1")
	assert.Nil(t, rec)
	require.Error(t, err)

	mockDB.ExpectationsWereMet(t)
}

func TestCreatePending_MapsForeignKeyViolation(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.ExpectQuery(`INSERT INTO identity_verifications (id, user_id, status)`).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "identity_verifications_user_id_fkey"})

	_, err := repo.CreatePending(context.Background(), "ghost-user")
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "BAD_REQUEST", appErr.Code)

	mockDB.ExpectationsWereMet(t)
}

func TestComplete_Verified(t *testing.T) {
	repo, mockDB := newRepo(t)

	verifiedAt := time.Now().UTC()
	mockDB.ExpectExec(`UPDATE identity_verifications`).
		WithArgs("rec-1", string(domain.StatusVerified), verifiedAt, string(domain.StatusPending)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Complete(context.Background(), "rec-1", domain.StatusVerified, &verifiedAt)
	require.NoError(t, err)

	mockDB.ExpectationsWereMet(t)
}

func TestComplete_Failed_NoVerifiedAt(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.ExpectExec(`UPDATE identity_verifications`).
		WithArgs("rec-1", string(domain.StatusFailed), nil, string(domain.StatusPending)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Complete(context.Background(), "rec-1", domain.StatusFailed, nil)
	require.NoError(t, err)

	mockDB.ExpectationsWereMet(t)
}

func TestComplete_AlreadyTerminal(t *testing.T) {
	repo, mockDB := newRepo(t)

	// Zero rows affected: the record already left PENDING
	mockDB.ExpectExec(`UPDATE identity_verifications`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Complete(context.Background(), "rec-1", domain.StatusFailed, nil)
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFLICT", appErr.Code)

	mockDB.ExpectationsWereMet(t)
}

func TestGetByID(t *testing.T) {
	repo, mockDB := newRepo(t)

	now := time.Now().UTC()
	verifiedAt := now.Add(-time.Minute)
	mockDB.ExpectQuery(`SELECT id, user_id, status, verified_at, created_at, updated_at`).
		WithArgs("rec-1").
		WillReturnRows(testutil.
			MockRows("id", "user_id", "status", "verified_at", "created_at", "updated_at").
			AddRow("rec-1", "user-1", "VERIFIED", verifiedAt, now.Add(-time.Hour), now))

	rec, err := repo.GetByID(context.Background(), "rec-1")
	require.NoError(t, err)

	assert.Equal(t, "rec-1", rec.ID)
	assert.Equal(t, domain.StatusVerified, rec.Status)
	require.NotNil(t, rec.VerifiedAt)
	assert.Equal(t, verifiedAt, *rec.VerifiedAt)

	mockDB.ExpectationsWereMet(t)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.ExpectQuery(`SELECT id, user_id, status, verified_at, created_at, updated_at`).
		WithArgs("missing").
		WillReturnRows(testutil.MockRows("id", "user_id", "status", "verified_at", "created_at", "updated_at"))

	rec, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, rec)
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	mockDB.ExpectationsWereMet(t)
}

func TestSetUserVerificationStatus(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.ExpectExec(`UPDATE users`).
		WithArgs("user-1", string(domain.AccountApproved)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetUserVerificationStatus(context.Background(), "user-1", domain.AccountApproved)
	require.NoError(t, err)

	mockDB.ExpectationsWereMet(t)
}

func TestSetUserVerificationStatus_UserMissing(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.ExpectExec(`UPDATE users`).
		WithArgs("ghost", string(domain.AccountRejected)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetUserVerificationStatus(context.Background(), "ghost", domain.AccountRejected)
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	mockDB.ExpectationsWereMet(t)
}
