package database

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/goalyft/rideshare-backend/internal/models"
)

func TestKycRepository_Decide(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewKycRepository(db)

	kycID := uuid.New()
	userID := uuid.New()

	columns := []string{
		"id", "user_id", "document_type", "document_number", "address",
		"document_image", "is_verified", "submitted_at", "verified_at",
	}

	t.Run("approve stamps verified_at", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE user_kyc")).
			WithArgs(kycID, true).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				kycID, userID, "driving_license", "GA-0420110012345",
				"Calangute, Goa", "https://cdn.example.com/docs/dl.jpg",
				true, now, now,
			))

		kyc, err := repo.Decide(kycID, models.KycApprove)
		require.NoError(t, err)
		assert.True(t, kyc.IsVerified)
		assert.True(t, kyc.VerifiedAt.Valid)
	})

	t.Run("reject clears verified_at", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE user_kyc")).
			WithArgs(kycID, false).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				kycID, userID, "driving_license", "GA-0420110012345",
				"Calangute, Goa", "https://cdn.example.com/docs/dl.jpg",
				false, time.Now(), nil,
			))

		kyc, err := repo.Decide(kycID, models.KycReject)
		require.NoError(t, err)
		assert.False(t, kyc.IsVerified)
		assert.False(t, kyc.VerifiedAt.Valid)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
