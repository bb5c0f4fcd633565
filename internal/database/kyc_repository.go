package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/goalyft/rideshare-backend/internal/models"
)

// KycRepository handles KYC database operations
type KycRepository struct {
	db DB
}

// NewKycRepository creates a new KYC repository
func NewKycRepository(db DB) *KycRepository {
	return &KycRepository{db: db}
}

// Create records a KYC submission for a user
func (r *KycRepository) Create(userID uuid.UUID, req models.SubmitKycRequest) (*models.UserKyc, error) {
	kyc := &models.UserKyc{
		ID:             uuid.New(),
		UserID:         userID,
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
		Address:        req.Address,
		DocumentImage:  req.DocumentImage,
		IsVerified:     false,
		SubmittedAt:    time.Now(),
	}

	query := `
		INSERT INTO user_kyc (
			id, user_id, document_type, document_number, address,
			document_image, is_verified, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(
		query,
		kyc.ID,
		kyc.UserID,
		kyc.DocumentType,
		kyc.DocumentNumber,
		kyc.Address,
		kyc.DocumentImage,
		kyc.IsVerified,
		kyc.SubmittedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kyc record: %w", err)
	}

	return kyc, nil
}

// GetByID retrieves a KYC record joined with its user
func (r *KycRepository) GetByID(id uuid.UUID) (*models.KycWithUser, error) {
	var kyc models.KycWithUser
	query := `
		SELECT k.*, u.name AS user_name, u.email AS user_email, u.image AS user_image
		FROM user_kyc k
		JOIN users u ON u.id = k.user_id
		WHERE k.id = $1
	`
	if err := r.db.Get(&kyc, query, id); err != nil {
		return nil, err
	}
	return &kyc, nil
}

// GetByUserID retrieves a user's KYC record
func (r *KycRepository) GetByUserID(userID uuid.UUID) (*models.UserKyc, error) {
	var kyc models.UserKyc
	query := `SELECT * FROM user_kyc WHERE user_id = $1`
	if err := r.db.Get(&kyc, query, userID); err != nil {
		return nil, err
	}
	return &kyc, nil
}

// Decide applies an admin approve/reject decision. Approval stamps
// verified_at; rejection clears it.
func (r *KycRepository) Decide(id uuid.UUID, action models.KycAction) (*models.UserKyc, error) {
	var kyc models.UserKyc
	query := `
		UPDATE user_kyc
		SET is_verified = $2,
		    verified_at = CASE WHEN $2 THEN NOW() ELSE NULL END
		WHERE id = $1
		RETURNING *
	`
	if err := r.db.Get(&kyc, query, id, action == models.KycApprove); err != nil {
		return nil, err
	}
	return &kyc, nil
}

// VerifyMany approves KYC records for a set of users
func (r *KycRepository) VerifyMany(userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	query, args, err := buildInQuery(
		`UPDATE user_kyc SET is_verified = TRUE, verified_at = NOW() WHERE user_id IN (%s)`,
		userIDs,
	)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to verify kyc records: %w", err)
	}
	return nil
}

// AdminList returns KYC submissions matching the admin listing filters
func (r *KycRepository) AdminList(filter models.KycFilter) ([]models.KycWithUser, error) {
	query := `
		SELECT k.*, u.name AS user_name, u.email AS user_email, u.image AS user_image
		FROM user_kyc k
		JOIN users u ON u.id = k.user_id
		WHERE 1=1
	`
	args := []interface{}{}
	idx := 1

	if filter.DocumentType != "" {
		query += fmt.Sprintf(" AND k.document_type = $%d", idx)
		args = append(args, filter.DocumentType)
		idx++
	}
	switch filter.Status {
	case "verified":
		query += " AND k.is_verified = TRUE"
	case "pending":
		query += " AND k.is_verified = FALSE"
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (u.name ILIKE $%d OR u.email ILIKE $%d)", idx, idx)
		args = append(args, "%"+filter.Search+"%")
		idx++
	}

	query += " ORDER BY k.submitted_at DESC"

	records := []models.KycWithUser{}
	if err := r.db.Select(&records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list kyc records: %w", err)
	}
	return records, nil
}
