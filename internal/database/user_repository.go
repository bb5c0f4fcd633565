package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/goalyft/rideshare-backend/internal/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// CreateUser creates a new user with the USER role
func (r *UserRepository) CreateUser(name, email, passwordHash string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
		Suspended:    false,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	query := `
		INSERT INTO users (
			id, name, email, password_hash, role, suspended,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(
		query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Suspended,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `SELECT * FROM users WHERE id = $1`
	if err := r.db.Get(&user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	query := `SELECT * FROM users WHERE email = $1`
	if err := r.db.Get(&user, query, strings.ToLower(email)); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates the mutable profile fields of a user
func (r *UserRepository) UpdateProfile(id uuid.UUID, name string, gender *string) (*models.User, error) {
	var user models.User
	query := `
		UPDATE users
		SET name = COALESCE(NULLIF($2, ''), name),
		    gender = COALESCE($3, gender),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`
	if err := r.db.Get(&user, query, id, name, gender); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetRole updates a user's role
func (r *UserRepository) SetRole(id uuid.UUID, role models.Role) error {
	result, err := r.db.Exec(
		`UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`,
		id, role,
	)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	return requireRowsAffected(result, "user")
}

// SetSuspended updates a user's suspended flag
func (r *UserRepository) SetSuspended(id uuid.UUID, suspended bool) error {
	result, err := r.db.Exec(
		`UPDATE users SET suspended = $2, updated_at = NOW() WHERE id = $1`,
		id, suspended,
	)
	if err != nil {
		return fmt.Errorf("failed to set suspended flag: %w", err)
	}
	return requireRowsAffected(result, "user")
}

// Delete removes a user
func (r *UserRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireRowsAffected(result, "user")
}

// SuspendMany suspends a set of users, skipping admins
func (r *UserRepository) SuspendMany(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := buildInQuery(
		`UPDATE users SET suspended = TRUE, updated_at = NOW() WHERE role <> 'ADMIN' AND id IN (%s)`,
		ids,
	)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to suspend users: %w", err)
	}
	return nil
}

// AdminList returns users matching the admin listing filters,
// joined with their KYC verification flag.
func (r *UserRepository) AdminList(search string, role models.Role, kycStatus string) ([]models.UserWithKyc, error) {
	query := `
		SELECT u.*, k.is_verified AS kyc_verified
		FROM users u
		LEFT JOIN user_kyc k ON k.user_id = u.id
		WHERE 1=1
	`
	args := []interface{}{}
	idx := 1

	if search != "" {
		query += fmt.Sprintf(" AND (u.name ILIKE $%d OR u.email ILIKE $%d)", idx, idx)
		args = append(args, "%"+search+"%")
		idx++
	}
	if role != "" {
		query += fmt.Sprintf(" AND u.role = $%d", idx)
		args = append(args, role)
		idx++
	}
	switch kycStatus {
	case "verified":
		query += " AND k.is_verified = TRUE"
	case "pending":
		query += " AND k.is_verified = FALSE"
	}

	query += " ORDER BY u.created_at DESC"

	users := []models.UserWithKyc{}
	if err := r.db.Select(&users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CountByKycStatus counts users by KYC verification state.
// countType is "total", "verified" or "pending".
func (r *UserRepository) CountByKycStatus(countType string) (int, error) {
	var query string
	switch countType {
	case "total":
		query = `SELECT COUNT(*) FROM users`
	case "verified":
		query = `SELECT COUNT(*) FROM users u JOIN user_kyc k ON k.user_id = u.id WHERE k.is_verified = TRUE`
	case "pending":
		query = `SELECT COUNT(*) FROM users u JOIN user_kyc k ON k.user_id = u.id WHERE k.is_verified = FALSE`
	default:
		return 0, fmt.Errorf("invalid count type: %s", countType)
	}

	var count int
	if err := r.db.Get(&count, query); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
