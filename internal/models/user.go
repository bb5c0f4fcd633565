package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's role in the marketplace
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether the role is a known value
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// AdminUserAction represents an admin action applied to a single user
type AdminUserAction string

const (
	AdminUserPromote AdminUserAction = "promote"
	AdminUserSuspend AdminUserAction = "suspend"
	AdminUserDelete  AdminUserAction = "delete"
)

// Valid reports whether the action is a known value
func (a AdminUserAction) Valid() bool {
	switch a {
	case AdminUserPromote, AdminUserSuspend, AdminUserDelete:
		return true
	}
	return false
}

// BulkUserAction represents an admin action applied to a set of users
type BulkUserAction string

const (
	BulkUserVerify  BulkUserAction = "verify"
	BulkUserSuspend BulkUserAction = "suspend"
)

// Valid reports whether the action is a known value
func (a BulkUserAction) Valid() bool {
	return a == BulkUserVerify || a == BulkUserSuspend
}

// User represents a marketplace user
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Gender       NullString `json:"gender,omitempty" db:"gender"`
	Image        NullString `json:"image,omitempty" db:"image"`
	Role         Role       `json:"role" db:"role"`
	Suspended    bool       `json:"suspended" db:"suspended"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// UserWithKyc is a user row joined with its KYC verification flag
type UserWithKyc struct {
	User
	KycVerified *bool `json:"kyc_verified" db:"kyc_verified"`
}

// RegisterRequest is the payload for user registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the payload for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the payload for profile updates
type UpdateProfileRequest struct {
	Name   string  `json:"name"`
	Gender *string `json:"gender"`
}
