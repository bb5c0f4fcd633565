package models

import (
	"time"

	"github.com/google/uuid"
)

// KycAction represents an admin decision on a KYC submission
type KycAction string

const (
	KycApprove KycAction = "approve"
	KycReject  KycAction = "reject"
)

// Valid reports whether the action is a known value
func (a KycAction) Valid() bool {
	return a == KycApprove || a == KycReject
}

// UserKyc represents a Know-Your-Customer verification record
type UserKyc struct {
	ID             uuid.UUID `json:"id" db:"id"`
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	DocumentType   string    `json:"document_type" db:"document_type"`
	DocumentNumber string    `json:"document_number" db:"document_number"`
	Address        string    `json:"address" db:"address"`
	DocumentImage  string    `json:"document_image" db:"document_image"`
	IsVerified     bool      `json:"is_verified" db:"is_verified"`
	SubmittedAt    time.Time `json:"submitted_at" db:"submitted_at"`
	VerifiedAt     NullTime  `json:"verified_at" db:"verified_at"`
}

// KycWithUser is a KYC row joined with the submitting user
type KycWithUser struct {
	UserKyc
	UserName  string     `json:"user_name" db:"user_name"`
	UserEmail string     `json:"user_email" db:"user_email"`
	UserImage NullString `json:"user_image" db:"user_image"`
}

// SubmitKycRequest is the payload for a KYC submission
type SubmitKycRequest struct {
	DocumentType   string `json:"documentType" binding:"required"`
	DocumentNumber string `json:"documentNumber" binding:"required"`
	Address        string `json:"address" binding:"required"`
	DocumentImage  string `json:"documentImage" binding:"required"`
}

// KycDecisionRequest is the admin payload for approving or rejecting
type KycDecisionRequest struct {
	Action KycAction `json:"action" binding:"required"`
}

// KycFilter holds the admin listing filters
type KycFilter struct {
	Search       string
	DocumentType string
	Status       string // "verified", "pending" or empty
}
