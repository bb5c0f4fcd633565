package models

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle represents a driver-owned vehicle
type Vehicle struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	OwnerID            uuid.UUID `json:"owner_id" db:"owner_id"`
	Make               string    `json:"make" db:"make"`
	Model              string    `json:"model" db:"model"`
	Year               int       `json:"year" db:"year"`
	RegistrationNumber string    `json:"registration_number" db:"registration_number"`
	SeatCount          int       `json:"seat_count" db:"seat_count"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// CreateVehicleRequest is the payload for registering a vehicle
type CreateVehicleRequest struct {
	Make               string `json:"make" binding:"required"`
	Model              string `json:"model" binding:"required"`
	Year               int    `json:"year" binding:"required"`
	RegistrationNumber string `json:"registrationNumber" binding:"required"`
	SeatCount          int    `json:"seatCount" binding:"required,min=1"`
}
