package models

import (
	"time"

	"github.com/google/uuid"
)

// RideStatus represents the lifecycle state of a ride
type RideStatus string

const (
	RideScheduled RideStatus = "SCHEDULED"
	RideCompleted RideStatus = "COMPLETED"
	RideCancelled RideStatus = "CANCELLED"
)

// Valid reports whether the status is a known value
func (s RideStatus) Valid() bool {
	switch s {
	case RideScheduled, RideCompleted, RideCancelled:
		return true
	}
	return false
}

// Ride represents a driver-offered trip with fixed seats and price
type Ride struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	DriverID       uuid.UUID  `json:"driver_id" db:"driver_id"`
	VehicleID      uuid.UUID  `json:"vehicle_id" db:"vehicle_id"`
	StartLocation  string     `json:"start_location" db:"start_location"`
	EndLocation    string     `json:"end_location" db:"end_location"`
	StartTime      time.Time  `json:"start_time" db:"start_time"`
	EndTime        time.Time  `json:"end_time" db:"end_time"`
	AvailableSeats int        `json:"available_seats" db:"available_seats"`
	PricePerSeat   float64    `json:"price_per_seat" db:"price_per_seat"`
	Status         RideStatus `json:"status" db:"status"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// RideWithDriver is a ride row joined with driver and vehicle details
// for search results and admin listings.
type RideWithDriver struct {
	Ride
	DriverName         string     `json:"driver_name" db:"driver_name"`
	DriverEmail        string     `json:"driver_email" db:"driver_email"`
	DriverImage        NullString `json:"driver_image" db:"driver_image"`
	VehicleMake        string     `json:"vehicle_make" db:"vehicle_make"`
	VehicleModel       string     `json:"vehicle_model" db:"vehicle_model"`
	VehicleSeatCount   int        `json:"vehicle_seat_count" db:"vehicle_seat_count"`
	RegistrationNumber string     `json:"vehicle_registration_number" db:"vehicle_registration_number"`
}

// CreateRideRequest is the payload for offering a ride
type CreateRideRequest struct {
	StartLocation  string    `json:"startLocation" binding:"required"`
	EndLocation    string    `json:"endLocation" binding:"required"`
	StartTime      time.Time `json:"startTime" binding:"required"`
	EndTime        time.Time `json:"endTime" binding:"required"`
	VehicleID      string    `json:"vehicleId" binding:"required"`
	AvailableSeats int       `json:"availableSeats" binding:"required,min=1"`
	PricePerSeat   float64   `json:"pricePerSeat" binding:"required,gt=0"`
}

// RideSearchFilter holds the optional search parameters for ride listings
type RideSearchFilter struct {
	StartLocation string
	EndLocation   string
	Date          *time.Time
}

// AdminRideFilter holds the admin listing filters
type AdminRideFilter struct {
	Search    string
	Status    RideStatus
	StartDate *time.Time
	EndDate   *time.Time
}
