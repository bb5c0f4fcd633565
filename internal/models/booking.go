package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Valid reports whether the status is a known value
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// HoldsSeats reports whether a booking in this status still occupies
// seats on its ride. Only cancelled bookings have released their seats.
func (s BookingStatus) HoldsSeats() bool {
	return s != BookingCancelled
}

// Booking represents a passenger's reservation of seats on a ride
type Booking struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	RideID      uuid.UUID     `json:"ride_id" db:"ride_id"`
	PassengerID uuid.UUID     `json:"passenger_id" db:"passenger_id"`
	SeatsBooked int           `json:"seats_booked" db:"seats_booked"`
	TotalPrice  float64       `json:"total_price" db:"total_price"`
	Status      BookingStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// BookingWithRide is a booking row joined with its ride for passenger
// and admin listings.
type BookingWithRide struct {
	Booking
	StartLocation  string     `json:"start_location" db:"start_location"`
	EndLocation    string     `json:"end_location" db:"end_location"`
	StartTime      time.Time  `json:"start_time" db:"start_time"`
	DriverName     string     `json:"driver_name" db:"driver_name"`
	DriverEmail    string     `json:"driver_email" db:"driver_email"`
	PassengerName  string     `json:"passenger_name" db:"passenger_name"`
	PassengerEmail string     `json:"passenger_email" db:"passenger_email"`
	PaymentStatus  NullString `json:"payment_status" db:"payment_status"`
}

// CreateBookingRequest is the payload for booking seats on a ride
type CreateBookingRequest struct {
	RideID      string `json:"rideId" binding:"required"`
	SeatsBooked int    `json:"seatsBooked" binding:"required,min=1"`
}

// UpdateBookingStatusRequest is the admin payload for status transitions
type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status" binding:"required"`
}

// AdminBookingFilter holds the admin listing filters
type AdminBookingFilter struct {
	Search    string
	Status    BookingStatus
	StartDate *time.Time
	EndDate   *time.Time
}
