package database

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/goalyft/rideshare-backend/internal/models"
)

// ErrInsufficientSeats is returned when a booking asks for more seats
// than the ride has left. Under concurrent bookings the conditional
// seat decrement makes exactly one of two competing requests fail with
// this error instead of overselling.
var ErrInsufficientSeats = errors.New("not enough seats available")

// BookingRepository handles booking database operations.
// All seat accounting runs inside a single transaction so a crash can
// never leave the booking row and the ride's seat counter out of step.
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create books seats on a ride. The seat decrement is conditional on
// enough seats remaining, so the invariant available_seats >= 0 holds
// even when two bookings race for the last seats.
func (r *BookingRepository) Create(rideID, passengerID uuid.UUID, seatsBooked int, totalPrice float64) (*models.Booking, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE rides
		 SET available_seats = available_seats - $2, updated_at = NOW()
		 WHERE id = $1 AND available_seats >= $2`,
		rideID, seatsBooked,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve seats: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrInsufficientSeats
	}

	booking := &models.Booking{
		ID:          uuid.New(),
		RideID:      rideID,
		PassengerID: passengerID,
		SeatsBooked: seatsBooked,
		TotalPrice:  totalPrice,
		Status:      models.BookingPending,
	}

	query := `
		INSERT INTO bookings (
			id, ride_id, passenger_id, seats_booked, total_price,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err = tx.QueryRowx(query,
		booking.ID, booking.RideID, booking.PassengerID,
		booking.SeatsBooked, booking.TotalPrice, booking.Status,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit booking: %w", err)
	}

	return booking, nil
}

// GetByID retrieves a booking by id
func (r *BookingRepository) GetByID(id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	query := `SELECT * FROM bookings WHERE id = $1`
	if err := r.db.Get(&booking, query, id); err != nil {
		return nil, err
	}
	return &booking, nil
}

// UpdateStatus transitions a booking to a new status. Moving a booking
// that still holds seats to CANCELLED restores exactly those seats to
// the ride in the same transaction; cancelling an already cancelled
// booking restores nothing.
func (r *BookingRepository) UpdateStatus(id uuid.UUID, status models.BookingStatus) (*models.Booking, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var booking models.Booking
	err = tx.QueryRowx(
		`SELECT id, ride_id, passenger_id, seats_booked, total_price, status, created_at, updated_at
		 FROM bookings WHERE id = $1 FOR UPDATE`,
		id,
	).StructScan(&booking)
	if err != nil {
		return nil, err
	}

	previousStatus := booking.Status

	err = tx.QueryRowx(
		`UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING updated_at`,
		id, status,
	).Scan(&booking.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	booking.Status = status

	if status == models.BookingCancelled && previousStatus.HoldsSeats() {
		_, err = tx.Exec(
			`UPDATE rides
			 SET available_seats = available_seats + $2, updated_at = NOW()
			 WHERE id = $1`,
			booking.RideID, booking.SeatsBooked,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to restore seats: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit status update: %w", err)
	}

	return &booking, nil
}

// Delete removes a booking. A booking that still holds seats releases
// them back to the ride in the same transaction.
func (r *BookingRepository) Delete(id uuid.UUID) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var booking models.Booking
	err = tx.QueryRowx(
		`SELECT id, ride_id, passenger_id, seats_booked, total_price, status, created_at, updated_at
		 FROM bookings WHERE id = $1 FOR UPDATE`,
		id,
	).StructScan(&booking)
	if err != nil {
		return err
	}

	if booking.Status.HoldsSeats() {
		_, err = tx.Exec(
			`UPDATE rides
			 SET available_seats = available_seats + $2, updated_at = NOW()
			 WHERE id = $1`,
			booking.RideID, booking.SeatsBooked,
		)
		if err != nil {
			return fmt.Errorf("failed to restore seats: %w", err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM bookings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking delete: %w", err)
	}

	return nil
}

// ListByPassenger returns a passenger's bookings with ride details.
// A booking can accrue several payment rows from repeated order
// creation; the lateral join picks the latest one so each booking
// appears exactly once.
func (r *BookingRepository) ListByPassenger(passengerID uuid.UUID) ([]models.BookingWithRide, error) {
	bookings := []models.BookingWithRide{}
	query := `
		SELECT
			b.*,
			r.start_location, r.end_location, r.start_time,
			d.name AS driver_name, d.email AS driver_email,
			p.name AS passenger_name, p.email AS passenger_email,
			pay.status AS payment_status
		FROM bookings b
		JOIN rides r ON r.id = b.ride_id
		JOIN users d ON d.id = r.driver_id
		JOIN users p ON p.id = b.passenger_id
		LEFT JOIN LATERAL (
			SELECT status FROM payments
			WHERE booking_id = b.id
			ORDER BY created_at DESC
			LIMIT 1
		) pay ON TRUE
		WHERE b.passenger_id = $1
		ORDER BY b.created_at DESC
	`
	if err := r.db.Select(&bookings, query, passengerID); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// ListByRides returns the bookings for a set of rides, passenger
// embedded, for the admin rides listing.
func (r *BookingRepository) ListByRides(rideIDs []uuid.UUID) ([]models.BookingWithRide, error) {
	if len(rideIDs) == 0 {
		return []models.BookingWithRide{}, nil
	}
	query, args, err := buildInQuery(`
		SELECT
			b.*,
			r.start_location, r.end_location, r.start_time,
			d.name AS driver_name, d.email AS driver_email,
			p.name AS passenger_name, p.email AS passenger_email,
			pay.status AS payment_status
		FROM bookings b
		JOIN rides r ON r.id = b.ride_id
		JOIN users d ON d.id = r.driver_id
		JOIN users p ON p.id = b.passenger_id
		LEFT JOIN LATERAL (
			SELECT status FROM payments
			WHERE booking_id = b.id
			ORDER BY created_at DESC
			LIMIT 1
		) pay ON TRUE
		WHERE b.ride_id IN (%s)
		ORDER BY b.created_at DESC`,
		rideIDs,
	)
	if err != nil {
		return nil, err
	}

	bookings := []models.BookingWithRide{}
	if err := r.db.Select(&bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings by ride: %w", err)
	}
	return bookings, nil
}

// AdminList returns bookings matching the admin listing filters
func (r *BookingRepository) AdminList(filter models.AdminBookingFilter) ([]models.BookingWithRide, error) {
	query := `
		SELECT
			b.*,
			r.start_location, r.end_location, r.start_time,
			d.name AS driver_name, d.email AS driver_email,
			p.name AS passenger_name, p.email AS passenger_email,
			pay.status AS payment_status
		FROM bookings b
		JOIN rides r ON r.id = b.ride_id
		JOIN users d ON d.id = r.driver_id
		JOIN users p ON p.id = b.passenger_id
		LEFT JOIN LATERAL (
			SELECT status FROM payments
			WHERE booking_id = b.id
			ORDER BY created_at DESC
			LIMIT 1
		) pay ON TRUE
		WHERE 1=1
	`
	args := []interface{}{}
	idx := 1

	if filter.Search != "" {
		query += fmt.Sprintf(
			" AND (p.name ILIKE $%d OR p.email ILIKE $%d OR r.start_location ILIKE $%d OR r.end_location ILIKE $%d)",
			idx, idx, idx, idx,
		)
		args = append(args, "%"+filter.Search+"%")
		idx++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND b.status = $%d", idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND b.created_at >= $%d", idx)
		args = append(args, *filter.StartDate)
		idx++
	}
	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND b.created_at <= $%d", idx)
		args = append(args, *filter.EndDate)
		idx++
	}

	query += " ORDER BY b.created_at DESC"

	bookings := []models.BookingWithRide{}
	if err := r.db.Select(&bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// CountBookingStats returns total/completed/cancelled booking counts
// for a passenger.
func (r *BookingRepository) CountBookingStats(passengerID uuid.UUID) (total, completed, cancelled int, err error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'COMPLETED') AS completed,
			COUNT(*) FILTER (WHERE status = 'CANCELLED') AS cancelled
		FROM bookings
		WHERE passenger_id = $1
	`
	row := r.db.QueryRow(query, passengerID)
	if err = row.Scan(&total, &completed, &cancelled); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count booking stats: %w", err)
	}
	return total, completed, cancelled, nil
}
