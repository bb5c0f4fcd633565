package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/goalyft/rideshare-backend/internal/models"
)

// rideWithDriverColumns is the join used by search and admin listings
const rideWithDriverColumns = `
	r.*,
	u.name AS driver_name,
	u.email AS driver_email,
	u.image AS driver_image,
	v.make AS vehicle_make,
	v.model AS vehicle_model,
	v.seat_count AS vehicle_seat_count,
	v.registration_number AS vehicle_registration_number
`

// RideRepository handles ride database operations
type RideRepository struct {
	db DB
}

// NewRideRepository creates a new ride repository
func NewRideRepository(db DB) *RideRepository {
	return &RideRepository{db: db}
}

// Create offers a new ride
func (r *RideRepository) Create(driverID uuid.UUID, vehicleID uuid.UUID, req models.CreateRideRequest) (*models.Ride, error) {
	ride := &models.Ride{
		ID:             uuid.New(),
		DriverID:       driverID,
		VehicleID:      vehicleID,
		StartLocation:  req.StartLocation,
		EndLocation:    req.EndLocation,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		AvailableSeats: req.AvailableSeats,
		PricePerSeat:   req.PricePerSeat,
		Status:         models.RideScheduled,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	query := `
		INSERT INTO rides (
			id, driver_id, vehicle_id, start_location, end_location,
			start_time, end_time, available_seats, price_per_seat,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(
		query,
		ride.ID,
		ride.DriverID,
		ride.VehicleID,
		ride.StartLocation,
		ride.EndLocation,
		ride.StartTime,
		ride.EndTime,
		ride.AvailableSeats,
		ride.PricePerSeat,
		ride.Status,
		ride.CreatedAt,
		ride.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ride: %w", err)
	}

	return ride, nil
}

// GetByID retrieves a ride by id
func (r *RideRepository) GetByID(id uuid.UUID) (*models.Ride, error) {
	var ride models.Ride
	query := `SELECT * FROM rides WHERE id = $1`
	if err := r.db.Get(&ride, query, id); err != nil {
		return nil, err
	}
	return &ride, nil
}

// Search returns bookable rides matching the public search filters.
// Only rides with seats left are returned, soonest first.
func (r *RideRepository) Search(filter models.RideSearchFilter) ([]models.RideWithDriver, error) {
	query := `
		SELECT ` + rideWithDriverColumns + `
		FROM rides r
		JOIN users u ON u.id = r.driver_id
		JOIN vehicles v ON v.id = r.vehicle_id
		WHERE r.available_seats > 0
	`
	args := []interface{}{}
	idx := 1

	if filter.StartLocation != "" {
		query += fmt.Sprintf(" AND r.start_location ILIKE $%d", idx)
		args = append(args, "%"+filter.StartLocation+"%")
		idx++
	}
	if filter.EndLocation != "" {
		query += fmt.Sprintf(" AND r.end_location ILIKE $%d", idx)
		args = append(args, "%"+filter.EndLocation+"%")
		idx++
	}
	if filter.Date != nil {
		dayStart := filter.Date.Truncate(24 * time.Hour)
		query += fmt.Sprintf(" AND r.start_time >= $%d AND r.start_time < $%d", idx, idx+1)
		args = append(args, dayStart, dayStart.Add(24*time.Hour))
		idx += 2
	}

	query += " ORDER BY r.start_time ASC"

	rides := []models.RideWithDriver{}
	if err := r.db.Select(&rides, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search rides: %w", err)
	}
	return rides, nil
}

// AdminList returns rides matching the admin listing filters
func (r *RideRepository) AdminList(filter models.AdminRideFilter) ([]models.RideWithDriver, error) {
	query := `
		SELECT ` + rideWithDriverColumns + `
		FROM rides r
		JOIN users u ON u.id = r.driver_id
		JOIN vehicles v ON v.id = r.vehicle_id
		WHERE 1=1
	`
	args := []interface{}{}
	idx := 1

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (r.start_location ILIKE $%d OR r.end_location ILIKE $%d)", idx, idx)
		args = append(args, "%"+filter.Search+"%")
		idx++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND r.status = $%d", idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND r.start_time >= $%d", idx)
		args = append(args, *filter.StartDate)
		idx++
	}
	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND r.start_time <= $%d", idx)
		args = append(args, *filter.EndDate)
		idx++
	}

	query += " ORDER BY r.start_time DESC"

	rides := []models.RideWithDriver{}
	if err := r.db.Select(&rides, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list rides: %w", err)
	}
	return rides, nil
}

// CountRideStats returns total/completed/cancelled ride counts for a driver
func (r *RideRepository) CountRideStats(driverID uuid.UUID) (total, completed, cancelled int, err error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'COMPLETED') AS completed,
			COUNT(*) FILTER (WHERE status = 'CANCELLED') AS cancelled
		FROM rides
		WHERE driver_id = $1
	`
	row := r.db.QueryRow(query, driverID)
	if err = row.Scan(&total, &completed, &cancelled); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count ride stats: %w", err)
	}
	return total, completed, cancelled, nil
}
