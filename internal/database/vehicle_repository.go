package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/goalyft/rideshare-backend/internal/models"
)

// VehicleRepository handles vehicle database operations
type VehicleRepository struct {
	db DB
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// Create registers a vehicle for an owner
func (r *VehicleRepository) Create(ownerID uuid.UUID, req models.CreateVehicleRequest) (*models.Vehicle, error) {
	vehicle := &models.Vehicle{
		ID:                 uuid.New(),
		OwnerID:            ownerID,
		Make:               req.Make,
		Model:              req.Model,
		Year:               req.Year,
		RegistrationNumber: req.RegistrationNumber,
		SeatCount:          req.SeatCount,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}

	query := `
		INSERT INTO vehicles (
			id, owner_id, make, model, year, registration_number,
			seat_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(
		query,
		vehicle.ID,
		vehicle.OwnerID,
		vehicle.Make,
		vehicle.Model,
		vehicle.Year,
		vehicle.RegistrationNumber,
		vehicle.SeatCount,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	return vehicle, nil
}

// GetByID retrieves a vehicle by id
func (r *VehicleRepository) GetByID(id uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	query := `SELECT * FROM vehicles WHERE id = $1`
	if err := r.db.Get(&vehicle, query, id); err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// ListByOwner returns the vehicles registered by a user
func (r *VehicleRepository) ListByOwner(ownerID uuid.UUID) ([]models.Vehicle, error) {
	vehicles := []models.Vehicle{}
	query := `SELECT * FROM vehicles WHERE owner_id = $1 ORDER BY created_at DESC`
	if err := r.db.Select(&vehicles, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	return vehicles, nil
}
