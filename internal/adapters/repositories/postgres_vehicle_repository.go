package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fleet-route-service/internal/domain"
)

// Postgres-backed implementation of the VehicleRepository port.
type PostgresVehicleRepository struct{ DB *sql.DB }

func NewPostgresVehicleRepository(db *sql.DB) *PostgresVehicleRepository {
	return &PostgresVehicleRepository{DB: db}
}

const vehicleColumns = `
		id,
		business_id,
		name,
		COALESCE(plate_number, ''),
		status,
		is_active,
		max_weight_kg,
		max_items,
		max_stops`

// FindAvailableVehicles returns active AVAILABLE vehicles with no active
// route on the given date. Double-booking prevention for concurrent callers
// belongs to the database (vehicle+date), not to this query.
func (s *PostgresVehicleRepository) FindAvailableVehicles(ctx context.Context, businessID string, date time.Time) ([]*domain.Vehicle, error) {
	if s.DB == nil {
		return nil, errors.New("vehicle repository: DB is nil")
	}

	q := `
	SELECT` + vehicleColumns + `
	FROM vehicles v
	WHERE v.business_id = $1
	  AND v.is_active
	  AND v.status = 'AVAILABLE'
	  AND NOT EXISTS (
		SELECT 1
		FROM routes r
		WHERE r.vehicle_id = v.id
		  AND r.planned_date = $2::date
		  AND r.status IN ('PLANNED', 'ASSIGNED', 'IN_PROGRESS')
	  )
	ORDER BY v.name;
	`

	rows, err := s.DB.QueryContext(ctx, q, businessID, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("find available vehicles: query vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0, 16)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("find available vehicles: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find available vehicles: row iteration: %w", err)
	}

	return vehicles, nil
}

func (s *PostgresVehicleRepository) FindVehicleByID(ctx context.Context, businessID, vehicleID string) (*domain.Vehicle, error) {
	if s.DB == nil {
		return nil, errors.New("vehicle repository: DB is nil")
	}

	q := `
	SELECT` + vehicleColumns + `
	FROM vehicles v
	WHERE v.business_id = $1
	  AND v.id = $2;
	`

	v, err := scanVehicle(s.DB.QueryRowContext(ctx, q, businessID, vehicleID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "vehicle", ID: vehicleID}
	}
	if err != nil {
		return nil, fmt.Errorf("find vehicle by id: %w", err)
	}

	return v, nil
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := row.Scan(
		&v.ID,
		&v.BusinessID,
		&v.Name,
		&v.PlateNumber,
		&v.Status,
		&v.IsActive,
		&v.MaxWeightKg,
		&v.MaxItems,
		&v.MaxStops,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
