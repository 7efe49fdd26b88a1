package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/obs"
)

// Postgres-backed implementation of the RouteRepository port.
//
// Route-level write serialization (two concurrent assignment requests against
// one route) is not provided here; callers must serialize per route.
type PostgresRouteRepository struct{ DB *sql.DB }

func NewPostgresRouteRepository(db *sql.DB) *PostgresRouteRepository {
	return &PostgresRouteRepository{DB: db}
}

// FindRouteByID loads a route with its stops ordered by sequence.
func (s *PostgresRouteRepository) FindRouteByID(ctx context.Context, businessID, routeID string) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "routes.FindRouteByID")(&err)

	if s.DB == nil {
		return nil, errors.New("route repository: DB is nil")
	}

	q := `
	SELECT
		id,
		business_id,
		name,
		type,
		status,
		vehicle_id,
		planned_date,
		planned_start,
		planned_end,
		actual_start,
		actual_end,
		total_distance_km,
		estimated_duration_min,
		actual_duration_min,
		total_weight,
		total_items,
		COALESCE(optimization_strategy, ''),
		optimization_score,
		COALESCE(notes, '')
	FROM routes
	WHERE business_id = $1
	  AND id = $2;
	`

	var (
		r                        domain.Route
		plannedStart, plannedEnd sql.NullTime
		actualStart, actualEnd   sql.NullTime
	)
	err = s.DB.QueryRowContext(ctx, q, businessID, routeID).Scan(
		&r.ID,
		&r.BusinessID,
		&r.Name,
		&r.Type,
		&r.Status,
		&r.VehicleID,
		&r.PlannedDate,
		&plannedStart,
		&plannedEnd,
		&actualStart,
		&actualEnd,
		&r.TotalDistanceKm,
		&r.EstimatedDurationMin,
		&r.ActualDurationMin,
		&r.TotalWeight,
		&r.TotalItems,
		&r.OptimizationStrategy,
		&r.OptimizationScore,
		&r.Notes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "route", ID: routeID}
	}
	if err != nil {
		return nil, fmt.Errorf("find route by id: scan route: %w", err)
	}

	r.PlannedStart = timePtr(plannedStart)
	r.PlannedEnd = timePtr(plannedEnd)
	r.ActualStart = timePtr(actualStart)
	r.ActualEnd = timePtr(actualEnd)

	stops, err := s.loadStops(ctx, r.ID)
	if err != nil {
		return nil, fmt.Errorf("find route by id: %w", err)
	}
	r.Stops = stops

	return &r, nil
}

func (s *PostgresRouteRepository) loadStops(ctx context.Context, routeID string) ([]*domain.RouteStop, error) {
	q := `
	SELECT
		id,
		route_id,
		sequence,
		type,
		status,
		COALESCE(address, ''),
		lat,
		lon,
		COALESCE(customer_id, ''),
		COALESCE(customer_name, ''),
		COALESCE(customer_phone, ''),
		planned_arrival,
		planned_departure,
		item_count,
		weight
	FROM route_stops
	WHERE route_id = $1
	ORDER BY sequence;
	`

	rows, err := s.DB.QueryContext(ctx, q, routeID)
	if err != nil {
		return nil, fmt.Errorf("load stops: query route_stops: %w", err)
	}
	defer rows.Close()

	stops := make([]*domain.RouteStop, 0, 16)
	for rows.Next() {
		var (
			stop               domain.RouteStop
			lat, lon           sql.NullFloat64
			arrival, departure sql.NullTime
		)
		err := rows.Scan(
			&stop.ID,
			&stop.RouteID,
			&stop.Sequence,
			&stop.Type,
			&stop.Status,
			&stop.Address,
			&lat,
			&lon,
			&stop.CustomerID,
			&stop.CustomerName,
			&stop.CustomerPhone,
			&arrival,
			&departure,
			&stop.ItemCount,
			&stop.Weight,
		)
		if err != nil {
			return nil, fmt.Errorf("load stops: scan row: %w", err)
		}

		if lat.Valid && lon.Valid {
			stop.Coords = &domain.Coordinates{Lat: lat.Float64, Lon: lon.Float64}
		}
		stop.PlannedArrival = timePtr(arrival)
		stop.PlannedDeparture = timePtr(departure)

		stops = append(stops, &stop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load stops: row iteration: %w", err)
	}

	return stops, nil
}

// CreateRoute persists a route and fills in its generated ID.
func (s *PostgresRouteRepository) CreateRoute(ctx context.Context, route *domain.Route) error {
	if s.DB == nil {
		return errors.New("route repository: DB is nil")
	}

	q := `
	INSERT INTO routes (
		business_id, name, type, status, vehicle_id, planned_date,
		planned_start, planned_end,
		total_distance_km, estimated_duration_min, total_weight, total_items,
		optimization_strategy, optimization_score, notes
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	RETURNING id;
	`

	err := s.DB.QueryRowContext(ctx, q,
		route.BusinessID, route.Name, string(route.Type), string(route.Status),
		route.VehicleID, route.PlannedDate.Format("2006-01-02"),
		route.PlannedStart, route.PlannedEnd,
		route.TotalDistanceKm, route.EstimatedDurationMin, route.TotalWeight, route.TotalItems,
		route.OptimizationStrategy, route.OptimizationScore, route.Notes,
	).Scan(&route.ID)
	if err != nil {
		return fmt.Errorf("create route: insert: %w", err)
	}

	return nil
}

// CreateStop persists a stop and fills in its generated ID.
func (s *PostgresRouteRepository) CreateStop(ctx context.Context, stop *domain.RouteStop) error {
	if s.DB == nil {
		return errors.New("route repository: DB is nil")
	}

	var lat, lon sql.NullFloat64
	if stop.Coords != nil {
		lat = sql.NullFloat64{Float64: stop.Coords.Lat, Valid: true}
		lon = sql.NullFloat64{Float64: stop.Coords.Lon, Valid: true}
	}

	q := `
	INSERT INTO route_stops (
		route_id, sequence, type, status, address, lat, lon,
		customer_id, customer_name, customer_phone,
		planned_arrival, planned_departure, item_count, weight
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING id;
	`

	err := s.DB.QueryRowContext(ctx, q,
		stop.RouteID, stop.Sequence, string(stop.Type), string(stop.Status),
		stop.Address, lat, lon,
		stop.CustomerID, stop.CustomerName, stop.CustomerPhone,
		stop.PlannedArrival, stop.PlannedDeparture, stop.ItemCount, stop.Weight,
	).Scan(&stop.ID)
	if err != nil {
		return fmt.Errorf("create stop: insert: %w", err)
	}

	return nil
}

func (s *PostgresRouteRepository) DeleteStop(ctx context.Context, stopID string) error {
	if s.DB == nil {
		return errors.New("route repository: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM route_stops WHERE id = $1;`, stopID); err != nil {
		return fmt.Errorf("delete stop %q: %w", stopID, err)
	}
	return nil
}

// CreateStopOrder persists a stop-order link and fills in its generated ID.
func (s *PostgresRouteRepository) CreateStopOrder(ctx context.Context, link *domain.RouteStopOrder) error {
	if s.DB == nil {
		return errors.New("route repository: DB is nil")
	}

	q := `
	INSERT INTO route_stop_orders (stop_id, order_id, action, sequence)
	VALUES ($1, $2, $3, $4)
	RETURNING id;
	`

	err := s.DB.QueryRowContext(ctx, q, link.StopID, link.OrderID, string(link.Action), link.Sequence).Scan(&link.ID)
	if err != nil {
		return fmt.Errorf("create stop order: insert: %w", err)
	}

	return nil
}

// FindStopOrder returns the link for an order within a route, or (nil, nil)
// when the order is not linked to any stop of the route.
func (s *PostgresRouteRepository) FindStopOrder(ctx context.Context, routeID, orderID string) (*domain.RouteStopOrder, error) {
	if s.DB == nil {
		return nil, errors.New("route repository: DB is nil")
	}

	q := `
	SELECT rso.id, rso.stop_id, rso.order_id, rso.action, rso.sequence
	FROM route_stop_orders rso
	JOIN route_stops rs ON rs.id = rso.stop_id
	WHERE rs.route_id = $1
	  AND rso.order_id = $2;
	`

	var link domain.RouteStopOrder
	err := s.DB.QueryRowContext(ctx, q, routeID, orderID).Scan(
		&link.ID, &link.StopID, &link.OrderID, &link.Action, &link.Sequence,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find stop order: %w", err)
	}

	return &link, nil
}

func (s *PostgresRouteRepository) DeleteStopOrder(ctx context.Context, linkID string) error {
	if s.DB == nil {
		return errors.New("route repository: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM route_stop_orders WHERE id = $1;`, linkID); err != nil {
		return fmt.Errorf("delete stop order %q: %w", linkID, err)
	}
	return nil
}

func (s *PostgresRouteRepository) CountStopOrders(ctx context.Context, stopID string) (int, error) {
	if s.DB == nil {
		return 0, errors.New("route repository: DB is nil")
	}

	var n int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM route_stop_orders WHERE stop_id = $1;`, stopID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count stop orders for %q: %w", stopID, err)
	}
	return n, nil
}

func (s *PostgresRouteRepository) UpdateRouteTotals(ctx context.Context, routeID string, totalWeight float64, totalItems int) error {
	if s.DB == nil {
		return errors.New("route repository: DB is nil")
	}

	q := `
	UPDATE routes
	SET total_weight = $2,
		total_items = $3
	WHERE id = $1;
	`
	if _, err := s.DB.ExecContext(ctx, q, routeID, totalWeight, totalItems); err != nil {
		return fmt.Errorf("update route totals for %q: %w", routeID, err)
	}
	return nil
}

func (s *PostgresRouteRepository) UpdateRouteMetrics(ctx context.Context, routeID string, distanceKm float64, durationMin int) error {
	if s.DB == nil {
		return errors.New("route repository: DB is nil")
	}

	q := `
	UPDATE routes
	SET total_distance_km = $2,
		estimated_duration_min = $3
	WHERE id = $1;
	`
	if _, err := s.DB.ExecContext(ctx, q, routeID, distanceKm, durationMin); err != nil {
		return fmt.Errorf("update route metrics for %q: %w", routeID, err)
	}
	return nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
