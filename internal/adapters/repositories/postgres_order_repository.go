package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/obs"
)

// Postgres-backed implementation of the OrderRepository port.
type PostgresOrderRepository struct{ DB *sql.DB }

func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{DB: db}
}

const orderProjectionColumns = `
		o.id,
		o.order_number,
		o.customer_id,
		c.name,
		COALESCE(c.phone, ''),
		o.status,
		o.priority,
		COALESCE(o.pickup_address, ''),
		COALESCE(o.delivery_address, ''),
		o.pickup_lat,
		o.pickup_lon,
		o.delivery_lat,
		o.delivery_lon,
		o.pickup_date,
		o.delivery_date,
		o.total_amount,
		COALESCE(SUM(oi.quantity), 0) AS item_count`

// FindEligibleOrders returns routing projections ordered by priority weight
// descending, then the role-relevant date ascending, then creation time.
func (s *PostgresOrderRepository) FindEligibleOrders(
	ctx context.Context,
	businessID string,
	statuses []domain.OrderStatus,
	excludeActiveRouteLinked bool,
) (_ []*domain.OrderLocationData, err error) {
	defer obs.Time(ctx, "orders.FindEligibleOrders")(&err)

	if s.DB == nil {
		return nil, errors.New("order repository: DB is nil")
	}
	if len(statuses) == 0 {
		return []*domain.OrderLocationData{}, nil
	}

	statusList := make([]string, 0, len(statuses))
	for _, st := range statuses {
		statusList = append(statusList, string(st))
	}

	exclusion := ""
	if excludeActiveRouteLinked {
		exclusion = `
	  AND NOT EXISTS (
		SELECT 1
		FROM route_stop_orders rso
		JOIN route_stops rs ON rs.id = rso.stop_id
		JOIN routes r ON r.id = rs.route_id
		WHERE rso.order_id = o.id
		  AND r.status IN ('PLANNED', 'ASSIGNED', 'IN_PROGRESS')
	  )`
	}

	q := `
	SELECT` + orderProjectionColumns + `
	FROM orders o
	JOIN customers c ON c.id = o.customer_id
	LEFT JOIN order_items oi ON oi.order_id = o.id
	WHERE o.business_id = $1
	  AND o.status = ANY($2::text[])` + exclusion + `
	GROUP BY o.id, c.name, c.phone
	ORDER BY
		CASE o.priority
			WHEN 'URGENT' THEN 4
			WHEN 'HIGH' THEN 3
			WHEN 'LOW' THEN 1
			ELSE 2
		END DESC,
		CASE WHEN o.status IN ('PENDING', 'CONFIRMED')
			THEN o.pickup_date
			ELSE o.delivery_date
		END ASC NULLS LAST,
		o.created_at ASC;
	`

	rows, err := s.DB.QueryContext(ctx, q, businessID, statusList)
	if err != nil {
		return nil, fmt.Errorf("find eligible orders: query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.OrderLocationData, 0, 64)
	for rows.Next() {
		order, err := scanOrderProjection(rows)
		if err != nil {
			return nil, fmt.Errorf("find eligible orders: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find eligible orders: row iteration: %w", err)
	}

	return orders, nil
}

// FindOrderByID returns one routing projection or a NotFoundError.
func (s *PostgresOrderRepository) FindOrderByID(ctx context.Context, businessID, orderID string) (*domain.OrderLocationData, error) {
	if s.DB == nil {
		return nil, errors.New("order repository: DB is nil")
	}

	q := `
	SELECT` + orderProjectionColumns + `
	FROM orders o
	JOIN customers c ON c.id = o.customer_id
	LEFT JOIN order_items oi ON oi.order_id = o.id
	WHERE o.business_id = $1
	  AND o.id = $2
	GROUP BY o.id, c.name, c.phone;
	`

	row := s.DB.QueryRowContext(ctx, q, businessID, orderID)
	order, err := scanOrderProjection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "order", ID: orderID}
	}
	if err != nil {
		return nil, fmt.Errorf("find order by id: %w", err)
	}

	return order, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrderProjection(row rowScanner) (*domain.OrderLocationData, error) {
	var (
		o                        domain.OrderLocationData
		pickupLat, pickupLon     sql.NullFloat64
		deliveryLat, deliveryLon sql.NullFloat64
		pickupDate, deliveryDate sql.NullTime
	)

	err := row.Scan(
		&o.OrderID,
		&o.OrderNumber,
		&o.CustomerID,
		&o.CustomerName,
		&o.CustomerPhone,
		&o.Status,
		&o.Priority,
		&o.PickupAddress,
		&o.DeliveryAddress,
		&pickupLat,
		&pickupLon,
		&deliveryLat,
		&deliveryLon,
		&pickupDate,
		&deliveryDate,
		&o.TotalAmount,
		&o.ItemCount,
	)
	if err != nil {
		return nil, err
	}

	if pickupLat.Valid && pickupLon.Valid {
		o.PickupCoords = &domain.Coordinates{Lat: pickupLat.Float64, Lon: pickupLon.Float64}
	}
	if deliveryLat.Valid && deliveryLon.Valid {
		o.DeliveryCoords = &domain.Coordinates{Lat: deliveryLat.Float64, Lon: deliveryLon.Float64}
	}
	if pickupDate.Valid {
		t := pickupDate.Time
		o.PickupDate = &t
	}
	if deliveryDate.Valid {
		t := deliveryDate.Time
		o.DeliveryDate = &t
	}

	return &o, nil
}
