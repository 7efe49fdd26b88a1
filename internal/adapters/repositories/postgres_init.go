package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the Postgres schema for orders, fleet and route planning data.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`
	CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		business_id TEXT NOT NULL,
		name TEXT NOT NULL,
		phone TEXT,
		address TEXT,
		city TEXT,
		lat DOUBLE PRECISION,
		lon DOUBLE PRECISION
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		business_id TEXT NOT NULL,
		order_number TEXT NOT NULL,
		customer_id TEXT NOT NULL REFERENCES customers(id),
		status TEXT NOT NULL,
		priority TEXT NOT NULL DEFAULT 'NORMAL',
		pickup_address TEXT,
		delivery_address TEXT,
		pickup_lat DOUBLE PRECISION,
		pickup_lon DOUBLE PRECISION,
		delivery_lat DOUBLE PRECISION,
		delivery_lon DOUBLE PRECISION,
		pickup_date TIMESTAMPTZ,
		delivery_date TIMESTAMPTZ,
		total_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (business_id, order_number)
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS order_items (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		price DOUBLE PRECISION NOT NULL DEFAULT 0
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		business_id TEXT NOT NULL,
		name TEXT NOT NULL,
		plate_number TEXT,
		status TEXT NOT NULL DEFAULT 'AVAILABLE',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		max_weight_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
		max_items INTEGER NOT NULL DEFAULT 0,
		max_stops INTEGER NOT NULL DEFAULT 0
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS routes (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		business_id TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		vehicle_id TEXT NOT NULL REFERENCES vehicles(id),
		planned_date DATE NOT NULL,
		planned_start TIMESTAMPTZ,
		planned_end TIMESTAMPTZ,
		actual_start TIMESTAMPTZ,
		actual_end TIMESTAMPTZ,
		total_distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
		estimated_duration_min INTEGER NOT NULL DEFAULT 0,
		actual_duration_min INTEGER NOT NULL DEFAULT 0,
		total_weight DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_items INTEGER NOT NULL DEFAULT 0,
		optimization_strategy TEXT,
		optimization_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS route_stops (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		route_id TEXT NOT NULL REFERENCES routes(id) ON DELETE CASCADE,
		sequence INTEGER NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		address TEXT,
		lat DOUBLE PRECISION,
		lon DOUBLE PRECISION,
		customer_id TEXT,
		customer_name TEXT,
		customer_phone TEXT,
		planned_arrival TIMESTAMPTZ,
		planned_departure TIMESTAMPTZ,
		item_count INTEGER NOT NULL DEFAULT 0,
		weight DOUBLE PRECISION NOT NULL DEFAULT 0
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS route_stop_orders (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		stop_id TEXT NOT NULL REFERENCES route_stops(id) ON DELETE CASCADE,
		order_id TEXT NOT NULL REFERENCES orders(id),
		action TEXT NOT NULL,
		sequence INTEGER NOT NULL DEFAULT 1
	);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_orders_business_status
	ON orders(business_id, status);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_route_stops_route
	ON route_stops(route_id, sequence);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_route_stop_orders_stop
	ON route_stop_orders(stop_id);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_route_stop_orders_order
	ON route_stop_orders(order_id);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_routes_vehicle_date
	ON routes(vehicle_id, planned_date);
	`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type CustomerSeed struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Phone   string   `json:"phone"`
	Address string   `json:"address"`
	City    string   `json:"city"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

type OrderItemSeed struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type OrderSeed struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"order_number"`
	CustomerID      string          `json:"customer_id"`
	Status          string          `json:"status"`
	Priority        string          `json:"priority"`
	PickupAddress   string          `json:"pickup_address"`
	DeliveryAddress string          `json:"delivery_address"`
	PickupLat       *float64        `json:"pickup_lat"`
	PickupLon       *float64        `json:"pickup_lon"`
	DeliveryLat     *float64        `json:"delivery_lat"`
	DeliveryLon     *float64        `json:"delivery_lon"`
	TotalAmount     float64         `json:"total_amount"`
	Items           []OrderItemSeed `json:"items"`
}

type VehicleSeed struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	PlateNumber string  `json:"plate_number"`
	Status      string  `json:"status"`
	MaxWeightKg float64 `json:"max_weight_kg"`
	MaxItems    int     `json:"max_items"`
	MaxStops    int     `json:"max_stops"`
}

type SeedFile struct {
	BusinessID string         `json:"business_id"`
	Customers  []CustomerSeed `json:"customers"`
	Orders     []OrderSeed    `json:"orders"`
	Vehicles   []VehicleSeed  `json:"vehicles"`
}

// Populate the database with demo data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed data: read %q: %w", jsonPath, err)
	}

	var data SeedFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed data: parse json: %w", err)
	}

	if strings.TrimSpace(data.BusinessID) == "" {
		return errors.New("seed data: business_id cannot be empty")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed data: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, c := range data.Customers {
		if c.ID == "" || strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("seed data: customer at index %d: id and name are required", i+1)
		}
		_, err := tx.Exec(`
		INSERT INTO customers (id, business_id, name, phone, address, city, lat, lon)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING;
		`, c.ID, data.BusinessID, c.Name, c.Phone, c.Address, c.City, c.Lat, c.Lon)
		if err != nil {
			return fmt.Errorf("seed data: insert customer %q: %w", c.ID, err)
		}
	}

	for i, v := range data.Vehicles {
		if v.ID == "" || strings.TrimSpace(v.Name) == "" {
			return fmt.Errorf("seed data: vehicle at index %d: id and name are required", i+1)
		}
		status := v.Status
		if status == "" {
			status = "AVAILABLE"
		}
		_, err := tx.Exec(`
		INSERT INTO vehicles (id, business_id, name, plate_number, status, max_weight_kg, max_items, max_stops)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING;
		`, v.ID, data.BusinessID, v.Name, v.PlateNumber, status, v.MaxWeightKg, v.MaxItems, v.MaxStops)
		if err != nil {
			return fmt.Errorf("seed data: insert vehicle %q: %w", v.ID, err)
		}
	}

	for i, o := range data.Orders {
		if o.ID == "" || strings.TrimSpace(o.OrderNumber) == "" || o.CustomerID == "" {
			return fmt.Errorf("seed data: order at index %d: id, order_number and customer_id are required", i+1)
		}
		priority := o.Priority
		if priority == "" {
			priority = "NORMAL"
		}
		_, err := tx.Exec(`
		INSERT INTO orders (
			id, business_id, order_number, customer_id, status, priority,
			pickup_address, delivery_address,
			pickup_lat, pickup_lon, delivery_lat, delivery_lon, total_amount
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO NOTHING;
		`, o.ID, data.BusinessID, o.OrderNumber, o.CustomerID, o.Status, priority,
			o.PickupAddress, o.DeliveryAddress,
			o.PickupLat, o.PickupLon, o.DeliveryLat, o.DeliveryLon, o.TotalAmount)
		if err != nil {
			return fmt.Errorf("seed data: insert order %q: %w", o.ID, err)
		}

		for _, item := range o.Items {
			_, err := tx.Exec(`
			INSERT INTO order_items (order_id, name, quantity, price)
			VALUES ($1, $2, $3, $4);
			`, o.ID, item.Name, item.Quantity, item.Price)
			if err != nil {
				return fmt.Errorf("seed data: insert item for order %q: %w", o.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed data: commit tx: %w", err)
	}

	return nil
}
