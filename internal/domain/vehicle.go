package domain

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "AVAILABLE"
	VehicleStatusOnRoute     VehicleStatus = "ON_ROUTE"
	VehicleStatusMaintenance VehicleStatus = "MAINTENANCE"
)

// Vehicle carries the capacity ceilings that bound how much one route holds.
type Vehicle struct {
	ID          string
	BusinessID  string
	Name        string
	PlateNumber string
	Status      VehicleStatus
	IsActive    bool

	MaxWeightKg float64
	MaxItems    int
	MaxStops    int
}
