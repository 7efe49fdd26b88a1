package dto

type CoordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// OrderResponse is the routing projection of an order as exposed over HTTP:
// enough to render a stop on a map, nothing more.
type OrderResponse struct {
	OrderID         string               `json:"order_id"`
	OrderNumber     string               `json:"order_number"`
	CustomerName    string               `json:"customer_name"`
	Status          string               `json:"status"`
	Priority        string               `json:"priority"`
	Address         string               `json:"address"`
	Coords          *CoordinatesResponse `json:"coords,omitempty"`
	ItemCount       int                  `json:"item_count"`
	EstimatedWeight float64              `json:"estimated_weight"`
}

type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}
