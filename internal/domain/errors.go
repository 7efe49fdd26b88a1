package domain

import "fmt"

// Machine-readable codes carried by InvalidStateError so callers can render
// a precise message without parsing error text.
const (
	CodeRouteNotModifiable   = "ROUTE_NOT_MODIFIABLE"
	CodeOrderNotDeletable    = "ORDER_NOT_DELETABLE"
	CodeOrderAssignedToRoute = "ORDER_ASSIGNED_TO_ROUTE"
)

// NotFoundError indicates a referenced entity does not exist or does not
// belong to the given business. Surfaced as a 404-equivalent, never retried.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// InvalidStateError indicates an operation attempted against an entity whose
// current status forbids it.
type InvalidStateError struct {
	Code    string
	Status  string
	Message string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s (code=%s status=%s)", e.Message, e.Code, e.Status)
}

// InvalidInputError indicates malformed input rejected before any mutation,
// e.g. empty coordinate sets or missing identifiers.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }
