package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fleet-route-service/internal/domain"
)

func TestWriteServiceErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "not found maps to 404",
			err:        &domain.NotFoundError{Resource: "route", ID: "r-1"},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "wrapped not found maps to 404",
			err: fmt.Errorf("assign orders: load route: %w",
				&domain.NotFoundError{Resource: "route", ID: "r-1"}),
			wantStatus: http.StatusNotFound,
		},
		{
			name: "invalid state maps to 409",
			err: &domain.InvalidStateError{
				Code:    domain.CodeRouteNotModifiable,
				Status:  "COMPLETED",
				Message: "route is completed",
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "invalid input maps to 400",
			err:        &domain.InvalidInputError{Message: "businessID is required"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown errors map to 500",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)

			writeServiceError(rec, req, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type = %q, want application/json", ct)
			}
		})
	}
}

func TestWriteServiceErrorInvalidStateBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/routes/r-1/assign", nil)

	writeServiceError(rec, req, &domain.InvalidStateError{
		Code:    domain.CodeRouteNotModifiable,
		Status:  "IN_PROGRESS",
		Message: "orders can only be assigned while the route is planned",
	})

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["code"] != domain.CodeRouteNotModifiable {
		t.Errorf("code = %q, want %q", body["code"], domain.CodeRouteNotModifiable)
	}
	if body["status"] != "IN_PROGRESS" {
		t.Errorf("status = %q, want IN_PROGRESS", body["status"])
	}
}

func TestWriteServiceErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	writeServiceError(rec, req, errors.New("pq: password authentication failed"))

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "internal server error" {
		t.Errorf("error = %q, internal detail must not leak", body["error"])
	}
}
