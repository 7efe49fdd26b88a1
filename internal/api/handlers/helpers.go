package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"fleet-route-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeServiceError maps the domain error taxonomy onto HTTP status codes.
// Anything unrecognized is a 500 with a generic body; the cause is logged,
// not leaked.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		writeError(w, r, http.StatusNotFound, notFound.Error())
		return
	}

	var invalidState *domain.InvalidStateError
	if errors.As(err, &invalidState) {
		writeJSON(w, r, http.StatusConflict, map[string]string{
			"error":  invalidState.Message,
			"code":   invalidState.Code,
			"status": invalidState.Status,
		})
		return
	}

	var invalidInput *domain.InvalidInputError
	if errors.As(err, &invalidInput) {
		writeError(w, r, http.StatusBadRequest, invalidInput.Message)
		return
	}

	log.Printf("request failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}
