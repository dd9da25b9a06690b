package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Jiommy31313/jimmyyy/internal/analytics"
	"github.com/Jiommy31313/jimmyyy/internal/auth"
	"github.com/Jiommy31313/jimmyyy/internal/cache"
	"github.com/Jiommy31313/jimmyyy/internal/repository"
	"github.com/Jiommy31313/jimmyyy/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError converts domain errors to HTTP status codes. Every
// business failure ends here as a displayed message; nothing propagates
// uncaught.
func handleServiceError(w http.ResponseWriter, err error) {
	var joinErr *analytics.JoinIncompleteError

	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, repository.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, repository.ErrDuplicateProduct):
		respondError(w, http.StatusConflict, "already_exists", err.Error())
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, service.ErrInsufficientCash):
		respondError(w, http.StatusBadRequest, "insufficient_cash", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, cache.ErrSessionNotFound):
		respondError(w, http.StatusUnauthorized, "session_expired", err.Error())
	case errors.As(err, &joinErr):
		respondError(w, http.StatusUnprocessableEntity, "join_incomplete", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", "the backing store is unavailable")
	}
}
