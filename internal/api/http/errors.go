package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
)

// ErrorResponse is the body of every non-2xx response. State tells the client
// whether the request may have been applied.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	State   string `json:"state"`
}

const (
	stateUnchanged = "unchanged"
	stateUnknown   = "unknown"
)

func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindConflict:
		if errors.Is(err, domain.ErrConcurrentUpdate) || errors.Is(err, domain.ErrEmailTaken) {
			return http.StatusConflict
		}
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := statusFor(err)

	body := ErrorResponse{Error: kind.String(), Message: err.Error(), State: stateUnchanged}
	switch kind {
	case domain.KindPersistence:
		body.State = stateUnknown
		body.Message = "the store failed while handling the request"
	case domain.KindInternal:
		body.Message = "internal error"
	}

	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "status", status, "error", err)
	} else {
		logger.DebugContext(r.Context(), "Request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}
