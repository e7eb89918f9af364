package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/memoryengine/backend/internal/common"
	"github.com/memoryengine/backend/internal/logging"
)

// errorResponse is the JSON error envelope: {"detail": "..."}.
type errorResponse struct {
	Detail string `json:"detail"`
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a service error to its status and writes the envelope.
// Internal errors are logged and never echoed to the client.
func writeError(ctx context.Context, log logging.Logger, w http.ResponseWriter, err error) {
	status := statusFromError(err)

	detail := err.Error()
	if status == http.StatusInternalServerError {
		log.Error(ctx, "request failed", "err", err)
		detail = "internal server error"
	}

	writeJSON(ctx, log, w, status, errorResponse{Detail: detail})
}

func writeJSON(ctx context.Context, log logging.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error(ctx, "failed to encode response", "err", err)
	}
}

// decodeJSON parses the request body. Malformed JSON surfaces as a
// validation error (422), matching the rest of the input validation.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.ErrorValidation
	}
	return nil
}
