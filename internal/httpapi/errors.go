package httpapi

import (
	"encoding/json"
	"net/http"

	"sessiond/internal/engine"
	"sessiond/internal/lifecycle"
	"sessiond/pkg/types"
)

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// failureStatus maps a lifecycle or engine error to an HTTP status code.
// Unknown causes (including nil on a failed call) fall back to 500.
func failureStatus(err error) int {
	switch {
	case lifecycle.IsNotInitialized(err):
		return http.StatusConflict
	case lifecycle.IsUnsupported(err), engine.IsUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
