package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"gitlite/internal/vcs"
)

// Error is the body of every non-2xx response.
type Error struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind string) int {
	switch kind {
	case "not_found", "not_found_in_branch":
		return http.StatusNotFound
	case "conflict":
		return http.StatusConflict
	case "invalid_argument":
		return http.StatusBadRequest
	case "precondition_failed":
		return http.StatusPreconditionFailed
	case "invalid_operation":
		return http.StatusUnprocessableEntity
	case "unauthorized":
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	kind := vcs.Kind(err)
	code := statusFor(kind)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		msg = "internal error"
	}
	writeResponse(w, logger, code, Error{Kind: kind, Message: msg})
}

func writeResponse(w http.ResponseWriter, logger *slog.Logger, code int, response any) {
	if response == nil {
		w.WriteHeader(code)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Debug("failed to write encoded json response", "code", code, "error", err)
	}
}
