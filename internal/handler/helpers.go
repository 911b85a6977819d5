package handler

import (
	"errors"
	"net/http"

	"parley/internal/domain"
	"parley/internal/httputil"
	"parley/internal/service/answer"
)

// handleError converts domain and provider errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var (
		conflictErr  *domain.ConflictError
		upstreamErr  *answer.UpstreamError
		transportErr *answer.TransportError
	)

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	case errors.Is(err, answer.ErrNotConfigured):
		httputil.RespondError(w, http.StatusInternalServerError, "answer provider is not configured")
	case errors.As(err, &upstreamErr), errors.As(err, &transportErr):
		httputil.RespondError(w, http.StatusServiceUnavailable, "answer provider is unavailable")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// PathParam extracts a required path parameter, responding with 400 when
// it is missing.
func PathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	value := r.PathValue(name)
	if value == "" {
		httputil.RespondError(w, http.StatusBadRequest, label+" is required")
		return "", false
	}
	return value, true
}
