package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

// httpStatusFrom maps a service error to a status and a stable error code.
func httpStatusFrom(err error) (int, string) {
	switch {
	// Duplicate registration is a 400 on the wire.
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest, "email_taken"
	case errors.Is(err, domain.ErrRevisionConflict):
		return http.StatusConflict, "cart_conflict"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, domain.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "store_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := httpStatusFrom(err)

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		msg = http.StatusText(status)
	}
	writeError(w, status, code, msg)
}
