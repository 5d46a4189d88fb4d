package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/storefront/internal/pkg/interceptors/constants"
)

// AttachTracingMetadata copies chi's request id and the client's idempotency
// key into the context under the shared keys, and echoes the request id.
// It must run after middleware.RequestID.
func AttachTracingMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		ctx := constants.WithRequestID(r.Context(), requestID)

		if key := r.Header.Get(constants.HeaderXIdempotencyKey); key != "" {
			ctx = constants.WithIdempotencyKey(ctx, key)
		}

		w.Header().Set(middleware.RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
