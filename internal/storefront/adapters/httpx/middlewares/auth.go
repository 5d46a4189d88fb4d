package middlewares

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jcmexdev/storefront/internal/storefront/app"
	"github.com/jcmexdev/storefront/internal/storefront/auth"
)

type principalKey struct{}

// Authenticator resolves a raw bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (app.Principal, error)
}

// Authenticate stores the caller's Principal in the request context. It
// never rejects a request on its own; RequireUser does.
func Authenticate(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := a.Authenticate(r.Context(), auth.ParseBearer(r.Header.Get("Authorization")))
			if err != nil {
				slog.ErrorContext(r.Context(), "authenticate", "error", err)
				writeError(w, http.StatusServiceUnavailable, "store_unavailable", http.StatusText(http.StatusServiceUnavailable))
				return
			}
			if p.Status == auth.Invalid {
				slog.DebugContext(r.Context(), "rejected bearer token", "reason", p.Reason)
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireUser responds 401 unless the caller is authenticated.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := PrincipalFrom(r.Context())
		switch p.Status {
		case auth.Authenticated:
			next.ServeHTTP(w, r)
		case auth.Invalid:
			writeError(w, http.StatusUnauthorized, "invalid_token", "Invalid token: "+p.Reason)
		default:
			writeError(w, http.StatusUnauthorized, "unauthorized", "Not authenticated")
		}
	})
}

// WithPrincipal stores p on ctx for PrincipalFrom.
func WithPrincipal(ctx context.Context, p app.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the Principal stored by Authenticate, or an
// anonymous one.
func PrincipalFrom(ctx context.Context) app.Principal {
	p, _ := ctx.Value(principalKey{}).(app.Principal)
	return p
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code, "message": msg})
}
