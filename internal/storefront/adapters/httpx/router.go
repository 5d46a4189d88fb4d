package httpx

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jcmexdev/storefront/internal/pkg/interceptors/constants"
	"github.com/jcmexdev/storefront/internal/storefront/adapters/httpx/middlewares"
)

// NewRouter mounts the probes at the root and the API under /api. Routes
// that need a signed-in user sit behind RequireUser.
func NewRouter(handler *Handler, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachTracingMetadata)
	r.Use(middlewares.AccessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader, constants.HeaderXIdempotencyKey},
		ExposedHeaders:   []string{middleware.RequestIDHeader, replayHeader},
		AllowCredentials: !allowsAnyOrigin(corsOrigins),
		MaxAge:           300,
	}))

	r.Get("/healthz", handler.Health)
	r.Get("/readyz", handler.Ready)

	r.Route("/api", func(r chi.Router) {
		r.Use(middlewares.Authenticate(handler.identity))

		r.Post("/auth/register", handler.Register)
		r.Post("/auth/login", handler.Login)

		r.Get("/products", handler.ListProducts)
		r.Post("/products", handler.CreateProduct)
		r.Get("/products/{id}", handler.GetProduct)
		r.Post("/init-data", handler.InitData)

		r.Group(func(r chi.Router) {
			r.Use(middlewares.RequireUser)

			r.Get("/auth/me", handler.Me)

			r.Get("/cart", handler.GetCart)
			r.Post("/cart/add", handler.AddToCart)
			r.Delete("/cart/remove/{productID}", handler.RemoveFromCart)

			r.Post("/orders", handler.PlaceOrder)
			r.Get("/orders", handler.ListOrders)
		})
	})
	return r
}

// allowsAnyOrigin reports a wildcard origin list. Credentials are only sent
// to origins that were named explicitly.
func allowsAnyOrigin(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			return true
		}
	}
	return false
}
