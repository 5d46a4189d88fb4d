package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/storefront/internal/pkg/cache"
	"github.com/jcmexdev/storefront/internal/pkg/interceptors/constants"
	"github.com/jcmexdev/storefront/internal/storefront/adapters/httpx/middlewares"
	"github.com/jcmexdev/storefront/internal/storefront/app"
	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

const (
	maxBodyBytes = 1 << 20

	placeOrderOperation = "place-order"
	replayHeader        = "Idempotent-Replayed"
)

// Pinger is the readiness check of the backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of the HTTP handlers. Cache is optional; without
// it X-Idempotency-Key is ignored.
type Deps struct {
	Identity *app.IdentityService
	Catalog  *app.CatalogService
	Carts    *app.CartService
	Orders   *app.OrderService
	Store    Pinger

	Cache          cache.Cache
	IdempotencyTTL time.Duration
}

// Handler serves the storefront API. Build it with NewHandler.
type Handler struct {
	identity *app.IdentityService
	catalog  *app.CatalogService
	carts    *app.CartService
	orders   *app.OrderService
	store    Pinger

	cache          cache.Cache
	idempotencyTTL time.Duration
}

// NewHandler defaults the idempotency TTL to a day.
func NewHandler(d Deps) *Handler {
	ttl := d.IdempotencyTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Handler{
		identity:       d.Identity,
		catalog:        d.Catalog,
		carts:          d.Carts,
		orders:         d.Orders,
		store:          d.Store,
		cache:          d.Cache,
		idempotencyTTL: ttl,
	}
}

// --- auth ---

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	user, token, err := h.identity.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{User: mapUser(user), Token: token})
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}

	user, token, err := h.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{User: mapUser(user), Token: token})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.identity.Me(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapUser(user))
}

// --- catalog ---

// ListProducts handles GET /api/products with optional category and
// featured query filters.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var filter domain.ProductFilter

	q := r.URL.Query()
	if raw := q.Get("category"); raw != "" {
		c, err := domain.ParseCategory(raw)
		if err != nil {
			respondError(w, r, err)
			return
		}
		filter.Category = &c
	}
	if raw := q.Get("featured"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("featured must be a boolean, got %q", raw))
			return
		}
		filter.Featured = &b
	}

	products, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProducts(products))
}

// GetProduct handles GET /api/products/{id}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

// CreateProduct handles POST /api/products.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decode(w, r, &req) {
		return
	}

	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		respondError(w, r, err)
		return
	}

	p, err := h.catalog.CreateProduct(r.Context(), domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    category,
		Images:      nonNil(req.Images),
		Sizes:       nonNil(req.Sizes),
		Colors:      nonNil(req.Colors),
		Stock:       req.Stock,
		Featured:    req.Featured,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

// InitData handles POST /api/init-data.
func (h *Handler) InitData(w http.ResponseWriter, r *http.Request) {
	seeded, err := h.catalog.SeedSampleData(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	msg := "Sample data already exists"
	if seeded {
		msg = "Sample data initialized successfully"
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// --- cart ---

// GetCart handles GET /api/cart, creating the cart on first access.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.GetOrCreate(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(cart))
}

// AddToCart handles POST /api/cart/add.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req CartItemDTO
	if !decode(w, r, &req) {
		return
	}

	cart, err := h.carts.AddItem(r.Context(), userID(r), req.toDomain())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CartMutationResponse{Message: "Item added to cart", Cart: mapCart(cart)})
}

// RemoveFromCart handles DELETE /api/cart/remove/{productID}.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.RemoveItem(r.Context(), userID(r), chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CartMutationResponse{Message: "Item removed from cart", Cart: mapCart(cart)})
}

// --- orders ---

// PlaceOrder honors X-Idempotency-Key when a cache is configured: a key
// already seen for this user replays the stored response. Two requests with
// the same key racing each other can still both place an order.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	uid := userID(r)

	var cacheKey string
	if key := constants.IdempotencyKey(ctx); key != "" && h.cache != nil {
		cacheKey = h.cache.GenerateKey(placeOrderOperation, uid, key)

		cached, err := h.cache.Get(ctx, cacheKey)
		if err != nil {
			slog.WarnContext(ctx, "idempotency lookup failed", "error", err)
		} else if cached != "" {
			w.Header().Set(replayHeader, "true")
			writeRaw(w, http.StatusOK, []byte(cached))
			return
		}
	}

	items := make([]domain.CartItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = it.toDomain()
	}

	order, err := h.orders.PlaceOrder(ctx, uid, items, req.ShippingAddress)
	if err != nil {
		respondError(w, r, err)
		return
	}

	body, err := json.Marshal(mapOrder(order))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if cacheKey != "" {
		if err := h.cache.Set(ctx, cacheKey, body, h.idempotencyTTL); err != nil {
			slog.WarnContext(ctx, "idempotency store failed", "order_id", order.ID, "error", err)
		}
	}
	writeRaw(w, http.StatusOK, body)
}

// ListOrders handles GET /api/orders.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrders(orders))
}

// --- probes ---

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports 503 while the store is unreachable.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			slog.WarnContext(r.Context(), "cache not ready", "error", err)
			writeError(w, http.StatusServiceUnavailable, "cache_unavailable", http.StatusText(http.StatusServiceUnavailable))
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func userID(r *http.Request) string {
	return middlewares.PrincipalFrom(r.Context()).User.ID
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		msg := err.Error()
		if errors.Is(err, io.EOF) {
			msg = "request body is empty"
		}
		writeError(w, http.StatusBadRequest, "invalid_json", msg)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
