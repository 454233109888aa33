package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"storefront-service/internal/domain"
	"storefront-service/internal/service"
	"storefront-service/internal/store"
)

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	svc      Services
	tokens   Tokens
	validate *validator.Validate
	log      *logrus.Entry
}

// NewHTTPHandler creates a new HTTPHandler with dependencies.
func NewHTTPHandler(svc Services, tokens Tokens, logger *logrus.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:      svc,
		tokens:   tokens,
		validate: validator.New(),
		log:      logger.WithField("component", "http"),
	}
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondWithError(log logrus.FieldLogger, w http.ResponseWriter, code int, message string) {
	respondWithJSON(log, w, code, ErrorResponse{Error: message})
}

func respondWithJSON(log logrus.FieldLogger, w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.WithError(err).Error("failed to encode JSON response")
		}
	}
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// It writes the 400 response itself and reports whether the handler may go on.
func (h *HTTPHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(h.log, w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		respondWithError(h.log, w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return false
	}
	return true
}

// idParam parses a positive integer URL parameter.
func (h *HTTPHandler) idParam(w http.ResponseWriter, r *http.Request, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(h.log, w, http.StatusBadRequest, fmt.Sprintf("Invalid %s ID format", label))
		return 0, false
	}
	return id, true
}

var notFoundMessages = []struct {
	err error
	msg string
}{
	{service.ErrProductNotFound, "Product not found"},
	{service.ErrCategoryNotFound, "Category not found"},
	{service.ErrCartItemNotFound, "Cart item not found"},
	{service.ErrOrderNotFound, "Order not found"},
}

// statusFor maps a service error to an HTTP status and a client-facing message.
func statusFor(err error) (int, string) {
	var stockErr *service.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return http.StatusConflict, fmt.Sprintf("Not enough stock for %s: %d requested, %d available",
			stockErr.ProductName, stockErr.Requested, stockErr.Available)
	case errors.Is(err, service.ErrNotFound):
		for _, nf := range notFoundMessages {
			if errors.Is(err, nf.err) {
				return http.StatusNotFound, nf.msg
			}
		}
		return http.StatusNotFound, "Not found"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "Admin access required"
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "Login required"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, service.ErrEmptyCart):
		return http.StatusConflict, "Cart is empty"
	case errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusConflict, "Email is already registered"
	case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrInvalidQuantity):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, store.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "Storage is temporarily unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// respondWithServiceError logs err and writes the mapped error response.
func (h *HTTPHandler) respondWithServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	code, msg := statusFor(err)
	entry := h.log.WithFields(logrus.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"op":         op,
		"status":     code,
	}).WithError(err)
	if code >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}
	respondWithError(h.log, w, code, msg)
}

// --- Response shapes ---

type productResponse struct {
	domain.Product
	PriceDisplay string `json:"price_display"`
}

func newProductResponse(p domain.Product) productResponse {
	return productResponse{Product: p, PriceDisplay: domain.FormatCurrency(p.Price)}
}

func newProductResponses(products []domain.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, newProductResponse(p))
	}
	return out
}

type cartLineResponse struct {
	domain.CartLine
	SubtotalDisplay string `json:"subtotal_display"`
}

type cartResponse struct {
	CartID             int64              `json:"cart_id,omitempty"`
	Lines              []cartLineResponse `json:"lines"`
	Total              int64              `json:"total"`
	TotalDisplay       string             `json:"total_display"`
	UnavailableItemIDs []int64            `json:"unavailable_item_ids,omitempty"`
}

func newCartResponse(v *domain.CartView) cartResponse {
	resp := cartResponse{
		CartID:             v.CartID,
		Lines:              make([]cartLineResponse, 0, len(v.Lines)),
		Total:              v.Total,
		TotalDisplay:       domain.FormatCurrency(v.Total),
		UnavailableItemIDs: v.UnavailableItemIDs,
	}
	for _, line := range v.Lines {
		resp.Lines = append(resp.Lines, cartLineResponse{
			CartLine:        line,
			SubtotalDisplay: domain.FormatCurrency(line.Subtotal),
		})
	}
	return resp
}

type orderResponse struct {
	domain.OrderView
	TotalDisplay string `json:"total_display"`
}

func newOrderResponses(views []domain.OrderView) []orderResponse {
	out := make([]orderResponse, 0, len(views))
	for _, v := range views {
		out = append(out, orderResponse{OrderView: v, TotalDisplay: domain.FormatCurrency(v.Total)})
	}
	return out
}

// userResponse leaves out the password hash.
type userResponse struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

func newUserResponse(u domain.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for the service.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		if h.svc.Health != nil {
			r.Get("/healthz", HealthCheck(h.svc.Health, h.log))
		}

		r.Group(func(r chi.Router) {
			r.Use(h.authenticate)

			r.Post("/auth/register", h.Register)
			r.Post("/auth/login", h.Login)

			r.Get("/categories", h.ListCategories)
			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.ListProducts)
				r.Get("/{productId}", h.GetProduct)
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.ViewCart)
				r.Get("/count", h.CountCartItems)
				r.Post("/items", h.AddCartItem)
				r.Put("/items/{itemId}", h.UpdateCartItem)
				r.Delete("/items/{itemId}", h.RemoveCartItem)
			})

			r.Get("/checkout", h.PreviewCheckout)
			r.Post("/checkout", h.Checkout)
			r.Get("/orders", h.ListOrders)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/dashboard", h.AdminDashboard)
				r.Get("/products", h.AdminListProducts)
				r.Post("/products", h.AdminCreateProduct)
				r.Put("/products/{productId}", h.AdminUpdateProduct)
				r.Delete("/products/{productId}", h.AdminDeleteProduct)
				r.Get("/orders", h.AdminListOrders)
				r.Put("/orders/{orderId}/status", h.AdminUpdateOrderStatus)
				r.Get("/users", h.AdminListUsers)
			})
		})
	})
}
