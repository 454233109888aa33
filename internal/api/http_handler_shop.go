package api

import (
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/service"
)

// --- Auth Handlers ---

// RegisterInput defines the expected input for opening an account.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input RegisterInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	user, err := h.svc.Auth.Register(r.Context(), service.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		h.respondWithServiceError(w, r, "Register", err)
		return
	}
	respondWithJSON(h.log, w, http.StatusCreated, newUserResponse(*user))
}

// LoginInput defines the expected input for a login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input LoginInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	user, err := h.svc.Auth.Authenticate(r.Context(), input.Email, input.Password)
	if err != nil {
		h.respondWithServiceError(w, r, "Login", err)
		return
	}
	token, expiresAt, err := h.tokens.Issue(*user)
	if err != nil {
		h.respondWithServiceError(w, r, "Login", err)
		return
	}
	respondWithJSON(h.log, w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
		User:      newUserResponse(*user),
	})
}

// --- Catalog Handlers ---

func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Catalog.ListCategories(r.Context())
	if err != nil {
		h.respondWithServiceError(w, r, "ListCategories", err)
		return
	}
	respondWithJSON(h.log, w, http.StatusOK, categories)
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.ProductFilter{Search: q.Get("search")}
	if idStr := q.Get("category"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || id <= 0 {
			respondWithError(h.log, w, http.StatusBadRequest, "Invalid category format")
			return
		}
		filter.CategoryID = id
	}

	products, err := h.svc.Catalog.ListProducts(r.Context(), filter)
	if err != nil {
		h.respondWithServiceError(w, r, "ListProducts", err)
		return
	}
	respondWithJSON(h.log, w, http.StatusOK, newProductResponses(products))
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.idParam(w, r, "productId", "product")
	if !ok {
		return
	}
	product, err := h.svc.Catalog.GetProduct(r.Context(), productID)
	if err != nil {
		h.respondWithServiceError(w, r, "GetProduct", err)
		return
	}
	respondWithJSON(h.log, w, http.StatusOK, newProductResponse(*product))
}

// --- Cart Handlers ---

func (h *HTTPHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Cart.View(r.Context(), PrincipalFrom(r.Context()))
	if err != nil {
		h.respondWithServiceError(w, r, "ViewCart", err)
		return
	}
	respondWithJSON(h.log, w, http.StatusOK, newCartResponse(view))
}

func (h *HTTPHandler) CountCartItems(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.Cart.CountItems(r.Context(), PrincipalFrom(r.Context()))
	if err != nil {
		h.respondWithServiceError(w, r, "CountCartItems", err)
		return
	}
	respondWithJSON(h.log, w, http.StatusOK, map[string]int64{"count": count})
}

// CartItemAddInput defines the expected input for adding a product to the cart.
type CartItemAddInput struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

func (h *HTTPHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var input CartItemAddInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	item, err := h.svc.Cart.AddItem(r.Context(), PrincipalFrom(r.Context()), input.ProductID)
	if err != nil {
		h.respondWithServiceError(w, r, "AddCartItem", err)
		return
	}
	respondWithJSON(h.log, w, http.StatusCreated, item)
}

// CartItemUpdateInput defines the expected input for changing a line quantity.
// Zero or a negative quantity removes the line.
type CartItemUpdateInput struct {
	Quantity *int64 `json:"quantity" validate:"required,lte=1000000"`
}

func (h *HTTPHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := h.idParam(w, r, "itemId", "cart item")
	if !ok {
		return
	}
	var input CartItemUpdateInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	if err := h.svc.Cart.SetQuantity(r.Context(), PrincipalFrom(r.Context()), itemID, *input.Quantity); err != nil {
		h.respondWithServiceError(w, r, "UpdateCartItem", err)
		return
	}
	respondWithJSON(h.log, w, http.StatusNoContent, nil)
}

func (h *HTTPHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := h.idParam(w, r, "itemId", "cart item")
	if !ok {
		return
	}
	if err := h.svc.Cart.RemoveItem(r.Context(), PrincipalFrom(r.Context()), itemID); err != nil {
		h.respondWithServiceError(w, r, "RemoveCartItem", err)
		return
	}
	respondWithJSON(h.log, w, http.StatusNoContent, nil)
}

// --- Checkout & Order Handlers ---

func (h *HTTPHandler) PreviewCheckout(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Checkout.Preview(r.Context(), PrincipalFrom(r.Context()))
	if err != nil {
		h.respondWithServiceError(w, r, "PreviewCheckout", err)
		return
	}
	respondWithJSON(h.log, w, http.StatusOK, newCartResponse(view))
}

type checkoutResponse struct {
	OrderID      int64  `json:"order_id"`
	Total        int64  `json:"total"`
	TotalDisplay string `json:"total_display"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.Checkout.Checkout(r.Context(), PrincipalFrom(r.Context()))
	if err != nil {
		h.respondWithServiceError(w, r, "Checkout", err)
		return
	}
	respondWithJSON(h.log, w, http.StatusCreated, checkoutResponse{
		OrderID:      order.ID,
		Total:        order.Total,
		TotalDisplay: domain.FormatCurrency(order.Total),
		Status:       string(order.Status),
		CreatedAt:    order.CreatedAt.String(),
	})
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.Orders.History(r.Context(), PrincipalFrom(r.Context()))
	if err != nil {
		h.respondWithServiceError(w, r, "ListOrders", err)
		return
	}
	respondWithJSON(h.log, w, http.StatusOK, newOrderResponses(views))
}
