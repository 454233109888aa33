package api

import (
	"net/http"

	"storefront-service/internal/domain"
	"storefront-service/internal/service"
)

type dashboardResponse struct {
	domain.DashboardStats
	TotalRevenueDisplay string `json:"total_revenue_display"`
}

func (h *HTTPHandler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Admin.Dashboard(r.Context(), PrincipalFrom(r.Context()))
	if err != nil {
		h.respondWithServiceError(w, r, "AdminDashboard", err)
		return
	}
	respondWithJSON(h.log, w, http.StatusOK, dashboardResponse{
		DashboardStats:      *stats,
		TotalRevenueDisplay: domain.FormatCurrency(stats.TotalRevenue),
	})
}

func (h *HTTPHandler) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Admin.ListProducts(r.Context(), PrincipalFrom(r.Context()))
	if err != nil {
		h.respondWithServiceError(w, r, "AdminListProducts", err)
		return
	}
	respondWithJSON(h.log, w, http.StatusOK, newProductResponses(products))
}

// ProductInput defines the expected input for creating or replacing a product.
type ProductInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Price       *int64 `json:"price" validate:"required,gte=0"`
	Stock       *int64 `json:"stock" validate:"required,gte=0"`
	CategoryID  int64  `json:"category_id" validate:"required,gt=0"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Image       string `json:"image" validate:"omitempty,max=2048"`
}

func (in ProductInput) toService() service.ProductInput {
	return service.ProductInput{
		Name:        in.Name,
		Price:       *in.Price,
		Stock:       *in.Stock,
		CategoryID:  in.CategoryID,
		Description: in.Description,
		Image:       in.Image,
	}
}

func (h *HTTPHandler) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var input ProductInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	product, err := h.svc.Admin.CreateProduct(r.Context(), PrincipalFrom(r.Context()), input.toService())
	if err != nil {
		h.respondWithServiceError(w, r, "AdminCreateProduct", err)
		return
	}
	respondWithJSON(h.log, w, http.StatusCreated, newProductResponse(*product))
}

func (h *HTTPHandler) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.idParam(w, r, "productId", "product")
	if !ok {
		return
	}
	var input ProductInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	product, err := h.svc.Admin.UpdateProduct(r.Context(), PrincipalFrom(r.Context()), productID, input.toService())
	if err != nil {
		h.respondWithServiceError(w, r, "AdminUpdateProduct", err)
		return
	}
	respondWithJSON(h.log, w, http.StatusOK, newProductResponse(*product))
}

func (h *HTTPHandler) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.idParam(w, r, "productId", "product")
	if !ok {
		return
	}
	if err := h.svc.Admin.DeleteProduct(r.Context(), PrincipalFrom(r.Context()), productID); err != nil {
		h.respondWithServiceError(w, r, "AdminDeleteProduct", err)
		return
	}
	respondWithJSON(h.log, w, http.StatusNoContent, nil)
}

func (h *HTTPHandler) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.Admin.ListOrders(r.Context(), PrincipalFrom(r.Context()))
	if err != nil {
		h.respondWithServiceError(w, r, "AdminListOrders", err)
		return
	}
	respondWithJSON(h.log, w, http.StatusOK, newOrderResponses(views))
}

// OrderStatusInput defines the expected input for an order status change.
type OrderStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

func (h *HTTPHandler) AdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.idParam(w, r, "orderId", "order")
	if !ok {
		return
	}
	var input OrderStatusInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	order, err := h.svc.Admin.UpdateOrderStatus(r.Context(), PrincipalFrom(r.Context()), orderID, domain.OrderStatus(input.Status))
	if err != nil {
		h.respondWithServiceError(w, r, "AdminUpdateOrderStatus", err)
		return
	}
	respondWithJSON(h.log, w, http.StatusOK, order)
}

func (h *HTTPHandler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Admin.ListUsers(r.Context(), PrincipalFrom(r.Context()))
	if err != nil {
		h.respondWithServiceError(w, r, "AdminListUsers", err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, newUserResponse(u))
	}
	respondWithJSON(h.log, w, http.StatusOK, out)
}
