package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/domain"
	"storefront-service/internal/service"
)

func TestHTTPHandler_AdminDashboard(t *testing.T) {
	mockAdmin := new(MockAdminService)
	server := setupTestChiServer(t, Services{Admin: mockAdmin})

	stats := &domain.DashboardStats{TotalOrders: 3, TotalProducts: 6, TotalUsers: 2, TotalRevenue: 3500000, PendingOrders: 1}
	mockAdmin.On("Dashboard", mock.Anything, principalOf(testAdmin)).Return(stats, nil).Once()
	mockAdmin.On("Dashboard", mock.Anything, principalOf(testUser)).Return(nil, service.ErrForbidden).Once()

	res := doRequest(t, http.MethodGet, server.URL+"/api/v1/admin/dashboard", bearer(t, testAdmin), nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var payload dashboardResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	assert.Equal(t, *stats, payload.DashboardStats)
	assert.Equal(t, "3,500,000 ₫", payload.TotalRevenueDisplay)

	res = doRequest(t, http.MethodGet, server.URL+"/api/v1/admin/dashboard", bearer(t, testUser), nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, "Admin access required", decodeError(t, res).Error)

	mockAdmin.AssertExpectations(t)
}

func TestHTTPHandler_AdminProducts(t *testing.T) {
	mockAdmin := new(MockAdminService)
	server := setupTestChiServer(t, Services{Admin: mockAdmin})
	p := principalOf(testAdmin)

	in := service.ProductInput{Name: "Desk", Price: 0, Stock: 4, CategoryID: 3, Description: "Oak"}
	mockAdmin.On("CreateProduct", mock.Anything, p, in).Return(&domain.Product{ID: 9, Name: "Desk", Stock: 4, CategoryID: 3, Description: "Oak"}, nil).Once()
	mockAdmin.On("UpdateProduct", mock.Anything, p, int64(9), mock.AnythingOfType("service.ProductInput")).Return(nil, service.ErrCategoryNotFound).Once()
	mockAdmin.On("DeleteProduct", mock.Anything, p, int64(9)).Return(nil).Once()
	mockAdmin.On("ListProducts", mock.Anything, p).Return([]domain.Product{}, nil).Once()

	body := `{"name":"Desk","price":0,"stock":4,"category_id":3,"description":"Oak"}`
	res := doRequest(t, http.MethodPost, server.URL+"/api/v1/admin/products", bearer(t, testAdmin), strings.NewReader(body))
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var created productResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	assert.Equal(t, int64(9), created.ID)
	assert.Equal(t, "0 ₫", created.PriceDisplay)

	res = doRequest(t, http.MethodPost, server.URL+"/api/v1/admin/products", bearer(t, testAdmin),
		strings.NewReader(`{"name":"Desk","price":-5,"stock":4,"category_id":3}`))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "negative price")

	res = doRequest(t, http.MethodPost, server.URL+"/api/v1/admin/products", bearer(t, testAdmin),
		strings.NewReader(`{"name":"Desk","stock":4,"category_id":3}`))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "price is required")

	res = doRequest(t, http.MethodPut, server.URL+"/api/v1/admin/products/9", bearer(t, testAdmin), strings.NewReader(body))
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Category not found", decodeError(t, res).Error)

	res = doRequest(t, http.MethodDelete, server.URL+"/api/v1/admin/products/9", bearer(t, testAdmin), nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res = doRequest(t, http.MethodGet, server.URL+"/api/v1/admin/products", bearer(t, testAdmin), nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var listed []productResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&listed))
	assert.Empty(t, listed)

	mockAdmin.AssertExpectations(t)
}

func TestHTTPHandler_AdminOrders(t *testing.T) {
	mockAdmin := new(MockAdminService)
	server := setupTestChiServer(t, Services{Admin: mockAdmin})
	p := principalOf(testAdmin)

	mockAdmin.On("ListOrders", mock.Anything, p).Return([]domain.OrderView{{
		Order:    domain.Order{ID: 2, UserID: 55, Total: 100, Status: domain.OrderStatusPending},
		UserName: "Unknown",
		Items:    []domain.OrderLine{},
	}}, nil).Once()
	mockAdmin.On("UpdateOrderStatus", mock.Anything, p, int64(2), domain.OrderStatusShipped).
		Return(&domain.Order{ID: 2, UserID: 55, Total: 100, Status: domain.OrderStatusShipped}, nil).Once()
	mockAdmin.On("UpdateOrderStatus", mock.Anything, p, int64(3), domain.OrderStatusShipped).
		Return(nil, service.ErrOrderNotFound).Once()

	res := doRequest(t, http.MethodGet, server.URL+"/api/v1/admin/orders", bearer(t, testAdmin), nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var orders []map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "Unknown", orders[0]["user_name"])

	res = doRequest(t, http.MethodPut, server.URL+"/api/v1/admin/orders/2/status", bearer(t, testAdmin), strings.NewReader(`{"status":"shipped"}`))
	require.Equal(t, http.StatusOK, res.StatusCode)
	var order domain.Order
	require.NoError(t, json.NewDecoder(res.Body).Decode(&order))
	assert.Equal(t, domain.OrderStatusShipped, order.Status)

	res = doRequest(t, http.MethodPut, server.URL+"/api/v1/admin/orders/3/status", bearer(t, testAdmin), strings.NewReader(`{"status":"shipped"}`))
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res = doRequest(t, http.MethodPut, server.URL+"/api/v1/admin/orders/2/status", bearer(t, testAdmin), strings.NewReader(`{"status":"lost"}`))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	mockAdmin.AssertExpectations(t)
}

func TestHTTPHandler_AdminListUsers(t *testing.T) {
	mockAdmin := new(MockAdminService)
	server := setupTestChiServer(t, Services{Admin: mockAdmin})

	withHash := testUser
	withHash.PasswordHash = "$2a$10$secret"
	mockAdmin.On("ListUsers", mock.Anything, principalOf(testAdmin)).Return([]domain.User{testAdmin, withHash}, nil).Once()
	mockAdmin.On("ListUsers", mock.Anything, domain.Anonymous()).Return(nil, service.ErrUnauthorized).Once()

	res := doRequest(t, http.MethodGet, server.URL+"/api/v1/admin/users", bearer(t, testAdmin), nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var users []map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&users))
	require.Len(t, users, 2)
	for _, u := range users {
		assert.NotContains(t, u, "password_hash")
	}

	res = doRequest(t, http.MethodGet, server.URL+"/api/v1/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	mockAdmin.AssertExpectations(t)
}
