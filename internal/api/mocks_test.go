package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/auth"
	"storefront-service/internal/domain"
	"storefront-service/internal/service"
)

// MockAuthService is a mock implementation of AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockCatalogService is a mock implementation of CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListProducts(ctx context.Context, f service.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, f)
	var products []domain.Product
	if arg0 := args.Get(0); arg0 != nil {
		products = arg0.([]domain.Product)
	}
	return products, args.Error(1)
}

func (m *MockCatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockCatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	var categories []domain.Category
	if arg0 := args.Get(0); arg0 != nil {
		categories = arg0.([]domain.Category)
	}
	return categories, args.Error(1)
}

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) View(ctx context.Context, p domain.Principal) (*domain.CartView, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartView), args.Error(1)
}

func (m *MockCartService) CountItems(ctx context.Context, p domain.Principal) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, p domain.Principal, productID int64) (*domain.CartItem, error) {
	args := m.Called(ctx, p, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}

func (m *MockCartService) SetQuantity(ctx context.Context, p domain.Principal, itemID, quantity int64) error {
	return m.Called(ctx, p, itemID, quantity).Error(0)
}

func (m *MockCartService) RemoveItem(ctx context.Context, p domain.Principal, itemID int64) error {
	return m.Called(ctx, p, itemID).Error(0)
}

// MockCheckoutService is a mock implementation of CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Preview(ctx context.Context, p domain.Principal) (*domain.CartView, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartView), args.Error(1)
}

func (m *MockCheckoutService) Checkout(ctx context.Context, p domain.Principal) (*domain.Order, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) History(ctx context.Context, p domain.Principal) ([]domain.OrderView, error) {
	args := m.Called(ctx, p)
	var views []domain.OrderView
	if arg0 := args.Get(0); arg0 != nil {
		views = arg0.([]domain.OrderView)
	}
	return views, args.Error(1)
}

// MockAdminService is a mock implementation of AdminService.
type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) Dashboard(ctx context.Context, p domain.Principal) (*domain.DashboardStats, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardStats), args.Error(1)
}

func (m *MockAdminService) ListProducts(ctx context.Context, p domain.Principal) ([]domain.Product, error) {
	args := m.Called(ctx, p)
	var products []domain.Product
	if arg0 := args.Get(0); arg0 != nil {
		products = arg0.([]domain.Product)
	}
	return products, args.Error(1)
}

func (m *MockAdminService) CreateProduct(ctx context.Context, p domain.Principal, in service.ProductInput) (*domain.Product, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockAdminService) UpdateProduct(ctx context.Context, p domain.Principal, id int64, in service.ProductInput) (*domain.Product, error) {
	args := m.Called(ctx, p, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockAdminService) DeleteProduct(ctx context.Context, p domain.Principal, id int64) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *MockAdminService) ListOrders(ctx context.Context, p domain.Principal) ([]domain.OrderView, error) {
	args := m.Called(ctx, p)
	var views []domain.OrderView
	if arg0 := args.Get(0); arg0 != nil {
		views = arg0.([]domain.OrderView)
	}
	return views, args.Error(1)
}

func (m *MockAdminService) UpdateOrderStatus(ctx context.Context, p domain.Principal, id int64, status domain.OrderStatus) (*domain.Order, error) {
	args := m.Called(ctx, p, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockAdminService) ListUsers(ctx context.Context, p domain.Principal) ([]domain.User, error) {
	args := m.Called(ctx, p)
	var users []domain.User
	if arg0 := args.Get(0); arg0 != nil {
		users = arg0.([]domain.User)
	}
	return users, args.Error(1)
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

const testSecret = "handler-test-secret"

var (
	testUser  = domain.User{ID: 7, Name: "Alice", Email: "alice@example.com", Role: domain.RoleUser}
	testAdmin = domain.User{ID: 1, Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin}
)

// Helper for setting up tests with a chi router and handler
func setupTestChiServer(t *testing.T, svc Services) *httptest.Server {
	t.Helper()
	handler := NewHTTPHandler(svc, auth.NewTokenManager(testSecret, time.Hour), quietLogger())
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// bearer returns an Authorization header value for user.
func bearer(t *testing.T, user domain.User) string {
	t.Helper()
	token, _, err := auth.NewTokenManager(testSecret, time.Hour).Issue(user)
	require.NoError(t, err)
	return "Bearer " + token
}

func principalOf(u domain.User) domain.Principal {
	return domain.Principal{UserID: u.ID, Role: u.Role}
}

// doRequest sends a request with an optional JSON body and Authorization header.
func doRequest(t *testing.T, method, url, authz string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}
