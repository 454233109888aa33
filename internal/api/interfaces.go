package api

import (
	"context"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/service"
)

// AuthService registers and authenticates accounts.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

// CatalogService is the public product catalog.
type CatalogService interface {
	ListProducts(ctx context.Context, f service.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// CartService manages the caller's active cart.
type CartService interface {
	View(ctx context.Context, p domain.Principal) (*domain.CartView, error)
	CountItems(ctx context.Context, p domain.Principal) (int64, error)
	AddItem(ctx context.Context, p domain.Principal, productID int64) (*domain.CartItem, error)
	SetQuantity(ctx context.Context, p domain.Principal, itemID, quantity int64) error
	RemoveItem(ctx context.Context, p domain.Principal, itemID int64) error
}

// CheckoutService turns the caller's cart into an order.
type CheckoutService interface {
	Preview(ctx context.Context, p domain.Principal) (*domain.CartView, error)
	Checkout(ctx context.Context, p domain.Principal) (*domain.Order, error)
}

// OrderService lists the caller's orders.
type OrderService interface {
	History(ctx context.Context, p domain.Principal) ([]domain.OrderView, error)
}

// AdminService is the back-office.
type AdminService interface {
	Dashboard(ctx context.Context, p domain.Principal) (*domain.DashboardStats, error)
	ListProducts(ctx context.Context, p domain.Principal) ([]domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Principal, in service.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, p domain.Principal, id int64, in service.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, p domain.Principal, id int64) error
	ListOrders(ctx context.Context, p domain.Principal) ([]domain.OrderView, error)
	UpdateOrderStatus(ctx context.Context, p domain.Principal, id int64, status domain.OrderStatus) (*domain.Order, error)
	ListUsers(ctx context.Context, p domain.Principal) ([]domain.User, error)
}

// Tokens issues access tokens at login and resolves them on every request.
type Tokens interface {
	Issue(user domain.User) (string, time.Time, error)
	Parse(token string) (domain.Principal, error)
}

// Services bundles the handler dependencies.
type Services struct {
	Auth     AuthService
	Catalog  CatalogService
	Cart     CartService
	Checkout CheckoutService
	Orders   OrderService
	Admin    AdminService
	Health   Pinger
}
