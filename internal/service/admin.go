package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"storefront-service/internal/domain"
	"storefront-service/internal/linker"
	"storefront-service/internal/store"
)

// ProductInput carries the editable fields of a product.
type ProductInput struct {
	Name        string
	Price       int64
	Stock       int64
	CategoryID  int64
	Description string
	Image       string
}

// AdminService backs the admin back-office. Every method requires the admin role.
type AdminService struct {
	store *store.Store
	log   *logrus.Entry
}

// NewAdminService creates a new AdminService.
func NewAdminService(s *store.Store, logger *logrus.Logger) *AdminService {
	return &AdminService{store: s, log: logger.WithField("component", "admin")}
}

func requireAdmin(p domain.Principal) error {
	if p.IsAnonymous() {
		return ErrUnauthorized
	}
	if !p.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// ComputeStats folds the dashboard aggregates. Admin accounts are not counted as users.
func ComputeStats(orders []domain.Order, products []domain.Product, users []domain.User) domain.DashboardStats {
	stats := domain.DashboardStats{
		TotalOrders:   len(orders),
		TotalProducts: len(products),
	}
	for _, u := range users {
		if u.Role == domain.RoleUser {
			stats.TotalUsers++
		}
	}
	for _, o := range orders {
		stats.TotalRevenue += o.Total
		if o.Status == domain.OrderStatusPending {
			stats.PendingOrders++
		}
	}
	return stats
}

// Dashboard recomputes the dashboard aggregates from storage.
func (s *AdminService) Dashboard(ctx context.Context, p domain.Principal) (*domain.DashboardStats, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	orders, err := store.Load[domain.Order](ctx, s.store, store.Orders)
	if err != nil {
		return nil, err
	}
	products, err := store.Load[domain.Product](ctx, s.store, store.Products)
	if err != nil {
		return nil, err
	}
	users, err := store.Load[domain.User](ctx, s.store, store.Users)
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(orders, products, users)
	return &stats, nil
}

// ListProducts returns every product.
func (s *AdminService) ListProducts(ctx context.Context, p domain.Principal) ([]domain.Product, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	return store.Load[domain.Product](ctx, s.store, store.Products)
}

func validateProductInput(ctx context.Context, r store.Reader, in ProductInput) error {
	if in.Price < 0 || in.Stock < 0 {
		return ErrInvalidProduct
	}
	categories, err := store.Load[domain.Category](ctx, r, store.Categories)
	if err != nil {
		return err
	}
	if _, ok := linker.Find(categories, linker.ByID[domain.Category](in.CategoryID)); !ok {
		return ErrCategoryNotFound
	}
	return nil
}

func applyProductInput(product *domain.Product, in ProductInput) {
	product.Name = in.Name
	product.Price = in.Price
	product.Stock = in.Stock
	product.CategoryID = in.CategoryID
	product.Description = in.Description
	product.Image = in.Image
}

// CreateProduct adds a product under an existing category.
func (s *AdminService) CreateProduct(ctx context.Context, p domain.Principal, in ProductInput) (*domain.Product, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	var created domain.Product
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		if err := validateProductInput(ctx, tx, in); err != nil {
			return err
		}
		products, err := store.Load[domain.Product](ctx, tx, store.Products)
		if err != nil {
			return err
		}
		created = domain.Product{ID: store.NextID(products)}
		applyProductInput(&created, in)
		return store.Save(ctx, tx, store.Products, append(products, created))
	})
	if err != nil {
		return nil, err
	}
	s.log.WithField("product_id", created.ID).Info("product created")
	return &created, nil
}

// UpdateProduct replaces the editable fields of product id.
func (s *AdminService) UpdateProduct(ctx context.Context, p domain.Principal, id int64, in ProductInput) (*domain.Product, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	var updated domain.Product
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		if err := validateProductInput(ctx, tx, in); err != nil {
			return err
		}
		products, err := store.Load[domain.Product](ctx, tx, store.Products)
		if err != nil {
			return err
		}
		product := linker.FindPtr(products, linker.ByID[domain.Product](id))
		if product == nil {
			return ErrProductNotFound
		}
		applyProductInput(product, in)
		updated = *product
		return store.Save(ctx, tx, store.Products, products)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithField("product_id", id).Info("product updated")
	return &updated, nil
}

// DeleteProduct removes product id. Cart and order items referencing it are kept;
// readers tolerate the dangling reference.
func (s *AdminService) DeleteProduct(ctx context.Context, p domain.Principal, id int64) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		products, err := store.Load[domain.Product](ctx, tx, store.Products)
		if err != nil {
			return err
		}
		remaining := linker.Filter(products, func(pr domain.Product) bool { return pr.ID != id })
		if len(remaining) == len(products) {
			return ErrProductNotFound
		}
		return store.Save(ctx, tx, store.Products, remaining)
	})
	if err != nil {
		return err
	}
	s.log.WithField("product_id", id).Info("product deleted")
	return nil
}

// ListOrders returns every order, newest first, with owner and product names.
func (s *AdminService) ListOrders(ctx context.Context, p domain.Principal) ([]domain.OrderView, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	orders, err := store.Load[domain.Order](ctx, s.store, store.Orders)
	if err != nil {
		return nil, err
	}
	return joinOrders(ctx, s.store, orders, true)
}

// UpdateOrderStatus moves order id to status.
func (s *AdminService) UpdateOrderStatus(ctx context.Context, p domain.Principal, id int64, status domain.OrderStatus) (*domain.Order, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	var updated domain.Order
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		orders, err := store.Load[domain.Order](ctx, tx, store.Orders)
		if err != nil {
			return err
		}
		order := linker.FindPtr(orders, linker.ByID[domain.Order](id))
		if order == nil {
			return ErrOrderNotFound
		}
		order.Status = status
		updated = *order
		return store.Save(ctx, tx, store.Orders, orders)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"order_id": id, "status": status}).Info("order status updated")
	return &updated, nil
}

// ListUsers returns every account.
func (s *AdminService) ListUsers(ctx context.Context, p domain.Principal) ([]domain.User, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	return store.Load[domain.User](ctx, s.store, store.Users)
}
