package service

import (
	"context"
	"strings"

	"storefront-service/internal/domain"
	"storefront-service/internal/linker"
	"storefront-service/internal/store"
)

// ProductFilter narrows a product listing. Zero values match everything.
type ProductFilter struct {
	CategoryID int64
	Search     string
}

// CatalogService serves the public, read-only view of products and categories.
type CatalogService struct {
	store store.Reader
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(r store.Reader) *CatalogService {
	return &CatalogService{store: r}
}

// ListProducts returns the products matching f in storage order.
func (s *CatalogService) ListProducts(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	products, err := store.Load[domain.Product](ctx, s.store, store.Products)
	if err != nil {
		return nil, err
	}
	if f.CategoryID != 0 {
		categories, err := store.Load[domain.Category](ctx, s.store, store.Categories)
		if err != nil {
			return nil, err
		}
		products = linker.ProductsInCategory(categories, products, f.CategoryID)
	}
	return linker.SearchByName(products, strings.TrimSpace(f.Search)), nil
}

// GetProduct returns one product by id.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	products, err := store.Load[domain.Product](ctx, s.store, store.Products)
	if err != nil {
		return nil, err
	}
	product, ok := linker.Find(products, linker.ByID[domain.Product](id))
	if !ok {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// ListCategories returns every category.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return store.Load[domain.Category](ctx, s.store, store.Categories)
}
