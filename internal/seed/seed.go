package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"storefront-service/internal/domain"
	"storefront-service/internal/store"
)

// Hasher hashes the demo account passwords.
type Hasher interface {
	Hash(password string) (string, error)
}

// Demo account credentials created by Populate.
const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "admin123"
	UserEmail     = "user@example.com"
	UserPassword  = "user123"
)

func parent(id int64) *int64 { return &id }

// Categories is a two-level tree: grouping categories with leaf children.
var Categories = []domain.Category{
	{ID: 1, Name: "Electronics"},
	{ID: 2, Name: "Phones", ParentID: parent(1)},
	{ID: 3, Name: "Laptops", ParentID: parent(1)},
	{ID: 4, Name: "Fashion"},
	{ID: 5, Name: "Men", ParentID: parent(4)},
	{ID: 6, Name: "Women", ParentID: parent(4)},
}

// Products are priced in whole dong.
var Products = []domain.Product{
	{ID: 1, Name: "iPhone 15", Price: 22990000, Stock: 15, CategoryID: 2,
		Description: "6.1-inch display, A16 Bionic chip", Image: "iphone15.jpg"},
	{ID: 2, Name: "Samsung Galaxy S24", Price: 19990000, Stock: 20, CategoryID: 2,
		Description: "Galaxy AI, 50MP camera", Image: "galaxy-s24.jpg"},
	{ID: 3, Name: "MacBook Air M3", Price: 27990000, Stock: 8, CategoryID: 3,
		Description: "13-inch, 8GB RAM, 256GB SSD", Image: "macbook-air-m3.jpg"},
	{ID: 4, Name: "Dell XPS 13", Price: 25490000, Stock: 5, CategoryID: 3,
		Description: "Intel Core Ultra 7, 16GB RAM", Image: "dell-xps13.jpg"},
	{ID: 5, Name: "Oxford Shirt", Price: 450000, Stock: 40, CategoryID: 5,
		Description: "Slim fit cotton shirt", Image: "oxford-shirt.jpg"},
	{ID: 6, Name: "Linen Dress", Price: 690000, Stock: 25, CategoryID: 6,
		Description: "Summer linen midi dress", Image: "linen-dress.jpg"},
}

// Populate writes the demo catalog and accounts and reports whether it wrote anything.
// Unless force is set it only runs against a store where no slot has ever been
// written, so an emptied catalog never causes users or orders to be replaced.
// With force every slot is reset to the demo data.
func Populate(ctx context.Context, st *store.Store, hasher Hasher, logger *logrus.Logger, force bool) (bool, error) {
	adminHash, err := hasher.Hash(AdminPassword)
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	userHash, err := hasher.Hash(UserPassword)
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	users := []domain.User{
		{ID: 1, Name: "Admin", Email: AdminEmail, PasswordHash: adminHash, Role: domain.RoleAdmin},
		{ID: 2, Name: "Demo User", Email: UserEmail, PasswordHash: userHash, Role: domain.RoleUser},
	}

	seeded := false
	err = st.Update(ctx, func(tx *store.Tx) error {
		if !force {
			written, err := anySlotWritten(ctx, tx)
			if err != nil || written {
				return err
			}
		}
		if err := store.Save(ctx, tx, store.Categories, Categories); err != nil {
			return err
		}
		if err := store.Save(ctx, tx, store.Products, Products); err != nil {
			return err
		}
		if err := store.Save(ctx, tx, store.Users, users); err != nil {
			return err
		}
		for _, c := range []store.Collection{store.Carts, store.CartItems, store.Orders, store.OrderItems} {
			if err := store.Save[struct{}](ctx, tx, c, nil); err != nil {
				return err
			}
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}

	entry := logger.WithField("component", "seed")
	if seeded {
		entry.WithFields(logrus.Fields{
			"categories": len(Categories),
			"products":   len(Products),
			"users":      len(users),
		}).Info("sample data written")
	} else {
		entry.Debug("store already holds data, skipping")
	}
	return seeded, nil
}

func anySlotWritten(ctx context.Context, r store.Reader) (bool, error) {
	for _, c := range store.Collections {
		_, err := r.ReadSlot(ctx, c)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, store.ErrSlotNotFound) {
			return false, fmt.Errorf("%w: check %s: %v", store.ErrStorageUnavailable, c, err)
		}
	}
	return false, nil
}
