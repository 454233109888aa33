package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"storefront-service/internal/domain"
	"storefront-service/internal/linker"
	"storefront-service/internal/store"
)

// CheckoutService turns an active cart into an order.
type CheckoutService struct {
	store *store.Store
	now   func() time.Time
	log   *logrus.Entry
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(s *store.Store, logger *logrus.Logger) *CheckoutService {
	return &CheckoutService{
		store: s,
		now:   time.Now,
		log:   logger.WithField("component", "checkout"),
	}
}

// priceCart resolves cart items against the catalog and checks stock. Items whose
// product no longer exists are skipped; if nothing resolves the cart counts as empty.
func priceCart(items []domain.CartItem, products []domain.Product) ([]domain.CartLine, int64, error) {
	idx := linker.Index(products)
	requested := make(map[int64]int64, len(items))
	lines := make([]domain.CartLine, 0, len(items))
	var total int64

	for _, item := range items {
		i, ok := idx[item.ProductID]
		if !ok {
			continue
		}
		product := products[i]
		requested[product.ID] += item.Quantity
		if product.Stock < requested[product.ID] {
			return nil, 0, &InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   requested[product.ID],
				Available:   product.Stock,
			}
		}
		line := domain.CartLine{Item: item, Product: product, Subtotal: product.Price * item.Quantity}
		lines = append(lines, line)
		total += line.Subtotal
	}
	if len(lines) == 0 {
		return nil, 0, ErrEmptyCart
	}
	return lines, total, nil
}

// Preview prices the principal's active cart the way Checkout would, without
// writing anything.
func (s *CheckoutService) Preview(ctx context.Context, p domain.Principal) (*domain.CartView, error) {
	if err := requireUser(p); err != nil {
		return nil, err
	}
	cart, ok, err := lookupActiveCart(ctx, s.store, p.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEmptyCart
	}
	items, err := store.Load[domain.CartItem](ctx, s.store, store.CartItems)
	if err != nil {
		return nil, err
	}
	products, err := store.Load[domain.Product](ctx, s.store, store.Products)
	if err != nil {
		return nil, err
	}
	lines, total, err := priceCart(linker.Filter(items, itemsOfCart(cart.ID)), products)
	if err != nil {
		return nil, err
	}
	return &domain.CartView{CartID: cart.ID, Lines: lines, Total: total}, nil
}

// Checkout places an order for the principal's active cart. On success the order and
// its items are persisted, stock is decremented, the cart is deactivated and its
// items are deleted. Any validation failure leaves every collection untouched.
func (s *CheckoutService) Checkout(ctx context.Context, p domain.Principal) (*domain.Order, error) {
	if err := requireUser(p); err != nil {
		return nil, err
	}

	var order domain.Order
	var lineCount int
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		carts, err := store.Load[domain.Cart](ctx, tx, store.Carts)
		if err != nil {
			return err
		}
		cart := linker.FindPtr(carts, activeCartOf(p.UserID))
		if cart == nil {
			return ErrEmptyCart
		}

		allItems, err := store.Load[domain.CartItem](ctx, tx, store.CartItems)
		if err != nil {
			return err
		}
		items := linker.Filter(allItems, itemsOfCart(cart.ID))
		if len(items) == 0 {
			return ErrEmptyCart
		}

		products, err := store.Load[domain.Product](ctx, tx, store.Products)
		if err != nil {
			return err
		}
		lines, total, err := priceCart(items, products)
		if err != nil {
			return err
		}

		orders, err := store.Load[domain.Order](ctx, tx, store.Orders)
		if err != nil {
			return err
		}
		order = domain.Order{
			ID:        store.NextID(orders),
			UserID:    p.UserID,
			Total:     total,
			Status:    domain.OrderStatusPending,
			CreatedAt: domain.NewTimestamp(s.now()),
		}
		if err := store.Save(ctx, tx, store.Orders, append(orders, order)); err != nil {
			return err
		}

		orderItems, err := store.Load[domain.OrderItem](ctx, tx, store.OrderItems)
		if err != nil {
			return err
		}
		nextItemID := store.NextID(orderItems)
		idx := linker.Index(products)
		for _, line := range lines {
			orderItems = append(orderItems, domain.OrderItem{
				ID:        nextItemID,
				OrderID:   order.ID,
				ProductID: line.Product.ID,
				Quantity:  line.Item.Quantity,
				Price:     line.Product.Price,
			})
			nextItemID++
			products[idx[line.Product.ID]].Stock -= line.Item.Quantity
		}
		if err := store.Save(ctx, tx, store.OrderItems, orderItems); err != nil {
			return err
		}
		if err := store.Save(ctx, tx, store.Products, products); err != nil {
			return err
		}

		cart.Active = false
		if err := store.Save(ctx, tx, store.Carts, carts); err != nil {
			return err
		}
		remaining := linker.Filter(allItems, func(i domain.CartItem) bool { return i.CartID != cart.ID })
		lineCount = len(lines)
		return store.Save(ctx, tx, store.CartItems, remaining)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  p.UserID,
		"total":    order.Total,
		"lines":    lineCount,
	}).Info("order placed")
	return &order, nil
}
