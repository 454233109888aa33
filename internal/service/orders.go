package service

import (
	"context"

	"storefront-service/internal/domain"
	"storefront-service/internal/linker"
	"storefront-service/internal/store"
)

// unknownUserName labels orders whose owner no longer exists.
const unknownUserName = "Unknown"

// OrderService lists a user's own orders.
type OrderService struct {
	store store.Reader
}

// NewOrderService creates a new OrderService.
func NewOrderService(r store.Reader) *OrderService {
	return &OrderService{store: r}
}

// History returns the principal's orders with their lines, newest first.
func (s *OrderService) History(ctx context.Context, p domain.Principal) ([]domain.OrderView, error) {
	if err := requireUser(p); err != nil {
		return nil, err
	}
	orders, err := store.Load[domain.Order](ctx, s.store, store.Orders)
	if err != nil {
		return nil, err
	}
	mine := linker.Filter(orders, func(o domain.Order) bool { return o.UserID == p.UserID })
	return joinOrders(ctx, s.store, mine, false)
}

// joinOrders attaches items, product names and optionally owner names to orders.
// The result is newest first, the reverse of storage order.
func joinOrders(ctx context.Context, r store.Reader, orders []domain.Order, withUsers bool) ([]domain.OrderView, error) {
	orderItems, err := store.Load[domain.OrderItem](ctx, r, store.OrderItems)
	if err != nil {
		return nil, err
	}
	products, err := store.Load[domain.Product](ctx, r, store.Products)
	if err != nil {
		return nil, err
	}
	var users []domain.User
	if withUsers {
		if users, err = store.Load[domain.User](ctx, r, store.Users); err != nil {
			return nil, err
		}
	}

	productIdx := linker.Index(products)
	userIdx := linker.Index(users)
	linesByOrder := make(map[int64][]domain.OrderLine, len(orders))
	for _, item := range orderItems {
		line := domain.OrderLine{OrderItem: item}
		if i, ok := productIdx[item.ProductID]; ok {
			line.ProductName = products[i].Name
		}
		linesByOrder[item.OrderID] = append(linesByOrder[item.OrderID], line)
	}

	views := make([]domain.OrderView, 0, len(orders))
	for i := len(orders) - 1; i >= 0; i-- {
		o := orders[i]
		view := domain.OrderView{Order: o, Items: linesByOrder[o.ID]}
		if view.Items == nil {
			view.Items = []domain.OrderLine{}
		}
		if withUsers {
			view.UserName = unknownUserName
			if j, ok := userIdx[o.UserID]; ok {
				view.UserName = users[j].Name
			}
		}
		views = append(views, view)
	}
	return views, nil
}
