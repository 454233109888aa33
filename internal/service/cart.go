package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"storefront-service/internal/domain"
	"storefront-service/internal/linker"
	"storefront-service/internal/store"
)

// MaxLineQuantity caps the quantity of a single cart line so that line subtotals
// stay well inside int64.
const MaxLineQuantity = 1_000_000

// CartService manages the single active cart of each user.
type CartService struct {
	store *store.Store
	log   *logrus.Entry
}

// NewCartService creates a new CartService.
func NewCartService(s *store.Store, logger *logrus.Logger) *CartService {
	return &CartService{store: s, log: logger.WithField("component", "cart")}
}

func requireUser(p domain.Principal) error {
	if p.IsAnonymous() {
		return ErrUnauthorized
	}
	return nil
}

func activeCartOf(userID int64) func(domain.Cart) bool {
	return func(c domain.Cart) bool { return c.UserID == userID && c.Active }
}

func itemsOfCart(cartID int64) func(domain.CartItem) bool {
	return func(i domain.CartItem) bool { return i.CartID == cartID }
}

// lookupActiveCart finds the user's active cart without creating one.
func lookupActiveCart(ctx context.Context, r store.Reader, userID int64) (domain.Cart, bool, error) {
	carts, err := store.Load[domain.Cart](ctx, r, store.Carts)
	if err != nil {
		return domain.Cart{}, false, err
	}
	cart, ok := linker.Find(carts, activeCartOf(userID))
	return cart, ok, nil
}

func getOrCreateActiveCart(ctx context.Context, rw store.ReadWriter, userID int64) (domain.Cart, error) {
	carts, err := store.Load[domain.Cart](ctx, rw, store.Carts)
	if err != nil {
		return domain.Cart{}, err
	}
	if cart, ok := linker.Find(carts, activeCartOf(userID)); ok {
		return cart, nil
	}
	cart := domain.Cart{ID: store.NextID(carts), UserID: userID, Active: true}
	carts = append(carts, cart)
	if err := store.Save(ctx, rw, store.Carts, carts); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

// ActiveCart returns the principal's active cart, creating it on first use.
func (s *CartService) ActiveCart(ctx context.Context, p domain.Principal) (*domain.Cart, error) {
	if err := requireUser(p); err != nil {
		return nil, err
	}
	var cart domain.Cart
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		var err error
		cart, err = getOrCreateActiveCart(ctx, tx, p.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem puts one unit of productID into the principal's active cart. Adding a
// product that is already in the cart increments its quantity.
func (s *CartService) AddItem(ctx context.Context, p domain.Principal, productID int64) (*domain.CartItem, error) {
	if err := requireUser(p); err != nil {
		return nil, err
	}
	var added domain.CartItem
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		products, err := store.Load[domain.Product](ctx, tx, store.Products)
		if err != nil {
			return err
		}
		if _, ok := linker.Find(products, linker.ByID[domain.Product](productID)); !ok {
			return ErrProductNotFound
		}

		cart, err := getOrCreateActiveCart(ctx, tx, p.UserID)
		if err != nil {
			return err
		}
		items, err := store.Load[domain.CartItem](ctx, tx, store.CartItems)
		if err != nil {
			return err
		}
		existing := linker.FindPtr(items, func(i domain.CartItem) bool {
			return i.CartID == cart.ID && i.ProductID == productID
		})
		if existing != nil {
			if existing.Quantity >= MaxLineQuantity {
				return ErrInvalidQuantity
			}
			existing.Quantity++
			added = *existing
		} else {
			added = domain.CartItem{
				ID:        store.NextID(items),
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  1,
			}
			items = append(items, added)
		}
		return store.Save(ctx, tx, store.CartItems, items)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"user_id":    p.UserID,
		"product_id": productID,
		"quantity":   added.Quantity,
	}).Debug("cart item added")
	return &added, nil
}

// SetQuantity overwrites the quantity of a line in the principal's active cart.
// A quantity of zero or less removes the line.
func (s *CartService) SetQuantity(ctx context.Context, p domain.Principal, itemID, quantity int64) error {
	if err := requireUser(p); err != nil {
		return err
	}
	if quantity > MaxLineQuantity {
		return ErrInvalidQuantity
	}
	if quantity <= 0 {
		return s.RemoveItem(ctx, p, itemID)
	}
	return s.store.Update(ctx, func(tx *store.Tx) error {
		cart, ok, err := lookupActiveCart(ctx, tx, p.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCartItemNotFound
		}
		items, err := store.Load[domain.CartItem](ctx, tx, store.CartItems)
		if err != nil {
			return err
		}
		item := linker.FindPtr(items, func(i domain.CartItem) bool {
			return i.ID == itemID && i.CartID == cart.ID
		})
		if item == nil {
			return ErrCartItemNotFound
		}
		item.Quantity = quantity
		return store.Save(ctx, tx, store.CartItems, items)
	})
}

// RemoveItem deletes a line from the principal's active cart. Removing a line that
// does not exist is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, p domain.Principal, itemID int64) error {
	if err := requireUser(p); err != nil {
		return err
	}
	return s.store.Update(ctx, func(tx *store.Tx) error {
		cart, ok, err := lookupActiveCart(ctx, tx, p.UserID)
		if err != nil || !ok {
			return err
		}
		items, err := store.Load[domain.CartItem](ctx, tx, store.CartItems)
		if err != nil {
			return err
		}
		remaining := linker.Filter(items, func(i domain.CartItem) bool {
			return !(i.ID == itemID && i.CartID == cart.ID)
		})
		if len(remaining) == len(items) {
			return nil
		}
		return store.Save(ctx, tx, store.CartItems, remaining)
	})
}

// CountItems sums the quantities in the principal's active cart. Anonymous callers
// and users without an active cart get 0.
func (s *CartService) CountItems(ctx context.Context, p domain.Principal) (int64, error) {
	if p.IsAnonymous() {
		return 0, nil
	}
	cart, ok, err := lookupActiveCart(ctx, s.store, p.UserID)
	if err != nil || !ok {
		return 0, err
	}
	items, err := store.Load[domain.CartItem](ctx, s.store, store.CartItems)
	if err != nil {
		return 0, err
	}
	var count int64
	for _, item := range linker.Filter(items, itemsOfCart(cart.ID)) {
		count += item.Quantity
	}
	return count, nil
}

// View joins the principal's active cart to the catalog. Viewing never creates a cart.
func (s *CartService) View(ctx context.Context, p domain.Principal) (*domain.CartView, error) {
	if err := requireUser(p); err != nil {
		return nil, err
	}
	view := &domain.CartView{Lines: []domain.CartLine{}}
	cart, ok, err := lookupActiveCart(ctx, s.store, p.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return view, nil
	}
	view.CartID = cart.ID

	items, err := store.Load[domain.CartItem](ctx, s.store, store.CartItems)
	if err != nil {
		return nil, err
	}
	products, err := store.Load[domain.Product](ctx, s.store, store.Products)
	if err != nil {
		return nil, err
	}
	idx := linker.Index(products)
	for _, item := range linker.Filter(items, itemsOfCart(cart.ID)) {
		i, ok := idx[item.ProductID]
		if !ok {
			view.UnavailableItemIDs = append(view.UnavailableItemIDs, item.ID)
			continue
		}
		line := domain.CartLine{
			Item:     item,
			Product:  products[i],
			Subtotal: products[i].Price * item.Quantity,
		}
		view.Lines = append(view.Lines, line)
		view.Total += line.Subtotal
	}
	return view, nil
}
