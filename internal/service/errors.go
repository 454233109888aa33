package service

import (
	"errors"
	"fmt"
)

// Predefined errors for service operations
var (
	ErrNotFound         = errors.New("service: not found")
	ErrProductNotFound  = fmt.Errorf("%w: product", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("%w: category", ErrNotFound)
	ErrCartItemNotFound = fmt.Errorf("%w: cart item", ErrNotFound)
	ErrOrderNotFound    = fmt.Errorf("%w: order", ErrNotFound)

	ErrEmptyCart          = errors.New("service: cart is empty")
	ErrInsufficientStock  = errors.New("service: insufficient stock")
	ErrUnauthorized       = errors.New("service: login required")
	ErrForbidden          = fmt.Errorf("%w: admin role required", ErrUnauthorized)
	ErrDuplicateEmail     = errors.New("service: email already registered")
	ErrInvalidCredentials = errors.New("service: invalid email or password")
	ErrInvalidStatus      = errors.New("service: unknown order status")
	ErrInvalidProduct     = errors.New("service: price and stock cannot be negative")
	ErrInvalidQuantity    = fmt.Errorf("service: quantity cannot exceed %d", MaxLineQuantity)
)

// InsufficientStockError names the product whose stock cannot cover the cart.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Requested   int64
	Available   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("service: insufficient stock for %q: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
