package store

import (
	"context"
	"errors"
)

// Predefined errors for store operations
var (
	ErrSlotNotFound       = errors.New("store: slot not found")
	ErrStorageUnavailable = errors.New("store: storage unavailable")
)

// Collection names a persisted slot holding one entity type.
type Collection string

const (
	Users      Collection = "users"
	Products   Collection = "products"
	Categories Collection = "categories"
	Carts      Collection = "carts"
	CartItems  Collection = "cart_items"
	Orders     Collection = "orders"
	OrderItems Collection = "order_items"
)

// Collections lists every slot the application uses.
var Collections = []Collection{Users, Products, Categories, Carts, CartItems, Orders, OrderItems}

// Backend persists whole slots. Read returns ErrSlotNotFound when the slot has never
// been written; Write replaces the slot's entire contents.
type Backend interface {
	Read(ctx context.Context, c Collection) ([]byte, error)
	Write(ctx context.Context, c Collection, data []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// SlotWrite is one staged slot replacement.
type SlotWrite struct {
	Collection Collection
	Data       []byte
}

// BatchWriter is implemented by backends that can replace several slots atomically.
type BatchWriter interface {
	WriteBatch(ctx context.Context, writes []SlotWrite) error
}

// Reader is satisfied by *Store and *Tx.
type Reader interface {
	ReadSlot(ctx context.Context, c Collection) ([]byte, error)
}

// Writer is satisfied by *Store and *Tx.
type Writer interface {
	WriteSlot(ctx context.Context, c Collection, data []byte) error
}

// ReadWriter is what a mutating workflow needs.
type ReadWriter interface {
	Reader
	Writer
}
