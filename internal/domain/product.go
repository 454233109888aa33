package domain

// Record is implemented by every persisted entity. Ids are scoped to their collection.
type Record interface {
	RecordID() int64
}

// Category represents a product category. A category with children is used as a
// grouping node; products hang off the leaves.
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"` // nil for top-level categories
}

func (c Category) RecordID() int64 { return c.ID }

// Product represents a product in the catalog.
// Price is stored in minor currency units; Stock must never go negative.
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Stock       int64  `json:"stock"`
	CategoryID  int64  `json:"category_id"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

func (p Product) RecordID() int64 { return p.ID }
