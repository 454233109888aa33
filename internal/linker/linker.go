// Package linker resolves foreign-key references between loaded collections.
package linker

import (
	"strings"

	"golang.org/x/text/cases"

	"storefront-service/internal/domain"
)

// Find returns the first record matching pred. The bool is false when nothing matches.
func Find[T any](records []T, pred func(T) bool) (T, bool) {
	for _, r := range records {
		if pred(r) {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// FindPtr is like Find but returns a pointer into records so the caller can mutate
// the match in place. Returns nil when nothing matches.
func FindPtr[T any](records []T, pred func(T) bool) *T {
	for i := range records {
		if pred(records[i]) {
			return &records[i]
		}
	}
	return nil
}

// Filter returns the records matching pred, in their original order.
func Filter[T any](records []T, pred func(T) bool) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// Index maps each record id to its position in records.
func Index[T domain.Record](records []T) map[int64]int {
	idx := make(map[int64]int, len(records))
	for i, r := range records {
		idx[r.RecordID()] = i
	}
	return idx
}

// ByID matches the record with the given id.
func ByID[T domain.Record](id int64) func(T) bool {
	return func(r T) bool { return r.RecordID() == id }
}

// ChildCategoryIDs returns the ids of the direct children of category id.
func ChildCategoryIDs(categories []domain.Category, id int64) []int64 {
	var ids []int64
	for _, c := range categories {
		if c.ParentID != nil && *c.ParentID == id {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// ProductsInCategory filters products by category. A category with children acts as
// a grouping node and matches products of any child; a leaf matches its own products.
func ProductsInCategory(categories []domain.Category, products []domain.Product, id int64) []domain.Product {
	children := ChildCategoryIDs(categories, id)
	if len(children) == 0 {
		return Filter(products, func(p domain.Product) bool { return p.CategoryID == id })
	}
	set := make(map[int64]struct{}, len(children))
	for _, c := range children {
		set[c] = struct{}{}
	}
	return Filter(products, func(p domain.Product) bool {
		_, ok := set[p.CategoryID]
		return ok
	})
}

// SearchByName keeps products whose name contains query, ignoring case.
// An empty query keeps everything.
func SearchByName(products []domain.Product, query string) []domain.Product {
	if query == "" {
		return products
	}
	fold := cases.Fold()
	needle := fold.String(query)
	return Filter(products, func(p domain.Product) bool {
		return strings.Contains(fold.String(p.Name), needle)
	})
}
