package domain

// CartLine is a cart item joined to its product.
type CartLine struct {
	Item     CartItem `json:"item"`
	Product  Product  `json:"product"`
	Subtotal int64    `json:"subtotal"`
}

// CartView is the enriched content of a user's active cart.
// Items whose product no longer exists are left out of Lines and Total and
// reported in UnavailableItemIDs.
type CartView struct {
	CartID             int64      `json:"cart_id,omitempty"`
	Lines              []CartLine `json:"lines"`
	Total              int64      `json:"total"`
	UnavailableItemIDs []int64    `json:"unavailable_item_ids,omitempty"`
}

// OrderLine is an order item with the name of its product, when it still exists.
type OrderLine struct {
	OrderItem
	ProductName string `json:"product_name,omitempty"`
}

// OrderView is an order joined to its lines and, for admin listings, its owner.
type OrderView struct {
	Order
	UserName string      `json:"user_name,omitempty"`
	Items    []OrderLine `json:"order_items"`
}

// DashboardStats holds the admin dashboard aggregates.
type DashboardStats struct {
	TotalOrders   int   `json:"total_orders"`
	TotalProducts int   `json:"total_products"`
	TotalUsers    int   `json:"total_users"`
	TotalRevenue  int64 `json:"total_revenue"`
	PendingOrders int   `json:"pending_orders"`
}
