package domain

// Cart is a user's shopping cart. A cart goes from active to inactive exactly once,
// at checkout, and is never reactivated.
type Cart struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
	Active bool  `json:"active"`
}

func (c Cart) RecordID() int64 { return c.ID }

// CartItem ties a product to a quantity inside a cart. Quantity is always >= 1.
type CartItem struct {
	ID        int64 `json:"id"`
	CartID    int64 `json:"cart_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

func (i CartItem) RecordID() int64 { return i.ID }

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every status an admin may assign.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order is created by checkout and is immutable afterwards except for Status.
type Order struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"user_id"`
	Total     int64       `json:"total"`
	Status    OrderStatus `json:"status"`
	CreatedAt Timestamp   `json:"created_at"`
}

func (o Order) RecordID() int64 { return o.ID }

// OrderItem is an order line. Price is the product price at checkout time and is
// never re-derived from the current product.
type OrderItem struct {
	ID        int64 `json:"id"`
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
	Price     int64 `json:"price"`
}

func (i OrderItem) RecordID() int64 { return i.ID }
