package domain

import "time"

// Order statuses. Checkout only ever produces OrderStatusCompleted;
// pending orders exist in the fixture data.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
)

// Order is a placed purchase. Total is the amount sent by the client and is
// not recomputed from the items.
type Order struct {
	ID        int64       `json:"id"`
	UserID    *int64      `json:"user_id"` // nil for guest checkouts
	Total     float64     `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderItem `json:"items"`
}

// OrderSummary is an order without its lines, as listed in the per-user
// statistics report.
type OrderSummary struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id"`
	Total     float64   `json:"total"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary drops the items of o.
func (o *Order) Summary() OrderSummary {
	return OrderSummary{ID: o.ID, UserID: o.UserID, Total: o.Total, Status: o.Status, CreatedAt: o.CreatedAt}
}

// OrderItem is one purchased line. ProductName and ProductPrice are copies
// taken at purchase time and intentionally do not reference products.id,
// so the order history stays stable when the catalog changes.
type OrderItem struct {
	ID           int64   `json:"id"`
	OrderID      int64   `json:"order_id"`
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
	Quantity     int     `json:"quantity"`
}
