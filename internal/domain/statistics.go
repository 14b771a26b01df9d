package domain

// UserOrderStats aggregates the orders of one user. Sums over no rows are
// reported as 0.
type UserOrderStats struct {
	TotalOrders   int     `json:"total_orders"`
	TotalSpent    float64 `json:"total_spent"`
	AvgOrderValue float64 `json:"avg_order_value"`
	MaxOrder      float64 `json:"max_order"`
}

// UserOrdersReport is the body of GET /api/users/{user_id}/orders.
type UserOrdersReport struct {
	User         UserSummary    `json:"user"`
	Statistics   UserOrderStats `json:"statistics"`
	RecentOrders []OrderSummary `json:"recent_orders"`
}

// SalesOverview aggregates every order in the store.
type SalesOverview struct {
	TotalOrders   int     `json:"total_orders"`
	TotalRevenue  float64 `json:"total_revenue"`
	AvgOrderValue float64 `json:"avg_order_value"`
}

// TopCustomer is a user ranked by total spend.
type TopCustomer struct {
	ID         int64   `json:"id"`
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	OrderCount int     `json:"order_count"`
	TotalSpent float64 `json:"total_spent"`
}

// TopProduct groups order items by their snapshot product name, so two
// catalog products sharing a name are merged into one entry.
type TopProduct struct {
	ProductName string  `json:"product_name"`
	TimesSold   int     `json:"times_sold"`
	Revenue     float64 `json:"revenue"`
}

// StatusCount is the number of orders in a given status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// SalesStatistics is the body of GET /api/statistics/sales.
type SalesStatistics struct {
	SalesOverview  SalesOverview `json:"sales_overview"`
	TopCustomers   []TopCustomer `json:"top_customers"`
	TopProducts    []TopProduct  `json:"top_products"`
	OrdersByStatus []StatusCount `json:"orders_by_status"`
}

// CategoryStats is a category with the number of products linked to it.
type CategoryStats struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	ProductCount int     `json:"product_count"`
}

// StockInfo totals the stock of the whole catalog.
type StockInfo struct {
	TotalStock    int `json:"total_stock"`
	TotalProducts int `json:"total_products"`
}

// ProductStatistics is the body of GET /api/statistics/products.
type ProductStatistics struct {
	Categories       []CategoryStats `json:"categories"`
	StockInfo        StockInfo       `json:"stock_info"`
	LowStockProducts []Product       `json:"low_stock_products"`
}
