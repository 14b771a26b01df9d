package store

import (
	"context"
	"fmt"

	"storefront-service/internal/domain"
)

// GetUserOrderStats returns count, sum, average and max of the user's order
// totals. An unknown user reads as zero orders; callers that need to tell
// the two apart check GetUserByID first.
func (s *PostgresStore) GetUserOrderStats(ctx context.Context, userID int64) (*domain.UserOrderStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(total), 0),
			COALESCE(AVG(total), 0),
			COALESCE(MAX(total), 0)
		FROM orders
		WHERE user_id = $1;
	`
	var stats domain.UserOrderStats
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.TotalOrders, &stats.TotalSpent, &stats.AvgOrderValue, &stats.MaxOrder,
	); err != nil {
		return nil, fmt.Errorf("store: GetUserOrderStats failed to scan row: %w", err)
	}
	return &stats, nil
}

// ListRecentOrdersByUser returns the user's latest orders without their items.
func (s *PostgresStore) ListRecentOrdersByUser(ctx context.Context, userID int64, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		return []domain.Order{}, nil
	}
	query := `
		SELECT id, user_id, total, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2;
	`
	orders, err := s.queryOrders(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("store: ListRecentOrdersByUser failed: %w", err)
	}
	return orders, nil
}

// GetSalesStatistics builds the global sales report. Top customers that tie
// on total spend come back in whatever order the database yields.
func (s *PostgresStore) GetSalesStatistics(ctx context.Context) (*domain.SalesStatistics, error) {
	stats := &domain.SalesStatistics{}

	overviewQuery := `
		SELECT
			COUNT(*),
			COALESCE(SUM(total), 0),
			COALESCE(AVG(total), 0)
		FROM orders;
	`
	if err := s.db.QueryRowContext(ctx, overviewQuery).Scan(
		&stats.SalesOverview.TotalOrders, &stats.SalesOverview.TotalRevenue, &stats.SalesOverview.AvgOrderValue,
	); err != nil {
		return nil, fmt.Errorf("store: GetSalesStatistics failed to scan overview: %w", err)
	}

	var err error
	if stats.TopCustomers, err = s.topCustomers(ctx, 5); err != nil {
		return nil, fmt.Errorf("store: GetSalesStatistics failed: %w", err)
	}
	if stats.TopProducts, err = s.topProducts(ctx, 10); err != nil {
		return nil, fmt.Errorf("store: GetSalesStatistics failed: %w", err)
	}
	if stats.OrdersByStatus, err = s.ordersByStatus(ctx); err != nil {
		return nil, fmt.Errorf("store: GetSalesStatistics failed: %w", err)
	}
	return stats, nil
}

func (s *PostgresStore) topCustomers(ctx context.Context, limit int) ([]domain.TopCustomer, error) {
	query := `
		SELECT u.id, u.username, u.email, COUNT(o.id) AS order_count, SUM(o.total) AS total_spent
		FROM users u
		JOIN orders o ON u.id = o.user_id
		GROUP BY u.id, u.username, u.email
		ORDER BY total_spent DESC
		LIMIT $1;
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.TopCustomer, 0, limit)
	for rows.Next() {
		var c domain.TopCustomer
		if err := rows.Scan(&c.ID, &c.Username, &c.Email, &c.OrderCount, &c.TotalSpent); err != nil {
			return nil, fmt.Errorf("failed to scan top customer row: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top customer iteration error: %w", err)
	}
	return customers, nil
}

// topProducts groups by the item's snapshot name, not by product id.
// Distinct products that share a name are reported as one.
func (s *PostgresStore) topProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	query := `
		SELECT product_name, COUNT(*) AS times_sold, SUM(product_price * quantity) AS revenue
		FROM order_items
		GROUP BY product_name
		ORDER BY times_sold DESC
		LIMIT $1;
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.TopProduct, 0, limit)
	for rows.Next() {
		var p domain.TopProduct
		if err := rows.Scan(&p.ProductName, &p.TimesSold, &p.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan top product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top product iteration error: %w", err)
	}
	return products, nil
}

func (s *PostgresStore) ordersByStatus(ctx context.Context) ([]domain.StatusCount, error) {
	query := `
		SELECT status, COUNT(*)
		FROM orders
		GROUP BY status
		ORDER BY status;
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders by status: %w", err)
	}
	defer rows.Close()

	counts := make([]domain.StatusCount, 0, 2)
	for rows.Next() {
		var c domain.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan status row: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("status iteration error: %w", err)
	}
	return counts, nil
}

// GetProductStatistics builds the catalog report: products per category,
// stock totals and the products below domain.LowStockThreshold.
func (s *PostgresStore) GetProductStatistics(ctx context.Context) (*domain.ProductStatistics, error) {
	stats := &domain.ProductStatistics{}

	categoriesQuery := `
		SELECT c.id, c.name, c.description, COUNT(pc.product_id) AS product_count
		FROM categories c
		LEFT JOIN product_categories pc ON c.id = pc.category_id
		GROUP BY c.id, c.name, c.description
		ORDER BY product_count DESC, c.id;
	`
	rows, err := s.db.QueryContext(ctx, categoriesQuery)
	if err != nil {
		return nil, fmt.Errorf("store: GetProductStatistics failed to query categories: %w", err)
	}
	defer rows.Close()

	stats.Categories = make([]domain.CategoryStats, 0)
	for rows.Next() {
		var c domain.CategoryStats
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ProductCount); err != nil {
			return nil, fmt.Errorf("store: GetProductStatistics failed to scan category row: %w", err)
		}
		stats.Categories = append(stats.Categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: GetProductStatistics category iteration error: %w", err)
	}
	rows.Close()

	stockQuery := `SELECT COALESCE(SUM(stock), 0), COUNT(*) FROM products;`
	if err := s.db.QueryRowContext(ctx, stockQuery).Scan(&stats.StockInfo.TotalStock, &stats.StockInfo.TotalProducts); err != nil {
		return nil, fmt.Errorf("store: GetProductStatistics failed to scan stock info: %w", err)
	}

	lowStockQuery := `
		SELECT id, name, description, price, image_url, stock
		FROM products
		WHERE stock < $1
		ORDER BY stock ASC, id;
	`
	if stats.LowStockProducts, err = s.queryProducts(ctx, lowStockQuery, domain.LowStockThreshold); err != nil {
		return nil, fmt.Errorf("store: GetProductStatistics failed: %w", err)
	}
	if err := s.attachCategories(ctx, stats.LowStockProducts); err != nil {
		return nil, fmt.Errorf("store: GetProductStatistics failed: %w", err)
	}
	return stats, nil
}
