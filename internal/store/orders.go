package store

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"storefront-service/internal/domain"
)

// CreateOrder inserts the order and all of its items in one transaction.
// Any failure rolls the whole checkout back, so no order is left without items.
func (s *PostgresStore) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if len(order.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: CreateOrder failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // No-op once committed

	orderQuery := `
		INSERT INTO orders (user_id, total, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at;
	`
	created := *order
	created.Items = make([]domain.OrderItem, 0, len(order.Items))
	if err := tx.QueryRowContext(ctx, orderQuery, order.UserID, order.Total, order.Status).Scan(&created.ID, &created.CreatedAt); err != nil {
		if isPQError(err, pqForeignKeyViolation) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("store: CreateOrder failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_name, product_price, quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`
	for _, item := range order.Items {
		item.OrderID = created.ID
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		if err := tx.QueryRowContext(ctx, itemQuery, item.OrderID, item.ProductName, item.ProductPrice, item.Quantity).Scan(&item.ID); err != nil {
			return nil, fmt.Errorf("store: CreateOrder failed to insert item %q: %w", item.ProductName, err)
		}
		created.Items = append(created.Items, item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: CreateOrder failed to commit: %w", err)
	}
	s.logger.Debug().Int64("order_id", created.ID).Int("items", len(created.Items)).Msg("order created")
	return &created, nil
}

func (s *PostgresStore) ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	query := `
		SELECT id, user_id, total, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC;
	`
	orders, err := s.queryOrders(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("store: ListOrdersByUser failed: %w", err)
	}
	if err := s.attachItems(ctx, orders); err != nil {
		return nil, fmt.Errorf("store: ListOrdersByUser failed: %w", err)
	}
	return orders, nil
}

func (s *PostgresStore) queryOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order iteration error: %w", err)
	}
	return orders, nil
}

// attachItems loads the items of all given orders in one query.
func (s *PostgresStore) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	byID := make(map[int64]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		byID[orders[i].ID] = i
		orders[i].Items = []domain.OrderItem{}
	}

	query := `
		SELECT id, order_id, product_name, product_price, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, id;
	`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductName, &it.ProductPrice, &it.Quantity); err != nil {
			return fmt.Errorf("failed to scan order item row: %w", err)
		}
		if i, ok := byID[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("order item iteration error: %w", err)
	}
	return nil
}
