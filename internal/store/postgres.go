package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"storefront-service/internal/domain"
)

// Predefined errors for store operations
var (
	ErrUserNotFound = errors.New("store: user not found")
	ErrUserExists   = errors.New("store: email or username already registered")
	ErrEmptyOrder   = errors.New("store: order has no items")
)

// PostgreSQL error codes inspected by the store.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// PostgresStore implements Storer using PostgreSQL. It holds the shared
// connection pool; every call borrows a connection for its own statements only.
type PostgresStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB, logger zerolog.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger.With().Str("component", "store").Logger()}
}

func isPQError(err error, code string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}

// --- CatalogStorer Implementation ---

func (s *PostgresStore) ListInStockProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, description, price, image_url, stock
		FROM products
		WHERE stock > 0
		ORDER BY id;
	`
	products, err := s.queryProducts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: ListInStockProducts failed: %w", err)
	}
	if err := s.attachCategories(ctx, products); err != nil {
		return nil, fmt.Errorf("store: ListInStockProducts failed: %w", err)
	}
	return products, nil
}

func (s *PostgresStore) ListProductsByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	query := `
		SELECT p.id, p.name, p.description, p.price, p.image_url, p.stock
		FROM products p
		JOIN product_categories pc ON p.id = pc.product_id
		WHERE pc.category_id = $1 AND p.stock > 0
		ORDER BY p.id;
	`
	products, err := s.queryProducts(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("store: ListProductsByCategory failed: %w", err)
	}
	if err := s.attachCategories(ctx, products); err != nil {
		return nil, fmt.Errorf("store: ListProductsByCategory failed: %w", err)
	}
	return products, nil
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query := `
		SELECT id, name, description
		FROM categories
		ORDER BY id;
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: ListCategories failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("store: ListCategories failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListCategories iteration error: %w", err)
	}
	return categories, nil
}

// queryProducts runs a query selecting the six product columns in table order.
func (s *PostgresStore) queryProducts(ctx context.Context, query string, args ...interface{}) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		p.Categories = []domain.Category{}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("product iteration error: %w", err)
	}
	return products, nil
}

// attachCategories resolves the junction table for all products in one query.
func (s *PostgresStore) attachCategories(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]int64, len(products))
	byID := make(map[int64]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
		byID[p.ID] = i
	}

	query := `
		SELECT pc.product_id, c.id, c.name, c.description
		FROM product_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.product_id = ANY($1)
		ORDER BY pc.product_id, c.id;
	`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query product categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID int64
		var c domain.Category
		if err := rows.Scan(&productID, &c.ID, &c.Name, &c.Description); err != nil {
			return fmt.Errorf("failed to scan product category row: %w", err)
		}
		if i, ok := byID[productID]; ok {
			products[i].Categories = append(products[i].Categories, c)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("product category iteration error: %w", err)
	}
	return nil
}

// --- UserStorer Implementation ---

func (s *PostgresStore) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at;
	`
	created := *user
	err := s.db.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.Phone).
		Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		if isPQError(err, pqUniqueViolation) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("store: CreateUser failed to scan row: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) FindUserByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	query := `
		SELECT id, username, email, phone, created_at
		FROM users
		WHERE email = $1 OR username = $2
		LIMIT 1;
	`
	var u domain.User
	err := s.db.QueryRowContext(ctx, query, email, username).Scan(&u.ID, &u.Username, &u.Email, &u.Phone, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("store: FindUserByEmailOrUsername failed to scan row: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) GetUserCredentialsByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, username, email, password_hash, phone, created_at
		FROM users
		WHERE email = $1;
	`
	var u domain.User
	err := s.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Phone, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("store: GetUserCredentialsByEmail failed to scan row: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, username, email, phone, created_at
		FROM users
		WHERE id = $1;
	`
	var u domain.User
	err := s.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.Email, &u.Phone, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("store: GetUserByID failed to scan row: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT id, username, email, phone, created_at
		FROM users
		ORDER BY id;
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: ListUsers failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Phone, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: ListUsers failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListUsers iteration error: %w", err)
	}
	return users, nil
}

// --- ContactStorer Implementation ---

func (s *PostgresStore) CreateContactMessage(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error) {
	query := `
		INSERT INTO contact_messages (name, email, message)
		VALUES ($1, $2, $3)
		RETURNING id, created_at;
	`
	created := *msg
	if err := s.db.QueryRowContext(ctx, query, msg.Name, msg.Email, msg.Message).Scan(&created.ID, &created.CreatedAt); err != nil {
		return nil, fmt.Errorf("store: CreateContactMessage failed to scan row: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) ListContactMessages(ctx context.Context) ([]domain.ContactMessage, error) {
	query := `
		SELECT id, name, email, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC, id DESC;
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: ListContactMessages failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]domain.ContactMessage, 0)
	for rows.Next() {
		var m domain.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: ListContactMessages failed to scan message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListContactMessages iteration error: %w", err)
	}
	return messages, nil
}

// Ping checks that the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("store: ping failed: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	s.logger.Info().Msg("Closing database connection pool...")
	if err := s.db.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to close database connection pool")
		return err
	}
	s.logger.Info().Msg("Database connection pool closed successfully.")
	return nil
}
