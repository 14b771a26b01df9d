package store

import (
	"context"

	"storefront-service/internal/domain"
)

// CatalogStorer defines the read operations on products and categories.
type CatalogStorer interface {
	ListInStockProducts(ctx context.Context) ([]domain.Product, error) // Products with stock > 0, categories attached
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListProductsByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
}

// UserStorer defines the database operations for users.
type UserStorer interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	FindUserByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)
	GetUserCredentialsByEmail(ctx context.Context, email string) (*domain.User, error) // Includes PasswordHash
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// OrderStorer defines the database operations for orders and their items.
type OrderStorer interface {
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error) // Newest first, items attached
}

// ContactStorer defines the database operations for contact messages.
type ContactStorer interface {
	CreateContactMessage(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error)
	ListContactMessages(ctx context.Context) ([]domain.ContactMessage, error)
}

// StatisticsStorer defines the read-only aggregation queries.
type StatisticsStorer interface {
	GetUserOrderStats(ctx context.Context, userID int64) (*domain.UserOrderStats, error)
	ListRecentOrdersByUser(ctx context.Context, userID int64, limit int) ([]domain.Order, error)
	GetSalesStatistics(ctx context.Context) (*domain.SalesStatistics, error)
	GetProductStatistics(ctx context.Context) (*domain.ProductStatistics, error)
}

// Storer is everything the HTTP layer needs from persistence.
type Storer interface {
	CatalogStorer
	UserStorer
	OrderStorer
	ContactStorer
	StatisticsStorer
	Ping(ctx context.Context) error
}
