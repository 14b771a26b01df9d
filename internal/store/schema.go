package store

import (
	"context"
	"fmt"
)

// schemaStatements creates the seven storefront relations in dependency order.
// Every statement is idempotent.
var schemaStatements = []struct {
	table string
	ddl   string
}{
	{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id            SERIAL PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			phone         TEXT,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`},
	{"products", `
		CREATE TABLE IF NOT EXISTS products (
			id          SERIAL PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT,
			price       DOUBLE PRECISION NOT NULL,
			image_url   TEXT,
			stock       INTEGER NOT NULL DEFAULT 0
		);
	`},
	{"categories", `
		CREATE TABLE IF NOT EXISTS categories (
			id          SERIAL PRIMARY KEY,
			name        TEXT NOT NULL UNIQUE,
			description TEXT
		);
	`},
	{"product_categories", `
		CREATE TABLE IF NOT EXISTS product_categories (
			product_id  INTEGER NOT NULL REFERENCES products (id),
			category_id INTEGER NOT NULL REFERENCES categories (id),
			PRIMARY KEY (product_id, category_id)
		);
	`},
	{"orders", `
		CREATE TABLE IF NOT EXISTS orders (
			id         SERIAL PRIMARY KEY,
			user_id    INTEGER REFERENCES users (id),
			total      DOUBLE PRECISION NOT NULL,
			status     TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'completed')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`},
	{"order_items", `
		CREATE TABLE IF NOT EXISTS order_items (
			id            SERIAL PRIMARY KEY,
			order_id      INTEGER NOT NULL REFERENCES orders (id),
			product_name  TEXT NOT NULL,
			product_price DOUBLE PRECISION NOT NULL,
			quantity      INTEGER NOT NULL DEFAULT 1
		);
	`},
	{"contact_messages", `
		CREATE TABLE IF NOT EXISTS contact_messages (
			id         SERIAL PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL,
			message    TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`},
}

// EnsureSchema creates any missing relation. It is safe to call on every start.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt.ddl); err != nil {
			return fmt.Errorf("store: EnsureSchema failed to create table %s: %w", stmt.table, err)
		}
		s.logger.Debug().Str("table", stmt.table).Msg("table ensured")
	}
	s.logger.Info().Int("tables", len(schemaStatements)).Msg("Database schema ensured.")
	return nil
}
