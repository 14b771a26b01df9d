package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectCount(mock sqlmock.Sqlmock, table string, n int) {
	mock.ExpectQuery(regexp.QuoteMeta(fmt.Sprintf("SELECT COUNT(*) FROM %s;", table))).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(n))
}

func TestSeedFixtures_Shape(t *testing.T) {
	assert.Len(t, seedCategories, 10)
	assert.Len(t, seedProducts, 15)
	assert.Len(t, seedUsers, 10)
	assert.Len(t, seedOrders, 12)
	assert.Len(t, seedContactMessages, 10)

	categoryNames := make(map[string]bool)
	for _, c := range seedCategories {
		categoryNames[c.Name] = true
	}
	accessories := 0
	for _, p := range seedProducts {
		assert.Greater(t, p.Stock, 0, "fixture product %q should be in stock", p.Name)
		for _, name := range p.Categories {
			assert.True(t, categoryNames[name], "product %q links unknown category %q", p.Name, name)
			if name == "Accesorios" {
				accessories++
			}
		}
	}
	assert.Equal(t, 8, accessories)

	usernames := make(map[string]bool)
	for _, u := range seedUsers {
		usernames[u.Username] = true
	}
	items := 0
	for _, o := range seedOrders {
		assert.True(t, usernames[o.Username], "order references unknown user %q", o.Username)
		assert.NotEmpty(t, o.Items)
		items += len(o.Items)
	}
	assert.Equal(t, 16, items)
}

func TestPostgresStore_Seed_EmptyDatabase(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	const hash = "$2a$10$sharedfixturehash"

	expectCount(mock, "categories", 0)
	mock.ExpectBegin()
	for i, c := range seedCategories {
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO categories (name, description) VALUES ($1, $2);`)).
			WithArgs(c.Name, c.Description).
			WillReturnResult(sqlmock.NewResult(int64(i+1), 1))
	}
	mock.ExpectCommit()

	expectCount(mock, "products", 0)
	mock.ExpectBegin()
	categoryRows := sqlmock.NewRows([]string{"id", "name"})
	categoryIDs := make(map[string]int64)
	for i, c := range seedCategories {
		id := int64(100 + i) // ids deliberately not 1..10
		categoryIDs[c.Name] = id
		categoryRows.AddRow(id, c.Name)
	}
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM categories;`)).WillReturnRows(categoryRows)
	for i, p := range seedProducts {
		productID := int64(500 + i)
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO products (name, description, price, image_url, stock) VALUES ($1, $2, $3, $4, $5) RETURNING id;`)).
			WithArgs(p.Name, p.Description, p.Price, p.ImageURL, p.Stock).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(productID))
		for _, name := range p.Categories {
			mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO product_categories (product_id, category_id) VALUES ($1, $2);`)).
				WithArgs(productID, categoryIDs[name]).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
	}
	mock.ExpectCommit()

	expectCount(mock, "users", 0)
	mock.ExpectBegin()
	for i, u := range seedUsers {
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (username, email, password_hash, phone) VALUES ($1, $2, $3, $4);`)).
			WithArgs(u.Username, u.Email, hash, u.Phone).
			WillReturnResult(sqlmock.NewResult(int64(i+1), 1))
	}
	mock.ExpectCommit()

	expectCount(mock, "orders", 0)
	mock.ExpectBegin()
	userRows := sqlmock.NewRows([]string{"id", "username"})
	userIDs := make(map[string]int64)
	for i, u := range seedUsers {
		userIDs[u.Username] = int64(i + 1)
		userRows.AddRow(int64(i+1), u.Username)
	}
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username FROM users;`)).WillReturnRows(userRows)
	for i, o := range seedOrders {
		orderID := int64(i + 1)
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO orders (user_id, total, status) VALUES ($1, $2, $3) RETURNING id;`)).
			WithArgs(userIDs[o.Username], o.Total, o.Status).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(orderID))
		for _, it := range o.Items {
			mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items (order_id, product_name, product_price, quantity) VALUES ($1, $2, $3, $4);`)).
				WithArgs(orderID, it.ProductName, it.ProductPrice, it.Quantity).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
	}
	mock.ExpectCommit()

	expectCount(mock, "contact_messages", 0)
	mock.ExpectBegin()
	for i, m := range seedContactMessages {
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO contact_messages (name, email, message) VALUES ($1, $2, $3);`)).
			WithArgs(m.Name, m.Email, m.Message).
			WillReturnResult(sqlmock.NewResult(int64(i+1), 1))
	}
	mock.ExpectCommit()

	require.NoError(t, store.Seed(context.Background(), hash))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Seed_IsNoOpWhenDataExists(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	for _, table := range []string{"categories", "products", "users", "orders", "contact_messages"} {
		expectCount(mock, table, 7)
	}

	require.NoError(t, store.Seed(context.Background(), "unused"))
	require.NoError(t, mock.ExpectationsWereMet(), "no insert or transaction may run on a seeded database")
}

func TestPostgresStore_Seed_MissingFixtureUserIsLogged(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	var logs bytes.Buffer
	store := NewPostgresStore(db, zerolog.New(&logs))

	missing := seedOrders[0].Username
	for _, table := range []string{"categories", "products", "users"} {
		expectCount(mock, table, 5)
	}
	expectCount(mock, "orders", 0)
	mock.ExpectBegin()
	userRows := sqlmock.NewRows([]string{"id", "username"})
	userIDs := make(map[string]int64)
	for i, u := range seedUsers {
		if u.Username == missing {
			continue
		}
		userIDs[u.Username] = int64(i + 1)
		userRows.AddRow(int64(i+1), u.Username)
	}
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username FROM users;`)).WillReturnRows(userRows)
	for i, o := range seedOrders {
		var userArg interface{}
		if id, ok := userIDs[o.Username]; ok {
			userArg = id
		}
		orderID := int64(i + 1)
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO orders (user_id, total, status) VALUES ($1, $2, $3) RETURNING id;`)).
			WithArgs(userArg, o.Total, o.Status).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(orderID))
		for range o.Items {
			mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).WillReturnResult(sqlmock.NewResult(0, 1))
		}
	}
	mock.ExpectCommit()
	expectCount(mock, "contact_messages", 5)

	require.NoError(t, store.Seed(context.Background(), "hash"))
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), "fixture user missing, order seeded without user")
	assert.Contains(t, logs.String(), `"username":"`+missing+`"`)
}

func TestPostgresStore_Seed_FailureRollsBackGroup(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	expectCount(mock, "categories", 0)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO categories`)).
		WithArgs(seedCategories[0].Name, seedCategories[0].Description).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO categories`)).
		WithArgs(seedCategories[1].Name, seedCategories[1].Description).
		WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err := store.Seed(context.Background(), "hash")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store: Seed failed for categories")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	for _, table := range []string{"users", "products", "categories", "product_categories", "orders", "order_items", "contact_messages"} {
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS " + table + " (")).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, store.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_EnsureSchema_Failure(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS users (")).WillReturnError(errors.New("permission denied"))

	err := store.EnsureSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "users")
	require.NoError(t, mock.ExpectationsWereMet())
}
