package store

import (
	"context"
	"database/sql"
	"fmt"

	"storefront-service/internal/domain"
)

type seedCategory struct {
	Name        string
	Description string
}

type seedProduct struct {
	Name        string
	Description string
	Price       float64
	ImageURL    string
	Stock       int
	Categories  []string // Category names, resolved to ids at seed time
}

type seedUser struct {
	Username string
	Email    string
	Phone    string
}

type seedOrder struct {
	Username string
	Total    float64
	Status   string
	Items    []seedOrderItem
}

type seedOrderItem struct {
	ProductName  string
	ProductPrice float64
	Quantity     int
}

var seedCategories = []seedCategory{
	{"Alfombras", "Alfombras de cuero natural para decoración"},
	{"Carteras", "Accesorios de cuero genuino"},
	{"Cueros", "Cueros naturales de diversos animales"},
	{"Billeteras", "Billeteras de cuero premium"},
	{"Cinturones", "Cinturones artesanales de cuero"},
	{"Mochilas", "Mochilas de cuero resistentes"},
	{"Zapatos", "Calzado de cuero hecho a mano"},
	{"Chaquetas", "Chaquetas de cuero de alta calidad"},
	{"Decoración", "Artículos decorativos de cuero"},
	{"Accesorios", "Diversos accesorios de cuero"},
}

var seedProducts = []seedProduct{
	{"Alfombra de vaca blanca con puntos", "Cuero genuino de vaca con patrón natural", 45000, "../img/alfombra-de-vaca-blanca-con-puntos.jpg", 10, []string{"Alfombras", "Decoración"}},
	{"Alfombra de vaca overa", "Cuero genuino de vaca overa", 45000, "../img/alfombra-de-vaca-overa.jpg", 8, []string{"Alfombras", "Decoración"}},
	{"Cuero de cabra premium", "Cuero genuino de cabra, suave y resistente", 40000, "../img/cuero-de-cabra.jpg", 15, []string{"Cueros"}},
	{"Cartera de cuero grande", "Cartera espaciosa de cuero genuino", 40000, "../img/cartera-cuero-g.jpg", 20, []string{"Carteras", "Accesorios"}},
	{"Cartera de cuero clásica", "Cartera elegante de cuero genuino", 40000, "../img/cartera-cuero.jpg", 12, []string{"Carteras", "Accesorios"}},
	{"Billetera de cuero marrón", "Billetera compacta con múltiples compartimentos", 15000, "../img/cartera-cuero.jpg", 25, []string{"Billeteras", "Accesorios"}},
	{"Cinturón de cuero negro", "Cinturón resistente con hebilla metálica", 18000, "../img/cartera-cuero.jpg", 30, []string{"Cinturones", "Accesorios"}},
	{"Mochila de cuero vintage", "Mochila espaciosa estilo vintage", 65000, "../img/cartera-cuero.jpg", 5, []string{"Mochilas", "Accesorios"}},
	{"Zapatos de cuero casual", "Zapatos cómodos para uso diario", 55000, "../img/cartera-cuero.jpg", 15, []string{"Zapatos"}},
	{"Chaqueta de cuero negra", "Chaqueta clásica de cuero negro", 120000, "../img/cartera-cuero.jpg", 8, []string{"Chaquetas"}},
	{"Alfombra de oveja blanca", "Suave alfombra de cuero de oveja", 50000, "../img/alfombra-de-vaca-blanca-con-puntos.jpg", 6, []string{"Alfombras", "Decoración"}},
	{"Cartera crossbody", "Cartera pequeña con correa ajustable", 35000, "../img/cartera-cuero-g.jpg", 18, []string{"Carteras", "Accesorios"}},
	{"Cuero de cabra negro", "Cuero premium de cabra color negro", 42000, "../img/cuero-de-cabra.jpg", 12, []string{"Cueros"}},
	{"Porta documentos de cuero", "Elegante porta documentos profesional", 48000, "../img/cartera-cuero.jpg", 10, []string{"Carteras", "Accesorios"}},
	{"Cojines decorativos de cuero", "Set de 2 cojines de cuero para sofá", 28000, "../img/cuero-de-cabra.jpg", 20, []string{"Decoración", "Accesorios"}},
}

var seedUsers = []seedUser{
	{"juan_perez", "juan.perez@email.com", "1122334455"},
	{"maria_garcia", "maria.garcia@email.com", "1133445566"},
	{"carlos_rodriguez", "carlos.rodriguez@email.com", "1144556677"},
	{"ana_martinez", "ana.martinez@email.com", "1155667788"},
	{"luis_fernandez", "luis.fernandez@email.com", "1166778899"},
	{"sofia_lopez", "sofia.lopez@email.com", "1177889900"},
	{"diego_gomez", "diego.gomez@email.com", "1188990011"},
	{"laura_diaz", "laura.diaz@email.com", "1199001122"},
	{"pablo_ruiz", "pablo.ruiz@email.com", "1100112233"},
	{"valentina_torres", "valentina.torres@email.com", "1111223344"},
}

var seedOrders = []seedOrder{
	{"juan_perez", 45000, domain.OrderStatusCompleted, []seedOrderItem{{"Alfombra de vaca blanca con puntos", 45000, 1}}},
	{"maria_garcia", 80000, domain.OrderStatusCompleted, []seedOrderItem{{"Cartera de cuero grande", 40000, 1}, {"Cartera de cuero clásica", 40000, 1}}},
	{"carlos_rodriguez", 40000, domain.OrderStatusPending, []seedOrderItem{{"Cuero de cabra premium", 40000, 1}}},
	{"ana_martinez", 120000, domain.OrderStatusCompleted, []seedOrderItem{{"Chaqueta de cuero negra", 120000, 1}}},
	{"juan_perez", 15000, domain.OrderStatusCompleted, []seedOrderItem{{"Billetera de cuero marrón", 15000, 1}}},
	{"luis_fernandez", 90000, domain.OrderStatusCompleted, []seedOrderItem{{"Alfombra de vaca overa", 45000, 1}, {"Alfombra de oveja blanca", 50000, 1}}},
	{"sofia_lopez", 35000, domain.OrderStatusPending, []seedOrderItem{{"Cartera crossbody", 35000, 1}}},
	{"diego_gomez", 48000, domain.OrderStatusCompleted, []seedOrderItem{{"Porta documentos de cuero", 48000, 1}}},
	{"laura_diaz", 73000, domain.OrderStatusCompleted, []seedOrderItem{{"Cinturón de cuero negro", 18000, 1}, {"Zapatos de cuero casual", 55000, 1}}},
	{"pablo_ruiz", 28000, domain.OrderStatusCompleted, []seedOrderItem{{"Cojines decorativos de cuero", 28000, 1}}},
	{"valentina_torres", 105000, domain.OrderStatusPending, []seedOrderItem{{"Mochila de cuero vintage", 65000, 1}, {"Cartera de cuero grande", 40000, 1}}},
	{"maria_garcia", 55000, domain.OrderStatusCompleted, []seedOrderItem{{"Zapatos de cuero casual", 55000, 1}}},
}

var seedContactMessages = []domain.ContactMessage{
	{Name: "Juan Pérez", Email: "juan@email.com", Message: "¿Tienen envíos a todo el país?"},
	{Name: "María García", Email: "maria@email.com", Message: "Me gustaría saber más sobre los cueros de cabra"},
	{Name: "Carlos López", Email: "carlos@email.com", Message: "¿Hacen trabajos personalizados?"},
	{Name: "Ana Rodríguez", Email: "ana@email.com", Message: "Consulta sobre garantía de productos"},
	{Name: "Luis Martínez", Email: "luis@email.com", Message: "¿Cuánto demora el envío a Córdoba?"},
	{Name: "Sofía Fernández", Email: "sofia@email.com", Message: "Quiero saber si tienen stock de alfombras"},
	{Name: "Diego Torres", Email: "diego@email.com", Message: "¿Aceptan tarjetas de crédito?"},
	{Name: "Laura Gómez", Email: "laura@email.com", Message: "Me interesa la chaqueta de cuero negra"},
	{Name: "Pablo Díaz", Email: "pablo@email.com", Message: "¿Tienen local físico para ver productos?"},
	{Name: "Valentina Ruiz", Email: "valentina@email.com", Message: "Consulta sobre cuidado del cuero"},
}

// Seed fills every empty relation group with the fixture data. Groups that
// already hold rows are left untouched, so calling Seed again is a no-op.
// All fixture users share passwordHash.
func (s *PostgresStore) Seed(ctx context.Context, passwordHash string) error {
	groups := []struct {
		table string
		fill  func(ctx context.Context, tx *sql.Tx) error
	}{
		{"categories", s.insertSeedCategories},
		{"products", s.insertSeedProducts},
		{"users", func(ctx context.Context, tx *sql.Tx) error { return s.insertSeedUsers(ctx, tx, passwordHash) }},
		{"orders", s.insertSeedOrders},
		{"contact_messages", s.insertSeedContactMessages},
	}
	for _, g := range groups {
		if err := s.seedIfEmpty(ctx, g.table, g.fill); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) seedIfEmpty(ctx context.Context, table string, fill func(ctx context.Context, tx *sql.Tx) error) error {
	var count int
	// table comes from the fixed group list above, never from input
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+";").Scan(&count); err != nil {
		return fmt.Errorf("store: Seed failed to count %s: %w", table, err)
	}
	if count > 0 {
		s.logger.Debug().Str("table", table).Int("rows", count).Msg("table already has data, skipping seed")
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: Seed failed to begin transaction for %s: %w", table, err)
	}
	defer tx.Rollback()

	if err := fill(ctx, tx); err != nil {
		return fmt.Errorf("store: Seed failed for %s: %w", table, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: Seed failed to commit %s: %w", table, err)
	}
	s.logger.Info().Str("table", table).Msg("Seeded fixture data.")
	return nil
}

func (s *PostgresStore) insertSeedCategories(ctx context.Context, tx *sql.Tx) error {
	for _, c := range seedCategories {
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories (name, description) VALUES ($1, $2);`, c.Name, c.Description); err != nil {
			return fmt.Errorf("insert category %q: %w", c.Name, err)
		}
	}
	return nil
}

func (s *PostgresStore) insertSeedProducts(ctx context.Context, tx *sql.Tx) error {
	categoryIDs, err := lookupIDs(ctx, tx, `SELECT id, name FROM categories;`)
	if err != nil {
		return err
	}

	for _, p := range seedProducts {
		var productID int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO products (name, description, price, image_url, stock) VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
			p.Name, p.Description, p.Price, p.ImageURL, p.Stock,
		).Scan(&productID)
		if err != nil {
			return fmt.Errorf("insert product %q: %w", p.Name, err)
		}

		for _, name := range p.Categories {
			categoryID, ok := categoryIDs[name]
			if !ok {
				s.logger.Warn().Str("product", p.Name).Str("category", name).Msg("fixture category missing, link skipped")
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO product_categories (product_id, category_id) VALUES ($1, $2);`, productID, categoryID,
			); err != nil {
				return fmt.Errorf("link product %q to %q: %w", p.Name, name, err)
			}
		}
	}
	return nil
}

func (s *PostgresStore) insertSeedUsers(ctx context.Context, tx *sql.Tx, passwordHash string) error {
	for _, u := range seedUsers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (username, email, password_hash, phone) VALUES ($1, $2, $3, $4);`,
			u.Username, u.Email, passwordHash, u.Phone,
		); err != nil {
			return fmt.Errorf("insert user %q: %w", u.Username, err)
		}
	}
	return nil
}

func (s *PostgresStore) insertSeedOrders(ctx context.Context, tx *sql.Tx) error {
	userIDs, err := lookupIDs(ctx, tx, `SELECT id, username FROM users;`)
	if err != nil {
		return err
	}

	for _, o := range seedOrders {
		var userID *int64
		if id, ok := userIDs[o.Username]; ok {
			userID = &id
		} else {
			s.logger.Warn().Str("username", o.Username).Float64("total", o.Total).Msg("fixture user missing, order seeded without user")
		}
		var orderID int64
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO orders (user_id, total, status) VALUES ($1, $2, $3) RETURNING id;`,
			userID, o.Total, o.Status,
		).Scan(&orderID); err != nil {
			return fmt.Errorf("insert order for %q: %w", o.Username, err)
		}
		for _, it := range o.Items {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO order_items (order_id, product_name, product_price, quantity) VALUES ($1, $2, $3, $4);`,
				orderID, it.ProductName, it.ProductPrice, it.Quantity,
			); err != nil {
				return fmt.Errorf("insert item %q of order %d: %w", it.ProductName, orderID, err)
			}
		}
	}
	return nil
}

func (s *PostgresStore) insertSeedContactMessages(ctx context.Context, tx *sql.Tx) error {
	for _, m := range seedContactMessages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO contact_messages (name, email, message) VALUES ($1, $2, $3);`,
			m.Name, m.Email, m.Message,
		); err != nil {
			return fmt.Errorf("insert contact message from %q: %w", m.Email, err)
		}
	}
	return nil
}

// lookupIDs maps the natural key in the second column to the id in the first.
func lookupIDs(ctx context.Context, tx *sql.Tx, query string) (map[string]int64, error) {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("lookup ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var id int64
		var key string
		if err := rows.Scan(&id, &key); err != nil {
			return nil, fmt.Errorf("scan id row: %w", err)
		}
		ids[key] = id
	}
	return ids, rows.Err()
}
