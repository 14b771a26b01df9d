package domain

// Category represents a product category in the catalog.
// The json tags correspond to the fields expected in API responses.
type Category struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"` // Pointer for nullable fields
}

// Product represents a product in the catalog.
// Categories is resolved through the product_categories junction table.
type Product struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Price       float64    `json:"price"` // Monetary values are plain floats, no fixed-point rounding is applied
	ImageURL    *string    `json:"image_url"`
	Stock       int        `json:"stock"`
	Categories  []Category `json:"categories"`
}

// LowStockThreshold is the stock level below which a product is reported
// by the product statistics.
const LowStockThreshold = 10
