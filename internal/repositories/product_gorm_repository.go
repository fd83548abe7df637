package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"catalog/internal/database"
	"catalog/internal/models"
)

var _ ProductRepository = (*GORMProductRepository)(nil)

// GORMProductRepository runs plain SQL statements through gorm. Each call
// acquires its own handle from the connector and releases it before returning.
type GORMProductRepository struct {
	conn database.Connector
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(conn database.Connector) *GORMProductRepository {
	return &GORMProductRepository{
		conn: conn,
	}
}

// GetAll selects every row of the Products table, unfiltered and unordered.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	db, release, err := r.conn.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	products := []models.Product{}
	query := fmt.Sprintf("SELECT * FROM %s", productsTable(db))
	if err := db.Raw(query).Scan(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// Create inserts one product, binding the five fields positionally. The
// product_id is generated by the database.
func (r *GORMProductRepository) Create(ctx context.Context, req models.CreateProductRequest) error {
	db, release, err := r.conn.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	query := fmt.Sprintf(
		"INSERT INTO %s (product_name, category, supplier_id, stock, price) VALUES (?, ?, ?, ?, ?)",
		productsTable(db),
	)
	if err := db.Exec(query, req.Name, req.Category, req.SupplierID, req.Stock, req.Price).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// productsTable quotes the table name for the active dialect, so the mixed-case
// name survives on PostgreSQL.
func productsTable(db *gorm.DB) string {
	return db.Statement.Quote(models.Product{}.TableName())
}
