package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"catalog/internal/models"
)

var _ ProductRepository = (*MemoryProductRepository)(nil)

// ErrNullField mirrors a NOT NULL violation for the in-memory store.
var ErrNullField = errors.New("NOT NULL constraint failed")

// ErrDatatypeMismatch mirrors a rejected numeric column value.
var ErrDatatypeMismatch = errors.New("datatype mismatch")

// MemoryProductRepository is an in-memory implementation of ProductRepository.
// It assigns sequential ids the way an auto-increment column does.
type MemoryProductRepository struct {
	products map[int64]models.Product
	nextID   int64
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[int64]models.Product),
		nextID:   1,
	}
}

// GetAll returns all products in insertion order.
func (r *MemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return productList, nil
}

// Create adds a new product. Like the SQL table, every column is NOT NULL,
// so a missing field is rejected. Numeric strings are coerced the way a
// database coerces them into numeric columns.
func (r *MemoryProductRepository) Create(_ context.Context, req models.CreateProductRequest) error {
	if req.Name == nil || req.Category == nil || isNull(req.SupplierID) || isNull(req.Stock) || isNull(req.Price) {
		return ErrNullField
	}
	supplierID, err := req.SupplierID.Int64()
	if err != nil {
		return fmt.Errorf("%w: supplier_id %q", ErrDatatypeMismatch, req.SupplierID.Text())
	}
	stock, err := req.Stock.Int64()
	if err != nil {
		return fmt.Errorf("%w: stock %q", ErrDatatypeMismatch, req.Stock.Text())
	}
	price, err := req.Price.Decimal()
	if err != nil {
		return fmt.Errorf("%w: price %q", ErrDatatypeMismatch, req.Price.Text())
	}
	product := models.Product{
		Name:       *req.Name,
		Category:   *req.Category,
		SupplierID: supplierID,
		Stock:      stock,
		Price:      price.Round(2),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	r.products[product.ID] = product
	return nil
}

func isNull(s *models.Scalar) bool {
	return s == nil || s.IsNull()
}
