package repositories

import (
	"context"

	"catalog/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, req models.CreateProductRequest) error
}
