package models

import "time"

// ProductCreatedType is the event type emitted after a product is inserted.
const ProductCreatedType = "product.created"

// ProductEvent is published to the message broker when the catalog changes.
type ProductEvent struct {
	EventID    string          `json:"event_id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Product    ProductSnapshot `json:"product"`
}

// ProductSnapshot holds the submitted fields of a product. The storage id is
// not part of it because the insert does not return one.
type ProductSnapshot struct {
	Name       *string `json:"product_name"`
	Category   *string `json:"category"`
	SupplierID *Scalar `json:"supplier_id"`
	Stock      *Scalar `json:"stock"`
	Price      *Scalar `json:"price"`
}

// SnapshotOf copies the submitted fields of a create request.
func SnapshotOf(req CreateProductRequest) ProductSnapshot {
	return ProductSnapshot{
		Name:       req.Name,
		Category:   req.Category,
		SupplierID: req.SupplierID,
		Stock:      req.Stock,
		Price:      req.Price,
	}
}
