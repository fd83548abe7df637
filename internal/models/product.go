package models

import "github.com/shopspring/decimal"

func init() {
	// Prices go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a catalog item stored in the Products table.
// JSON field names match the column names.
type Product struct {
	ID         int64           `json:"product_id" gorm:"column:product_id;primaryKey;autoIncrement"`
	Name       string          `json:"product_name" gorm:"column:product_name;type:varchar(255);not null"`
	Category   string          `json:"category" gorm:"column:category;type:varchar(100);not null"`
	SupplierID int64           `json:"supplier_id" gorm:"column:supplier_id;not null"`
	Stock      int64           `json:"stock" gorm:"column:stock;not null;default:0"`
	Price      decimal.Decimal `json:"price" gorm:"column:price;type:decimal(10,2);not null;default:0"`
}

// TableName keeps the table name the catalog has always used.
func (Product) TableName() string {
	return "Products"
}

// CreateProductRequest is the body of POST /products.
// Every field is optional so a missing value reaches storage as NULL. The
// numeric fields accept numbers or strings and are bound as sent.
type CreateProductRequest struct {
	Name       *string `json:"product_name" validate:"required,min=1,max=255"`
	Category   *string `json:"category" validate:"required,min=1,max=100"`
	SupplierID *Scalar `json:"supplier_id" validate:"required,numeric,integral,gte=1"`
	Stock      *Scalar `json:"stock" validate:"required,numeric,integral,gte=0"`
	Price      *Scalar `json:"price" validate:"required,numeric,gte=0"`
}
