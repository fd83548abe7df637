package client

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Form field names, as sent on the wire.
const (
	FieldProductName = "product_name"
	FieldCategory    = "category"
	FieldSupplierID  = "supplier_id"
	FieldStock       = "stock"
	FieldPrice       = "price"
)

// Fields lists the form fields in the order they are prompted.
var Fields = []string{FieldProductName, FieldCategory, FieldSupplierID, FieldStock, FieldPrice}

// Form is the raw text of the add-product form. The zero value is an empty form.
type Form struct {
	ProductName string
	Category    string
	SupplierID  string
	Stock       string
	Price       string
}

// Set updates the named field and leaves the others untouched.
func (f *Form) Set(field, value string) error {
	switch field {
	case FieldProductName:
		f.ProductName = value
	case FieldCategory:
		f.Category = value
	case FieldSupplierID:
		f.SupplierID = value
	case FieldStock:
		f.Stock = value
	case FieldPrice:
		f.Price = value
	default:
		return fmt.Errorf("unknown form field %q", field)
	}
	return nil
}

// Payload is the JSON body for the form. Name and category are strings.
// The numeric fields are sent as numbers when their text parses, and as
// the text itself otherwise.
func (f Form) Payload() map[string]any {
	return map[string]any{
		FieldProductName: f.ProductName,
		FieldCategory:    f.Category,
		FieldSupplierID:  numberOrText(f.SupplierID),
		FieldStock:       numberOrText(f.Stock),
		FieldPrice:       numberOrText(f.Price),
	}
}

func numberOrText(s string) any {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return json.Number(d.String())
}
