package services

import (
	"math"
	"reflect"

	"github.com/go-playground/validator/v10"

	"catalog/internal/models"
)

// newValidator returns a validator that checks models.Scalar fields by their
// numeric value. Numeric strings count as numbers.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(scalarValue, models.Scalar{})
	// Registration only fails for an empty tag or a nil func.
	if err := v.RegisterValidation("integral", isIntegral); err != nil {
		panic(err)
	}
	return v
}

func scalarValue(field reflect.Value) any {
	s, ok := field.Interface().(models.Scalar)
	if !ok {
		return nil
	}
	if d, err := s.Decimal(); err == nil {
		return d.InexactFloat64()
	}
	return s.Text()
}

func isIntegral(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		return f == math.Trunc(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}
