package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/shopspring/decimal"
)

// ErrNotNumeric is returned when a Scalar holds no number.
var ErrNotNumeric = errors.New("value is not numeric")

// Scalar is a request value kept as the client sent it, number or string, so
// the database applies its own coercion when it is bound to a statement.
type Scalar struct {
	raw json.RawMessage
}

// NewScalar wraps a raw JSON value such as `3`, `"3"` or `9.99`.
func NewScalar(raw string) *Scalar {
	return &Scalar{raw: json.RawMessage(raw)}
}

// UnmarshalJSON keeps the value verbatim.
func (s *Scalar) UnmarshalJSON(b []byte) error {
	s.raw = append(s.raw[:0], b...)
	return nil
}

// MarshalJSON writes the value back as it was received.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("null"), nil
	}
	return s.raw, nil
}

// Text is the value without JSON string quoting.
func (s Scalar) Text() string {
	var str string
	if json.Unmarshal(s.raw, &str) == nil {
		return str
	}
	return string(bytes.TrimSpace(s.raw))
}

// IsNull reports whether the value is missing or JSON null.
func (s Scalar) IsNull() bool {
	raw := bytes.TrimSpace(s.raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func (s Scalar) isString() bool {
	raw := bytes.TrimSpace(s.raw)
	return len(raw) > 0 && raw[0] == '"'
}

// Value binds strings as text and integral numbers as int64. Other values
// are bound as their JSON text.
func (s Scalar) Value() (driver.Value, error) {
	if s.IsNull() {
		return nil, nil
	}
	text := s.Text()
	switch {
	case s.isString():
		return text, nil
	case text == "true" || text == "false":
		return text == "true", nil
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, nil
	}
	return text, nil
}

// Decimal parses the value as a number, accepting numeric strings.
func (s Scalar) Decimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s.Text())
	if err != nil {
		return decimal.Zero, ErrNotNumeric
	}
	return d, nil
}

// Int64 parses the value as a whole number, accepting numeric strings and
// values such as 50.0.
func (s Scalar) Int64() (int64, error) {
	d, err := s.Decimal()
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, ErrNotNumeric
	}
	return d.IntPart(), nil
}
