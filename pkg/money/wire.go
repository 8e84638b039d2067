package money

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// WireAmount decodes an amount that a backend may send as a JSON number, a
// numeric string, or something else entirely.
//
// Present is false when the field was missing or null. Valid is false when
// the field was present but not numeric; Value is zero in that case.
type WireAmount struct {
	Value   decimal.Decimal
	Present bool
	Valid   bool
}

// NewWireAmount wraps a known-good decimal
func NewWireAmount(d decimal.Decimal) WireAmount {
	return WireAmount{Value: d, Present: true, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler
// Supports: 12.5, "12.5", null. Anything else decodes as present but invalid.
func (a *WireAmount) UnmarshalJSON(data []byte) error {
	*a = WireAmount{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	a.Present = true

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if d, err := decimal.NewFromString(s); err == nil {
			a.Value, a.Valid = d, true
		}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		if d, err := decimal.NewFromString(n.String()); err == nil {
			a.Value, a.Valid = d, true
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler. Amounts go out as JSON numbers.
func (a WireAmount) MarshalJSON() ([]byte, error) {
	if !a.Present {
		return []byte("null"), nil
	}
	return []byte(a.Value.String()), nil
}
