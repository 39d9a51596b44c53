// Package invoice holds the business core: line-item validation, totals
// computation and the list presentation logic. Everything here is pure
// in-memory computation; persistence and transport live in pkg/services
// and pkg/api.
package invoice

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Amount is a numeric form field. Form input arrives as a JSON number or a
// numeric string; numeric strings coerce, anything else becomes NaN so the
// validator can report it as a field error instead of the whole request
// failing to decode.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*a = Amount(math.NaN())
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*a = Amount(math.NaN())
		return nil
	}
	*a = Amount(v)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	v := float64(a)
	if !a.IsFinite() {
		v = 0
	}
	return []byte(strconv.FormatFloat(v, 'f', -1, 64)), nil
}

// IsFinite reports whether the amount is a usable number (not NaN or Inf).
func (a Amount) IsFinite() bool {
	v := float64(a)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// LineItem is one editable product row in an invoice draft. The id is
// opaque and only has to be unique within the draft.
type LineItem struct {
	ID          string `json:"id"`
	ProductName string `json:"productName"`
	Quantity    Amount `json:"quantity"`
	UnitPrice   Amount `json:"unitPrice"`
}

// NewLineItem returns a fresh row with the form defaults: quantity 1,
// price 0, empty name. A default row is not valid until it gets a name.
func NewLineItem() LineItem {
	return LineItem{
		ID:       uuid.NewString(),
		Quantity: 1,
	}
}
