package invoice

import (
	"math"
	"strings"
)

// ErrorKind identifies which business rule a line item broke.
type ErrorKind string

const (
	NameRequired           ErrorKind = "NameRequired"
	QuantityOutOfRange     ErrorKind = "QuantityOutOfRange"
	PriceNegativeOrInvalid ErrorKind = "PriceNegativeOrInvalid"
)

// Message returns the user-facing text for the error kind, matching what
// the form renders next to the offending field.
func (k ErrorKind) Message() string {
	switch k {
	case NameRequired:
		return "Required"
	case QuantityOutOfRange:
		return "Qty must be 1 - 99"
	case PriceNegativeOrInvalid:
		return "Must be >= 0"
	}
	return "Invalid"
}

// ItemError reports a single failed rule on a single line item, so the
// form can surface it next to the right field.
type ItemError struct {
	ItemID  string    `json:"itemId"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// ValidityResult is the outcome of checking a line-item list. Validation
// failures are data, not faults: callers inspect the result, nothing is
// thrown or returned as an error.
type ValidityResult struct {
	Valid  bool        `json:"valid"`
	Errors []ItemError `json:"errors,omitempty"`
}

// ErrorsFor returns the error kinds recorded against one item.
func (r ValidityResult) ErrorsFor(itemID string) []ErrorKind {
	var kinds []ErrorKind
	for _, e := range r.Errors {
		if e.ItemID == itemID {
			kinds = append(kinds, e.Kind)
		}
	}
	return kinds
}

// ValidateItems checks every line item independently against the business
// rules: name non-empty after trimming, quantity an integer in [1,99],
// unit price >= 0. The list as a whole is valid only when it is non-empty
// and every item passes. Pure function; the owning form session re-runs it
// after every mutation and reads the latest result to gate submission.
func ValidateItems(items []LineItem) ValidityResult {
	var errs []ItemError
	for _, it := range items {
		if strings.TrimSpace(it.ProductName) == "" {
			errs = append(errs, itemError(it.ID, NameRequired))
		}
		q := float64(it.Quantity)
		if !it.Quantity.IsFinite() || q < 1 || q > 99 || q != math.Trunc(q) {
			errs = append(errs, itemError(it.ID, QuantityOutOfRange))
		}
		p := float64(it.UnitPrice)
		if !it.UnitPrice.IsFinite() || p < 0 {
			errs = append(errs, itemError(it.ID, PriceNegativeOrInvalid))
		}
	}
	return ValidityResult{
		Valid:  len(items) > 0 && len(errs) == 0,
		Errors: errs,
	}
}

func itemError(id string, kind ErrorKind) ItemError {
	return ItemError{ItemID: id, Kind: kind, Message: kind.Message()}
}
