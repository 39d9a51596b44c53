package invoice

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validItem() LineItem {
	it := NewLineItem()
	it.ProductName = "Widget"
	it.Quantity = 2
	it.UnitPrice = 9.99
	return it
}

func TestValidateItemsEmptyListIsInvalid(t *testing.T) {
	res := ValidateItems(nil)
	assert.False(t, res.Valid)
	assert.Empty(t, res.Errors)

	res = ValidateItems([]LineItem{})
	assert.False(t, res.Valid)
}

func TestValidateItemsSingleValidItem(t *testing.T) {
	res := ValidateItems([]LineItem{validItem()})
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidateItemsQuantityRange(t *testing.T) {
	for _, q := range []Amount{0, -1, 100, 2.5} {
		it := validItem()
		it.Quantity = q
		res := ValidateItems([]LineItem{it})
		assert.False(t, res.Valid, "quantity %v should be rejected", q)
		assert.Contains(t, res.ErrorsFor(it.ID), QuantityOutOfRange)
	}
	for _, q := range []Amount{1, 50, 99} {
		it := validItem()
		it.Quantity = q
		res := ValidateItems([]LineItem{it})
		assert.True(t, res.Valid, "quantity %v should be accepted", q)
	}
}

func TestValidateItemsNameRequired(t *testing.T) {
	it := validItem()
	it.ProductName = "   "
	res := ValidateItems([]LineItem{it})
	assert.False(t, res.Valid)
	assert.Equal(t, []ErrorKind{NameRequired}, res.ErrorsFor(it.ID))
}

func TestValidateItemsNegativePrice(t *testing.T) {
	it := validItem()
	it.UnitPrice = -0.01
	res := ValidateItems([]LineItem{it})
	assert.False(t, res.Valid)
	assert.Contains(t, res.ErrorsFor(it.ID), PriceNegativeOrInvalid)
}

func TestValidateItemsDefaultRowFailsOnNameOnly(t *testing.T) {
	it := NewLineItem()
	res := ValidateItems([]LineItem{it})
	assert.False(t, res.Valid)
	assert.Equal(t, []ErrorKind{NameRequired}, res.ErrorsFor(it.ID))
}

func TestValidateItemsEachRuleReportedIndependently(t *testing.T) {
	it := NewLineItem()
	it.Quantity = 0
	it.UnitPrice = -5
	res := ValidateItems([]LineItem{it})
	kinds := res.ErrorsFor(it.ID)
	assert.Contains(t, kinds, NameRequired)
	assert.Contains(t, kinds, QuantityOutOfRange)
	assert.Contains(t, kinds, PriceNegativeOrInvalid)
}

func TestAmountCoercionFromJSON(t *testing.T) {
	var it LineItem
	require.NoError(t, json.Unmarshal(
		[]byte(`{"id":"r1","productName":"Widget","quantity":"abc","unitPrice":"12.50"}`),
		&it,
	))

	// Numeric strings coerce; non-numeric input fails as a range error.
	assert.False(t, it.Quantity.IsFinite())
	assert.Equal(t, Amount(12.5), it.UnitPrice)

	res := ValidateItems([]LineItem{it})
	assert.False(t, res.Valid)
	assert.Equal(t, []ErrorKind{QuantityOutOfRange}, res.ErrorsFor("r1"))
}
