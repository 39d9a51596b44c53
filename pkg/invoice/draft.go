package invoice

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"invoice-api/pkg/models"
)

// ErrDraftInvalid is returned when a payload is requested from a draft
// that has not passed validation.
var ErrDraftInvalid = errors.New("invoice draft is not valid")

// FieldError is a recoverable, per-field validation message on the
// invoice-level fields. Surfaced next to the field, never raised.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Draft is an in-progress invoice: the header fields plus the ordered line
// items the form is editing. It re-expresses the original form's reactive
// subscription as explicit recomputation: every mutation synchronously
// refreshes the field errors, the item validity result and the running
// subtotal, so the submit gate always reads a current answer. Discarded on
// submit or cancel; owned by a single form session, no locking.
type Draft struct {
	invoiceNumber  string
	customerName   string
	invoiceDate    time.Time
	deliveryOrigin string
	items          []LineItem

	fieldErrors []FieldError
	itemResult  ValidityResult
	subtotal    decimal.Decimal
}

// NewDraft starts a blank draft with one default line item, matching the
// create form's initial state.
func NewDraft() *Draft {
	d := &Draft{items: []LineItem{NewLineItem()}}
	d.refresh()
	return d
}

// DraftFrom builds a draft from a complete payload, e.g. a decoded create
// request. Items without an id get one assigned.
func DraftFrom(number, customer, origin string, date time.Time, items []LineItem) *Draft {
	d := &Draft{
		invoiceNumber:  number,
		customerName:   customer,
		deliveryOrigin: origin,
		invoiceDate:    date,
	}
	for _, it := range items {
		if it.ID == "" {
			it.ID = NewLineItem().ID
		}
		d.items = append(d.items, it)
	}
	d.refresh()
	return d
}

// EditDraft prefills a draft from a persisted invoice.
func EditDraft(inv models.Invoice) *Draft {
	items := make([]LineItem, 0, len(inv.InvoiceItems))
	for _, it := range inv.InvoiceItems {
		row := NewLineItem()
		row.ProductName = it.ProductName
		row.Quantity = Amount(it.Quantity)
		row.UnitPrice = Amount(it.UnitPrice)
		items = append(items, row)
	}
	return DraftFrom(inv.InvoiceNumber, inv.CustomerName, inv.DeliveryOrigin, inv.InvoiceDate, items)
}

func (d *Draft) SetInvoiceNumber(s string) { d.invoiceNumber = s; d.refresh() }
func (d *Draft) SetCustomerName(s string)  { d.customerName = s; d.refresh() }
func (d *Draft) SetInvoiceDate(t time.Time) {
	d.invoiceDate = t
	d.refresh()
}
func (d *Draft) SetDeliveryOrigin(s string) { d.deliveryOrigin = s; d.refresh() }

// AddItem appends a default row and returns its id.
func (d *Draft) AddItem() string {
	it := NewLineItem()
	d.items = append(d.items, it)
	d.refresh()
	return it.ID
}

// SetItemName updates one row's product name by id.
func (d *Draft) SetItemName(id, name string) {
	d.updateItem(id, func(it *LineItem) { it.ProductName = name })
}

// SetItemQuantity updates one row's quantity by id.
func (d *Draft) SetItemQuantity(id string, q Amount) {
	d.updateItem(id, func(it *LineItem) { it.Quantity = q })
}

// SetItemUnitPrice updates one row's unit price by id.
func (d *Draft) SetItemUnitPrice(id string, p Amount) {
	d.updateItem(id, func(it *LineItem) { it.UnitPrice = p })
}

func (d *Draft) updateItem(id string, mutate func(*LineItem)) {
	for i := range d.items {
		if d.items[i].ID == id {
			mutate(&d.items[i])
			d.refresh()
			return
		}
	}
}

// RemoveItem deletes a row by id, reporting whether it existed.
func (d *Draft) RemoveItem(id string) bool {
	for i := range d.items {
		if d.items[i].ID == id {
			d.items = append(d.items[:i], d.items[i+1:]...)
			d.refresh()
			return true
		}
	}
	return false
}

// refresh recomputes everything the submit gate and the form read. Called
// after every mutation, before control returns to the caller.
func (d *Draft) refresh() {
	d.fieldErrors = d.validateHeader()
	d.itemResult = ValidateItems(d.items)
	d.subtotal = Subtotal(d.items)
}

func (d *Draft) validateHeader() []FieldError {
	var errs []FieldError
	switch {
	case strings.TrimSpace(d.invoiceNumber) == "":
		errs = append(errs, FieldError{"invoiceNumber", "Invoice Number is required"})
	case len(d.invoiceNumber) > 50:
		errs = append(errs, FieldError{"invoiceNumber", "Max 50 characters allowed"})
	}
	switch {
	case strings.TrimSpace(d.customerName) == "":
		errs = append(errs, FieldError{"customerName", "Customer name is required"})
	case len(d.customerName) > 50:
		errs = append(errs, FieldError{"customerName", "Max 50 characters allowed"})
	}
	if d.invoiceDate.IsZero() {
		errs = append(errs, FieldError{"invoiceDate", "Invoice Date is required"})
	}
	return errs
}

// Valid reports whether the draft may be submitted: every header field
// passes, the item list is non-empty and every item passes.
func (d *Draft) Valid() bool {
	return len(d.fieldErrors) == 0 && d.itemResult.Valid
}

// FieldErrors returns the current header field errors.
func (d *Draft) FieldErrors() []FieldError { return d.fieldErrors }

// ItemResult returns the latest line-item validity result.
func (d *Draft) ItemResult() ValidityResult { return d.itemResult }

// Subtotal returns the running display subtotal.
func (d *Draft) Subtotal() decimal.Decimal { return d.subtotal }

// Items returns a copy of the current rows, in order.
func (d *Draft) Items() []LineItem {
	out := make([]LineItem, len(d.items))
	copy(out, d.items)
	return out
}

// Payload converts a valid draft into the persistence model, with the
// subtotal as the invoice total. Invalid drafts never reach the write
// path: ErrDraftInvalid is returned instead.
func (d *Draft) Payload() (models.Invoice, error) {
	if !d.Valid() {
		return models.Invoice{}, ErrDraftInvalid
	}
	items := make([]models.InvoiceItem, 0, len(d.items))
	for _, it := range d.items {
		items = append(items, models.InvoiceItem{
			ProductName: strings.TrimSpace(it.ProductName),
			Quantity:    int(math.Trunc(float64(it.Quantity))),
			UnitPrice:   float64(it.UnitPrice),
		})
	}
	total, _ := d.subtotal.Float64()
	return models.Invoice{
		InvoiceNumber:  d.invoiceNumber,
		CustomerName:   d.customerName,
		DeliveryOrigin: d.deliveryOrigin,
		InvoiceDate:    d.invoiceDate,
		TotalAmount:    total,
		InvoiceItems:   items,
	}, nil
}
