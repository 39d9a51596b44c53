package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LineTotal returns quantity * unit price for one row. Non-finite or
// missing numerics count as zero here: this is display-time leniency only,
// so the table can keep rendering while the user is mid-edit. The
// validator stays strict and is the only gate on the write path.
func LineTotal(it LineItem) decimal.Decimal {
	q := displayValue(it.Quantity)
	p := displayValue(it.UnitPrice)
	return decimal.NewFromFloat(q).Mul(decimal.NewFromFloat(p))
}

// Subtotal sums the line totals of every row.
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(LineTotal(it))
	}
	return sum
}

func displayValue(a Amount) float64 {
	if !a.IsFinite() {
		return 0
	}
	return float64(a)
}

// CurrencyFormatter renders amounts as localized currency strings. Locale
// and currency come from configuration, not constants.
type CurrencyFormatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewCurrencyFormatter builds a formatter for a BCP 47 locale tag such as
// "en-IN" and an ISO 4217 currency code such as "INR".
func NewCurrencyFormatter(locale, code string) (*CurrencyFormatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", code, err)
	}
	return &CurrencyFormatter{
		printer: message.NewPrinter(tag),
		unit:    unit,
	}, nil
}

// Format renders the amount with the currency symbol, e.g. "₹24.98".
func (f *CurrencyFormatter) Format(v decimal.Decimal) string {
	amount, _ := v.Float64()
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(amount)))
}
