package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-api/pkg/invoice"
	"invoice-api/pkg/models"
)

func testInvoice() models.Invoice {
	return models.Invoice{
		InvoiceID:     1,
		InvoiceNumber: "INV-001",
		CustomerName:  "Acme",
		InvoiceDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		InvoiceItems: []models.InvoiceItem{
			{ProductName: "Widget", Quantity: 2, UnitPrice: 9.99},
			{ProductName: "Gadget", Quantity: 1, UnitPrice: 5},
		},
	}
}

func TestFilename(t *testing.T) {
	svc := NewService(nil)
	assert.Equal(t, "Invoice_INV-001.pdf", svc.Filename(testInvoice()))
}

func TestRenderProducesPDF(t *testing.T) {
	formatter, err := invoice.NewCurrencyFormatter("en-US", "USD")
	require.NoError(t, err)
	svc := NewService(formatter)

	data, err := svc.Render(testInvoice())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}
