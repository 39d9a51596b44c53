// Package pdf renders invoice detail as a downloadable PDF.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"invoice-api/pkg/invoice"
	"invoice-api/pkg/models"
)

// Service renders invoices to PDF documents
type Service struct {
	formatter *invoice.CurrencyFormatter
}

// NewService creates a new PDF renderer using formatter for amounts
func NewService(formatter *invoice.CurrencyFormatter) *Service {
	return &Service{formatter: formatter}
}

// Filename is the suggested download name for an invoice.
func (s *Service) Filename(inv models.Invoice) string {
	return "Invoice_" + inv.InvoiceNumber + ".pdf"
}

// Render produces the PDF bytes for one invoice: header fields, the items
// table with per-line totals, and the subtotal.
func (s *Service) Render(inv models.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Invoice "+inv.InvoiceNumber)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	s.headerLine(pdf, "Customer", inv.CustomerName)
	if inv.CustomerEmail != "" {
		s.headerLine(pdf, "Email", inv.CustomerEmail)
	}
	if inv.CustomerPhone != "" {
		s.headerLine(pdf, "Phone", inv.CustomerPhone)
	}
	if inv.DeliveryOrigin != "" {
		s.headerLine(pdf, "Delivery origin", inv.DeliveryOrigin)
	}
	s.headerLine(pdf, "Date", inv.InvoiceDate.Format("02/01/2006"))
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(90, 8, "Product", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Unit Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, "Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	subtotal := decimal.Zero
	for _, it := range inv.InvoiceItems {
		lineTotal := decimal.NewFromInt(int64(it.Quantity)).
			Mul(decimal.NewFromFloat(it.UnitPrice))
		subtotal = subtotal.Add(lineTotal)

		pdf.CellFormat(90, 8, it.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 8, s.formatter.Format(decimal.NewFromFloat(it.UnitPrice)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, s.formatter.Format(lineTotal), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(150, 8, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, s.formatter.Format(subtotal), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) headerLine(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(35, 7, label+":")
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, value)
	pdf.Ln(7)
}
