package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"invoice-api/pkg/invoice"
	"invoice-api/pkg/services/store"
)

// invoicePayload is the create/update request body. Binding checks the
// shape; the business rules live in the draft, which stays the single
// authority on what may reach the write path.
type invoicePayload struct {
	InvoiceNumber  string             `json:"InvoiceNumber"`
	CustomerName   string             `json:"CustomerName"`
	CustomerEmail  string             `json:"CustomerEmail" binding:"omitempty,email"`
	CustomerPhone  string             `json:"CustomerPhone"`
	DeliveryOrigin string             `json:"DeliveryOrigin"`
	InvoiceDate    time.Time          `json:"InvoiceDate"`
	InvoiceItems   []invoice.LineItem `json:"InvoiceItems"`
}

// listInvoices serves the list view: optional case-insensitive search over
// customer name and invoice number, date sort, fixed-size pages.
func (s *Server) listInvoices(c *gin.Context) {
	all, err := s.store.FetchAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoices"})
		return
	}

	page, err := positiveQueryInt(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a positive integer"})
		return
	}
	pageSize, err := positiveQueryInt(c, "pageSize", defaultPageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be a positive integer"})
		return
	}

	result := invoice.Present(
		all,
		c.Query("q"),
		invoice.ParseSortDirection(c.Query("sort")),
		page,
		pageSize,
	)
	c.JSON(http.StatusOK, result)
}

func (s *Server) getInvoice(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}
	inv, err := s.store.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load invoice"})
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (s *Server) createInvoice(c *gin.Context) {
	var payload invoicePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft := payload.draft()
	if !draft.Valid() {
		rejectDraft(c, draft)
		return
	}
	inv, _ := draft.Payload()
	inv.CustomerEmail = payload.CustomerEmail
	inv.CustomerPhone = payload.CustomerPhone

	created, err := s.store.Create(inv)
	if errors.Is(err, store.ErrDuplicateNumber) {
		c.JSON(http.StatusConflict, gin.H{"error": "Invoice number already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save invoice"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateInvoice(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}
	var payload invoicePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := s.store.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load invoice"})
		return
	}

	// The edit form locks the invoice number; validate against the stored
	// one no matter what the payload carries.
	payload.InvoiceNumber = existing.InvoiceNumber
	draft := payload.draft()
	if !draft.Valid() {
		rejectDraft(c, draft)
		return
	}
	inv, _ := draft.Payload()
	inv.CustomerEmail = payload.CustomerEmail
	inv.CustomerPhone = payload.CustomerPhone

	updated, err := s.store.Update(id, inv)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update invoice"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteInvoice(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}
	err := s.store.Remove(id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete invoice"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}

func (s *Server) downloadPDF(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}
	inv, err := s.store.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load invoice"})
		return
	}

	data, err := s.pdf.Render(inv)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render PDF"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+s.pdf.Filename(inv)+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (p invoicePayload) draft() *invoice.Draft {
	return invoice.DraftFrom(
		p.InvoiceNumber,
		p.CustomerName,
		p.DeliveryOrigin,
		p.InvoiceDate,
		p.InvoiceItems,
	)
}

func rejectDraft(c *gin.Context, draft *invoice.Draft) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":       "Invoice is not valid",
		"fieldErrors": draft.FieldErrors(),
		"itemErrors":  draft.ItemResult().Errors,
	})
}

func invoiceID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invoice id"})
		return 0, false
	}
	return uint(id), true
}

func positiveQueryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, errors.New("not a positive integer")
	}
	return v, nil
}
