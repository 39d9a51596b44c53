// Package store persists invoices with gorm.
package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"invoice-api/pkg/models"
)

var (
	// ErrNotFound means no invoice exists with the requested id.
	ErrNotFound = errors.New("invoice not found")
	// ErrDuplicateNumber means the invoice number is already taken.
	ErrDuplicateNumber = errors.New("invoice number already exists")
)

// Service handles invoice persistence
type Service struct {
	db *gorm.DB
}

// NewService creates a new invoice store
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// FetchAll returns every invoice as a list summary. Sorting, filtering and
// pagination are the presenter's job, not the query's.
func (s *Service) FetchAll() ([]models.InvoiceSummary, error) {
	var invoices []models.Invoice
	if err := s.db.Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	summaries := make([]models.InvoiceSummary, 0, len(invoices))
	for _, inv := range invoices {
		summaries = append(summaries, inv.Summary())
	}
	return summaries, nil
}

// Get loads one invoice with its line items.
func (s *Service) Get(id uint) (models.Invoice, error) {
	var inv models.Invoice
	err := s.db.Preload("InvoiceItems").First(&inv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Invoice{}, ErrNotFound
	}
	if err != nil {
		return models.Invoice{}, fmt.Errorf("failed to load invoice %d: %w", id, err)
	}
	return inv, nil
}

// Create saves a new invoice and its items. Invoice numbers are unique.
func (s *Service) Create(inv models.Invoice) (models.Invoice, error) {
	var count int64
	if err := s.db.Model(&models.Invoice{}).
		Where("invoice_number = ?", inv.InvoiceNumber).
		Count(&count).Error; err != nil {
		return models.Invoice{}, fmt.Errorf("failed to check invoice number: %w", err)
	}
	if count > 0 {
		return models.Invoice{}, ErrDuplicateNumber
	}
	if err := s.db.Create(&inv).Error; err != nil {
		return models.Invoice{}, fmt.Errorf("failed to create invoice: %w", err)
	}
	return inv, nil
}

// Update replaces an invoice's fields and item set in one transaction.
// The invoice number never changes on update; the form locks it in edit
// mode, so whatever the payload says, the stored number wins.
func (s *Service) Update(id uint, inv models.Invoice) (models.Invoice, error) {
	existing, err := s.Get(id)
	if err != nil {
		return models.Invoice{}, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear invoice items: %w", err)
		}
		existing.CustomerName = inv.CustomerName
		existing.CustomerEmail = inv.CustomerEmail
		existing.CustomerPhone = inv.CustomerPhone
		existing.DeliveryOrigin = inv.DeliveryOrigin
		existing.InvoiceDate = inv.InvoiceDate
		existing.TotalAmount = inv.TotalAmount
		existing.InvoiceItems = inv.InvoiceItems
		for i := range existing.InvoiceItems {
			existing.InvoiceItems[i].InvoiceID = id
		}
		if err := tx.Save(&existing).Error; err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Invoice{}, err
	}
	return existing, nil
}

// Remove deletes an invoice and its items.
func (s *Service) Remove(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete invoice items: %w", err)
		}
		if err := tx.Delete(&models.Invoice{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}
		return nil
	})
}
