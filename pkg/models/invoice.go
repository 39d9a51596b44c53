package models

import (
	"time"
)

// Invoice is a persisted invoice with its line items
type Invoice struct {
	InvoiceID      uint          `gorm:"primaryKey" json:"InvoiceId"`
	InvoiceNumber  string        `gorm:"size:50;uniqueIndex" json:"InvoiceNumber"`
	CustomerName   string        `gorm:"size:50" json:"CustomerName"`
	CustomerEmail  string        `gorm:"size:100" json:"CustomerEmail,omitempty"`
	CustomerPhone  string        `gorm:"size:20" json:"CustomerPhone,omitempty"`
	DeliveryOrigin string        `gorm:"size:100" json:"DeliveryOrigin,omitempty"`
	InvoiceDate    time.Time     `json:"InvoiceDate"`
	TotalAmount    float64       `json:"TotalAmount"`
	InvoiceItems   []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"InvoiceItems"`
	CreatedAt      time.Time     `json:"-"`
	UpdatedAt      time.Time     `json:"-"`
}

// InvoiceItem is one product row on a persisted invoice
type InvoiceItem struct {
	ID          uint    `gorm:"primaryKey" json:"-"`
	InvoiceID   uint    `json:"-"`
	ProductName string  `gorm:"size:100" json:"ProductName"`
	Quantity    int     `json:"Quantity"`
	UnitPrice   float64 `json:"UnitPrice"`
}

// InvoiceSummary is the read-only projection used for list display.
// The list presenter derives views from it but never mutates it.
type InvoiceSummary struct {
	InvoiceID     uint      `json:"InvoiceId"`
	InvoiceNumber string    `json:"InvoiceNumber"`
	CustomerName  string    `json:"CustomerName"`
	CustomerEmail string    `json:"CustomerEmail,omitempty"`
	CustomerPhone string    `json:"CustomerPhone,omitempty"`
	InvoiceDate   time.Time `json:"InvoiceDate"`
	TotalAmount   float64   `json:"TotalAmount"`
}

// Summary projects an invoice onto its list row.
func (inv Invoice) Summary() InvoiceSummary {
	return InvoiceSummary{
		InvoiceID:     inv.InvoiceID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerName:  inv.CustomerName,
		CustomerEmail: inv.CustomerEmail,
		CustomerPhone: inv.CustomerPhone,
		InvoiceDate:   inv.InvoiceDate,
		TotalAmount:   inv.TotalAmount,
	}
}
