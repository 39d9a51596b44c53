package invoice

import (
	"fmt"
	"sort"
	"strings"

	"invoice-api/pkg/models"
)

// SortDirection orders the list by invoice date.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// ParseSortDirection maps the query-string value to a direction,
// defaulting to descending (newest first) like the original list.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(s, "asc") {
		return Ascending
	}
	return Descending
}

// PresentedPage is one page of the filtered, sorted invoice list.
type PresentedPage struct {
	Invoices   []models.InvoiceSummary `json:"invoices"`
	Page       int                     `json:"page"`
	TotalPages int                     `json:"totalPages"`
	TotalItems int                     `json:"totalItems"`
}

// Present derives the list view: filter by a case-insensitive substring
// match on customer name or invoice number (empty query matches all), sort
// by invoice date keeping input order on ties, then slice out one page.
//
// The input slice is never mutated. An out-of-range page, including
// page < 1, yields an empty page rather than an error; clamping is the
// caller's job. pageSize must be positive: a non-positive value is a
// programming defect and panics.
func Present(all []models.InvoiceSummary, query string, dir SortDirection, page, pageSize int) PresentedPage {
	if pageSize <= 0 {
		panic(fmt.Sprintf("invoice: Present called with pageSize %d", pageSize))
	}

	q := strings.ToLower(strings.TrimSpace(query))
	filtered := make([]models.InvoiceSummary, 0, len(all))
	for _, inv := range all {
		if q == "" ||
			strings.Contains(strings.ToLower(inv.CustomerName), q) ||
			strings.Contains(strings.ToLower(inv.InvoiceNumber), q) {
			filtered = append(filtered, inv)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if dir == Ascending {
			return filtered[i].InvoiceDate.Before(filtered[j].InvoiceDate)
		}
		return filtered[i].InvoiceDate.After(filtered[j].InvoiceDate)
	})

	totalPages := (len(filtered) + pageSize - 1) / pageSize

	items := []models.InvoiceSummary{}
	if page >= 1 {
		start := (page - 1) * pageSize
		if start < len(filtered) {
			end := start + pageSize
			if end > len(filtered) {
				end = len(filtered)
			}
			items = filtered[start:end]
		}
	}

	return PresentedPage{
		Invoices:   items,
		Page:       page,
		TotalPages: totalPages,
		TotalItems: len(filtered),
	}
}
