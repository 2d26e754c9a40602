package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleFilter narrows a sale query. Nil fields impose no constraint; present
// fields are combined with logical AND. Date and total bounds are inclusive.
type SaleFilter struct {
	ProductID *uuid.UUID
	DateFrom  *time.Time
	DateTo    *time.Time
	MinTotal  *decimal.Decimal
	MaxTotal  *decimal.Decimal
	Status    *SaleStatus
}

// IsEmpty reports whether the filter imposes no constraint at all.
func (f SaleFilter) IsEmpty() bool {
	return f.ProductID == nil && f.DateFrom == nil && f.DateTo == nil &&
		f.MinTotal == nil && f.MaxTotal == nil && f.Status == nil
}

// Matches reports whether s satisfies every present predicate.
func (f SaleFilter) Matches(s Sale) bool {
	if f.ProductID != nil && s.ProductID != *f.ProductID {
		return false
	}
	if f.DateFrom != nil && s.Date.Before(DateOnly(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && s.Date.After(DateOnly(*f.DateTo)) {
		return false
	}
	if f.MinTotal != nil && s.Total.LessThan(*f.MinTotal) {
		return false
	}
	if f.MaxTotal != nil && s.Total.GreaterThan(*f.MaxTotal) {
		return false
	}
	if f.Status != nil && s.Status != *f.Status {
		return false
	}
	return true
}

type FilteredSales struct {
	Sales []Sale          `json:"sales"`
	Total decimal.Decimal `json:"total"`
}
