package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusCancelled SaleStatus = "cancelled"

	DefaultSaleStatus = SaleStatusPending
)

// SaleStatuses lists every status in display order.
var SaleStatuses = []SaleStatus{SaleStatusCompleted, SaleStatusPending, SaleStatusCancelled}

func (s SaleStatus) String() string {
	return string(s)
}

// Validate implements the "enum" validation tag.
func (s SaleStatus) Validate() error {
	switch s {
	case SaleStatusCompleted, SaleStatusPending, SaleStatusCancelled:
		return nil
	default:
		return fmt.Errorf("invalid sale status: %q", string(s))
	}
}

// ParseSaleStatus parses a status case-insensitively. An empty string yields
// the default status.
func ParseSaleStatus(s string) (SaleStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultSaleStatus, nil
	}

	status := SaleStatus(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

// Sale is a recorded transaction of Quantity units of one product.
// Total is fixed at creation time and is not recomputed afterwards.
type Sale struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Date        time.Time       `json:"date"`
	Total       decimal.Decimal `json:"total"`
	Status      SaleStatus      `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SaleTotal computes unit price times quantity in exact decimal arithmetic.
func SaleTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// DateOnly drops the time of day, keeping the calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
