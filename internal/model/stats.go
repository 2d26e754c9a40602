package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Granularity is the truncation unit used to group sale dates.
type Granularity string

const (
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
)

func (g Granularity) Validate() error {
	switch g {
	case GranularityMonth, GranularityQuarter:
		return nil
	default:
		return fmt.Errorf("invalid granularity: %q", string(g))
	}
}

// TruncateDate returns the first day of the month or quarter containing t.
func TruncateDate(t time.Time, g Granularity) time.Time {
	month := t.Month()
	if g == GranularityQuarter {
		month = time.Month((int(month)-1)/3*3 + 1)
	}
	return time.Date(t.Year(), month, 1, 0, 0, 0, 0, time.UTC)
}

type PeriodTotal struct {
	PeriodStart time.Time       `json:"period_start"`
	Sum         decimal.Decimal `json:"sum"`
}

type PeriodStats struct {
	Monthly   []PeriodTotal `json:"monthly"`
	Quarterly []PeriodTotal `json:"quarterly"`
}

type ProductQuantity struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int64     `json:"quantity"`
}

// DailyTotal is the summed sale total of one calendar date.
type DailyTotal struct {
	Date time.Time       `json:"date"`
	Sum  decimal.Decimal `json:"sum"`
}
