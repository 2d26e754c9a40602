package http

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/sales-analytics/internal/model"
	"github.com/tuanvumaihuynh/sales-analytics/pkg/validator"
)

// Money and dates are rendered as strings: money with exactly two decimals
// and dates as YYYY-MM-DD.

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(validator.DecimalPlaces)
}

func formatDate(t time.Time) string {
	return t.Format(validator.DateLayout)
}

type ProductResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

func newProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     formatMoney(p.Price),
		CreatedAt: p.CreatedAt,
	}
}

type SaleResponse struct {
	ID          uuid.UUID        `json:"id"`
	ProductID   uuid.UUID        `json:"product_id"`
	ProductName string           `json:"product_name"`
	Quantity    int              `json:"quantity"`
	Date        string           `json:"date"`
	Total       string           `json:"total"`
	Status      model.SaleStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
}

func newSaleResponse(s model.Sale) SaleResponse {
	return SaleResponse{
		ID:          s.ID,
		ProductID:   s.ProductID,
		ProductName: s.ProductName,
		Quantity:    s.Quantity,
		Date:        formatDate(s.Date),
		Total:       formatMoney(s.Total),
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
	}
}

func newSaleResponses(sales []model.Sale) []SaleResponse {
	items := make([]SaleResponse, 0, len(sales))
	for _, s := range sales {
		items = append(items, newSaleResponse(s))
	}
	return items
}

type SalePageResponse struct {
	Items       []SaleResponse `json:"items"`
	Number      int            `json:"number"`
	NumPages    int            `json:"num_pages"`
	Count       int            `json:"count"`
	HasNext     bool           `json:"has_next"`
	HasPrevious bool           `json:"has_previous"`
}

func newSalePageResponse(p model.Page[model.Sale]) SalePageResponse {
	return SalePageResponse{
		Items:       newSaleResponses(p.Items),
		Number:      p.Number,
		NumPages:    p.NumPages,
		Count:       p.Count,
		HasNext:     p.HasNext,
		HasPrevious: p.HasPrevious,
	}
}

type FilteredSalesResponse struct {
	Sales []SaleResponse `json:"sales"`
	Total string         `json:"total"`
}

type PeriodTotalResponse struct {
	PeriodStart string `json:"period_start"`
	Sum         string `json:"sum"`
}

func newPeriodTotalResponses(totals []model.PeriodTotal) []PeriodTotalResponse {
	items := make([]PeriodTotalResponse, 0, len(totals))
	for _, t := range totals {
		items = append(items, PeriodTotalResponse{PeriodStart: formatDate(t.PeriodStart), Sum: formatMoney(t.Sum)})
	}
	return items
}

type PeriodStatsResponse struct {
	Monthly   []PeriodTotalResponse `json:"monthly"`
	Quarterly []PeriodTotalResponse `json:"quarterly"`
}

type DailyTotalResponse struct {
	Date string `json:"date"`
	Sum  string `json:"sum"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
