package event

import "github.com/shopspring/decimal"

const (
	TopicSaleRecorded   = "sale.recorded"
	TopicProductCreated = "product.created"
	TopicProductDeleted = "product.deleted"
)

type SaleRecordedEvent struct {
	SaleID    string          `json:"sale_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Date      string          `json:"date"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
}

type ProductCreatedEvent struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

type ProductDeletedEvent struct {
	ProductID string `json:"product_id"`
}
