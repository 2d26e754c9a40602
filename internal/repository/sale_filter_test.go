package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/sales-analytics/internal/model"
	"github.com/tuanvumaihuynh/sales-analytics/pkg/ptr"
)

func TestBuildSaleFilter(t *testing.T) {
	t.Run("Should render nothing for an empty filter", func(t *testing.T) {
		where, args := buildSaleFilter(model.SaleFilter{})
		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("Should AND every present field", func(t *testing.T) {
		productID := uuid.New()
		where, args := buildSaleFilter(model.SaleFilter{
			ProductID: &productID,
			DateFrom:  ptr.New(time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)),
			MaxTotal:  ptr.New(decimal.RequireFromString("100.50")),
			Status:    ptr.New(model.SaleStatusCancelled),
		})

		assert.Equal(t,
			" WHERE s.product_id = @product_id AND s.sale_date >= @date_from AND s.total <= @max_total AND s.status = @status",
			where)
		assert.Equal(t, productID, args["product_id"])
		assert.Equal(t, "cancelled", args["status"])
		assert.Len(t, args, 4)
	})
}

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "59.97", "19.99", "-3.50", "99999999.99"} {
		d := decimal.RequireFromString(s)
		got, err := numericToDecimal(decimalToNumeric(d))
		assert.NoError(t, err)
		assert.True(t, d.Equal(got), "%s != %s", s, got)
	}
}
