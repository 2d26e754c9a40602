package service

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/sales-analytics/internal/model"
	"github.com/tuanvumaihuynh/sales-analytics/pkg/validator"
)

func TestFormValue(t *testing.T) {
	var form SaleForm
	err := json.Unmarshal([]byte(`{"product_id":"abc","quantity":3,"date":null}`), &form)
	require.NoError(t, err)

	assert.Equal(t, FormValue("abc"), form.ProductID)
	assert.Equal(t, FormValue("3"), form.Quantity)
	assert.Empty(t, form.Date)

	err = json.Unmarshal([]byte(`{"quantity":true}`), &form)
	assert.Error(t, err)
}

func TestProductForm(t *testing.T) {
	v := validator.MustNewDefaultValidator()

	t.Run("Should accept a valid price", func(t *testing.T) {
		params, err := ProductForm{Name: "  Widget ", Price: "19.99"}.Parse(v)
		require.NoError(t, err)
		assert.Equal(t, "Widget", params.Name)
		assert.True(t, decimal.RequireFromString("19.99").Equal(params.Price))
	})

	for name, price := range map[string]FormValue{
		"negative":          "-1.00",
		"too many decimals": "1.999",
		"too many digits":   "123456789.00",
		"not a number":      "abc",
		"missing":           "",
	} {
		t.Run("Should reject a "+name+" price", func(t *testing.T) {
			_, err := ProductForm{Name: "Widget", Price: price}.Parse(v)
			assert.True(t, isValidation(err), err)
		})
	}

	t.Run("Should reject a blank name", func(t *testing.T) {
		_, err := ProductForm{Name: "   ", Price: "1"}.Parse(v)
		assert.True(t, isValidation(err), err)
	})
}

func TestSaleFilterForm(t *testing.T) {
	v := validator.MustNewDefaultValidator()

	t.Run("Should leave absent fields unconstrained", func(t *testing.T) {
		filter, err := SaleFilterForm{}.Parse(v)
		require.NoError(t, err)
		assert.True(t, filter.IsEmpty())
	})

	t.Run("Should parse every field", func(t *testing.T) {
		filter, err := SaleFilterForm{
			ProductID: "0190a5c4-0000-7000-8000-000000000000",
			DateFrom:  "2024-01-01",
			DateTo:    "2024-03-31",
			MinTotal:  "10",
			MaxTotal:  "99.50",
			Status:    "PENDING",
		}.Parse(v)
		require.NoError(t, err)

		require.NotNil(t, filter.ProductID)
		require.NotNil(t, filter.DateFrom)
		require.NotNil(t, filter.DateTo)
		assert.Equal(t, "2024-03-31", filter.DateTo.Format(validator.DateLayout))
		assert.True(t, decimal.NewFromInt(10).Equal(*filter.MinTotal))
		assert.True(t, decimal.RequireFromString("99.5").Equal(*filter.MaxTotal))
		assert.Equal(t, model.SaleStatusPending, *filter.Status)
	})

	t.Run("Should reject malformed values", func(t *testing.T) {
		for _, form := range []SaleFilterForm{
			{DateFrom: "01/02/2024"},
			{MinTotal: "ten"},
			{Status: "lost"},
			{ProductID: "42"},
		} {
			_, err := form.Parse(v)
			assert.True(t, isValidation(err), "%+v", form)
		}
	})
}
