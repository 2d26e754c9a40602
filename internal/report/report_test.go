package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tuanvumaihuynh/sales-analytics/internal/apperr"
	"github.com/tuanvumaihuynh/sales-analytics/internal/model"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestExportSalesXLSX(t *testing.T) {
	sales := []model.Sale{
		{ProductName: "Widget", Quantity: 3, Total: decimal.RequireFromString("59.97"), Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{ProductName: "Gadget", Quantity: 1, Total: decimal.RequireFromString("5.50"), Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	data, err := ExportSalesXLSX(sales)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SalesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Producto", "Cantidad", "Total", "Fecha"}, rows[0])
	assert.Equal(t, "Widget", rows[1][0])
	assert.Equal(t, "3", rows[1][1])
	assert.Equal(t, "59.97", rows[1][2])
	assert.Equal(t, "2024-01-05", rows[1][3])
	assert.Equal(t, "Gadget", rows[2][0])

	raw, err := f.GetCellValue(SalesSheet, "C3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "5.50", raw)

	cellType, err := f.GetCellType(SalesSheet, "C3")
	require.NoError(t, err)
	assert.Equal(t, excelize.CellTypeUnset, cellType, "totals must be numeric cells")
}

func TestExportSalesXLSXEmpty(t *testing.T) {
	data, err := ExportSalesXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SalesSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRenderTimelinePNG(t *testing.T) {
	t.Run("Should render several dates", func(t *testing.T) {
		data, err := RenderTimelinePNG([]model.DailyTotal{
			{Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Sum: decimal.NewFromInt(100)},
			{Date: time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC), Sum: decimal.NewFromInt(50)},
		})
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, pngMagic))
	})

	t.Run("Should render a single date", func(t *testing.T) {
		data, err := RenderTimelinePNG([]model.DailyTotal{
			{Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Sum: decimal.NewFromInt(100)},
		})
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, pngMagic))
	})

	t.Run("Should report missing data", func(t *testing.T) {
		_, err := RenderTimelinePNG(nil)
		assert.ErrorIs(t, err, ErrNoData)
	})
}

func TestRenderTopProductsPNG(t *testing.T) {
	data, err := RenderTopProductsPNG([]model.ProductQuantity{
		{ProductName: "A", Quantity: 8},
		{ProductName: "B", Quantity: 2},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))

	_, err = RenderTopProductsPNG(nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRenderingFailed(t *testing.T) {
	err := renderingFailed(assert.AnError)

	assert.Contains(t, err.Error(), apperr.RenderingFailedCode)
	assert.Contains(t, err.Error(), assert.AnError.Error())
}
