package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tuanvumaihuynh/sales-analytics/internal/model"
	"github.com/tuanvumaihuynh/sales-analytics/pkg/validator"
)

const (
	SalesSheet    = "Ventas"
	XLSXMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SalesHeader is the first row of the export.
var SalesHeader = []any{"Producto", "Cantidad", "Total", "Fecha"}

// ExportSalesXLSX writes one row per sale, in the given order, below the
// header row.
func ExportSalesXLSX(sales []model.Sale) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SalesSheet); err != nil {
		return nil, renderingFailed(fmt.Errorf("rename sheet: %w", err))
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return nil, renderingFailed(fmt.Errorf("create money style: %w", err))
	}
	dateFmt := "yyyy-mm-dd"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return nil, renderingFailed(fmt.Errorf("create date style: %w", err))
	}

	if err := f.SetSheetRow(SalesSheet, "A1", &SalesHeader); err != nil {
		return nil, renderingFailed(fmt.Errorf("write header: %w", err))
	}

	for i, s := range sales {
		row := i + 2
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, renderingFailed(err)
		}
		values := []any{s.ProductName, s.Quantity}
		if err := f.SetSheetRow(SalesSheet, cell, &values); err != nil {
			return nil, renderingFailed(fmt.Errorf("write row %d: %w", row, err))
		}
		// The decimal text goes into the cell as is, so no float rounding
		// reaches the stored number.
		if err := f.SetCellDefault(SalesSheet, fmt.Sprintf("C%d", row), s.Total.StringFixed(validator.DecimalPlaces)); err != nil {
			return nil, renderingFailed(fmt.Errorf("write total %d: %w", row, err))
		}
		if err := f.SetCellValue(SalesSheet, fmt.Sprintf("D%d", row), s.Date); err != nil {
			return nil, renderingFailed(fmt.Errorf("write date %d: %w", row, err))
		}
	}

	if len(sales) > 0 {
		last := len(sales) + 1
		if err := f.SetCellStyle(SalesSheet, "C2", fmt.Sprintf("C%d", last), moneyStyle); err != nil {
			return nil, renderingFailed(fmt.Errorf("style totals: %w", err))
		}
		if err := f.SetCellStyle(SalesSheet, "D2", fmt.Sprintf("D%d", last), dateStyle); err != nil {
			return nil, renderingFailed(fmt.Errorf("style dates: %w", err))
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, renderingFailed(fmt.Errorf("write workbook: %w", err))
	}

	return buf.Bytes(), nil
}
