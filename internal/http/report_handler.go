package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/sales-analytics/internal/report"
)

func (h *handler) timelineChart(w http.ResponseWriter, r *http.Request) error {
	totals, err := h.Stats.SalesTimeline(r.Context())
	if err != nil {
		return fmt.Errorf("stats service sales timeline: %w", err)
	}

	return writeChart(w, func() ([]byte, error) { return report.RenderTimelinePNG(totals) })
}

func (h *handler) topProductsChart(w http.ResponseWriter, r *http.Request) error {
	products, err := h.Stats.TopProducts(r.Context())
	if err != nil {
		return fmt.Errorf("stats service top products: %w", err)
	}

	return writeChart(w, func() ([]byte, error) { return report.RenderTopProductsPNG(products) })
}

func writeChart(w http.ResponseWriter, render func() ([]byte, error)) error {
	png, err := render()
	if errors.Is(err, report.ErrNoData) {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}
	if err != nil {
		return err
	}

	w.Header().Set("Cache-Control", "no-store")
	return writeFile(w, report.PNGMediaType, "", png)
}

func (h *handler) exportSales(w http.ResponseWriter, r *http.Request) error {
	sales, err := h.Sale.ListSales(r.Context())
	if err != nil {
		return fmt.Errorf("sale service list sales: %w", err)
	}

	data, err := report.ExportSalesXLSX(sales)
	if err != nil {
		return err
	}

	return writeFile(w, report.XLSXMediaType, "ventas.xlsx", data)
}
