package http

import (
	"fmt"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/sales-analytics/internal/apperr"
	"github.com/tuanvumaihuynh/sales-analytics/internal/model"
	"github.com/tuanvumaihuynh/sales-analytics/internal/service"
)

func (h *handler) listSales(w http.ResponseWriter, r *http.Request) error {
	var page string
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		return apperr.InvalidParamErr.WrapParent(err)
	}

	sales, err := h.Sale.ListSales(r.Context())
	if err != nil {
		return fmt.Errorf("sale service list sales: %w", err)
	}

	return writeJSON(w, http.StatusOK, newSalePageResponse(model.Paginate(sales, page, h.pageSize)))
}

func (h *handler) recordSale(w http.ResponseWriter, r *http.Request) error {
	var form service.SaleForm
	if err := decodeJSON(w, r, &form); err != nil {
		return err
	}

	sale, err := h.Sale.RecordSale(r.Context(), form)
	if err != nil {
		return fmt.Errorf("sale service record sale: %w", err)
	}

	return writeJSON(w, http.StatusCreated, newSaleResponse(sale))
}

func (h *handler) filterSales(w http.ResponseWriter, r *http.Request) error {
	var form service.SaleFilterForm
	query := r.URL.Query()
	for name, dst := range map[string]*service.FormValue{
		"product_id": &form.ProductID,
		"date_from":  &form.DateFrom,
		"date_to":    &form.DateTo,
		"min_total":  &form.MinTotal,
		"max_total":  &form.MaxTotal,
		"status":     &form.Status,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dst); err != nil {
			return apperr.InvalidParamErr.WrapParent(err)
		}
	}

	filter, err := form.Parse(h.validator)
	if err != nil {
		return err
	}

	res, err := h.Sale.FilterSales(r.Context(), filter)
	if err != nil {
		return fmt.Errorf("sale service filter sales: %w", err)
	}

	return writeJSON(w, http.StatusOK, FilteredSalesResponse{
		Sales: newSaleResponses(res.Sales),
		Total: formatMoney(res.Total),
	})
}
