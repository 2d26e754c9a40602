package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/sales-analytics/internal/apperr"
	"github.com/tuanvumaihuynh/sales-analytics/internal/service"
)

func (h *handler) listProducts(w http.ResponseWriter, r *http.Request) error {
	products, err := h.Product.ListAllProducts(r.Context())
	if err != nil {
		return fmt.Errorf("product service list all products: %w", err)
	}

	items := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		items = append(items, newProductResponse(product))
	}

	return writeJSON(w, http.StatusOK, items)
}

func (h *handler) createProduct(w http.ResponseWriter, r *http.Request) error {
	var form service.ProductForm
	if err := decodeJSON(w, r, &form); err != nil {
		return err
	}

	product, err := h.Product.CreateProduct(r.Context(), form)
	if err != nil {
		return fmt.Errorf("product service create product: %w", err)
	}

	return writeJSON(w, http.StatusCreated, newProductResponse(product))
}

func (h *handler) getProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productIDParam(r)
	if err != nil {
		return err
	}

	product, err := h.Product.GetProduct(r.Context(), id)
	if err != nil {
		return fmt.Errorf("product service get product: %w", err)
	}

	return writeJSON(w, http.StatusOK, newProductResponse(product))
}

func (h *handler) deleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productIDParam(r)
	if err != nil {
		return err
	}

	if err := h.Product.DeleteProduct(r.Context(), id); err != nil {
		return fmt.Errorf("product service delete product: %w", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func productIDParam(r *http.Request) (uuid.UUID, error) {
	var id uuid.UUID
	if err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	}); err != nil {
		return uuid.UUID{}, apperr.InvalidParamErr.WrapParent(err)
	}
	return id, nil
}
