package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/sales-analytics/internal/apperr"
	"github.com/tuanvumaihuynh/sales-analytics/internal/model"
	"github.com/tuanvumaihuynh/sales-analytics/pkg/ptr"
	"github.com/tuanvumaihuynh/sales-analytics/pkg/validator"
)

// FormValue is a raw, user-supplied form value. It decodes from a JSON string,
// number or null so clients may send either representation.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("form value must be a string or number: %w", err)
		}
		*v = FormValue(n.String())
	}
	return nil
}

func (v FormValue) String() string {
	return strings.TrimSpace(string(v))
}

// validate runs v over form and wraps field failures in the validation error.
func validate(v validator.Validator, form any) error {
	if err := v.Validate(form); err != nil {
		if validator.IsValidationError(err) {
			return apperr.ValidationErr.WrapParent(err)
		}
		return fmt.Errorf("validate form: %w", err)
	}
	return nil
}

// ProductForm is the catalog entry form.
type ProductForm struct {
	Name  FormValue `json:"name" form:"name" validate:"required,max=100"`
	Price FormValue `json:"price" form:"price" validate:"required,money"`
}

type CreateProductParams struct {
	Name  string
	Price decimal.Decimal
}

func (f ProductForm) Parse(v validator.Validator) (CreateProductParams, error) {
	f.Name = FormValue(f.Name.String())
	if err := validate(v, f); err != nil {
		return CreateProductParams{}, err
	}

	return CreateProductParams{
		Name:  f.Name.String(),
		Price: decimal.RequireFromString(f.Price.String()),
	}, nil
}

// SaleForm is the sale entry form. Total is never accepted from the client.
type SaleForm struct {
	ProductID FormValue `json:"product_id" form:"product_id" validate:"required,uuid"`
	Quantity  FormValue `json:"quantity" form:"quantity" validate:"required,posint"`
	Date      FormValue `json:"date" form:"date" validate:"omitempty,date"`
	Status    FormValue `json:"status" form:"status" validate:"omitempty,oneof=completed pending cancelled"`
}

type RecordSaleParams struct {
	ProductID uuid.UUID
	Quantity  int
	Date      time.Time
	Status    model.SaleStatus
}

// Parse validates the form. A missing date defaults to today and a missing
// status to pending.
func (f SaleForm) Parse(v validator.Validator, today time.Time) (RecordSaleParams, error) {
	f = SaleForm{
		ProductID: FormValue(f.ProductID.String()),
		Quantity:  FormValue(f.Quantity.String()),
		Date:      FormValue(f.Date.String()),
		Status:    FormValue(strings.ToLower(f.Status.String())),
	}
	if err := validate(v, f); err != nil {
		return RecordSaleParams{}, err
	}

	params := RecordSaleParams{
		ProductID: uuid.MustParse(f.ProductID.String()),
		Date:      model.DateOnly(today),
	}
	params.Quantity, _ = strconv.Atoi(f.Quantity.String())
	if f.Date != "" {
		params.Date, _ = time.Parse(validator.DateLayout, f.Date.String())
	}

	status, err := model.ParseSaleStatus(f.Status.String())
	if err != nil {
		return RecordSaleParams{}, apperr.ValidationErr.WrapParent(err)
	}
	params.Status = status

	return params, nil
}

// SaleFilterForm carries the optional sale filter criteria. Empty fields
// impose no constraint.
type SaleFilterForm struct {
	ProductID FormValue `json:"product_id" form:"product_id" validate:"omitempty,uuid"`
	DateFrom  FormValue `json:"date_from" form:"date_from" validate:"omitempty,date"`
	DateTo    FormValue `json:"date_to" form:"date_to" validate:"omitempty,date"`
	MinTotal  FormValue `json:"min_total" form:"min_total" validate:"omitempty,decimal"`
	MaxTotal  FormValue `json:"max_total" form:"max_total" validate:"omitempty,decimal"`
	Status    FormValue `json:"status" form:"status" validate:"omitempty,oneof=completed pending cancelled"`
}

func (f SaleFilterForm) Parse(v validator.Validator) (model.SaleFilter, error) {
	f = SaleFilterForm{
		ProductID: FormValue(f.ProductID.String()),
		DateFrom:  FormValue(f.DateFrom.String()),
		DateTo:    FormValue(f.DateTo.String()),
		MinTotal:  FormValue(f.MinTotal.String()),
		MaxTotal:  FormValue(f.MaxTotal.String()),
		Status:    FormValue(strings.ToLower(f.Status.String())),
	}
	if err := validate(v, f); err != nil {
		return model.SaleFilter{}, err
	}

	var filter model.SaleFilter
	if f.ProductID != "" {
		filter.ProductID = ptr.New(uuid.MustParse(f.ProductID.String()))
	}
	if f.DateFrom != "" {
		d, _ := time.Parse(validator.DateLayout, f.DateFrom.String())
		filter.DateFrom = &d
	}
	if f.DateTo != "" {
		d, _ := time.Parse(validator.DateLayout, f.DateTo.String())
		filter.DateTo = &d
	}
	if f.MinTotal != "" {
		filter.MinTotal = ptr.New(decimal.RequireFromString(f.MinTotal.String()))
	}
	if f.MaxTotal != "" {
		filter.MaxTotal = ptr.New(decimal.RequireFromString(f.MaxTotal.String()))
	}
	if f.Status != "" {
		filter.Status = ptr.New(model.SaleStatus(f.Status))
	}

	return filter, nil
}
