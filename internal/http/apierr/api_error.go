package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/tuanvumaihuynh/sales-analytics/internal/apperr"
	"github.com/tuanvumaihuynh/sales-analytics/pkg/validator"
	"github.com/tuanvumaihuynh/sales-analytics/pkg/zerror"
)

// FieldError describes why a single input field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the error response for the API.
type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details *[]FieldError `json:"details,omitempty"`

	// StatusCode is the status code for the error response.
	StatusCode int `json:"-"`
}

func New(err error) ErrorResponse {
	return errorToErrorResponse(err)
}

var InternalServerErr = ErrorResponse{
	Code:       "INTERNAL_SERVER_ERROR",
	Message:    "an unknown error occurred",
	StatusCode: http.StatusInternalServerError,
}

// Write encodes res as the JSON body of an error response.
func Write(w http.ResponseWriter, res ErrorResponse) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)
	return json.NewEncoder(w).Encode(res)
}

func errorToErrorResponse(err error) ErrorResponse {
	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		res := ErrorResponse{
			Code:       zErr.Code(),
			Message:    zErr.Msg(),
			StatusCode: ZErrorStatusToHTTPStatus(zErr.Status()),
		}

		var (
			validationErrs govalidator.ValidationErrors
			fieldErr       validator.FieldError
		)
		switch {
		case errors.As(zErr.Parent(), &validationErrs):
			res.Details = fieldErrors(validationErrs)
		case errors.As(zErr.Parent(), &fieldErr):
			res.Details = &[]FieldError{{Field: fieldErr.Field, Message: fieldErr.Message}}
		}

		return res
	}

	var validationErrs govalidator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return ErrorResponse{
			Code:       apperr.ValidationErrorCode,
			Message:    apperr.ValidationErr.Msg(),
			Details:    fieldErrors(validationErrs),
			StatusCode: ZErrorStatusToHTTPStatus(apperr.ValidationErr.Status()),
		}
	}

	return InternalServerErr
}

func fieldErrors(validationErrs govalidator.ValidationErrors) *[]FieldError {
	details := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		details[i] = FieldError{
			Field:   fe.Field(),
			Message: validator.ValidationErrorMessage(fe),
		}
	}
	return &details
}

func ZErrorStatusToHTTPStatus(status zerror.Status) int {
	switch status {
	case zerror.StatusUnauthorized:
		return http.StatusUnauthorized
	case zerror.StatusForbidden:
		return http.StatusForbidden
	case zerror.StatusNotFound:
		return http.StatusNotFound
	case zerror.StatusUnprocessableEntity:
		return http.StatusUnprocessableEntity
	case zerror.StatusConflict:
		return http.StatusConflict
	case zerror.StatusTooManyRequests:
		return http.StatusTooManyRequests
	case zerror.StatusBadRequest:
		return http.StatusBadRequest
	case zerror.StatusValidationFailed:
		return http.StatusBadRequest
	case zerror.StatusUnknown, zerror.StatusInternalServerError:
		return http.StatusInternalServerError
	case zerror.StatusTimeout:
		return http.StatusGatewayTimeout
	case zerror.StatusNotImplemented:
		return http.StatusNotImplemented
	case zerror.StatusBadGateway:
		return http.StatusBadGateway
	case zerror.StatusServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
