package apperr

import "github.com/tuanvumaihuynh/sales-analytics/pkg/zerror"

const (
	ValidationErrorCode    = "VALIDATION_FAILED"
	InvalidParamErrorCode  = "INVALID_PARAMETER"
	InvalidBodyErrorCode   = "INVALID_BODY"
	RouteNotFoundCode      = "ROUTE_NOT_FOUND"
	ProductNotFoundCode    = "PRODUCT_NOT_FOUND"
	RenderingFailedCode    = "RENDERING_FAILED"
	InvalidCredentialsCode = "INVALID_CREDENTIALS"
	UsernameTakenCode      = "USERNAME_TAKEN"
	InvalidTokenCode       = "INVALID_TOKEN"
	MissingCredentialsCode = "MISSING_CREDENTIALS"
	ThrottledCode          = "THROTTLED"
)

var (
	ValidationErr    = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	InvalidParamErr  = zerror.NewBadRequest(InvalidParamErrorCode, "invalid parameter")
	InvalidBodyErr   = zerror.NewBadRequest(InvalidBodyErrorCode, "malformed request body")
	RouteNotFoundErr = zerror.NewNotFound(RouteNotFoundCode, "route not found")

	ProductNotFoundErr = zerror.NewNotFound(ProductNotFoundCode, "product not found")

	// RenderingFailedErr is terminal for the request; renders are never retried.
	RenderingFailedErr = zerror.NewInternalServerError(RenderingFailedCode, "failed to render report")

	InvalidCredentialsErr = zerror.NewUnauthorized(InvalidCredentialsCode, "invalid username or password")
	UsernameTakenErr      = zerror.NewConflict(UsernameTakenCode, "username already exists")
	InvalidTokenErr       = zerror.NewUnauthorized(InvalidTokenCode, "invalid or expired token")
	MissingCredentialsErr = zerror.NewUnauthorized(MissingCredentialsCode, "missing bearer token")

	ThrottledErr = zerror.NewTooManyRequests(ThrottledCode, "request limit exceeded, retry later")
)
