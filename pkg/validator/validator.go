package validator

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	AlphaNumberSpaceRegex = regexp.MustCompile("^[a-zA-Z0-9 ]+$")
)

const (
	// MaxDecimalDigits and DecimalPlaces bound every monetary amount (NUMERIC(10,2)).
	MaxDecimalDigits = 10
	DecimalPlaces    = 2

	// MaxPositiveInt is the largest value of a Postgres INTEGER column.
	MaxPositiveInt = math.MaxInt32

	// DateLayout is the only accepted calendar date format.
	DateLayout = time.DateOnly
)

// Validator is a validator that validates the given struct.
type Validator interface {
	// Validate validates the given struct
	Validate(s any) error
}

type DefaultValidator struct {
	v *validator.Validate
}

// NewDefaultValidator creates a new default validator.
// It returns a new DefaultValidator and an error if the validator registration fails.
func NewDefaultValidator() (*DefaultValidator, error) {
	v := validator.New()

	// Report form field names rather than Go field names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	custom := map[string]validator.Func{
		"alphanumspace": validateAlphanumspace,
		"enum":          validateEnum,
		"decimal":       validateDecimal,
		"money":         validateMoney,
		"date":          validateDate,
		"posint":        validatePositiveInt,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("register %s validator: %w", tag, err)
		}
	}

	return &DefaultValidator{v: v}, nil
}

// MustNewDefaultValidator is NewDefaultValidator for package initialisation and tests.
func MustNewDefaultValidator() *DefaultValidator {
	v, err := NewDefaultValidator()
	if err != nil {
		panic(err)
	}
	return v
}

func (v DefaultValidator) Validate(s any) error {
	return v.v.Struct(s)
}

// FieldError rejects a single field for a reason struct tags cannot express,
// such as a value derived from several fields.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// IsValidationError checks if the given error is a validation error
func IsValidationError(err error) bool {
	_, ok := err.(validator.ValidationErrors)
	return ok
}

func ValidationErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "uuid", "uuid4", "uuid7":
		return "must be a valid UUID"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "number", "numeric":
		return "must be a whole number"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "alphanumspace":
		return "must contain only alphanumeric characters and spaces"
	case "ip":
		return "must be a valid IP address"
	case "enum":
		return fmt.Sprintf("invalid enum value: %v", fe.Value())
	case "decimal":
		return fmt.Sprintf("must be a decimal with at most %d digits and %d decimal places", MaxDecimalDigits, DecimalPlaces)
	case "money":
		return fmt.Sprintf("must be a non-negative decimal with at most %d digits and %d decimal places", MaxDecimalDigits, DecimalPlaces)
	case "date":
		return "must be a valid date (YYYY-MM-DD)"
	case "posint":
		return fmt.Sprintf("must be a whole number between 1 and %d", MaxPositiveInt)
	case "sort":
		return fmt.Sprintf("must contain only allowed sort fields: [%s]", fe.Param())
	default:
		return "is invalid"
	}
}

// DecimalFits reports whether d can be stored with at most maxDigits significant
// digits of which at most places are fractional, counting digits as written.
func DecimalFits(d decimal.Decimal, maxDigits, places int) bool {
	coef := d.Coefficient()
	digits := len(coef.Abs(coef).String())
	exp := int(d.Exponent())

	var total, fractional int
	switch {
	case exp >= 0:
		total = digits + exp
	case -exp > digits:
		total, fractional = -exp, -exp
	default:
		total, fractional = digits, -exp
	}

	return total <= maxDigits && fractional <= places
}

func validateAlphanumspace(fl validator.FieldLevel) bool {
	return AlphaNumberSpaceRegex.MatchString(fl.Field().String())
}

func validateEnum(fl validator.FieldLevel) bool {
	type Enum interface {
		Validate() error
	}

	value, ok := fl.Field().Interface().(Enum)
	if !ok {
		return false
	}

	return value.Validate() == nil
}

func parseDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, DecimalFits(d, MaxDecimalDigits, DecimalPlaces)
}

func validateDecimal(fl validator.FieldLevel) bool {
	_, ok := parseDecimal(fl)
	return ok
}

func validateMoney(fl validator.FieldLevel) bool {
	d, ok := parseDecimal(fl)
	return ok && !d.IsNegative()
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, strings.TrimSpace(fl.Field().String()))
	return err == nil
}

func validatePositiveInt(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
	return err == nil && n >= 1 && n <= MaxPositiveInt
}
