package http

import (
	"reflect"
	"regexp"

	"loan-registry/pkg/amount"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

var (
	reAsset   = regexp.MustCompile(`^[A-Za-z0-9]{1,16}$`)
	reAccount = regexp.MustCompile(`^[A-Za-z0-9._@-]{1,64}$`)
)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// decimals are validated through their string form
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	// asset code, e.g. GNT / DGD
	_ = v.RegisterValidation("asset", func(fl validator.FieldLevel) bool {
		return reAsset.MatchString(fl.Field().String())
	})
	// opaque account handle
	_ = v.RegisterValidation("account", func(fl validator.FieldLevel) bool {
		return reAccount.MatchString(fl.Field().String())
	})
	// strictly positive decimal that fits a balance column
	_ = v.RegisterValidation("dpos", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.IsPositive() && amount.Fits(d)
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "asset":
			out = append(out, FieldError{Field: field, Message: "must be 1-16 alphanumeric characters"})
		case "account":
			out = append(out, FieldError{Field: field, Message: "must be a valid account handle"})
		case "dpos":
			out = append(out, FieldError{Field: field, Message: "must be a positive decimal amount with at most 18 integer digits and 18 decimal places"})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		case "len":
			out = append(out, FieldError{Field: field, Message: "must be " + e.Param() + " characters long"})
		case "hexadecimal":
			out = append(out, FieldError{Field: field, Message: "must be hexadecimal"})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
