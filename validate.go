package checkoutkit

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	currencyPattern = regexp.MustCompile(`^[a-z]{3}$`)
	validate        = newValidator()
)

// Validate checks the card details locally before they ever leave the device:
// go-playground/validator rules plus the Luhn checksum and expiry constraints.
func (c CardDetails) Validate() error {
	if err := validate.Struct(c); err != nil {
		return normalizeValidationError(err, InvalidCard)
	}
	return nil
}

// Validate ensures the Doku bank-transfer form is complete and chargeable.
func (d DokuTransferDetails) Validate() error {
	if err := validate.Struct(d); err != nil {
		return normalizeValidationError(err, ErrorCode(InvalidRequest))
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.Split(field.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	if err := v.RegisterValidation("luhn", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return luhnValid(value)
	}); err != nil {
		panic(err)
	}

	if err := v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return currencyPattern.MatchString(value)
	}); err != nil {
		panic(err)
	}

	v.RegisterStructValidation(cardDetailsStructLevel, CardDetails{})

	return v
}

// cardDetailsStructLevel enforces the cross-field expiry constraint: the card
// must not already be expired at validation time.
func cardDetailsStructLevel(sl validator.StructLevel) {
	card := sl.Current().Interface().(CardDetails)
	month, err := strconv.Atoi(card.ExpMonth)
	if err != nil || month < 1 || month > 12 {
		sl.ReportError(card.ExpMonth, "exp_month", "ExpMonth", "expmonth", "")
		return
	}
	year, err := strconv.Atoi(card.ExpYear)
	if err != nil {
		return // caught by the numeric tag
	}
	// A card is valid through the last day of its expiry month.
	expiry := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	if !time.Now().UTC().Before(expiry) {
		sl.ReportError(card.ExpYear, "exp_year", "ExpYear", "expired", "")
	}
}

// luhnValid reports whether the digit string passes the Luhn checksum.
func luhnValid(number string) bool {
	if number == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := number[i]
		if d < '0' || d > '9' {
			return false
		}
		n := int(d - '0')
		if double {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		double = !double
	}
	return sum%10 == 0
}

func normalizeValidationError(err error, code ErrorCode) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	first := validationErrs[0]
	fieldPath := jsonPath(first)
	message := validationMessage(first)
	return newError(InvalidRequest, code, fmt.Sprintf("%s %s", fieldPath, message), WithOffendingParam(fieldPath))
}

func jsonPath(fe validator.FieldError) string {
	path := fe.Namespace()
	if idx := strings.Index(path, "."); idx >= 0 {
		path = path[idx+1:]
	}
	if path == "" {
		return fe.Field()
	}
	return path
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("cannot exceed %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "numeric":
		return "must contain digits only"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "luhn":
		return "failed the card number checksum"
	case "expmonth":
		return "must be between 01 and 12"
	case "expired":
		return "is in the past"
	case "currency":
		return "must be a lowercase 3-letter ISO-4217 code"
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
