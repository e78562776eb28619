package secret

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/orgvault/orgvault/internal/common"
)

var (
	cardNumberRe = regexp.MustCompile(`^\d{13,19}$`)
	expDateRe    = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe        = regexp.MustCompile(`^\d{3,4}$`)
)

// fieldMessages maps a failed json field to the message surfaced to callers.
// Values are never included.
var fieldMessages = map[string]string{
	"url":            "Invalid URL",
	"username":       "Username is required",
	"password":       "Password is required",
	"cardNumber":     "Invalid card number",
	"expirationDate": "Invalid expiration date (MM/YY)",
	"cvv":            "Invalid CVV",
	"content":        "Content is required",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report failures under json field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "cardnumber", cardNumberRe)
	mustRegister(v, "expdate", expDateRe)
	mustRegister(v, "cvv", cvvRe)

	return v
}

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// Validate checks every field constraint of the given variant. It is pure
// and total: either nil is returned, or a *common.ValidationError listing
// every failing field. A nil or unrecognized variant yields
// common.ErrUnsupportedType.
func Validate(v Variant) error {
	if v == nil {
		return common.ErrUnsupportedType
	}
	switch v.(type) {
	case WebLogin, CreditCard, SecureNote:
	default:
		return fmt.Errorf("%w: %T", common.ErrUnsupportedType, v)
	}

	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validating variant: %w", err)
	}

	fields := make([]common.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = fmt.Sprintf("Invalid %s", fe.Field())
		}
		fields = append(fields, common.FieldError{Field: fe.Field(), Message: msg})
	}

	return common.NewValidationError(fields...)
}
