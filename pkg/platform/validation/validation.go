// Package validation runs struct-tag validation and reports the first failure
// as a CodeValidation domain error named by the field's JSON key.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "onegov/pkg/domain-errors"
)

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// Struct validates v. what names the value in the fallback message.
func Struct(v any, what string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid "+what)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return dErrors.New(dErrors.CodeValidation, fe.Field()+" is required")
	case "oneof":
		return dErrors.New(dErrors.CodeValidation, fe.Field()+" must be one of "+fe.Param())
	case "gte", "lte", "max", "min", "len":
		return dErrors.New(dErrors.CodeValidation, fe.Field()+" is out of range")
	default:
		return dErrors.New(dErrors.CodeValidation, fe.Field()+" is invalid")
	}
}
