package models

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// NewValidator reports field errors under their json names. The notblank tag
// rejects strings made only of whitespace.
func NewValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation(`notblank`, validators.NotBlank); err != nil {
		panic(err)
	}
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get(`json`), `,`, 2)[0]
		if name == `-` {
			return ``
		}
		return name
	})

	return validate
}

// FieldErrors flattens validator errors into json field name → failed tag.
func FieldErrors(err error) map[string]string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		name := fe.Field()
		if key := strings.SplitN(fe.Namespace(), `.`, 2); len(key) == 2 {
			name = key[1]
		}
		fields[name] = fe.Tag()
	}

	return fields
}
