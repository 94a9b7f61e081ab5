package validator

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

func (e *ErrorResponse) String() string {
	return fmt.Sprintf("field '%s' failed on tag '%s'", e.FailedField, e.Tag)
}

var validate = validator.New()

func init() {
	// Rejects NaN and +-Inf on float fields
	validate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		switch v := fl.Field().Interface().(type) {
		case float64:
			return !math.IsNaN(v) && !math.IsInf(v, 0)
		case float32:
			f := float64(v)
			return !math.IsNaN(f) && !math.IsInf(f, 0)
		}
		return true
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "", Tag: err.Error()}}
		}
		for _, err := range validationErrs {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}
