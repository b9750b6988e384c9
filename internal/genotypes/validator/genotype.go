package validator

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"snpr/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, e := range v {
		details[e.Field] = e.Message
	}
	return details
}

type GenotypeValidator struct {
	validate *validator.Validate
}

func NewGenotypeValidator() *GenotypeValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("genotype_filetype", validateFiletype); err != nil {
		panic(fmt.Sprintf("failed to register genotype_filetype validator: %v", err))
	}

	return &GenotypeValidator{
		validate: v,
	}
}

func validateFiletype(fl validator.FieldLevel) bool {
	return slices.Contains(model.Filetypes, fl.Field().String())
}

func (v *GenotypeValidator) Validate(g *model.Genotype) error {
	if err := v.validate.Struct(g); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	validationErrors := make(ValidationErrors, 0, len(errs))

	for _, err := range errs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message(err),
		})
	}

	return validationErrors
}

func message(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", err.Param())
	case "mongodb":
		return "must be a valid ID"
	case "genotype_filetype":
		return "must be one of " + strings.Join(model.Filetypes, ", ")
	case "oneof":
		return "must be one of " + err.Param()
	default:
		return fmt.Sprintf("failed %q validation", err.Tag())
	}
}
