package validator

import (
	"fmt"
	"log"
	"reflect"
	"regexp"
	"strings"

	"gymflow-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-()]{5,19}$`)

// Validator wraps go-playground/validator and reports failures with json field names.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("phone", validatePhone); err != nil {
		log.Fatalf("failed to register validation tag 'phone': %v", err)
	}

	return &Validator{validate: v}
}

// Validate returns nil or an *apperror.AppError carrying a field -> message map.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		fields[fe.Field()] = message(fe)
	}
	return apperror.Validation(fields)
}

func validatePhone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return phonePattern.MatchString(value)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "phone":
		return "Must be a valid phone number"
	case "min":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Must be at least %s items/characters long", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "uuid":
		return "Must be a valid id"
	default:
		return fmt.Sprintf("Invalid value (failed on '%s' tag)", fe.Tag())
	}
}
