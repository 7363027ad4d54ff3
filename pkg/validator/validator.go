package validator

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Register installs the custom tags used by request structs on gin's
// validator engine. Safe to call more than once.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", validators.NotBlank)
	}
}

// FormatValidationError returns the message of the first failing field.
func FormatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		return getFieldErrorMessage(validationErrors[0])
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}

	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("Valid %s address is required", strings.ToLower(field))
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

var fieldMessages = map[string]string{
	"Name.notblank":        "Full name is required",
	"Name.required":        "Full name is required",
	"Email.required":       "Valid email address is required",
	"Email.notblank":       "Valid email address is required",
	"Email.email":          "Valid email address is required",
	"College.required":     "College name is required",
	"College.notblank":     "College name is required",
	"Event.required":       "Please select an event",
	"Event.notblank":       "Please select an event",
	"EventName.required":   "Event name is required",
	"EventName.notblank":   "Event name is required",
	"Description.required": "Event description is required",
	"Description.notblank": "Event description is required",
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Username":    "Username",
		"Password":    "Password",
		"Email":       "Email",
		"Name":        "Full name",
		"College":     "College name",
		"Event":       "Event",
		"EventName":   "Event name",
		"Description": "Event description",
		"ID":          "ID",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
