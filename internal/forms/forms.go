// Package forms holds the typed request records shared by the admin
// dashboard and the API server, together with their validation rules.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/findora/findora/internal/model"
)

// FieldError describes one invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a form fails validation. No request is
// sent for a form that fails.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Message
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Field returns the message for the named field, or "".
func (e *ValidationError) Field(name string) string {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message
		}
	}
	return ""
}

// String returns a pointer to s, for filling optional form fields.
func String(s string) *string {
	return &s
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report field names as they appear on the wire.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		d, err := model.ParseDate(fl.Field().String())
		return err == nil && !d.IsZero()
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return model.ValidCategory(fl.Field().String())
	})
	_ = v.RegisterValidation("itemstatus", func(fl validator.FieldLevel) bool {
		return model.ValidItemStatus(fl.Field().String())
	})

	return v
}

// check runs the struct rules and converts failures into a ValidationError.
func check(form any, extra ...FieldError) error {
	fields := extra
	if err := validate.Struct(form); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return fmt.Errorf("validating form: %w", err)
		}
		for _, fe := range ve {
			fields = append(fields, toFieldError(fe))
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func toFieldError(e validator.FieldError) FieldError {
	field := e.Field()
	switch e.Tag() {
	case "required", "nonblank":
		return FieldError{Field: field, Message: "is required"}
	case "min":
		return FieldError{Field: field, Message: "must be at least " + e.Param() + " characters"}
	case "max":
		return FieldError{Field: field, Message: "must be at most " + e.Param() + " characters"}
	case "email":
		return FieldError{Field: field, Message: "must be a valid email address"}
	case "date":
		return FieldError{Field: field, Message: "must be a date (YYYY-MM-DD)"}
	case "category":
		return FieldError{Field: field, Message: "must be one of " + strings.Join(model.Categories, ", ")}
	case "itemstatus":
		return FieldError{Field: field, Message: "must be one of " + strings.Join(model.ItemStatuses, ", ")}
	default:
		return FieldError{Field: field, Message: e.Tag() + " validation failed"}
	}
}
