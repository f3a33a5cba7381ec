package checkout

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidForm is wrapped by every ValidationError.
var ErrInvalidForm = errors.New("invalid checkout form")

// Form is the shopper-supplied part of an order.
type Form struct {
	Zone    string `json:"zone" validate:"required,zone"`
	Payment string `json:"payment" validate:"omitempty,payment"`
	Name    string `json:"name" validate:"required,max=200"`
	Phone   string `json:"phone" validate:"required,max=32"`
	Address string `json:"address" validate:"required,max=1000"`
	Notes   string `json:"notes,omitempty" validate:"max=2000"`
	TrxID   string `json:"trx_id,omitempty" validate:"max=64"`
	Sender  string `json:"sender_number,omitempty" validate:"max=32"`
}

// FieldError describes one invalid form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every problem found in a form.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return ErrInvalidForm.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidForm
}

var (
	validate *validator.Validate
	once     sync.Once
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report json names so API clients see the keys they sent.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return strings.ToLower(fld.Name)
			}
			return name
		})

		_ = validate.RegisterValidation("zone", func(fl validator.FieldLevel) bool {
			_, err := domain.ParseZone(fl.Field().String())
			return err == nil
		})
		_ = validate.RegisterValidation("payment", func(fl validator.FieldLevel) bool {
			_, err := domain.ParsePaymentMethod(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// Normalize sanitizes every free-text field and validates the result.
// A blank zone means inside Dhaka and a blank payment method means COD.
// It returns the cleaned form, or a *ValidationError.
func (f Form) Normalize() (Form, error) {
	var problems []FieldError

	fields := []struct {
		name string
		ptr  *string
	}{
		{"zone", &f.Zone},
		{"payment", &f.Payment},
		{"name", &f.Name},
		{"phone", &f.Phone},
		{"address", &f.Address},
		{"notes", &f.Notes},
		{"trx_id", &f.TrxID},
		{"sender_number", &f.Sender},
	}
	for _, fld := range fields {
		clean, err := SanitizeInput(*fld.ptr)
		if err != nil {
			problems = append(problems, FieldError{Field: fld.name, Message: err.Error()})
			*fld.ptr = ""
			continue
		}
		*fld.ptr = clean
	}

	if f.Zone == "" && !hasField(problems, "zone") {
		f.Zone = string(domain.ZoneInside)
	}

	if err := getValidator().Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return f, err
		}
		for _, e := range verrs {
			if hasField(problems, e.Field()) {
				continue
			}
			problems = append(problems, FieldError{Field: e.Field(), Message: formatValidationError(e)})
		}
	}

	if len(problems) > 0 {
		return f, &ValidationError{Fields: problems}
	}
	return f, nil
}

func hasField(problems []FieldError, field string) bool {
	for _, p := range problems {
		if p.Field == field {
			return true
		}
	}
	return false
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "zone":
		return "must be one of: inside outside"
	case "payment":
		return "must be one of: bKash Nagad COD"
	default:
		return "is invalid"
	}
}
