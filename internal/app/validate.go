package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var errInvalidDuration = errors.New("check-out must be after check-in")

// CreateBookingInput is the guest-submitted stay request.
type CreateBookingInput struct {
	RoomIDs    []string  `json:"room_ids" validate:"required,min=1,dive,required"`
	GuestName  string    `json:"guest_name" validate:"required,min=2,max=100"`
	GuestPhone string    `json:"guest_phone" validate:"omitempty,e164"`
	GuestEmail string    `json:"guest_email" validate:"required,email"`
	CheckIn    time.Time `json:"check_in" validate:"required"`
	CheckOut   time.Time `json:"check_out" validate:"required"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, err := range v {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed: [%s]", strings.Join(msgs, "; "))
}

// BookingValidator wraps a validator.Validate with booking date rules the
// struct tags cannot express.
type BookingValidator struct {
	validate *validator.Validate
}

func NewBookingValidator() *BookingValidator {
	return &BookingValidator{validate: validator.New()}
}

func (v *BookingValidator) Validate(in CreateBookingInput) error {
	if err := v.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return translate(verrs)
		}
		return err
	}
	if Nights(in.CheckIn, in.CheckOut) <= 0 {
		return ValidationErrors{{Field: "CheckOut", Message: errInvalidDuration.Error()}}
	}
	return nil
}

func translate(errs validator.ValidationErrors) ValidationErrors {
	var out ValidationErrors
	for _, err := range errs {
		message := err.Error()
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must have at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +14155550100)", err.Field())
		}
		out = append(out, ValidationError{Field: err.Field(), Message: message})
	}
	return out
}

// IsValidation reports whether err carries guest-input validation failures,
// as opposed to storage or notification trouble.
func IsValidation(err error) bool {
	var verrs ValidationErrors
	return errors.As(err, &verrs)
}
