package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"careslot/pkg/logger"
	"careslot/pkg/model"
)

// Slot labels look like "09:00 AM" or "02:30 PM".
var slotLabelRegex = regexp.MustCompile(`^(0[1-9]|1[0-2]):[0-5][0-9] (AM|PM)$`)

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
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate        *validator.Validate
	logger          *logger.Logger
	maxDurationDays int
}

func NewBookingValidator(log *logger.Logger, maxDurationDays int) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("slot_label", validateSlotLabel); err != nil {
		log.Fatal("Failed to register 'slot_label' validator",
			"error", err,
		)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate:        v,
		logger:          log,
		maxDurationDays: maxDurationDays,
	}
}

func validateSlotLabel(fl validator.FieldLevel) bool {
	return slotLabelRegex.MatchString(fl.Field().String())
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if booking.DurationDays > v.maxDurationDays {
		return ValidationErrors{
			ValidationError{
				Field:   "DurationDays",
				Message: fmt.Sprintf("duration_days must be at most %d", v.maxDurationDays),
			},
		}
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if booking.Date.Before(today) {
		return ValidationErrors{
			ValidationError{
				Field:   "Date",
				Message: "date cannot be in the past",
			},
		}
	}

	if booking.PaymentMode == model.PaymentModePrepaid && booking.AmountPaid < booking.TotalPrice {
		return ValidationErrors{
			ValidationError{
				Field:   "AmountPaid",
				Message: "prepaid bookings must be paid in full",
			},
		}
	}

	return nil
}

func (v *BookingValidator) ValidateStatusUpdate(update *model.BookingStatusUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) ValidatePayment(payment *model.PaymentRequest) error {
	if err := v.validate.Struct(payment); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) ValidateLogUpdate(update *model.DailyLogUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "slot_label":
			message = fmt.Sprintf("%s must be a slot label like \"09:00 AM\"", err.Field())
		case "ltefield":
			message = fmt.Sprintf("%s must not exceed %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
