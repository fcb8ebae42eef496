package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"careslot/pkg/logger"
	"careslot/pkg/model"
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
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type SpecialistValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewSpecialistValidator(log *logger.Logger) *SpecialistValidator {
	log.Info("Specialist validator initialized successfully")

	return &SpecialistValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *SpecialistValidator) Validate(specialist *model.Specialist) error {
	return v.check(specialist)
}

func (v *SpecialistValidator) ValidateUpdate(update *model.SpecialistUpdate) error {
	return v.check(update)
}

func (v *SpecialistValidator) ValidateClinic(clinic *model.Clinic) error {
	return v.check(clinic)
}

func (v *SpecialistValidator) ValidateReview(review *model.Review) error {
	return v.check(review)
}

func (v *SpecialistValidator) ValidateBankAccount(account *model.BankAccount) error {
	return v.check(account)
}

func (v *SpecialistValidator) ValidatePayout(payout *model.PayoutRequest) error {
	return v.check(payout)
}

func (v *SpecialistValidator) ValidatePayoutStatusUpdate(update *model.PayoutStatusUpdate) error {
	return v.check(update)
}

func (v *SpecialistValidator) check(value any) error {
	if err := v.validate.Struct(value); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *SpecialistValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +972501234567)", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
