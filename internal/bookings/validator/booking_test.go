package validator

import (
	"io"
	"strings"
	"testing"
	"time"

	"careslot/pkg/logger"
	"careslot/pkg/model"
)

func newTestValidator(t *testing.T) *BookingValidator {
	t.Helper()
	log := logger.New(logger.Config{Level: "error", Format: "text", Output: io.Discard})
	return NewBookingValidator(log, 30)
}

func validBooking() *model.Booking {
	return &model.Booking{
		SpecialistID: "507f1f77bcf86cd799439011",
		PatientID:    "507f1f77bcf86cd799439012",
		Date:         time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour),
		SlotTime:     "09:00 AM",
		DurationDays: 1,
		LocationType: model.LocationClinic,
		Status:       model.BookingStatusUpcoming,
		PaymentMode:  model.PaymentModePayLater,
		TotalPrice:   500,
		AmountPaid:   0,
	}
}

func TestValidate_ValidBooking(t *testing.T) {
	v := newTestValidator(t)

	if err := v.Validate(validBooking()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_SlotLabel(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name    string
		label   string
		wantErr bool
	}{
		{"morning slot", "09:00 AM", false},
		{"afternoon slot", "02:30 PM", false},
		{"noon", "12:00 PM", false},
		{"24-hour format", "14:00", true},
		{"zero hour", "00:30 AM", true},
		{"lowercase meridiem", "09:00 am", true},
		{"missing space", "09:00AM", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			b.SlotTime = tt.label

			err := v.Validate(b)
			if tt.wantErr && err == nil {
				t.Errorf("expected error for label %q, got nil", tt.label)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error for label %q, got %v", tt.label, err)
			}
		})
	}
}

func TestValidate_DurationCap(t *testing.T) {
	v := newTestValidator(t)

	b := validBooking()
	b.DurationDays = 31

	err := v.Validate(b)
	if err == nil {
		t.Fatal("expected error for duration above cap, got nil")
	}
	if !strings.Contains(err.Error(), "duration_days") {
		t.Errorf("expected duration_days in error, got %v", err)
	}

	b.DurationDays = 30
	if err := v.Validate(b); err != nil {
		t.Errorf("expected 30-day duration to pass, got %v", err)
	}
}

func TestValidate_PastDate(t *testing.T) {
	v := newTestValidator(t)

	b := validBooking()
	b.Date = time.Now().UTC().AddDate(0, 0, -1)

	if err := v.Validate(b); err == nil {
		t.Fatal("expected error for past date, got nil")
	}
}

func TestValidate_PrepaidMustBePaidInFull(t *testing.T) {
	v := newTestValidator(t)

	b := validBooking()
	b.PaymentMode = model.PaymentModePrepaid
	b.TotalPrice = 500
	b.AmountPaid = 200

	err := v.Validate(b)
	if err == nil {
		t.Fatal("expected error for partially paid prepaid booking, got nil")
	}

	b.AmountPaid = 500
	if err := v.Validate(b); err != nil {
		t.Errorf("expected fully paid prepaid booking to pass, got %v", err)
	}
}

func TestValidate_AmountPaidExceedsTotal(t *testing.T) {
	v := newTestValidator(t)

	b := validBooking()
	b.TotalPrice = 500
	b.AmountPaid = 600

	if err := v.Validate(b); err == nil {
		t.Fatal("expected error when amount_paid exceeds total_price, got nil")
	}
}

func TestValidateStatusUpdate(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		status  string
		wantErr bool
	}{
		{model.BookingStatusCompleted, false},
		{model.BookingStatusCancelled, false},
		{model.BookingStatusSkipped, false},
		{model.BookingStatusUpcoming, true},
		{"DONE", true},
		{"", true},
	}

	for _, tt := range tests {
		err := v.ValidateStatusUpdate(&model.BookingStatusUpdate{Status: tt.status})
		if tt.wantErr && err == nil {
			t.Errorf("status %q: expected error, got nil", tt.status)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("status %q: expected no error, got %v", tt.status, err)
		}
	}
}

func TestValidateLogUpdate(t *testing.T) {
	v := newTestValidator(t)

	if err := v.ValidateLogUpdate(&model.DailyLogUpdate{Status: model.DailyLogStatusDone}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if err := v.ValidateLogUpdate(&model.DailyLogUpdate{Status: "CANCELLED"}); err == nil {
		t.Error("expected error for invalid log status, got nil")
	}
}
