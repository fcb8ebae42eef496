package model

import (
	"time"
)

const (
	BookingStatusUpcoming  = "UPCOMING"
	BookingStatusCompleted = "COMPLETED"
	BookingStatusCancelled = "CANCELLED"
	BookingStatusSkipped   = "SKIPPED"

	LocationClinic = "CLINIC"
	LocationHome   = "HOME"
	LocationVideo  = "VIDEO"

	PaymentModePrepaid  = "PREPAID"
	PaymentModePayLater = "PAY_LATER"
)

// Booking reserves a slot-time label on a calendar date. A duration of more
// than one day is a course booking: it holds the same label on every
// consecutive day of the course.
type Booking struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SpecialistID string    `json:"specialist_id" bson:"specialist_id" validate:"required,mongodb"`
	PatientID    string    `json:"patient_id" bson:"patient_id" validate:"required,mongodb"`
	Date         time.Time `json:"date" bson:"date" validate:"required"`
	SlotTime     string    `json:"slot_time" bson:"slot_time" validate:"required,slot_label"`
	DurationDays int       `json:"duration_days" bson:"duration_days" validate:"required,min=1"`
	LocationType string    `json:"location_type" bson:"location_type" validate:"required,oneof=CLINIC HOME VIDEO"`
	Status       string    `json:"status" bson:"status" validate:"required,oneof=UPCOMING COMPLETED CANCELLED SKIPPED"`
	PaymentMode  string    `json:"payment_mode" bson:"payment_mode" validate:"required,oneof=PREPAID PAY_LATER"`
	TotalPrice   int64     `json:"total_price" bson:"total_price" validate:"min=0"`
	AmountPaid   int64     `json:"amount_paid" bson:"amount_paid" validate:"min=0,ltefield=TotalPrice"`
	Notes        string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// EndDate is the first day after the course; the slot is free again from
// this date onward.
func (b *Booking) EndDate() time.Time {
	return b.Date.AddDate(0, 0, b.DurationDays)
}

func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCancelled || b.Status == BookingStatusSkipped
}

type BookingStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=COMPLETED CANCELLED SKIPPED"`
}

type PaymentRequest struct {
	Amount int64 `json:"amount" validate:"required,min=1"`
}

// Availability is the advisory busy-set for one specialist and date. The
// authoritative conflict check happens inside the booking transaction.
type Availability struct {
	SpecialistID string    `json:"specialist_id"`
	Date         time.Time `json:"date"`
	BusySlots    []string  `json:"busy_slots"`
}
