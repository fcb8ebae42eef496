package model

import "time"

const (
	DailyLogStatusPending = "PENDING"
	DailyLogStatusDone    = "DONE"
	DailyLogStatusMissed  = "MISSED"
)

// DailyLog tracks one day of a course booking. The full set is inserted in
// the same transaction as its booking.
type DailyLog struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BookingID string    `json:"booking_id" bson:"booking_id" validate:"required,mongodb"`
	Date      time.Time `json:"date" bson:"date" validate:"required"`
	Status    string    `json:"status" bson:"status" validate:"required,oneof=PENDING DONE MISSED"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type DailyLogUpdate struct {
	Status string `json:"status,omitempty" validate:"omitempty,oneof=PENDING DONE MISSED"`
	Notes  string `json:"notes,omitempty" validate:"omitempty,max=500"`
}
