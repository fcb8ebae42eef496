package model

import "time"

// Slot is a doctor-controlled manual availability override, independent of
// any patient booking. A block with IsBooked=true makes the label busy.
type Slot struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SpecialistID string    `json:"specialist_id" bson:"specialist_id" validate:"required,mongodb"`
	Date         time.Time `json:"date" bson:"date" validate:"required"`
	StartTime    string    `json:"start_time" bson:"start_time" validate:"required,slot_label"`
	IsBooked     bool      `json:"is_booked" bson:"is_booked"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
