package model

import "time"

// Specialist is a service-providing doctor/therapist profile, distinct from
// its login account (authentication is issued elsewhere).
type Specialist struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Specialty   string    `json:"specialty" bson:"specialty" validate:"required,min=2,max=100"`
	Phone       string    `json:"phone" bson:"phone" validate:"required,e164"`
	Bio         string    `json:"bio,omitempty" bson:"bio,omitempty" validate:"omitempty,max=1000"`
	City        string    `json:"city" bson:"city" validate:"required,min=2,max=50"`
	ClinicPrice int64     `json:"clinic_price" bson:"clinic_price" validate:"required,min=1"`
	HomePrice   int64     `json:"home_price" bson:"home_price" validate:"required,min=1"`
	VideoPrice  int64     `json:"video_price" bson:"video_price" validate:"required,min=1"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// PriceFor returns the price for a booking location type, or 0 for an
// unknown type (callers validate the type beforehand).
func (s *Specialist) PriceFor(locationType string) int64 {
	switch locationType {
	case LocationClinic:
		return s.ClinicPrice
	case LocationHome:
		return s.HomePrice
	case LocationVideo:
		return s.VideoPrice
	}
	return 0
}

type SpecialistUpdate struct {
	Name        string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Specialty   string `json:"specialty,omitempty" validate:"omitempty,min=2,max=100"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,e164"`
	Bio         string `json:"bio,omitempty" validate:"omitempty,max=1000"`
	City        string `json:"city,omitempty" validate:"omitempty,min=2,max=50"`
	ClinicPrice *int64 `json:"clinic_price,omitempty" validate:"omitempty,min=1"`
	HomePrice   *int64 `json:"home_price,omitempty" validate:"omitempty,min=1"`
	VideoPrice  *int64 `json:"video_price,omitempty" validate:"omitempty,min=1"`
}

type Clinic struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SpecialistID string    `json:"specialist_id" bson:"specialist_id" validate:"required,mongodb"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	City         string    `json:"city" bson:"city" validate:"required,min=2,max=50"`
	Address      string    `json:"address" bson:"address" validate:"required,min=2,max=200"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type Review struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SpecialistID string    `json:"specialist_id" bson:"specialist_id" validate:"required,mongodb"`
	PatientID    string    `json:"patient_id" bson:"patient_id" validate:"required,mongodb"`
	Rating       int       `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Comment      string    `json:"comment,omitempty" bson:"comment,omitempty" validate:"omitempty,max=1000"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
