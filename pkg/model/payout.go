package model

import "time"

const (
	PayoutStatusPending  = "PENDING"
	PayoutStatusApproved = "APPROVED"
	PayoutStatusRejected = "REJECTED"
	PayoutStatusPaid     = "PAID"
)

// BankAccount holds the payout destination for a specialist. One account
// per specialist; upserts replace the previous one.
type BankAccount struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SpecialistID  string    `json:"specialist_id" bson:"specialist_id" validate:"required,mongodb"`
	HolderName    string    `json:"holder_name" bson:"holder_name" validate:"required,min=2,max=100"`
	AccountNumber string    `json:"account_number" bson:"account_number" validate:"required,min=6,max=34"`
	BankCode      string    `json:"bank_code" bson:"bank_code" validate:"required,min=4,max=11"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type PayoutRequest struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SpecialistID string    `json:"specialist_id" bson:"specialist_id" validate:"required,mongodb"`
	Amount       int64     `json:"amount" bson:"amount" validate:"required,min=1"`
	Status       string    `json:"status" bson:"status" validate:"required,oneof=PENDING APPROVED REJECTED PAID"`
	Reference    string    `json:"reference,omitempty" bson:"reference,omitempty" validate:"omitempty,uuid4"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type PayoutStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED PAID"`
}
