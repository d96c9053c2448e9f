package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VerificationStatus is the verification state of a pensioner or a review
type VerificationStatus string

const (
	StatusPending  VerificationStatus = "PENDING"
	StatusVerified VerificationStatus = "VERIFIED"
	StatusFlagged  VerificationStatus = "FLAGGED"
	StatusRejected VerificationStatus = "REJECTED"
)

// Pension scheme types understood by the benefit calculator
const (
	SchemeTotal   = "total"
	SchemePartial = "partial"
)

// Pensioner represents a pensioner entity
type Pensioner struct {
	ID                     uuid.UUID          `json:"id" db:"id"`
	PensionID              string             `json:"pension_id" db:"pension_id"`
	FullName               string             `json:"full_name" db:"full_name"`
	Email                  string             `json:"email" db:"email"`
	PasswordHash           string             `json:"-" db:"password_hash"`
	Salary                 decimal.Decimal    `json:"salary" db:"salary"`
	DateOfFirstAppointment time.Time          `json:"date_of_first_appointment" db:"date_of_first_appointment"`
	DateOfRetirement       time.Time          `json:"date_of_retirement" db:"date_of_retirement"`
	PensionSchemeType      string             `json:"pension_scheme_type" db:"pension_scheme_type"`
	CurrentLevel           string             `json:"current_level" db:"current_level"`
	VerificationStatus     VerificationStatus `json:"verification_status" db:"verification_status"`
	NextDueAt              *time.Time         `json:"next_due_at" db:"next_due_at"`
	HasSeenDueNotification bool               `json:"has_seen_due_notification" db:"has_seen_due_notification"`
	CreatedAt              time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at" db:"updated_at"`
}

// CalculationInput extracts the benefit calculator input from the stored record
func (p *Pensioner) CalculationInput() PensionCalculationInput {
	return PensionCalculationInput{
		Salary:                 p.Salary,
		DateOfFirstAppointment: p.DateOfFirstAppointment,
		DateOfRetirement:       p.DateOfRetirement,
		PensionSchemeType:      p.PensionSchemeType,
		CurrentLevel:           p.CurrentLevel,
	}
}

// DTOs for requests and responses

type CreatePensionerRequest struct {
	PensionID              string          `json:"pension_id" validate:"required,max=64"`
	FullName               string          `json:"full_name" validate:"required,max=200"`
	Email                  string          `json:"email" validate:"required,email"`
	Password               string          `json:"password" validate:"required,min=8,max=72"`
	Salary                 decimal.Decimal `json:"salary" validate:"required,gt=0"`
	DateOfFirstAppointment string          `json:"date_of_first_appointment" validate:"required,datetime=2006-01-02"`
	DateOfRetirement       string          `json:"date_of_retirement" validate:"required,datetime=2006-01-02"`
	PensionSchemeType      string          `json:"pension_scheme_type" validate:"required,max=32"`
	CurrentLevel           string          `json:"current_level" validate:"max=32"`
}

type ListPensionersQuery struct {
	Status VerificationStatus
	Limit  int
	Offset int
}

type DueNotificationResponse struct {
	Show      bool       `json:"show"`
	NextDueAt *time.Time `json:"next_due_at"`
}
