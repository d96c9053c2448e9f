package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PensionCalculationInput is the benefit calculator input
type PensionCalculationInput struct {
	Salary                 decimal.Decimal
	DateOfFirstAppointment time.Time
	DateOfRetirement       time.Time
	PensionSchemeType      string
	// CurrentLevel is carried but not used by the rate logic.
	CurrentLevel string
}

// PensionCalculationResult is derived data, recomputed on demand and never persisted
type PensionCalculationResult struct {
	YearsOfService int64           `json:"years_of_service"`
	GratuityRate   decimal.Decimal `json:"gratuity_rate"`
	PensionRate    decimal.Decimal `json:"pension_rate"`
	TotalGratuity  decimal.Decimal `json:"total_gratuity"`
	MonthlyPension decimal.Decimal `json:"monthly_pension"`
}

// DTOs for requests and responses

type CalculateBenefitRequest struct {
	Salary                 decimal.Decimal `json:"salary" validate:"required,gt=0"`
	DateOfFirstAppointment string          `json:"date_of_first_appointment" validate:"required,datetime=2006-01-02"`
	DateOfRetirement       string          `json:"date_of_retirement" validate:"required,datetime=2006-01-02"`
	PensionSchemeType      string          `json:"pension_scheme_type" validate:"max=32"`
	CurrentLevel           string          `json:"current_level" validate:"max=32"`
}

type BenefitResponse struct {
	PensionCalculationResult
	TotalGratuityFormatted  string `json:"total_gratuity_formatted"`
	MonthlyPensionFormatted string `json:"monthly_pension_formatted"`
}
