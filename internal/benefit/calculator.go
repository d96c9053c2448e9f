// Package benefit derives gratuity and pension figures from a pensioner's
// service dates, salary and scheme type.
package benefit

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/segyhp/pension-verification/internal/domain"
)

const (
	// msPerServiceYear is 365.25 days in milliseconds.
	msPerServiceYear int64 = 36525 * 24 * 60 * 60 * 10

	shortServiceYears int64 = 10
)

type tier struct {
	minYears      int64
	gratuityDelta decimal.Decimal
	gratuityBound decimal.Decimal
	pensionDelta  decimal.Decimal
	pensionBound  decimal.Decimal
}

var (
	totalGratuityRate   = decimal.RequireFromString("0.25")
	totalPensionRate    = decimal.RequireFromString("0.80")
	partialGratuityRate = decimal.RequireFromString("0.20")
	partialPensionRate  = decimal.RequireFromString("0.60")

	// Evaluated in order, first match wins.
	upperTiers = []tier{
		{
			minYears:      35,
			gratuityDelta: decimal.RequireFromString("0.05"),
			gratuityBound: decimal.RequireFromString("0.30"),
			pensionDelta:  decimal.RequireFromString("0.10"),
			pensionBound:  decimal.RequireFromString("0.90"),
		},
		{
			minYears:      30,
			gratuityDelta: decimal.RequireFromString("0.03"),
			gratuityBound: decimal.RequireFromString("0.28"),
			pensionDelta:  decimal.RequireFromString("0.05"),
			pensionBound:  decimal.RequireFromString("0.85"),
		},
	}

	shortGratuityPenalty = decimal.RequireFromString("0.05")
	shortGratuityFloor   = decimal.RequireFromString("0.15")
	shortPensionPenalty  = decimal.RequireFromString("0.10")
	shortPensionFloor    = decimal.RequireFromString("0.50")

	monthsPerYear = decimal.NewFromInt(12)
)

// CalculatePension computes years of service, tiered rates and the resulting
// amounts. Inputs are not validated: a retirement date before the appointment
// date yields negative years and the short-service rates.
func CalculatePension(input domain.PensionCalculationInput) domain.PensionCalculationResult {
	years := YearsOfService(input.DateOfFirstAppointment, input.DateOfRetirement)
	gratuityRate, pensionRate := AdjustedRates(input.PensionSchemeType, years)

	return domain.PensionCalculationResult{
		YearsOfService: years,
		GratuityRate:   gratuityRate,
		PensionRate:    pensionRate,
		TotalGratuity:  input.Salary.Mul(gratuityRate),
		MonthlyPension: input.Salary.Mul(pensionRate).Div(monthsPerYear),
	}
}

// YearsOfService is the floor of the elapsed time divided by an average
// Gregorian year of 365.25 days.
func YearsOfService(appointment, retirement time.Time) int64 {
	elapsed := retirement.UnixMilli() - appointment.UnixMilli()
	return floorDiv(elapsed, msPerServiceYear)
}

// BaseRates returns the scheme's rates before the service adjustment.
// Unrecognized schemes use the total scheme rates.
func BaseRates(scheme string) (gratuity, pension decimal.Decimal) {
	if strings.EqualFold(strings.TrimSpace(scheme), domain.SchemePartial) {
		return partialGratuityRate, partialPensionRate
	}
	return totalGratuityRate, totalPensionRate
}

// AdjustedRates applies the years-of-service tier to the scheme's base rates.
func AdjustedRates(scheme string, years int64) (gratuity, pension decimal.Decimal) {
	gratuity, pension = BaseRates(scheme)

	for _, t := range upperTiers {
		if years >= t.minYears {
			return decimal.Min(gratuity.Add(t.gratuityDelta), t.gratuityBound),
				decimal.Min(pension.Add(t.pensionDelta), t.pensionBound)
		}
	}

	if years < shortServiceYears {
		return decimal.Max(gratuity.Sub(shortGratuityPenalty), shortGratuityFloor),
			decimal.Max(pension.Sub(shortPensionPenalty), shortPensionFloor)
	}

	return gratuity, pension
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
