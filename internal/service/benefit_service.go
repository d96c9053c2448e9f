package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/segyhp/pension-verification/internal/benefit"
	"github.com/segyhp/pension-verification/internal/domain"
	"github.com/segyhp/pension-verification/internal/repository"
	pkgErrors "github.com/segyhp/pension-verification/pkg/errors"
	"github.com/segyhp/pension-verification/pkg/metrics"
	"github.com/segyhp/pension-verification/pkg/utils"
)

type BenefitService struct {
	pensionerRepo repository.PensionerRepository
	metrics       *metrics.Metrics
	locale        string
}

func NewBenefitService(pensionerRepo repository.PensionerRepository, m *metrics.Metrics, locale string) *BenefitService {
	return &BenefitService{
		pensionerRepo: pensionerRepo,
		metrics:       m,
		locale:        locale,
	}
}

// Calculate runs the benefit calculator over request values. Retirement
// before first appointment is rejected here; the calculator itself does not
// check it.
func (s *BenefitService) Calculate(ctx context.Context, req *domain.CalculateBenefitRequest) (*domain.BenefitResponse, error) {
	appointment, retirement, err := parseServiceDates(req.DateOfFirstAppointment, req.DateOfRetirement)
	if err != nil {
		return nil, err
	}

	return s.calculate(domain.PensionCalculationInput{
		Salary:                 req.Salary,
		DateOfFirstAppointment: appointment,
		DateOfRetirement:       retirement,
		PensionSchemeType:      req.PensionSchemeType,
		CurrentLevel:           req.CurrentLevel,
	}), nil
}

// ForPensioner runs the benefit calculator over a pensioner's stored record
func (s *BenefitService) ForPensioner(ctx context.Context, pensionerID uuid.UUID) (*domain.BenefitResponse, error) {
	pensioner, err := getPensioner(ctx, s.pensionerRepo, pensionerID)
	if err != nil {
		return nil, err
	}

	input := pensioner.CalculationInput()
	if input.DateOfRetirement.Before(input.DateOfFirstAppointment) {
		return nil, pkgErrors.WrapInvalidDateRange(
			utils.FormatDate(input.DateOfFirstAppointment),
			utils.FormatDate(input.DateOfRetirement),
		)
	}

	return s.calculate(input), nil
}

func (s *BenefitService) calculate(input domain.PensionCalculationInput) *domain.BenefitResponse {
	result := benefit.CalculatePension(input)
	s.metrics.RecordCalculation(input.PensionSchemeType)

	return &domain.BenefitResponse{
		PensionCalculationResult: result,
		TotalGratuityFormatted:   utils.FormatCurrency(result.TotalGratuity, s.locale),
		MonthlyPensionFormatted:  utils.FormatCurrency(result.MonthlyPension, s.locale),
	}
}
