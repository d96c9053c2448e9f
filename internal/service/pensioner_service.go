package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/pension-verification/internal/auth"
	"github.com/segyhp/pension-verification/internal/domain"
	"github.com/segyhp/pension-verification/internal/repository"
	pkgErrors "github.com/segyhp/pension-verification/pkg/errors"
	"github.com/segyhp/pension-verification/pkg/logger"
	"github.com/segyhp/pension-verification/pkg/utils"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type PensionerService struct {
	pensionerRepo repository.PensionerRepository
	now           Clock
}

func NewPensionerService(pensionerRepo repository.PensionerRepository, now Clock) *PensionerService {
	return &PensionerService{
		pensionerRepo: pensionerRepo,
		now:           now,
	}
}

// Create registers a pensioner in PENDING status
func (s *PensionerService) Create(ctx context.Context, req *domain.CreatePensionerRequest) (*domain.Pensioner, error) {
	appointment, retirement, err := parseServiceDates(req.DateOfFirstAppointment, req.DateOfRetirement)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	pensioner := &domain.Pensioner{
		ID:                     uuid.New(),
		PensionID:              req.PensionID,
		FullName:               req.FullName,
		Email:                  req.Email,
		PasswordHash:           hash,
		Salary:                 req.Salary,
		DateOfFirstAppointment: appointment,
		DateOfRetirement:       retirement,
		PensionSchemeType:      req.PensionSchemeType,
		CurrentLevel:           req.CurrentLevel,
		VerificationStatus:     domain.StatusPending,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := s.pensionerRepo.Create(ctx, pensioner); err != nil {
		if errors.Is(err, pkgErrors.ErrPensionerAlreadyExists) {
			return nil, pkgErrors.WrapPensionerAlreadyExists(req.PensionID)
		}
		return nil, pkgErrors.WrapDatabaseError(err)
	}

	logger.Info(ctx, "pensioner created", "pensioner_id", pensioner.ID, "pension_id", pensioner.PensionID)
	return pensioner, nil
}

// Get retrieves a pensioner by ID
func (s *PensionerService) Get(ctx context.Context, id uuid.UUID) (*domain.Pensioner, error) {
	return getPensioner(ctx, s.pensionerRepo, id)
}

// List returns a page of pensioners, optionally filtered by status
func (s *PensionerService) List(ctx context.Context, query domain.ListPensionersQuery) ([]*domain.Pensioner, error) {
	query.Limit, query.Offset = page(query.Limit, query.Offset)

	pensioners, err := s.pensionerRepo.List(ctx, query)
	if err != nil {
		return nil, pkgErrors.WrapDatabaseError(err)
	}
	return pensioners, nil
}

func getPensioner(ctx context.Context, repo repository.PensionerRepository, id uuid.UUID) (*domain.Pensioner, error) {
	pensioner, err := repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgErrors.WrapPensionerNotFound(id.String())
	}
	if err != nil {
		return nil, pkgErrors.WrapDatabaseError(err)
	}
	return pensioner, nil
}

func parseServiceDates(appointmentStr, retirementStr string) (appointment, retirement time.Time, err error) {
	appointment, err = utils.ParseDate(appointmentStr)
	if err != nil {
		return appointment, retirement, pkgErrors.NewBusinessError(pkgErrors.ErrCodeValidation, "date_of_first_appointment must be YYYY-MM-DD", err)
	}
	retirement, err = utils.ParseDate(retirementStr)
	if err != nil {
		return appointment, retirement, pkgErrors.NewBusinessError(pkgErrors.ErrCodeValidation, "date_of_retirement must be YYYY-MM-DD", err)
	}
	if retirement.Before(appointment) {
		return appointment, retirement, pkgErrors.WrapInvalidDateRange(appointmentStr, retirementStr)
	}
	return appointment, retirement, nil
}

func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
