package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/pension-verification/internal/auth"
	"github.com/segyhp/pension-verification/internal/domain"
	"github.com/segyhp/pension-verification/internal/mocks"
	pkgErrors "github.com/segyhp/pension-verification/pkg/errors"
)

func validCreateRequest() *domain.CreatePensionerRequest {
	return &domain.CreatePensionerRequest{
		PensionID:              "PEN-0001",
		FullName:               "Ada Obi",
		Email:                  "ada@example.com",
		Password:               "pensioner-pass",
		Salary:                 decimal.NewFromInt(850000),
		DateOfFirstAppointment: "1988-06-01",
		DateOfRetirement:       "2023-06-01",
		PensionSchemeType:      "total",
		CurrentLevel:           "GL-14",
	}
}

func TestPensionerService_Create(t *testing.T) {
	repo := &mocks.MockPensionerRepository{}
	service := NewPensionerService(repo, fixedClock)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Pensioner) bool {
		ok, _ := auth.CheckPassword(p.PasswordHash, "pensioner-pass")
		return ok &&
			p.VerificationStatus == domain.StatusPending &&
			p.NextDueAt == nil &&
			!p.HasSeenDueNotification &&
			p.DateOfFirstAppointment.Equal(time.Date(1988, 6, 1, 0, 0, 0, 0, time.UTC))
	})).Return(nil)

	pensioner, err := service.Create(context.Background(), validCreateRequest())

	require.NoError(t, err)
	assert.Equal(t, "PEN-0001", pensioner.PensionID)
	assert.Equal(t, fixedNow, pensioner.CreatedAt)
	repo.AssertExpectations(t)
}

func TestPensionerService_CreateDuplicate(t *testing.T) {
	repo := &mocks.MockPensionerRepository{}
	service := NewPensionerService(repo, fixedClock)
	repo.On("Create", mock.Anything, mock.Anything).Return(pkgErrors.ErrPensionerAlreadyExists)

	_, err := service.Create(context.Background(), validCreateRequest())

	assert.Equal(t, pkgErrors.ErrCodePensionerAlreadyExists, pkgErrors.Code(err))
}

func TestPensionerService_CreateRejectsInvertedDates(t *testing.T) {
	repo := &mocks.MockPensionerRepository{}
	service := NewPensionerService(repo, fixedClock)
	req := validCreateRequest()
	req.DateOfRetirement = "1980-01-01"

	_, err := service.Create(context.Background(), req)

	assert.True(t, errors.Is(err, pkgErrors.ErrInvalidDateRange))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPensionerService_ListPaging(t *testing.T) {
	tests := []struct {
		name     string
		query    domain.ListPensionersQuery
		expected domain.ListPensionersQuery
	}{
		{
			name:     "defaults",
			query:    domain.ListPensionersQuery{},
			expected: domain.ListPensionersQuery{Limit: 50},
		},
		{
			name:     "clamps limit and offset",
			query:    domain.ListPensionersQuery{Status: domain.StatusFlagged, Limit: 1000, Offset: -1},
			expected: domain.ListPensionersQuery{Status: domain.StatusFlagged, Limit: 200},
		},
		{
			name:     "keeps valid values",
			query:    domain.ListPensionersQuery{Limit: 20, Offset: 40},
			expected: domain.ListPensionersQuery{Limit: 20, Offset: 40},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockPensionerRepository{}
			service := NewPensionerService(repo, fixedClock)
			repo.On("List", mock.Anything, tt.expected).Return([]*domain.Pensioner{}, nil)

			_, err := service.List(context.Background(), tt.query)

			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}
