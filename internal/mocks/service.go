package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/pension-verification/internal/domain"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) StaffLogin(ctx context.Context, req *domain.StaffLoginRequest) (*domain.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginResponse), args.Error(1)
}

func (m *MockAuthService) PensionerLogin(ctx context.Context, req *domain.PensionerLoginRequest) (*domain.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginResponse), args.Error(1)
}

func (m *MockAuthService) CreateStaff(ctx context.Context, req *domain.CreateStaffRequest) (*domain.StaffUser, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffUser), args.Error(1)
}

type MockPensionerService struct {
	mock.Mock
}

func (m *MockPensionerService) Create(ctx context.Context, req *domain.CreatePensionerRequest) (*domain.Pensioner, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pensioner), args.Error(1)
}

func (m *MockPensionerService) Get(ctx context.Context, id uuid.UUID) (*domain.Pensioner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pensioner), args.Error(1)
}

func (m *MockPensionerService) List(ctx context.Context, query domain.ListPensionersQuery) ([]*domain.Pensioner, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Pensioner), args.Error(1)
}

type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) DecidePensioner(ctx context.Context, adminID, pensionerID uuid.UUID, req *domain.DecisionRequest) (*domain.DecisionResponse, error) {
	args := m.Called(ctx, adminID, pensionerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DecisionResponse), args.Error(1)
}

func (m *MockVerificationService) DecideReview(ctx context.Context, officerID, reviewID uuid.UUID, req *domain.ReviewDecisionRequest) (*domain.ReviewDecisionResponse, error) {
	args := m.Called(ctx, officerID, reviewID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewDecisionResponse), args.Error(1)
}

func (m *MockVerificationService) ListPendingReviews(ctx context.Context, limit, offset int) ([]*domain.VerificationReview, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.VerificationReview), args.Error(1)
}

func (m *MockVerificationService) ListLogs(ctx context.Context, pensionerID uuid.UUID) ([]*domain.VerificationLogEntry, error) {
	args := m.Called(ctx, pensionerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.VerificationLogEntry), args.Error(1)
}

func (m *MockVerificationService) DueNotification(ctx context.Context, pensionerID uuid.UUID) (*domain.DueNotificationResponse, error) {
	args := m.Called(ctx, pensionerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DueNotificationResponse), args.Error(1)
}

func (m *MockVerificationService) AcknowledgeDueNotification(ctx context.Context, pensionerID uuid.UUID) error {
	args := m.Called(ctx, pensionerID)
	return args.Error(0)
}

type MockBenefitService struct {
	mock.Mock
}

func (m *MockBenefitService) Calculate(ctx context.Context, req *domain.CalculateBenefitRequest) (*domain.BenefitResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BenefitResponse), args.Error(1)
}

func (m *MockBenefitService) ForPensioner(ctx context.Context, pensionerID uuid.UUID) (*domain.BenefitResponse, error) {
	args := m.Called(ctx, pensionerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BenefitResponse), args.Error(1)
}

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, pensionerID uuid.UUID, req *domain.UploadDocumentRequest) (*domain.UploadDocumentResponse, error) {
	args := m.Called(ctx, pensionerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadDocumentResponse), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, pensionerID uuid.UUID) ([]*domain.Document, error) {
	args := m.Called(ctx, pensionerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, pensionerID, documentID uuid.UUID) error {
	args := m.Called(ctx, pensionerID, documentID)
	return args.Error(0)
}
