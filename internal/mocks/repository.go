package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/pension-verification/internal/domain"
)

type MockPensionerRepository struct {
	mock.Mock
}

func (m *MockPensionerRepository) Create(ctx context.Context, pensioner *domain.Pensioner) error {
	args := m.Called(ctx, pensioner)
	return args.Error(0)
}

func (m *MockPensionerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pensioner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pensioner), args.Error(1)
}

func (m *MockPensionerRepository) GetByPensionID(ctx context.Context, pensionID string) (*domain.Pensioner, error) {
	args := m.Called(ctx, pensionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pensioner), args.Error(1)
}

func (m *MockPensionerRepository) List(ctx context.Context, query domain.ListPensionersQuery) ([]*domain.Pensioner, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Pensioner), args.Error(1)
}

func (m *MockPensionerRepository) ListDueForReverification(ctx context.Context, now time.Time) ([]*domain.Pensioner, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Pensioner), args.Error(1)
}

func (m *MockPensionerRepository) MarkDueNotificationSeen(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockPensionerRepository) RecordDecision(ctx context.Context, decision *domain.PensionerDecision) error {
	args := m.Called(ctx, decision)
	return args.Error(0)
}

type MockStaffRepository struct {
	mock.Mock
}

func (m *MockStaffRepository) Create(ctx context.Context, user *domain.StaffUser) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStaffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffUser), args.Error(1)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.VerificationReview, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationReview), args.Error(1)
}

func (m *MockReviewRepository) ListPending(ctx context.Context, limit, offset int) ([]*domain.VerificationReview, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.VerificationReview), args.Error(1)
}

func (m *MockReviewRepository) RecordDecision(ctx context.Context, decision *domain.ReviewDecision) error {
	args := m.Called(ctx, decision)
	return args.Error(0)
}

type MockVerificationLogRepository struct {
	mock.Mock
}

func (m *MockVerificationLogRepository) ListByPensioner(ctx context.Context, pensionerID uuid.UUID) ([]*domain.VerificationLogEntry, error) {
	args := m.Called(ctx, pensionerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.VerificationLogEntry), args.Error(1)
}

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) CreateWithReview(ctx context.Context, document *domain.Document, review *domain.VerificationReview) (*domain.VerificationReview, error) {
	args := m.Called(ctx, document, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationReview), args.Error(1)
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListByPensioner(ctx context.Context, pensionerID uuid.UUID) ([]*domain.Document, error) {
	args := m.Called(ctx, pensionerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
