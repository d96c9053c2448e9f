package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/segyhp/pension-verification/internal/domain"
)

// AuthService issues access tokens for staff and pensioners
type AuthService interface {
	StaffLogin(ctx context.Context, req *domain.StaffLoginRequest) (*domain.LoginResponse, error)
	PensionerLogin(ctx context.Context, req *domain.PensionerLoginRequest) (*domain.LoginResponse, error)
	CreateStaff(ctx context.Context, req *domain.CreateStaffRequest) (*domain.StaffUser, error)
}

// PensionerService manages pensioner records
type PensionerService interface {
	Create(ctx context.Context, req *domain.CreatePensionerRequest) (*domain.Pensioner, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Pensioner, error)
	List(ctx context.Context, query domain.ListPensionersQuery) ([]*domain.Pensioner, error)
}

// VerificationService applies verification decisions and the due-notification gate
type VerificationService interface {
	DecidePensioner(ctx context.Context, adminID, pensionerID uuid.UUID, req *domain.DecisionRequest) (*domain.DecisionResponse, error)
	DecideReview(ctx context.Context, officerID, reviewID uuid.UUID, req *domain.ReviewDecisionRequest) (*domain.ReviewDecisionResponse, error)
	ListPendingReviews(ctx context.Context, limit, offset int) ([]*domain.VerificationReview, error)
	ListLogs(ctx context.Context, pensionerID uuid.UUID) ([]*domain.VerificationLogEntry, error)
	DueNotification(ctx context.Context, pensionerID uuid.UUID) (*domain.DueNotificationResponse, error)
	AcknowledgeDueNotification(ctx context.Context, pensionerID uuid.UUID) error
}

// BenefitService computes gratuity and pension figures
type BenefitService interface {
	Calculate(ctx context.Context, req *domain.CalculateBenefitRequest) (*domain.BenefitResponse, error)
	ForPensioner(ctx context.Context, pensionerID uuid.UUID) (*domain.BenefitResponse, error)
}

// DocumentService handles identity document uploads
type DocumentService interface {
	Upload(ctx context.Context, pensionerID uuid.UUID, req *domain.UploadDocumentRequest) (*domain.UploadDocumentResponse, error)
	List(ctx context.Context, pensionerID uuid.UUID) ([]*domain.Document, error)
	Delete(ctx context.Context, pensionerID, documentID uuid.UUID) error
}
