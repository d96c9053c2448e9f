package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/pension-verification/internal/domain"
)

// PensionerRepository defines the interface for pensioner data operations
type PensionerRepository interface {
	// Create inserts a pensioner. A duplicate pension ID wraps errors.ErrPensionerAlreadyExists.
	Create(ctx context.Context, pensioner *domain.Pensioner) error

	// GetByID retrieves a pensioner by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Pensioner, error)

	// GetByPensionID retrieves a pensioner by its pension ID
	GetByPensionID(ctx context.Context, pensionID string) (*domain.Pensioner, error)

	// List returns pensioners ordered by creation, optionally filtered by status
	List(ctx context.Context, query domain.ListPensionersQuery) ([]*domain.Pensioner, error)

	// ListDueForReverification returns pensioners whose due date has passed and who have not acknowledged it
	ListDueForReverification(ctx context.Context, now time.Time) ([]*domain.Pensioner, error)

	// MarkDueNotificationSeen sets the acknowledgement flag, stamping updated_at with at
	MarkDueNotificationSeen(ctx context.Context, id uuid.UUID, at time.Time) error

	// RecordDecision applies an admin decision and appends its log entry in one transaction
	RecordDecision(ctx context.Context, decision *domain.PensionerDecision) error
}

// StaffRepository defines the interface for admin and officer accounts
type StaffRepository interface {
	// Create inserts a staff account
	Create(ctx context.Context, user *domain.StaffUser) error

	// GetByEmail retrieves a staff account by email
	GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error)
}

// ReviewRepository defines the interface for the review queue
type ReviewRepository interface {
	// GetByID retrieves a review by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VerificationReview, error)

	// ListPending returns pending reviews, oldest first
	ListPending(ctx context.Context, limit, offset int) ([]*domain.VerificationReview, error)

	// RecordDecision closes a pending review, applies the outcome to the
	// pensioner and appends the log entry in one transaction. A review that is
	// no longer pending wraps errors.ErrReviewAlreadyDecided.
	RecordDecision(ctx context.Context, decision *domain.ReviewDecision) error
}

// VerificationLogRepository defines the interface for the audit log
type VerificationLogRepository interface {
	// ListByPensioner returns a pensioner's log entries, newest first
	ListByPensioner(ctx context.Context, pensionerID uuid.UUID) ([]*domain.VerificationLogEntry, error)
}

// DocumentRepository defines the interface for uploaded documents
type DocumentRepository interface {
	// CreateWithReview inserts the document and queues review unless the
	// pensioner already has a pending one, in one transaction. It returns the
	// pending review in either case.
	CreateWithReview(ctx context.Context, document *domain.Document, review *domain.VerificationReview) (*domain.VerificationReview, error)

	// GetByID retrieves a document by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)

	// ListByPensioner returns a pensioner's documents, newest first
	ListByPensioner(ctx context.Context, pensionerID uuid.UUID) ([]*domain.Document, error)

	// Delete removes a document row
	Delete(ctx context.Context, id uuid.UUID) error
}
