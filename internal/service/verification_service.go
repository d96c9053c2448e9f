package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/pension-verification/internal/domain"
	"github.com/segyhp/pension-verification/internal/lifecycle"
	"github.com/segyhp/pension-verification/internal/mailer"
	"github.com/segyhp/pension-verification/internal/repository"
	pkgErrors "github.com/segyhp/pension-verification/pkg/errors"
	"github.com/segyhp/pension-verification/pkg/logger"
	"github.com/segyhp/pension-verification/pkg/metrics"
)

// Clock returns the current time
type Clock func() time.Time

type VerificationService struct {
	pensionerRepo repository.PensionerRepository
	reviewRepo    repository.ReviewRepository
	logRepo       repository.VerificationLogRepository
	mailer        mailer.Mailer
	metrics       *metrics.Metrics
	now           Clock
}

func NewVerificationService(
	pensionerRepo repository.PensionerRepository,
	reviewRepo repository.ReviewRepository,
	logRepo repository.VerificationLogRepository,
	mail mailer.Mailer,
	m *metrics.Metrics,
	now Clock,
) *VerificationService {
	return &VerificationService{
		pensionerRepo: pensionerRepo,
		reviewRepo:    reviewRepo,
		logRepo:       logRepo,
		mailer:        mail,
		metrics:       m,
		now:           now,
	}
}

// DecidePensioner applies an admin approve, flag or reject action
func (s *VerificationService) DecidePensioner(ctx context.Context, adminID, pensionerID uuid.UUID, req *domain.DecisionRequest) (*domain.DecisionResponse, error) {
	outcome, err := lifecycle.Decide(req.Action, req.Reason, s.now())
	if err != nil {
		return nil, err
	}

	pensioner, err := getPensioner(ctx, s.pensionerRepo, pensionerID)
	if err != nil {
		return nil, err
	}

	decision := outcome.PensionerDecision(pensionerID, adminID)
	if err := s.pensionerRepo.RecordDecision(ctx, decision); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pkgErrors.ErrPensionerNotFound) {
			return nil, pkgErrors.WrapPensionerNotFound(pensionerID.String())
		}
		return nil, pkgErrors.WrapDatabaseError(err)
	}

	s.metrics.RecordDecision("pensioner", string(decision.Status))
	logger.Info(ctx, "pensioner decision recorded",
		"pensioner_id", pensionerID,
		"admin_id", adminID,
		"status", decision.Status,
	)
	s.notifyDecision(ctx, pensioner, decision.Status, decision.NextDueAt)

	return &domain.DecisionResponse{
		PensionerID: pensionerID,
		Status:      decision.Status,
		NextDueAt:   decision.NextDueAt,
		LogEntry:    decision.LogEntry,
	}, nil
}

// DecideReview closes a pending review with an officer's APPROVE or REJECT
func (s *VerificationService) DecideReview(ctx context.Context, officerID, reviewID uuid.UUID, req *domain.ReviewDecisionRequest) (*domain.ReviewDecisionResponse, error) {
	outcome, err := lifecycle.DecideReview(req.Decision, s.now())
	if err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgErrors.WrapReviewNotFound(reviewID.String())
	}
	if err != nil {
		return nil, pkgErrors.WrapDatabaseError(err)
	}
	if review.Status != domain.StatusPending {
		return nil, pkgErrors.WrapReviewAlreadyDecided(reviewID.String())
	}

	decision := outcome.ReviewDecision(review, officerID)
	if err := s.reviewRepo.RecordDecision(ctx, decision); err != nil {
		switch {
		case errors.Is(err, pkgErrors.ErrReviewAlreadyDecided):
			return nil, pkgErrors.WrapReviewAlreadyDecided(reviewID.String())
		case errors.Is(err, pkgErrors.ErrPensionerNotFound):
			return nil, pkgErrors.WrapPensionerNotFound(review.PensionerID.String())
		default:
			return nil, pkgErrors.WrapDatabaseError(err)
		}
	}

	s.metrics.RecordDecision("review", string(decision.Status))
	logger.Info(ctx, "review decision recorded",
		"review_id", reviewID,
		"officer_id", officerID,
		"status", decision.Status,
	)

	if pensioner, err := s.pensionerRepo.GetByID(ctx, review.PensionerID); err == nil {
		s.notifyDecision(ctx, pensioner, decision.Status, decision.NextDueAt)
	} else {
		logger.Warn(ctx, "skipping decision email", "pensioner_id", review.PensionerID, "error", err)
	}

	reviewedAt := decision.ReviewedAt
	review.Status = decision.Status
	review.OfficerID = &officerID
	review.ReviewedAt = &reviewedAt

	return &domain.ReviewDecisionResponse{
		Review:   review,
		LogEntry: decision.LogEntry,
	}, nil
}

// ListPendingReviews returns the review queue, oldest first
func (s *VerificationService) ListPendingReviews(ctx context.Context, limit, offset int) ([]*domain.VerificationReview, error) {
	limit, offset = page(limit, offset)

	reviews, err := s.reviewRepo.ListPending(ctx, limit, offset)
	if err != nil {
		return nil, pkgErrors.WrapDatabaseError(err)
	}
	return reviews, nil
}

// ListLogs returns a pensioner's audit trail, newest first
func (s *VerificationService) ListLogs(ctx context.Context, pensionerID uuid.UUID) ([]*domain.VerificationLogEntry, error) {
	if _, err := getPensioner(ctx, s.pensionerRepo, pensionerID); err != nil {
		return nil, err
	}

	entries, err := s.logRepo.ListByPensioner(ctx, pensionerID)
	if err != nil {
		return nil, pkgErrors.WrapDatabaseError(err)
	}
	return entries, nil
}

// DueNotification evaluates the re-verification prompt for a pensioner
func (s *VerificationService) DueNotification(ctx context.Context, pensionerID uuid.UUID) (*domain.DueNotificationResponse, error) {
	pensioner, err := getPensioner(ctx, s.pensionerRepo, pensionerID)
	if err != nil {
		return nil, err
	}

	resp := lifecycle.DueNotification(pensioner, s.now())
	return &resp, nil
}

// AcknowledgeDueNotification records that the pensioner has seen the prompt
func (s *VerificationService) AcknowledgeDueNotification(ctx context.Context, pensionerID uuid.UUID) error {
	err := s.pensionerRepo.MarkDueNotificationSeen(ctx, pensionerID, s.now())
	if errors.Is(err, pkgErrors.ErrPensionerNotFound) {
		return pkgErrors.WrapPensionerNotFound(pensionerID.String())
	}
	if err != nil {
		return pkgErrors.WrapDatabaseError(err)
	}
	return nil
}

// SendDueReminders emails every pensioner whose due gate is open. A failed
// email is logged and counted; it does not stop the batch.
func (s *VerificationService) SendDueReminders(ctx context.Context) (sent, failed int, err error) {
	now := s.now()

	pensioners, err := s.pensionerRepo.ListDueForReverification(ctx, now)
	if err != nil {
		return 0, 0, pkgErrors.WrapDatabaseError(err)
	}

	for _, p := range pensioners {
		if err := ctx.Err(); err != nil {
			return sent, failed, err
		}
		if !lifecycle.ShouldShowDueNotification(p.NextDueAt, p.HasSeenDueNotification, now) {
			continue
		}

		subject, body := mailer.ReminderEmail(p)
		if err := s.mailer.Send(ctx, p.Email, subject, body); err != nil {
			failed++
			s.metrics.RecordReminder("failed")
			logger.Error(ctx, "sending reminder", "pensioner_id", p.ID, "error", err)
			continue
		}
		sent++
		s.metrics.RecordReminder("sent")
	}

	return sent, failed, nil
}

// notifyDecision emails the outcome; failures never undo the decision
func (s *VerificationService) notifyDecision(ctx context.Context, p *domain.Pensioner, status domain.VerificationStatus, nextDueAt *time.Time) {
	if p.Email == "" {
		return
	}

	subject, body := mailer.DecisionEmail(p, status, nextDueAt)
	if err := s.mailer.Send(ctx, p.Email, subject, body); err != nil {
		logger.Warn(ctx, "sending decision email", "pensioner_id", p.ID, "error", err)
	}
}
