// Package lifecycle decides verification status transitions. It performs no
// I/O: callers supply the current time and persist the returned outcome.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/pension-verification/internal/domain"
	pkgErrors "github.com/segyhp/pension-verification/pkg/errors"
)

// Admin actions on a pensioner
const (
	ActionApprove = "approve"
	ActionFlag    = "flag"
	ActionReject  = "reject"
)

// Officer decisions on a queued review
const (
	DecisionApprove = "APPROVE"
	DecisionReject  = "REJECT"
)

const (
	defaultFlagReason   = "Suspicious activity detected"
	defaultRejectReason = "Failed verification"

	approvedMessage = "Pensioner approved by admin"
)

// ApprovalValidity is how long an admin approval stays valid.
const ApprovalValidity = 365 * 24 * time.Hour

// Outcome is the result of a decision: the new status, the next due date
// (set only on approval) and the audit entry to append.
type Outcome struct {
	Status    domain.VerificationStatus
	NextDueAt *time.Time
	LogEntry  *domain.VerificationLogEntry
}

// Decide maps an admin action on a pensioner to its outcome. Actions are
// matched case-insensitively; anything other than approve, flag or reject
// fails with ErrInvalidAction. The returned log entry has no ID or
// PensionerID; the caller fills those in.
func Decide(action, reason string, now time.Time) (*Outcome, error) {
	var (
		status  domain.VerificationStatus
		nextDue *time.Time
		message string
	)

	switch strings.ToLower(strings.TrimSpace(action)) {
	case ActionApprove:
		status = domain.StatusVerified
		due := now.Add(ApprovalValidity)
		nextDue = &due
		message = approvedMessage
	case ActionFlag:
		status = domain.StatusFlagged
		message = fmt.Sprintf("Pensioner flagged: %s", orDefault(reason, defaultFlagReason))
	case ActionReject:
		status = domain.StatusRejected
		message = fmt.Sprintf("Pensioner rejected: %s", orDefault(reason, defaultRejectReason))
	default:
		return nil, pkgErrors.WrapInvalidAction(action)
	}

	return &Outcome{
		Status:    status,
		NextDueAt: nextDue,
		LogEntry: &domain.VerificationLogEntry{
			Method:     domain.MethodAdminReview,
			Status:     status,
			Message:    message,
			VerifiedAt: now,
			NextDueAt:  nextDue,
		},
	}, nil
}

// DecideReview maps an officer decision on a queued review to its outcome.
// An approval is valid for three calendar years.
func DecideReview(decision string, now time.Time) (*Outcome, error) {
	var (
		status  domain.VerificationStatus
		nextDue *time.Time
		message string
	)

	switch strings.ToUpper(strings.TrimSpace(decision)) {
	case DecisionApprove:
		status = domain.StatusVerified
		due := now.AddDate(3, 0, 0)
		nextDue = &due
		message = "Review approved by verification officer"
	case DecisionReject:
		status = domain.StatusRejected
		message = "Review rejected by verification officer"
	default:
		return nil, pkgErrors.WrapInvalidDecision(decision)
	}

	return &Outcome{
		Status:    status,
		NextDueAt: nextDue,
		LogEntry: &domain.VerificationLogEntry{
			Method:     domain.MethodManualReview,
			Status:     status,
			Message:    message,
			VerifiedAt: now,
			NextDueAt:  nextDue,
		},
	}, nil
}

// PensionerDecision binds an outcome to a pensioner and the deciding admin.
func (o *Outcome) PensionerDecision(pensionerID, adminID uuid.UUID) *domain.PensionerDecision {
	o.bind(pensionerID, adminID)
	return &domain.PensionerDecision{
		PensionerID: pensionerID,
		Status:      o.Status,
		NextDueAt:   o.NextDueAt,
		LogEntry:    o.LogEntry,
	}
}

// ReviewDecision binds an outcome to a review, its pensioner and the officer.
func (o *Outcome) ReviewDecision(review *domain.VerificationReview, officerID uuid.UUID) *domain.ReviewDecision {
	o.bind(review.PensionerID, officerID)
	return &domain.ReviewDecision{
		ReviewID:   review.ID,
		OfficerID:  officerID,
		Status:     o.Status,
		ReviewedAt: o.LogEntry.VerifiedAt,
		NextDueAt:  o.NextDueAt,
		LogEntry:   o.LogEntry,
	}
}

func (o *Outcome) bind(pensionerID, actorID uuid.UUID) {
	o.LogEntry.ID = uuid.New()
	o.LogEntry.PensionerID = pensionerID
	actor := actorID
	o.LogEntry.PerformedBy = &actor
}

// ShouldShowDueNotification reports whether the re-verification prompt is due:
// a due date exists, it has been reached, and the pensioner has not yet
// acknowledged it.
func ShouldShowDueNotification(nextDueAt *time.Time, hasSeen bool, now time.Time) bool {
	if nextDueAt == nil || hasSeen {
		return false
	}
	return !now.Before(*nextDueAt)
}

// DueNotification builds the pensioner-facing gate response.
func DueNotification(p *domain.Pensioner, now time.Time) domain.DueNotificationResponse {
	return domain.DueNotificationResponse{
		Show:      ShouldShowDueNotification(p.NextDueAt, p.HasSeenDueNotification, now),
		NextDueAt: p.NextDueAt,
	}
}

func orDefault(reason, fallback string) string {
	if strings.TrimSpace(reason) == "" {
		return fallback
	}
	return reason
}
