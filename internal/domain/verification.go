package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerificationMethod records how a verification decision was reached
type VerificationMethod string

const (
	MethodAdminReview  VerificationMethod = "ADMIN_REVIEW"
	MethodManualReview VerificationMethod = "MANUAL_REVIEW"
)

// VerificationLogEntry is an append-only audit record, one per decision
type VerificationLogEntry struct {
	ID          uuid.UUID          `json:"id" db:"id"`
	PensionerID uuid.UUID          `json:"pensioner_id" db:"pensioner_id"`
	Method      VerificationMethod `json:"method" db:"method"`
	Status      VerificationStatus `json:"status" db:"status"`
	Message     string             `json:"message" db:"message"`
	PerformedBy *uuid.UUID         `json:"performed_by" db:"performed_by"`
	VerifiedAt  time.Time          `json:"verified_at" db:"verified_at"`
	NextDueAt   *time.Time         `json:"next_due_at" db:"next_due_at"`
}

// VerificationReview is a queued item awaiting an officer decision
type VerificationReview struct {
	ID          uuid.UUID          `json:"id" db:"id"`
	PensionerID uuid.UUID          `json:"pensioner_id" db:"pensioner_id"`
	DocumentID  *uuid.UUID         `json:"document_id" db:"document_id"`
	Status      VerificationStatus `json:"status" db:"status"`
	OfficerID   *uuid.UUID         `json:"officer_id" db:"officer_id"`
	ReviewedAt  *time.Time         `json:"reviewed_at" db:"reviewed_at"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
}

// PensionerDecision is the persisted outcome of an admin action on a pensioner
type PensionerDecision struct {
	PensionerID uuid.UUID
	Status      VerificationStatus
	NextDueAt   *time.Time
	LogEntry    *VerificationLogEntry
}

// ReviewDecision is the persisted outcome of an officer decision on a review
type ReviewDecision struct {
	ReviewID   uuid.UUID
	OfficerID  uuid.UUID
	Status     VerificationStatus
	ReviewedAt time.Time
	NextDueAt  *time.Time
	LogEntry   *VerificationLogEntry
}

// DTOs for requests and responses

type DecisionRequest struct {
	Action string `json:"action" validate:"required"`
	Reason string `json:"reason" validate:"max=500"`
}

type ReviewDecisionRequest struct {
	Decision string `json:"decision" validate:"required"`
}

type DecisionResponse struct {
	PensionerID uuid.UUID             `json:"pensioner_id"`
	Status      VerificationStatus    `json:"status"`
	NextDueAt   *time.Time            `json:"next_due_at"`
	LogEntry    *VerificationLogEntry `json:"log_entry"`
}

type ReviewDecisionResponse struct {
	Review   *VerificationReview   `json:"review"`
	LogEntry *VerificationLogEntry `json:"log_entry"`
}
