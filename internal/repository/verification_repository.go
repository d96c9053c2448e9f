package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/pension-verification/internal/domain"
	pkgErrors "github.com/segyhp/pension-verification/pkg/errors"
)

const (
	logColumns    = `id, pensioner_id, method, status, message, performed_by, verified_at, next_due_at`
	reviewColumns = `id, pensioner_id, document_id, status, officer_id, reviewed_at, created_at`
)

type verificationLogRepository struct {
	db *sqlx.DB
}

func NewVerificationLogRepository(db *sqlx.DB) VerificationLogRepository {
	return &verificationLogRepository{db: db}
}

func (r *verificationLogRepository) ListByPensioner(ctx context.Context, pensionerID uuid.UUID) ([]*domain.VerificationLogEntry, error) {
	query := `
		SELECT ` + logColumns + `
		FROM verification_logs
		WHERE pensioner_id = $1
		ORDER BY verified_at DESC
	`

	var entries []*domain.VerificationLogEntry
	if err := r.db.SelectContext(ctx, &entries, query, pensionerID); err != nil {
		return nil, err
	}

	return entries, nil
}

// insertLogEntry appends an audit entry inside tx
func insertLogEntry(ctx context.Context, tx *sqlx.Tx, entry *domain.VerificationLogEntry) error {
	query := `
		INSERT INTO verification_logs (` + logColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.ExecContext(ctx, query,
		entry.ID,
		entry.PensionerID,
		entry.Method,
		entry.Status,
		entry.Message,
		entry.PerformedBy,
		entry.VerifiedAt,
		entry.NextDueAt,
	)
	return err
}

type reviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.VerificationReview, error) {
	query := `SELECT ` + reviewColumns + ` FROM verification_reviews WHERE id = $1`

	var review domain.VerificationReview
	if err := r.db.GetContext(ctx, &review, query, id); err != nil {
		return nil, err
	}

	return &review, nil
}

func (r *reviewRepository) ListPending(ctx context.Context, limit, offset int) ([]*domain.VerificationReview, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM verification_reviews
		WHERE status = 'PENDING'
		ORDER BY created_at
		LIMIT $1 OFFSET $2
	`

	var reviews []*domain.VerificationReview
	if err := r.db.SelectContext(ctx, &reviews, query, limit, offset); err != nil {
		return nil, err
	}

	return reviews, nil
}

func (r *reviewRepository) RecordDecision(ctx context.Context, decision *domain.ReviewDecision) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE verification_reviews
			SET status = $2, officer_id = $3, reviewed_at = $4
			WHERE id = $1 AND status = 'PENDING'
		`

		result, err := tx.ExecContext(ctx, query,
			decision.ReviewID,
			decision.Status,
			decision.OfficerID,
			decision.ReviewedAt,
		)
		if err != nil {
			return err
		}

		alreadyDecided := fmt.Errorf("review %s: %w", decision.ReviewID, pkgErrors.ErrReviewAlreadyDecided)
		if err := requireRow(result, alreadyDecided); err != nil {
			return err
		}

		if err := updatePensionerStatus(ctx, tx, decision.LogEntry.PensionerID, decision.Status, decision.NextDueAt, decision.ReviewedAt); err != nil {
			return err
		}

		return insertLogEntry(ctx, tx, decision.LogEntry)
	})
}

// insertReview queues a review inside tx. It reports false, without error,
// when another transaction already holds the pensioner's pending review.
func insertReview(ctx context.Context, tx *sqlx.Tx, review *domain.VerificationReview) (bool, error) {
	query := `
		INSERT INTO verification_reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (pensioner_id) WHERE status = 'PENDING' DO NOTHING
	`

	result, err := tx.ExecContext(ctx, query,
		review.ID,
		review.PensionerID,
		review.DocumentID,
		review.Status,
		review.OfficerID,
		review.ReviewedAt,
		review.CreatedAt,
	)
	if err != nil {
		return false, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
