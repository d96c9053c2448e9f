package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/pension-verification/internal/domain"
	pkgErrors "github.com/segyhp/pension-verification/pkg/errors"
)

const pensionerColumns = `id, pension_id, full_name, email, password_hash, salary,
		date_of_first_appointment, date_of_retirement, pension_scheme_type, current_level,
		verification_status, next_due_at, has_seen_due_notification, created_at, updated_at`

type pensionerRepository struct {
	db *sqlx.DB
}

func NewPensionerRepository(db *sqlx.DB) PensionerRepository {
	return &pensionerRepository{db: db}
}

func (r *pensionerRepository) Create(ctx context.Context, pensioner *domain.Pensioner) error {
	query := `
		INSERT INTO pensioners (` + pensionerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.ExecContext(ctx, query,
		pensioner.ID,
		pensioner.PensionID,
		pensioner.FullName,
		pensioner.Email,
		pensioner.PasswordHash,
		pensioner.Salary,
		pensioner.DateOfFirstAppointment,
		pensioner.DateOfRetirement,
		pensioner.PensionSchemeType,
		pensioner.CurrentLevel,
		pensioner.VerificationStatus,
		pensioner.NextDueAt,
		pensioner.HasSeenDueNotification,
		pensioner.CreatedAt,
		pensioner.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("pension id %s: %w", pensioner.PensionID, pkgErrors.ErrPensionerAlreadyExists)
	}

	return err
}

func (r *pensionerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pensioner, error) {
	query := `SELECT ` + pensionerColumns + ` FROM pensioners WHERE id = $1`

	var pensioner domain.Pensioner
	if err := r.db.GetContext(ctx, &pensioner, query, id); err != nil {
		return nil, err
	}

	return &pensioner, nil
}

func (r *pensionerRepository) GetByPensionID(ctx context.Context, pensionID string) (*domain.Pensioner, error) {
	query := `SELECT ` + pensionerColumns + ` FROM pensioners WHERE pension_id = $1`

	var pensioner domain.Pensioner
	if err := r.db.GetContext(ctx, &pensioner, query, pensionID); err != nil {
		return nil, err
	}

	return &pensioner, nil
}

func (r *pensionerRepository) List(ctx context.Context, q domain.ListPensionersQuery) ([]*domain.Pensioner, error) {
	query := `
		SELECT ` + pensionerColumns + `
		FROM pensioners
		WHERE ($1 = '' OR verification_status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var pensioners []*domain.Pensioner
	err := r.db.SelectContext(ctx, &pensioners, query, string(q.Status), q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}

	return pensioners, nil
}

func (r *pensionerRepository) ListDueForReverification(ctx context.Context, now time.Time) ([]*domain.Pensioner, error) {
	query := `
		SELECT ` + pensionerColumns + `
		FROM pensioners
		WHERE next_due_at IS NOT NULL AND next_due_at <= $1 AND has_seen_due_notification = FALSE
		ORDER BY next_due_at
	`

	var pensioners []*domain.Pensioner
	if err := r.db.SelectContext(ctx, &pensioners, query, now); err != nil {
		return nil, err
	}

	return pensioners, nil
}

func (r *pensionerRepository) MarkDueNotificationSeen(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE pensioners
		SET has_seen_due_notification = TRUE, updated_at = $2
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return err
	}

	return requireRow(result, pkgErrors.ErrPensionerNotFound)
}

func (r *pensionerRepository) RecordDecision(ctx context.Context, decision *domain.PensionerDecision) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var locked uuid.UUID
		err := tx.GetContext(ctx, &locked, `SELECT id FROM pensioners WHERE id = $1 FOR UPDATE`, decision.PensionerID)
		if err != nil {
			return err
		}

		if err := updatePensionerStatus(ctx, tx, decision.PensionerID, decision.Status, decision.NextDueAt, decision.LogEntry.VerifiedAt); err != nil {
			return err
		}

		return insertLogEntry(ctx, tx, decision.LogEntry)
	})
}

// updatePensionerStatus overwrites the due date, so a nil nextDueAt clears it.
func updatePensionerStatus(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status domain.VerificationStatus, nextDueAt *time.Time, at time.Time) error {
	query := `
		UPDATE pensioners
		SET verification_status = $2, next_due_at = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := tx.ExecContext(ctx, query, id, status, nextDueAt, at)
	if err != nil {
		return err
	}

	return requireRow(result, pkgErrors.ErrPensionerNotFound)
}
