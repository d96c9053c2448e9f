package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/pension-verification/internal/domain"
	pkgErrors "github.com/segyhp/pension-verification/pkg/errors"
)

const documentColumns = `id, pensioner_id, document_type, object_key, file_id, content_type, size_bytes, face_match_score, created_at`

type documentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) CreateWithReview(ctx context.Context, document *domain.Document, review *domain.VerificationReview) (*domain.VerificationReview, error) {
	var queued *domain.VerificationReview

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO documents (` + documentColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`

		_, err := tx.ExecContext(ctx, query,
			document.ID,
			document.PensionerID,
			document.DocumentType,
			document.ObjectKey,
			document.FileID,
			document.ContentType,
			document.SizeBytes,
			document.FaceMatchScore,
			document.CreatedAt,
		)
		if err != nil {
			return err
		}

		pending, err := pendingReview(ctx, tx, document.PensionerID, true)
		if err != nil || pending != nil {
			queued = pending
			return err
		}

		inserted, err := insertReview(ctx, tx, review)
		if err != nil {
			return err
		}
		if inserted {
			queued = review
			return nil
		}

		// A concurrent upload queued the review after our lookup
		queued, err = pendingReview(ctx, tx, document.PensionerID, false)
		if err == nil && queued == nil {
			err = sql.ErrNoRows
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return queued, nil
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	var document domain.Document
	if err := r.db.GetContext(ctx, &document, query, id); err != nil {
		return nil, err
	}

	return &document, nil
}

func (r *documentRepository) ListByPensioner(ctx context.Context, pensionerID uuid.UUID) ([]*domain.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE pensioner_id = $1
		ORDER BY created_at DESC
	`

	var documents []*domain.Document
	if err := r.db.SelectContext(ctx, &documents, query, pensionerID); err != nil {
		return nil, err
	}

	return documents, nil
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return requireRow(result, pkgErrors.ErrDocumentNotFound)
}

// pendingReview returns the pensioner's pending review, or nil when there is none.
func pendingReview(ctx context.Context, tx *sqlx.Tx, pensionerID uuid.UUID, lock bool) (*domain.VerificationReview, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM verification_reviews
		WHERE pensioner_id = $1 AND status = 'PENDING'
		ORDER BY created_at
		LIMIT 1
	`
	if lock {
		query += ` FOR UPDATE`
	}

	var pending domain.VerificationReview
	err := tx.GetContext(ctx, &pending, query, pensionerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pending, nil
}
