package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/segyhp/pension-verification/internal/domain"
	pkgErrors "github.com/segyhp/pension-verification/pkg/errors"
)

type staffRepository struct {
	db *sqlx.DB
}

func NewStaffRepository(db *sqlx.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) Create(ctx context.Context, user *domain.StaffUser) error {
	query := `
		INSERT INTO staff_users (id, email, full_name, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("staff email %s: %w", user.Email, pkgErrors.ErrStaffAlreadyExists)
	}

	return err
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error) {
	query := `
		SELECT id, email, full_name, password_hash, role, created_at, updated_at
		FROM staff_users
		WHERE lower(email) = lower($1)
	`

	var user domain.StaffUser
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}

	return &user, nil
}
