package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/pension-verification/internal/auth"
	"github.com/segyhp/pension-verification/internal/domain"
	"github.com/segyhp/pension-verification/internal/repository"
	pkgErrors "github.com/segyhp/pension-verification/pkg/errors"
	"github.com/segyhp/pension-verification/pkg/logger"
)

// TokenIssuer signs access tokens
type TokenIssuer interface {
	Issue(p auth.Principal) (string, time.Time, error)
}

type AuthService struct {
	staffRepo     repository.StaffRepository
	pensionerRepo repository.PensionerRepository
	tokens        TokenIssuer
	now           Clock
}

func NewAuthService(
	staffRepo repository.StaffRepository,
	pensionerRepo repository.PensionerRepository,
	tokens TokenIssuer,
	now Clock,
) *AuthService {
	return &AuthService{
		staffRepo:     staffRepo,
		pensionerRepo: pensionerRepo,
		tokens:        tokens,
		now:           now,
	}
}

// StaffLogin checks an admin or officer's email and password
func (s *AuthService) StaffLogin(ctx context.Context, req *domain.StaffLoginRequest) (*domain.LoginResponse, error) {
	user, err := s.staffRepo.GetByEmail(ctx, req.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgErrors.WrapInvalidCredentials()
	}
	if err != nil {
		return nil, pkgErrors.WrapDatabaseError(err)
	}

	if !s.passwordMatches(ctx, user.PasswordHash, req.Password) {
		return nil, pkgErrors.WrapInvalidCredentials()
	}

	var principal auth.Principal
	switch user.Role {
	case domain.RoleAdmin:
		principal = auth.AdminPrincipal{ID: user.ID, Email: user.Email}
	case domain.RoleOfficer:
		principal = auth.OfficerPrincipal{ID: user.ID, Email: user.Email}
	default:
		logger.Warn(ctx, "staff account with unexpected role", "staff_id", user.ID, "role", user.Role)
		return nil, pkgErrors.WrapInvalidCredentials()
	}

	return s.issue(principal)
}

// PensionerLogin checks a pensioner's pension ID and password
func (s *AuthService) PensionerLogin(ctx context.Context, req *domain.PensionerLoginRequest) (*domain.LoginResponse, error) {
	pensioner, err := s.pensionerRepo.GetByPensionID(ctx, req.PensionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgErrors.WrapInvalidCredentials()
	}
	if err != nil {
		return nil, pkgErrors.WrapDatabaseError(err)
	}

	if !s.passwordMatches(ctx, pensioner.PasswordHash, req.Password) {
		return nil, pkgErrors.WrapInvalidCredentials()
	}

	return s.issue(auth.PensionerPrincipal{ID: pensioner.ID, PensionID: pensioner.PensionID})
}

// CreateStaff registers an admin or officer account
func (s *AuthService) CreateStaff(ctx context.Context, req *domain.CreateStaffRequest) (*domain.StaffUser, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.StaffUser{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		FullName:     req.FullName,
		PasswordHash: hash,
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.staffRepo.Create(ctx, user); err != nil {
		if errors.Is(err, pkgErrors.ErrStaffAlreadyExists) {
			return nil, pkgErrors.WrapStaffAlreadyExists(user.Email)
		}
		return nil, pkgErrors.WrapDatabaseError(err)
	}

	logger.Info(ctx, "staff account created", "staff_id", user.ID, "role", user.Role)
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account if it does not exist yet
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	_, err := s.staffRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return pkgErrors.WrapDatabaseError(err)
	}

	_, err = s.CreateStaff(ctx, &domain.CreateStaffRequest{
		Email:    email,
		FullName: "Administrator",
		Password: password,
		Role:     domain.RoleAdmin,
	})
	if errors.Is(err, pkgErrors.ErrStaffAlreadyExists) {
		return nil
	}
	return err
}

func (s *AuthService) passwordMatches(ctx context.Context, hash, password string) bool {
	ok, err := auth.CheckPassword(hash, password)
	if err != nil {
		logger.Error(ctx, "stored password hash is unusable", "error", err)
		return false
	}
	return ok
}

func (s *AuthService) issue(principal auth.Principal) (*domain.LoginResponse, error) {
	token, expiresAt, err := s.tokens.Issue(principal)
	if err != nil {
		return nil, err
	}

	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Role:      principal.Role(),
	}, nil
}
