package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/segyhp/pension-verification/internal/domain"
)

// Principal is the authenticated caller. It is one of AdminPrincipal,
// OfficerPrincipal or PensionerPrincipal and is only produced by
// TokenManager.Verify.
type Principal interface {
	Role() domain.Role
	Subject() uuid.UUID
	principal()
}

type AdminPrincipal struct {
	ID    uuid.UUID
	Email string
}

func (AdminPrincipal) Role() domain.Role    { return domain.RoleAdmin }
func (p AdminPrincipal) Subject() uuid.UUID { return p.ID }
func (AdminPrincipal) principal()           {}

type OfficerPrincipal struct {
	ID    uuid.UUID
	Email string
}

func (OfficerPrincipal) Role() domain.Role    { return domain.RoleOfficer }
func (p OfficerPrincipal) Subject() uuid.UUID { return p.ID }
func (OfficerPrincipal) principal()           {}

type PensionerPrincipal struct {
	ID        uuid.UUID
	PensionID string
}

func (PensionerPrincipal) Role() domain.Role    { return domain.RolePensioner }
func (p PensionerPrincipal) Subject() uuid.UUID { return p.ID }
func (PensionerPrincipal) principal()           {}

type principalKey struct{}

// WithPrincipal stores p in the request context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal set by Authenticate.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
