// Package auth issues and verifies access tokens, hashes passwords and
// guards routes by role.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/segyhp/pension-verification/internal/domain"
	pkgErrors "github.com/segyhp/pension-verification/pkg/errors"
)

// Claims is the access token payload
type Claims struct {
	Role      domain.Role `json:"role"`
	Email     string      `json:"email,omitempty"`
	PensionID string      `json:"pension_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 access tokens
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for p and returns it with its expiry.
func (m *TokenManager) Issue(p Principal) (string, time.Time, error) {
	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.ttl)

	claims := Claims{
		Role: p.Role(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject().String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	switch v := p.(type) {
	case AdminPrincipal:
		claims.Email = v.Email
	case OfficerPrincipal:
		claims.Email = v.Email
	case PensionerPrincipal:
		claims.PensionID = v.PensionID
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify parses a token and returns its principal. Any failure, including
// an unknown role or a missing role-specific field, is ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (Principal, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, pkgErrors.WrapInvalidToken(err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, pkgErrors.WrapInvalidToken(fmt.Errorf("subject: %w", err))
	}

	switch claims.Role {
	case domain.RoleAdmin:
		return AdminPrincipal{ID: id, Email: claims.Email}, nil
	case domain.RoleOfficer:
		return OfficerPrincipal{ID: id, Email: claims.Email}, nil
	case domain.RolePensioner:
		if claims.PensionID == "" {
			return nil, pkgErrors.WrapInvalidToken(fmt.Errorf("pensioner token without pension_id"))
		}
		return PensionerPrincipal{ID: id, PensionID: claims.PensionID}, nil
	default:
		return nil, pkgErrors.WrapInvalidToken(fmt.Errorf("unknown role %q", claims.Role))
	}
}
