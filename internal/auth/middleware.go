package auth

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/segyhp/pension-verification/internal/domain"
	pkgErrors "github.com/segyhp/pension-verification/pkg/errors"
	"github.com/segyhp/pension-verification/pkg/logger"
	"github.com/segyhp/pension-verification/pkg/response"
)

// Verifier turns a bearer token into a principal
type Verifier interface {
	Verify(token string) (Principal, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// principal in the request context.
func Authenticate(verifier Verifier) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				response.ErrorWithCode(w, http.StatusUnauthorized, pkgErrors.ErrCodeInvalidToken, "Missing bearer token", nil)
				return
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				logger.Debug(r.Context(), "token rejected", "error", err)
				response.ErrorWithCode(w, http.StatusUnauthorized, pkgErrors.ErrCodeInvalidToken, "Invalid or expired token", nil)
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			ctx = logger.WithAttrs(ctx, "role", principal.Role(), "subject", principal.Subject())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles allows only principals holding one of roles. It must run
// after Authenticate.
func RequireRoles(roles ...domain.Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := FromContext(r.Context())
			if !ok {
				response.ErrorWithCode(w, http.StatusUnauthorized, pkgErrors.ErrCodeInvalidToken, "Missing bearer token", nil)
				return
			}

			for _, role := range roles {
				if principal.Role() == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w, "Insufficient role for this operation")
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
