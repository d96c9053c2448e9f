package handler

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"github.com/segyhp/pension-verification/internal/auth"
	"github.com/segyhp/pension-verification/internal/domain"
	"github.com/segyhp/pension-verification/internal/ratelimit"
	"github.com/segyhp/pension-verification/pkg/metrics"
	"github.com/segyhp/pension-verification/pkg/response"
)

// Handlers groups the HTTP handlers mounted by NewRouter
type Handlers struct {
	Auth         *AuthHandler
	Pensioner    *PensionerHandler
	Verification *VerificationHandler
	Benefit      *BenefitHandler
	Document     *DocumentHandler
	Health       *HealthHandler
}

// RouterConfig carries the cross-cutting middleware dependencies. A nil
// Limiter disables rate limiting.
type RouterConfig struct {
	Verifier   auth.Verifier
	Limiter    ratelimit.Limiter
	APILimit   ratelimit.Limit
	LoginLimit ratelimit.Limit

	// Proxies whose forwarding headers identify the client; nil trusts none
	TrustedProxies *ratelimit.TrustedProxies

	CORSOrigins []string
	Metrics     *metrics.Metrics
}

// NewRouter mounts every route behind CORS, request IDs, request logging
// and, for the API, rate limiting and authentication.
func NewRouter(h Handlers, cfg RouterConfig) http.Handler {
	router := mux.NewRouter()
	router.Use(response.RequestIDMiddleware)
	router.Use(response.LoggingMiddleware(cfg.Metrics.ObserveRequest))
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	// Health check
	router.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", h.Health.Ready).Methods(http.MethodGet)
	router.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()
	if cfg.Limiter != nil {
		api.Use(ratelimit.Middleware(cfg.Limiter, "api", cfg.APILimit, cfg.TrustedProxies))
	}

	login := api.PathPrefix("/auth").Subrouter()
	if cfg.Limiter != nil {
		login.Use(ratelimit.Middleware(cfg.Limiter, "login", cfg.LoginLimit, cfg.TrustedProxies))
	}
	login.HandleFunc("/staff/login", h.Auth.StaffLogin).Methods(http.MethodPost)
	login.HandleFunc("/pensioner/login", h.Auth.PensionerLogin).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(auth.Authenticate(cfg.Verifier))

	pensioner := []domain.Role{domain.RolePensioner}
	staff := []domain.Role{domain.RoleAdmin, domain.RoleOfficer}
	admin := []domain.Role{domain.RoleAdmin}
	officer := []domain.Role{domain.RoleOfficer}

	routes := []struct {
		method  string
		path    string
		handler http.HandlerFunc
		roles   []domain.Role
	}{
		{http.MethodGet, "/me", h.Pensioner.Me, pensioner},
		{http.MethodGet, "/me/due-notification", h.Verification.DueNotification, pensioner},
		{http.MethodPost, "/me/due-notification/ack", h.Verification.AcknowledgeDueNotification, pensioner},
		{http.MethodGet, "/me/benefit", h.Benefit.Mine, pensioner},
		{http.MethodPost, "/me/documents", h.Document.Upload, pensioner},
		{http.MethodGet, "/me/documents", h.Document.ListMine, pensioner},
		{http.MethodDelete, "/me/documents/{documentId}", h.Document.Delete, pensioner},

		{http.MethodPost, "/admin/staff", h.Auth.CreateStaff, admin},
		{http.MethodGet, "/admin/pensioners", h.Pensioner.List, staff},
		{http.MethodPost, "/admin/pensioners", h.Pensioner.Create, admin},
		{http.MethodGet, "/admin/pensioners/{pensionerId}", h.Pensioner.Get, staff},
		{http.MethodPost, "/admin/pensioners/{pensionerId}/decision", h.Verification.DecidePensioner, admin},
		{http.MethodGet, "/admin/pensioners/{pensionerId}/logs", h.Verification.ListLogs, staff},
		{http.MethodGet, "/admin/pensioners/{pensionerId}/documents", h.Document.ListForPensioner, staff},
		{http.MethodGet, "/admin/pensioners/{pensionerId}/benefit", h.Benefit.ForPensioner, staff},

		{http.MethodPost, "/benefits/calculate", h.Benefit.Calculate, staff},
		{http.MethodGet, "/reviews/pending", h.Verification.ListPendingReviews, staff},
		{http.MethodPost, "/reviews/{reviewId}/decision", h.Verification.DecideReview, officer},
	}
	for _, rt := range routes {
		protected.Handle(rt.path, auth.RequireRoles(rt.roles...)(rt.handler)).Methods(rt.method)
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", response.RequestIDHeader},
		ExposedHeaders: []string{response.RequestIDHeader, "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	})(router)
}
