package handler

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/segyhp/pension-verification/internal/domain"
	pkgErrors "github.com/segyhp/pension-verification/pkg/errors"
	"github.com/segyhp/pension-verification/pkg/response"
)

var listableStatuses = map[domain.VerificationStatus]bool{
	domain.StatusPending:  true,
	domain.StatusVerified: true,
	domain.StatusFlagged:  true,
	domain.StatusRejected: true,
}

type PensionerHandler struct {
	service   PensionerService
	validator *validator.Validate
}

func NewPensionerHandler(service PensionerService) *PensionerHandler {
	return &PensionerHandler{
		service:   service,
		validator: NewValidator(),
	}
}

// Create handles POST /api/v1/admin/pensioners
func (h *PensionerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePensionerRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	pensioner, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, pensioner)
}

// List handles GET /api/v1/admin/pensioners?status=&limit=&offset=
func (h *PensionerHandler) List(w http.ResponseWriter, r *http.Request) {
	query := domain.ListPensionersQuery{
		Status: domain.VerificationStatus(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status")))),
	}
	if query.Status != "" && !listableStatuses[query.Status] {
		writeError(w, r, pkgErrors.NewBusinessError(pkgErrors.ErrCodeValidation, "Unknown status filter "+string(query.Status), nil))
		return
	}

	var err error
	if query.Limit, err = queryInt(r, "limit"); err != nil {
		writeError(w, r, err)
		return
	}
	if query.Offset, err = queryInt(r, "offset"); err != nil {
		writeError(w, r, err)
		return
	}

	pensioners, err := h.service.List(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, pensioners)
}

// Get handles GET /api/v1/admin/pensioners/{pensionerId}
func (h *PensionerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "pensionerId")
	if !ok {
		return
	}

	pensioner, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, pensioner)
}

// Me handles GET /api/v1/me
func (h *PensionerHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	pensioner, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, pensioner)
}
