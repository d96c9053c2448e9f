package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/segyhp/pension-verification/internal/domain"
	"github.com/segyhp/pension-verification/pkg/response"
)

type BenefitHandler struct {
	service   BenefitService
	validator *validator.Validate
}

func NewBenefitHandler(service BenefitService) *BenefitHandler {
	return &BenefitHandler{
		service:   service,
		validator: NewValidator(),
	}
}

// Calculate handles POST /api/v1/benefits/calculate
func (h *BenefitHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req domain.CalculateBenefitRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	resp, err := h.service.Calculate(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, resp)
}

// ForPensioner handles GET /api/v1/admin/pensioners/{pensionerId}/benefit
func (h *BenefitHandler) ForPensioner(w http.ResponseWriter, r *http.Request) {
	pensionerID, ok := pathUUID(w, r, "pensionerId")
	if !ok {
		return
	}

	resp, err := h.service.ForPensioner(r.Context(), pensionerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, resp)
}

// Mine handles GET /api/v1/me/benefit
func (h *BenefitHandler) Mine(w http.ResponseWriter, r *http.Request) {
	pensionerID, ok := caller(w, r)
	if !ok {
		return
	}

	resp, err := h.service.ForPensioner(r.Context(), pensionerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, resp)
}
