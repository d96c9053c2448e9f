package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/segyhp/pension-verification/internal/domain"
	"github.com/segyhp/pension-verification/pkg/response"
)

type AuthHandler struct {
	service   AuthService
	validator *validator.Validate
}

func NewAuthHandler(service AuthService) *AuthHandler {
	return &AuthHandler{
		service:   service,
		validator: NewValidator(),
	}
}

// StaffLogin handles POST /api/v1/auth/staff/login
func (h *AuthHandler) StaffLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.StaffLoginRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	resp, err := h.service.StaffLogin(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, resp)
}

// PensionerLogin handles POST /api/v1/auth/pensioner/login
func (h *AuthHandler) PensionerLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.PensionerLoginRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	resp, err := h.service.PensionerLogin(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, resp)
}

// CreateStaff handles POST /api/v1/admin/staff
func (h *AuthHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateStaffRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.service.CreateStaff(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, user)
}
