package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/segyhp/pension-verification/internal/domain"
	"github.com/segyhp/pension-verification/pkg/response"
)

type VerificationHandler struct {
	service   VerificationService
	validator *validator.Validate
}

func NewVerificationHandler(service VerificationService) *VerificationHandler {
	return &VerificationHandler{
		service:   service,
		validator: NewValidator(),
	}
}

// DecidePensioner handles POST /api/v1/admin/pensioners/{pensionerId}/decision
func (h *VerificationHandler) DecidePensioner(w http.ResponseWriter, r *http.Request) {
	adminID, ok := caller(w, r)
	if !ok {
		return
	}
	pensionerID, ok := pathUUID(w, r, "pensionerId")
	if !ok {
		return
	}

	var req domain.DecisionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	resp, err := h.service.DecidePensioner(r.Context(), adminID, pensionerID, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, resp)
}

// DecideReview handles POST /api/v1/reviews/{reviewId}/decision
func (h *VerificationHandler) DecideReview(w http.ResponseWriter, r *http.Request) {
	officerID, ok := caller(w, r)
	if !ok {
		return
	}
	reviewID, ok := pathUUID(w, r, "reviewId")
	if !ok {
		return
	}

	var req domain.ReviewDecisionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	resp, err := h.service.DecideReview(r.Context(), officerID, reviewID, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, resp)
}

// ListPendingReviews handles GET /api/v1/reviews/pending?limit=&offset=
func (h *VerificationHandler) ListPendingReviews(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, r, err)
		return
	}

	reviews, err := h.service.ListPendingReviews(r.Context(), limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, reviews)
}

// ListLogs handles GET /api/v1/admin/pensioners/{pensionerId}/logs
func (h *VerificationHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	pensionerID, ok := pathUUID(w, r, "pensionerId")
	if !ok {
		return
	}

	entries, err := h.service.ListLogs(r.Context(), pensionerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, entries)
}

// DueNotification handles GET /api/v1/me/due-notification
func (h *VerificationHandler) DueNotification(w http.ResponseWriter, r *http.Request) {
	pensionerID, ok := caller(w, r)
	if !ok {
		return
	}

	resp, err := h.service.DueNotification(r.Context(), pensionerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, resp)
}

// AcknowledgeDueNotification handles POST /api/v1/me/due-notification/ack
func (h *VerificationHandler) AcknowledgeDueNotification(w http.ResponseWriter, r *http.Request) {
	pensionerID, ok := caller(w, r)
	if !ok {
		return
	}

	if err := h.service.AcknowledgeDueNotification(r.Context(), pensionerID); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w)
}
