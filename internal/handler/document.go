package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/segyhp/pension-verification/internal/domain"
	pkgErrors "github.com/segyhp/pension-verification/pkg/errors"
	"github.com/segyhp/pension-verification/pkg/response"
)

type DocumentHandler struct {
	service        DocumentService
	validator      *validator.Validate
	maxUploadBytes int64
}

func NewDocumentHandler(service DocumentService, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{
		service:        service,
		validator:      NewValidator(),
		maxUploadBytes: maxUploadBytes,
	}
}

// Upload handles POST /api/v1/me/documents as multipart/form-data with a
// document file, a document_type field and an optional selfie file.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	pensionerID, ok := caller(w, r)
	if !ok {
		return
	}

	if r.ContentLength > h.maxUploadBytes {
		response.Error(w, http.StatusRequestEntityTooLarge, "Upload exceeds the size limit", nil)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge, "Upload exceeds the size limit", nil)
			return
		}
		response.BadRequest(w, "Invalid multipart payload", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	content, header, err := readFormFile(r, "document")
	if err != nil {
		response.ErrorWithCode(w, http.StatusBadRequest, pkgErrors.ErrCodeValidation, "document file is required", err)
		return
	}

	selfie, _, err := readFormFile(r, "selfie")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		response.BadRequest(w, "Invalid selfie file", err)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(content)
	}

	req := &domain.UploadDocumentRequest{
		DocumentType: strings.ToUpper(strings.TrimSpace(r.FormValue("document_type"))),
		FileName:     header.Filename,
		ContentType:  contentType,
		Content:      content,
		Selfie:       selfie,
	}
	if err := h.validator.Struct(req); err != nil {
		response.ErrorWithCode(w, http.StatusBadRequest, pkgErrors.ErrCodeValidation, "Validation failed", err)
		return
	}

	resp, err := h.service.Upload(r.Context(), pensionerID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, resp)
}

// ListMine handles GET /api/v1/me/documents
func (h *DocumentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	pensionerID, ok := caller(w, r)
	if !ok {
		return
	}

	documents, err := h.service.List(r.Context(), pensionerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, documents)
}

// ListForPensioner handles GET /api/v1/admin/pensioners/{pensionerId}/documents
func (h *DocumentHandler) ListForPensioner(w http.ResponseWriter, r *http.Request) {
	pensionerID, ok := pathUUID(w, r, "pensionerId")
	if !ok {
		return
	}

	documents, err := h.service.List(r.Context(), pensionerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, documents)
}

// Delete handles DELETE /api/v1/me/documents/{documentId}
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	pensionerID, ok := caller(w, r)
	if !ok {
		return
	}
	documentID, ok := pathUUID(w, r, "documentId")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), pensionerID, documentID); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w)
}

func readFormFile(r *http.Request, field string) ([]byte, *multipart.FileHeader, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, err
	}
	return content, header, nil
}
