package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	DocumentIDCard         = "ID_CARD"
	DocumentPassport       = "PASSPORT"
	DocumentDriversLicense = "DRIVERS_LICENSE"
	DocumentSelfie         = "SELFIE"
	DocumentOther          = "OTHER"
)

// Document is an identity document uploaded by a pensioner
type Document struct {
	ID             uuid.UUID `json:"id" db:"id"`
	PensionerID    uuid.UUID `json:"pensioner_id" db:"pensioner_id"`
	DocumentType   string    `json:"document_type" db:"document_type"`
	ObjectKey      string    `json:"object_key" db:"object_key"`
	FileID         string    `json:"file_id" db:"file_id"`
	ContentType    string    `json:"content_type" db:"content_type"`
	SizeBytes      int64     `json:"size_bytes" db:"size_bytes"`
	FaceMatchScore *float64  `json:"face_match_score" db:"face_match_score"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// UploadDocumentRequest carries a pensioner upload after multipart parsing
type UploadDocumentRequest struct {
	DocumentType string `validate:"required,oneof=ID_CARD PASSPORT DRIVERS_LICENSE SELFIE OTHER"`
	FileName     string `validate:"required"`
	ContentType  string `validate:"required"`
	Content      []byte `validate:"required"`
	Selfie       []byte
}

type UploadDocumentResponse struct {
	Document *Document          `json:"document"`
	Review   *VerificationReview `json:"review"`
}
