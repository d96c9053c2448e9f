package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/segyhp/pension-verification/internal/domain"
	"github.com/segyhp/pension-verification/internal/facematch"
	"github.com/segyhp/pension-verification/internal/repository"
	"github.com/segyhp/pension-verification/internal/storage"
	pkgErrors "github.com/segyhp/pension-verification/pkg/errors"
	"github.com/segyhp/pension-verification/pkg/logger"
	"github.com/segyhp/pension-verification/pkg/metrics"
)

// Accepted upload types and the extension used when the file name has none
var documentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

type DocumentService struct {
	pensionerRepo repository.PensionerRepository
	documentRepo  repository.DocumentRepository
	store         storage.ObjectStore
	matcher       facematch.Matcher
	metrics       *metrics.Metrics
	now           Clock
}

// NewDocumentService wires the upload flow. matcher may be nil, in which case
// selfies are ignored.
func NewDocumentService(
	pensionerRepo repository.PensionerRepository,
	documentRepo repository.DocumentRepository,
	store storage.ObjectStore,
	matcher facematch.Matcher,
	m *metrics.Metrics,
	now Clock,
) *DocumentService {
	return &DocumentService{
		pensionerRepo: pensionerRepo,
		documentRepo:  documentRepo,
		store:         store,
		matcher:       matcher,
		metrics:       m,
		now:           now,
	}
}

// Upload stores an identity document and queues it for officer review. The
// pensioner's verification status is left unchanged.
func (s *DocumentService) Upload(ctx context.Context, pensionerID uuid.UUID, req *domain.UploadDocumentRequest) (*domain.UploadDocumentResponse, error) {
	contentType := normalizeContentType(req.ContentType)
	defaultExt, ok := documentTypes[contentType]
	if !ok {
		return nil, pkgErrors.WrapUnsupportedMedia(req.ContentType)
	}

	if _, err := getPensioner(ctx, s.pensionerRepo, pensionerID); err != nil {
		return nil, err
	}

	var score *float64
	if len(req.Selfie) > 0 && s.matcher != nil {
		if contentType == "application/pdf" {
			return nil, pkgErrors.WrapUnsupportedMedia("application/pdf with selfie")
		}
		value, err := s.matcher.Compare(ctx, req.Content, req.Selfie)
		if err != nil {
			return nil, pkgErrors.WrapFaceMatchError(err)
		}
		score = &value
	}

	now := s.now()
	documentID := uuid.New()
	key := objectKey(pensionerID, req.FileName, defaultExt)

	fileID, err := s.store.Upload(ctx, req.Content, key, contentType)
	if err != nil {
		return nil, pkgErrors.WrapStorageError(err)
	}

	document := &domain.Document{
		ID:             documentID,
		PensionerID:    pensionerID,
		DocumentType:   req.DocumentType,
		ObjectKey:      key,
		FileID:         fileID,
		ContentType:    contentType,
		SizeBytes:      int64(len(req.Content)),
		FaceMatchScore: score,
		CreatedAt:      now,
	}
	review := &domain.VerificationReview{
		ID:          uuid.New(),
		PensionerID: pensionerID,
		DocumentID:  &documentID,
		Status:      domain.StatusPending,
		CreatedAt:   now,
	}

	queued, err := s.documentRepo.CreateWithReview(ctx, document, review)
	if err != nil {
		if delErr := s.store.Delete(ctx, fileID, key); delErr != nil {
			logger.Error(ctx, "removing orphaned upload", "object_key", key, "error", delErr)
		}
		return nil, pkgErrors.WrapDatabaseError(err)
	}

	s.metrics.DocumentsUploaded.Inc()
	logger.Info(ctx, "document uploaded",
		"pensioner_id", pensionerID,
		"document_id", documentID,
		"review_id", queued.ID,
	)

	return &domain.UploadDocumentResponse{Document: document, Review: queued}, nil
}

// List returns a pensioner's documents, newest first
func (s *DocumentService) List(ctx context.Context, pensionerID uuid.UUID) ([]*domain.Document, error) {
	if _, err := getPensioner(ctx, s.pensionerRepo, pensionerID); err != nil {
		return nil, err
	}

	documents, err := s.documentRepo.ListByPensioner(ctx, pensionerID)
	if err != nil {
		return nil, pkgErrors.WrapDatabaseError(err)
	}
	return documents, nil
}

// Delete removes one of the pensioner's own documents from storage and the
// database. Another pensioner's document is reported as not found.
func (s *DocumentService) Delete(ctx context.Context, pensionerID, documentID uuid.UUID) error {
	document, err := s.documentRepo.GetByID(ctx, documentID)
	if errors.Is(err, sql.ErrNoRows) {
		return pkgErrors.WrapDocumentNotFound(documentID.String())
	}
	if err != nil {
		return pkgErrors.WrapDatabaseError(err)
	}
	if document.PensionerID != pensionerID {
		return pkgErrors.WrapDocumentNotFound(documentID.String())
	}

	if err := s.store.Delete(ctx, document.FileID, document.ObjectKey); err != nil {
		return pkgErrors.WrapStorageError(err)
	}

	if err := s.documentRepo.Delete(ctx, documentID); err != nil {
		if errors.Is(err, pkgErrors.ErrDocumentNotFound) {
			return pkgErrors.WrapDocumentNotFound(documentID.String())
		}
		return pkgErrors.WrapDatabaseError(err)
	}

	logger.Info(ctx, "document deleted", "pensioner_id", pensionerID, "document_id", documentID)
	return nil
}

func normalizeContentType(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// objectKey is pensioners/<pensionerId>/<uuid><ext>
func objectKey(pensionerID uuid.UUID, fileName, defaultExt string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" || len(ext) > 6 {
		ext = defaultExt
	}
	return "pensioners/" + pensionerID.String() + "/" + uuid.NewString() + ext
}
