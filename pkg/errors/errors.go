package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrPensionerNotFound      = errors.New("pensioner not found")
	ErrPensionerAlreadyExists = errors.New("pensioner already exists")
	ErrStaffAlreadyExists     = errors.New("staff user already exists")
	ErrReviewNotFound         = errors.New("review not found")
	ErrReviewAlreadyDecided   = errors.New("review already decided")
	ErrDocumentNotFound       = errors.New("document not found")
	ErrInvalidAction          = errors.New("invalid action")
	ErrInvalidDecision        = errors.New("invalid decision")
	ErrInvalidDateRange       = errors.New("retirement date is before first appointment")
	ErrInvalidToken           = errors.New("invalid token")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUnsupportedMedia       = errors.New("unsupported media type")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodePensionerNotFound      = "PENSIONER_NOT_FOUND"
	ErrCodePensionerAlreadyExists = "PENSIONER_ALREADY_EXISTS"
	ErrCodeStaffAlreadyExists     = "STAFF_ALREADY_EXISTS"
	ErrCodeReviewNotFound         = "REVIEW_NOT_FOUND"
	ErrCodeReviewAlreadyDecided   = "REVIEW_ALREADY_DECIDED"
	ErrCodeDocumentNotFound       = "DOCUMENT_NOT_FOUND"
	ErrCodeInvalidAction          = "INVALID_ACTION"
	ErrCodeInvalidDecision        = "INVALID_DECISION"
	ErrCodeInvalidDateRange       = "INVALID_DATE_RANGE"
	ErrCodeInvalidToken           = "INVALID_TOKEN"
	ErrCodeInvalidCredentials     = "INVALID_CREDENTIALS"
	ErrCodeUnsupportedMedia       = "UNSUPPORTED_MEDIA"
	ErrCodeValidation             = "VALIDATION_ERROR"
	ErrCodeDatabaseError          = "DATABASE_ERROR"
	ErrCodeStorageError           = "STORAGE_ERROR"
	ErrCodeFaceMatchError         = "FACE_MATCH_ERROR"
)

// Code returns the business code carried by err, or an empty string.
func Code(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// Wrap common errors with business context
func WrapPensionerNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodePensionerNotFound,
		fmt.Sprintf("Pensioner with ID %s not found", id),
		ErrPensionerNotFound,
	)
}

func WrapPensionerAlreadyExists(pensionID string) *BusinessError {
	return NewBusinessError(
		ErrCodePensionerAlreadyExists,
		fmt.Sprintf("Pensioner with pension ID %s already exists", pensionID),
		ErrPensionerAlreadyExists,
	)
}

func WrapStaffAlreadyExists(email string) *BusinessError {
	return NewBusinessError(
		ErrCodeStaffAlreadyExists,
		fmt.Sprintf("Staff user with email %s already exists", email),
		ErrStaffAlreadyExists,
	)
}

func WrapReviewNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeReviewNotFound,
		fmt.Sprintf("Review with ID %s not found", id),
		ErrReviewNotFound,
	)
}

func WrapReviewAlreadyDecided(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeReviewAlreadyDecided,
		fmt.Sprintf("Review with ID %s has already been decided", id),
		ErrReviewAlreadyDecided,
	)
}

func WrapDocumentNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeDocumentNotFound,
		fmt.Sprintf("Document with ID %s not found", id),
		ErrDocumentNotFound,
	)
}

func WrapInvalidAction(action string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidAction,
		fmt.Sprintf("Action %q is not one of approve, flag, reject", action),
		ErrInvalidAction,
	)
}

func WrapInvalidDecision(decision string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidDecision,
		fmt.Sprintf("Decision %q is not one of APPROVE, REJECT", decision),
		ErrInvalidDecision,
	)
}

func WrapInvalidDateRange(appointment, retirement string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidDateRange,
		fmt.Sprintf("Retirement date %s is before first appointment %s", retirement, appointment),
		ErrInvalidDateRange,
	)
}

func WrapInvalidToken(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidToken,
		"Token is missing, malformed or expired",
		errors.Join(ErrInvalidToken, err),
	)
}

func WrapInvalidCredentials() *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidCredentials,
		"Invalid credentials",
		ErrInvalidCredentials,
	)
}

func WrapUnsupportedMedia(contentType string) *BusinessError {
	return NewBusinessError(
		ErrCodeUnsupportedMedia,
		fmt.Sprintf("Content type %s is not accepted", contentType),
		ErrUnsupportedMedia,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapStorageError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeStorageError,
		"Object storage operation failed",
		err,
	)
}

func WrapFaceMatchError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeFaceMatchError,
		"Face verification failed",
		err,
	)
}
