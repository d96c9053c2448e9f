package handler

import (
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/segyhp/pension-verification/internal/auth"
	pkgErrors "github.com/segyhp/pension-verification/pkg/errors"
	"github.com/segyhp/pension-verification/pkg/logger"
	"github.com/segyhp/pension-verification/pkg/response"
)

const maxJSONBodyBytes = 1 << 20

// NewValidator returns a validator that also understands decimal.Decimal
// fields, compared as float64.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// decodeAndValidate reads a JSON body into dst and validates it. It writes
// the 400 response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid JSON payload", err)
		return false
	}

	if err := v.Struct(dst); err != nil {
		response.ErrorWithCode(w, http.StatusBadRequest, pkgErrors.ErrCodeValidation, "Validation failed", err)
		return false
	}
	return true
}

// pathUUID parses a mux path variable, writing 400 when it is not a UUID.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.ErrorWithCode(w, http.StatusBadRequest, pkgErrors.ErrCodeValidation, "Invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}

// queryInt reads an optional non-negative integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, pkgErrors.NewBusinessError(pkgErrors.ErrCodeValidation, name+" must be a non-negative integer", err)
	}
	return n, nil
}

// caller returns the authenticated principal's ID.
func caller(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		response.ErrorWithCode(w, http.StatusUnauthorized, pkgErrors.ErrCodeInvalidToken, "Missing bearer token", nil)
		return uuid.Nil, false
	}
	return principal.Subject(), true
}

var statusByCode = map[string]int{
	pkgErrors.ErrCodeInvalidAction:          http.StatusBadRequest,
	pkgErrors.ErrCodeInvalidDecision:        http.StatusBadRequest,
	pkgErrors.ErrCodeInvalidDateRange:       http.StatusBadRequest,
	pkgErrors.ErrCodeValidation:             http.StatusBadRequest,
	pkgErrors.ErrCodeUnsupportedMedia:       http.StatusBadRequest,
	pkgErrors.ErrCodeInvalidToken:           http.StatusUnauthorized,
	pkgErrors.ErrCodeInvalidCredentials:     http.StatusUnauthorized,
	pkgErrors.ErrCodePensionerNotFound:      http.StatusNotFound,
	pkgErrors.ErrCodeReviewNotFound:         http.StatusNotFound,
	pkgErrors.ErrCodeDocumentNotFound:       http.StatusNotFound,
	pkgErrors.ErrCodeReviewAlreadyDecided:   http.StatusConflict,
	pkgErrors.ErrCodePensionerAlreadyExists: http.StatusConflict,
	pkgErrors.ErrCodeStaffAlreadyExists:     http.StatusConflict,
	pkgErrors.ErrCodeDatabaseError:          http.StatusInternalServerError,
	pkgErrors.ErrCodeStorageError:           http.StatusInternalServerError,
	pkgErrors.ErrCodeFaceMatchError:         http.StatusBadGateway,
}

// writeError maps a service error to its HTTP status. Details of server-side
// failures are logged, not returned.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var be *pkgErrors.BusinessError
	if !errors.As(err, &be) {
		logger.Error(r.Context(), "unhandled error", "error", err)
		response.InternalServerError(w, "Internal server error", nil)
		return
	}

	status, ok := statusByCode[be.Code]
	if !ok {
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		logger.Error(r.Context(), "request failed", "code", be.Code, "error", err)
	}
	response.ErrorWithCode(w, status, be.Code, be.Message, nil)
}
