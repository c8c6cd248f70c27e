package common

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound       = errors.New("requested resource not found")
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrForbidden      = errors.New("forbidden access")
	ErrBadRequest     = errors.New("bad request")
	ErrConflict       = errors.New("resource conflict")
	ErrInternalServer = errors.New("internal server error")
	ErrValidation     = errors.New("validation failed")
)

// apiError pairs a taxonomy sentinel with the exact message sent to clients.
// errors.Is against the sentinel drives status mapping while Error() stays
// human-readable.
type apiError struct {
	kind    error
	message string
}

func (e *apiError) Error() string { return e.message }
func (e *apiError) Unwrap() error { return e.kind }

func NewError(kind error, message string) error {
	return &apiError{kind: kind, message: message}
}

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// TranslateDBError converts Postgres constraint violations into BadRequest
// errors with generic messages so SQLSTATE codes never reach clients. Any
// other error is returned unchanged.
func TranslateDBError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505": // unique_violation
		return NewError(ErrBadRequest, "Duplicate field value entered")
	case "23503": // foreign_key_violation
		return NewError(ErrBadRequest, "Referenced record not found")
	case "23502": // not_null_violation
		return NewError(ErrBadRequest, "Required field is missing")
	case "23514": // check_violation
		return NewError(ErrBadRequest, "Invalid value for field")
	}
	return err
}
