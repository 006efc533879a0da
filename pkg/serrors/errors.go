package serrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

// BaseError is a coded error for infrastructure-level failures.
type BaseError struct {
	Code    string
	Message string
}

func (e *BaseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code, message string) *BaseError {
	return &BaseError{Code: code, Message: message}
}

// ServiceError is the error every service operation returns past the
// boundary: an HTTP-equivalent status, a stable code and a human reason.
// Nothing uncategorized escapes the service layer.
type ServiceError struct {
	Status  int
	Code    string
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

func NewNotFound(code, message string) *ServiceError {
	return &ServiceError{Status: http.StatusNotFound, Code: code, Message: message}
}

func NewValidation(code, message string) *ServiceError {
	return &ServiceError{Status: http.StatusBadRequest, Code: code, Message: message}
}

func NewConflict(code, message string) *ServiceError {
	return &ServiceError{Status: http.StatusConflict, Code: code, Message: message}
}

func NewInvalidState(code, message string) *ServiceError {
	return &ServiceError{Status: http.StatusConflict, Code: code, Message: message}
}

func NewUnauthorized(code, message string) *ServiceError {
	return &ServiceError{Status: http.StatusUnauthorized, Code: code, Message: message}
}

func NewInternal(message string, cause error) *ServiceError {
	return &ServiceError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL",
		Message: message,
		Cause:   cause,
	}
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// MapIntegrity translates store-level uniqueness and foreign-key violations
// into conflicts. Other errors pass through untouched so transient store
// failures keep their identity.
func MapIntegrity(err error, code, message string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation:
			return &ServiceError{
				Status:  http.StatusConflict,
				Code:    code,
				Message: message,
				Cause:   err,
			}
		}
	}
	return err
}

// IsIntegrity reports whether err is a store uniqueness or FK violation.
func IsIntegrity(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgUniqueViolation || pgErr.Code == pgForeignKeyViolation
}
