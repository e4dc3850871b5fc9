package usecase

import (
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	CodeNotFound         = "NOT_FOUND"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeForbidden        = "FORBIDDEN"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInternal         = "INTERNAL_ERROR"
)

// DomainError is a failure the caller can act on (bad input, missing lead).
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is an infrastructure failure (store down, driver error).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ErrorCode extracts the code of a usecase error, or CodeInternal.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return CodeInternal
}

// Classify turns a store or validation error into a usecase error.
func Classify(err error, msg string) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) || IsTechnicalError(err) {
		return err
	}
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return &DomainError{Code: CodeNotFound, Message: msg + ": " + err.Error(), Err: err}
	case errors.Is(err, entity.ErrValidation):
		return &DomainError{Code: CodeValidationFailed, Message: msg + ": " + err.Error(), Err: err}
	case errors.Is(err, entity.ErrForbidden):
		return &DomainError{Code: CodeForbidden, Message: msg + ": " + err.Error(), Err: err}
	case errors.Is(err, entity.ErrStoreUnavailable):
		return &TechnicalError{Code: CodeStoreUnavailable, Message: msg + ": " + err.Error(), Err: err}
	}
	return &TechnicalError{Code: CodeInternal, Message: msg + ": " + err.Error(), Err: err}
}

func validationError(errs []ValidationError) error {
	msg := "validation failed: "
	for i, e := range errs {
		if i > 0 {
			msg += ", "
		}
		msg += e.Field + " (" + e.Message + ")"
	}
	return &DomainError{Code: CodeValidationFailed, Message: msg, Err: entity.ErrValidation}
}

func forbidden(msg string) error {
	return &DomainError{Code: CodeForbidden, Message: msg, Err: entity.ErrForbidden}
}

// FailureKind names an advisory step that failed after the authoritative write.
type FailureKind string

const (
	AuditNoteFailed    FailureKind = "AuditNoteFailed"
	NotificationFailed FailureKind = "NotificationFailed"
	EmailFailed        FailureKind = "EmailFailed"
)

type SubFailure struct {
	Kind FailureKind `json:"kind"`
	Err  error       `json:"-"`
}

func (f SubFailure) Error() string {
	if f.Err == nil {
		return string(f.Kind)
	}
	return string(f.Kind) + ": " + f.Err.Error()
}

// Kinds flattens a failure list to its kinds, in order.
func Kinds(failures []SubFailure) []FailureKind {
	kinds := make([]FailureKind, 0, len(failures))
	for _, f := range failures {
		kinds = append(kinds, f.Kind)
	}
	return kinds
}
