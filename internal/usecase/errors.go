package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Error codes surfaced to transports.
const (
	CodeNotFound      = "NOT_FOUND"
	CodeQuotaExceeded = "QUOTA_EXCEEDED"
	CodeValidation    = "VALIDATION_ERROR"
	CodeStore         = "STORE_ERROR"
)

// CodedError is implemented by every error the use cases return on purpose.
type CodedError interface {
	error
	Code() string
}

// NotFoundError means the referenced entity no longer exists for the owner.
type NotFoundError struct {
	Kind entity.Kind
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Code() string { return CodeNotFound }

// Is lets errors.Is(err, entity.ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool { return target == entity.ErrNotFound }

// QuotaExceededError is returned when the daily focus cap is already reached.
type QuotaExceededError struct {
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("maximum %d focus tasks allowed for today", e.Limit)
}

func (e *QuotaExceededError) Code() string { return CodeQuotaExceeded }

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every failed rule of one input.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (v ValidationErrors) Code() string { return CodeValidation }

// StoreError wraps an opaque persistence failure. It is never retried.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Code() string { return CodeStore }

func (e *StoreError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsQuotaExceeded(err error) bool {
	var q *QuotaExceededError
	return errors.As(err, &q)
}

func IsValidation(err error) bool {
	var v ValidationErrors
	return errors.As(err, &v)
}

func IsStoreError(err error) bool {
	var s *StoreError
	return errors.As(err, &s)
}

// ErrorCode returns the transport code for err, CodeStore when unknown.
func ErrorCode(err error) string {
	var coded CodedError
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return CodeStore
}

// lookupErr converts a repository read failure into NotFoundError or StoreError.
func lookupErr(kind entity.Kind, id int64, err error) error {
	if errors.Is(err, entity.ErrNotFound) {
		return &NotFoundError{Kind: kind, ID: id}
	}
	return &StoreError{Op: fmt.Sprintf("load %s %d", kind, id), Err: err}
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

func validationErr(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	return ValidationErrors(errs)
}
