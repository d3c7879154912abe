// Package apperror defines the error kinds shared by every ledger operation.
// Callers classify failures with errors.Is against the sentinels below.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAlreadyVoided     = errors.New("sale already voided")
	ErrAlreadySettled    = errors.New("debt already settled")
	ErrAlreadyCompleted  = errors.New("withdrawal already completed")
	ErrPersistence       = errors.New("persistence failure")
	ErrConcurrentUpdate  = errors.New("record changed by another operation")
)

// ValidationError reports malformed input. It always matches ErrValidation
// and additionally matches whatever Err wraps.
type ValidationError struct {
	Err     error
	Details string
}

func (e *ValidationError) Error() string {
	base := ErrValidation.Error()
	if e.Err != nil {
		base = e.Err.Error()
	}
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", base, e.Details)
	}
	return base
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validation builds a plain ValidationError.
func Validation(format string, args ...interface{}) error {
	return &ValidationError{Err: ErrValidation, Details: fmt.Sprintf(format, args...)}
}

// Invalid builds a ValidationError that also matches kind.
func Invalid(kind error, format string, args ...interface{}) error {
	return &ValidationError{Err: kind, Details: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// InsufficientStockError is raised when a decrement would take stock below
// zero. It counts as a validation failure as well.
type InsufficientStockError struct {
	ProductID string
	Requested float64
	Available float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %.3f, available %.3f",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock || target == ErrValidation
}

type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// Persistence wraps a storage error. Errors that already carry a kind from
// this package are returned unchanged.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsKnown(err) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsKnown reports whether err already belongs to one of the ledger kinds.
func IsKnown(err error) bool {
	for _, kind := range []error{
		ErrValidation, ErrNotFound, ErrInsufficientStock, ErrAlreadyVoided,
		ErrAlreadySettled, ErrAlreadyCompleted, ErrPersistence, ErrConcurrentUpdate,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
