package services

import (
	"errors"
	"fmt"

	"skyrelief/dispatch/internal/constants"
	"skyrelief/dispatch/internal/validation"
)

// ErrorKind classifies a service failure. The values double as the error
// codes returned to API clients.
type ErrorKind string

const (
	KindNotFound               ErrorKind = constants.ErrCodeNotFound
	KindValidation             ErrorKind = constants.ErrCodeValidation
	KindReferenceNotFound      ErrorKind = constants.ErrCodeReferenceNotFound
	KindReferentialConstraint  ErrorKind = constants.ErrCodeReferentialConstraintViolation
	KindInvalidStateTransition ErrorKind = constants.ErrCodeInvalidStateTransition
	KindVersionConflict        ErrorKind = constants.ErrCodeVersionConflict
	KindStorage                ErrorKind = constants.ErrCodeStorage
)

// ServiceError is the only error type services return to handlers.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = constants.GetErrorMessage(string(e.Kind))
	}
	if e.Err != nil && e.Kind == KindStorage {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is matches any ServiceError of the same kind, so callers can write
// errors.Is(err, services.ErrNotFound).
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotFound               = &ServiceError{Kind: KindNotFound}
	ErrValidation             = &ServiceError{Kind: KindValidation}
	ErrReferenceNotFound      = &ServiceError{Kind: KindReferenceNotFound}
	ErrReferentialConstraint  = &ServiceError{Kind: KindReferentialConstraint}
	ErrInvalidStateTransition = &ServiceError{Kind: KindInvalidStateTransition}
	ErrVersionConflict        = &ServiceError{Kind: KindVersionConflict}
	ErrStorage                = &ServiceError{Kind: KindStorage}
)

func newError(kind ErrorKind, format string, args ...any) *ServiceError {
	return &ServiceError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func notFound(entity string, id uint) *ServiceError {
	return newError(KindNotFound, "%s %d not found", entity, id)
}

func referenceNotFound(entity string, id uint) *ServiceError {
	return newError(KindReferenceNotFound, "referenced %s %d does not exist", entity, id)
}

func storageError(err error) error {
	if err == nil {
		return nil
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return err
	}
	return &ServiceError{Kind: KindStorage, Err: err}
}

// validate runs struct validation and wraps failures as ValidationError,
// keeping the field details reachable through errors.As.
func validate(v any) error {
	err := validation.Struct(v)
	if err == nil {
		return nil
	}
	return &ServiceError{Kind: KindValidation, Message: err.Error(), Err: err}
}

// KindOf returns the kind of a service error, or KindStorage for anything
// else.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindStorage
}
