package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/todo-api/internal/store"
)

// ErrMissingDependency is returned by constructors given a nil collaborator.
var ErrMissingDependency = errors.New("missing service dependency")

// ServiceError wraps errors from a service operation with context.
type ServiceError struct {
	// Service is the failing service, e.g. "task_cleanup".
	Service string
	// Operation is the operation that failed, e.g. "delete_task_artifacts".
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err with service context. Not-found store errors are
// returned unwrapped so callers can match them directly.
func NewServiceError(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if store.IsNotFoundError(err) {
		return err
	}

	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

func missingDependency(service, name string) error {
	return &ServiceError{
		Service:   service,
		Operation: "create_service",
		Message:   name + " cannot be nil",
		Err:       ErrMissingDependency,
	}
}
