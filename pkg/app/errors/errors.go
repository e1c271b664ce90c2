// Package errors maps bridge adapter failures to client-facing categories.
package errors

import (
	"errors"
	"net/http"
)

// Category classifies a failure for the HTTP layer.
type Category int

const (
	// CategoryDataError marks a malformed or invalid request.
	CategoryDataError Category = iota + 1
	// CategoryResourceNotFound marks a lookup of something that does not exist.
	CategoryResourceNotFound
	// CategoryDependencyFailure marks a ledger gateway or relay failure.
	CategoryDependencyFailure
	// CategoryGeneralError marks an unexpected failure of the adapter itself.
	CategoryGeneralError
	// CategoryConnectionTimeout marks a wait on the ledger that ran out of time.
	CategoryConnectionTimeout
)

func (c Category) String() string {
	switch c {
	case CategoryDataError:
		return "CategoryDataError"
	case CategoryResourceNotFound:
		return "CategoryResourceNotFound"
	case CategoryDependencyFailure:
		return "CategoryDependencyFailure"
	case CategoryConnectionTimeout:
		return "CategoryConnectionTimeout"
	default:
		return "CategoryGeneralError"
	}
}

// ServiceError pairs a category and a client-facing message with the
// underlying cause, which is only logged.
type ServiceError struct {
	Category Category
	Message  string
	Err      error
}

func (err ServiceError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	return err.Message
}

func (err ServiceError) Unwrap() error {
	return err.Err
}

// StatusCode returns the HTTP status for the category.
func (err ServiceError) StatusCode() int {
	switch err.Category {
	case CategoryDataError:
		return http.StatusBadRequest
	case CategoryResourceNotFound:
		return http.StatusNotFound
	case CategoryDependencyFailure:
		return http.StatusBadGateway
	case CategoryConnectionTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func newError(cat Category, err error, message string) error {
	if err == nil {
		err = errors.New(message)
	}
	return &ServiceError{Category: cat, Message: message, Err: err}
}

// GeneralError hides err behind "Internal Server Error".
func GeneralError(err error) error {
	return newError(CategoryGeneralError, err, "Internal Server Error")
}

// ResourceNotFoundError returns message to the client with a 404.
func ResourceNotFoundError(err error, message string) error {
	return newError(CategoryResourceNotFound, err, message)
}

// BadRequestError returns message to the client with a 400.
func BadRequestError(err error, message string) error {
	return newError(CategoryDataError, err, message)
}

// DependencyError is used when the ledger gateway or the relay misbehaves.
func DependencyError(err error, message string) error {
	return newError(CategoryDependencyFailure, err, message)
}

// TimeoutError is used when waiting on the ledger exceeds its bound.
func TimeoutError(err error, message string) error {
	return newError(CategoryConnectionTimeout, err, message)
}
