// Package apperrors defines the error taxonomy the HTTP layer maps onto
// status codes: validation failures (400), missing entities (404),
// insufficient stock (400) and everything else (500).
package apperrors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NewNotFound(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

type InsufficientStockError struct {
	Message string
}

func (e *InsufficientStockError) Error() string { return e.Message }

func NewInsufficientStock(format string, args ...any) *InsufficientStockError {
	return &InsufficientStockError{Message: fmt.Sprintf(format, args...)}
}

// HTTPStatus maps an error to the response status code.
func HTTPStatus(err error) int {
	var (
		validation   *ValidationError
		notFound     *NotFoundError
		insufficient *InsufficientStockError
	)
	switch {
	case errors.As(err, &validation):
		return fiber.StatusBadRequest
	case errors.As(err, &notFound):
		return fiber.StatusNotFound
	case errors.As(err, &insufficient):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
