package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewValidation("Missing required field: %s", "name"), fiber.StatusBadRequest},
		{NewNotFound("Product not found"), fiber.StatusNotFound},
		{NewInsufficientStock("Insufficient stock for product %s", "Steel Rod"), fiber.StatusBadRequest},
		{errors.New("boom"), fiber.StatusInternalServerError},
		// wrapped errors still map
		{fmt.Errorf("create delivery: %w", NewNotFound("Product ID 3 not found")), fiber.StatusNotFound},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Missing required field: orderId", NewValidation("Missing required field: %s", "orderId").Error())
	assert.Equal(t, "Product ID 7 not found", NewNotFound("Product ID %d not found", 7).Error())
}
