package web

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type errorBody struct {
	Message string       `json:"message"`
	Errors  []fieldError `json:"errors,omitempty"`
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorBody{Message: message})
}

// validationErrorResponse surfaces field-level detail from the validator.
func validationErrorResponse(c *fiber.Ctx, message string, err error) error {
	body := errorBody{Message: message}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			body.Errors = append(body.Errors, fieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
	}

	return c.Status(fiber.StatusBadRequest).JSON(body)
}

type messageBody struct {
	Message string `json:"message"`
}

func messageResponse(c *fiber.Ctx, message string) error {
	return c.JSON(messageBody{Message: message})
}
