package serverutils

import (
	"errors"

	"lexi-drafting-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error onto the HTTP status it is reported with.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.Is(err, apperror.ErrReferentialNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidInput), errors.Is(err, apperror.ErrInvalidSelection):
		return fiber.StatusBadRequest
	case errors.Is(err, apperror.ErrUnsupportedMedia):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, apperror.ErrOracleUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.As(err, &fe):
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler writes the error envelope. Internal errors hide their text.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := StatusFor(err)
	message := err.Error()
	if code == fiber.StatusInternalServerError {
		message = "Internal server error"
	}

	resp := ErrorResponse(code, message)
	var verr *ValidationError
	if errors.As(err, &verr) {
		resp.Data = verr.Fields
	}
	return ctx.Status(code).JSON(resp)
}

func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if err := ctx.Next(); err != nil {
			return ErrorHandler(ctx, err)
		}
		return nil
	}
}
