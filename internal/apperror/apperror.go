// Package apperror maps domain failures to HTTP responses.
package apperror

import (
	"errors"
	"fmt"

	"go-price-compare/internal/service"
	"go-price-compare/internal/spreadsheet"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Error is a failure with the HTTP status it should be reported with.
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func BadRequest(message string) *Error {
	return &Error{Code: fiber.StatusBadRequest, Message: message}
}

// From classifies err into an *Error.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var fErr *fiber.Error
	switch {
	case errors.As(err, &fErr):
		return &Error{Code: fErr.Code, Message: fErr.Message, Err: err}
	case errors.Is(err, spreadsheet.ErrEmptySheet):
		return &Error{Code: fiber.StatusBadRequest, Message: "The spreadsheet has no data rows", Err: err}
	case errors.Is(err, spreadsheet.ErrUnreadableWorkbook):
		return &Error{Code: fiber.StatusBadRequest, Message: "The file is not a readable Excel workbook", Err: err}
	case errors.Is(err, service.ErrEmptyQuery):
		return &Error{Code: fiber.StatusBadRequest, Message: "Query is required", Err: err}
	case errors.Is(err, service.ErrExtraction):
		return &Error{Code: fiber.StatusInternalServerError, Message: "Could not process search results", Err: err}
	case errors.Is(err, service.ErrLookupFailed):
		return &Error{Code: fiber.StatusInternalServerError, Message: "Price lookup failed", Err: err}
	default:
		return &Error{Code: fiber.StatusInternalServerError, Message: "Internal Server Error", Err: err}
	}
}

// Handler is a fiber ErrorHandler rendering {"success": false, "error": ...}.
func Handler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr := From(err)
		if appErr.Code >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("path", c.Path()),
				zap.Int("status", appErr.Code),
				zap.Error(err),
			)
		}
		return c.Status(appErr.Code).JSON(fiber.Map{
			"success": false,
			"error":   appErr.Message,
		})
	}
}
