package middleware

import (
	"errors"

	"quartermaster-backend/internal/application/quartermaster"
	"quartermaster-backend/internal/application/repairs"
	"quartermaster-backend/internal/application/units"
	"quartermaster-backend/internal/infrastructure/lock"
	"quartermaster-backend/internal/pkg/partxml"
	"quartermaster-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

var statusByError = []struct {
	err  error
	code int
}{
	{units.ErrUnitNotFound, fiber.StatusNotFound},
	{units.ErrPartNotFound, fiber.StatusNotFound},
	{repairs.ErrPlaceholderNotFound, fiber.StatusNotFound},
	{repairs.ErrNotMissing, fiber.StatusBadRequest},
	{units.ErrParentMismatch, fiber.StatusBadRequest},
	{units.ErrInvalidUnit, fiber.StatusBadRequest},
	{quartermaster.ErrInvalidAmount, fiber.StatusBadRequest},
	{quartermaster.ErrInvalidBayType, fiber.StatusBadRequest},
	{quartermaster.ErrMountedStock, fiber.StatusBadRequest},
	{partxml.ErrInvalidField, fiber.StatusBadRequest},
	{partxml.ErrUnknownType, fiber.StatusBadRequest},
	{partxml.ErrNoRoot, fiber.StatusBadRequest},
	{quartermaster.ErrQuantityUnderflow, fiber.StatusConflict},
	{units.ErrPartOwned, fiber.StatusConflict},
	{lock.ErrNotAcquired, fiber.StatusServiceUnavailable},
}

// StatusFor maps a handler error to its HTTP status.
func StatusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	for _, s := range statusByError {
		if errors.Is(err, s.err) {
			return s.code
		}
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler is the global error handler. Returns the standard error format and
// hides the cause of server errors from the client.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := StatusFor(err)
		message := err.Error()
		if code >= fiber.StatusInternalServerError && code != fiber.StatusServiceUnavailable {
			log.Error().Err(err).Str("trace_id", GetTraceID(c)).Str("path", c.Path()).Msg("request failed")
			message = "Internal Server Error"
		}
		return response.Error(c, message, code, nil)
	}
}
