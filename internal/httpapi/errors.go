package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/KOTTAGENVH/courier-service-app/internal/domain"
)

// respondError maps business-rule failures onto the response envelope.
// Anything unrecognized is logged and collapsed to a generic 500 so
// persistence internals never leak to the caller.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrSameStatus),
		errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, domain.ErrAlreadyViewed),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrTokenExpired):
		return BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, domain.ErrEmailTaken):
		return BadRequestResponse(c, "Email already in use.", nil)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return UnauthorizedResponse(c, "Invalid credentials.")
	case errors.Is(err, domain.ErrForbidden):
		return ForbiddenResponse(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return NotFoundResponse(c, "Not found")
	case errors.Is(err, domain.ErrTransitionConflict):
		return ConflictResponse(c, "Shipment was modified concurrently, please retry.", nil)
	default:
		log.Error("unexpected error", zap.String("path", c.Path()), zap.Error(err))
		return InternalServerErrorResponse(c, "Server error", nil)
	}
}
