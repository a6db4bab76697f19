package handlers

import (
	"errors"
	"strconv"

	"careerhub-api/internal/core/domain"
	"careerhub-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// writeError maps domain errors onto status codes. Anything unrecognised is
// logged and answered with a generic 500.
func writeError(c *fiber.Ctx, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "You don't have permission to access this resource")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return response.Unauthorized(c, "Invalid email or password")
	case errors.Is(err, domain.ErrUserInactive):
		return response.Unauthorized(c, "Account is inactive")
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidModule),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrAlreadyIssued),
		errors.Is(err, domain.ErrAlreadyReferred),
		errors.Is(err, domain.ErrCodeNotFound),
		errors.Is(err, domain.ErrSelfReferral),
		errors.Is(err, domain.ErrUserAlreadyExists):
		return response.BadRequest(c, err.Error())
	default:
		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return response.InternalServerError(c)
	}
}

// paramID parses a positive numeric route parameter
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
