package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/jobfinder-service/internal/observability"
	apperrors "github.com/spec-kit/jobfinder-service/pkg/util"
)

// NewErrorHandler maps domain errors onto the shared JSON error envelope.
func NewErrorHandler(logger *zap.Logger, metrics *observability.Metrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		domainErr := apperrors.ToDomainError(err)

		if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("code", domainErr.Code),
				zap.Error(err))
		}
		metrics.RecordError(c.Path(), c.Method(), domainErr.Code)

		body := fiber.Map{
			"error":   domainErr.Code,
			"message": domainErr.Message,
		}
		if len(domainErr.Details) > 0 {
			body["details"] = domainErr.Details
		}
		return c.Status(domainErr.HTTPStatus).JSON(body)
	}
}
