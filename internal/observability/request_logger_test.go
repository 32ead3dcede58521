package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/spec-kit/jobfinder-service/pkg/util"
)

func TestRequestLoggerUsesErrorStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": domainErr.Code})
		},
	})
	app.Use(RequestLogger(logger, nil))
	app.Get("/missing", func(*fiber.Ctx) error {
		return apperrors.NewNotFound("job", nil)
	})
	app.Get("/fine", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/fine", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, int64(http.StatusNotFound), entries[0].ContextMap()["status"])
	require.Equal(t, int64(http.StatusOK), entries[1].ContextMap()["status"])
}
