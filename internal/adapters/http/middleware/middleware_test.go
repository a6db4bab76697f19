package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"careerhub-api/internal/core/domain"
	"careerhub-api/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(signer *jwt.Signer) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler(zap.NewNop())})
	app.Use(RequestLogger(zap.NewNop()))

	app.Get("/me", AuthMiddleware(signer), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": UserID(c), "role": Role(c)})
	})
	app.Get("/admin", AuthMiddleware(signer), AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/cached", CacheControl(5*time.Minute), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	signer := jwt.NewSigner("secret", 5)
	app := newTestApp(signer)

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, err := signer.Sign(3, "x@example.com", string(domain.RoleJobseeker))
	require.NoError(t, err)

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	adminToken, err := signer.Sign(1, "root@example.com", string(domain.RoleAdmin))
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestCacheControlAndNotFound(t *testing.T) {
	app := newTestApp(jwt.NewSigner("secret", 5))

	resp, err := app.Test(httptest.NewRequest("GET", "/cached", nil))
	require.NoError(t, err)
	assert.Equal(t, "public, max-age=300", resp.Header.Get(fiber.HeaderCacheControl))

	resp, err = app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
