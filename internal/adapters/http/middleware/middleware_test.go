package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustbuild-shell/internal/config"
)

func newStackApp(mode string) *fiber.App {
	app := fiber.New()
	Setup(app, &config.Config{AppMode: mode, WebURL: "https://trustbuild.uk"})
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestSetupAppliesSecurityHeaders(t *testing.T) {
	app := newStackApp("dev")

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "SAMEORIGIN", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestSetupAllowsWebAppOriginInProd(t *testing.T) {
	app := newStackApp("prod")

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://trustbuild.uk")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "https://trustbuild.uk", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestAuthRateLimiterBlocksRepeatedAttempts(t *testing.T) {
	app := fiber.New()
	app.Post("/login", AuthRateLimiter(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}
