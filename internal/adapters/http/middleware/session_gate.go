package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"trustbuild-shell/internal/core/services"
)

// Navigation segments of the shell's local surface
const (
	segmentLogin  = ""
	segmentBridge = "bridge"
	segmentHealth = "healthz"
)

// SessionGate re-checks session validity on every navigation and redirects
// between the login screen and the dashboard:
//
//	not authenticated, not on login  -> force-navigate to login
//	authenticated, on login          -> force-navigate to dashboard
//	otherwise                        -> no transition
//
// Failures while checking authentication degrade to "not authenticated"
// inside the stores, so the gate fails closed.
func SessionGate(session *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		segment := firstSegment(c.Path())

		// Bridge messages and health checks are not navigations
		if segment == segmentBridge || segment == segmentHealth {
			return c.Next()
		}

		isAuth := session.IsAuthenticated(c.Context())
		onLogin := segment == segmentLogin || segment == "login"

		if !isAuth && !onLogin {
			return c.Redirect("/", fiber.StatusFound)
		}
		if isAuth && onLogin {
			return c.Redirect("/dashboard", fiber.StatusFound)
		}

		return c.Next()
	}
}

// firstSegment extracts the leading path segment
func firstSegment(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		return trimmed[:idx]
	}
	return trimmed
}
