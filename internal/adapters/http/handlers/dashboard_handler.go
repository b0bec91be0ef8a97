package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"trustbuild-shell/internal/core/services"
	"trustbuild-shell/internal/pkg/navigation"
	"trustbuild-shell/internal/pkg/token"
	"trustbuild-shell/internal/pkg/webview"
)

// bridgeMessageEndpoint receives postMessage-style reports from the
// bootstrap script
const bridgeMessageEndpoint = "/bridge/message"

// DashboardHandler is the embedded-view bridge: it loads the session,
// guards the contractor-only policy, fetches the remote dashboard and
// serves it with the bootstrap script injected. In-page navigation flows
// through the /app proxy under the navigation policy.
type DashboardHandler struct {
	session *services.SessionService
	api     *services.APIService
	policy  *navigation.Policy
	loader  *http.Client
}

// NewDashboardHandler creates a new dashboard handler. loadTimeout is the
// budget a page load gets before the retry screen.
func NewDashboardHandler(session *services.SessionService, api *services.APIService, policy *navigation.Policy, loadTimeout time.Duration) *DashboardHandler {
	return &DashboardHandler{
		session: session,
		api:     api,
		policy:  policy,
		loader: &http.Client{
			Timeout: loadTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Upstream redirects stay subject to the navigation policy
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
	}
}

// Show loads and serves the contractor dashboard
func (h *DashboardHandler) Show(c *fiber.Ctx) error {
	ctx := c.Context()

	// 1. Fetch token and profile concurrently; an incomplete session goes
	// back to login
	sess := h.session.Session(ctx)
	if sess.AccessToken == "" || sess.Profile == nil {
		return c.Redirect("/", fiber.StatusFound)
	}

	// 2. Contractor-only guard: a customer/admin credential must never
	// reach the embedded dashboard
	if !sess.Profile.IsContractor() {
		log.Printf("⚠️ Non-contractor session on dashboard (role: %s), clearing", sess.Profile.Role)
		h.session.ClearAuth(ctx)
		return c.Redirect("/?notice=contractor_only", fiber.StatusFound)
	}

	// 3. Refresh an already-expired token before loading; a failed refresh
	// has cleared the session
	if token.IsExpired(sess.AccessToken) {
		refreshed, err := h.api.RefreshToken(ctx)
		if err != nil {
			return c.Redirect("/?notice=session_expired", fiber.StatusFound)
		}
		sess.AccessToken = refreshed
	}

	// 4. Resolve and validate the target route
	path := c.Query("path", navigation.DefaultDashboardPath)
	target := h.policy.DashboardURL(path)
	if !h.policy.AllowNavigation(target) {
		return renderPage(c, fiber.StatusForbidden, errorTemplate, errorView{
			Message:  "This page is not available in the contractor app.",
			RetryURL: "/dashboard",
		})
	}

	return h.load(c, target, sess.AccessToken, sess.Profile, true)
}

// Proxy serves in-page navigation and assets same-origin, enforcing the
// navigation policy on every request
func (h *DashboardHandler) Proxy(c *fiber.Ctx) error {
	sess := h.session.Session(c.Context())
	if sess.AccessToken == "" || sess.Profile == nil {
		return c.Redirect("/", fiber.StatusFound)
	}

	path := "/" + c.Params("*")
	if query := string(c.Request().URI().QueryString()); query != "" {
		path += "?" + query
	}

	target := h.policy.DashboardURL(path)
	if !h.policy.ShouldHandleInWebView(target) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "External links open outside the app",
		})
	}
	if h.policy.IsBlockedRoute(h.policy.RouteFromURL(target)) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "This page is not available in the contractor app",
		})
	}

	return h.load(c, target, sess.AccessToken, sess.Profile, false)
}

// load fetches an upstream page and serves it, injecting the bootstrap
// script into HTML responses. showErrors controls whether failures render
// the retry screen (dashboard) or pass through as statuses (assets).
func (h *DashboardHandler) load(c *fiber.Ctx, target, accessToken string, profile interface{}, showErrors bool) error {
	req, err := http.NewRequestWithContext(c.Context(), http.MethodGet, target, nil)
	if err != nil {
		return renderPage(c, fiber.StatusBadGateway, errorTemplate, errorView{
			Message:  fmt.Sprintf("Failed to load dashboard: %v. URL: %s", err, target),
			RetryURL: "/dashboard",
		})
	}
	req.Header.Set("Accept", string(c.Request().Header.Peek(fiber.HeaderAccept)))
	req.Header.Set("User-Agent", string(c.Request().Header.Peek(fiber.HeaderUserAgent)))

	resp, err := h.loader.Do(req)
	if err != nil {
		return h.loadError(c, target, err, showErrors)
	}
	defer resp.Body.Close()

	// Session expiry surfaces from the web app as a 401
	if resp.StatusCode == http.StatusUnauthorized {
		log.Println("⚠️ Dashboard returned 401, treating as session expiry")
		h.session.ClearAuth(c.Context())
		return c.Redirect("/?notice=session_expired", fiber.StatusFound)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return h.loadError(c, target, err, showErrors)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return h.httpError(c, target, resp.StatusCode, body, showErrors)
	}

	contentType := resp.Header.Get(fiber.HeaderContentType)
	if contentType != "" {
		c.Set(fiber.HeaderContentType, contentType)
	}

	// Seed the web app's storage on HTML documents only
	if strings.Contains(contentType, "text/html") {
		profileJSON, err := json.Marshal(profile)
		if err == nil {
			script := webview.BuildBootstrapScript(accessToken, profileJSON, bridgeMessageEndpoint)
			body = webview.InjectIntoHTML(body, script)
		} else {
			log.Printf("⚠️ Failed to encode profile for injection: %v", err)
		}
	}

	return c.Status(resp.StatusCode).Send(body)
}

// loadError maps transport failures onto the retry screen
func (h *DashboardHandler) loadError(c *fiber.Ctx, target string, err error, showErrors bool) error {
	log.Printf("❌ Dashboard load error: %v", err)
	if !showErrors {
		return c.SendStatus(fiber.StatusBadGateway)
	}

	message := fmt.Sprintf("Failed to load dashboard: %v. URL: %s", err, target)
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		message = "Dashboard is taking too long to load. Please check your internet connection and try again."
	}

	return renderPage(c, fiber.StatusGatewayTimeout, errorTemplate, errorView{
		Message:  message,
		RetryURL: "/dashboard",
	})
}

// httpError maps upstream HTTP statuses onto the retry screen; 404 and
// generic statuses get distinct messages
func (h *DashboardHandler) httpError(c *fiber.Ctx, target string, status int, body []byte, showErrors bool) error {
	log.Printf("❌ Dashboard HTTP error %d for %s", status, target)
	if !showErrors {
		return c.Status(status).Send(body)
	}

	message := fmt.Sprintf("HTTP error %d. Please check your internet connection.", status)
	if status == http.StatusNotFound {
		message = fmt.Sprintf("Page not found (404). Please check if the dashboard URL is correct: %s", target)
	}

	return renderPage(c, fiber.StatusBadGateway, errorTemplate, errorView{
		Message:  message,
		RetryURL: "/dashboard",
	})
}
