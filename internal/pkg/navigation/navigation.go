package navigation

import (
	"net/url"
	"strings"
)

// DefaultDashboardPath is the contractor dashboard entry route
const DefaultDashboardPath = "/dashboard/contractor"

// Common dashboard routes
const (
	RouteDashboard   = "/dashboard/contractor"
	RouteJobs        = "/jobs"
	RouteCurrentJobs = "/dashboard/contractor/current-jobs"
	RouteJobHistory  = "/dashboard/contractor/job-history"
	RouteMessages    = "/dashboard/contractor/messages"
	RouteReviews     = "/dashboard/contractor/reviews"
	RoutePayments    = "/dashboard/contractor/payments"
	RouteCommissions = "/dashboard/contractor/commissions"
	RouteInvoices    = "/dashboard/contractor/invoices"
	RouteKYC         = "/dashboard/kyc"
	RouteDisputes    = "/dashboard/contractor/disputes"
	RouteProfile     = "/dashboard/contractor/profile"
)

// blockedSubstrings are path fragments reserved for other user roles. This
// is a denylist: routes not matching any fragment are permitted by default.
var blockedSubstrings = []string{
	"/dashboard/customer",
	"/dashboard/admin",
	"/admin",
}

// Policy decides which URLs belong to the embedded web app and builds
// dashboard URLs from the configured base
type Policy struct {
	webURL  string
	webHost string
}

// NewPolicy creates a navigation policy for the given web app base URL
func NewPolicy(webURL string) *Policy {
	p := &Policy{webURL: strings.TrimRight(webURL, "/")}
	if parsed, err := url.Parse(p.webURL); err == nil {
		p.webHost = parsed.Hostname()
	}
	return p
}

// DashboardURL returns the full URL for a dashboard route, normalizing to a
// single leading slash
func (p *Policy) DashboardURL(path string) string {
	if path == "" {
		path = DefaultDashboardPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return p.webURL + path
}

// IsInternalURL reports whether the URL points at the web app's host.
// Malformed URLs are external: the check degrades to false, never an error.
func (p *Policy) IsInternalURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return parsed.Hostname() != "" && parsed.Hostname() == p.webHost
}

// ShouldHandleInWebView reports whether the URL should load inside the
// embedded view. External links are left to the platform browser.
func (p *Policy) ShouldHandleInWebView(rawURL string) bool {
	return p.IsInternalURL(rawURL)
}

// RouteFromURL extracts the path from a full URL, degrading to "/" on
// malformed input
func (p *Policy) RouteFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Path == "" {
		return "/"
	}
	return parsed.Path
}

// IsBlockedRoute reports whether the path is reserved for customer or admin
// roles and must never load inside the contractor shell
func (p *Policy) IsBlockedRoute(path string) bool {
	lowered := strings.ToLower(path)
	for _, blocked := range blockedSubstrings {
		if strings.Contains(lowered, blocked) {
			return true
		}
	}
	return false
}

// AllowNavigation combines the internal-URL check with the role-route
// denylist, mirroring the shell's navigation interception
func (p *Policy) AllowNavigation(rawURL string) bool {
	if !p.ShouldHandleInWebView(rawURL) {
		return false
	}
	return !p.IsBlockedRoute(p.RouteFromURL(rawURL))
}
