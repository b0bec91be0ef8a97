package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPolicy() *Policy {
	return NewPolicy("https://trustbuild.uk")
}

func TestDashboardURL(t *testing.T) {
	policy := newTestPolicy()

	tests := []struct {
		name string
		path string
		want string
	}{
		{"default", "", "https://trustbuild.uk/dashboard/contractor"},
		{"leading slash kept single", "/jobs", "https://trustbuild.uk/jobs"},
		{"missing slash added", "jobs", "https://trustbuild.uk/jobs"},
		{"nested route", RouteJobHistory, "https://trustbuild.uk/dashboard/contractor/job-history"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.DashboardURL(tt.path))
		})
	}
}

func TestDashboardURLWithTrailingSlashBase(t *testing.T) {
	policy := NewPolicy("https://trustbuild.uk/")
	assert.Equal(t, "https://trustbuild.uk/jobs", policy.DashboardURL("/jobs"))
}

func TestIsInternalURL(t *testing.T) {
	policy := newTestPolicy()

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"internal dashboard", "https://trustbuild.uk/dashboard/contractor", true},
		{"internal root", "https://trustbuild.uk", true},
		{"external host", "https://evil.example.com", false},
		{"subdomain is external", "https://api.trustbuild.uk/health", false},
		{"malformed", "ht!tp://%%%", false},
		{"empty", "", false},
		{"relative path has no host", "/dashboard/contractor", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.IsInternalURL(tt.url))
		})
	}
}

func TestShouldHandleInWebViewMirrorsIsInternalURL(t *testing.T) {
	policy := newTestPolicy()

	for _, url := range []string{
		"https://trustbuild.uk/dashboard/contractor",
		"https://evil.example.com",
		"not a url at all",
	} {
		assert.Equal(t, policy.IsInternalURL(url), policy.ShouldHandleInWebView(url), url)
	}
}

func TestRouteFromURL(t *testing.T) {
	policy := newTestPolicy()

	assert.Equal(t, "/dashboard/contractor", policy.RouteFromURL("https://trustbuild.uk/dashboard/contractor"))
	assert.Equal(t, "/", policy.RouteFromURL("https://trustbuild.uk"))
	assert.Equal(t, "/", policy.RouteFromURL("ht!tp://%%%"))
}

func TestIsBlockedRoute(t *testing.T) {
	policy := newTestPolicy()

	tests := []struct {
		path string
		want bool
	}{
		{"/dashboard/customer", true},
		{"/dashboard/customer/jobs", true},
		{"/dashboard/admin", true},
		{"/admin", true},
		{"/Admin/settings", true},
		{"/dashboard/contractor", false},
		{"/dashboard/kyc", false},
		{"/jobs", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.IsBlockedRoute(tt.path))
		})
	}
}

func TestAllowNavigation(t *testing.T) {
	policy := newTestPolicy()

	assert.True(t, policy.AllowNavigation("https://trustbuild.uk/dashboard/contractor"))
	assert.True(t, policy.AllowNavigation("https://trustbuild.uk/dashboard/kyc"))
	assert.False(t, policy.AllowNavigation("https://trustbuild.uk/dashboard/admin"))
	assert.False(t, policy.AllowNavigation("https://evil.example.com/dashboard/contractor"))
	assert.False(t, policy.AllowNavigation("garbage"))
}
