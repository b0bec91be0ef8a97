package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SECURE_STORE_KEY", "test-passphrase")
	t.Setenv("APP_MODE", "")
	t.Setenv("API_URL", "")
	t.Setenv("WEB_URL", "")
	t.Setenv("DEV_API_URL", "")
	t.Setenv("DEV_WEB_URL", "")
	t.Setenv("LOAD_TIMEOUT_SECONDS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}
	if cfg.AppMode != "dev" {
		t.Fatalf("expected dev mode default, got %s", cfg.AppMode)
	}
	if cfg.APIURL != "https://api.trustbuild.uk" {
		t.Fatalf("expected bundled API URL fallback, got %s", cfg.APIURL)
	}
	if cfg.WebURL != "https://trustbuild.uk" {
		t.Fatalf("expected bundled web URL fallback, got %s", cfg.WebURL)
	}
	if cfg.LoadTimeout != 30*time.Second {
		t.Fatalf("expected 30s load timeout, got %s", cfg.LoadTimeout)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("SECURE_STORE_KEY", "test-passphrase")
	t.Setenv("API_URL", "http://localhost:5000/")
	t.Setenv("WEB_URL", "http://localhost:3000")
	t.Setenv("PORT", "4100")
	t.Setenv("LOAD_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}
	if cfg.APIURL != "http://localhost:5000" {
		t.Fatalf("expected API_URL override without trailing slash, got %s", cfg.APIURL)
	}
	if cfg.WebURL != "http://localhost:3000" {
		t.Fatalf("expected WEB_URL override, got %s", cfg.WebURL)
	}
	if cfg.Port != "4100" {
		t.Fatalf("expected PORT override, got %s", cfg.Port)
	}
	if cfg.LoadTimeout != 5*time.Second {
		t.Fatalf("expected LOAD_TIMEOUT_SECONDS override, got %s", cfg.LoadTimeout)
	}
}

func TestLoadModePrefixTakesPrecedence(t *testing.T) {
	t.Setenv("SECURE_STORE_KEY", "test-passphrase")
	t.Setenv("APP_MODE", "prod")
	t.Setenv("API_URL", "http://unprefixed:5000")
	t.Setenv("PROD_API_URL", "https://api.prod.trustbuild.uk")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}
	if cfg.APIURL != "https://api.prod.trustbuild.uk" {
		t.Fatalf("expected PROD_API_URL to win, got %s", cfg.APIURL)
	}
}

func TestLoadRejectsInvalidMode(t *testing.T) {
	t.Setenv("SECURE_STORE_KEY", "test-passphrase")
	t.Setenv("APP_MODE", "staging")

	if _, err := Load(); err == nil {
		t.Fatal("expected invalid APP_MODE to be rejected")
	}
}

func TestLoadRequiresSecureStoreKey(t *testing.T) {
	t.Setenv("SECURE_STORE_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected missing SECURE_STORE_KEY to be rejected")
	}
}
