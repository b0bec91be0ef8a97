package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the shell
type Config struct {
	AppMode string
	Port    string

	// APIURL is the TrustBuild backend API base URL
	APIURL string
	// WebURL is the TrustBuild web app base URL rendered inside the shell
	WebURL string

	// DataDir is where the local stores live
	DataDir string
	// SecureStoreKey is the passphrase protecting the credential store
	SecureStoreKey string

	// RequestTimeout bounds outbound API calls
	RequestTimeout time.Duration
	// LoadTimeout bounds a dashboard page load before the retry screen
	LoadTimeout time.Duration
	// RefreshSpec is the cron spec for the proactive token refresh job
	RefreshSpec string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from the bundled .env fallback and the
// environment. Real environment variables take precedence: godotenv never
// overrides a variable that is already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:        appMode,
		Port:           getEnv("PORT", "4000"),
		APIURL:         strings.TrimRight(loadURL(appMode, "API_URL", "https://api.trustbuild.uk"), "/"),
		WebURL:         strings.TrimRight(loadURL(appMode, "WEB_URL", "https://trustbuild.uk"), "/"),
		DataDir:        getEnv("DATA_DIR", defaultDataDir()),
		SecureStoreKey: getEnv("SECURE_STORE_KEY", ""),
		RequestTimeout: getDurationSeconds("REQUEST_TIMEOUT_SECONDS", 10),
		LoadTimeout:    getDurationSeconds("LOAD_TIMEOUT_SECONDS", 30),
		RefreshSpec:    getEnv("TOKEN_REFRESH_SPEC", "@every 5m"),
	}

	if config.SecureStoreKey == "" {
		return nil, fmt.Errorf("SECURE_STORE_KEY is required")
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadURL resolves a URL setting with a mode prefix, falling back to the
// unprefixed variable and finally the bundled default
func loadURL(mode, key, defaultValue string) string {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	if value := os.Getenv(prefix + key); value != "" {
		return value
	}
	return getEnv(key, defaultValue)
}

// defaultDataDir returns the per-user data directory for the shell
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".trustbuild-shell"
	}
	return home + string(os.PathSeparator) + ".trustbuild-shell"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationSeconds reads an integer seconds value with a default
func getDurationSeconds(key string, defaultSeconds int) time.Duration {
	seconds, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultSeconds)))
	if err != nil || seconds <= 0 {
		seconds = defaultSeconds
	}
	return time.Duration(seconds) * time.Second
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}
