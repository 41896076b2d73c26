package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Supported browser engines.
const (
	BrowserChromium = "chromium"
	BrowserFirefox  = "firefox"
	BrowserWebKit   = "webkit"
)

// DefaultBaseURL is the production site the suite runs against.
const DefaultBaseURL = "https://ecohotels.com/"

// Config holds settings for a suite run.
type Config struct {
	BaseURL           string
	Browser           string
	Headless          bool
	SlowMo            time.Duration
	Timeout           time.Duration
	NavigationTimeout time.Duration
	ResultsDB         string
	MetricsFile       string
	ScenariosPath     string
	VaultKey          string
	AppEnv            string
	LogLevel          string
	LinkCheckRPS      int
}

// Load loads suite configuration from environment variables
func Load(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		BaseURL:       withDefault(getenv("ECOHOTELS_BASE_URL"), DefaultBaseURL),
		Browser:       strings.ToLower(withDefault(getenv("ECOHOTELS_BROWSER"), BrowserWebKit)),
		Headless:      getenv("HEADLESS") != "false",
		ResultsDB:     withDefault(getenv("ECOHOTELS_RESULTS_DB"), "e2e-results.db"),
		MetricsFile:   getenv("ECOHOTELS_METRICS_FILE"),
		ScenariosPath: getenv("ECOHOTELS_SCENARIOS"),
		VaultKey:      getenv("ECOHOTELS_VAULT_KEY"),
		AppEnv:        withDefault(getenv("APP_ENV"), "dev"),
		LogLevel:      withDefault(getenv("LOG_LEVEL"), "info"),
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("ECOHOTELS_BASE_URL must be an absolute http(s) URL, got %q", cfg.BaseURL)
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}

	switch cfg.Browser {
	case BrowserChromium, BrowserFirefox, BrowserWebKit:
	default:
		return nil, fmt.Errorf("ECOHOTELS_BROWSER must be one of chromium, firefox, webkit, got %q", cfg.Browser)
	}

	if cfg.SlowMo, err = duration(getenv, "SLOW_MO", 0); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = duration(getenv, "ECOHOTELS_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.NavigationTimeout, err = duration(getenv, "ECOHOTELS_NAV_TIMEOUT", 120*time.Second); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 || cfg.NavigationTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be positive")
	}

	cfg.LinkCheckRPS = 5
	if v := getenv("LINKCHECK_RPS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("LINKCHECK_RPS must be a positive integer, got %q", v)
		}
		cfg.LinkCheckRPS = n
	}

	return cfg, nil
}

func duration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
