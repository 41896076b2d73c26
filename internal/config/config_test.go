package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, BrowserWebKit, cfg.Browser)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 120*time.Second, cfg.NavigationTimeout)
	assert.Equal(t, "e2e-results.db", cfg.ResultsDB)
	assert.Equal(t, 5, cfg.LinkCheckRPS)
	assert.Zero(t, cfg.SlowMo)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(envFrom(map[string]string{
		"ECOHOTELS_BASE_URL":  "https://staging.ecohotels.com",
		"ECOHOTELS_BROWSER":   "Chromium",
		"HEADLESS":            "false",
		"SLOW_MO":             "250ms",
		"ECOHOTELS_TIMEOUT":   "10s",
		"LINKCHECK_RPS":       "2",
		"ECOHOTELS_VAULT_KEY": "k",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://staging.ecohotels.com/", cfg.BaseURL, "base URL should gain a trailing slash")
	assert.Equal(t, BrowserChromium, cfg.Browser)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 250*time.Millisecond, cfg.SlowMo)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.LinkCheckRPS)
	assert.Equal(t, "k", cfg.VaultKey)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"relative base url", map[string]string{"ECOHOTELS_BASE_URL": "/hotels"}},
		{"ftp base url", map[string]string{"ECOHOTELS_BASE_URL": "ftp://ecohotels.com"}},
		{"unknown browser", map[string]string{"ECOHOTELS_BROWSER": "safari"}},
		{"bad duration", map[string]string{"SLOW_MO": "fast"}},
		{"negative duration", map[string]string{"SLOW_MO": "-1s"}},
		{"zero timeout", map[string]string{"ECOHOTELS_TIMEOUT": "0s"}},
		{"bad rps", map[string]string{"LINKCHECK_RPS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(envFrom(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestLoadScenariosDefaults(t *testing.T) {
	s, err := LoadScenarios("")
	require.NoError(t, err)

	assert.Equal(t, "Axel Guldsmeden", s.SearchHotel)
	assert.Equal(t, "Babette Guldsmeden", s.DetailHotel)
	assert.Len(t, s.OTP, 6)
	assert.Equal(t, "+1 (234) 567-89", s.Contact.Phone)
	assert.Equal(t, 4, s.Footer.SocialLinks)
	assert.Contains(t, s.Filters.MapMealPlans, "Breakfast, Lunch & Dinner")
	assert.Equal(t, "Find hotels with a purposeEcoHotels.com plants a tree for every booking!", s.HomeTagline)
	assert.Equal(t, "Last step: let everyone knowyou've planted a tree!", s.SharePrompt)

	email, ok := s.Email(RolePrivate)
	assert.True(t, ok)
	assert.Equal(t, "maria+88@ecohotels.com", email)

	_, ok = s.Email("nobody")
	assert.False(t, ok)

	var terms *FooterLink
	for i := range s.Footer.Help {
		if s.Footer.Help[i].Name == "Terms & Conditions" {
			terms = &s.Footer.Help[i]
		}
	}
	require.NotNil(t, terms)
	assert.True(t, terms.NewTab)
	assert.Equal(t, "Find Hotels", terms.Text)
}

func TestLoadScenariosOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	override := []byte("search_hotel: Bryggen Guldsmeden\naccounts:\n  private: someone@example.com\n")
	require.NoError(t, os.WriteFile(path, override, 0o600))

	s, err := LoadScenarios(path)
	require.NoError(t, err)

	assert.Equal(t, "Bryggen Guldsmeden", s.SearchHotel)
	assert.Equal(t, "Babette Guldsmeden", s.DetailHotel, "unset fields keep defaults")
	assert.Equal(t, "someone@example.com", s.Accounts[RolePrivate])
	assert.Equal(t, "maria+3000@ecohotels.com", s.Accounts[RoleLoyalty], "map keys merge")
}

func TestLoadScenariosErrors(t *testing.T) {
	_, err := LoadScenarios(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("otp: [\n"), 0o600))
	_, err = LoadScenarios(path)
	assert.Error(t, err)
}
