// Package pages holds one page object per area of the hotel-booking site. Page objects
// wrap playwright locators and expose the interactions scenarios perform.
package pages

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"
)

// TrustpilotReviewURL is where the "Leave Review" link ends up.
const TrustpilotReviewURL = "https://www.trustpilot.com/evaluate/ecohotels.com"

// Site describes the deployment under test and carries what every page object needs.
type Site struct {
	base      *url.URL
	timeout   time.Duration
	log       zerolog.Logger
	onDismiss func(overlay string)
}

// NewSite parses baseURL. timeout bounds web-first assertions.
func NewSite(baseURL string, timeout time.Duration, log zerolog.Logger) (*Site, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("base url %q is not absolute", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &Site{base: u, timeout: timeout, log: log}, nil
}

// OnDismiss registers a hook called whenever an overlay is closed.
func (s *Site) OnDismiss(fn func(overlay string)) {
	s.onDismiss = fn
}

// URL resolves a path relative to the base URL.
func (s *Site) URL(path string) string {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return s.base.String()
	}
	return s.base.ResolveReference(ref).String()
}

// Home is the base URL.
func (s *Site) Home() string { return s.base.String() }

// Login is the account login page.
func (s *Site) Login() string { return s.URL("account/login/") }

// CorporateLogin is the corporate login page.
func (s *Site) CorporateLogin() string { return s.URL("account/corporatelogin/") }

// Dashboard is the account dashboard.
func (s *Site) Dashboard() string { return s.URL("account/dashboard/") }

// CheckoutConfirm returns the booking confirmation page for a temporary booking ID.
func (s *Site) CheckoutConfirm(tempID string) string {
	u := *s.base
	u.Path = strings.TrimSuffix(s.base.Path, "/") + "/checkout-confirm/"
	u.RawQuery = url.Values{"tempID": {tempID}}.Encode()
	return u.String()
}

// HotelsPath returns the results listing path for a country and city.
func (s *Site) HotelsPath(country, city string) string {
	return s.URL(fmt.Sprintf("hotels/%s/%s/", slug(country), slug(city)))
}

// IsLogin reports whether rawURL is one of the login pages.
func (s *Site) IsLogin(rawURL string) bool {
	return strings.Contains(rawURL, "/account/login/") || strings.Contains(rawURL, "/account/corporatelogin/")
}

// IsHome reports whether rawURL is the site root, ignoring query and fragment.
func (s *Site) IsHome(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Host == s.base.Host && (u.Path == s.base.Path || u.Path+"/" == s.base.Path)
}

func (s *Site) expect() playwright.PlaywrightAssertions {
	return playwright.NewPlaywrightAssertions(float64(s.timeout.Milliseconds()))
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}
