// Package browser manages the playwright driver and browser instance shared by a suite run.
package browser

import (
	"fmt"

	"ecohotels-e2e/internal/config"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"
)

// Session owns the playwright driver and one launched browser.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	cfg     *config.Config
	log     zerolog.Logger
}

// Install downloads the playwright driver and the given browsers.
func Install(browsers ...string) error {
	return playwright.Install(&playwright.RunOptions{Browsers: browsers})
}

// Launch starts playwright and launches the configured browser.
func Launch(cfg *config.Config, log zerolog.Logger) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	bt, err := browserType(pw, cfg.Browser)
	if err != nil {
		pw.Stop()
		return nil, err
	}

	b, err := bt.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		SlowMo:   playwright.Float(float64(cfg.SlowMo.Milliseconds())),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch %s: %w", cfg.Browser, err)
	}

	log.Info().
		Str("browser", cfg.Browser).
		Bool("headless", cfg.Headless).
		Str("version", b.Version()).
		Msg("browser launched")

	return &Session{pw: pw, browser: b, cfg: cfg, log: log}, nil
}

func browserType(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	switch name {
	case config.BrowserChromium:
		return pw.Chromium, nil
	case config.BrowserFirefox:
		return pw.Firefox, nil
	case config.BrowserWebKit:
		return pw.WebKit, nil
	}
	return nil, fmt.Errorf("unsupported browser %q", name)
}

// NewPage opens a page in a fresh browser context so cookies and storage never leak
// between scenarios.
func (s *Session) NewPage() (playwright.Page, error) {
	ctx, err := s.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: 1440, Height: 900},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}
	ctx.SetDefaultTimeout(float64(s.cfg.Timeout.Milliseconds()))
	ctx.SetDefaultNavigationTimeout(float64(s.cfg.NavigationTimeout.Milliseconds()))

	page, err := ctx.NewPage()
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	return page, nil
}

// ClosePage closes page together with its context and any popups it opened.
func (s *Session) ClosePage(page playwright.Page) {
	if page == nil {
		return
	}
	if err := page.Context().Close(); err != nil {
		s.log.Debug().Err(err).Msg("close context")
	}
}

// Close shuts down the browser and the playwright driver.
func (s *Session) Close() error {
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.log.Warn().Err(err).Msg("close browser")
		}
	}
	if s.pw != nil {
		return s.pw.Stop()
	}
	return nil
}
