package pages

import (
	"errors"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
)

// bannerButton stands in for the cookie banner's accept button.
type bannerButton struct {
	pwLocator
	shown  bool
	clicks int
}

func (b *bannerButton) Filter(...playwright.LocatorFilterOptions) playwright.Locator { return b }
func (b *bannerButton) First() playwright.Locator                                    { return b }

func (b *bannerButton) WaitFor(...playwright.LocatorWaitForOptions) error {
	if !b.shown {
		return errors.New("timeout")
	}
	return nil
}

func (b *bannerButton) Click(...playwright.LocatorClickOptions) error {
	b.clicks++
	return nil
}

type bannerPage struct {
	playwright.Page
	button    *bannerButton
	selectors []string
}

func (p *bannerPage) Locator(selector string, _ ...playwright.PageLocatorOptions) playwright.Locator {
	p.selectors = append(p.selectors, selector)
	return p.button
}

func TestFooterAcceptCookiesIfPresent(t *testing.T) {
	tests := []struct {
		name   string
		shown  bool
		clicks int
	}{
		{"banner shown", true, 1},
		{"no banner", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &bannerPage{button: &bannerButton{shown: tt.shown}}
			f := &Footer{page: page}

			assert.NoError(t, f.AcceptCookiesIfPresent())
			assert.Equal(t, tt.clicks, page.button.clicks)
			assert.Equal(t, []string{`button, [role="button"]`}, page.selectors, "uses the shared banner lookup")
		})
	}
}
