package pages

import (
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"
)

// Mode controls how many overlays a Dismisser closes per call.
type Mode int

const (
	// FirstMatch stops after the first overlay is closed.
	FirstMatch Mode = iota
	// All runs every strategy and closes every visible match.
	All
)

// maxMatches bounds how many elements a single strategy clicks.
const maxMatches = 5

// Strategy finds one kind of overlay close control.
type Strategy struct {
	Name string
	// Locate returns the close control. Every visible match is a candidate.
	Locate func(page playwright.Page) playwright.Locator
	// Act replaces locating and clicking, for keyboard or mouse based strategies.
	Act func(page playwright.Page) error
}

// Dismisser closes popups, review prompts and overlays that cover the page.
// Failures are logged and never returned: an overlay that cannot be closed is
// left for the next assertion to trip over.
type Dismisser struct {
	strategies []Strategy
	mode       Mode
	settle     time.Duration
	log        zerolog.Logger
	onDismiss  func(overlay string)
}

// NewDismisser returns a Dismisser that tries strategies in order.
func NewDismisser(mode Mode, log zerolog.Logger, strategies ...Strategy) *Dismisser {
	return &Dismisser{
		strategies: strategies,
		mode:       mode,
		settle:     300 * time.Millisecond,
		log:        log,
	}
}

// WithSettle sets the pause after each successful close.
func (d *Dismisser) WithSettle(settle time.Duration) *Dismisser {
	d.settle = settle
	return d
}

// OnDismiss registers fn to be called with the strategy name for each closed overlay.
func (d *Dismisser) OnDismiss(fn func(overlay string)) *Dismisser {
	d.onDismiss = fn
	return d
}

// Dismiss runs the strategies against page and returns how many overlays were closed.
func (d *Dismisser) Dismiss(page playwright.Page) int {
	closed := 0
	for _, s := range d.strategies {
		n := d.apply(page, s)
		closed += n
		if n > 0 && d.mode == FirstMatch {
			break
		}
	}
	return closed
}

func (d *Dismisser) apply(page playwright.Page, s Strategy) int {
	if s.Act != nil {
		if err := s.Act(page); err != nil {
			d.log.Debug().Err(err).Str("overlay", s.Name).Msg("dismiss action failed")
			return 0
		}
		d.closed(s.Name)
		return 1
	}

	loc := s.Locate(page)
	count, err := loc.Count()
	if err != nil {
		d.log.Debug().Err(err).Str("overlay", s.Name).Msg("count overlay controls")
		return 0
	}

	closed := 0
	for i := 0; i < count && i < maxMatches; i++ {
		el := loc.Nth(i)
		visible, err := el.IsVisible()
		if err != nil || !visible {
			continue
		}
		err = el.Click(playwright.LocatorClickOptions{
			Force:   playwright.Bool(true),
			Timeout: playwright.Float(5000),
		})
		if err != nil {
			d.log.Debug().Err(err).Str("overlay", s.Name).Msg("click overlay control")
			continue
		}
		d.closed(s.Name)
		closed++
		if d.mode == FirstMatch {
			break
		}
	}
	return closed
}

func (d *Dismisser) closed(name string) {
	d.log.Debug().Str("overlay", name).Msg("overlay dismissed")
	if d.onDismiss != nil {
		d.onDismiss(name)
	}
	if d.settle > 0 {
		time.Sleep(d.settle)
	}
}

const (
	xIconPath      = `M19 6.41 17.59 5 12 10.59 6.41 5 5 6.41 10.59 12 5 17.59 6.41 19 12 13.41 17.59 19 19 17.59 13.41 12z`
	greenIcon      = `svg.text-\[var\(--color-greenprimary\)\]`
	modalClosePath = `.flex.justify-end > svg > path:nth-child(2)`
)

func locatorStrategy(name, selector string) Strategy {
	return Strategy{
		Name: name,
		Locate: func(p playwright.Page) playwright.Locator {
			return p.Locator(selector)
		},
	}
}

// EnjoyedBookingStrategies close the "Enjoyed your booking?" review prompt.
var EnjoyedBookingStrategies = []Strategy{
	{
		Name: "enjoyed-booking",
		Locate: func(p playwright.Page) playwright.Locator {
			return p.Locator(`div:has-text("Enjoyed your booking?")`).Locator(".flex.justify-end svg")
		},
	},
	locatorStrategy("green-close-icon", greenIcon+".cursor-pointer"),
	locatorStrategy("x-icon", `svg:has(path[d="`+xIconPath+`"])`),
}

// ReviewPopupStrategies close the review card shown on the confirmation page.
var ReviewPopupStrategies = []Strategy{
	locatorStrategy("review-card", `.bg-white.rounded-lg.shadow-lg `+greenIcon),
	locatorStrategy("review-card-header", `.flex.justify-end `+greenIcon),
	locatorStrategy("green-icon", greenIcon),
}

// OverlayStrategies close generic modals, popups and the cookie banner.
var OverlayStrategies = append(append([]Strategy{}, EnjoyedBookingStrategies...),
	locatorStrategy("modal", modalClosePath),
	locatorStrategy("popup", `[data-testid="close-popup"], .popup-close, .modal-close, .overlay-close`),
	locatorStrategy("review", `[data-testid="close-review"], .review-close`),
	Strategy{
		Name: "accept",
		Locate: func(p playwright.Page) playwright.Locator {
			return p.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: "Accept"})
		},
	},
	ReviewPopupStrategies[0],
	ReviewPopupStrategies[1],
)

// SignInOverlayStrategies close the sign-in prompt shown over search results.
var SignInOverlayStrategies = []Strategy{
	locatorStrategy("sign-in-overlay", ".text-gray-400"),
}

// EscapeAndClickAway presses Escape and clicks the page corner.
var EscapeAndClickAway = Strategy{
	Name: "escape",
	Act: func(p playwright.Page) error {
		if err := p.Keyboard().Press("Escape"); err != nil {
			return err
		}
		return p.Mouse().Click(10, 10)
	},
}

// ForceCloseStrategies click every close icon on the page, then fall back to
// Escape and a click outside any modal.
var ForceCloseStrategies = []Strategy{
	locatorStrategy("x-icon", `svg:has(path[d="`+xIconPath+`"])`),
	locatorStrategy("green-close-icon", `.text-\[var\(--color-greenprimary\)\].cursor-pointer`),
	EscapeAndClickAway,
}

func (s *Site) dismisser(mode Mode, strategies ...Strategy) *Dismisser {
	return NewDismisser(mode, s.log, strategies...).OnDismiss(s.onDismiss)
}
