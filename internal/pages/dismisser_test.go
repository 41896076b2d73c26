package pages

import (
	"errors"
	"io"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pwLocator lets fakes embed playwright.Locator without the embedded field's
// name shadowing the interface's Locator method.
type pwLocator = playwright.Locator

// fakeElement overrides the locator calls the Dismisser makes. Any other call
// panics on the nil embedded interface.
type fakeElement struct {
	pwLocator
	visible  bool
	visErr   error
	clickErr error
	clicks   int
	forced   bool
}

func (e *fakeElement) IsVisible(...playwright.LocatorIsVisibleOptions) (bool, error) {
	return e.visible, e.visErr
}

func (e *fakeElement) Click(opts ...playwright.LocatorClickOptions) error {
	if e.clickErr != nil {
		return e.clickErr
	}
	e.clicks++
	e.forced = len(opts) > 0 && opts[0].Force != nil && *opts[0].Force
	return nil
}

type fakeLocator struct {
	pwLocator
	elems    []*fakeElement
	countErr error
}

func (l *fakeLocator) Count() (int, error) {
	return len(l.elems), l.countErr
}

func (l *fakeLocator) Nth(i int) playwright.Locator {
	return l.elems[i]
}

func fakeStrategy(name string, elems ...*fakeElement) (Strategy, *fakeLocator) {
	loc := &fakeLocator{elems: elems}
	return Strategy{
		Name:   name,
		Locate: func(playwright.Page) playwright.Locator { return loc },
	}, loc
}

func quietLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestDismissFirstMatchStopsAfterOneClose(t *testing.T) {
	hidden := &fakeElement{}
	first := &fakeElement{visible: true}
	second := &fakeElement{visible: true}
	later := &fakeElement{visible: true}

	s1, _ := fakeStrategy("modal", hidden, first, second)
	s2, _ := fakeStrategy("popup", later)

	d := NewDismisser(FirstMatch, quietLogger(), s1, s2).WithSettle(0)
	closed := d.Dismiss(nil)

	assert.Equal(t, 1, closed)
	assert.Equal(t, 0, hidden.clicks, "hidden controls are never clicked")
	assert.Equal(t, 1, first.clicks)
	assert.True(t, first.forced, "overlay clicks are forced")
	assert.Equal(t, 0, second.clicks)
	assert.Equal(t, 0, later.clicks, "later strategies are skipped once one closes")
}

func TestDismissAllClosesEveryVisibleMatch(t *testing.T) {
	a := &fakeElement{visible: true}
	b := &fakeElement{visible: true}
	c := &fakeElement{visible: true}

	s1, _ := fakeStrategy("x-icon", a, b)
	s2, _ := fakeStrategy("green-close-icon", c)

	var seen []string
	d := NewDismisser(All, quietLogger(), s1, s2).
		WithSettle(0).
		OnDismiss(func(name string) { seen = append(seen, name) })

	assert.Equal(t, 3, d.Dismiss(nil))
	assert.Equal(t, []string{"x-icon", "x-icon", "green-close-icon"}, seen)
}

func TestDismissSwallowsFailures(t *testing.T) {
	broken := &fakeElement{visible: true, clickErr: errors.New("element detached")}
	unknown := &fakeElement{visErr: errors.New("frame gone")}
	ok := &fakeElement{visible: true}

	s1, _ := fakeStrategy("broken", broken, unknown)
	s2, loc := fakeStrategy("counting", ok)
	loc.countErr = errors.New("target closed")
	s3, _ := fakeStrategy("fine", ok)

	d := NewDismisser(FirstMatch, quietLogger(), s1, s2, s3).WithSettle(0)

	require.NotPanics(t, func() {
		assert.Equal(t, 1, d.Dismiss(nil))
	})
	assert.Equal(t, 1, ok.clicks, "only the healthy strategy closes an overlay")
}

func TestDismissCapsMatchesPerStrategy(t *testing.T) {
	var elems []*fakeElement
	for i := 0; i < maxMatches+3; i++ {
		elems = append(elems, &fakeElement{visible: true})
	}
	s, _ := fakeStrategy("many", elems...)

	d := NewDismisser(All, quietLogger(), s).WithSettle(0)
	assert.Equal(t, maxMatches, d.Dismiss(nil))
	assert.Zero(t, elems[maxMatches].clicks)
}

func TestDismissActStrategies(t *testing.T) {
	calls := 0
	act := Strategy{Name: "escape", Act: func(playwright.Page) error {
		calls++
		return nil
	}}
	failing := Strategy{Name: "broken", Act: func(playwright.Page) error {
		return errors.New("keyboard unavailable")
	}}

	var seen []string
	d := NewDismisser(All, quietLogger(), failing, act).
		WithSettle(0).
		OnDismiss(func(name string) { seen = append(seen, name) })

	assert.Equal(t, 1, d.Dismiss(nil))
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"escape"}, seen)
}

func TestDismissNothingVisible(t *testing.T) {
	s, _ := fakeStrategy("modal", &fakeElement{}, &fakeElement{})
	d := NewDismisser(All, quietLogger(), s).WithSettle(0)
	assert.Zero(t, d.Dismiss(nil))
}

func TestBuiltInStrategySets(t *testing.T) {
	sets := map[string][]Strategy{
		"enjoyed": EnjoyedBookingStrategies,
		"review":  ReviewPopupStrategies,
		"overlay": OverlayStrategies,
		"sign-in": SignInOverlayStrategies,
		"force":   ForceCloseStrategies,
	}
	for name, set := range sets {
		require.NotEmpty(t, set, name)
		for _, s := range set {
			assert.NotEmpty(t, s.Name, "%s strategy without a name", name)
			assert.True(t, (s.Locate == nil) != (s.Act == nil), "%s/%s must either locate or act", name, s.Name)
		}
	}
	assert.Greater(t, len(OverlayStrategies), len(EnjoyedBookingStrategies))
	assert.Equal(t, "escape", ForceCloseStrategies[len(ForceCloseStrategies)-1].Name)
}

func TestSiteDismisserReportsToHook(t *testing.T) {
	site, err := NewSite("https://ecohotels.com/", 0, quietLogger())
	require.NoError(t, err)

	var seen []string
	site.OnDismiss(func(name string) { seen = append(seen, name) })

	s, _ := fakeStrategy("sign-in-overlay", &fakeElement{visible: true})
	site.dismisser(FirstMatch, s).WithSettle(0).Dismiss(nil)

	assert.Equal(t, []string{"sign-in-overlay"}, seen)
}
