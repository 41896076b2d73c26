package pages

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PriceBound selects one end of the budget range.
type PriceBound string

const (
	MinPrice PriceBound = "Min €"
	MaxPrice PriceBound = "Max €"
)

// FavouriteVariant picks which favourite toggle state to click on the map.
type FavouriteVariant string

const (
	FavouriteAny      FavouriteVariant = ""
	FavouriteInactive FavouriteVariant = "opacity-60"
	FavouriteActive   FavouriteVariant = "opacity-100"
)

const favouriteToggle = `.fav-wrapper.flex.items-center.justify-center.max-w-\[30px\].max-h-\[30px\].rounded-full.bg-white.cursor-pointer`

// MapPage is the map view over the search results and its filter bar.
type MapPage struct {
	site *Site
	page playwright.Page

	ShowOnMap     playwright.Locator
	CloseButton   playwright.Locator
	CloseOverlay  playwright.Locator
	MapBody       playwright.Locator
	Container     playwright.Locator
	Markers       playwright.Locator
	SignInPrompt  playwright.Locator
	BudgetSliders playwright.Locator
}

// NewMapPage binds the map and filter bar locators to page.
func NewMapPage(site *Site, page playwright.Page) *MapPage {
	return &MapPage{
		site:         site,
		page:         page,
		ShowOnMap:    byRole(page, playwright.AriaRoleButton, "Show on map"),
		CloseButton:  page.Locator(".close-map > svg"),
		CloseOverlay: page.Locator(".close-map"),
		MapBody:      page.Locator(".map-body"),
		Container:    page.Locator(".map-container"),
		Markers:      page.Locator(".map-marker"),
		SignInPrompt: page.Locator("div").Filter(playwright.LocatorFilterOptions{HasText: "Sign in or create account to"}).Nth(2),
		BudgetSliders: page.Locator("form").
			Filter(playwright.LocatorFilterOptions{HasText: "Price Sort Sort by: Price ("}).
			GetByRole(*playwright.AriaRoleSlider),
	}
}

// RunHomePageSearch searches for hotel and returns the results URL.
func (m *MapPage) RunHomePageSearch(hotel, checkIn, checkOut string) (string, error) {
	return NewSearchPage(m.site, m.page).RunHomePageSearch(hotel, checkIn, checkOut)
}

// HandleSignInOverlay closes the sign-in prompt when it appears within the
// assertion timeout.
func (m *MapPage) HandleSignInOverlay() int {
	if err := m.site.expect().Locator(m.SignInPrompt).ToBeVisible(); err != nil {
		m.site.log.Debug().Msg("sign-in overlay not shown")
		return 0
	}
	return m.site.dismisser(FirstMatch, SignInOverlayStrategies...).Dismiss(m.page)
}

// OpenMap shows the map and waits for its close button.
func (m *MapPage) OpenMap() error {
	if err := m.ShowOnMap.Click(); err != nil {
		return fmt.Errorf("show map: %w", err)
	}
	return m.site.expect().Locator(m.CloseButton).ToBeVisible()
}

// CloseMap closes the map and waits for the show button.
func (m *MapPage) CloseMap() error {
	if err := m.CloseButton.Click(); err != nil {
		return fmt.Errorf("close map: %w", err)
	}
	return m.site.expect().Locator(m.ShowOnMap).ToBeVisible()
}

// OpenAndCloseMap opens the map and closes it again.
func (m *MapPage) OpenAndCloseMap() error {
	return openAndCloseMap(m.site, m.ShowOnMap, m.CloseButton)
}

// CloseMapWithOverlay clicks the close area around the map.
func (m *MapPage) CloseMapWithOverlay() error { return m.CloseOverlay.Click() }

// ZoomIn clicks the zoom in control.
func (m *MapPage) ZoomIn() error { return m.page.Locator(".map-zoom-in").Click() }

// ZoomOut clicks the zoom out control.
func (m *MapPage) ZoomOut() error { return m.page.Locator(".map-zoom-out").Click() }

// ClickMarker clicks the first marker.
func (m *MapPage) ClickMarker() error { return m.Markers.First().Click() }

// FilterOnMap opens the map filter.
func (m *MapPage) FilterOnMap() error { return byText(m.page, "Filter on map").Click() }

// ToggleLayers opens the layer menu.
func (m *MapPage) ToggleLayers() error { return byText(m.page, "Map layers").Click() }

// VerifyMarkerInfo waits for the marker popup.
func (m *MapPage) VerifyMarkerInfo() error {
	return m.site.expect().Locator(m.page.Locator(".marker-info")).ToBeVisible()
}

// DragMap drags the map by pressing inside it and moving to (100, 100).
func (m *MapPage) DragMap() error {
	if err := m.Container.Hover(); err != nil {
		return err
	}
	mouse := m.page.Mouse()
	if err := mouse.Down(); err != nil {
		return err
	}
	if err := mouse.Move(100, 100); err != nil {
		return err
	}
	return mouse.Up()
}

// SearchLocation searches the map for location.
func (m *MapPage) SearchLocation(location string) error {
	box := byRole(m.page, playwright.AriaRoleTextbox, "Search on map")
	if err := box.Click(); err != nil {
		return err
	}
	if err := box.Fill(location); err != nil {
		return err
	}
	return m.page.Keyboard().Press("Enter")
}

// VerifyLoaded waits for the map container.
func (m *MapPage) VerifyLoaded() error {
	return m.site.expect().Locator(m.Container).ToBeVisible()
}

// CountMarkers returns how many markers are drawn.
func (m *MapPage) CountMarkers() (int, error) {
	return m.Markers.Count()
}

// ClickHotelMarker clicks the marker labelled hotel.
func (m *MapPage) ClickHotelMarker(hotel string) error {
	return m.page.Locator(fmt.Sprintf(`[data-hotel=%q]`, hotel)).Click()
}

// VerifyHotelDetails waits for the hotel card on the map.
func (m *MapPage) VerifyHotelDetails() error {
	return m.site.expect().Locator(m.page.Locator(".hotel-details-panel")).ToBeVisible()
}

// ToggleView switches the map to "satellite", "street" or "hybrid".
func (m *MapPage) ToggleView(view string) error {
	return byText(m.page, "Switch to "+view+" view").Click()
}

// ClickYourBudget opens the budget filter.
func (m *MapPage) ClickYourBudget() error {
	return byRole(m.page, playwright.AriaRoleButton, "Your Budget").Click()
}

// ClickPriceSort opens the price sort menu.
func (m *MapPage) ClickPriceSort() error {
	return byRole(m.page, playwright.AriaRoleButton, "Price Sort").Click()
}

// SelectPriceLowestFirst sorts by price ascending.
func (m *MapPage) SelectPriceLowestFirst() error {
	return byText(m.page, "Price (Lowest first)").First().Click()
}

// SelectPriceHighestFirst sorts by price descending.
func (m *MapPage) SelectPriceHighestFirst() error {
	return byText(m.page, "Price (Highest first)").First().Click()
}

// ClickStarRating opens the star rating filter.
func (m *MapPage) ClickStarRating() error {
	return byRole(m.page, playwright.AriaRoleButton, "Star Rating").Click()
}

// SelectStarRating toggles the "n star(s)" option.
func (m *MapPage) SelectStarRating(n int) error {
	label := strconv.Itoa(n) + " star"
	if n > 1 {
		label += "s"
	}
	return m.exactDiv(label).Click()
}

// WaitForShowMapButton waits for the show on map button.
func (m *MapPage) WaitForShowMapButton() error {
	return m.page.Locator(`button:has-text("Show on map")`).WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(15000),
	})
}

// OpenMapWithTimeout waits for "Show on map" to be enabled, clears a blocking
// modal if one is up, then opens the map.
func (m *MapPage) OpenMapWithTimeout() error {
	err := m.page.Locator(`button:has-text("Show on map"):not([disabled])`).WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(15000),
	})
	if err != nil {
		return fmt.Errorf("show on map never enabled: %w", err)
	}

	modal := m.page.Locator(".fixed.inset-0.flex.items-center.justify-center.bg-black.bg-opacity-50")
	if ok, _ := modal.IsVisible(); ok {
		closer := Strategy{
			Name: "blocking-modal",
			Locate: func(p playwright.Page) playwright.Locator {
				return p.Locator(`button:has-text("×"), button:has-text("Close"), .close-button`)
			},
		}
		m.site.dismisser(FirstMatch, closer).WithSettle(time.Second).Dismiss(m.page)
	}

	return m.ShowOnMap.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(10000)})
}

// PriceText returns the current label of one end of the budget range.
func (m *MapPage) PriceText(bound PriceBound) (string, error) {
	return byText(m.page, string(bound)).TextContent()
}

// BudgetRange reads both budget labels.
func (m *MapPage) BudgetRange() (BudgetRange, error) {
	minText, err := m.PriceText(MinPrice)
	if err != nil {
		return BudgetRange{}, fmt.Errorf("min price: %w", err)
	}
	maxText, err := m.PriceText(MaxPrice)
	if err != nil {
		return BudgetRange{}, fmt.Errorf("max price: %w", err)
	}
	return BudgetRange{Min: minText, Max: maxText}, nil
}

// NudgeMinSlider raises the lower budget bound by ten steps.
func (m *MapPage) NudgeMinSlider() error {
	return m.nudge(m.BudgetSliders.Nth(2), "ArrowRight", 10)
}

// NudgeMaxSlider lowers the upper budget bound by ten steps.
func (m *MapPage) NudgeMaxSlider() error {
	return m.nudge(m.BudgetSliders.Nth(3), "ArrowLeft", 10)
}

func (m *MapPage) nudge(slider playwright.Locator, key string, steps int) error {
	if err := slider.Click(); err != nil {
		return fmt.Errorf("click slider: %w", err)
	}
	if err := slider.Focus(); err != nil {
		return err
	}
	for i := 0; i < steps; i++ {
		if err := m.page.Keyboard().Press(key); err != nil {
			return err
		}
		time.Sleep(50 * time.Millisecond)
	}
	return nil
}

// ScrollToBudgetFilter scrolls the budget sliders into view.
func (m *MapPage) ScrollToBudgetFilter() error {
	return m.scroll(800, 500*time.Millisecond)
}

// ScrollFineTune scrolls a little further down and lets the page settle.
func (m *MapPage) ScrollFineTune() error {
	return m.scroll(300, 300*time.Millisecond)
}

func (m *MapPage) scroll(dy float64, settle time.Duration) error {
	if err := m.page.Mouse().Wheel(0, dy); err != nil {
		return err
	}
	time.Sleep(settle)
	return nil
}

// ClickPriceDisplays clicks the price labels so the range applies.
func (m *MapPage) ClickPriceDisplays() error {
	return clickAll(byText(m.page, string(MinPrice)), byText(m.page, string(MaxPrice)))
}

// ClickFacilities opens the facilities filter.
func (m *MapPage) ClickFacilities() error {
	return byRole(m.page, playwright.AriaRoleButton, "Facilities").Click()
}

// SelectFacility toggles the facility name.
func (m *MapPage) SelectFacility(name string) error {
	return m.exactDiv(name).Click()
}

// ClickFacilityCombination clicks the collapsed row of selected facilities.
func (m *MapPage) ClickFacilityCombination() error {
	return byText(m.page, "Car parkSpaAir").Click()
}

// ClickDesktopToggle clicks the filter bar toggle shown only on wide screens.
func (m *MapPage) ClickDesktopToggle() error {
	return m.page.Locator(`.hidden.lg\:inline-flex.cursor-pointer`).Click()
}

// ClickMealPlan opens the meal plan filter.
func (m *MapPage) ClickMealPlan() error {
	return byRole(m.page, playwright.AriaRoleButton, "Meal Plan").Click()
}

// ClickPropertyType opens the property type filter.
func (m *MapPage) ClickPropertyType() error {
	return byRole(m.page, playwright.AriaRoleButton, "Property Type").Click()
}

// SelectPropertyType toggles the property type name.
func (m *MapPage) SelectPropertyType(name string) error {
	return byExactText(m.page, name).First().Click()
}

// SelectMealPlan toggles the meal plan name.
func (m *MapPage) SelectMealPlan(name string) error {
	return byText(m.page, name).First().Click()
}

// ClickFreeCancellation toggles the free cancellation filter.
func (m *MapPage) ClickFreeCancellation() error {
	return labelWithText(m.page, "Free Cancellation").First().Click()
}

// ClickFavourite clicks the first favourite toggle, limited to variant unless it
// is FavouriteAny.
func (m *MapPage) ClickFavourite(variant FavouriteVariant) error {
	if variant == FavouriteAny {
		return m.page.Locator(".fav-wrapper").First().Click()
	}
	return m.page.Locator(favouriteToggle + "." + string(variant)).First().Click()
}

func (m *MapPage) exactDiv(text string) playwright.Locator {
	return m.page.Locator("div").Filter(playwright.LocatorFilterOptions{
		HasText: regexp.MustCompile(`^` + regexp.QuoteMeta(text) + `$`),
	})
}
