package pages

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/playwright-community/playwright-go"
)

// SortOrder is a price sort option on the results page.
type SortOrder string

const (
	LowestFirst  SortOrder = "Lowest"
	HighestFirst SortOrder = "Highest"
)

var hotelsInHeading = regexp.MustCompile(`(?i)Hotels in`)

// SearchPage is the search results listing with its filters, photo modal and map.
type SearchPage struct {
	site *Site
	page playwright.Page

	ResultsHeading playwright.Locator
	Destination    playwright.Locator
	PhotoModal     playwright.Locator
	PhotoModalImg  playwright.Locator
	Favourite      playwright.Locator
	ShowOnMap      playwright.Locator
	CloseMap       playwright.Locator
	BudgetSlider   playwright.Locator
	Facilities     playwright.Locator
}

// NewSearchPage binds the results page locators to page.
func NewSearchPage(site *Site, page playwright.Page) *SearchPage {
	return &SearchPage{
		site:           site,
		page:           page,
		ResultsHeading: byRolePattern(page, playwright.AriaRoleHeading, hotelsInHeading),
		Destination:    byRole(page, playwright.AriaRoleTextbox, "Where are you going to?"),
		PhotoModal:     page.Locator("#modal-overlay"),
		PhotoModalImg:  page.Locator("#modal-overlay img"),
		Favourite:      page.Locator(".fav-wrapper").First(),
		ShowOnMap:      byRole(page, playwright.AriaRoleButton, "Show on map"),
		CloseMap:       page.Locator(".close-map > svg"),
		BudgetSlider:   page.Locator(`input[type="range"]`).First(),
		Facilities:     byText(page, "Facilities"),
	}
}

// RunHomePageSearch searches for hotel from the home page and returns the
// results URL once the listing heading is shown.
func (s *SearchPage) RunHomePageSearch(hotel, checkIn, checkOut string) (string, error) {
	if _, err := s.page.Goto(s.site.Home()); err != nil {
		return "", fmt.Errorf("open home page: %w", err)
	}
	if err := acceptCookies(s.page); err != nil {
		return "", fmt.Errorf("accept cookies: %w", err)
	}
	expect := s.site.expect()
	if err := expect.Locator(s.Destination).ToBeVisible(); err != nil {
		return "", fmt.Errorf("search box: %w", err)
	}
	if err := s.Destination.Click(); err != nil {
		return "", err
	}
	if err := s.Destination.Fill(hotel); err != nil {
		return "", err
	}
	if err := byRole(s.page, playwright.AriaRoleHeading, hotel).Click(); err != nil {
		return "", fmt.Errorf("pick suggestion %s: %w", hotel, err)
	}
	if err := clickAll(
		byRole(s.page, playwright.AriaRoleButton, checkIn).First(),
		byRole(s.page, playwright.AriaRoleButton, checkOut).First(),
		byRole(s.page, playwright.AriaRoleButton, "Search"),
	); err != nil {
		return "", fmt.Errorf("pick dates and search: %w", err)
	}
	s.DismissSignInOverlay()
	if err := expect.Locator(s.ResultsHeading).ToBeVisible(); err != nil {
		return "", fmt.Errorf("results heading: %w", err)
	}
	return s.page.URL(), nil
}

// Open loads a previously captured results URL.
func (s *SearchPage) Open(resultsURL string) error {
	if _, err := s.page.Goto(resultsURL); err != nil {
		return fmt.Errorf("open results: %w", err)
	}
	return s.site.expect().Locator(s.ResultsHeading).ToBeVisible()
}

// DismissSignInOverlay closes the sign-in prompt if it is covering the results.
func (s *SearchPage) DismissSignInOverlay() int {
	return s.site.dismisser(FirstMatch, SignInOverlayStrategies...).Dismiss(s.page)
}

// SortByPrice sorts the listing by price in order.
func (s *SearchPage) SortByPrice(order SortOrder) error {
	return byText(s.page, fmt.Sprintf("Price (%s first)", order)).Click()
}

// Prices returns the nightly prices of the listed hotels in display order.
func (s *SearchPage) Prices() ([]float64, error) {
	html, err := s.page.Content()
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return ParsePrices(html, PriceSelector)
}

// StarFilter is the checkbox for a star rating.
func (s *SearchPage) StarFilter(stars int) playwright.Locator {
	return byText(s.page, strconv.Itoa(stars)+" stars")
}

// FilterByStars ticks each star rating.
func (s *SearchPage) FilterByStars(stars ...int) error {
	for _, n := range stars {
		if err := s.StarFilter(n).Click(); err != nil {
			return fmt.Errorf("filter %d stars: %w", n, err)
		}
	}
	return nil
}

// FilterByAmenities ticks each amenity.
func (s *SearchPage) FilterByAmenities(amenities ...string) error {
	for _, a := range amenities {
		if err := byText(s.page, a).Click(); err != nil {
			return fmt.Errorf("filter amenity %s: %w", a, err)
		}
	}
	return nil
}

// FilterByPropertyType ticks each property type.
func (s *SearchPage) FilterByPropertyType(types ...string) error {
	for _, t := range types {
		if err := byExactText(s.page, t).Click(); err != nil {
			return fmt.Errorf("filter property type %s: %w", t, err)
		}
	}
	return nil
}

// FilterByMealPlan ticks the meal plan.
func (s *SearchPage) FilterByMealPlan(plan string) error {
	return byText(s.page, plan).Click()
}

// CancellationFilter is the free cancellation checkbox.
func (s *SearchPage) CancellationFilter() playwright.Locator {
	return labelWithText(s.page, "Free Cancellation")
}

// FilterByCancellation ticks free cancellation.
func (s *SearchPage) FilterByCancellation() error {
	return s.CancellationFilter().Click()
}

// FilterBySustainability ticks the sustainability filter.
func (s *SearchPage) FilterBySustainability() error {
	return byText(s.page, "Sustainability Certification").Click()
}

// NudgeBudgetSlider moves the first budget handle one step right.
func (s *SearchPage) NudgeBudgetSlider() error {
	if err := s.BudgetSlider.Focus(); err != nil {
		return fmt.Errorf("focus budget slider: %w", err)
	}
	if err := s.page.Keyboard().Press("ArrowRight"); err != nil {
		return err
	}
	time.Sleep(500 * time.Millisecond)
	return nil
}

// OpenPhotoModal opens the photos of the first result.
func (s *SearchPage) OpenPhotoModal() error {
	if err := s.page.Locator(".absolute.bottom-2").First().Click(); err != nil {
		return fmt.Errorf("open photos: %w", err)
	}
	return s.site.expect().Locator(s.PhotoModal).ToBeVisible()
}

// ScrollImageModal moves the gallery right, then left.
func (s *SearchPage) ScrollImageModal() error {
	arrows := s.page.Locator("#modal-overlay svg")
	return clickAll(arrows.Nth(2), arrows.Nth(1))
}

// ClosePhotoModal closes the photo modal.
func (s *SearchPage) ClosePhotoModal() error {
	return s.PhotoModal.GetByRole(*playwright.AriaRoleButton).Click()
}

// AddToFavourite toggles the favourite heart of the first result.
func (s *SearchPage) AddToFavourite() error {
	return s.Favourite.Click()
}

// ScrollResults scrolls down the listing.
func (s *SearchPage) ScrollResults() error {
	return s.page.Mouse().Wheel(0, 1000)
}

// OpenAndCloseMap opens the map and closes it again.
func (s *SearchPage) OpenAndCloseMap() error {
	return openAndCloseMap(s.site, s.ShowOnMap, s.CloseMap)
}

// SignUpViaNewsletter signs up from the newsletter block and returns to the search bar.
func (s *SearchPage) SignUpViaNewsletter(email string, otp []string) error {
	if err := byExactText(s.page, "Sign up").Click(); err != nil {
		return fmt.Errorf("open sign up: %w", err)
	}
	emailBox := byRole(s.page, playwright.AriaRoleTextbox, "Enter your email address")
	if err := emailBox.Click(); err != nil {
		return err
	}
	if err := emailBox.Fill(email); err != nil {
		return err
	}
	if err := clickAll(
		labelWithText(s.page, "I agree to the processing of").Locator("div"),
		byRole(s.page, playwright.AriaRoleButton, "Sign in with email"),
	); err != nil {
		return fmt.Errorf("submit email: %w", err)
	}
	if err := fillOTP(s.page, otp); err != nil {
		return err
	}
	if err := byRole(s.page, playwright.AriaRoleButton, "Verify email").Click(); err != nil {
		return fmt.Errorf("verify email: %w", err)
	}
	return s.site.expect().Locator(s.Destination).ToBeVisible()
}

func openAndCloseMap(site *Site, show, close playwright.Locator) error {
	expect := site.expect()
	if err := show.Click(); err != nil {
		return fmt.Errorf("show map: %w", err)
	}
	if err := expect.Locator(close).ToBeVisible(); err != nil {
		return fmt.Errorf("map close button: %w", err)
	}
	if err := close.Click(); err != nil {
		return fmt.Errorf("close map: %w", err)
	}
	return expect.Locator(show).ToBeVisible()
}
