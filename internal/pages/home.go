package pages

import (
	"fmt"
	"regexp"
	"time"

	"github.com/playwright-community/playwright-go"
)

// HomePage is the landing page: header, search bar, trending destinations,
// travel tips and newsletter sign-up.
type HomePage struct {
	site *Site
	page playwright.Page

	Logo                playwright.Locator
	ListProperty        playwright.Locator
	SignInSignUp        playwright.Locator
	CurrencyDropdown    playwright.Locator
	Destination         playwright.Locator
	CheckInOut          playwright.Locator
	Travelers           playwright.Locator
	SearchButton        playwright.Locator
	TrendingHeading     playwright.Locator
	TrendingDescription playwright.Locator
	TravelTipsHeading   playwright.Locator
	TravelTipsParagraph playwright.Locator
	PurposeText         playwright.Locator
	TreeText            playwright.Locator
	NextSlide           playwright.Locator
	VisitBlog           playwright.Locator
	NewsletterEmail     playwright.Locator
	AgreeTerms          playwright.Locator
}

// NewHomePage binds the home page locators to page.
func NewHomePage(site *Site, page playwright.Page) *HomePage {
	return &HomePage{
		site:                site,
		page:                page,
		Logo:                byRole(page, playwright.AriaRoleLink, "EcoHotels.com logo"),
		ListProperty:        byRole(page, playwright.AriaRoleLink, "List your property"),
		SignInSignUp:        byRole(page, playwright.AriaRoleLink, "Sign in/Sign up"),
		CurrencyDropdown:    page.Locator(".currency-dropdown > .flex"),
		Destination:         byRole(page, playwright.AriaRoleTextbox, "Where are you going to?"),
		CheckInOut:          byRole(page, playwright.AriaRoleTextbox, "Check-in date — Check-out date"),
		Travelers:           byRole(page, playwright.AriaRoleTextbox, "Travelers"),
		SearchButton:        byRole(page, playwright.AriaRoleButton, "Search"),
		TrendingHeading:     byRole(page, playwright.AriaRoleHeading, "Trending Destinations"),
		TrendingDescription: byText(page, "EcoHotels.com top travel destinations"),
		TravelTipsHeading:   byText(page, "Travel tips, top sights & nearby hotels"),
		TravelTipsParagraph: byText(page, "Let us guide you to an amazing experience and a comfortable stay"),
		PurposeText:         page.GetByText(regexp.MustCompile(`(?i)Find hotels with a purpose`)),
		TreeText:            page.GetByText(regexp.MustCompile(`(?i)EcoHotels\.com plants a tree for every booking`)),
		NextSlide:           byRolePattern(page, playwright.AriaRoleButton, regexp.MustCompile(`(?i)next slide`)),
		VisitBlog:           byRole(page, playwright.AriaRoleLink, "Visit blog"),
		NewsletterEmail:     byRole(page, playwright.AriaRoleTextbox, "Enter your email address"),
		AgreeTerms:          labelWithText(page, "I agree to the processing of").Locator("div"),
	}
}

// Goto opens the home page.
func (h *HomePage) Goto() error {
	if _, err := h.page.Goto(h.site.Home()); err != nil {
		return fmt.Errorf("open home page: %w", err)
	}
	return nil
}

// AcceptCookiesIfPresent clicks the cookie banner's accept button when it shows
// up within two seconds.
func (h *HomePage) AcceptCookiesIfPresent() error {
	return acceptCookies(h.page)
}

// ClickLogo follows the header logo.
func (h *HomePage) ClickLogo() error { return h.Logo.Click() }

// ClickListProperty follows the List your property link.
func (h *HomePage) ClickListProperty() error { return h.ListProperty.Click() }

// ClickSignInSignUp opens the sign-in menu.
func (h *HomePage) ClickSignInSignUp() error { return h.SignInSignUp.Click() }

// OpenTravelers opens the travelers picker.
func (h *HomePage) OpenTravelers() error { return h.Travelers.Click() }

// ClickSearch submits the search bar.
func (h *HomePage) ClickSearch() error { return h.SearchButton.Click() }

// ClickNextSlide advances the carousel.
func (h *HomePage) ClickNextSlide() error { return h.NextSlide.Click() }

// AgreeToTerms clicks the terms checkbox.
func (h *HomePage) AgreeToTerms() error { return h.AgreeTerms.Click() }

// ChangeCurrency picks the currency whose option starts with code, e.g. "SEK".
func (h *HomePage) ChangeCurrency(code string) error {
	if err := h.CurrencyDropdown.Click(); err != nil {
		return fmt.Errorf("open currency dropdown: %w", err)
	}
	option := h.page.Locator("div").Filter(playwright.LocatorFilterOptions{
		HasText: regexp.MustCompile(`^` + regexp.QuoteMeta(code) + ` - .+\)$`),
	}).First()
	if err := option.Click(); err != nil {
		return fmt.Errorf("select currency %s: %w", code, err)
	}
	return nil
}

// FillDestination focuses the destination box and types destination.
func (h *HomePage) FillDestination(destination string) error {
	if err := h.Destination.Click(); err != nil {
		return err
	}
	return h.Destination.Fill(destination)
}

// SelectCheckInOutDates opens the date picker and clicks the two day labels.
func (h *HomePage) SelectCheckInOutDates(checkIn, checkOut string) error {
	if err := h.CheckInOut.Click(); err != nil {
		return fmt.Errorf("open date picker: %w", err)
	}
	return clickAll(
		byRole(h.page, playwright.AriaRoleButton, checkIn).First(),
		byRole(h.page, playwright.AriaRoleButton, checkOut).First(),
	)
}

// DestinationCard is the trending-destination link for city.
func (h *HomePage) DestinationCard(city string) playwright.Locator {
	return byRole(h.page, playwright.AriaRoleLink, city+" "+city)
}

// ClickDestinationCard clicks the first visible card among cities. When none is
// visible the carousel is advanced twice and fallback is clicked instead.
func (h *HomePage) ClickDestinationCard(cities []string, fallback string) error {
	for _, city := range cities {
		clicked, err := clickIfVisible(h.DestinationCard(city))
		if err != nil {
			return fmt.Errorf("click %s card: %w", city, err)
		}
		if clicked {
			return nil
		}
	}

	h.site.log.Debug().Strs("cities", cities).Str("fallback", fallback).Msg("no trending card visible, scrolling carousel")
	if err := clickAll(h.NextSlide, h.NextSlide); err != nil {
		return fmt.Errorf("advance carousel: %w", err)
	}
	card := h.DestinationCard(fallback)
	if err := h.site.expect().Locator(card).ToBeVisible(); err != nil {
		return fmt.Errorf("fallback card %s: %w", fallback, err)
	}
	return card.Click()
}

// ClickVisitBlog opens the blog and returns the new tab once it has loaded.
func (h *HomePage) ClickVisitBlog() (playwright.Page, error) {
	blog, err := h.page.Context().ExpectPage(func() error {
		return h.VisitBlog.Click()
	})
	if err != nil {
		return nil, fmt.Errorf("open blog tab: %w", err)
	}
	if err := blog.WaitForLoadState(); err != nil {
		return nil, err
	}
	return blog, nil
}

// FillNewsletterEmail types email into the newsletter box.
func (h *HomePage) FillNewsletterEmail(email string) error {
	if err := h.NewsletterEmail.Click(); err != nil {
		return err
	}
	return h.NewsletterEmail.Fill(email)
}

// SearchHotel searches for hotel with a one-night stay starting on now and waits
// for the results to settle.
func (h *HomePage) SearchHotel(hotel string, now time.Time) error {
	if err := h.FillDestination(hotel); err != nil {
		return fmt.Errorf("fill destination: %w", err)
	}
	suggestion := h.page.Locator("h4.font-ManropeBold").Filter(playwright.LocatorFilterOptions{HasText: hotel})
	if err := suggestion.Click(); err != nil {
		return fmt.Errorf("pick suggestion %s: %w", hotel, err)
	}

	checkIn, checkOut := StayDays(now)
	today := byRole(h.page, playwright.AriaRoleButton, checkIn).First()
	tomorrow := byRole(h.page, playwright.AriaRoleButton, checkOut).First()
	// The picker only registers the check-in day on a second click.
	if err := clickAll(today, today, tomorrow); err != nil {
		return fmt.Errorf("pick dates %s-%s: %w", checkIn, checkOut, err)
	}

	if err := h.ClickSearch(); err != nil {
		return err
	}
	return h.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	})
}
