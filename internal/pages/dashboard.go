package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// DashboardPage is the signed-in account area.
type DashboardPage struct {
	site *Site
	page playwright.Page

	Logo         playwright.Locator
	ProfileImage playwright.Locator
	Greeting     playwright.Locator
	NavDashboard playwright.Locator
	NavHome      playwright.Locator
	NavProfile   playwright.Locator
	NavBookings  playwright.Locator
	NavLevel     playwright.Locator
	NavSettings  playwright.Locator
	Destination  playwright.Locator
	SearchButton playwright.Locator
	Bookings     playwright.Locator
	Edit         playwright.Locator
	FirstName    playwright.Locator
	LastName     playwright.Locator
	Done         playwright.Locator
	Save         playwright.Locator
	Currency     playwright.Locator
	LogoutButton playwright.Locator
}

// NewDashboardPage binds the dashboard locators to page.
func NewDashboardPage(site *Site, page playwright.Page) *DashboardPage {
	return &DashboardPage{
		site:         site,
		page:         page,
		Logo:         page.Locator("img[alt='Eco Logo']"),
		ProfileImage: page.Locator("#dash-header svg.bi-person-circle"),
		Greeting:     page.GetByText("Good", playwright.PageGetByTextOptions{Exact: playwright.Bool(false)}).First(),
		NavDashboard: byRole(page, playwright.AriaRoleLink, "Dashboard"),
		NavHome:      byRole(page, playwright.AriaRoleLink, "Home"),
		NavProfile:   byRole(page, playwright.AriaRoleLink, "My Profile"),
		NavBookings:  byRole(page, playwright.AriaRoleLink, "My Bookings"),
		NavLevel:     byRole(page, playwright.AriaRoleLink, "My Level"),
		NavSettings:  byRole(page, playwright.AriaRoleLink, "Settings"),
		Destination:  byRole(page, playwright.AriaRoleTextbox, "Where are you going to?"),
		SearchButton: byRole(page, playwright.AriaRoleButton, "Search"),
		Bookings:     byRole(page, playwright.AriaRoleHeading, "Cancelled"),
		Edit:         byRole(page, playwright.AriaRoleButton, "Edit").First(),
		FirstName:    byRole(page, playwright.AriaRoleTextbox, "Enter your first name"),
		LastName:     byRole(page, playwright.AriaRoleTextbox, "Enter your last name"),
		Done:         byRole(page, playwright.AriaRoleButton, "Done"),
		Save:         byRole(page, playwright.AriaRoleButton, "Save"),
		Currency:     page.Locator("#Currency"),
		LogoutButton: byRole(page, playwright.AriaRoleButton, "Logout"),
	}
}

// Goto opens the account dashboard.
func (d *DashboardPage) Goto() error {
	if _, err := d.page.Goto(d.site.Dashboard()); err != nil {
		return fmt.Errorf("open dashboard: %w", err)
	}
	return nil
}

// LoginWithOTP signs in through the email code form and waits for the
// dashboard greeting. If the site lands elsewhere the dashboard is opened directly.
func (d *DashboardPage) LoginWithOTP(email string, otp []string) error {
	if _, err := d.page.Goto(d.site.Login()); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}
	if err := byRole(d.page, playwright.AriaRoleTextbox, "Enter your email address").Fill(email); err != nil {
		return fmt.Errorf("fill email: %w", err)
	}
	if err := clickAll(
		labelWithText(d.page, "I agree to the processing of").Locator("div"),
		byRole(d.page, playwright.AriaRoleButton, "Continue with email"),
	); err != nil {
		return fmt.Errorf("submit email: %w", err)
	}
	if err := fillOTP(d.page, otp); err != nil {
		return err
	}
	if err := byRole(d.page, playwright.AriaRoleButton, "Verify email").Click(); err != nil {
		return fmt.Errorf("verify email: %w", err)
	}

	time.Sleep(3 * time.Second)
	current := d.page.URL()
	d.site.log.Debug().Str("url", current).Msg("signed in")

	if needsDashboardNavigation(visible(d.Logo, 10000), current) {
		if err := d.Goto(); err != nil {
			return err
		}
		if !visible(d.Logo, 10000) {
			return fmt.Errorf("dashboard logo not shown after navigating from %s", current)
		}
	}

	if err := d.Greeting.WaitFor(playwright.LocatorWaitForOptions{Timeout: playwright.Float(15000)}); err != nil {
		return fmt.Errorf("greeting: %w", err)
	}
	return nil
}

// needsDashboardNavigation reports whether sign-in landed somewhere other than
// the dashboard. On a dashboard URL the greeting wait decides, even without the logo.
func needsDashboardNavigation(logoShown bool, current string) bool {
	return !logoShown && !strings.Contains(current, "/dashboard")
}

// ClickLogo clicks the site logo in the dashboard header.
func (d *DashboardPage) ClickLogo() error { return d.Logo.Click() }

// ClickProfileImage clicks the avatar in the dashboard header.
func (d *DashboardPage) ClickProfileImage() error { return d.ProfileImage.Click() }

// Logout signs the user out.
func (d *DashboardPage) Logout() error { return d.LogoutButton.Click() }

// VerifyLogoLinksDashboard checks that the browser is on the dashboard.
func (d *DashboardPage) VerifyLogoLinksDashboard() error {
	return d.site.expect().Page(d.page).ToHaveURL(d.site.Dashboard())
}

// GreetingMessage returns the greeting heading text.
func (d *DashboardPage) GreetingMessage() (string, error) {
	return d.Greeting.TextContent()
}

// NavigationItems are the account navigation controls in display order.
func (d *DashboardPage) NavigationItems() []playwright.Locator {
	return []playwright.Locator{
		d.NavDashboard,
		d.NavBookings,
		d.NavProfile.First(),
		d.NavLevel.First(),
		d.NavSettings,
		d.LogoutButton,
	}
}

// NavigateSections walks Home, My Profile, My Bookings and My Level.
func (d *DashboardPage) NavigateSections() error {
	return clickAll(d.NavHome, d.NavProfile.Nth(1), d.NavBookings, d.NavLevel.Nth(1))
}

// SearchDestination searches for hotel from the dashboard search bar with a
// one-night stay starting on now.
func (d *DashboardPage) SearchDestination(hotel string, now time.Time) error {
	if err := d.Destination.Click(); err != nil {
		return err
	}
	if err := d.Destination.Fill(hotel); err != nil {
		return err
	}
	suggestion := d.page.Locator("h4.font-ManropeBold").Filter(playwright.LocatorFilterOptions{HasText: hotel})
	checkIn, checkOut := StayDays(now)
	today := byRole(d.page, playwright.AriaRoleButton, checkIn).First()
	if err := clickAll(suggestion, today, today, byRole(d.page, playwright.AriaRoleButton, checkOut).First(), d.SearchButton); err != nil {
		return fmt.Errorf("search %s: %w", hotel, err)
	}
	return d.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	})
}

// OpenBookings shows the bookings list and returns its section heading.
func (d *DashboardPage) OpenBookings() (playwright.Locator, error) {
	return d.Bookings, d.NavBookings.Click()
}

// UpdateProfile edits both names, confirms and saves.
func (d *DashboardPage) UpdateProfile(firstName, lastName string) error {
	if err := d.Edit.Click(); err != nil {
		return err
	}
	if err := d.FirstName.Fill(firstName); err != nil {
		return err
	}
	if err := d.LastName.Fill(lastName); err != nil {
		return err
	}
	return clickAll(d.Done, d.Save)
}

// UpdateFirstName goes through Settings to My Profile and saves a new first name.
func (d *DashboardPage) UpdateFirstName(firstName string) error {
	if err := clickAll(d.NavSettings, d.NavProfile.First(), d.Edit, d.FirstName); err != nil {
		return fmt.Errorf("open profile editor: %w", err)
	}
	if err := d.FirstName.Fill(firstName); err != nil {
		return err
	}
	return d.Save.Click()
}

// Level opens My Level and returns the locator for label.
func (d *DashboardPage) Level(label string) (playwright.Locator, error) {
	return byText(d.page, label), d.NavLevel.Nth(1).Click()
}

// UpdateSettings selects currency in Settings and saves.
func (d *DashboardPage) UpdateSettings(currency string) error {
	if err := clickAll(d.NavSettings, d.Edit); err != nil {
		return fmt.Errorf("open settings: %w", err)
	}
	if _, err := d.Currency.SelectOption(playwright.SelectOptionValues{Values: &[]string{currency}}); err != nil {
		return fmt.Errorf("select currency %s: %w", currency, err)
	}
	return d.Save.Click()
}
