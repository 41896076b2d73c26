package pages

import (
	"fmt"
	"regexp"

	"github.com/playwright-community/playwright-go"
)

// ContactForm is what the footer contact form submits.
type ContactForm struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	BookingID string
	Subject   string
	Message   string
}

// ContactFields are the inputs of the contact form.
type ContactFields struct {
	FirstName playwright.Locator
	LastName  playwright.Locator
	Email     playwright.Locator
	Phone     playwright.Locator
	BookingID playwright.Locator
	Subject   playwright.Locator
	Message   playwright.Locator
	Send      playwright.Locator
}

// Footer is the page footer shared by every page.
type Footer struct {
	site *Site
	page playwright.Page

	Root playwright.Locator
}

// NewFooter binds the footer to page.
func NewFooter(site *Site, page playwright.Page) *Footer {
	return &Footer{site: site, page: page, Root: page.GetByRole(*playwright.AriaRoleContentinfo)}
}

// Open loads the home page, clears the cookie banner and scrolls to the footer.
func (f *Footer) Open() error {
	if _, err := f.page.Goto(f.site.Home()); err != nil {
		return fmt.Errorf("open home page: %w", err)
	}
	if err := f.AcceptCookiesIfPresent(); err != nil {
		return err
	}
	return f.ScrollToFooter()
}

// FooterLogo is the logo link inside the footer.
func (f *Footer) FooterLogo() playwright.Locator {
	return f.Root.GetByRole(*playwright.AriaRoleLink, playwright.LocatorGetByRoleOptions{
		Name: regexp.MustCompile(`(?i)Ecohotels\.com Logo`),
	})
}

// AcceptCookiesIfPresent clears the cookie banner when it shows.
func (f *Footer) AcceptCookiesIfPresent() error {
	return acceptCookies(f.page)
}

// ScrollToFooter scrolls until the footer is visible.
func (f *Footer) ScrollToFooter() error {
	footer := f.page.GetByRole(*playwright.AriaRoleContentinfo)
	if err := footer.ScrollIntoViewIfNeeded(); err != nil {
		return fmt.Errorf("scroll to footer: %w", err)
	}
	return f.site.expect().Locator(footer).ToBeVisible()
}

// ClickFooter clicks the footer area.
func (f *Footer) ClickFooter() error { return f.Root.Click() }

// ClickFooterLogo follows the footer logo.
func (f *Footer) ClickFooterLogo() error { return f.FooterLogo().Click() }

// GoToContactForm follows the Contact link.
func (f *Footer) GoToContactForm() error {
	return clickAll(f.Root, byRole(f.page, playwright.AriaRoleLink, "Contact"))
}

// ContactFormFields returns the contact form inputs.
func (f *Footer) ContactFormFields() ContactFields {
	return ContactFields{
		FirstName: byRole(f.page, playwright.AriaRoleTextbox, "First Name"),
		LastName:  byRole(f.page, playwright.AriaRoleTextbox, "Last Name"),
		Email:     f.page.Locator("#Email"),
		Phone:     byRole(f.page, playwright.AriaRoleTextbox, "1 (702) 123-"),
		BookingID: f.page.Locator("#bookingID"),
		Subject: f.page.Locator("div").
			Filter(playwright.LocatorFilterOptions{HasText: regexp.MustCompile(`^Subject$`)}).
			GetByRole(*playwright.AriaRoleTextbox),
		Message: byRole(f.page, playwright.AriaRoleTextbox, "Write your message..."),
		Send:    byRole(f.page, playwright.AriaRoleButton, "Send Message"),
	}
}

// FillAndSubmitContactForm fills every contact field and sends the form.
func (f *Footer) FillAndSubmitContactForm(form ContactForm) error {
	fields := f.ContactFormFields()
	inputs := []struct {
		name  string
		field playwright.Locator
		value string
	}{
		{"first name", fields.FirstName, form.FirstName},
		{"last name", fields.LastName, form.LastName},
		{"email", fields.Email, form.Email},
		{"phone", fields.Phone, form.Phone},
		{"booking id", fields.BookingID, form.BookingID},
		{"subject", fields.Subject, form.Subject},
		{"message", fields.Message, form.Message},
	}
	for _, in := range inputs {
		if err := in.field.Fill(in.value); err != nil {
			return fmt.Errorf("fill %s: %w", in.name, err)
		}
	}
	return fields.Send.Click()
}

// LinkByName finds a link by its accessible name.
func (f *Footer) LinkByName(name string) playwright.Locator {
	return byRole(f.page, playwright.AriaRoleLink, name)
}

// FollowLink clicks the named link and returns the page showing its destination.
// With newTab the destination is expected in a popup, and the current page is
// used when none opens.
func (f *Footer) FollowLink(name string, newTab bool) (playwright.Page, error) {
	link := f.LinkByName(name)
	if !newTab {
		return f.page, link.Click()
	}
	dest, err := f.page.ExpectPopup(func() error {
		return link.Click()
	}, playwright.PageExpectPopupOptions{Timeout: playwright.Float(5000)})
	if err != nil {
		f.site.log.Debug().Err(err).Str("link", name).Msg("no popup, checking current page")
		return f.page, nil
	}
	return dest, nil
}

// SocialLinks are the icon-only links in the footer.
func (f *Footer) SocialLinks(n int) []playwright.Locator {
	base := f.Root.GetByRole(*playwright.AriaRoleLink).Filter(playwright.LocatorFilterOptions{
		HasText: regexp.MustCompile(`^$`),
	})
	links := make([]playwright.Locator, n)
	for i := range links {
		links[i] = base.Nth(i)
	}
	return links
}

// Links returns the absolute hrefs of every footer link.
func (f *Footer) Links() ([]string, error) {
	html, err := f.page.Content()
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return ExtractLinks(html, "footer", f.page.URL())
}
