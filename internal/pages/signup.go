package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// SignUpFlow registers or signs in through the email one-time-code form.
type SignUpFlow struct {
	site *Site
	page playwright.Page

	Email            playwright.Locator
	GDPRLabel        playwright.Locator
	GDPRCheckbox     playwright.Locator
	MarketingConsent playwright.Locator
	Continue         playwright.Locator
	Verify           playwright.Locator
	WrongCode        playwright.Locator
}

// NewSignUpFlow binds the sign-up locators to page.
func NewSignUpFlow(site *Site, page playwright.Page) *SignUpFlow {
	return &SignUpFlow{
		site:             site,
		page:             page,
		Email:            byRole(page, playwright.AriaRoleTextbox, "Enter your email address"),
		GDPRLabel:        page.Locator(`label:has-text("I agree to the processing of my data")`),
		GDPRCheckbox:     page.Locator("#GDRP"),
		MarketingConsent: page.Locator(`label:has-text("I want to receive marketing emails") input[type="checkbox"]`),
		Continue:         byRole(page, playwright.AriaRoleButton, "Continue with email"),
		Verify:           byRole(page, playwright.AriaRoleButton, "Verify email"),
		WrongCode:        byText(page, "Wrong code"),
	}
}

// Goto opens the account login page, where sign-up starts.
func (f *SignUpFlow) Goto() error {
	if _, err := f.page.Goto(f.site.Login()); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}
	return nil
}

// SignUp submits email, accepts the data processing terms and enters otp.
func (f *SignUpFlow) SignUp(email string, otp []string, marketingConsent bool) error {
	if err := f.Goto(); err != nil {
		return err
	}
	if err := f.Email.Click(); err != nil {
		return err
	}
	if err := f.Email.Fill(email); err != nil {
		return fmt.Errorf("fill email: %w", err)
	}
	if err := labelWithText(f.page, "I agree to the processing of").Locator("div").Click(); err != nil {
		return fmt.Errorf("accept terms: %w", err)
	}
	if marketingConsent {
		checked, err := f.MarketingConsent.IsChecked()
		if err != nil {
			return fmt.Errorf("marketing consent: %w", err)
		}
		if !checked {
			if err := f.MarketingConsent.Click(); err != nil {
				return err
			}
		}
	}
	if err := f.Continue.Click(); err != nil {
		return fmt.Errorf("continue with email: %w", err)
	}
	if err := fillOTP(f.page, otp); err != nil {
		return err
	}
	return f.Verify.Click()
}

// OTPInputsShown reports whether the code inputs are still on the page.
func (f *SignUpFlow) OTPInputsShown() (bool, error) {
	n, err := f.page.Locator("#otp-input-0").Count()
	return n > 0, err
}

// ToggleGDPRConsent flips the GDPR consent box.
func (f *SignUpFlow) ToggleGDPRConsent() error {
	return f.GDPRLabel.Click()
}

// GDPRChecked reports whether the GDPR consent box is ticked.
func (f *SignUpFlow) GDPRChecked() (bool, error) {
	return f.GDPRCheckbox.IsChecked()
}
