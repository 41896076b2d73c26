package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

var loginErrorSelectors = []string{
	`div[role="alert"]`,
	".error-message",
	".alert-error",
	`[data-testid="error-message"]`,
}

// LoginPage is the email and password login form.
type LoginPage struct {
	site *Site
	page playwright.Page

	Email          playwright.Locator
	Password       playwright.Locator
	LoginButton    playwright.Locator
	RememberMe     playwright.Locator
	ForgotPassword playwright.Locator
	RegisterHere   playwright.Locator
	ShowPassword   playwright.Locator
}

// NewLoginPage binds the login form locators to page.
func NewLoginPage(site *Site, page playwright.Page) *LoginPage {
	password := byRole(page, playwright.AriaRoleTextbox, "Enter your password")
	return &LoginPage{
		site:           site,
		page:           page,
		Email:          byRole(page, playwright.AriaRoleTextbox, "Enter your email address"),
		Password:       password,
		LoginButton:    byRole(page, playwright.AriaRoleButton, "Log in"),
		RememberMe:     labelWithText(page, "Remember me").Locator("div"),
		ForgotPassword: byRole(page, playwright.AriaRoleLink, "Forgot Password"),
		RegisterHere:   byRole(page, playwright.AriaRoleLink, "Register here"),
		ShowPassword: password.Locator("..").GetByRole(*playwright.AriaRoleButton, playwright.LocatorGetByRoleOptions{
			Name: "Show",
		}),
	}
}

// Goto opens the corporate login page.
func (l *LoginPage) Goto() error {
	if _, err := l.page.Goto(l.site.CorporateLogin()); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}
	return nil
}

// FillEmail types email into the email field.
func (l *LoginPage) FillEmail(email string) error { return l.Email.Fill(email) }

// FillPassword types password into the password field.
func (l *LoginPage) FillPassword(password string) error { return l.Password.Fill(password) }

// ClickLogin submits the form.
func (l *LoginPage) ClickLogin() error { return l.LoginButton.Click() }

// ToggleRememberMe flips the remember me box.
func (l *LoginPage) ToggleRememberMe() error { return l.RememberMe.Click() }

// ClickForgotPassword follows the forgot password link.
func (l *LoginPage) ClickForgotPassword() error { return l.ForgotPassword.Click() }

// ClickRegisterHere follows the register link.
func (l *LoginPage) ClickRegisterHere() error { return l.RegisterHere.Click() }

// ClearEmail empties the email field.
func (l *LoginPage) ClearEmail() error { return l.Email.Clear() }

// ClearPassword empties the password field.
func (l *LoginPage) ClearPassword() error { return l.Password.Clear() }

// CurrentURL is the URL the page shows now.
func (l *LoginPage) CurrentURL() string { return l.page.URL() }

// FillCredentials fills both fields.
func (l *LoginPage) FillCredentials(email, password string) error {
	if err := l.FillEmail(email); err != nil {
		return fmt.Errorf("fill email: %w", err)
	}
	if err := l.FillPassword(password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	return nil
}

// Login fills both fields and submits.
func (l *LoginPage) Login(email, password string) error {
	if err := l.FillCredentials(email, password); err != nil {
		return err
	}
	return l.ClickLogin()
}

// ClearAllFields empties both fields.
func (l *LoginPage) ClearAllFields() error {
	if err := l.ClearEmail(); err != nil {
		return err
	}
	return l.ClearPassword()
}

// IsRememberMeVisible reports whether the remember me box is shown.
func (l *LoginPage) IsRememberMeVisible() (bool, error) {
	return l.RememberMe.IsVisible()
}

// TogglePasswordVisibility clicks "Show" when the form offers it.
func (l *LoginPage) TogglePasswordVisibility() error {
	_, err := clickIfVisible(l.ShowPassword)
	return err
}

// IsShowPasswordButtonAvailable reports whether the show password toggle is visible.
func (l *LoginPage) IsShowPasswordButtonAvailable() (bool, error) {
	return l.ShowPassword.IsVisible()
}

// IsPasswordVisible reports whether the password input is rendered as plain text.
func (l *LoginPage) IsPasswordVisible() (bool, error) {
	typ, err := l.Password.GetAttribute("type")
	if err != nil {
		return false, err
	}
	return typ == "text", nil
}

// WaitForPageLoad waits for DOMContentLoaded, falling back to a shorter wait for load.
func (l *LoginPage) WaitForPageLoad() error {
	err := l.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: playwright.Float(30000),
	})
	if err == nil {
		return nil
	}
	l.site.log.Debug().Err(err).Msg("domcontentloaded wait failed, waiting for load")
	return l.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateLoad,
		Timeout: playwright.Float(10000),
	})
}

// IsOnLoginPage reports whether the page is exactly the corporate login URL.
func (l *LoginPage) IsOnLoginPage() bool {
	return l.page.URL() == l.site.CorporateLogin()
}

// ErrorMessageText returns the text of the first visible error element, or "".
func (l *LoginPage) ErrorMessageText() (string, error) {
	for _, sel := range loginErrorSelectors {
		el := l.page.Locator(sel).First()
		ok, err := el.IsVisible()
		if err != nil || !ok {
			continue
		}
		return el.TextContent()
	}
	return "", nil
}

// VerifyOnLoginPage fails unless the login form is shown.
func (l *LoginPage) VerifyOnLoginPage() error {
	if err := l.site.expect().Page(l.page).ToHaveURL(l.site.CorporateLogin()); err != nil {
		return err
	}
	return l.expectVisible(l.Email, l.Password, l.LoginButton)
}

// VerifySuccessfulLogin checks that the browser left the login page.
func (l *LoginPage) VerifySuccessfulLogin() error {
	return l.site.expect().Page(l.page).Not().ToHaveURL(l.site.CorporateLogin())
}

// VerifyLoginFailed checks that the browser stayed on the login form.
func (l *LoginPage) VerifyLoginFailed() error {
	if err := l.site.expect().Page(l.page).ToHaveURL(l.site.CorporateLogin()); err != nil {
		return err
	}
	return l.expectVisible(l.Email, l.LoginButton)
}

// VerifyFormElementsVisible waits for every login form control.
func (l *LoginPage) VerifyFormElementsVisible() error {
	return l.expectVisible(l.Email, l.Password, l.LoginButton, l.RememberMe, l.ForgotPassword, l.RegisterHere)
}

// VerifyFormElementsFunctional types into both inputs and checks the button is enabled.
func (l *LoginPage) VerifyFormElementsFunctional() error {
	expect := l.site.expect()
	if err := l.Email.Fill("test@example.com"); err != nil {
		return err
	}
	if err := expect.Locator(l.Email).ToHaveValue("test@example.com"); err != nil {
		return err
	}
	if err := l.Password.Fill("testpassword"); err != nil {
		return err
	}
	if err := expect.Locator(l.Password).ToHaveValue("testpassword"); err != nil {
		return err
	}
	return expect.Locator(l.LoginButton).ToBeEnabled()
}

func (l *LoginPage) expectVisible(locators ...playwright.Locator) error {
	expect := l.site.expect()
	for _, loc := range locators {
		if err := expect.Locator(loc).ToBeVisible(); err != nil {
			return err
		}
	}
	return nil
}
