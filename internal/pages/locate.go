package pages

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/playwright-community/playwright-go"
)

func byRole(p playwright.Page, role *playwright.AriaRole, name string) playwright.Locator {
	return p.GetByRole(*role, playwright.PageGetByRoleOptions{Name: name})
}

func byRoleExact(p playwright.Page, role *playwright.AriaRole, name string) playwright.Locator {
	return p.GetByRole(*role, playwright.PageGetByRoleOptions{Name: name, Exact: playwright.Bool(true)})
}

func byRolePattern(p playwright.Page, role *playwright.AriaRole, pattern *regexp.Regexp) playwright.Locator {
	return p.GetByRole(*role, playwright.PageGetByRoleOptions{Name: pattern})
}

func byText(p playwright.Page, text string) playwright.Locator {
	return p.GetByText(text)
}

func byExactText(p playwright.Page, text string) playwright.Locator {
	return p.GetByText(text, playwright.PageGetByTextOptions{Exact: playwright.Bool(true)})
}

func labelWithText(p playwright.Page, text string) playwright.Locator {
	return p.Locator("label").Filter(playwright.LocatorFilterOptions{HasText: text})
}

// clickIfVisible clicks l when it is visible and reports whether it did.
func clickIfVisible(l playwright.Locator) (bool, error) {
	visible, err := l.IsVisible()
	if err != nil || !visible {
		return false, nil
	}
	if err := l.Click(); err != nil {
		return false, err
	}
	return true, nil
}

// visible waits up to timeout for l to become visible.
func visible(l playwright.Locator, timeout float64) bool {
	err := l.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(timeout),
	})
	return err == nil
}

func clickAll(locators ...playwright.Locator) error {
	for _, l := range locators {
		if err := l.Click(); err != nil {
			return err
		}
	}
	return nil
}

// fillOTP types one digit per OTP input.
func fillOTP(p playwright.Page, otp []string) error {
	if len(otp) == 0 {
		return errors.New("empty otp")
	}
	if err := p.Locator("#otp-input-0").WaitFor(playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateVisible,
	}); err != nil {
		return fmt.Errorf("otp inputs not shown: %w", err)
	}
	for i, digit := range otp {
		if err := p.Locator("#otp-input-" + strconv.Itoa(i)).Fill(digit); err != nil {
			return fmt.Errorf("fill otp digit %d: %w", i, err)
		}
	}
	return nil
}

// popup runs action and returns the page it opens.
func popup(p playwright.Page, action func() error) (playwright.Page, error) {
	np, err := p.ExpectPopup(action)
	if err != nil {
		return nil, fmt.Errorf("wait for popup: %w", err)
	}
	if err := np.WaitForLoadState(); err != nil {
		return nil, fmt.Errorf("popup load: %w", err)
	}
	return np, nil
}

func acceptCookies(p playwright.Page) error {
	btn := p.Locator(`button, [role="button"]`).Filter(playwright.LocatorFilterOptions{
		HasText: regexp.MustCompile(`(?i)Accept`),
	}).First()
	if !visible(btn, 2000) {
		return nil
	}
	return btn.Click()
}
