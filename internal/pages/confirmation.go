package pages

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ConfirmationPage is the post-checkout booking confirmation.
type ConfirmationPage struct {
	site *Site
	page playwright.Page

	Content      playwright.Locator
	Modal        playwright.Locator
	Main         playwright.Locator
	Root         playwright.Locator
	LeaveReview  playwright.Locator
	ShareEmail   playwright.Locator
	SharePlans   playwright.Locator
	SharedNotice playwright.Locator
	Logo         playwright.Locator
	Accept       playwright.Locator
	Download     playwright.Locator
}

// NewConfirmationPage binds the confirmation page locators to page.
func NewConfirmationPage(site *Site, page playwright.Page) *ConfirmationPage {
	return &ConfirmationPage{
		site:         site,
		page:         page,
		Content:      page.Locator("#checkout-confirm"),
		Modal:        page.Locator("#modal-content"),
		Main:         page.GetByRole(*playwright.AriaRoleMain),
		Root:         page.Locator("#root"),
		LeaveReview:  byRole(page, playwright.AriaRoleLink, "Leave Review"),
		ShareEmail:   byRole(page, playwright.AriaRoleTextbox, "Add email address"),
		SharePlans:   byRole(page, playwright.AriaRoleButton, "Share Plans"),
		SharedNotice: byText(page, "Plans shared successfully!"),
		Logo:         byRole(page, playwright.AriaRoleLink, "Eco Hotels"),
		Accept:       byRole(page, playwright.AriaRoleButton, "Accept"),
		Download:     byRole(page, playwright.AriaRoleButton, "Download"),
	}
}

// NavigateToConfirmation opens the confirmation page for tempID.
func (c *ConfirmationPage) NavigateToConfirmation(tempID string) error {
	if _, err := c.page.Goto(c.site.CheckoutConfirm(tempID)); err != nil {
		return fmt.Errorf("open confirmation %s: %w", tempID, err)
	}
	return nil
}

// VerifyCancellationModal waits for the modal and returns its text.
func (c *ConfirmationPage) VerifyCancellationModal() (string, error) {
	return c.visibleText(c.Modal)
}

// CloseModal closes the booking summary modal.
func (c *ConfirmationPage) CloseModal() error {
	return c.page.Locator(modalClosePath).Click()
}

// CloseAnyPopup clears every overlay the confirmation page stacks on load and
// returns how many were closed.
func (c *ConfirmationPage) CloseAnyPopup() int {
	time.Sleep(500 * time.Millisecond)
	closed := c.CancelEnjoyedBookingPopup()
	closed += c.site.dismisser(All, OverlayStrategies...).Dismiss(c.page)
	return closed + c.CancelEnjoyedBookingPopup()
}

// CancelReviewPopup closes the review card if it is showing.
func (c *ConfirmationPage) CancelReviewPopup() int {
	return c.site.dismisser(FirstMatch, ReviewPopupStrategies...).Dismiss(c.page)
}

// CancelEnjoyedBookingPopup closes the "Enjoyed your booking?" prompt if it is showing.
func (c *ConfirmationPage) CancelEnjoyedBookingPopup() int {
	strategies := append(append([]Strategy{}, EnjoyedBookingStrategies...),
		locatorStrategy("header-close", ".flex.justify-end"))
	return c.site.dismisser(FirstMatch, strategies...).WithSettle(500 * time.Millisecond).Dismiss(c.page)
}

// ForceCloseReviewPopup clicks every close icon, then presses Escape and clicks away.
func (c *ConfirmationPage) ForceCloseReviewPopup() int {
	time.Sleep(time.Second)
	return c.site.dismisser(All, ForceCloseStrategies...).WithSettle(500 * time.Millisecond).Dismiss(c.page)
}

// VerifyMainContent returns the text of the main region.
func (c *ConfirmationPage) VerifyMainContent() (string, error) {
	return c.visibleText(c.Main)
}

// CheckoutConfirmContent returns the text of the confirmation body.
func (c *ConfirmationPage) CheckoutConfirmContent() (string, error) {
	return c.visibleText(c.Content)
}

// VerifyHomePage waits for the app root and returns its text.
func (c *ConfirmationPage) VerifyHomePage() (string, error) {
	return c.visibleText(c.Root)
}

// ClickGreenPrimary clicks the green primary icon.
func (c *ConfirmationPage) ClickGreenPrimary() error {
	return c.page.Locator(`.text-\[var\(--color-greenprimary\)\] > path:nth-child(2)`).Click()
}

// ClickFirstGreenPrimary clicks the first green primary button.
func (c *ConfirmationPage) ClickFirstGreenPrimary() error {
	return c.page.Locator(`.text-\[var\(--color-greenprimary\)\]`).First().Click()
}

// ClickViewTripDetails opens the trip details panel.
func (c *ConfirmationPage) ClickViewTripDetails() error {
	return byRole(c.page, playwright.AriaRoleButton, "View trip details").Click()
}

// ClickDownloadButton clicks the document download button.
func (c *ConfirmationPage) ClickDownloadButton() error { return c.Download.Click() }

// ClickAcceptButton accepts the cookie banner.
func (c *ConfirmationPage) ClickAcceptButton() error { return c.Accept.Click() }

// ClickLogo follows the header logo.
func (c *ConfirmationPage) ClickLogo() error { return c.Logo.Click() }

// ClickSharePlans sends the share form.
func (c *ConfirmationPage) ClickSharePlans() error { return c.SharePlans.Click() }

// ClickFirstImageInModal opens the first image of the review modal.
func (c *ConfirmationPage) ClickFirstImageInModal() error {
	return c.Modal.GetByRole(*playwright.AriaRoleImg).First().Click()
}

// ClickLeaveReview returns the review page opened by "Leave Review".
func (c *ConfirmationPage) ClickLeaveReview() (playwright.Page, error) {
	return popup(c.page, func() error { return c.LeaveReview.Click() })
}

// LeaveReviewOnTrustpilot opens the review popup and points it at the review form.
func (c *ConfirmationPage) LeaveReviewOnTrustpilot() (playwright.Page, error) {
	review, err := c.ClickLeaveReview()
	if err != nil {
		return nil, err
	}
	if _, err := review.Goto(TrustpilotReviewURL); err != nil {
		review.Close()
		return nil, fmt.Errorf("open trustpilot: %w", err)
	}
	return review, nil
}

// VerifyTrustpilotPage checks that review shows the site's Trustpilot page.
func (c *ConfirmationPage) VerifyTrustpilotPage(review playwright.Page) error {
	return c.site.expect().Locator(review.Locator("h1")).ToContainText("EcoHotels.com")
}

// VerifyHotelImage reports whether the image named hotel is shown.
func (c *ConfirmationPage) VerifyHotelImage(hotel string) (bool, error) {
	return c.waitVisible(byRole(c.page, playwright.AriaRoleImg, hotel))
}

// VerifyRoomDetails reports whether details are shown.
func (c *ConfirmationPage) VerifyRoomDetails(details string) (bool, error) {
	return c.waitVisible(byText(c.page, details))
}

// ClickRoomHeading clicks the booked room heading.
func (c *ConfirmationPage) ClickRoomHeading() error {
	return byRole(c.page, playwright.AriaRoleHeading, "Room 1").Click()
}

// ClickSocialMediaLinks opens the first three share links and returns their tabs.
func (c *ConfirmationPage) ClickSocialMediaLinks() ([]playwright.Page, error) {
	links := c.Content.GetByRole(*playwright.AriaRoleLink)
	var pages []playwright.Page
	for i := 0; i < 3; i++ {
		p, err := c.page.ExpectPopup(func() error { return links.Nth(i).Click() })
		if err != nil {
			for _, opened := range pages {
				opened.Close()
			}
			return nil, fmt.Errorf("social link %d: %w", i, err)
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// FillEmailForSharing types email into the share form.
func (c *ConfirmationPage) FillEmailForSharing(email string) error {
	if err := c.ShareEmail.Click(); err != nil {
		return err
	}
	return c.ShareEmail.Fill(email)
}

// VerifyPlansShared reports whether the share confirmation is shown.
func (c *ConfirmationPage) VerifyPlansShared() (bool, error) {
	return c.waitVisible(c.SharedNotice)
}

// DownloadDocument clicks Download when the page offers it.
func (c *ConfirmationPage) DownloadDocument() error {
	_, err := clickIfVisible(c.Download)
	return err
}

// CancelHotelOverlay closes the hotel overlay.
func (c *ConfirmationPage) CancelHotelOverlay() error {
	_, err := clickIfVisible(byRole(c.page, playwright.AriaRoleButton, "Cancel"))
	return err
}

// CancelReview clicks "Cancel Review" when it is shown.
func (c *ConfirmationPage) CancelReview() error {
	_, err := clickIfVisible(byRole(c.page, playwright.AriaRoleButton, "Cancel Review"))
	return err
}

// NavigateToCancellationPage follows the cancellation link.
func (c *ConfirmationPage) NavigateToCancellationPage() error {
	_, err := clickIfVisible(byRole(c.page, playwright.AriaRoleLink, "Cancel Booking"))
	return err
}

func (c *ConfirmationPage) visibleText(l playwright.Locator) (string, error) {
	if err := l.WaitFor(playwright.LocatorWaitForOptions{State: playwright.WaitForSelectorStateVisible}); err != nil {
		return "", err
	}
	return l.TextContent()
}

func (c *ConfirmationPage) waitVisible(l playwright.Locator) (bool, error) {
	if err := l.WaitFor(playwright.LocatorWaitForOptions{State: playwright.WaitForSelectorStateVisible}); err != nil {
		return false, err
	}
	return l.IsVisible()
}
