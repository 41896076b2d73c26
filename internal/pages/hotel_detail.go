package pages

import (
	"fmt"
	"regexp"

	"github.com/playwright-community/playwright-go"
)

// Tabs on the hotel detail page, in display order.
var HotelTabs = []string{
	"Images",
	"Rooms",
	"Hotel amenities",
	"Certified by",
	"Need to know",
	"View on map",
	"Similar Properties",
}

const reserveOnCard = `.bg-\[var\(--color-orangeprimary\)\].text-\[14px\]`

// HotelDetailPage is a single hotel: tabs, gallery, story, similar properties and
// the embedded search bar.
type HotelDetailPage struct {
	site  *Site
	page  playwright.Page
	hotel string

	Reserve          playwright.Locator
	MapButton        playwright.Locator
	MapPopup         playwright.Locator
	HotelStoryButton playwright.Locator
	HotelStory       playwright.Locator
	ReadMore         playwright.Locator
	StoryTitle       playwright.Locator
	Destination      playwright.Locator
	CheckIn          playwright.Locator
	Travelers        playwright.Locator
	SearchButton     playwright.Locator
	SimilarCards     playwright.Locator
	GalleryButton    playwright.Locator
	GalleryNext      playwright.Locator
	GalleryPrev      playwright.Locator
	Favourite        playwright.Locator
	ShowMorePhotos   playwright.Locator
	ModalOverlay     playwright.Locator
	Reviews          playwright.Locator
	ShareHotelButton playwright.Locator
	GreenPrimary     playwright.Locator
}

// NewHotelDetailPage returns the detail page object for hotel.
func NewHotelDetailPage(site *Site, page playwright.Page, hotel string) *HotelDetailPage {
	return &HotelDetailPage{
		site:             site,
		page:             page,
		hotel:            hotel,
		Reserve:          page.Locator("button").Filter(playwright.LocatorFilterOptions{HasText: regexp.MustCompile(`^Reserve$`)}),
		MapButton:        byRolePattern(page, playwright.AriaRoleButton, regexp.MustCompile(`Show on map|View on map`)),
		MapPopup:         page.Locator(".gm-style > div > div:nth-child(2)").First(),
		HotelStoryButton: page.Locator(".w-min"),
		HotelStory:       page.Locator(".hotel-story-container"),
		ReadMore:         byRole(page, playwright.AriaRoleButton, "Read More"),
		StoryTitle: page.Locator("div").Filter(playwright.LocatorFilterOptions{
			HasText: regexp.MustCompile(`^` + regexp.QuoteMeta(hotel) + ` - Hotel Story$`),
		}),
		Destination:      byRolePattern(page, playwright.AriaRoleTextbox, regexp.MustCompile(`Where to\?|Where are you going to\?`)),
		CheckIn:          byRolePattern(page, playwright.AriaRoleTextbox, regexp.MustCompile(`Check in|Check-in date`)),
		Travelers:        byRole(page, playwright.AriaRoleTextbox, "Travelers"),
		SearchButton:     byRole(page, playwright.AriaRoleButton, "Search"),
		SimilarCards:     page.Locator(".swiper-slide"),
		GalleryButton:    page.Locator(reserveOnCard).First(),
		GalleryNext:      page.Locator(".swiper-button-next"),
		GalleryPrev:      page.Locator(".swiper-button-prev"),
		Favourite:        page.Locator(`button[aria-label="Add to favourite"], button[aria-label="Add to favorite"]`),
		ShowMorePhotos:   byRole(page, playwright.AriaRoleButton, "Show more photos"),
		ModalOverlay:     page.Locator("#modal-overlay"),
		Reviews:          page.GetByText(regexp.MustCompile(`\+1Excellent\([0-9,]+ reviews\)`)),
		ShareHotelButton: byRole(page, playwright.AriaRoleButton, "Share Hotel"),
		GreenPrimary:     page.Locator(`.text-\[var\(--color-greenprimary\)\].text-xl`).First(),
	}
}

// CaptureFromResults opens resultsURL, clicks the first hotel card and returns
// the URL of the detail page it opens in a new tab.
func (h *HotelDetailPage) CaptureFromResults(resultsURL string) (string, error) {
	if _, err := h.page.Goto(resultsURL); err != nil {
		return "", fmt.Errorf("open results: %w", err)
	}
	h.site.dismisser(FirstMatch, SignInOverlayStrategies...).Dismiss(h.page)

	detail, err := popup(h.page, func() error {
		return h.page.Locator(reserveOnCard).First().Click()
	})
	if err != nil {
		return "", err
	}
	defer detail.Close()

	if err := detail.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	}); err != nil {
		return "", fmt.Errorf("detail page load: %w", err)
	}
	return detail.URL(), nil
}

// Open loads detailURL.
func (h *HotelDetailPage) Open(detailURL string) error {
	if _, err := h.page.Goto(detailURL); err != nil {
		return fmt.Errorf("open hotel detail: %w", err)
	}
	return nil
}

// ClickReserve clicks the reserve button.
func (h *HotelDetailPage) ClickReserve() error { return h.Reserve.Click() }

// ClickMapButton opens the location map.
func (h *HotelDetailPage) ClickMapButton() error { return h.MapButton.Click() }

// OpenTravelers opens the travelers picker.
func (h *HotelDetailPage) OpenTravelers() error { return h.Travelers.Click() }

// ClickSearch submits the search bar.
func (h *HotelDetailPage) ClickSearch() error { return h.SearchButton.Click() }

// AddToFavourite toggles the favourite heart.
func (h *HotelDetailPage) AddToFavourite() error { return h.Favourite.Click() }

// OpenImageGallery opens the photo gallery.
func (h *HotelDetailPage) OpenImageGallery() error {
	return h.ShowMorePhotos.Click()
}

// ClickReviews jumps to the reviews section.
func (h *HotelDetailPage) ClickReviews() error { return h.Reviews.Click() }

// Tab is the section tab named name.
func (h *HotelDetailPage) Tab(name string) playwright.Locator {
	return byRole(h.page, playwright.AriaRoleButton, name)
}

// NavigateToTab clicks the named tab.
func (h *HotelDetailPage) NavigateToTab(name string) error {
	for _, t := range HotelTabs {
		if t == name {
			return h.Tab(name).Click()
		}
	}
	return fmt.Errorf("unknown tab %q", name)
}

// NavigateAllTabs clicks through every section tab.
func (h *HotelDetailPage) NavigateAllTabs() error {
	for _, t := range HotelTabs {
		if err := h.Tab(t).Click(); err != nil {
			return fmt.Errorf("tab %s: %w", t, err)
		}
	}
	return nil
}

// SimilarProperty is the similar property card named name.
func (h *HotelDetailPage) SimilarProperty(name string) playwright.Locator {
	return byRole(h.page, playwright.AriaRoleLink, name)
}

// SelectSimilarProperty opens the named similar property.
func (h *HotelDetailPage) SelectSimilarProperty(name string) error {
	return h.SimilarProperty(name).Click()
}

// ExpectMapVisible waits for the location map.
func (h *HotelDetailPage) ExpectMapVisible() error {
	return h.site.expect().Locator(h.MapPopup).ToBeVisible()
}

// ViewHotelStory opens the story panel from its button before reading it.
func (h *HotelDetailPage) ViewHotelStory() error {
	if err := h.HotelStoryButton.Click(); err != nil {
		return fmt.Errorf("open hotel story: %w", err)
	}
	if err := h.site.expect().Locator(h.HotelStory).ToBeVisible(); err != nil {
		return err
	}
	return h.OpenHotelStory()
}

// OpenHotelStory expands the story with "Read More" and closes it again.
func (h *HotelDetailPage) OpenHotelStory() error {
	if err := h.ReadMore.Click(); err != nil {
		return fmt.Errorf("read more: %w", err)
	}
	if err := h.site.expect().Locator(h.StoryTitle).ToBeVisible(); err != nil {
		return fmt.Errorf("story title: %w", err)
	}
	return h.StoryTitle.GetByRole(*playwright.AriaRoleButton).Click()
}

// VerifyBestDeal checks that the best deal banner shows text.
func (h *HotelDetailPage) VerifyBestDeal(text string) error {
	expect := h.site.expect()
	if err := expect.Locator(byText(h.page, text)).ToBeVisible(); err != nil {
		return err
	}
	return expect.Locator(h.page.GetByRole(*playwright.AriaRoleMain)).ToContainText("Best Deal:")
}

// FillDestination focuses the destination box and types destination.
func (h *HotelDetailPage) FillDestination(destination string) error {
	if err := h.Destination.Click(); err != nil {
		return err
	}
	return h.Destination.Fill(destination)
}

// SelectCheckInOutDates picks both stay dates.
func (h *HotelDetailPage) SelectCheckInOutDates(checkIn, checkOut string) error {
	if err := h.CheckIn.Click(); err != nil {
		return fmt.Errorf("open date picker: %w", err)
	}
	return clickAll(
		byRole(h.page, playwright.AriaRoleButton, checkIn).First(),
		byRole(h.page, playwright.AriaRoleButton, checkOut).First(),
	)
}

// PerformSearch runs a new search from the detail page.
func (h *HotelDetailPage) PerformSearch(destination, checkIn, checkOut string) error {
	if err := h.FillDestination(destination); err != nil {
		return err
	}
	if err := h.SelectCheckInOutDates(checkIn, checkOut); err != nil {
		return err
	}
	return h.ClickSearch()
}

// MonthHeading is the date picker heading for "October 2026" style labels.
func (h *HotelDetailPage) MonthHeading(label string) playwright.Locator {
	return h.page.Locator("div").Filter(playwright.LocatorFilterOptions{
		HasText: regexp.MustCompile(`^` + regexp.QuoteMeta(label) + `$`),
	})
}

// ScrollSimilarHotelCards scrolls the first two similar hotel cards into view.
func (h *HotelDetailPage) ScrollSimilarHotelCards() error {
	for i := 0; i < 2; i++ {
		if err := h.SimilarCards.Nth(i).ScrollIntoViewIfNeeded(); err != nil {
			return fmt.Errorf("scroll card %d: %w", i, err)
		}
	}
	return nil
}

// OpenAndScrollImageGallery opens the gallery and steps through it.
func (h *HotelDetailPage) OpenAndScrollImageGallery() error {
	return clickAll(h.GalleryButton, h.GalleryNext, h.GalleryNext, h.GalleryPrev)
}

// ClickLocation clicks the text location.
func (h *HotelDetailPage) ClickLocation(location string) error {
	return byText(h.page, location).Click()
}

func (h *HotelDetailPage) image(name string, exact bool) playwright.Locator {
	return h.page.GetByRole(*playwright.AriaRoleImg, playwright.PageGetByRoleOptions{
		Name:  name,
		Exact: playwright.Bool(exact),
	})
}

// NavigateImageGallery jumps between thumbnails and previews at both ends of
// the gallery.
func (h *HotelDetailPage) NavigateImageGallery() error {
	return clickAll(
		h.image("Thumbnail 24", false),
		h.image("Thumbnail 2", true),
		h.image("Preview 2", true),
		h.image("Thumbnail 25", false),
		h.image("Preview 25", false),
		h.image("Thumbnail 1", true),
		h.image("Preview 1", true),
	)
}

// NavigateModalOverlay pages the photo modal forward and back, then closes it.
func (h *HotelDetailPage) NavigateModalOverlay() error {
	arrows := h.ModalOverlay.Locator("svg")
	return clickAll(
		arrows.Nth(2), arrows.Nth(2),
		arrows.Nth(1), arrows.Nth(1),
		h.ModalOverlay.GetByRole(*playwright.AriaRoleButton),
	)
}

// NavigateSimilarProperties steps the carousel and opens the named card.
func (h *HotelDetailPage) NavigateSimilarProperties(name string) error {
	return clickAll(
		h.GalleryNext, h.GalleryNext,
		h.GalleryPrev, h.GalleryPrev, h.GalleryPrev,
		h.SimilarProperty(name),
	)
}

// ClickGreenPrimaryButton clicks the green primary button twice.
func (h *HotelDetailPage) ClickGreenPrimaryButton() error {
	return clickAll(h.GreenPrimary, h.GreenPrimary)
}

// ShareHotel clicks "Share Hotel" and dismisses the browser share dialog.
func (h *HotelDetailPage) ShareHotel() error {
	h.page.OnDialog(func(d playwright.Dialog) {
		h.site.log.Debug().Str("message", d.Message()).Msg("dismissing share dialog")
		if err := d.Dismiss(); err != nil {
			h.site.log.Debug().Err(err).Msg("dismiss dialog")
		}
	})
	return h.ShareHotelButton.Click()
}
