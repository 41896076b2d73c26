package pages

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PriceSelector matches the nightly price on each result card.
const PriceSelector = "strong.js-price strong.font-ManropeBold"

// ParsePrice keeps only digits and dots from text and parses the result.
func ParsePrice(text string) (float64, bool) {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// BudgetRange is the pair of labels shown under the budget sliders.
type BudgetRange struct {
	Min string
	Max string
}

// CheckNarrowed verifies that after is strictly inside before: the minimum
// went up and the maximum went down.
func (before BudgetRange) CheckNarrowed(after BudgetRange) error {
	values := make([]float64, 4)
	for i, label := range []string{before.Min, before.Max, after.Min, after.Max} {
		v, ok := ParsePrice(label)
		if !ok {
			return fmt.Errorf("budget label %q has no price", label)
		}
		values[i] = v
	}
	minBefore, maxBefore, minAfter, maxAfter := values[0], values[1], values[2], values[3]
	if minAfter <= minBefore {
		return fmt.Errorf("minimum did not rise: %q -> %q", before.Min, after.Min)
	}
	if maxAfter >= maxBefore {
		return fmt.Errorf("maximum did not fall: %q -> %q", before.Max, after.Max)
	}
	return nil
}

// ParsePrices returns the prices of every element matching selector in html,
// in document order. Elements without a number are skipped.
func ParsePrices(html, selector string) ([]float64, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	var prices []float64
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if v, ok := ParsePrice(s.Text()); ok {
			prices = append(prices, v)
		}
	})
	return prices, nil
}

// SortedAscending reports whether every price is >= the one before it.
func SortedAscending(prices []float64) bool {
	for i := 1; i < len(prices); i++ {
		if prices[i] < prices[i-1] {
			return false
		}
	}
	return true
}

// SortedDescending reports whether every price is <= the one before it.
func SortedDescending(prices []float64) bool {
	for i := 1; i < len(prices); i++ {
		if prices[i] > prices[i-1] {
			return false
		}
	}
	return true
}

// ExtractLinks returns the absolute http(s) hrefs of anchors inside scope,
// resolved against base and deduplicated in document order.
func ExtractLinks(html, scope, base string) ([]string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	seen := make(map[string]bool)
	var links []string
	doc.Find(scope).Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := baseURL.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		abs.Fragment = ""
		u := abs.String()
		if !seen[u] {
			seen[u] = true
			links = append(links, u)
		}
	})
	return links, nil
}
