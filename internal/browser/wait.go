package browser

import (
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

const pollInterval = 250 * time.Millisecond

// WaitForAny polls until one of the selectors becomes visible, returning the
// selector that matched. The second return value is false when the timeout
// elapses first. This replaces the flat sleeps the target sites otherwise
// force: a readiness signal, not a guess.
func WaitForAny(page playwright.Page, timeout time.Duration, selectors ...string) (string, bool) {
	deadline := time.Now().Add(timeout)
	for {
		for _, sel := range selectors {
			visible, err := page.Locator(sel).First().IsVisible()
			if err == nil && visible {
				return sel, true
			}
		}
		if time.Now().After(deadline) {
			return "", false
		}
		page.WaitForTimeout(float64(pollInterval.Milliseconds()))
	}
}

// WaitForURL polls until the page URL contains one of the given fragments.
func WaitForURL(page playwright.Page, timeout time.Duration, fragments ...string) bool {
	deadline := time.Now().Add(timeout)
	for {
		url := page.URL()
		for _, f := range fragments {
			if strings.Contains(url, f) {
				return true
			}
		}
		if time.Now().After(deadline) {
			return false
		}
		page.WaitForTimeout(float64(pollInterval.Milliseconds()))
	}
}

// IsPresent reports whether at least one element matches the selector right
// now, without waiting.
func IsPresent(page playwright.Page, selector string) bool {
	count, err := page.Locator(selector).Count()
	return err == nil && count > 0
}
