// Package giftcard automates gift-card purchases on the voucher
// marketplace: pick a denomination, add to cart, hand off to checkout.
package giftcard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/agentcart/agentcart/internal/browser"
	"github.com/agentcart/agentcart/internal/logging"
)

// Denominations is the closed set of gift-card amounts the marketplace
// sells. Anything else is rejected before automation begins.
var Denominations = []int{5, 10, 20, 50, 100, 200, 500, 1000, 2000}

// ValidAmount reports whether amount is a sellable denomination.
func ValidAmount(amount int) bool {
	for _, d := range Denominations {
		if d == amount {
			return true
		}
	}
	return false
}

const (
	navTimeout      = 30 * time.Second
	selectorTimeout = 5 * time.Second
	stepTimeout     = 10 * time.Second
)

const (
	selCookieConsent = `button[type="submit"]:has-text("Accept all")`
	selAmountToggle  = "#downshift-0-toggle-button"
	selAddToCart     = `button:has-text("Add to cart")`
	selCheckout      = `a[data-cy="cart-widget-checkout-button"]`
	selEmail         = `#email[data-cy="email-input"]`
	selContinue      = `button[data-cy="continue-to-payment-button"]`
)

// Client automates the marketplace through one browser session, serialized
// by a single-slot mutex like the shopping client.
type Client struct {
	mu         sync.Mutex
	session    *browser.Session
	productURL string
	email      string
}

// NewClient creates a gift-card client for the given product page. email is
// the recipient address filled at checkout.
func NewClient(session *browser.Session, productURL, email string) *Client {
	return &Client{
		session:    session,
		productURL: productURL,
		email:      email,
	}
}

// Init launches the browser session. Idempotent.
func (c *Client) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initLocked()
}

func (c *Client) initLocked() error {
	if c.session.Active() {
		return nil
	}
	logging.Info("Initializing browser for gift card purchase...")
	return c.session.Init()
}

// IsPageLoaded probes the denomination toggle to tell whether the product
// page is ready.
func (c *Client) IsPageLoaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.session.Active() {
		return false
	}
	_, ok := browser.WaitForAny(c.session.Page(), selectorTimeout, selAmountToggle)
	return ok
}

// Purchase drives the full flow for the given denomination: open the
// product page, select the amount, add to cart, proceed to checkout and
// fill the recipient email. Amounts outside the closed set and a missing
// email are hard errors raised before any automation; everything the site
// can time out on reads as false.
func (c *Client) Purchase(ctx context.Context, amount int) (bool, error) {
	if !ValidAmount(amount) {
		return false, fmt.Errorf("unsupported gift card amount: %d", amount)
	}
	if c.email == "" {
		return false, fmt.Errorf("gift card email is not configured")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.initLocked(); err != nil {
		return false, err
	}

	page := c.session.Page()

	logging.Infof("Navigating to gift card page for $%d...", amount)
	if _, err := page.Goto(c.productURL, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(navTimeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		logging.Errorf("Error during gift card purchase: %v", err)
		return false, nil
	}

	c.dismissCookieConsent(page)

	steps := []struct {
		name string
		run  func() error
	}{
		{"open amount dropdown", func() error { return c.clickWhenVisible(selAmountToggle) }},
		{"select amount", func() error {
			return c.clickWhenVisible(fmt.Sprintf(`[role="option"]:has-text("$%d")`, amount))
		}},
		{"add to cart", func() error { return c.clickWhenVisible(selAddToCart) }},
		{"proceed to checkout", func() error { return c.clickWhenVisible(selCheckout) }},
		{"fill email", func() error { return c.fillWhenVisible(selEmail, c.email) }},
		{"continue to payment", func() error { return c.clickWhenVisible(selContinue) }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			logging.Errorf("Gift card purchase failed at %q: %v", step.name, err)
			return false, nil
		}
		logging.Debugf("Gift card step done: %s", step.name)
	}

	logging.Infof("Initiated $%d gift card purchase", amount)
	return true, nil
}

// Cleanup closes the browser session. Idempotent.
func (c *Client) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Close()
}

// dismissCookieConsent clicks the consent banner when it shows up; its
// absence is the normal case.
func (c *Client) dismissCookieConsent(page playwright.Page) {
	if _, ok := browser.WaitForAny(page, selectorTimeout, selCookieConsent); !ok {
		logging.Debugf("No cookie consent button found, continuing...")
		return
	}
	if err := page.Click(selCookieConsent, playwright.PageClickOptions{
		Timeout: playwright.Float(float64(selectorTimeout.Milliseconds())),
	}); err != nil {
		logging.Debugf("Cookie consent click failed: %v", err)
		return
	}
	logging.Info("Accepted cookies")
}

func (c *Client) clickWhenVisible(selector string) error {
	page := c.session.Page()
	if _, err := page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(stepTimeout.Milliseconds())),
	}); err != nil {
		return err
	}
	return page.Click(selector, playwright.PageClickOptions{
		Timeout: playwright.Float(float64(stepTimeout.Milliseconds())),
	})
}

func (c *Client) fillWhenVisible(selector, value string) error {
	page := c.session.Page()
	if _, err := page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(stepTimeout.Milliseconds())),
	}); err != nil {
		return err
	}
	return page.Fill(selector, value, playwright.PageFillOptions{
		Timeout: playwright.Float(float64(stepTimeout.Milliseconds())),
	})
}
