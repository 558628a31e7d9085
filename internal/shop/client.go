// Package shop drives the retail site through a browser session: login,
// product search, add-to-cart and checkout initiation.
package shop

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/agentcart/agentcart/internal/browser"
	"github.com/agentcart/agentcart/internal/logging"
)

// cookieCacheKey is the fixed jar key in the external cache store.
const cookieCacheKey = "amazon/cookies"

// maxResults caps how many result cards a search scrapes.
const maxResults = 5

const (
	navTimeout      = 10 * time.Second
	selectorTimeout = 5 * time.Second
	resultsTimeout  = 10 * time.Second
	confirmTimeout  = 5 * time.Second
)

// Selectors for the retail site. Kept in one place because the site layout
// is the part of this client that actually changes.
const (
	selAccountMenu     = "#nav-link-accountList"
	selAccountGreeting = "#nav-link-accountList-nav-line-1"
	selLoginEmail      = "#ap_email"
	selLoginContinue   = "#continue"
	selLoginPassword   = "#ap_password"
	selLoginSubmit     = "#signInSubmit"
	selSearchBox       = "#twotabsearchtextbox"
	selSearchSubmit    = "#nav-search-submit-button"
	selResultCard      = `[data-component-type="s-search-result"]`
	selNoResults       = ".s-no-results-result"
	selAddToCart       = "#add-to-cart-button"
	selUpsellClose     = "#attach-close_sideSheet-link"
	selCartCount       = "#nav-cart-count"
	selCartConfirm     = ".a-size-medium-plus"
	selWagonConfirm    = "#NATC_SMART_WAGON_CONF_MSG_SUCCESS"
	selEmptyCart       = ".sc-your-amazon-cart-is-empty"
	selCheckout        = `input[name="proceedToRetailCheckout"]`
)

// Product is one scraped search result card.
type Product struct {
	Title  string `json:"title"`
	Price  string `json:"price"`
	Rating string `json:"rating"`
	Link   string `json:"link"`
}

// CookieJar persists cookie snapshots between runs. *db.Store satisfies it.
type CookieJar interface {
	GetCache(ctx context.Context, key string) ([]byte, bool, error)
	SetCache(ctx context.Context, key string, value []byte) error
}

// Credentials are the retail site's login credentials.
type Credentials struct {
	Email    string
	Password string
}

// Client automates the retail site through one browser session. All
// operations serialize on an internal mutex: two concurrent logical requests
// would otherwise interleave navigation on the same page.
type Client struct {
	mu      sync.Mutex
	session *browser.Session
	jar     CookieJar
	baseURL string
	creds   Credentials
}

// NewClient creates a shopping client. jar may be nil to disable cookie
// persistence.
func NewClient(session *browser.Session, jar CookieJar, baseURL string, creds Credentials) *Client {
	return &Client{
		session: session,
		jar:     jar,
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
	}
}

// Init launches the browser session and loads any cached cookie jar into
// the context. Idempotent.
func (c *Client) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initLocked(ctx)
}

func (c *Client) initLocked(ctx context.Context) error {
	if c.session.Active() {
		return nil
	}

	logging.Info("Initializing browser for product search...")
	if err := c.session.Init(); err != nil {
		return err
	}
	c.loadCookies(ctx)
	return nil
}

// IsLoggedIn inspects the account-menu greeting on the current page.
// Absence, errors and the "sign in" placeholder all read as logged out.
func (c *Client) IsLoggedIn(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.session.Active() {
		return false
	}
	return c.isLoggedInLocked()
}

func (c *Client) isLoggedInLocked() bool {
	text, err := c.session.Page().TextContent(selAccountGreeting, playwright.PageTextContentOptions{
		Timeout: playwright.Float(float64(selectorTimeout.Milliseconds())),
	})
	if err != nil {
		return false
	}
	return !strings.Contains(strings.ToLower(text), "sign in")
}

// Login navigates to the site root and drives the email/password flow.
// Returns true without further action when the cached cookies already
// authenticate the session. Selector timeouts read as false, never as an
// error; a missing credential is a hard failure.
func (c *Client) Login(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loginLocked(ctx)
}

func (c *Client) loginLocked(ctx context.Context) (bool, error) {
	if err := c.initLocked(ctx); err != nil {
		return false, err
	}

	page := c.session.Page()
	if _, err := page.Goto(c.baseURL, playwright.PageGotoOptions{
		Timeout: playwright.Float(float64(navTimeout.Milliseconds())),
	}); err != nil {
		logging.Errorf("Login failed: %v", err)
		return false, nil
	}

	if c.isLoggedInLocked() {
		logging.Info("Already logged in via cookies")
		return true, nil
	}

	if c.creds.Email == "" || c.creds.Password == "" {
		return false, fmt.Errorf("amazon credentials are not configured")
	}

	logging.Info("Logging into Amazon...")
	steps := []func() error{
		func() error { return c.click(selAccountMenu) },
		func() error { return c.waitVisible(selLoginEmail) },
		func() error { return c.fill(selLoginEmail, c.creds.Email) },
		func() error { return c.click(selLoginContinue) },
		func() error { return c.waitVisible(selLoginPassword) },
		func() error { return c.fill(selLoginPassword, c.creds.Password) },
		func() error { return c.click(selLoginSubmit) },
		func() error { return c.waitVisible(selAccountGreeting) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			logging.Errorf("Login failed: %v", err)
			return false, nil
		}
	}

	if !c.isLoggedInLocked() {
		logging.Error("Login flow completed but session is not authenticated")
		return false, nil
	}

	c.saveCookies(ctx)
	logging.Info("Login completed and cookies cached")
	return true, nil
}

// SearchProduct ensures an authenticated session, submits the query and
// scrapes up to five result cards. A no-results page yields an empty slice.
// Navigation and scrape failures propagate: the caller must be able to tell
// "no results" apart from "automation broke".
func (c *Client) SearchProduct(ctx context.Context, query string) ([]Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.initLocked(ctx); err != nil {
		return nil, err
	}

	ok, err := c.loginLocked(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("login required for product search but failed")
	}

	products, err := c.search(ctx, query)
	if err != nil {
		c.captureErrorScreenshot()
		return nil, err
	}
	return products, nil
}

func (c *Client) search(ctx context.Context, query string) ([]Product, error) {
	page := c.session.Page()

	logging.Infof("Searching Amazon for: %s", query)
	if _, err := page.Goto(c.baseURL, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(navTimeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		return nil, fmt.Errorf("navigate to site root: %w", err)
	}

	if err := c.waitVisible(selSearchBox); err != nil {
		return nil, fmt.Errorf("search box not found: %w", err)
	}
	if err := c.fill(selSearchBox, ""); err != nil {
		return nil, fmt.Errorf("clear search box: %w", err)
	}
	if err := c.fill(selSearchBox, query); err != nil {
		return nil, fmt.Errorf("fill search box: %w", err)
	}
	if err := c.click(selSearchSubmit); err != nil {
		return nil, fmt.Errorf("submit search: %w", err)
	}

	matched, ok := browser.WaitForAny(page, resultsTimeout, selResultCard, selNoResults)
	if !ok {
		return nil, fmt.Errorf("search results never appeared for %q", query)
	}
	if matched == selNoResults {
		logging.Info("No results found for query")
		return []Product{}, nil
	}

	cards, err := page.Locator(selResultCard).All()
	if err != nil {
		return nil, fmt.Errorf("list result cards: %w", err)
	}
	if len(cards) > maxResults {
		cards = cards[:maxResults]
	}

	products := make([]Product, 0, len(cards))
	for _, card := range cards {
		products = append(products, Product{
			Title:  textOf(card, "h2"),
			Price:  textOf(card, ".a-price-whole", ".a-price"),
			Rating: textOf(card, ".a-icon-star-small", ".a-icon-star"),
			Link:   attrOf(card, "h2 a", "href"),
		})
	}

	logging.Infof("Found %d products", len(products))
	c.saveCookies(ctx)
	return products, nil
}

// AddToCart opens the product page and clicks the add-to-cart control.
// Returns false, never an error, when confirmation is not observed within
// the bounded wait.
func (c *Client) AddToCart(ctx context.Context, productLink string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.initLocked(ctx); err != nil {
		logging.Errorf("Error adding to cart: %v", err)
		return false
	}

	page := c.session.Page()

	logging.Info("Adding product to cart...")
	if _, err := page.Goto(c.absoluteURL(productLink), playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(navTimeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		logging.Errorf("Error adding to cart: %v", err)
		return false
	}

	if err := c.waitVisible(selAddToCart); err != nil {
		logging.Errorf("Error adding to cart: %v", err)
		return false
	}
	if err := c.click(selAddToCart); err != nil {
		logging.Errorf("Error adding to cart: %v", err)
		return false
	}

	// The upsell side panel only sometimes appears; dismiss it when it does.
	if browser.IsPresent(page, selUpsellClose) {
		_ = c.click(selUpsellClose)
	}

	if _, ok := browser.WaitForAny(page, confirmTimeout, selCartCount, selCartConfirm, selWagonConfirm); !ok {
		logging.Info("Couldn't find cart confirmation within the wait bound")
		return false
	}

	logging.Info("Product added to cart")
	return true
}

// ProceedToCheckout opens the cart view and clicks through to checkout,
// confirming arrival by URL. Empty cart and timeouts both read as false.
func (c *Client) ProceedToCheckout(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.initLocked(ctx); err != nil {
		logging.Errorf("Error proceeding to checkout: %v", err)
		return false
	}

	page := c.session.Page()
	if _, err := page.Goto(c.baseURL+"/gp/cart/view.html", playwright.PageGotoOptions{
		Timeout: playwright.Float(float64(navTimeout.Milliseconds())),
	}); err != nil {
		logging.Errorf("Error proceeding to checkout: %v", err)
		return false
	}

	if browser.IsPresent(page, selEmptyCart) {
		logging.Info("Cart is empty, nothing to check out")
		return false
	}

	if err := c.waitVisible(selCheckout); err != nil {
		logging.Errorf("Error proceeding to checkout: %v", err)
		return false
	}
	if err := c.click(selCheckout); err != nil {
		logging.Errorf("Error proceeding to checkout: %v", err)
		return false
	}

	if !browser.WaitForURL(page, confirmTimeout, "/gp/buy", "/ap/signin") {
		logging.Info("Checkout page never confirmed within the wait bound")
		return false
	}

	logging.Info("Arrived at checkout")
	return true
}

// Cleanup closes the browser session. Idempotent; close errors are logged.
func (c *Client) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Close()
}

// absoluteURL resolves a scraped relative link against the site root.
func (c *Client) absoluteURL(link string) string {
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	if !strings.HasPrefix(link, "/") {
		link = "/" + link
	}
	return c.baseURL + link
}

func (c *Client) loadCookies(ctx context.Context) {
	if c.jar == nil {
		return
	}

	data, ok, err := c.jar.GetCache(ctx, cookieCacheKey)
	if err != nil {
		logging.Errorf("Failed to read cookie jar: %v", err)
		return
	}
	if !ok {
		logging.Info("No cached cookies found")
		return
	}

	var cookies []browser.Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		logging.Errorf("Failed to decode cookie jar: %v", err)
		return
	}

	logging.Infof("Found %d cached cookies", len(cookies))
	if err := c.session.AddCookies(cookies); err != nil {
		logging.Errorf("Failed to load cookies into context: %v", err)
		return
	}
	logging.Info("Cookies loaded into browser context")
}

func (c *Client) saveCookies(ctx context.Context) {
	if c.jar == nil {
		return
	}

	cookies, err := c.session.Cookies()
	if err != nil {
		logging.Errorf("Failed to snapshot cookies: %v", err)
		return
	}

	data, err := json.Marshal(cookies)
	if err != nil {
		logging.Errorf("Failed to encode cookie jar: %v", err)
		return
	}

	logging.Infof("Caching %d cookies", len(cookies))
	if err := c.jar.SetCache(ctx, cookieCacheKey, data); err != nil {
		logging.Errorf("Failed to persist cookie jar: %v", err)
	}
}

func (c *Client) captureErrorScreenshot() {
	if !c.session.Active() {
		return
	}
	if _, err := c.session.Page().Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String("amazon-error.png"),
	}); err != nil {
		logging.Errorf("Failed to save error screenshot: %v", err)
		return
	}
	logging.Info("Saved error screenshot to amazon-error.png")
}

func (c *Client) waitVisible(selector string) error {
	_, err := c.session.Page().WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(selectorTimeout.Milliseconds())),
	})
	return err
}

func (c *Client) click(selector string) error {
	return c.session.Page().Click(selector, playwright.PageClickOptions{
		Timeout: playwright.Float(float64(selectorTimeout.Milliseconds())),
	})
}

func (c *Client) fill(selector, value string) error {
	return c.session.Page().Fill(selector, value, playwright.PageFillOptions{
		Timeout: playwright.Float(float64(selectorTimeout.Milliseconds())),
	})
}

// textOf returns the trimmed text of the first selector that matches inside
// card, or "" when none do.
func textOf(card playwright.Locator, selectors ...string) string {
	for _, sel := range selectors {
		loc := card.Locator(sel)
		if n, err := loc.Count(); err != nil || n == 0 {
			continue
		}
		if text, err := loc.First().TextContent(); err == nil {
			return strings.TrimSpace(text)
		}
	}
	return ""
}

// attrOf returns the named attribute of the first match, or "".
func attrOf(card playwright.Locator, selector, attr string) string {
	loc := card.Locator(selector)
	if n, err := loc.Count(); err != nil || n == 0 {
		return ""
	}
	value, err := loc.First().GetAttribute(attr)
	if err != nil {
		return ""
	}
	return value
}
