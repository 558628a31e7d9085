// Package browser owns the Playwright session used by the automation
// clients: one browser process, one browsing context, one page.
package browser

import (
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/agentcart/agentcart/internal/logging"
)

const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
)

// Config controls how the browser session is launched.
type Config struct {
	Headless  bool
	UserAgent string
}

// Session is a stateful wrapper around one browser, one context and one
// page. Init is lazy and idempotent; Close tears all three down. A Session
// does not serialize callers itself — the owning client guards it with a
// single-slot mutex so concurrent logical requests cannot interleave
// navigation on the shared page.
type Session struct {
	cfg Config

	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

var (
	// Playwright driver is shared by all sessions in the process.
	pwOnce     sync.Once
	pwInstance *playwright.Playwright
	pwErr      error
)

func getPlaywright() (*playwright.Playwright, error) {
	pwOnce.Do(func() {
		if err := playwright.Install(); err != nil {
			pwErr = fmt.Errorf("install playwright browsers: %w", err)
			return
		}
		pw, err := playwright.Run()
		if err != nil {
			pwErr = fmt.Errorf("start playwright: %w", err)
			return
		}
		pwInstance = pw
	})
	return pwInstance, pwErr
}

// NewSession creates an unstarted session.
func NewSession(cfg Config) *Session {
	return &Session{cfg: cfg}
}

// Init launches the browser, creates the context and opens the page.
// Calling Init on an already-initialized session returns immediately.
func (s *Session) Init() error {
	if s.browser != nil {
		logging.Debugf("Browser already initialized, reusing existing instance")
		return nil
	}

	pw, err := getPlaywright()
	if err != nil {
		return err
	}
	s.pw = pw

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(s.cfg.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-setuid-sandbox",
		},
	})
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(s.cfg.UserAgent),
		Viewport: &playwright.Size{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		},
	})
	if err != nil {
		_ = browser.Close()
		return fmt.Errorf("create browser context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		_ = browser.Close()
		return fmt.Errorf("open page: %w", err)
	}

	s.browser = browser
	s.context = context
	s.page = page
	return nil
}

// Active reports whether the session has a live browser handle.
func (s *Session) Active() bool {
	return s.browser != nil
}

// Page returns the session's page. Init must have succeeded first.
func (s *Session) Page() playwright.Page {
	return s.page
}

// Cookies returns a serializable snapshot of the context's cookies.
func (s *Session) Cookies() ([]Cookie, error) {
	if s.context == nil {
		return nil, fmt.Errorf("session not initialized")
	}

	pwCookies, err := s.context.Cookies()
	if err != nil {
		return nil, fmt.Errorf("get cookies: %w", err)
	}

	cookies := make([]Cookie, len(pwCookies))
	for i, c := range pwCookies {
		cookies[i] = fromPlaywright(c)
	}
	return cookies, nil
}

// AddCookies loads a cookie snapshot into the context.
func (s *Session) AddCookies(cookies []Cookie) error {
	if s.context == nil {
		return fmt.Errorf("session not initialized")
	}

	pwCookies := make([]playwright.OptionalCookie, len(cookies))
	for i, c := range cookies {
		pwCookies[i] = c.toPlaywright()
	}

	if err := s.context.AddCookies(pwCookies); err != nil {
		return fmt.Errorf("add cookies: %w", err)
	}
	return nil
}

// Close tears down the browser and nulls all handles. Idempotent; close
// errors are logged, not propagated.
func (s *Session) Close() {
	if s.browser == nil {
		return
	}

	logging.Info("Cleaning up browser resources...")
	if err := s.browser.Close(); err != nil {
		logging.Errorf("Error closing browser: %v", err)
	}

	s.browser = nil
	s.context = nil
	s.page = nil
}
