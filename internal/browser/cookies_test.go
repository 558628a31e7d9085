package browser

import (
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
)

func TestCookieToPlaywright(t *testing.T) {
	c := Cookie{
		Name:     "session-id",
		Value:    "abc123",
		Domain:   ".amazon.com",
		Path:     "/",
		Expires:  1700000000,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	}

	pc := c.toPlaywright()

	assert.Equal(t, "session-id", pc.Name)
	assert.Equal(t, "abc123", pc.Value)
	assert.Equal(t, ".amazon.com", *pc.Domain)
	assert.Equal(t, "/", *pc.Path)
	assert.Equal(t, float64(1700000000), *pc.Expires)
	assert.True(t, *pc.HttpOnly)
	assert.True(t, *pc.Secure)
	assert.Equal(t, playwright.SameSiteAttributeLax, pc.SameSite)
}

func TestCookieToPlaywrightOmitsEmptyFields(t *testing.T) {
	pc := Cookie{Name: "k", Value: "v"}.toPlaywright()

	assert.Nil(t, pc.Domain)
	assert.Nil(t, pc.Path)
	assert.Nil(t, pc.Expires)
	assert.Nil(t, pc.HttpOnly)
	assert.Nil(t, pc.Secure)
	assert.Nil(t, pc.SameSite)
}

func TestCookieFromPlaywright(t *testing.T) {
	sameSite := playwright.SameSiteAttributeStrict
	pc := playwright.Cookie{
		Name:     "ubid",
		Value:    "xyz",
		Domain:   ".amazon.com",
		Path:     "/",
		Expires:  1700000000,
		HttpOnly: true,
		Secure:   false,
		SameSite: sameSite,
	}

	c := fromPlaywright(pc)

	assert.Equal(t, "ubid", c.Name)
	assert.Equal(t, "Strict", c.SameSite)
	assert.True(t, c.HTTPOnly)
	assert.False(t, c.Secure)
}
