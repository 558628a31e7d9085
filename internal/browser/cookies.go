package browser

import "github.com/playwright-community/playwright-go"

// Cookie is a serializable browser cookie, the unit persisted in the
// cookie jar cache between runs.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain,omitempty"`
	Path     string  `json:"path,omitempty"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"httpOnly,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
	SameSite string  `json:"sameSite,omitempty"` // "Strict", "Lax", "None"
}

func fromPlaywright(c playwright.Cookie) Cookie {
	sameSite := ""
	if c.SameSite != nil {
		sameSite = string(*c.SameSite)
	}
	return Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Expires:  c.Expires,
		HTTPOnly: c.HttpOnly,
		Secure:   c.Secure,
		SameSite: sameSite,
	}
}

func (c Cookie) toPlaywright() playwright.OptionalCookie {
	var sameSite *playwright.SameSiteAttribute
	switch c.SameSite {
	case "Strict":
		sameSite = playwright.SameSiteAttributeStrict
	case "None":
		sameSite = playwright.SameSiteAttributeNone
	case "Lax":
		sameSite = playwright.SameSiteAttributeLax
	}

	pwCookie := playwright.OptionalCookie{
		Name:     c.Name,
		Value:    c.Value,
		SameSite: sameSite,
	}
	if c.Domain != "" {
		pwCookie.Domain = playwright.String(c.Domain)
	}
	if c.Path != "" {
		pwCookie.Path = playwright.String(c.Path)
	}
	if c.Expires > 0 {
		pwCookie.Expires = playwright.Float(c.Expires)
	}
	if c.HTTPOnly {
		pwCookie.HttpOnly = playwright.Bool(true)
	}
	if c.Secure {
		pwCookie.Secure = playwright.Bool(true)
	}
	return pwCookie
}
