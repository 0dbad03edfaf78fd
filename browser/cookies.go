package browser

import (
	"context"
	"math"
	"time"

	"github.com/wirepair/gcd/gcdapi"
	"gitlab.com/darcyk/darcyk"
)

// cookieManager over chrome's Network domain
type cookieManager struct {
	t *Tab
}

func (c *cookieManager) Add(cookie *darcyk.Cookie) error {
	if err := cookie.Validate(); err != nil {
		return err
	}
	params := toSetCookieParams(cookie)
	if params.Domain == "" {
		// chrome needs a url or a domain, scope domainless cookies to the current page
		u, err := c.t.CurrentURL(context.Background())
		if err != nil {
			return err
		}
		params.Url = u
	}
	_, err := c.t.t.Network.SetCookieWithParams(params)
	return err
}

func (c *cookieManager) Delete(cookie *darcyk.Cookie) error {
	_, err := c.t.t.Network.DeleteCookiesWithParams(toDeleteCookiesParams(cookie))
	return err
}

func (c *cookieManager) DeleteAll() error {
	_, err := c.t.t.Network.ClearBrowserCookies()
	return err
}

func (c *cookieManager) All() ([]*darcyk.Cookie, error) {
	found, err := c.t.t.Network.GetAllCookies()
	if err != nil {
		return nil, err
	}
	cookies := make([]*darcyk.Cookie, 0, len(found))
	for _, nc := range found {
		cookies = append(cookies, fromNetworkCookie(nc.Name, nc.Value, nc.Domain, nc.Path, nc.Expires, nc.Session, nc.Secure, nc.HttpOnly))
	}
	return cookies, nil
}

func (c *cookieManager) Get(cookie *darcyk.Cookie) (*darcyk.Cookie, error) {
	all, err := c.All()
	if err != nil {
		return nil, err
	}
	want := darcyk.NewCookie(cookie.Name, "", cookie.Domain, cookie.Path, time.Time{}, false, false)
	for _, v := range all {
		if v.Name == want.Name && sameDomain(v.Domain, want.Domain) && v.Path == want.Path {
			return v, nil
		}
	}
	return nil, nil
}

func (c *cookieManager) Named(name string) (*darcyk.Cookie, error) {
	all, err := c.All()
	if err != nil {
		return nil, err
	}
	for _, v := range all {
		if v.Name == name {
			return v, nil
		}
	}
	return nil, nil
}

func toSetCookieParams(cookie *darcyk.Cookie) *gcdapi.NetworkSetCookieParams {
	params := &gcdapi.NetworkSetCookieParams{
		Name:     cookie.Name,
		Value:    cookie.Value,
		Domain:   cookie.Domain,
		Path:     cookie.Path,
		Secure:   cookie.Secure,
		HttpOnly: cookie.HTTPOnly,
	}
	if !cookie.Expiry.IsZero() {
		params.Expires = float64(cookie.Expiry.Unix())
	}
	return params
}

func toDeleteCookiesParams(cookie *darcyk.Cookie) *gcdapi.NetworkDeleteCookiesParams {
	return &gcdapi.NetworkDeleteCookiesParams{
		Name:   cookie.Name,
		Domain: cookie.Domain,
		Path:   cookie.Path,
	}
}

// fromNetworkCookie converts chrome's seconds since epoch expiry, session cookies
// report -1 or the session flag
func fromNetworkCookie(name, value, domain, path string, expires float64, session, secure, httpOnly bool) *darcyk.Cookie {
	var expiry time.Time
	if !session && expires > 0 {
		sec, frac := math.Modf(expires)
		expiry = time.Unix(int64(sec), int64(frac*1e9)).UTC()
	}
	return darcyk.NewCookie(name, value, domain, path, expiry, secure, httpOnly)
}

// sameDomain ignores the leading dot chrome adds to domain cookies
func sameDomain(a, b string) bool {
	trim := func(s string) string {
		if len(s) > 0 && s[0] == '.' {
			return s[1:]
		}
		return s
	}
	return trim(a) == trim(b)
}
