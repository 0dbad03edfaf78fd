package darcyk

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Cookie properties
type Cookie struct {
	Name     string    `json:"name" msgpack:"name"`         // Cookie name.
	Value    string    `json:"value" msgpack:"value"`       // Cookie value.
	Domain   string    `json:"domain" msgpack:"domain"`     // Cookie domain, never includes a port.
	Path     string    `json:"path" msgpack:"path"`         // Cookie path, defaults to "/".
	Expiry   time.Time `json:"expiry" msgpack:"expiry"`     // zero for session cookies, truncated to seconds.
	Secure   bool      `json:"secure" msgpack:"secure"`     // True if cookie is secure.
	HTTPOnly bool      `json:"httpOnly" msgpack:"httponly"` // True if cookie is http-only.
}

// NewCookie normalizes path, domain and expiry the way browsers store them
func NewCookie(name, value, domain, path string, expiry time.Time, secure, httpOnly bool) *Cookie {
	if path == "" {
		path = "/"
	}
	if !expiry.IsZero() {
		expiry = expiry.Truncate(time.Second)
	}
	return &Cookie{
		Name:     name,
		Value:    value,
		Domain:   StripPort(domain),
		Path:     path,
		Expiry:   expiry,
		Secure:   secure,
		HTTPOnly: httpOnly,
	}
}

// StripPort removes a :port suffix from a cookie domain
func StripPort(domain string) string {
	return strings.SplitN(domain, ":", 2)[0]
}

// Validate the cookie can be sent to a browser
func (c *Cookie) Validate() error {
	if c.Name == "" || c.Path == "" {
		return errors.New("required cookie attributes are not set")
	}
	if strings.Contains(c.Name, ";") {
		return errors.Errorf("cookie names cannot contain a ';': %s", c.Name)
	}
	if strings.Contains(c.Domain, ":") {
		return errors.Errorf("domain should not contain a port: %s", c.Domain)
	}
	return nil
}

// Equal compares every cookie attribute
func (c *Cookie) Equal(other *Cookie) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Name == other.Name && c.Value == other.Value && c.Domain == other.Domain &&
		c.Path == other.Path && c.Expiry.Equal(other.Expiry) &&
		c.Secure == other.Secure && c.HTTPOnly == other.HTTPOnly
}

func (c *Cookie) String() string {
	s := c.Name + "=" + c.Value
	if !c.Expiry.IsZero() {
		s += ", which expires on " + c.Expiry.Format(time.UnixDate)
	}
	if c.Path != "" {
		s += "; path=" + c.Path
	}
	if c.Domain != "" {
		s += "; domain=" + c.Domain
	}
	if c.Secure {
		s += ";secure;"
	}
	return s
}

// CookieManager reads and writes cookies for a browser, or a persistent jar
type CookieManager interface {
	Add(cookie *Cookie) error
	Delete(cookie *Cookie) error
	DeleteAll() error
	All() ([]*Cookie, error)
	// Get returns the stored cookie with the same name, domain and path, or nil
	Get(cookie *Cookie) (*Cookie, error)
	// Named returns the first cookie with name, or nil
	Named(name string) (*Cookie, error)
}

// CookiesAfterTime returns cookies that expire after t, session cookies included
func CookiesAfterTime(c []*Cookie, t time.Time) []*Cookie {
	cookies := make([]*Cookie, 0)
	for _, v := range c {
		if v.Expiry.IsZero() || v.Expiry.After(t) {
			cookies = append(cookies, v)
		}
	}
	return cookies
}
