package mock

import (
	"sync"

	"gitlab.com/darcyk/darcyk"
)

// Cookies is an in memory CookieManager
type Cookies struct {
	mu      sync.Mutex
	cookies []*darcyk.Cookie
}

func NewCookies() *Cookies {
	return &Cookies{cookies: make([]*darcyk.Cookie, 0)}
}

func (c *Cookies) Add(cookie *darcyk.Cookie) error {
	if err := cookie.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, v := range c.cookies {
		if sameKey(v, cookie) {
			c.cookies[i] = cookie
			return nil
		}
	}
	c.cookies = append(c.cookies, cookie)
	return nil
}

func (c *Cookies) Delete(cookie *darcyk.Cookie) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, v := range c.cookies {
		if sameKey(v, cookie) {
			c.cookies = append(c.cookies[:i], c.cookies[i+1:]...)
			return nil
		}
	}
	return nil
}

func (c *Cookies) DeleteAll() error {
	c.mu.Lock()
	c.cookies = make([]*darcyk.Cookie, 0)
	c.mu.Unlock()
	return nil
}

func (c *Cookies) All() ([]*darcyk.Cookie, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	all := make([]*darcyk.Cookie, len(c.cookies))
	copy(all, c.cookies)
	return all, nil
}

func (c *Cookies) Get(cookie *darcyk.Cookie) (*darcyk.Cookie, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.cookies {
		if sameKey(v, cookie) {
			return v, nil
		}
	}
	return nil, nil
}

func (c *Cookies) Named(name string) (*darcyk.Cookie, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.cookies {
		if v.Name == name {
			return v, nil
		}
	}
	return nil, nil
}

func sameKey(a, b *darcyk.Cookie) bool {
	return a.Name == b.Name && a.Domain == b.Domain && a.Path == b.Path
}
