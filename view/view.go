// Package view has the stock views: loaded by url, by a displayed element, or by a
// javascript expression. Each is entered through a context that can report its page.
package view

import (
	"context"

	"github.com/pkg/errors"
	"gitlab.com/darcyk/darcyk"
)

// ErrNotEntered when a view is polled before navigation gave it a context
var ErrNotEntered = errors.New("view has not been entered through a browser")

// Page is implemented by contexts that know where they are, navigator.Browser and
// drivers alike
type Page interface {
	CurrentURL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
}

// entered holds the context a view was entered through
type entered struct {
	ctx darcyk.Context
}

func (e *entered) SetContext(ctx darcyk.Context) {
	e.ctx = ctx
}

// Context the view was entered through, nil before navigation
func (e *entered) Context() darcyk.Context {
	return e.ctx
}

func (e *entered) page() (Page, error) {
	if e.ctx == nil {
		return nil, ErrNotEntered
	}
	p, ok := e.ctx.(Page)
	if !ok {
		return nil, errors.Errorf("context %T cannot report its url", e.ctx)
	}
	return p, nil
}

// URLView is loaded when the browser's url matches
type URLView struct {
	entered
	name  string
	match darcyk.URLMatch
}

// NewURLView loaded when the url is exactly url
func NewURLView(url string) *URLView {
	return &URLView{name: url, match: darcyk.URLMatch{Mode: darcyk.URLExact, Value: url}}
}

// WithMatcher returns a copy loaded when m matches instead
func (v *URLView) WithMatcher(m darcyk.URLMatch) *URLView {
	c := *v
	c.match = m
	return &c
}

// Named returns a copy with a display name
func (v *URLView) Named(name string) *URLView {
	c := *v
	c.name = name
	return &c
}

func (v *URLView) IsLoaded(ctx context.Context) (bool, error) {
	p, err := v.page()
	if err != nil {
		return false, err
	}
	u, err := p.CurrentURL(ctx)
	if err != nil {
		return false, err
	}
	return v.match.Matches(u), nil
}

func (v *URLView) String() string {
	if v.name != "" && v.name != v.match.Value {
		return v.name
	}
	return "page with url " + v.match.String()
}
