package mock

import (
	"gitlab.com/darcyk/darcyk"
)

// Context is a searchable scope whose declared capabilities are controlled by Caps.
// It implements every finder interface so tests can declare any subset.
type Context struct {
	Caps darcyk.Capability

	IsPresentFn     func() (bool, error)
	IsPresentCalled bool

	FindByCSSFn        func(kind darcyk.Kind, css string) (darcyk.Findable, error)
	FindByCSSCalled    bool
	FindAllByCSSFn     func(kind darcyk.Kind, css string) ([]darcyk.Findable, error)
	FindAllByCSSCalled bool

	FindByHTMLTagFn        func(kind darcyk.Kind, tag string) (darcyk.Findable, error)
	FindByHTMLTagCalled    bool
	FindAllByHTMLTagFn     func(kind darcyk.Kind, tag string) ([]darcyk.Findable, error)
	FindAllByHTMLTagCalled bool

	FindByClassNameFn        func(kind darcyk.Kind, className string) (darcyk.Findable, error)
	FindByClassNameCalled    bool
	FindAllByClassNameFn     func(kind darcyk.Kind, className string) ([]darcyk.Findable, error)
	FindAllByClassNameCalled bool

	FindByURLFn        func(kind darcyk.Kind, match darcyk.URLMatch) (darcyk.Findable, error)
	FindByURLCalled    bool
	FindAllByURLFn     func(kind darcyk.Kind, match darcyk.URLMatch) ([]darcyk.Findable, error)
	FindAllByURLCalled bool

	FindByAttributeFn        func(kind darcyk.Kind, name, value string) (darcyk.Findable, error)
	FindByAttributeCalled    bool
	FindAllByAttributeFn     func(kind darcyk.Kind, name, value string) ([]darcyk.Findable, error)
	FindAllByAttributeCalled bool
}

// Capabilities declared by this context
func (c *Context) Capabilities() darcyk.Capability {
	return c.Caps
}

// IsPresent so contexts can be returned by locators (frames, windows)
func (c *Context) IsPresent() (bool, error) {
	c.IsPresentCalled = true
	return c.IsPresentFn()
}

func (c *Context) FindByCSS(kind darcyk.Kind, css string) (darcyk.Findable, error) {
	c.FindByCSSCalled = true
	return c.FindByCSSFn(kind, css)
}

func (c *Context) FindAllByCSS(kind darcyk.Kind, css string) ([]darcyk.Findable, error) {
	c.FindAllByCSSCalled = true
	return c.FindAllByCSSFn(kind, css)
}

func (c *Context) FindByHTMLTag(kind darcyk.Kind, tag string) (darcyk.Findable, error) {
	c.FindByHTMLTagCalled = true
	return c.FindByHTMLTagFn(kind, tag)
}

func (c *Context) FindAllByHTMLTag(kind darcyk.Kind, tag string) ([]darcyk.Findable, error) {
	c.FindAllByHTMLTagCalled = true
	return c.FindAllByHTMLTagFn(kind, tag)
}

func (c *Context) FindByClassName(kind darcyk.Kind, className string) (darcyk.Findable, error) {
	c.FindByClassNameCalled = true
	return c.FindByClassNameFn(kind, className)
}

func (c *Context) FindAllByClassName(kind darcyk.Kind, className string) ([]darcyk.Findable, error) {
	c.FindAllByClassNameCalled = true
	return c.FindAllByClassNameFn(kind, className)
}

func (c *Context) FindByURL(kind darcyk.Kind, match darcyk.URLMatch) (darcyk.Findable, error) {
	c.FindByURLCalled = true
	return c.FindByURLFn(kind, match)
}

func (c *Context) FindAllByURL(kind darcyk.Kind, match darcyk.URLMatch) ([]darcyk.Findable, error) {
	c.FindAllByURLCalled = true
	return c.FindAllByURLFn(kind, match)
}

func (c *Context) FindByAttribute(kind darcyk.Kind, name, value string) (darcyk.Findable, error) {
	c.FindByAttributeCalled = true
	return c.FindByAttributeFn(kind, name, value)
}

func (c *Context) FindAllByAttribute(kind darcyk.Kind, name, value string) ([]darcyk.Findable, error) {
	c.FindAllByAttributeCalled = true
	return c.FindAllByAttributeFn(kind, name, value)
}

// AnyCalled returns true if any finder was invoked
func (c *Context) AnyCalled() bool {
	return c.FindByCSSCalled || c.FindAllByCSSCalled || c.FindByHTMLTagCalled || c.FindAllByHTMLTagCalled ||
		c.FindByClassNameCalled || c.FindAllByClassNameCalled || c.FindByURLCalled || c.FindAllByURLCalled ||
		c.FindByAttributeCalled || c.FindAllByAttributeCalled
}

// MakeMockContext declares caps and finds nothing
func MakeMockContext(caps darcyk.Capability) *Context {
	c := &Context{Caps: caps}
	notFound := func() (darcyk.Findable, error) { return nil, darcyk.ErrElementNotFound }
	none := func() ([]darcyk.Findable, error) { return []darcyk.Findable{}, nil }

	c.IsPresentFn = func() (bool, error) { return true, nil }
	c.FindByCSSFn = func(darcyk.Kind, string) (darcyk.Findable, error) { return notFound() }
	c.FindAllByCSSFn = func(darcyk.Kind, string) ([]darcyk.Findable, error) { return none() }
	c.FindByHTMLTagFn = func(darcyk.Kind, string) (darcyk.Findable, error) { return notFound() }
	c.FindAllByHTMLTagFn = func(darcyk.Kind, string) ([]darcyk.Findable, error) { return none() }
	c.FindByClassNameFn = func(darcyk.Kind, string) (darcyk.Findable, error) { return notFound() }
	c.FindAllByClassNameFn = func(darcyk.Kind, string) ([]darcyk.Findable, error) { return none() }
	c.FindByURLFn = func(darcyk.Kind, darcyk.URLMatch) (darcyk.Findable, error) { return notFound() }
	c.FindAllByURLFn = func(darcyk.Kind, darcyk.URLMatch) ([]darcyk.Findable, error) { return none() }
	c.FindByAttributeFn = func(darcyk.Kind, string, string) (darcyk.Findable, error) { return notFound() }
	c.FindAllByAttributeFn = func(darcyk.Kind, string, string) ([]darcyk.Findable, error) { return none() }
	return c
}

// MakeMockCSSContext supports only css and answers every css query with handles
func MakeMockCSSContext(handles ...darcyk.Findable) *Context {
	c := MakeMockContext(darcyk.FindByCSS)
	c.FindByCSSFn = func(kind darcyk.Kind, css string) (darcyk.Findable, error) {
		if len(handles) == 0 {
			return nil, darcyk.ErrElementNotFound
		}
		return handles[0], nil
	}
	c.FindAllByCSSFn = func(kind darcyk.Kind, css string) ([]darcyk.Findable, error) {
		return handles, nil
	}
	return c
}
