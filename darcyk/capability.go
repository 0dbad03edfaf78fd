package darcyk

import "strings"

// Capability is a finding strategy a Context may or may not support. Capabilities are
// bit flags so a Context can declare the full set it implements as a single value.
type Capability uint16

const (
	_               Capability = iota
	FindByCSS       Capability = 1 << iota
	FindByHTMLTag
	FindByClassName
	FindByURL
	FindByAttribute
)

// AllCapabilities is every capability known to darcyk
const AllCapabilities = FindByCSS | FindByHTMLTag | FindByClassName | FindByURL | FindByAttribute

var capabilityNames = []struct {
	c    Capability
	name string
}{
	{FindByCSS, "find by CSS selector"},
	{FindByHTMLTag, "find by HTML tag"},
	{FindByClassName, "find by class name"},
	{FindByURL, "find by URL"},
	{FindByAttribute, "find by attribute"},
}

// Has returns true if every bit of other is set
func (c Capability) Has(other Capability) bool {
	return other != 0 && c&other == other
}

func (c Capability) String() string {
	names := make([]string, 0, 1)
	for _, n := range capabilityNames {
		if c&n.c != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "no capability"
	}
	return strings.Join(names, ", ")
}

// Context is a searchable scope (a browser window, a frame, a DOM subtree). It declares
// the capabilities it supports, and must also implement the matching Finds* interface
// for each declared capability.
type Context interface {
	Capabilities() Capability
}

// FindsByCSS locates by CSS selector
type FindsByCSS interface {
	FindByCSS(kind Kind, css string) (Findable, error)
	FindAllByCSS(kind Kind, css string) ([]Findable, error)
}

// FindsByHTMLTag locates by tag name
type FindsByHTMLTag interface {
	FindByHTMLTag(kind Kind, tag string) (Findable, error)
	FindAllByHTMLTag(kind Kind, tag string) ([]Findable, error)
}

// FindsByClassName locates by a single css class
type FindsByClassName interface {
	FindByClassName(kind Kind, className string) (Findable, error)
	FindAllByClassName(kind Kind, className string) ([]Findable, error)
}

// FindsByURL locates contexts (windows, tabs) by their current url.
type FindsByURL interface {
	FindByURL(kind Kind, match URLMatch) (Findable, error)
	FindAllByURL(kind Kind, match URLMatch) ([]Findable, error)
}

// FindsByAttribute locates by attribute name/value equality
type FindsByAttribute interface {
	FindByAttribute(kind Kind, name, value string) (Findable, error)
	FindAllByAttribute(kind Kind, name, value string) ([]Findable, error)
}

// Supports returns true if ctx declares c and implements the finder interface for it.
func Supports(ctx Context, c Capability) bool {
	if ctx == nil || !ctx.Capabilities().Has(c) {
		return false
	}
	var ok bool
	switch c {
	case FindByCSS:
		_, ok = ctx.(FindsByCSS)
	case FindByHTMLTag:
		_, ok = ctx.(FindsByHTMLTag)
	case FindByClassName:
		_, ok = ctx.(FindsByClassName)
	case FindByURL:
		_, ok = ctx.(FindsByURL)
	case FindByAttribute:
		_, ok = ctx.(FindsByAttribute)
	}
	return ok
}

// Require returns ctx as the finder F if ctx supports c, otherwise a
// *CapabilityNotSupportedErr naming the capability and the locator.
func Require[F any](ctx Context, c Capability, loc Locator) (F, error) {
	var zero F
	if ctx == nil || !ctx.Capabilities().Has(c) {
		return zero, &CapabilityNotSupportedErr{Capability: c, Locator: describe(loc)}
	}
	finder, ok := ctx.(F)
	if !ok {
		return zero, &CapabilityNotSupportedErr{Capability: c, Locator: describe(loc)}
	}
	return finder, nil
}

func describe(loc Locator) string {
	if loc == nil {
		return "<nil locator>"
	}
	return loc.String()
}
