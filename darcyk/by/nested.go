package by

import (
	"strings"

	"github.com/pkg/errors"
	"gitlab.com/darcyk/darcyk"
)

type nestedLocator struct {
	outer darcyk.Locator
	inner darcyk.Locator
}

// Nested locates inner within the context found by outer. The outer match must itself
// be a darcyk.Context (a frame, window or element subtree).
func Nested(outer, inner darcyk.Locator) darcyk.Locator {
	return nestedLocator{outer: outer, inner: inner}
}

// Chained narrows through each locator in turn, the last one finds the result.
func Chained(first darcyk.Locator, rest ...darcyk.Locator) darcyk.Locator {
	if len(rest) == 0 {
		return first
	}
	return Nested(first, Chained(rest[0], rest[1:]...))
}

// Capability of the innermost locator
func (l nestedLocator) Capability() darcyk.Capability {
	return l.inner.Capability()
}

func (l nestedLocator) Find(kind darcyk.Kind, ctx darcyk.Context) (darcyk.Findable, error) {
	found, err := l.outer.Find(darcyk.KindElement, ctx)
	if errors.Is(err, darcyk.ErrElementNotFound) {
		if capErr := l.requireInner(ctx); capErr != nil {
			return nil, capErr
		}
	}
	if err != nil {
		return nil, err
	}
	scope, err := l.scope(found)
	if err != nil {
		return nil, err
	}
	return l.inner.Find(kind, scope)
}

// FindAll resolves inner within every outer match, in order. With no outer match the
// context itself must support the inner capability.
func (l nestedLocator) FindAll(kind darcyk.Kind, ctx darcyk.Context) ([]darcyk.Findable, error) {
	outers, err := l.outer.FindAll(darcyk.KindElement, ctx)
	if err != nil {
		return nil, err
	}
	if len(outers) == 0 {
		if err := l.requireInner(ctx); err != nil {
			return nil, err
		}
	}
	all := make([]darcyk.Findable, 0)
	for _, found := range outers {
		scope, err := l.scope(found)
		if err != nil {
			return nil, err
		}
		inner, err := l.inner.FindAll(kind, scope)
		if err != nil {
			return nil, err
		}
		all = append(all, inner...)
	}
	return all, nil
}

// scope is an outer match that supports the inner capability
func (l nestedLocator) scope(found darcyk.Findable) (darcyk.Context, error) {
	scope, err := asContext(found, l.outer)
	if err != nil {
		return nil, err
	}
	if err := l.requireInner(scope); err != nil {
		return nil, err
	}
	return scope, nil
}

// requireInner checks ctx supports the first step of the inner locator
func (l nestedLocator) requireInner(ctx darcyk.Context) error {
	c := entry(l.inner)
	if ctx == nil || !ctx.Capabilities().Has(c) {
		return &darcyk.CapabilityNotSupportedErr{Capability: c, Locator: l.inner.String()}
	}
	return nil
}

// entry is the capability loc needs from the context it starts in
func entry(loc darcyk.Locator) darcyk.Capability {
	if n, ok := loc.(nestedLocator); ok {
		return entry(n.outer)
	}
	return loc.Capability()
}

func (l nestedLocator) String() string {
	return l.inner.String() + " within " + l.outer.String()
}

func asContext(found darcyk.Findable, outer darcyk.Locator) (darcyk.Context, error) {
	scope, ok := found.(darcyk.Context)
	if !ok {
		return nil, errors.Wrapf(darcyk.ErrNotContext, "%s matched %T", outer, found)
	}
	return scope, nil
}

// Separator between locators in the text form of a chain
const Separator = " >> "

// Parse the strategy=value text form used in configuration files and on the command line:
//
//	css=.menu-item
//	tag=table
//	class=active
//	attr=data-id=7
//	value=Submit
//	for=username
//	url=http://example.com/  (also urlprefix=, urlcontains=, urlpattern=)
//
// Locators joined by " >> " are chained, outermost first.
func Parse(text string) (darcyk.Locator, error) {
	parts := strings.Split(text, Separator)
	locs := make([]darcyk.Locator, 0, len(parts))
	for _, part := range parts {
		loc, err := parseOne(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return Chained(locs[0], locs[1:]...), nil
}

func parseOne(text string) (darcyk.Locator, error) {
	strategy, value, ok := strings.Cut(text, "=")
	if !ok || value == "" {
		return nil, errors.Errorf("locator %q is not in strategy=value form", text)
	}
	switch strings.ToLower(strategy) {
	case "css":
		return CSS(value), nil
	case "tag":
		return HTMLTag(value), nil
	case "class":
		return ClassName(value), nil
	case "value":
		return Value(value), nil
	case "for":
		return LabelFor(value), nil
	case "attr":
		name, attrValue, ok := strings.Cut(value, "=")
		if !ok || name == "" {
			return nil, errors.Errorf("attribute locator %q must be attr=name=value", text)
		}
		return Attribute(name, attrValue), nil
	case "url":
		return URL(value), nil
	case "urlprefix":
		return URLPrefix(value), nil
	case "urlcontains":
		return URLContaining(value), nil
	case "urlpattern":
		return URLMatching(value), nil
	}
	return nil, errors.Errorf("unknown locator strategy %q", strategy)
}
