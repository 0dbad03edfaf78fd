// Package by builds Locators. Every locator is a comparable value: two locators built
// from the same strategy and parameters are == and may be used as map keys.
package by

import (
	"gitlab.com/darcyk/darcyk"
)

type cssLocator struct {
	selector string
}

// CSS locates by css selector
func CSS(selector string) darcyk.Locator {
	return cssLocator{selector: selector}
}

func (l cssLocator) Capability() darcyk.Capability { return darcyk.FindByCSS }

func (l cssLocator) Find(kind darcyk.Kind, ctx darcyk.Context) (darcyk.Findable, error) {
	f, err := darcyk.Require[darcyk.FindsByCSS](ctx, darcyk.FindByCSS, l)
	if err != nil {
		return nil, err
	}
	return f.FindByCSS(kind, l.selector)
}

func (l cssLocator) FindAll(kind darcyk.Kind, ctx darcyk.Context) ([]darcyk.Findable, error) {
	f, err := darcyk.Require[darcyk.FindsByCSS](ctx, darcyk.FindByCSS, l)
	if err != nil {
		return nil, err
	}
	return orEmpty(f.FindAllByCSS(kind, l.selector))
}

func (l cssLocator) String() string { return "css selector " + l.selector }

type tagLocator struct {
	tag string
}

// HTMLTag locates by element tag name
func HTMLTag(tag string) darcyk.Locator {
	return tagLocator{tag: tag}
}

func (l tagLocator) Capability() darcyk.Capability { return darcyk.FindByHTMLTag }

func (l tagLocator) Find(kind darcyk.Kind, ctx darcyk.Context) (darcyk.Findable, error) {
	f, err := darcyk.Require[darcyk.FindsByHTMLTag](ctx, darcyk.FindByHTMLTag, l)
	if err != nil {
		return nil, err
	}
	return f.FindByHTMLTag(kind, l.tag)
}

func (l tagLocator) FindAll(kind darcyk.Kind, ctx darcyk.Context) ([]darcyk.Findable, error) {
	f, err := darcyk.Require[darcyk.FindsByHTMLTag](ctx, darcyk.FindByHTMLTag, l)
	if err != nil {
		return nil, err
	}
	return orEmpty(f.FindAllByHTMLTag(kind, l.tag))
}

func (l tagLocator) String() string { return "html tag " + l.tag }

type classLocator struct {
	className string
}

// ClassName locates elements carrying a single css class
func ClassName(className string) darcyk.Locator {
	return classLocator{className: className}
}

func (l classLocator) Capability() darcyk.Capability { return darcyk.FindByClassName }

func (l classLocator) Find(kind darcyk.Kind, ctx darcyk.Context) (darcyk.Findable, error) {
	f, err := darcyk.Require[darcyk.FindsByClassName](ctx, darcyk.FindByClassName, l)
	if err != nil {
		return nil, err
	}
	return f.FindByClassName(kind, l.className)
}

func (l classLocator) FindAll(kind darcyk.Kind, ctx darcyk.Context) ([]darcyk.Findable, error) {
	f, err := darcyk.Require[darcyk.FindsByClassName](ctx, darcyk.FindByClassName, l)
	if err != nil {
		return nil, err
	}
	return orEmpty(f.FindAllByClassName(kind, l.className))
}

func (l classLocator) String() string { return "class name " + l.className }

type attributeLocator struct {
	name  string
	value string
}

// Attribute locates elements whose attribute name equals value
func Attribute(name, value string) darcyk.Locator {
	return attributeLocator{name: name, value: value}
}

// Value locates inputs by their value attribute
func Value(value string) darcyk.Locator {
	return attributeLocator{name: "value", value: value}
}

// LabelFor locates the label bound to an input id
func LabelFor(id string) darcyk.Locator {
	return attributeLocator{name: "for", value: id}
}

func (l attributeLocator) Capability() darcyk.Capability { return darcyk.FindByAttribute }

func (l attributeLocator) Find(kind darcyk.Kind, ctx darcyk.Context) (darcyk.Findable, error) {
	f, err := darcyk.Require[darcyk.FindsByAttribute](ctx, darcyk.FindByAttribute, l)
	if err != nil {
		return nil, err
	}
	return f.FindByAttribute(kind, l.name, l.value)
}

func (l attributeLocator) FindAll(kind darcyk.Kind, ctx darcyk.Context) ([]darcyk.Findable, error) {
	f, err := darcyk.Require[darcyk.FindsByAttribute](ctx, darcyk.FindByAttribute, l)
	if err != nil {
		return nil, err
	}
	return orEmpty(f.FindAllByAttribute(kind, l.name, l.value))
}

func (l attributeLocator) String() string { return "attribute " + l.name + "=" + l.value }

type urlLocator struct {
	match darcyk.URLMatch
}

// URL locates browser windows whose url is exactly url
func URL(url string) darcyk.Locator {
	return urlLocator{match: darcyk.URLMatch{Mode: darcyk.URLExact, Value: url}}
}

// URLPrefix locates browser windows whose url starts with prefix
func URLPrefix(prefix string) darcyk.Locator {
	return urlLocator{match: darcyk.URLMatch{Mode: darcyk.URLPrefix, Value: prefix}}
}

// URLContaining locates browser windows whose url contains part
func URLContaining(part string) darcyk.Locator {
	return urlLocator{match: darcyk.URLMatch{Mode: darcyk.URLContains, Value: part}}
}

// URLMatching locates browser windows whose url matches the regular expression pattern
func URLMatching(pattern string) darcyk.Locator {
	return urlLocator{match: darcyk.URLMatch{Mode: darcyk.URLPattern, Value: pattern}}
}

// URLMatch locates browser windows with an existing predicate
func URLMatch(m darcyk.URLMatch) darcyk.Locator {
	return urlLocator{match: m}
}

func (l urlLocator) Capability() darcyk.Capability { return darcyk.FindByURL }

func (l urlLocator) Find(kind darcyk.Kind, ctx darcyk.Context) (darcyk.Findable, error) {
	f, err := darcyk.Require[darcyk.FindsByURL](ctx, darcyk.FindByURL, l)
	if err != nil {
		return nil, err
	}
	return f.FindByURL(kind, l.match)
}

func (l urlLocator) FindAll(kind darcyk.Kind, ctx darcyk.Context) ([]darcyk.Findable, error) {
	f, err := darcyk.Require[darcyk.FindsByURL](ctx, darcyk.FindByURL, l)
	if err != nil {
		return nil, err
	}
	return orEmpty(f.FindAllByURL(kind, l.match))
}

func (l urlLocator) String() string { return "url " + l.match.String() }

func orEmpty(found []darcyk.Findable, err error) ([]darcyk.Findable, error) {
	if err != nil {
		return nil, err
	}
	if found == nil {
		return []darcyk.Findable{}, nil
	}
	return found, nil
}
