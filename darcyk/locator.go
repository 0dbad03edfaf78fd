package darcyk

import (
	"fmt"
	"regexp"
	"strings"
)

// Locator describes how to find something. Implementations must be comparable values
// (no funcs, maps or slices in their fields) so two locators built from the same strategy
// and parameters compare equal with == and can be used as map keys.
type Locator interface {
	// Capability required of a Context, fixed when the locator is built.
	Capability() Capability
	Find(kind Kind, ctx Context) (Findable, error)
	// FindAll returns an empty slice, never nil, when nothing matches.
	FindAll(kind Kind, ctx Context) ([]Findable, error)
	String() string
}

// EqualLocators reports whether a and b have the same strategy and parameters.
func EqualLocators(a, b Locator) bool {
	return a == b
}

// LocatorKey is a stable string key for a locator, equal for equal locators.
func LocatorKey(l Locator) string {
	if l == nil {
		return ""
	}
	return fmt.Sprintf("%T%s", l, l.String())
}

// URLMatchMode determines how a URLMatch compares against a url
type URLMatchMode int8

const (
	URLExact URLMatchMode = iota + 1
	URLPrefix
	URLContains
	URLPattern
)

// URLMatch is a comparable url predicate. URLPattern values hold regexp source.
type URLMatch struct {
	Mode  URLMatchMode
	Value string
}

// Matches the url against this predicate. An invalid pattern never matches.
func (m URLMatch) Matches(url string) bool {
	switch m.Mode {
	case URLExact:
		return url == m.Value
	case URLPrefix:
		return strings.HasPrefix(url, m.Value)
	case URLContains:
		return strings.Contains(url, m.Value)
	case URLPattern:
		re, err := regexp.Compile(m.Value)
		if err != nil {
			return false
		}
		return re.MatchString(url)
	}
	return false
}

func (m URLMatch) String() string {
	switch m.Mode {
	case URLPrefix:
		return "starting with " + m.Value
	case URLContains:
		return "containing " + m.Value
	case URLPattern:
		return "matching " + m.Value
	}
	return "equal to " + m.Value
}
