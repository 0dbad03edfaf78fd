package mock

import (
	"strings"

	"gitlab.com/darcyk/darcyk"
)

// Element handle
type Element struct {
	IsPresentFn      func() (bool, error)
	IsPresentCalls   int
	IsDisplayedFn    func() (bool, error)
	IsDisplayedCalls int

	AttributeFn     func(name string) (string, error)
	AttributeCalled bool

	ClassesFn     func() ([]string, error)
	ClassesCalled bool

	CSSValueFn     func(property string) (string, error)
	CSSValueCalled bool

	TagNameFn func() (string, error)
	TextFn    func() (string, error)

	ClickFn    func() error
	ClickCalls int

	SendKeysFn func(text string) error
	Keys       string
}

func (e *Element) IsPresent() (bool, error) {
	e.IsPresentCalls++
	return e.IsPresentFn()
}

func (e *Element) IsDisplayed() (bool, error) {
	e.IsDisplayedCalls++
	return e.IsDisplayedFn()
}

func (e *Element) Attribute(name string) (string, error) {
	e.AttributeCalled = true
	return e.AttributeFn(name)
}

func (e *Element) Classes() ([]string, error) {
	e.ClassesCalled = true
	return e.ClassesFn()
}

func (e *Element) CSSValue(property string) (string, error) {
	e.CSSValueCalled = true
	return e.CSSValueFn(property)
}

func (e *Element) TagName() (string, error) {
	return e.TagNameFn()
}

func (e *Element) Text() (string, error) {
	return e.TextFn()
}

func (e *Element) Click() error {
	e.ClickCalls++
	return e.ClickFn()
}

func (e *Element) SendKeys(text string) error {
	e.Keys += text
	return e.SendKeysFn(text)
}

// MakeMockElement that is present, displayed and carries the given classes
func MakeMockElement(tag, text string, classes ...string) *Element {
	attrs := map[string]string{"class": strings.Join(classes, " ")}
	e := &Element{}
	e.IsPresentFn = func() (bool, error) { return true, nil }
	e.IsDisplayedFn = func() (bool, error) { return true, nil }
	e.AttributeFn = func(name string) (string, error) { return attrs[name], nil }
	e.ClassesFn = func() ([]string, error) { return classes, nil }
	e.CSSValueFn = func(property string) (string, error) { return "", nil }
	e.TagNameFn = func() (string, error) { return tag, nil }
	e.TextFn = func() (string, error) { return text, nil }
	e.ClickFn = func() error { return nil }
	e.SendKeysFn = func(text string) error { return nil }
	return e
}

// Handles creates n elements with the same tag
func Handles(n int, tag string) []darcyk.Findable {
	found := make([]darcyk.Findable, n)
	for i := 0; i < n; i++ {
		found[i] = MakeMockElement(tag, "")
	}
	return found
}
