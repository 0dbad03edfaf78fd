// Package selection resolves locators against a single context into typed elements.
// Nothing here polls or blocks; a returned element resolves when it is used.
package selection

import (
	"github.com/pkg/errors"
	"gitlab.com/darcyk/darcyk"
	"gitlab.com/darcyk/darcyk/by"
)

// Selection is bound to one context and optionally scoped within an outer locator
type Selection struct {
	ctx    darcyk.Context
	within darcyk.Locator
	err    error
}

// Find starts a selection over ctx
func Find(ctx darcyk.Context) *Selection {
	return &Selection{ctx: ctx}
}

// Context this selection resolves against
func (s *Selection) Context() darcyk.Context {
	return s.ctx
}

// Within scopes every later lookup inside the match of outer
func (s *Selection) Within(outer darcyk.Locator) *Selection {
	return &Selection{ctx: s.ctx, within: s.scoped(outer), err: s.err}
}

func (s *Selection) scoped(loc darcyk.Locator) darcyk.Locator {
	if s.err != nil {
		return failedLocator{Locator: loc, err: s.err}
	}
	if s.within == nil {
		return loc
	}
	return by.Nested(s.within, loc)
}

// failedLocator is a lookup in a selection that has no context to search
type failedLocator struct {
	darcyk.Locator
	err error
}

func (l failedLocator) Find(kind darcyk.Kind, ctx darcyk.Context) (darcyk.Findable, error) {
	return nil, l.err
}

func (l failedLocator) FindAll(kind darcyk.Kind, ctx darcyk.Context) ([]darcyk.Findable, error) {
	return nil, l.err
}

// ElementOfType returns a lazy element of kind wrapped by newT. No driver call is made.
func ElementOfType[T any](s *Selection, kind darcyk.Kind, loc darcyk.Locator, newT func(*Element) T) T {
	return newT(newElement(s.ctx, kind, s.scoped(loc)))
}

// ElementsOfType finds every match with a single FindAll and wraps each with newT
func ElementsOfType[T any](s *Selection, kind darcyk.Kind, loc darcyk.Locator, newT func(*Element) T) ([]T, error) {
	scoped := s.scoped(loc)
	found, err := scoped.FindAll(kind, s.ctx)
	if err != nil {
		return nil, err
	}
	elements := make([]T, len(found))
	for i, f := range found {
		elements[i] = newT(boundElement(kind, scoped, f))
	}
	return elements, nil
}

func self(e *Element) *Element { return e }

func (s *Selection) Element(loc darcyk.Locator) *Element {
	return ElementOfType(s, darcyk.KindElement, loc, self)
}

func (s *Selection) Elements(loc darcyk.Locator) ([]*Element, error) {
	return ElementsOfType(s, darcyk.KindElement, loc, self)
}

func (s *Selection) TextInput(loc darcyk.Locator) *TextInput {
	return ElementOfType(s, darcyk.KindTextInput, loc, NewTextInput)
}

func (s *Selection) TextInputs(loc darcyk.Locator) ([]*TextInput, error) {
	return ElementsOfType(s, darcyk.KindTextInput, loc, NewTextInput)
}

func (s *Selection) Button(loc darcyk.Locator) *Button {
	return ElementOfType(s, darcyk.KindButton, loc, NewButton)
}

func (s *Selection) Buttons(loc darcyk.Locator) ([]*Button, error) {
	return ElementsOfType(s, darcyk.KindButton, loc, NewButton)
}

func (s *Selection) Link(loc darcyk.Locator) *Link {
	return ElementOfType(s, darcyk.KindLink, loc, NewLink)
}

func (s *Selection) Links(loc darcyk.Locator) ([]*Link, error) {
	return ElementsOfType(s, darcyk.KindLink, loc, NewLink)
}

func (s *Selection) Label(loc darcyk.Locator) *Label {
	return ElementOfType(s, darcyk.KindLabel, loc, NewLabel)
}

func (s *Selection) Labels(loc darcyk.Locator) ([]*Label, error) {
	return ElementsOfType(s, darcyk.KindLabel, loc, NewLabel)
}

func (s *Selection) Select(loc darcyk.Locator) *Select {
	return ElementOfType(s, darcyk.KindSelect, loc, NewSelect)
}

func (s *Selection) Selects(loc darcyk.Locator) ([]*Select, error) {
	return ElementsOfType(s, darcyk.KindSelect, loc, NewSelect)
}

func (s *Selection) FileSelect(loc darcyk.Locator) *FileSelect {
	return ElementOfType(s, darcyk.KindFileSelect, loc, NewFileSelect)
}

func (s *Selection) FileSelects(loc darcyk.Locator) ([]*FileSelect, error) {
	return ElementsOfType(s, darcyk.KindFileSelect, loc, NewFileSelect)
}

func (s *Selection) Checkbox(loc darcyk.Locator) *Checkbox {
	return ElementOfType(s, darcyk.KindCheckbox, loc, NewCheckbox)
}

func (s *Selection) Checkboxes(loc darcyk.Locator) ([]*Checkbox, error) {
	return ElementsOfType(s, darcyk.KindCheckbox, loc, NewCheckbox)
}

func (s *Selection) Radio(loc darcyk.Locator) *Radio {
	return ElementOfType(s, darcyk.KindRadio, loc, NewRadio)
}

func (s *Selection) Radios(loc darcyk.Locator) ([]*Radio, error) {
	return ElementsOfType(s, darcyk.KindRadio, loc, NewRadio)
}

func (s *Selection) RadioGroup(loc darcyk.Locator) *RadioGroup {
	return ElementOfType(s, darcyk.KindElement, loc, NewRadioGroup)
}

func (s *Selection) RadioGroups(loc darcyk.Locator) ([]*RadioGroup, error) {
	return ElementsOfType(s, darcyk.KindElement, loc, NewRadioGroup)
}

func (s *Selection) Text(loc darcyk.Locator) *Text {
	return ElementOfType(s, darcyk.KindText, loc, NewText)
}

func (s *Selection) Texts(loc darcyk.Locator) ([]*Text, error) {
	return ElementsOfType(s, darcyk.KindText, loc, NewText)
}

// Browser finds another browser window, usually with a by.URL locator
func (s *Selection) Browser(loc darcyk.Locator) (darcyk.Context, error) {
	return s.context(darcyk.KindBrowser, loc)
}

// Browsers finds every matching browser window
func (s *Selection) Browsers(loc darcyk.Locator) ([]darcyk.Context, error) {
	found, err := s.scoped(loc).FindAll(darcyk.KindBrowser, s.ctx)
	if err != nil {
		return nil, err
	}
	contexts := make([]darcyk.Context, 0, len(found))
	for _, f := range found {
		ctx, ok := f.(darcyk.Context)
		if !ok {
			return nil, errors.Wrapf(darcyk.ErrNotContext, "%s matched %T", loc, f)
		}
		contexts = append(contexts, ctx)
	}
	return contexts, nil
}

// Frame scopes a selection inside the frame matched by loc, lazily
func (s *Selection) Frame(loc darcyk.Locator) *Selection {
	return s.Within(loc)
}

func (s *Selection) context(kind darcyk.Kind, loc darcyk.Locator) (darcyk.Context, error) {
	found, err := s.scoped(loc).Find(kind, s.ctx)
	if err != nil {
		return nil, err
	}
	ctx, ok := found.(darcyk.Context)
	if !ok {
		return nil, errors.Wrapf(darcyk.ErrNotContext, "%s matched %T", loc, found)
	}
	return ctx, nil
}

// Alert of the selection's context. Contexts without dialog support never have one.
func (s *Selection) Alert() darcyk.Alert {
	if h, ok := s.ctx.(darcyk.AlertHandler); ok {
		return h.Alert()
	}
	return NoAlert()
}

// NoAlert is never present, its actions fail with darcyk.ErrNoAlert
func NoAlert() darcyk.Alert {
	return noAlert{}
}

type noAlert struct{}

func (noAlert) IsPresent() (bool, error)   { return false, nil }
func (noAlert) Accept() error              { return darcyk.ErrNoAlert }
func (noAlert) Dismiss() error             { return darcyk.ErrNoAlert }
func (noAlert) SendKeys(text string) error { return darcyk.ErrNoAlert }
func (noAlert) Text() (string, error)      { return "", darcyk.ErrNoAlert }
