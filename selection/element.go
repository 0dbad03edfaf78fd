package selection

import (
	"strings"

	"github.com/pkg/errors"
	"gitlab.com/darcyk/darcyk"
)

// Element is a lazy reference: it resolves its locator against its context on every
// call, so it survives page changes that would make a driver handle stale. Elements
// returned from a FindAll are bound to the handle that was found instead.
type Element struct {
	ctx   darcyk.Context
	loc   darcyk.Locator
	kind  darcyk.Kind
	bound darcyk.Findable
}

func newElement(ctx darcyk.Context, kind darcyk.Kind, loc darcyk.Locator) *Element {
	return &Element{ctx: ctx, loc: loc, kind: kind}
}

func boundElement(kind darcyk.Kind, loc darcyk.Locator, found darcyk.Findable) *Element {
	return &Element{loc: loc, kind: kind, bound: found}
}

// Locator used to find this element
func (e *Element) Locator() darcyk.Locator {
	return e.loc
}

// Kind of element
func (e *Element) Kind() darcyk.Kind {
	return e.kind
}

func (e *Element) String() string {
	return e.kind.String() + " by " + e.loc.String()
}

func (e *Element) find() (darcyk.Findable, error) {
	if e.bound != nil {
		return e.bound, nil
	}
	return e.loc.Find(e.kind, e.ctx)
}

func (e *Element) handle() (darcyk.ElementHandle, error) {
	found, err := e.find()
	if err != nil {
		return nil, err
	}
	h, ok := found.(darcyk.ElementHandle)
	if !ok {
		return nil, errors.Wrapf(darcyk.ErrNotInteractive, "%s matched %T", e, found)
	}
	return h, nil
}

// IsPresent is false, not an error, when nothing matches or the match went stale
func (e *Element) IsPresent() (bool, error) {
	found, err := e.find()
	if err != nil {
		return absent(err)
	}
	present, err := found.IsPresent()
	if err != nil {
		return absent(err)
	}
	return present, nil
}

// IsDisplayed is false when the element is not present
func (e *Element) IsDisplayed() (bool, error) {
	h, err := e.handle()
	if err != nil {
		return absent(err)
	}
	displayed, err := h.IsDisplayed()
	if err != nil {
		return absent(err)
	}
	return displayed, nil
}

func absent(err error) (bool, error) {
	if errors.Is(err, darcyk.ErrElementNotFound) || errors.Is(err, darcyk.ErrStaleElement) {
		return false, nil
	}
	return false, err
}

func (e *Element) Attribute(name string) (string, error) {
	h, err := e.handle()
	if err != nil {
		return "", err
	}
	return h.Attribute(name)
}

func (e *Element) Classes() ([]string, error) {
	h, err := e.handle()
	if err != nil {
		return nil, err
	}
	return h.Classes()
}

// HasClass returns true if the element carries className
func (e *Element) HasClass(className string) (bool, error) {
	classes, err := e.Classes()
	if err != nil {
		return false, err
	}
	for _, c := range classes {
		if strings.EqualFold(c, className) {
			return true, nil
		}
	}
	return false, nil
}

func (e *Element) CSSValue(property string) (string, error) {
	h, err := e.handle()
	if err != nil {
		return "", err
	}
	return h.CSSValue(property)
}

func (e *Element) TagName() (string, error) {
	h, err := e.handle()
	if err != nil {
		return "", err
	}
	return h.TagName()
}

func (e *Element) Text() (string, error) {
	h, err := e.handle()
	if err != nil {
		return "", err
	}
	return h.Text()
}

func (e *Element) Click() error {
	h, err := e.handle()
	if err != nil {
		return err
	}
	return h.Click()
}

func (e *Element) SendKeys(text string) error {
	h, err := e.handle()
	if err != nil {
		return err
	}
	return h.SendKeys(text)
}

// Find elements within this element. A bound handle that cannot be searched gives a
// selection whose lookups fail with darcyk.ErrNotContext.
func (e *Element) Find() *Selection {
	if e.bound == nil {
		return &Selection{ctx: e.ctx, within: e.loc}
	}
	if ctx, ok := e.bound.(darcyk.Context); ok {
		return Find(ctx)
	}
	return &Selection{err: errors.Wrapf(darcyk.ErrNotContext, "%s matched %T", e, e.bound)}
}
