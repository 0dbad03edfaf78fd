package view

import (
	"context"

	"gitlab.com/darcyk/darcyk"
	"gitlab.com/darcyk/selection"
)

// ElementView is loaded when a located element is displayed
type ElementView struct {
	entered
	name string
	loc  darcyk.Locator
}

func NewElementView(name string, loc darcyk.Locator) *ElementView {
	return &ElementView{name: name, loc: loc}
}

func (v *ElementView) IsLoaded(ctx context.Context) (bool, error) {
	if v.ctx == nil {
		return false, ErrNotEntered
	}
	return v.Find().Element(v.loc).IsDisplayed()
}

// Find elements of this view
func (v *ElementView) Find() *selection.Selection {
	return selection.Find(v.ctx)
}

func (v *ElementView) String() string {
	if v.name != "" {
		return v.name
	}
	return "page displaying " + v.loc.String()
}
