package view

import (
	"github.com/pkg/errors"
	"gitlab.com/darcyk/darcyk"
	"gitlab.com/darcyk/darcyk/by"
)

// FromConfig builds the view a config entry declares. A script takes precedence over a
// locator, which takes precedence over the url.
func FromConfig(vc *darcyk.ViewConfig) (darcyk.View, error) {
	switch {
	case vc.Script != "":
		return NewScriptView(vc.Name, vc.Script)
	case vc.Locator != "":
		loc, err := by.Parse(vc.Locator)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid locator for view %s", vc.Name)
		}
		return NewElementView(vc.Name, loc), nil
	case vc.URL != "":
		m, err := vc.URLMatch()
		if err != nil {
			return nil, err
		}
		return NewURLView(vc.URL).WithMatcher(m).Named(vc.Name), nil
	}
	return nil, errors.Errorf("view %s has no load condition", vc.Name)
}
