package navigator

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gitlab.com/darcyk/darcyk"
	"gitlab.com/darcyk/selection"
)

var capabilities = []darcyk.Capability{
	darcyk.FindByCSS,
	darcyk.FindByHTMLTag,
	darcyk.FindByClassName,
	darcyk.FindByURL,
	darcyk.FindByAttribute,
}

// Capabilities the driver both declares and implements
func (b *Browser) Capabilities() darcyk.Capability {
	ctx, ok := b.driver.(darcyk.Context)
	if !ok {
		return 0
	}
	var caps darcyk.Capability
	for _, c := range capabilities {
		if darcyk.Supports(ctx, c) {
			caps |= c
		}
	}
	return caps
}

// IsPresent is always true for the top level browser
func (b *Browser) IsPresent() (bool, error) {
	return true, nil
}

func (b *Browser) FindByCSS(kind darcyk.Kind, css string) (darcyk.Findable, error) {
	f, err := darcyk.Require[darcyk.FindsByCSS](b.driverContext(), darcyk.FindByCSS, nil)
	if err != nil {
		return nil, err
	}
	return f.FindByCSS(kind, css)
}

func (b *Browser) FindAllByCSS(kind darcyk.Kind, css string) ([]darcyk.Findable, error) {
	f, err := darcyk.Require[darcyk.FindsByCSS](b.driverContext(), darcyk.FindByCSS, nil)
	if err != nil {
		return nil, err
	}
	return f.FindAllByCSS(kind, css)
}

func (b *Browser) FindByHTMLTag(kind darcyk.Kind, tag string) (darcyk.Findable, error) {
	f, err := darcyk.Require[darcyk.FindsByHTMLTag](b.driverContext(), darcyk.FindByHTMLTag, nil)
	if err != nil {
		return nil, err
	}
	return f.FindByHTMLTag(kind, tag)
}

func (b *Browser) FindAllByHTMLTag(kind darcyk.Kind, tag string) ([]darcyk.Findable, error) {
	f, err := darcyk.Require[darcyk.FindsByHTMLTag](b.driverContext(), darcyk.FindByHTMLTag, nil)
	if err != nil {
		return nil, err
	}
	return f.FindAllByHTMLTag(kind, tag)
}

func (b *Browser) FindByClassName(kind darcyk.Kind, className string) (darcyk.Findable, error) {
	f, err := darcyk.Require[darcyk.FindsByClassName](b.driverContext(), darcyk.FindByClassName, nil)
	if err != nil {
		return nil, err
	}
	return f.FindByClassName(kind, className)
}

func (b *Browser) FindAllByClassName(kind darcyk.Kind, className string) ([]darcyk.Findable, error) {
	f, err := darcyk.Require[darcyk.FindsByClassName](b.driverContext(), darcyk.FindByClassName, nil)
	if err != nil {
		return nil, err
	}
	return f.FindAllByClassName(kind, className)
}

func (b *Browser) FindByURL(kind darcyk.Kind, match darcyk.URLMatch) (darcyk.Findable, error) {
	f, err := darcyk.Require[darcyk.FindsByURL](b.driverContext(), darcyk.FindByURL, nil)
	if err != nil {
		return nil, err
	}
	return f.FindByURL(kind, match)
}

func (b *Browser) FindAllByURL(kind darcyk.Kind, match darcyk.URLMatch) ([]darcyk.Findable, error) {
	f, err := darcyk.Require[darcyk.FindsByURL](b.driverContext(), darcyk.FindByURL, nil)
	if err != nil {
		return nil, err
	}
	return f.FindAllByURL(kind, match)
}

func (b *Browser) FindByAttribute(kind darcyk.Kind, name, value string) (darcyk.Findable, error) {
	f, err := darcyk.Require[darcyk.FindsByAttribute](b.driverContext(), darcyk.FindByAttribute, nil)
	if err != nil {
		return nil, err
	}
	return f.FindByAttribute(kind, name, value)
}

func (b *Browser) FindAllByAttribute(kind darcyk.Kind, name, value string) ([]darcyk.Findable, error) {
	f, err := darcyk.Require[darcyk.FindsByAttribute](b.driverContext(), darcyk.FindByAttribute, nil)
	if err != nil {
		return nil, err
	}
	return f.FindAllByAttribute(kind, name, value)
}

func (b *Browser) driverContext() darcyk.Context {
	ctx, _ := b.driver.(darcyk.Context)
	return ctx
}

// Alert of the driver, when it handles dialogs
func (b *Browser) Alert() darcyk.Alert {
	if h, ok := b.driver.(darcyk.AlertHandler); ok {
		return h.Alert()
	}
	return selection.NoAlert()
}

// Cookies of the driver, nil when it has no cookie store
func (b *Browser) Cookies() darcyk.CookieManager {
	if s, ok := b.driver.(darcyk.CookieSource); ok {
		return s.Cookies()
	}
	return nil
}

// ErrNoScreenshots when the driver cannot capture the viewport
var ErrNoScreenshots = errors.New("driver does not support screenshots")

// Screenshot of the viewport written to w
func (b *Browser) Screenshot(ctx context.Context, w io.Writer) error {
	s, ok := b.driver.(darcyk.ScreenshotTaker)
	if !ok {
		return ErrNoScreenshots
	}
	return s.Screenshot(ctx, w)
}

// ScreenshotTo writes a screenshot to path, creating missing parent directories
func (b *Browser) ScreenshotTo(ctx context.Context, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "unable to create screenshot directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "unable to create screenshot file")
	}
	if err := b.Screenshot(ctx, f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
