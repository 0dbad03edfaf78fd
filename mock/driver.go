package mock

import (
	"context"
	"io"

	"gitlab.com/darcyk/darcyk"
)

// Driver keeps an in memory history so back/forward/refresh behave like a browser.
// It is also a Context through the embedded mock Context.
type Driver struct {
	*Context

	History []string
	Index   int
	Titles  map[string]string
	Jar     *Cookies

	NavigateFn     func(ctx context.Context, url string) error
	NavigateCalled bool
	BackFn         func(ctx context.Context) error
	BackCalled     bool
	ForwardFn      func(ctx context.Context) error
	ForwardCalled  bool
	RefreshFn      func(ctx context.Context) error
	RefreshCalls   int
	SourceFn       func(ctx context.Context) (string, error)
	ScreenshotFn   func(ctx context.Context, w io.Writer) error
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	d.NavigateCalled = true
	return d.NavigateFn(ctx, url)
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	if d.Index < 0 || d.Index >= len(d.History) {
		return "about:blank", nil
	}
	return d.History[d.Index], nil
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	u, _ := d.CurrentURL(ctx)
	return d.Titles[u], nil
}

func (d *Driver) Source(ctx context.Context) (string, error) {
	return d.SourceFn(ctx)
}

func (d *Driver) Back(ctx context.Context) error {
	d.BackCalled = true
	return d.BackFn(ctx)
}

func (d *Driver) Forward(ctx context.Context) error {
	d.ForwardCalled = true
	return d.ForwardFn(ctx)
}

func (d *Driver) Refresh(ctx context.Context) error {
	d.RefreshCalls++
	return d.RefreshFn(ctx)
}

func (d *Driver) Screenshot(ctx context.Context, w io.Writer) error {
	return d.ScreenshotFn(ctx, w)
}

func (d *Driver) Cookies() darcyk.CookieManager {
	return d.Jar
}

// MakeMockDriver with an empty history and css/tag/class capabilities
func MakeMockDriver() *Driver {
	d := &Driver{
		Context: MakeMockContext(darcyk.FindByCSS | darcyk.FindByHTMLTag | darcyk.FindByClassName),
		Index:   -1,
		Titles:  make(map[string]string),
		Jar:     NewCookies(),
	}
	d.NavigateFn = func(ctx context.Context, url string) error {
		d.History = append(d.History[:d.Index+1], url)
		d.Index = len(d.History) - 1
		return nil
	}
	d.BackFn = func(ctx context.Context) error {
		if d.Index > 0 {
			d.Index--
		}
		return nil
	}
	d.ForwardFn = func(ctx context.Context) error {
		if d.Index < len(d.History)-1 {
			d.Index++
		}
		return nil
	}
	d.RefreshFn = func(ctx context.Context) error { return nil }
	d.SourceFn = func(ctx context.Context) (string, error) { return "<html><body></body></html>", nil }
	d.ScreenshotFn = func(ctx context.Context, w io.Writer) error {
		_, err := w.Write([]byte("\x89PNG"))
		return err
	}
	return d
}
