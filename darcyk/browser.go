package darcyk

import (
	"context"
	"io"
)

// Driver is the browser automation layer darcyk synchronizes against. Implementations
// own the underlying browser resources; darcyk never closes them. A Driver is usually
// also a Context for the top level document.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	Source(ctx context.Context) (string, error)
	Back(ctx context.Context) error
	Forward(ctx context.Context) error
	Refresh(ctx context.Context) error
}

// ScreenshotTaker is implemented by drivers that can capture the viewport
type ScreenshotTaker interface {
	// Screenshot writes an image of the current viewport to w, drivers document the format
	Screenshot(ctx context.Context, w io.Writer) error
}

// CookieSource is implemented by drivers that expose the browser's cookie store
type CookieSource interface {
	Cookies() CookieManager
}

// View is anything that can report whether it finished loading
type View interface {
	IsLoaded(ctx context.Context) (bool, error)
}

// ContextSetter is implemented by views that need the Context they were entered through
type ContextSetter interface {
	SetContext(ctx Context)
}
