// Package browser drives chromium over the devtools protocol. A Tab is a darcyk.Driver
// and Context, its Elements are nested Contexts and Windows finds tabs by url.
package browser

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/wirepair/gcd"
	"gitlab.com/darcyk/darcyk"
)

// Chrome is one leased chrome process
type Chrome struct {
	g       *gcd.Gcd
	leaser  LeaserService
	port    string
	windows *Windows
}

// Launch chrome as configured and connect to it
func Launch(ctx context.Context, cfg *darcyk.Config) (*Chrome, error) {
	path, tmp, err := FindChrome(cfg.ChromePath)
	if err != nil {
		return nil, err
	}
	return Connect(ctx, NewLocalLeaser(path, tmp, cfg.Headless))
}

// Connect acquires a browser from leaser
func Connect(ctx context.Context, leaser LeaserService) (*Chrome, error) {
	port, err := leaser.Acquire()
	if err != nil {
		return nil, errors.Wrap(err, "unable to acquire browser")
	}

	g := gcd.NewChromeDebugger()
	if err := g.ConnectToInstance("localhost", port); err != nil {
		leaser.Return(port)
		return nil, errors.Wrap(err, "failed to connect to instance")
	}
	log.Ctx(ctx).Info().Str("port", port).Msg("connected to browser")
	return &Chrome{g: g, leaser: leaser, port: port, windows: NewWindows(ctx, g)}, nil
}

// FirstTab is the tab chrome opened on startup
func (c *Chrome) FirstTab(ctx context.Context) (*Tab, error) {
	target, err := c.g.GetFirstTab()
	if err != nil {
		return nil, err
	}
	tab := NewTab(ctx, c.g, target)
	c.windows.add(tab)
	return tab, nil
}

// NewTab opens another tab
func (c *Chrome) NewTab(ctx context.Context) (*Tab, error) {
	target, err := c.g.NewTab()
	if err != nil {
		return nil, err
	}
	tab := NewTab(ctx, c.g, target)
	c.windows.add(tab)
	return tab, nil
}

// Windows of this browser, including popups opened by pages
func (c *Chrome) Windows() *Windows {
	return c.windows
}

// Close returns the browser to the leaser
func (c *Chrome) Close() error {
	return c.leaser.Return(c.port)
}
