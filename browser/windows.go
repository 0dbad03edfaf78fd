package browser

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/wirepair/gcd"
	"gitlab.com/darcyk/darcyk"
)

// Windows is the Context of every page target in a chrome process. It finds tabs by
// their current url, so popups opened by the page can be located like elements.
type Windows struct {
	ctx   context.Context
	g     *gcd.Gcd
	mu    sync.Mutex
	known map[string]struct{}
	tabs  []*Tab
}

// NewWindows over g, tabs are the ones already connected to
func NewWindows(ctx context.Context, g *gcd.Gcd, tabs ...*Tab) *Windows {
	w := &Windows{ctx: ctx, g: g, known: make(map[string]struct{})}
	for _, t := range tabs {
		w.known[t.ID()] = struct{}{}
		w.tabs = append(w.tabs, t)
	}
	return w
}

func (w *Windows) add(t *Tab) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.known[t.ID()] = struct{}{}
	w.tabs = append(w.tabs, t)
}

func (w *Windows) Capabilities() darcyk.Capability {
	return darcyk.FindByURL
}

func (w *Windows) IsPresent() (bool, error) {
	return true, nil
}

// Tabs that are still open, connecting to any new targets first
func (w *Windows) Tabs() ([]*Tab, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	targets, err := w.g.GetNewTargets(w.known)
	if err != nil {
		return nil, err
	}
	for _, target := range targets {
		w.known[target.Target.Id] = struct{}{}
		w.tabs = append(w.tabs, NewTab(w.ctx, w.g, target))
		log.Ctx(w.ctx).Debug().Str("tab", target.Target.Id).Msg("new window")
	}

	open := w.tabs[:0]
	for _, t := range w.tabs {
		if !t.closed() {
			open = append(open, t)
		}
	}
	w.tabs = open
	return append([]*Tab{}, open...), nil
}

func (w *Windows) FindByURL(kind darcyk.Kind, match darcyk.URLMatch) (darcyk.Findable, error) {
	found, err := w.FindAllByURL(kind, match)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, darcyk.ErrElementNotFound
	}
	return found[0], nil
}

func (w *Windows) FindAllByURL(kind darcyk.Kind, match darcyk.URLMatch) ([]darcyk.Findable, error) {
	tabs, err := w.Tabs()
	if err != nil {
		return nil, err
	}
	found := make([]darcyk.Findable, 0)
	for _, t := range tabs {
		u, err := t.CurrentURL(w.ctx)
		if err != nil {
			log.Ctx(w.ctx).Debug().Err(err).Str("tab", t.ID()).Msg("skipping window")
			continue
		}
		if match.Matches(u) {
			found = append(found, t)
		}
	}
	return found, nil
}
