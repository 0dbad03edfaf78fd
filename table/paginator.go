package table

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gitlab.com/darcyk/darcyk"
	"gitlab.com/darcyk/selection"
	"gitlab.com/darcyk/synq"
)

// ErrNoPageLinks is returned by ToPage on a paginator built without WithPageLinks
var ErrNoPageLinks = errors.New("paginator has no direct page links")

// PaginatorOption configures a Paginator
type PaginatorOption func(p *Paginator)

// WithPageLinks enables ToPage by locating the direct link to page n
func WithPageLinks(link func(n int) darcyk.Locator) PaginatorOption {
	return func(p *Paginator) {
		p.pageLink = link
	}
}

// WithPageCount bounds page turns by the total number of pages
func WithPageCount(pages func(ctx context.Context) (int, error)) PaginatorOption {
	return func(p *Paginator) {
		p.pages = pages
	}
}

// Paginator turns the pages of a table. How the current page is read from the page is up
// to the caller, pagination text differs between widgets and locales.
type Paginator struct {
	table    *Table
	next     darcyk.Locator
	previous darcyk.Locator
	current  func(ctx context.Context) (int, error)
	pageLink func(n int) darcyk.Locator
	pages    func(ctx context.Context) (int, error)
}

func NewPaginator(t *Table, next, previous darcyk.Locator, current func(ctx context.Context) (int, error), opts ...PaginatorOption) *Paginator {
	p := &Paginator{table: t, next: next, previous: previous, current: current}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CurrentPage as reported by the caller's page reader
func (p *Paginator) CurrentPage(ctx context.Context) (int, error) {
	return p.current(ctx)
}

// NextPage clicks next, waits for the page number to advance and the table to load
func (p *Paginator) NextPage() synq.Event[*Table] {
	return p.turn("next page of "+p.table.name, func(ctx context.Context) (int, error) {
		n, err := p.current(ctx)
		return n + 1, err
	}, func(ctx context.Context, n int) error {
		return selection.Find(p.table.ctx).Button(p.next).Click()
	})
}

// PreviousPage clicks previous, waits for the page number to go back and the table to load
func (p *Paginator) PreviousPage() synq.Event[*Table] {
	return p.turn("previous page of "+p.table.name, func(ctx context.Context) (int, error) {
		n, err := p.current(ctx)
		return n - 1, err
	}, func(ctx context.Context, n int) error {
		return selection.Find(p.table.ctx).Button(p.previous).Click()
	})
}

// ToPage clicks the direct link to page n. Requires WithPageLinks.
func (p *Paginator) ToPage(n int) synq.Event[*Table] {
	return p.turn(fmt.Sprintf("page %d of %s", n, p.table.name), func(ctx context.Context) (int, error) {
		return n, nil
	}, func(ctx context.Context, n int) error {
		if p.pageLink == nil {
			return errors.Wrapf(ErrNoPageLinks, "page %d of %s", n, p.table.name)
		}
		return selection.Find(p.table.ctx).Link(p.pageLink(n)).Click()
	})
}

// turn clicks, expects the page number to become the target, then expects the table
// to load, all within one budget. The target is computed when each wait starts.
func (p *Paginator) turn(desc string, target func(ctx context.Context) (int, error), click func(ctx context.Context, n int) error) synq.Event[*Table] {
	onPage := synq.ExpectAfter(desc, func(ctx context.Context) (synq.Condition[int], error) {
		want, err := target(ctx)
		if err != nil {
			return nil, err
		}
		if err := p.check(ctx, want); err != nil {
			return nil, err
		}
		if err := click(ctx, want); err != nil {
			return nil, err
		}
		return func(ctx context.Context) (int, bool, error) {
			n, err := p.current(ctx)
			return n, err == nil && n == want, err
		}, nil
	})
	return synq.AndThenExpect(onPage, synq.ExpectView(p.table))
}

func (p *Paginator) check(ctx context.Context, n int) error {
	if n < 1 {
		return &darcyk.IndexErr{Message: fmt.Sprintf("page %d of %s", n, p.table.name)}
	}
	if p.pages == nil {
		return nil
	}
	total, err := p.pages(ctx)
	if err != nil {
		return err
	}
	if n > total {
		return &darcyk.IndexErr{Message: fmt.Sprintf("page %d of %s with %d pages", n, p.table.name, total)}
	}
	return nil
}
