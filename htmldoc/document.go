// Package htmldoc is a static DOM snapshot context. It finds by css, tag, class and
// attribute like a live page but cannot interact or locate windows.
package htmldoc

import (
	"context"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"gitlab.com/darcyk/darcyk"
)

// Capabilities of every document and node
const Capabilities = darcyk.FindByCSS | darcyk.FindByHTMLTag | darcyk.FindByClassName | darcyk.FindByAttribute

// Document snapshot
type Document struct {
	*Node
	url string
}

// Parse html from r
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse html")
	}
	return &Document{Node: &Node{sel: doc.Selection}}, nil
}

// ParseString is Parse for literal html
func ParseString(html string) (*Document, error) {
	return Parse(strings.NewReader(html))
}

// Snapshot the driver's current page
func Snapshot(ctx context.Context, d darcyk.Driver) (*Document, error) {
	src, err := d.Source(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read page source")
	}
	doc, err := ParseString(src)
	if err != nil {
		return nil, err
	}
	doc.url, err = d.CurrentURL(ctx)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// URL the snapshot was taken from, empty when parsed directly
func (d *Document) URL() string {
	return d.url
}

// Title of the document
func (d *Document) Title() string {
	return strings.TrimSpace(d.sel.Find("title").First().Text())
}
