package htmldoc

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"gitlab.com/darcyk/darcyk"
)

// Node is a single element of a snapshot. It is both an element handle and a context
// for finding its descendants.
type Node struct {
	sel *goquery.Selection
}

func (n *Node) Capabilities() darcyk.Capability {
	return Capabilities
}

func (n *Node) FindByCSS(kind darcyk.Kind, css string) (darcyk.Findable, error) {
	return first(n.sel.Find(css))
}

func (n *Node) FindAllByCSS(kind darcyk.Kind, css string) ([]darcyk.Findable, error) {
	return all(n.sel.Find(css)), nil
}

func (n *Node) FindByHTMLTag(kind darcyk.Kind, tag string) (darcyk.Findable, error) {
	return first(n.byTag(tag))
}

func (n *Node) FindAllByHTMLTag(kind darcyk.Kind, tag string) ([]darcyk.Findable, error) {
	return all(n.byTag(tag)), nil
}

func (n *Node) FindByClassName(kind darcyk.Kind, className string) (darcyk.Findable, error) {
	return first(n.byClass(className))
}

func (n *Node) FindAllByClassName(kind darcyk.Kind, className string) ([]darcyk.Findable, error) {
	return all(n.byClass(className)), nil
}

func (n *Node) FindByAttribute(kind darcyk.Kind, name, value string) (darcyk.Findable, error) {
	return first(n.byAttribute(name, value))
}

func (n *Node) FindAllByAttribute(kind darcyk.Kind, name, value string) ([]darcyk.Findable, error) {
	return all(n.byAttribute(name, value)), nil
}

func (n *Node) byTag(tag string) *goquery.Selection {
	tag = strings.ToLower(tag)
	return n.sel.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return goquery.NodeName(s) == tag
	})
}

func (n *Node) byClass(className string) *goquery.Selection {
	return n.sel.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.HasClass(className)
	})
}

func (n *Node) byAttribute(name, value string) *goquery.Selection {
	return n.sel.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, ok := s.Attr(name)
		return ok && v == value
	})
}

func first(s *goquery.Selection) (darcyk.Findable, error) {
	if s.Length() == 0 {
		return nil, darcyk.ErrElementNotFound
	}
	return &Node{sel: s.First()}, nil
}

func all(s *goquery.Selection) []darcyk.Findable {
	found := make([]darcyk.Findable, 0, s.Length())
	s.Each(func(_ int, e *goquery.Selection) {
		found = append(found, &Node{sel: e})
	})
	return found
}

// IsPresent is always true, snapshots never change
func (n *Node) IsPresent() (bool, error) {
	return true, nil
}

// IsDisplayed is false when the node or an ancestor is hidden by attribute or inline style
func (n *Node) IsDisplayed() (bool, error) {
	for s := n.sel; s.Length() > 0; s = s.Parent() {
		if _, hidden := s.Attr("hidden"); hidden {
			return false, nil
		}
		if t, _ := s.Attr("type"); goquery.NodeName(s) == "input" && t == "hidden" {
			return false, nil
		}
		if display := styleValue(s, "display"); display == "none" {
			return false, nil
		}
		if visibility := styleValue(s, "visibility"); visibility == "hidden" {
			return false, nil
		}
	}
	return true, nil
}

func (n *Node) Attribute(name string) (string, error) {
	return n.sel.AttrOr(name, ""), nil
}

func (n *Node) Classes() ([]string, error) {
	return strings.Fields(n.sel.AttrOr("class", "")), nil
}

// CSSValue from the inline style attribute only, stylesheets are not applied
func (n *Node) CSSValue(property string) (string, error) {
	return styleValue(n.sel, property), nil
}

func (n *Node) TagName() (string, error) {
	return goquery.NodeName(n.sel), nil
}

func (n *Node) Text() (string, error) {
	return strings.TrimSpace(n.sel.Text()), nil
}

// Click is not possible on a snapshot
func (n *Node) Click() error {
	return darcyk.ErrNotInteractive
}

// SendKeys is not possible on a snapshot
func (n *Node) SendKeys(text string) error {
	return darcyk.ErrNotInteractive
}

// HTML of the node including itself
func (n *Node) HTML() (string, error) {
	return goquery.OuterHtml(n.sel)
}

func styleValue(s *goquery.Selection, property string) string {
	style, ok := s.Attr("style")
	if !ok {
		return ""
	}
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), property) {
			return strings.ToLower(strings.TrimSpace(value))
		}
	}
	return ""
}
