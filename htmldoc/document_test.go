package htmldoc_test

import (
	"context"
	"os"
	"testing"

	"github.com/pkg/errors"
	"gitlab.com/darcyk/darcyk"
	"gitlab.com/darcyk/darcyk/by"
	"gitlab.com/darcyk/htmldoc"
	"gitlab.com/darcyk/mock"
	"gitlab.com/darcyk/selection"
)

func loadOrders(t *testing.T) *htmldoc.Document {
	f, err := os.Open("testdata/orders.html")
	if err != nil {
		t.Fatalf("error opening testdata: %s", err)
	}
	defer f.Close()
	doc, err := htmldoc.Parse(f)
	if err != nil {
		t.Fatalf("error parsing: %s", err)
	}
	return doc
}

func TestDocumentCapabilities(t *testing.T) {
	doc := loadOrders(t)
	for _, c := range []darcyk.Capability{darcyk.FindByCSS, darcyk.FindByHTMLTag, darcyk.FindByClassName, darcyk.FindByAttribute} {
		if !darcyk.Supports(doc, c) {
			t.Fatalf("expected document to support %s", c)
		}
	}
	_, err := by.URL("http://a/").Find(darcyk.KindBrowser, doc)
	if !darcyk.IsCapabilityNotSupported(err) {
		t.Fatalf("expected CapabilityNotSupportedErr got %v", err)
	}
}

func TestFindStrategies(t *testing.T) {
	doc := loadOrders(t)
	var inputs = []struct {
		loc      darcyk.Locator
		expected int
	}{
		{by.CSS(".menu-item"), 3},
		{by.ClassName("menu-item"), 3},
		{by.ClassName("active"), 1},
		{by.HTMLTag("TD"), 9},
		{by.HTMLTag("input"), 3},
		{by.Attribute("name", "q"), 1},
		{by.Value("Go"), 1},
		{by.LabelFor("search"), 1},
		{by.CSS(".nothing"), 0},
		{by.Nested(by.CSS("#orders tbody"), by.HTMLTag("tr")), 3},
	}
	for _, in := range inputs {
		found, err := in.loc.FindAll(darcyk.KindElement, doc)
		if err != nil {
			t.Fatalf("%s: error finding %s", in.loc, err)
		}
		if len(found) != in.expected {
			t.Fatalf("%s: expected %d got %d", in.loc, in.expected, len(found))
		}
	}

	if _, err := by.CSS(".nothing").Find(darcyk.KindElement, doc); !errors.Is(err, darcyk.ErrElementNotFound) {
		t.Fatalf("expected ErrElementNotFound got %v", err)
	}
}

func TestNodeHandle(t *testing.T) {
	doc := loadOrders(t)
	sel := selection.Find(doc)

	if doc.Title() != "Orders" {
		t.Fatalf("expected title Orders got %s", doc.Title())
	}
	input := sel.TextInput(by.CSS("#search"))
	if v, _ := input.Value(); v != "widgets" {
		t.Fatalf("expected widgets got %s", v)
	}
	if err := input.Type("more"); !errors.Is(err, darcyk.ErrNotInteractive) {
		t.Fatalf("expected ErrNotInteractive got %v", err)
	}

	items, err := sel.Elements(by.CSS(".menu-item"))
	if err != nil {
		t.Fatalf("error finding menu: %s", err)
	}
	if ok, _ := items[0].HasClass("active"); !ok {
		t.Fatalf("expected first item active")
	}
	if displayed, _ := items[2].IsDisplayed(); displayed {
		t.Fatalf("expected display:none item hidden")
	}
	if displayed, _ := items[1].IsDisplayed(); !displayed {
		t.Fatalf("expected second item displayed")
	}
	if displayed, _ := sel.Text(by.ClassName("notice")).IsDisplayed(); displayed {
		t.Fatalf("expected notice inside hidden div to be hidden")
	}
	if displayed, _ := sel.Element(by.Attribute("name", "csrf")).IsDisplayed(); displayed {
		t.Fatalf("expected hidden input to be hidden")
	}

	color, _ := sel.Element(by.CSS("#orders tbody tr:nth-child(1) td:nth-child(3)")).CSSValue("color")
	if color != "red" {
		t.Fatalf("expected inline color red got %s", color)
	}
	tag, _ := sel.Element(by.CSS("#orders")).TagName()
	if tag != "table" {
		t.Fatalf("expected table got %s", tag)
	}
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	driver := mock.MakeMockDriver()
	driver.SourceFn = func(ctx context.Context) (string, error) {
		return `<html><head><title>Snap</title></head><body><p class="x">one</p></body></html>`, nil
	}
	if err := driver.Navigate(ctx, "http://example.com/snap"); err != nil {
		t.Fatalf("error navigating: %s", err)
	}
	doc, err := htmldoc.Snapshot(ctx, driver)
	if err != nil {
		t.Fatalf("error taking snapshot: %s", err)
	}
	if doc.URL() != "http://example.com/snap" || doc.Title() != "Snap" {
		t.Fatalf("unexpected snapshot %s %s", doc.URL(), doc.Title())
	}
	text, err := selection.Find(doc).Text(by.ClassName("x")).Text()
	if err != nil || text != "one" {
		t.Fatalf("expected one got %s %v", text, err)
	}
}
