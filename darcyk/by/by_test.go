package by_test

import (
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"gitlab.com/darcyk/darcyk"
	"gitlab.com/darcyk/darcyk/by"
	"gitlab.com/darcyk/mock"
)

func TestLocatorEquality(t *testing.T) {
	var inputs = []struct {
		a, b  darcyk.Locator
		equal bool
	}{
		{by.CSS(".menu-item"), by.CSS(".menu-item"), true},
		{by.CSS(".menu-item"), by.CSS(".menu"), false},
		{by.CSS("div"), by.HTMLTag("div"), false},
		{by.Value("Submit"), by.Attribute("value", "Submit"), true},
		{by.LabelFor("user"), by.Attribute("for", "user"), true},
		{by.URL("http://a/"), by.URL("http://a/"), true},
		{by.URL("http://a/"), by.URLPrefix("http://a/"), false},
		{by.URLMatching(`\d+`), by.URLMatching(`\d+`), true},
		{by.Nested(by.CSS("#nav"), by.ClassName("x")), by.Nested(by.CSS("#nav"), by.ClassName("x")), true},
		{by.Chained(by.CSS("a"), by.CSS("b"), by.CSS("c")), by.Nested(by.CSS("a"), by.Nested(by.CSS("b"), by.CSS("c"))), true},
	}
	for i, in := range inputs {
		if darcyk.EqualLocators(in.a, in.b) != in.equal {
			t.Fatalf("%d: expected equal=%v for %s and %s", i, in.equal, in.a, in.b)
		}
		if (darcyk.LocatorKey(in.a) == darcyk.LocatorKey(in.b)) != in.equal {
			t.Fatalf("%d: expected key equality=%v for %s and %s", i, in.equal, in.a, in.b)
		}
	}
}

func TestLocatorsAsMapKeys(t *testing.T) {
	seen := make(map[darcyk.Locator]int)
	seen[by.CSS(".menu-item")]++
	seen[by.CSS(".menu-item")]++
	seen[by.Nested(by.HTMLTag("nav"), by.CSS(".menu-item"))]++
	if len(seen) != 2 {
		t.Fatalf("expected 2 keys got %d: %s", len(seen), spew.Sdump(seen))
	}
	if seen[by.CSS(".menu-item")] != 2 {
		t.Fatalf("expected separately built locators to share a key")
	}
}

func TestFindAllMenuItems(t *testing.T) {
	ctx := mock.MakeMockCSSContext(mock.Handles(3, "li")...)
	found, err := by.CSS(".menu-item").FindAll(darcyk.KindElement, ctx)
	if err != nil {
		t.Fatalf("error finding: %s", err)
	}
	if len(found) != 3 {
		t.Fatalf("expected 3 handles got %d", len(found))
	}
}

func TestCapabilityNotSupported(t *testing.T) {
	// supports everything except css
	ctx := mock.MakeMockContext(darcyk.AllCapabilities &^ darcyk.FindByCSS)
	loc := by.CSS(".menu-item")

	_, err := loc.FindAll(darcyk.KindElement, ctx)
	if !darcyk.IsCapabilityNotSupported(err) {
		t.Fatalf("expected CapabilityNotSupportedErr got %v", err)
	}
	if !strings.Contains(err.Error(), "find by CSS selector") {
		t.Fatalf("expected message to name the capability: %s", err)
	}
	if !strings.Contains(err.Error(), ".menu-item") {
		t.Fatalf("expected message to describe the locator: %s", err)
	}

	_, err = loc.Find(darcyk.KindElement, ctx)
	if !darcyk.IsCapabilityNotSupported(err) {
		t.Fatalf("expected CapabilityNotSupportedErr got %v", err)
	}
	if ctx.AnyCalled() {
		t.Fatalf("no finder should be called when the capability is missing")
	}
}

func TestEveryStrategyChecksCapability(t *testing.T) {
	locs := []darcyk.Locator{
		by.CSS("a"), by.HTMLTag("a"), by.ClassName("a"), by.Attribute("a", "b"),
		by.URL("a"), by.URLPrefix("a"), by.URLContaining("a"), by.URLMatching("a"),
	}
	for _, loc := range locs {
		ctx := mock.MakeMockContext(darcyk.AllCapabilities &^ loc.Capability())
		if _, err := loc.Find(darcyk.KindElement, ctx); !darcyk.IsCapabilityNotSupported(err) {
			t.Fatalf("%s: expected CapabilityNotSupportedErr from Find got %v", loc, err)
		}
		if _, err := loc.FindAll(darcyk.KindElement, ctx); !darcyk.IsCapabilityNotSupported(err) {
			t.Fatalf("%s: expected CapabilityNotSupportedErr from FindAll got %v", loc, err)
		}

		supported := mock.MakeMockContext(loc.Capability())
		found, err := loc.FindAll(darcyk.KindElement, supported)
		if err != nil {
			t.Fatalf("%s: unexpected error %s", loc, err)
		}
		if found == nil {
			t.Fatalf("%s: FindAll must never return nil", loc)
		}
	}
}

func TestFindAllNeverNil(t *testing.T) {
	ctx := mock.MakeMockContext(darcyk.FindByCSS)
	ctx.FindAllByCSSFn = func(darcyk.Kind, string) ([]darcyk.Findable, error) {
		return nil, nil
	}
	found, err := by.CSS(".none").FindAll(darcyk.KindElement, ctx)
	if err != nil || found == nil || len(found) != 0 {
		t.Fatalf("expected empty non nil slice got %#v %v", found, err)
	}
}

func TestKindPassedThrough(t *testing.T) {
	ctx := mock.MakeMockContext(darcyk.FindByAttribute)
	var gotKind darcyk.Kind
	var gotName, gotValue string
	ctx.FindByAttributeFn = func(kind darcyk.Kind, name, value string) (darcyk.Findable, error) {
		gotKind, gotName, gotValue = kind, name, value
		return mock.MakeMockElement("label", "User"), nil
	}
	if _, err := by.LabelFor("user").Find(darcyk.KindLabel, ctx); err != nil {
		t.Fatalf("error finding: %s", err)
	}
	if gotKind != darcyk.KindLabel || gotName != "for" || gotValue != "user" {
		t.Fatalf("unexpected finder arguments %s %s %s", gotKind, gotName, gotValue)
	}
}

func TestNestedNarrowsContext(t *testing.T) {
	frame := mock.MakeMockCSSContext(mock.Handles(2, "button")...)
	page := mock.MakeMockContext(darcyk.FindByHTMLTag)
	page.FindByHTMLTagFn = func(kind darcyk.Kind, tag string) (darcyk.Findable, error) {
		return frame, nil
	}
	page.FindAllByHTMLTagFn = func(kind darcyk.Kind, tag string) ([]darcyk.Findable, error) {
		return []darcyk.Findable{frame, frame}, nil
	}

	loc := by.Nested(by.HTMLTag("iframe"), by.CSS("button"))
	if loc.Capability() != darcyk.FindByCSS {
		t.Fatalf("expected capability of the inner locator got %s", loc.Capability())
	}
	if _, err := loc.Find(darcyk.KindButton, page); err != nil {
		t.Fatalf("error finding nested: %s", err)
	}
	if !frame.FindByCSSCalled {
		t.Fatalf("expected inner locator to resolve within the frame")
	}
	if page.FindByCSSCalled {
		t.Fatalf("inner locator must not resolve against the outer context")
	}

	all, err := loc.FindAll(darcyk.KindButton, page)
	if err != nil {
		t.Fatalf("error finding all nested: %s", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 2 buttons in each of 2 frames got %d", len(all))
	}
}

func TestNestedRequiresContextMatch(t *testing.T) {
	page := mock.MakeMockCSSContext(mock.MakeMockElement("div", ""))
	_, err := by.Nested(by.CSS("div"), by.CSS("span")).Find(darcyk.KindElement, page)
	if !errors.Is(err, darcyk.ErrNotContext) {
		t.Fatalf("expected ErrNotContext got %v", err)
	}
}

func TestNestedInnerCapabilityChecked(t *testing.T) {
	tagOnly := mock.MakeMockContext(darcyk.FindByHTMLTag)
	page := mock.MakeMockContext(darcyk.FindByCSS)
	page.FindByCSSFn = func(kind darcyk.Kind, css string) (darcyk.Findable, error) {
		return tagOnly, nil
	}
	_, err := by.Nested(by.CSS("#frame"), by.ClassName("x")).Find(darcyk.KindElement, page)
	if !darcyk.IsCapabilityNotSupported(err) {
		t.Fatalf("expected CapabilityNotSupportedErr got %v", err)
	}
	if !strings.Contains(err.Error(), "find by class name") {
		t.Fatalf("expected inner capability in message: %s", err)
	}
}

func TestNestedCapabilityCheckedWithoutOuterMatch(t *testing.T) {
	cssOnly := mock.MakeMockCSSContext()
	loc := by.Nested(by.CSS("#frame"), by.ClassName("x"))

	found, err := loc.FindAll(darcyk.KindElement, cssOnly)
	if !darcyk.IsCapabilityNotSupported(err) || found != nil {
		t.Fatalf("expected CapabilityNotSupportedErr got %d %v", len(found), err)
	}
	if _, err := loc.Find(darcyk.KindElement, cssOnly); !darcyk.IsCapabilityNotSupported(err) {
		t.Fatalf("expected CapabilityNotSupportedErr from Find got %v", err)
	}

	both := mock.MakeMockContext(darcyk.FindByCSS | darcyk.FindByClassName)
	found, err = loc.FindAll(darcyk.KindElement, both)
	if err != nil || len(found) != 0 {
		t.Fatalf("expected nothing found got %d %v", len(found), err)
	}
	if _, err := loc.Find(darcyk.KindElement, both); !errors.Is(err, darcyk.ErrElementNotFound) {
		t.Fatalf("expected ErrElementNotFound got %v", err)
	}
}

func TestChainedChecksEachStep(t *testing.T) {
	table := mock.MakeMockContext(darcyk.FindByClassName)
	frame := mock.MakeMockContext(darcyk.FindByHTMLTag)
	frame.FindAllByHTMLTagFn = func(kind darcyk.Kind, tag string) ([]darcyk.Findable, error) {
		return []darcyk.Findable{table}, nil
	}
	page := mock.MakeMockContext(darcyk.FindByCSS)
	page.FindAllByCSSFn = func(kind darcyk.Kind, css string) ([]darcyk.Findable, error) {
		return []darcyk.Findable{frame}, nil
	}
	loc := by.Chained(by.CSS("#frame"), by.HTMLTag("table"), by.ClassName("cell"))
	if _, err := loc.FindAll(darcyk.KindElement, page); err != nil {
		t.Fatalf("expected the frame to only need the tag step got %s", err)
	}
	if !frame.FindAllByHTMLTagCalled || !table.FindAllByClassNameCalled {
		t.Fatalf("expected each step resolved within the previous match")
	}

	frame.FindAllByHTMLTagFn = func(kind darcyk.Kind, tag string) ([]darcyk.Findable, error) {
		return []darcyk.Findable{}, nil
	}
	_, err := loc.FindAll(darcyk.KindElement, page)
	var capErr *darcyk.CapabilityNotSupportedErr
	if !errors.As(err, &capErr) || capErr.Capability != darcyk.FindByClassName {
		t.Fatalf("expected a frame without tables to need class name lookups got %v", err)
	}
}

func TestParse(t *testing.T) {
	var inputs = []struct {
		text     string
		expected darcyk.Locator
	}{
		{"css=.menu-item", by.CSS(".menu-item")},
		{"tag=table", by.HTMLTag("table")},
		{"class=active", by.ClassName("active")},
		{"attr=data-id=7", by.Attribute("data-id", "7")},
		{"value=Submit", by.Value("Submit")},
		{"for=username", by.LabelFor("username")},
		{"url=http://example.com/", by.URL("http://example.com/")},
		{"urlprefix=http://example.com/", by.URLPrefix("http://example.com/")},
		{"urlcontains=/login", by.URLContaining("/login")},
		{`urlpattern=/item/\d+`, by.URLMatching(`/item/\d+`)},
		{"tag=iframe >> css=button", by.Nested(by.HTMLTag("iframe"), by.CSS("button"))},
	}
	for _, in := range inputs {
		loc, err := by.Parse(in.text)
		if err != nil {
			t.Fatalf("error parsing %s: %s", in.text, err)
		}
		if loc != in.expected {
			t.Fatalf("%s parsed to %s expected %s", in.text, loc, in.expected)
		}
	}

	for _, bad := range []string{"", ".menu-item", "css=", "xpath=//a", "attr=novalue", "css=a >> "} {
		if _, err := by.Parse(bad); err == nil {
			t.Fatalf("expected error parsing %q", bad)
		}
	}
}
