package browser

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"gitlab.com/darcyk/darcyk"
	"gitlab.com/darcyk/synq"
)

func TestSelectors(t *testing.T) {
	var inputs = []struct {
		got      string
		expected string
	}{
		{tagSelector("TD"), "td"},
		{classSelector("menu-item"), ".menu-item"},
		{classSelector("1st"), `.\31 st`},
		{classSelector("a.b"), `.a\.b`},
		{attributeSelector("data-id", "2"), `[data-id="2"]`},
		{attributeSelector("value", `say "hi"`), `[value="say \"hi\""]`},
		{attributeSelector("for", `C:\tmp`), `[for="C:\\tmp"]`},
	}
	for _, in := range inputs {
		if in.got != in.expected {
			t.Fatalf("expected %s got %s", in.expected, in.got)
		}
	}
}

func TestAttributeValue(t *testing.T) {
	attrs := []string{"href", "/next", "CLASS", "a b", "dangling"}
	if v, ok := attributeValue(attrs, "class"); !ok || v != "a b" {
		t.Fatalf("expected class a b got %s %v", v, ok)
	}
	if _, ok := attributeValue(attrs, "dangling"); ok {
		t.Fatalf("expected a name without a value to be ignored")
	}
	if _, ok := attributeValue(nil, "href"); ok {
		t.Fatalf("expected nothing from nil attributes")
	}
}

func TestNodeErrIsTransient(t *testing.T) {
	stale := nodeErr(errors.New("request 12 failed, code: -32000, message: Could not find node with given id"))
	if !synq.IsTransient(stale) {
		t.Fatalf("expected stale node error to be transient")
	}
	if !errors.Is(stale, darcyk.ErrStaleElement) {
		t.Fatalf("expected stale node error to wrap ErrStaleElement")
	}

	other := errors.New("websocket closed")
	if nodeErr(other) != other {
		t.Fatalf("expected other errors unmodified")
	}
	if nodeErr(nil) != nil {
		t.Fatalf("expected nil for nil")
	}
}

func TestFromNetworkCookie(t *testing.T) {
	c := fromNetworkCookie("sid", "v", "example.com:8080", "", 1600000000.75, false, true, true)
	if !c.Expiry.Equal(time.Unix(1600000000, 0)) {
		t.Fatalf("expected expiry truncated to seconds got %s", c.Expiry)
	}
	if c.Domain != "example.com" || c.Path != "/" || !c.Secure || !c.HTTPOnly {
		t.Fatalf("unexpected cookie %s", c)
	}

	session := fromNetworkCookie("sid", "v", "example.com", "/", -1, true, false, false)
	if !session.Expiry.IsZero() {
		t.Fatalf("expected session cookie without expiry")
	}

	params := toSetCookieParams(c)
	if params.Expires != 1600000000 || params.Domain != "example.com" {
		t.Fatalf("unexpected params %#v", params)
	}
	if !sameDomain(".example.com", "example.com") || sameDomain("a.com", "b.com") {
		t.Fatalf("unexpected domain comparison")
	}
}
