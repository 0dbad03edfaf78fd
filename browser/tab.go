package browser

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/wirepair/gcd"
	"github.com/wirepair/gcd/gcdapi"
	"gitlab.com/darcyk/darcyk"
)

// Tab is a chromium browser tab. It is a darcyk.Driver and the Context of its top
// level document. Navigation never blocks for the page to load, callers wait for
// views with synq.
type Tab struct {
	g *gcd.Gcd
	t *gcd.ChromeTarget

	docMu  sync.Mutex
	docID  int         // nodeID of the top level #document, 0 when it must be re-requested
	frames map[int]int // iframe nodeID to its content document nodeID

	dialogMu sync.Mutex
	dialog   *gcdapi.PageJavascriptDialogOpeningEvent

	exitCh   chan struct{}
	exitOnce sync.Once
}

// NewTab to use
func NewTab(ctx context.Context, gcdBrowser *gcd.Gcd, target *gcd.ChromeTarget) *Tab {
	t := &Tab{
		g:      gcdBrowser,
		t:      target,
		frames: make(map[int]int),
		exitCh: make(chan struct{}),
	}
	t.subscribeBrowserEvents(ctx)
	return t
}

// ID of the chrome target
func (t *Tab) ID() string {
	return t.t.Target.Id
}

// Close the tab
func (t *Tab) Close() error {
	t.exitOnce.Do(func() { close(t.exitCh) })
	return t.g.CloseTab(t.t)
}

func (t *Tab) closed() bool {
	select {
	case <-t.exitCh:
		return true
	default:
		return false
	}
}

func (t *Tab) Capabilities() darcyk.Capability {
	return Capabilities
}

// IsPresent until the tab is closed
func (t *Tab) IsPresent() (bool, error) {
	return !t.closed(), nil
}

// Navigate issues the navigation and returns once chrome accepted it
func (t *Tab) Navigate(ctx context.Context, url string) error {
	t.invalidate()
	navParams := &gcdapi.PageNavigateParams{Url: url, TransitionType: "typed"}
	_, _, errText, err := t.t.Page.NavigateWithParams(navParams)
	if err != nil {
		return err
	}
	if errText != "" {
		return errors.Wrap(ErrNavigating, errText)
	}
	log.Ctx(ctx).Debug().Str("url", url).Str("tab", t.ID()).Msg("navigation issued")
	return nil
}

// CurrentURL by looking at the navigation history
func (t *Tab) CurrentURL(ctx context.Context) (string, error) {
	idx, entries, err := t.t.Page.GetNavigationHistory()
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(entries) {
		return "about:blank", nil
	}
	return entries[idx].Url, nil
}

func (t *Tab) Title(ctx context.Context) (string, error) {
	v, err := t.evaluate("document.title")
	if err != nil {
		return "", err
	}
	title, _ := v.(string)
	return title, nil
}

// Source of the top level document as currently rendered
func (t *Tab) Source(ctx context.Context) (string, error) {
	docID, err := t.document()
	if err != nil {
		return "", err
	}
	html, err := t.t.DOM.GetOuterHTMLWithParams(&gcdapi.DOMGetOuterHTMLParams{NodeId: docID})
	return html, nodeErr(err)
}

// Back to the previous navigation entry
func (t *Tab) Back(ctx context.Context) error {
	return t.history(-1, "Unable to navigate backward as we are on the first navigation entry")
}

// Forward to the next navigation entry
func (t *Tab) Forward(ctx context.Context) error {
	return t.history(1, "Unable to navigate forward as we are on the latest navigation entry")
}

func (t *Tab) history(step int, msg string) error {
	idx, entries, err := t.t.Page.GetNavigationHistory()
	if err != nil {
		return err
	}
	next := idx + step
	if next < 0 || next >= len(entries) {
		return &InvalidNavigationErr{Message: msg}
	}
	t.invalidate()
	_, err = t.t.Page.NavigateToHistoryEntry(entries[next].Id)
	return err
}

// Refresh reloads the page, cached resources may be reused
func (t *Tab) Refresh(ctx context.Context) error {
	t.invalidate()
	_, err := t.t.Page.Reload(false, "")
	return err
}

// Screenshot writes a png of the viewport to w
func (t *Tab) Screenshot(ctx context.Context, w io.Writer) error {
	params := &gcdapi.PageCaptureScreenshotParams{
		Format:      "png",
		FromSurface: true,
	}
	encoded, err := t.t.Page.CaptureScreenshotWithParams(params)
	if err != nil {
		return err
	}
	img, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return errors.Wrap(err, "failed to decode screenshot")
	}
	_, err = w.Write(img)
	return err
}

// Cookies of the whole browser, chrome does not scope them per tab
func (t *Tab) Cookies() darcyk.CookieManager {
	return &cookieManager{t: t}
}

// Alert is the javascript dialog currently open in this tab, if any
func (t *Tab) Alert() darcyk.Alert {
	return &alert{t: t}
}

func (t *Tab) FindByCSS(kind darcyk.Kind, css string) (darcyk.Findable, error) {
	return t.query(css)
}

func (t *Tab) FindAllByCSS(kind darcyk.Kind, css string) ([]darcyk.Findable, error) {
	return t.queryAll(css)
}

func (t *Tab) FindByHTMLTag(kind darcyk.Kind, tag string) (darcyk.Findable, error) {
	return t.query(tagSelector(tag))
}

func (t *Tab) FindAllByHTMLTag(kind darcyk.Kind, tag string) ([]darcyk.Findable, error) {
	return t.queryAll(tagSelector(tag))
}

func (t *Tab) FindByClassName(kind darcyk.Kind, className string) (darcyk.Findable, error) {
	return t.query(classSelector(className))
}

func (t *Tab) FindAllByClassName(kind darcyk.Kind, className string) ([]darcyk.Findable, error) {
	return t.queryAll(classSelector(className))
}

func (t *Tab) FindByAttribute(kind darcyk.Kind, name, value string) (darcyk.Findable, error) {
	return t.query(attributeSelector(name, value))
}

func (t *Tab) FindAllByAttribute(kind darcyk.Kind, name, value string) ([]darcyk.Findable, error) {
	return t.queryAll(attributeSelector(name, value))
}

func (t *Tab) query(selector string) (darcyk.Findable, error) {
	docID, err := t.document()
	if err != nil {
		return nil, err
	}
	return t.queryFrom(docID, selector)
}

func (t *Tab) queryAll(selector string) ([]darcyk.Findable, error) {
	docID, err := t.document()
	if err != nil {
		return nil, err
	}
	return t.queryAllFrom(docID, selector)
}

func (t *Tab) queryFrom(nodeID int, selector string) (darcyk.Findable, error) {
	id, err := t.t.DOM.QuerySelector(nodeID, selector)
	if err != nil {
		return nil, nodeErr(err)
	}
	if id == 0 {
		return nil, darcyk.ErrElementNotFound
	}
	return &Element{tab: t, id: id}, nil
}

func (t *Tab) queryAllFrom(nodeID int, selector string) ([]darcyk.Findable, error) {
	ids, err := t.t.DOM.QuerySelectorAll(nodeID, selector)
	if err != nil {
		return nil, nodeErr(err)
	}
	found := make([]darcyk.Findable, 0, len(ids))
	for _, id := range ids {
		found = append(found, &Element{tab: t, id: id})
	}
	return found, nil
}

// document returns the top level document nodeID, requesting the whole tree when the
// previous document was replaced. Do not request it otherwise, it invalidates every
// nodeID handed out so far.
func (t *Tab) document() (int, error) {
	if t.closed() {
		return 0, ErrTabClosing
	}
	t.docMu.Lock()
	defer t.docMu.Unlock()
	if t.docID != 0 {
		return t.docID, nil
	}
	doc, err := t.t.DOM.GetDocument(-1, true)
	if err != nil {
		return 0, err
	}
	t.docID = doc.NodeId
	t.frames = make(map[int]int)
	t.addFrames(doc)
	return t.docID, nil
}

func (t *Tab) addFrames(node *gcdapi.DOMNode) {
	if node.ContentDocument != nil {
		t.frames[node.NodeId] = node.ContentDocument.NodeId
		t.addFrames(node.ContentDocument)
	}
	for _, child := range node.Children {
		t.addFrames(child)
	}
}

// frameDocument returns the content document of an iframe node
func (t *Tab) frameDocument(nodeID int) (int, bool) {
	t.docMu.Lock()
	defer t.docMu.Unlock()
	doc, ok := t.frames[nodeID]
	return doc, ok
}

func (t *Tab) invalidate() {
	t.docMu.Lock()
	t.docID = 0
	t.docMu.Unlock()
}

// evaluate a script in the global context and return its value
func (t *Tab) evaluate(script string) (interface{}, error) {
	params := &gcdapi.RuntimeEvaluateParams{
		Expression:    script,
		ObjectGroup:   "darcyk",
		Silent:        true,
		ReturnByValue: true,
		Timeout:       1000,
	}
	r, exp, err := t.t.Runtime.EvaluateWithParams(params)
	if err != nil {
		return nil, err
	}
	if exp != nil {
		return nil, scriptErr("failed to evaluate script", exp)
	}
	return r.Value, nil
}

func (t *Tab) subscribeBrowserEvents(ctx context.Context) {
	t.t.DOM.Enable()
	t.t.Page.Enable()
	t.t.Network.EnableWithParams(&gcdapi.NetworkEnableParams{
		MaxPostDataSize:       -1,
		MaxResourceBufferSize: -1,
		MaxTotalBufferSize:    -1,
	})

	t.t.Subscribe("DOM.documentUpdated", func(target *gcd.ChromeTarget, payload []byte) {
		t.invalidate()
	})

	// frame documents are only part of the tree requested after they load
	t.t.Subscribe("Page.frameStoppedLoading", func(target *gcd.ChromeTarget, payload []byte) {
		t.invalidate()
	})

	t.t.Subscribe("Page.javascriptDialogOpening", func(target *gcd.ChromeTarget, payload []byte) {
		message := &gcdapi.PageJavascriptDialogOpeningEvent{}
		if err := json.Unmarshal(payload, message); err != nil {
			return
		}
		t.dialogMu.Lock()
		t.dialog = message
		t.dialogMu.Unlock()
	})

	t.t.Subscribe("Page.javascriptDialogClosed", func(target *gcd.ChromeTarget, payload []byte) {
		t.dialogMu.Lock()
		t.dialog = nil
		t.dialogMu.Unlock()
	})

	t.t.Subscribe("Inspector.detached", func(target *gcd.ChromeTarget, payload []byte) {
		header := &gcdapi.InspectorDetachedEvent{}
		reason := "detached"
		if err := json.Unmarshal(payload, header); err == nil {
			reason = header.Params.Reason
		}
		log.Ctx(ctx).Warn().Str("tab", t.ID()).Str("reason", reason).Msg("tab disconnected")
		t.exitOnce.Do(func() { close(t.exitCh) })
	})
}
