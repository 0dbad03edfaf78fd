package browser

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/wirepair/gcd/gcdapi"
	"gitlab.com/darcyk/darcyk"
)

const (
	isConnectedFn = `function() { return this.isConnected; }`
	isDisplayedFn = `function() {
	if (!this.isConnected) { return false; }
	var style = window.getComputedStyle(this);
	if (style.display === 'none' || style.visibility === 'hidden') { return false; }
	var rect = this.getBoundingClientRect();
	return rect.width > 0 || rect.height > 0;
}`
	cssValueFn = `function(property) { return window.getComputedStyle(this).getPropertyValue(property); }`
	tagNameFn  = `function() { return this.tagName.toLowerCase(); }`
	textFn     = `function() { return (this.innerText || this.textContent || '').trim(); }`
	centerFn   = `function() {
	this.scrollIntoView({block: 'center', inline: 'center'});
	var rect = this.getBoundingClientRect();
	return [rect.left + rect.width / 2, rect.top + rect.height / 2, rect.width * rect.height];
}`
	clickFn = `function() { this.click(); }`
	focusFn = `function() { this.focus(); }`
)

// Element is a DOM node in a tab. It is also the Context for finding its descendants,
// or the content document when the node is an iframe. NodeIDs are invalidated by
// document updates, after which every method returns a transient stale error.
type Element struct {
	tab *Tab
	id  int
}

// NodeID of this element
func (e *Element) NodeID() int {
	return e.id
}

func (e *Element) Capabilities() darcyk.Capability {
	return Capabilities
}

func (e *Element) root() int {
	if doc, ok := e.tab.frameDocument(e.id); ok {
		return doc
	}
	return e.id
}

func (e *Element) FindByCSS(kind darcyk.Kind, css string) (darcyk.Findable, error) {
	return e.tab.queryFrom(e.root(), css)
}

func (e *Element) FindAllByCSS(kind darcyk.Kind, css string) ([]darcyk.Findable, error) {
	return e.tab.queryAllFrom(e.root(), css)
}

func (e *Element) FindByHTMLTag(kind darcyk.Kind, tag string) (darcyk.Findable, error) {
	return e.tab.queryFrom(e.root(), tagSelector(tag))
}

func (e *Element) FindAllByHTMLTag(kind darcyk.Kind, tag string) ([]darcyk.Findable, error) {
	return e.tab.queryAllFrom(e.root(), tagSelector(tag))
}

func (e *Element) FindByClassName(kind darcyk.Kind, className string) (darcyk.Findable, error) {
	return e.tab.queryFrom(e.root(), classSelector(className))
}

func (e *Element) FindAllByClassName(kind darcyk.Kind, className string) ([]darcyk.Findable, error) {
	return e.tab.queryAllFrom(e.root(), classSelector(className))
}

func (e *Element) FindByAttribute(kind darcyk.Kind, name, value string) (darcyk.Findable, error) {
	return e.tab.queryFrom(e.root(), attributeSelector(name, value))
}

func (e *Element) FindAllByAttribute(kind darcyk.Kind, name, value string) ([]darcyk.Findable, error) {
	return e.tab.queryAllFrom(e.root(), attributeSelector(name, value))
}

// IsPresent is false once the node is detached or replaced
func (e *Element) IsPresent() (bool, error) {
	v, err := e.call(isConnectedFn)
	if errors.Is(err, darcyk.ErrStaleElement) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	connected, _ := v.(bool)
	return connected, nil
}

func (e *Element) IsDisplayed() (bool, error) {
	v, err := e.call(isDisplayedFn)
	if err != nil {
		return false, err
	}
	displayed, _ := v.(bool)
	return displayed, nil
}

func (e *Element) Attribute(name string) (string, error) {
	attrs, err := e.tab.t.DOM.GetAttributes(e.id)
	if err != nil {
		return "", nodeErr(err)
	}
	v, _ := attributeValue(attrs, name)
	return v, nil
}

func (e *Element) Classes() ([]string, error) {
	class, err := e.Attribute("class")
	if err != nil {
		return nil, err
	}
	return strings.Fields(class), nil
}

// CSSValue is the computed value of property
func (e *Element) CSSValue(property string) (string, error) {
	return e.callString(cssValueFn, property)
}

func (e *Element) TagName() (string, error) {
	return e.callString(tagNameFn)
}

// Text as rendered, trimmed
func (e *Element) Text() (string, error) {
	return e.callString(textFn)
}

// Click dispatches mouse events at the center of the element, elements without a box
// are clicked by script
func (e *Element) Click() error {
	v, err := e.call(centerFn)
	if err != nil {
		return err
	}
	center, ok := v.([]interface{})
	if !ok || len(center) != 3 {
		return errors.Errorf("unexpected element position %v", v)
	}
	x, _ := center[0].(float64)
	y, _ := center[1].(float64)
	if area, _ := center[2].(float64); area == 0 {
		_, err = e.call(clickFn)
		return err
	}
	return e.tab.click(x, y, 1)
}

// SendKeys focuses the element and types text
func (e *Element) SendKeys(text string) error {
	if _, err := e.call(focusFn); err != nil {
		return err
	}
	return e.tab.sendKeys(text)
}

func (e *Element) String() string {
	return "node " + strconv.Itoa(e.id)
}

func (e *Element) callString(fn string, args ...interface{}) (string, error) {
	v, err := e.call(fn, args...)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// call fn with this bound to the node and return its value
func (e *Element) call(fn string, args ...interface{}) (interface{}, error) {
	obj, err := e.tab.t.DOM.ResolveNodeWithParams(&gcdapi.DOMResolveNodeParams{NodeId: e.id, ObjectGroup: "darcyk"})
	if err != nil {
		return nil, nodeErr(err)
	}
	defer e.tab.t.Runtime.ReleaseObject(obj.ObjectId)

	callArgs := make([]*gcdapi.RuntimeCallArgument, 0, len(args))
	for _, arg := range args {
		callArgs = append(callArgs, &gcdapi.RuntimeCallArgument{Value: arg})
	}
	params := &gcdapi.RuntimeCallFunctionOnParams{
		FunctionDeclaration: fn,
		ObjectId:            obj.ObjectId,
		Arguments:           callArgs,
		Silent:              true,
		ReturnByValue:       true,
	}
	r, exp, err := e.tab.t.Runtime.CallFunctionOnWithParams(params)
	if err != nil {
		return nil, nodeErr(err)
	}
	if exp != nil {
		return nil, scriptErr("failed to call function on "+e.String(), exp)
	}
	return r.Value, nil
}
