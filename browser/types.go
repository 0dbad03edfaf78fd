package browser

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/wirepair/gcd/gcdapi"
	"gitlab.com/darcyk/darcyk"
	"gitlab.com/darcyk/synq"
)

// Capabilities of a tab and of every element handle it returns
const Capabilities = darcyk.FindByCSS | darcyk.FindByHTMLTag | darcyk.FindByClassName | darcyk.FindByAttribute

// revive:exported
var (
	ErrTabClosing     = errors.New("closing")
	ErrNavigating     = errors.New("error in navigation")
	ErrChromeNotFound = errors.New("chrome binary not found")
)

// InvalidNavigationErr when unable to navigate Forward or Back
type InvalidNavigationErr struct {
	Message string
}

func (e *InvalidNavigationErr) Error() string {
	return e.Message
}

// ScriptEvaluationErr returned when an injected script caused an error
type ScriptEvaluationErr struct {
	Message          string
	ExceptionText    string
	ExceptionDetails *gcdapi.RuntimeExceptionDetails
}

func (e *ScriptEvaluationErr) Error() string {
	return e.Message + " " + e.ExceptionText
}

func scriptErr(msg string, exp *gcdapi.RuntimeExceptionDetails) error {
	return &ScriptEvaluationErr{Message: msg, ExceptionText: exp.Text, ExceptionDetails: exp}
}

// NodeType are standard browser node types
type NodeType uint8

// revive:exported
const (
	NodeElement  NodeType = 0x1
	NodeText     NodeType = 0x3
	NodeDocument NodeType = 0x9
)

// chrome reports removed or re-created nodes with one of these messages
var staleMessages = []string{
	"node with given id",
	"Cannot find context with specified id",
	"Node is detached from document",
}

// nodeErr marks errors about nodes that went away as stale, which are transient
func nodeErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	for _, stale := range staleMessages {
		if strings.Contains(msg, stale) {
			return synq.Transient(errors.Wrap(darcyk.ErrStaleElement, msg))
		}
	}
	return err
}

// attributeValue from chrome's flat name, value attribute list
func attributeValue(attrs []string, name string) (string, bool) {
	name = strings.ToLower(name)
	for i := 0; i+1 < len(attrs); i += 2 {
		if strings.ToLower(attrs[i]) == name {
			return attrs[i+1], true
		}
	}
	return "", false
}
