package darcyk

// Kind is the element category a caller is looking for. It is passed through to the
// finders so a driver can filter or construct accordingly.
type Kind int8

// revive:disable:var-naming
const (
	KindElement Kind = iota
	KindTextInput
	KindButton
	KindLink
	KindLabel
	KindSelect
	KindFileSelect
	KindCheckbox
	KindRadio
	KindText
	KindBrowser
	KindFrame
)

// KindMap to display the kind
var KindMap = map[Kind]string{
	KindElement:    "element",
	KindTextInput:  "text input",
	KindButton:     "button",
	KindLink:       "link",
	KindLabel:      "label",
	KindSelect:     "select",
	KindFileSelect: "file select",
	KindCheckbox:   "checkbox",
	KindRadio:      "radio",
	KindText:       "text",
	KindBrowser:    "browser",
	KindFrame:      "frame",
}

func (k Kind) String() string {
	if s, ok := KindMap[k]; ok {
		return s
	}
	return "unknown"
}

// Findable is anything a Locator can resolve to, element handles and contexts alike.
type Findable interface {
	IsPresent() (bool, error)
}

// ElementHandle is a driver level reference to a single element. A handle may go stale
// when the page changes underneath it, in which case methods return ErrStaleElement.
type ElementHandle interface {
	Findable
	IsDisplayed() (bool, error)
	Attribute(name string) (string, error)
	Classes() ([]string, error)
	CSSValue(property string) (string, error)
	TagName() (string, error)
	Text() (string, error)
	Click() error
	SendKeys(text string) error
}

// Alert is a javascript dialog. There is at most one per window so it is not located.
type Alert interface {
	IsPresent() (bool, error)
	Accept() error
	Dismiss() error
	SendKeys(text string) error
	Text() (string, error)
}

// AlertHandler is implemented by contexts that can reach javascript dialogs
type AlertHandler interface {
	Alert() Alert
}
