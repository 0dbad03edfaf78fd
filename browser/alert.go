package browser

import (
	"gitlab.com/darcyk/darcyk"
)

// alert is the dialog the tab last reported opening, until chrome reports it closed
type alert struct {
	t      *Tab
	prompt string
}

func (a *alert) IsPresent() (bool, error) {
	a.t.dialogMu.Lock()
	defer a.t.dialogMu.Unlock()
	return a.t.dialog != nil, nil
}

func (a *alert) Accept() error {
	return a.handle(true)
}

func (a *alert) Dismiss() error {
	return a.handle(false)
}

// SendKeys is typed into a prompt when it is accepted
func (a *alert) SendKeys(text string) error {
	if ok, _ := a.IsPresent(); !ok {
		return darcyk.ErrNoAlert
	}
	a.prompt += text
	return nil
}

func (a *alert) Text() (string, error) {
	a.t.dialogMu.Lock()
	defer a.t.dialogMu.Unlock()
	if a.t.dialog == nil {
		return "", darcyk.ErrNoAlert
	}
	return a.t.dialog.Params.Message, nil
}

func (a *alert) handle(accept bool) error {
	if ok, _ := a.IsPresent(); !ok {
		return darcyk.ErrNoAlert
	}
	if _, err := a.t.t.Page.HandleJavaScriptDialog(accept, a.prompt); err != nil {
		return err
	}
	a.t.dialogMu.Lock()
	a.t.dialog = nil
	a.t.dialogMu.Unlock()
	return nil
}
