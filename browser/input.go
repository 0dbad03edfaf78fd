package browser

import "github.com/wirepair/gcd/gcdapi"

func (t *Tab) click(x, y float64, clickCount int) error {
	for _, eventType := range []string{"mouseMoved", "mousePressed", "mouseReleased"} {
		params := &gcdapi.InputDispatchMouseEventParams{TheType: eventType,
			X:          x,
			Y:          y,
			Button:     "left",
			ClickCount: clickCount,
		}
		if eventType == "mouseMoved" {
			params.Button = "none"
			params.ClickCount = 0
		}
		if _, err := t.t.Input.DispatchMouseEventWithParams(params); err != nil {
			return err
		}
	}
	return nil
}

// sendKeys to whatever is focused. Use \n for Enter, \b for backspace or \t for Tab.
func (t *Tab) sendKeys(text string) error {
	inputParams := &gcdapi.InputDispatchKeyEventParams{TheType: "char"}

	for _, inputchar := range text {
		input := string(inputchar)

		switch input {
		case "\r", "\n", "\t", "\b":
			if err := t.pressSystemKey(input); err != nil {
				return err
			}
			continue
		}
		inputParams.Text = input
		if _, err := t.t.Input.DispatchKeyEventWithParams(inputParams); err != nil {
			return err
		}
	}
	return nil
}

var systemKeys = map[string]int{
	"\b": 8,
	"\t": 9,
	"\r": 13,
	"\n": 13,
}

func (t *Tab) pressSystemKey(systemKey string) error {
	code := systemKeys[systemKey]
	text := systemKey
	if text == "\n" {
		text = "\r"
	}
	inputParams := &gcdapi.InputDispatchKeyEventParams{
		TheType:               "rawKeyDown",
		UnmodifiedText:        text,
		Text:                  text,
		WindowsVirtualKeyCode: code,
		NativeVirtualKeyCode:  code,
	}

	for _, eventType := range []string{"rawKeyDown", "char", "keyUp"} {
		inputParams.TheType = eventType
		if _, err := t.t.Input.DispatchKeyEventWithParams(inputParams); err != nil {
			return err
		}
	}
	return nil
}
