package selection

import (
	"strings"

	"github.com/pkg/errors"
	"gitlab.com/darcyk/darcyk"
	"gitlab.com/darcyk/darcyk/by"
)

// TextInput is an input or textarea
type TextInput struct {
	*Element
}

func NewTextInput(e *Element) *TextInput { return &TextInput{Element: e} }

// Value currently in the input
func (t *TextInput) Value() (string, error) {
	return t.Attribute("value")
}

// Type sends text as key presses
func (t *TextInput) Type(text string) error {
	return t.SendKeys(text)
}

type Button struct {
	*Element
}

func NewButton(e *Element) *Button { return &Button{Element: e} }

// IsEnabled is false when the button carries a disabled attribute
func (b *Button) IsEnabled() (bool, error) {
	disabled, err := b.Attribute("disabled")
	if err != nil {
		return false, err
	}
	return disabled == "", nil
}

type Link struct {
	*Element
}

func NewLink(e *Element) *Link { return &Link{Element: e} }

func (l *Link) Href() (string, error) {
	return l.Attribute("href")
}

type Label struct {
	*Element
}

func NewLabel(e *Element) *Label { return &Label{Element: e} }

// For is the id of the labelled input
func (l *Label) For() (string, error) {
	return l.Attribute("for")
}

type Select struct {
	*Element
}

func NewSelect(e *Element) *Select { return &Select{Element: e} }

// Choose an option by its visible text
func (s *Select) Choose(option string) error {
	return s.SendKeys(option)
}

// Value of the selected option
func (s *Select) Value() (string, error) {
	return s.Attribute("value")
}

type FileSelect struct {
	*Element
}

func NewFileSelect(e *Element) *FileSelect { return &FileSelect{Element: e} }

// SetFile to upload
func (f *FileSelect) SetFile(path string) error {
	return f.SendKeys(path)
}

type Checkbox struct {
	*Element
}

func NewCheckbox(e *Element) *Checkbox { return &Checkbox{Element: e} }

func (c *Checkbox) IsChecked() (bool, error) {
	return isChecked(c.Element)
}

// Check clicks the box only if it is not already checked
func (c *Checkbox) Check() error {
	return c.setChecked(true)
}

// Uncheck clicks the box only if it is checked
func (c *Checkbox) Uncheck() error {
	return c.setChecked(false)
}

func (c *Checkbox) setChecked(want bool) error {
	checked, err := c.IsChecked()
	if err != nil {
		return err
	}
	if checked == want {
		return nil
	}
	return c.Click()
}

type Radio struct {
	*Element
}

func NewRadio(e *Element) *Radio { return &Radio{Element: e} }

func (r *Radio) IsSelected() (bool, error) {
	return isChecked(r.Element)
}

// Choose this radio button
func (r *Radio) Choose() error {
	selected, err := r.IsSelected()
	if err != nil || selected {
		return err
	}
	return r.Click()
}

// RadioGroup is the element holding a set of radio buttons, usually a fieldset
type RadioGroup struct {
	*Element
}

func NewRadioGroup(e *Element) *RadioGroup { return &RadioGroup{Element: e} }

// RadioOption matches the buttons of a group
var RadioOption = by.CSS("input[type=radio]")

// Options are the group's radio buttons in document order
func (g *RadioGroup) Options() ([]*Radio, error) {
	return g.Find().Radios(RadioOption)
}

// Selected is the chosen option, nil when none is
func (g *RadioGroup) Selected() (*Radio, error) {
	options, err := g.Options()
	if err != nil {
		return nil, err
	}
	for _, r := range options {
		selected, err := r.IsSelected()
		if err != nil {
			return nil, err
		}
		if selected {
			return r, nil
		}
	}
	return nil, nil
}

// Choose the option whose value attribute is value
func (g *RadioGroup) Choose(value string) error {
	options, err := g.Options()
	if err != nil {
		return err
	}
	for _, r := range options {
		v, err := r.Attribute("value")
		if err != nil {
			return err
		}
		if v == value {
			return r.Choose()
		}
	}
	return errors.Wrapf(darcyk.ErrElementNotFound, "no option %q in %s", value, g)
}

// Text is any element read only for its text
type Text struct {
	*Element
}

func NewText(e *Element) *Text { return &Text{Element: e} }

// TrimmedText with surrounding whitespace removed
func (t *Text) TrimmedText() (string, error) {
	s, err := t.Text()
	return strings.TrimSpace(s), err
}

func isChecked(e *Element) (bool, error) {
	v, err := e.Attribute("checked")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(v) {
	case "", "false":
		return false, nil
	}
	return true, nil
}
