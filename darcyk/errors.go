package darcyk

import "github.com/pkg/errors"

// revive:exported
var (
	ErrElementNotFound = errors.New("element not found")
	ErrStaleElement    = errors.New("element is no longer attached to the document")
	ErrNotContext      = errors.New("located value is not a searchable context")
	ErrNotInteractive  = errors.New("element does not support interaction")
	ErrNoAlert         = errors.New("no alert is open")
)

// CapabilityNotSupportedErr when a Locator's required capability is absent on a Context.
// This is a configuration defect and is never retried.
type CapabilityNotSupportedErr struct {
	Capability Capability
	Locator    string
}

func (e *CapabilityNotSupportedErr) Error() string {
	return "context does not support " + e.Capability.String() + " required by " + e.Locator
}

// IsCapabilityNotSupported returns true if err is, or wraps, a *CapabilityNotSupportedErr
func IsCapabilityNotSupported(err error) bool {
	var capErr *CapabilityNotSupportedErr
	return errors.As(err, &capErr)
}

// IndexErr when a row, column or page is out of range
type IndexErr struct {
	Message string
}

func (e *IndexErr) Error() string {
	return "index out of range: " + e.Message
}
