package selection

import (
	"context"

	"gitlab.com/darcyk/darcyk"
)

// Conditions adapt elements to synq.ExpectTrue and synq.When

// Present reports whether f is present
func Present(f darcyk.Findable) func(ctx context.Context) (bool, error) {
	return func(ctx context.Context) (bool, error) {
		return f.IsPresent()
	}
}

// Displayed reports whether e is displayed
func Displayed(e *Element) func(ctx context.Context) (bool, error) {
	return func(ctx context.Context) (bool, error) {
		return e.IsDisplayed()
	}
}

// HasClass reports whether e carries className
func HasClass(e *Element, className string) func(ctx context.Context) (bool, error) {
	return func(ctx context.Context) (bool, error) {
		return e.HasClass(className)
	}
}

// AlertPresent reports whether a dialog is open
func AlertPresent(a darcyk.Alert) func(ctx context.Context) (bool, error) {
	return func(ctx context.Context) (bool, error) {
		return a.IsPresent()
	}
}
