package mock

import (
	"context"

	"gitlab.com/darcyk/darcyk"
)

// View with a controllable load condition
type View struct {
	Name string

	IsLoadedFn    func(ctx context.Context) (bool, error)
	IsLoadedCalls int

	Ctx              darcyk.Context
	SetContextCalled bool
}

func (v *View) IsLoaded(ctx context.Context) (bool, error) {
	v.IsLoadedCalls++
	return v.IsLoadedFn(ctx)
}

func (v *View) SetContext(ctx darcyk.Context) {
	v.SetContextCalled = true
	v.Ctx = ctx
}

func (v *View) String() string {
	return v.Name
}

// LoadedAfter reports loaded from the nth IsLoaded call onward
func LoadedAfter(name string, n int) *View {
	v := &View{Name: name}
	v.IsLoadedFn = func(ctx context.Context) (bool, error) {
		return v.IsLoadedCalls >= n, nil
	}
	return v
}

// NeverLoaded never reports loaded
func NeverLoaded(name string) *View {
	v := &View{Name: name}
	v.IsLoadedFn = func(ctx context.Context) (bool, error) {
		return false, nil
	}
	return v
}
