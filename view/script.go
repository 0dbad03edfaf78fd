package view

import (
	"context"

	"github.com/dop251/goja"
	"github.com/pkg/errors"
)

// ScriptView is loaded when a javascript expression over url and title is truthy, for
// example:
//
//	url.indexOf("/orders/") > 0 && title == "Order details"
//
// The expression runs locally, not in the page.
type ScriptView struct {
	entered
	name    string
	source  string
	program *goja.Program
}

// NewScriptView compiles script, syntax errors are returned here rather than on poll
func NewScriptView(name, script string) (*ScriptView, error) {
	program, err := goja.Compile(name, script, true)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to compile load condition for %s", name)
	}
	return &ScriptView{name: name, source: script, program: program}, nil
}

func (v *ScriptView) IsLoaded(ctx context.Context) (bool, error) {
	p, err := v.page()
	if err != nil {
		return false, err
	}
	u, err := p.CurrentURL(ctx)
	if err != nil {
		return false, err
	}
	title, err := p.Title(ctx)
	if err != nil {
		return false, err
	}

	// runtimes are not safe for concurrent use, each poll gets its own
	vm := goja.New()
	if err := vm.Set("url", u); err != nil {
		return false, err
	}
	if err := vm.Set("title", title); err != nil {
		return false, err
	}
	result, err := vm.RunProgram(v.program)
	if err != nil {
		return false, errors.Wrapf(err, "load condition for %s failed", v.name)
	}
	return result.ToBoolean(), nil
}

func (v *ScriptView) String() string {
	if v.name != "" {
		return v.name
	}
	return "page where " + v.source
}
