package synq

import (
	"context"
	"time"
)

// OutcomeKind of a finished wait
type OutcomeKind int8

const (
	Succeeded OutcomeKind = iota + 1
	TimedOut
	FailedPrematurely
	Errored
)

// OutcomeKindMap to display the kind
var OutcomeKindMap = map[OutcomeKind]string{
	Succeeded:         "success",
	TimedOut:          "timeout",
	FailedPrematurely: "premature_failure",
	Errored:           "error",
}

func (k OutcomeKind) String() string {
	if s, ok := OutcomeKindMap[k]; ok {
		return s
	}
	return "unknown"
}

// Outcome of a single await call
type Outcome struct {
	Description string
	Kind        OutcomeKind
	Elapsed     time.Duration
	Polls       int
	Err         error
}

// Observer is notified once per await, after the outcome is known
type Observer interface {
	Observe(ctx context.Context, o *Outcome)
}

// ObserverFunc adapts a function to an Observer
type ObserverFunc func(ctx context.Context, o *Outcome)

func (f ObserverFunc) Observe(ctx context.Context, o *Outcome) {
	f(ctx, o)
}

func kindOf(err error) OutcomeKind {
	switch {
	case err == nil:
		return Succeeded
	case IsTimeout(err):
		return TimedOut
	case IsPrematureFailure(err):
		return FailedPrematurely
	}
	return Errored
}
