// Package synq waits for asynchronous browser state. An Event is an immutable description
// of what to wait for; nothing is polled until Wait or WaitUpTo is called.
package synq

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gitlab.com/darcyk/darcyk"
)

// Condition is a single repeatable check of external state, ok reports whether value
// is present. Checking must not change the state it observes.
type Condition[T any] func(ctx context.Context) (value T, ok bool, err error)

// Signal aborts a wait with a *PrematureFailureErr when it occurs. Every Event is a Signal
// that occurs when its primary condition is met.
type Signal interface {
	Description() string
	Occurred(ctx context.Context) (bool, error)
}

// waiter is the budget shared by every stage of a chain
type waiter struct {
	clock    Clock
	start    time.Time
	deadline time.Time
	polls    int
}

type stage func(ctx context.Context, w *waiter) error

// Event waits for a primary condition to produce a T. Modifiers return a copy, the
// receiver is never changed, so an Event may be reused and awaited any number of times.
type Event[T any] struct {
	stages    []stage
	action    func(ctx context.Context) error
	prepare   func(ctx context.Context) (Condition[T], error)
	primary   Condition[T]
	fails     []Signal
	desc      string
	interval  time.Duration
	clock     Clock
	observers []Observer
}

// Expect cond to report a present value
func Expect[T any](desc string, cond Condition[T]) Event[T] {
	return Event[T]{primary: cond, desc: desc}
}

// ExpectTrue expects fn to return true
func ExpectTrue(desc string, fn func(ctx context.Context) (bool, error)) Event[bool] {
	return Expect[bool](desc, func(ctx context.Context) (bool, bool, error) {
		ok, err := fn(ctx)
		return ok, ok, err
	})
}

// ExpectCallTo expects the result of fn to satisfy match
func ExpectCallTo[T any](desc string, fn func(ctx context.Context) (T, error), match func(T) bool) Event[T] {
	return Expect[T](desc, func(ctx context.Context) (T, bool, error) {
		v, err := fn(ctx)
		if err != nil {
			return v, false, err
		}
		return v, match(v), nil
	})
}

// ExpectAfter runs act once when the wait starts and then polls the condition it
// returns. Whatever act hands its condition belongs to that one wait.
func ExpectAfter[T any](desc string, act func(ctx context.Context) (Condition[T], error)) Event[T] {
	return Event[T]{prepare: act, desc: desc}
}

// ExpectView expects view to report loaded and produces the view itself
func ExpectView[V darcyk.View](view V) Event[V] {
	return Expect[V](DescribeView(view)+" to load", func(ctx context.Context) (V, bool, error) {
		loaded, err := view.IsLoaded(ctx)
		return view, loaded, err
	})
}

// DescribeView uses the view's String method when it has one
func DescribeView(view darcyk.View) string {
	if s, ok := view.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", view)
}

// AndThenExpect waits for first and then for next, both within the single budget
// given to the final Wait. The chain runs on the awaited event's clock; first's
// observers are notified when first finishes.
func AndThenExpect[T, U any](first Event[T], next Event[U]) Event[U] {
	stages := make([]stage, 0, len(next.stages)+1)
	stages = append(stages, first.asStage())
	next.stages = append(stages, next.stages...)
	return next
}

// After runs action once when the wait starts, before polling. Actions given to
// successive calls run in order.
func (e Event[T]) After(action func(ctx context.Context) error) Event[T] {
	if prev := e.action; prev != nil {
		e.action = func(ctx context.Context) error {
			if err := prev(ctx); err != nil {
				return err
			}
			return action(ctx)
		}
		return e
	}
	e.action = action
	return e
}

// FailIf aborts the wait as soon as s occurs. Signals are checked before the primary
// condition on every poll.
func (e Event[T]) FailIf(s Signal) Event[T] {
	fails := make([]Signal, len(e.fails), len(e.fails)+1)
	copy(fails, e.fails)
	e.fails = append(fails, s)
	return e
}

// DescribedAs replaces the description used in errors and logs
func (e Event[T]) DescribedAs(text string) Event[T] {
	e.desc = text
	return e
}

// PollingEvery sets the interval between polls, non positive values restore the default
func (e Event[T]) PollingEvery(d time.Duration) Event[T] {
	e.interval = d
	return e
}

// WithClock substitutes the clock
func (e Event[T]) WithClock(c Clock) Event[T] {
	e.clock = c
	return e
}

// ObservedBy adds observers notified when an await finishes
func (e Event[T]) ObservedBy(o ...Observer) Event[T] {
	observers := make([]Observer, 0, len(e.observers)+len(o))
	observers = append(observers, e.observers...)
	e.observers = append(observers, o...)
	return e
}

// Description of what is being waited for
func (e Event[T]) Description() string {
	if e.desc == "" {
		return "unnamed event"
	}
	return e.desc
}

// Occurred evaluates the primary condition once, transient errors count as not occurred.
// An event built with ExpectAfter has no condition outside a wait and never occurs.
func (e Event[T]) Occurred(ctx context.Context) (bool, error) {
	if e.primary == nil {
		return false, nil
	}
	_, ok, err := e.primary(ctx)
	if err != nil {
		if IsTransient(err) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// WaitUpTo blocks until the event succeeds, fails or d elapses
func (e Event[T]) WaitUpTo(d time.Duration) (T, error) {
	return e.Wait(context.Background(), d)
}

// Wait is WaitUpTo that also stops when ctx is done. The primary condition is always
// polled at least once, even when d is zero.
func (e Event[T]) Wait(ctx context.Context, d time.Duration) (T, error) {
	w := &waiter{clock: e.clockOrSystem()}
	w.start = w.clock.Now()
	w.deadline = w.start.Add(d)

	v, err := e.run(ctx, w)
	e.notify(ctx, w, w.start, 0, err)
	return v, err
}

func (e Event[T]) run(ctx context.Context, w *waiter) (T, error) {
	var zero T
	for _, s := range e.stages {
		if err := s(ctx, w); err != nil {
			return zero, err
		}
	}

	if e.action != nil {
		if err := e.action(ctx); err != nil {
			return zero, err
		}
	}

	primary := e.primary
	if e.prepare != nil {
		p, err := e.prepare(ctx)
		if err != nil {
			return zero, err
		}
		primary = p
	}
	if primary == nil {
		return zero, errors.Errorf("nothing to expect for %s", e.Description())
	}

	interval := e.pollInterval()
	var last error
	for {
		w.polls++
		for _, s := range e.fails {
			occurred, err := s.Occurred(ctx)
			if err != nil && !IsTransient(err) {
				return zero, err
			}
			if err == nil && occurred {
				return zero, &PrematureFailureErr{Description: s.Description(), Expected: e.Description()}
			}
		}

		v, ok, err := primary(ctx)
		if err != nil {
			if !IsTransient(err) {
				return zero, err
			}
			last = err
		} else if ok {
			return v, nil
		}

		now := w.clock.Now()
		remaining := w.deadline.Sub(now)
		if remaining <= 0 {
			return zero, &TimeoutErr{
				Description: e.Description(),
				Elapsed:     now.Sub(w.start),
				Timeout:     w.deadline.Sub(w.start),
				Last:        last,
			}
		}
		if remaining > interval {
			remaining = interval
		}
		if err := w.clock.Sleep(ctx, remaining); err != nil {
			return zero, errors.Wrapf(err, "stopped waiting for %s", e.Description())
		}
	}
}

// asStage runs e on the chain's budget and clock. Its own observers still see how it
// finished, measured from when the stage started.
func (e Event[T]) asStage() stage {
	return func(ctx context.Context, w *waiter) error {
		start, polls := w.clock.Now(), w.polls
		_, err := e.run(ctx, w)
		e.notify(ctx, w, start, polls, err)
		return err
	}
}

func (e Event[T]) notify(ctx context.Context, w *waiter, start time.Time, polls int, err error) {
	o := &Outcome{
		Description: e.Description(),
		Kind:        kindOf(err),
		Elapsed:     w.clock.Now().Sub(start),
		Polls:       w.polls - polls,
		Err:         err,
	}
	log.Ctx(ctx).Debug().Str("event", o.Description).Str("outcome", o.Kind.String()).
		Dur("elapsed", o.Elapsed).Int("polls", o.Polls).Err(err).Msg("wait finished")
	for _, obs := range e.observers {
		obs.Observe(ctx, o)
	}
}

func (e Event[T]) pollInterval() time.Duration {
	if e.interval <= 0 {
		return darcyk.DefaultPollInterval
	}
	return e.interval
}

func (e Event[T]) clockOrSystem() Clock {
	if e.clock == nil {
		return SystemClock()
	}
	return e.clock
}

// whenSignal is a Signal over a plain function
type whenSignal struct {
	desc string
	fn   func(ctx context.Context) (bool, error)
}

// When builds a Signal from fn, for FailIf conditions that are not Events
func When(desc string, fn func(ctx context.Context) (bool, error)) Signal {
	return &whenSignal{desc: desc, fn: fn}
}

func (c *whenSignal) Description() string {
	return c.desc
}

func (c *whenSignal) Occurred(ctx context.Context) (bool, error) {
	return c.fn(ctx)
}
