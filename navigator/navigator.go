// Package navigator drives a browser between views. Every navigation is an Event: the
// driver action runs when the event is awaited, then the destination view is polled
// until it reports loaded.
package navigator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	uuid "github.com/satori/go.uuid"
	"gitlab.com/darcyk/darcyk"
	"gitlab.com/darcyk/selection"
	"gitlab.com/darcyk/synq"
)

// Option configures a Browser
type Option func(b *Browser)

// WithTimeout sets the ceiling used by the *AndWait methods
func WithTimeout(d time.Duration) Option {
	return func(b *Browser) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithPollInterval sets how often destination views are polled
func WithPollInterval(d time.Duration) Option {
	return func(b *Browser) {
		b.poll = d
	}
}

// WithClock substitutes the clock, for tests
func WithClock(c synq.Clock) Option {
	return func(b *Browser) {
		b.clock = c
	}
}

// WithRecorder stores every finished transition
func WithRecorder(r darcyk.Recorder) Option {
	return func(b *Browser) {
		b.recorder = r
	}
}

// WithObservers are added to every navigation event
func WithObservers(o ...synq.Observer) Option {
	return func(b *Browser) {
		b.observers = append(b.observers, o...)
	}
}

// Browser wraps a driver with navigation state. It is also a darcyk.Context that
// delegates to the driver, so views entered through it can find their elements.
type Browser struct {
	driver    darcyk.Driver
	timeout   time.Duration
	poll      time.Duration
	clock     synq.Clock
	recorder  darcyk.Recorder
	observers []synq.Observer

	state   int32
	mu      sync.Mutex
	pending *darcyk.Transition
	last    *darcyk.Transition
}

// New navigator over driver, idle until the first navigation
func New(driver darcyk.Driver, opts ...Option) *Browser {
	b := &Browser{
		driver:  driver,
		timeout: darcyk.DefaultNavigationTimeout,
		poll:    darcyk.DefaultPollInterval,
		clock:   synq.SystemClock(),
		state:   int32(darcyk.NavIdle),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewFromConfig applies the configured timeout and poll interval before opts
func NewFromConfig(driver darcyk.Driver, cfg *darcyk.Config, opts ...Option) (*Browser, error) {
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}
	poll, err := cfg.Poll()
	if err != nil {
		return nil, err
	}
	return New(driver, append([]Option{WithTimeout(timeout), WithPollInterval(poll)}, opts...)...), nil
}

// Driver being navigated
func (b *Browser) Driver() darcyk.Driver {
	return b.driver
}

// Timeout used by the *AndWait methods
func (b *Browser) Timeout() time.Duration {
	return b.timeout
}

// State of the most recent navigation
func (b *Browser) State() darcyk.NavState {
	return darcyk.NavState(atomic.LoadInt32(&b.state))
}

func (b *Browser) setState(s darcyk.NavState) {
	atomic.StoreInt32(&b.state, int32(s))
}

// LastTransition returns a copy of the most recently finished transition, or nil
func (b *Browser) LastTransition() *darcyk.Transition {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.last == nil {
		return nil
	}
	t := *b.last
	return &t
}

// Open navigates to url and expects dest to load
func Open[V darcyk.View](b *Browser, url string, dest V) synq.Event[V] {
	return transition(b, darcyk.ActOpen, url, dest, func(ctx context.Context) error {
		return b.driver.Navigate(ctx, url)
	})
}

// Back in history and expect dest to load
func Back[V darcyk.View](b *Browser, dest V) synq.Event[V] {
	return transition(b, darcyk.ActBack, "", dest, b.driver.Back)
}

// Forward in history and expect dest to load
func Forward[V darcyk.View](b *Browser, dest V) synq.Event[V] {
	return transition(b, darcyk.ActForward, "", dest, b.driver.Forward)
}

// Refresh the page and expect dest to load
func Refresh[V darcyk.View](b *Browser, dest V) synq.Event[V] {
	return transition(b, darcyk.ActRefresh, "", dest, b.driver.Refresh)
}

func (b *Browser) Open(url string, dest darcyk.View) synq.Event[darcyk.View] {
	return Open[darcyk.View](b, url, dest)
}

func (b *Browser) Back(dest darcyk.View) synq.Event[darcyk.View] {
	return Back[darcyk.View](b, dest)
}

func (b *Browser) Forward(dest darcyk.View) synq.Event[darcyk.View] {
	return Forward[darcyk.View](b, dest)
}

func (b *Browser) Refresh(dest darcyk.View) synq.Event[darcyk.View] {
	return Refresh[darcyk.View](b, dest)
}

// OpenAndWait opens url and waits up to the browser's timeout for dest
func (b *Browser) OpenAndWait(ctx context.Context, url string, dest darcyk.View) (darcyk.View, error) {
	return b.Open(url, dest).Wait(ctx, b.timeout)
}

func (b *Browser) BackAndWait(ctx context.Context, dest darcyk.View) (darcyk.View, error) {
	return b.Back(dest).Wait(ctx, b.timeout)
}

func (b *Browser) ForwardAndWait(ctx context.Context, dest darcyk.View) (darcyk.View, error) {
	return b.Forward(dest).Wait(ctx, b.timeout)
}

func (b *Browser) RefreshAndWait(ctx context.Context, dest darcyk.View) (darcyk.View, error) {
	return b.Refresh(dest).Wait(ctx, b.timeout)
}

// transition is a single state machine step. No retry: a failed navigation leaves the
// browser in NavFailed until the next one starts.
func transition[V darcyk.View](b *Browser, act darcyk.TransitionAction, url string, dest V, do func(ctx context.Context) error) synq.Event[V] {
	begin := func(ctx context.Context) error {
		from, _ := b.driver.CurrentURL(ctx)
		t := &darcyk.Transition{
			ID:          uuid.NewV4().String(),
			Action:      act,
			URL:         url,
			FromURL:     from,
			Destination: synq.DescribeView(dest),
			State:       darcyk.NavNavigating,
			Started:     b.clock.Now(),
		}
		b.mu.Lock()
		b.pending = t
		b.mu.Unlock()
		b.setState(darcyk.NavNavigating)

		if setter, ok := any(dest).(darcyk.ContextSetter); ok {
			setter.SetContext(b)
		}
		log.Ctx(ctx).Info().Str("id", t.ID).Str("action", act.String()).Str("url", url).
			Str("destination", t.Destination).Msg("navigating")
		return do(ctx)
	}

	finish := synq.ObserverFunc(func(ctx context.Context, o *synq.Outcome) {
		b.finish(ctx, o)
	})

	ev := synq.ExpectView(dest).
		After(begin).
		PollingEvery(b.poll).
		WithClock(b.clock).
		ObservedBy(finish)
	return ev.ObservedBy(b.observers...)
}

func (b *Browser) finish(ctx context.Context, o *synq.Outcome) {
	b.mu.Lock()
	t := b.pending
	b.pending = nil
	b.mu.Unlock()
	if t == nil {
		return
	}

	t.Elapsed = o.Elapsed
	if o.Err == nil {
		t.State = darcyk.NavLoaded
		t.ToURL, _ = b.driver.CurrentURL(ctx)
	} else {
		t.State = darcyk.NavFailed
		t.Error = o.Err.Error()
	}
	b.setState(t.State)

	b.mu.Lock()
	b.last = t
	b.mu.Unlock()

	log.Ctx(ctx).Info().Str("id", t.ID).Str("action", t.Action.String()).Str("state", t.State.String()).
		Str("to", t.ToURL).Dur("elapsed", t.Elapsed).Msg("navigation finished")

	if b.recorder == nil {
		return
	}
	if err := b.recorder.RecordTransition(ctx, t); err != nil {
		log.Warn().Err(err).Str("id", t.ID).Msg("failed to record transition")
	}
}

// CurrentURL of the driver
func (b *Browser) CurrentURL(ctx context.Context) (string, error) {
	return b.driver.CurrentURL(ctx)
}

// Title of the current page
func (b *Browser) Title(ctx context.Context) (string, error) {
	return b.driver.Title(ctx)
}

// Source of the current page
func (b *Browser) Source(ctx context.Context) (string, error) {
	return b.driver.Source(ctx)
}

// Find starts a selection over this browser
func (b *Browser) Find() *selection.Selection {
	return selection.Find(b)
}
