package synq_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"gitlab.com/darcyk/darcyk"
	"gitlab.com/darcyk/mock"
	"gitlab.com/darcyk/synq"
)

// counter returns a condition that is satisfied from the nth call onward
func counter(n int, calls *int) synq.Condition[int] {
	return func(ctx context.Context) (int, bool, error) {
		*calls++
		return *calls, *calls >= n, nil
	}
}

func TestFirstPollSucceedsWithoutSleeping(t *testing.T) {
	clock := mock.NewClock()
	calls := 0
	v, err := synq.Expect("ready", counter(1, &calls)).WithClock(clock).WaitUpTo(time.Second)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if v != 1 || calls != 1 {
		t.Fatalf("expected value 1 after one call got %d after %d", v, calls)
	}
	if clock.Sleeps() != 0 {
		t.Fatalf("expected no sleeps got %d", clock.Sleeps())
	}
}

func TestPollsUntilSatisfied(t *testing.T) {
	clock := mock.NewClock()
	calls := 0
	v, err := synq.Expect("third time", counter(3, &calls)).
		PollingEvery(10 * time.Millisecond).
		WithClock(clock).
		WaitUpTo(time.Second)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if v != 3 {
		t.Fatalf("expected 3 got %d", v)
	}
	if clock.Sleeps() != 2 || clock.Slept() != 20*time.Millisecond {
		t.Fatalf("expected 2 sleeps of 10ms got %d totalling %s", clock.Sleeps(), clock.Slept())
	}
}

func TestTimeoutOnlyAfterDeadline(t *testing.T) {
	clock := mock.NewClock()
	start := clock.Now()
	calls := 0
	_, err := synq.Expect("the impossible", counter(1<<30, &calls)).WithClock(clock).WaitUpTo(2 * time.Second)

	var timeoutErr *synq.TimeoutErr
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected TimeoutErr got %v", err)
	}
	if elapsed := clock.Now().Sub(start); elapsed < 2*time.Second {
		t.Fatalf("timed out early after %s", elapsed)
	}
	if timeoutErr.Elapsed != 2*time.Second || timeoutErr.Timeout != 2*time.Second {
		t.Fatalf("unexpected durations %s %s", timeoutErr.Elapsed, timeoutErr.Timeout)
	}
	if !strings.Contains(err.Error(), "the impossible") || !strings.Contains(err.Error(), "2s") {
		t.Fatalf("expected description and elapsed time in %q", err)
	}
	// 50ms default interval over 2s, plus the first poll
	if calls != 41 {
		t.Fatalf("expected 41 polls got %d", calls)
	}
}

func TestSleepNeverOvershootsDeadline(t *testing.T) {
	clock := mock.NewClock()
	calls := 0
	_, err := synq.Expect("never", counter(1<<30, &calls)).
		PollingEvery(50 * time.Millisecond).
		WithClock(clock).
		WaitUpTo(120 * time.Millisecond)
	if !synq.IsTimeout(err) {
		t.Fatalf("expected timeout got %v", err)
	}
	if clock.Slept() != 120*time.Millisecond {
		t.Fatalf("expected sleeps to total exactly the timeout got %s", clock.Slept())
	}
	if calls != 4 {
		t.Fatalf("expected polls at 0, 50, 100 and 120ms got %d", calls)
	}
}

func TestZeroTimeoutPollsOnce(t *testing.T) {
	calls := 0
	_, err := synq.Expect("instant", counter(1<<30, &calls)).WithClock(mock.NewClock()).WaitUpTo(0)
	if !synq.IsTimeout(err) {
		t.Fatalf("expected timeout got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single poll got %d", calls)
	}

	calls = 0
	if _, err := synq.Expect("instant", counter(1, &calls)).WithClock(mock.NewClock()).WaitUpTo(0); err != nil {
		t.Fatalf("a satisfied condition must succeed even with no budget: %s", err)
	}
}

func TestFailIfBeforePrimary(t *testing.T) {
	clock := mock.NewClock()
	primaryCalls := 0
	failCalls := 0
	errorDialog := synq.ExpectTrue("error dialog", func(ctx context.Context) (bool, error) {
		failCalls++
		return failCalls >= 2, nil
	})

	_, err := synq.Expect("saved", counter(3, &primaryCalls)).
		FailIf(errorDialog).
		WithClock(clock).
		WaitUpTo(time.Minute)

	var failErr *synq.PrematureFailureErr
	if !errors.As(err, &failErr) {
		t.Fatalf("expected PrematureFailureErr got %v", err)
	}
	if failErr.Description != "error dialog" || failErr.Expected != "saved" {
		t.Fatalf("unexpected descriptions %#v", failErr)
	}
	if primaryCalls != 1 {
		t.Fatalf("primary must not be polled after the fail condition occurred, got %d calls", primaryCalls)
	}
	if synq.IsTimeout(err) {
		t.Fatalf("premature failure must be distinguishable from timeout")
	}
}

func TestFailIfWinsTheSamePoll(t *testing.T) {
	always := func(ctx context.Context) (bool, error) { return true, nil }
	_, err := synq.ExpectTrue("primary", always).
		FailIf(synq.When("competing", always)).
		WithClock(mock.NewClock()).
		WaitUpTo(time.Second)
	if !synq.IsPrematureFailure(err) {
		t.Fatalf("fail-if must be checked before the primary, got %v", err)
	}
}

func TestFailIfTransientIgnored(t *testing.T) {
	calls := 0
	flaky := synq.When("flaky", func(ctx context.Context) (bool, error) {
		return false, synq.Transient(errors.New("detached"))
	})
	v, err := synq.Expect("value", counter(2, &calls)).FailIf(flaky).WithClock(mock.NewClock()).WaitUpTo(time.Second)
	if err != nil || v != 2 {
		t.Fatalf("expected transient fail-if errors to be ignored, got %d %v", v, err)
	}
}

func TestTransientErrorsSwallowed(t *testing.T) {
	clock := mock.NewClock()
	calls := 0
	check := func(ctx context.Context) (string, bool, error) {
		calls++
		switch calls {
		case 1:
			return "", false, darcyk.ErrStaleElement
		case 2:
			return "", false, errors.Wrap(darcyk.ErrStaleElement, "reading text")
		case 3:
			return "", false, synq.Transient(errors.New("node detached"))
		}
		return "done", true, nil
	}
	v, err := synq.Expect("text", check).WithClock(clock).WaitUpTo(time.Second)
	if err != nil || v != "done" {
		t.Fatalf("expected transient errors swallowed got %q %v", v, err)
	}
	if calls != 4 {
		t.Fatalf("expected 4 polls got %d", calls)
	}
}

func TestTimeoutKeepsLastTransientError(t *testing.T) {
	check := func(ctx context.Context) (int, bool, error) {
		return 0, false, darcyk.ErrStaleElement
	}
	_, err := synq.Expect("stale", check).WithClock(mock.NewClock()).WaitUpTo(100 * time.Millisecond)
	var timeoutErr *synq.TimeoutErr
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected timeout got %v", err)
	}
	if timeoutErr.Last != darcyk.ErrStaleElement {
		t.Fatalf("expected last transient error kept got %v", timeoutErr.Last)
	}
}

func TestOtherErrorsPropagateImmediately(t *testing.T) {
	clock := mock.NewClock()
	boom := errors.New("driver crashed")
	calls := 0
	check := func(ctx context.Context) (int, bool, error) {
		calls++
		return 0, false, boom
	}
	_, err := synq.Expect("anything", check).WithClock(clock).WaitUpTo(time.Minute)
	if err != boom {
		t.Fatalf("expected the driver error unmodified got %v", err)
	}
	if calls != 1 || clock.Sleeps() != 0 {
		t.Fatalf("expected no retry, got %d calls %d sleeps", calls, clock.Sleeps())
	}

	_, err = synq.Expect("anything", counter(5, &calls)).
		FailIf(synq.When("broken", func(ctx context.Context) (bool, error) { return false, boom })).
		WithClock(clock).
		WaitUpTo(time.Minute)
	if err != boom {
		t.Fatalf("expected fail-if error unmodified got %v", err)
	}
}

func TestBuildingDoesNotPoll(t *testing.T) {
	calls := 0
	actions := 0
	base := synq.Expect("lazy", counter(1, &calls))
	derived := base.After(func(ctx context.Context) error {
		actions++
		return nil
	}).FailIf(synq.When("never", func(ctx context.Context) (bool, error) { return false, nil })).
		DescribedAs("derived").
		PollingEvery(time.Millisecond)
	_ = synq.AndThenExpect(derived, base)

	if calls != 0 || actions != 0 {
		t.Fatalf("building must have no side effects, got %d polls %d actions", calls, actions)
	}
	if base.Description() != "lazy" || derived.Description() != "derived" {
		t.Fatalf("modifiers must not change the receiver: %s %s", base.Description(), derived.Description())
	}
}

func TestModifiersDoNotShareFailConditions(t *testing.T) {
	always := synq.When("always", func(ctx context.Context) (bool, error) { return true, nil })
	never := synq.When("never", func(ctx context.Context) (bool, error) { return false, nil })
	calls := 0
	base := synq.Expect("value", counter(1, &calls)).FailIf(never)
	failing := base.FailIf(always)
	ok := base.FailIf(never)

	if _, err := ok.WithClock(mock.NewClock()).WaitUpTo(time.Second); err != nil {
		t.Fatalf("sibling event picked up a fail condition: %s", err)
	}
	if _, err := failing.WithClock(mock.NewClock()).WaitUpTo(time.Second); !synq.IsPrematureFailure(err) {
		t.Fatalf("expected premature failure got %v", err)
	}
}

func TestAfterRunsActionOnceBeforePolling(t *testing.T) {
	clicked := false
	calls := 0
	page := 1
	next := synq.ExpectCallTo("page 2", func(ctx context.Context) (int, error) {
		calls++
		return page, nil
	}, func(p int) bool { return p == 2 }).After(func(ctx context.Context) error {
		if calls != 0 {
			t.Fatalf("action must run before the first poll")
		}
		if clicked {
			t.Fatalf("action must run once")
		}
		clicked = true
		page = 2
		return nil
	})

	v, err := next.WithClock(mock.NewClock()).WaitUpTo(time.Second)
	if err != nil || v != 2 {
		t.Fatalf("expected page 2 got %d %v", v, err)
	}

	boom := errors.New("click failed")
	polled := false
	_, err = synq.ExpectTrue("never polled", func(ctx context.Context) (bool, error) {
		polled = true
		return true, nil
	}).After(func(ctx context.Context) error { return boom }).WithClock(mock.NewClock()).WaitUpTo(time.Second)
	if err != boom || polled {
		t.Fatalf("expected action error unmodified got %v", err)
	}
}

func TestAndThenExpectSharesBudget(t *testing.T) {
	clock := mock.NewClock()
	start := clock.Now()
	firstCalls := 0
	first := synq.Expect("first", func(ctx context.Context) (int, bool, error) {
		firstCalls++
		return 0, clock.Now().Sub(start) >= 1500*time.Millisecond, nil
	})
	second := synq.ExpectTrue("second", func(ctx context.Context) (bool, error) { return false, nil })

	_, err := synq.AndThenExpect(first, second).WithClock(clock).WaitUpTo(2 * time.Second)
	var timeoutErr *synq.TimeoutErr
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected timeout got %v", err)
	}
	if timeoutErr.Description != "second" {
		t.Fatalf("expected the second event to time out got %s", timeoutErr.Description)
	}
	total := clock.Now().Sub(start)
	if total > 2*time.Second+darcyk.DefaultPollInterval {
		t.Fatalf("chain exceeded its single budget: %s", total)
	}
	if total < 2*time.Second {
		t.Fatalf("chain gave up early: %s", total)
	}
}

func TestAndThenExpectFirstTimesOut(t *testing.T) {
	secondCalls := 0
	first := synq.ExpectTrue("first", func(ctx context.Context) (bool, error) { return false, nil })
	second := synq.Expect("second", counter(1, &secondCalls))
	_, err := synq.AndThenExpect(first, second).WithClock(mock.NewClock()).WaitUpTo(time.Second)
	var timeoutErr *synq.TimeoutErr
	if !errors.As(err, &timeoutErr) || timeoutErr.Description != "first" {
		t.Fatalf("expected first to time out got %v", err)
	}
	if secondCalls != 0 {
		t.Fatalf("second must not be polled when first fails")
	}
}

func TestAndThenExpectOrder(t *testing.T) {
	order := make([]string, 0)
	step := func(name string) synq.Event[bool] {
		return synq.ExpectTrue(name, func(ctx context.Context) (bool, error) {
			order = append(order, name)
			return true, nil
		}).After(func(ctx context.Context) error {
			order = append(order, "do "+name)
			return nil
		})
	}
	chain := synq.AndThenExpect(synq.AndThenExpect(step("a"), step("b")), step("c"))
	if _, err := chain.WithClock(mock.NewClock()).WaitUpTo(time.Second); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	expected := "do a,a,do b,b,do c,c"
	if got := strings.Join(order, ","); got != expected {
		t.Fatalf("expected %s got %s", expected, got)
	}
}

func TestAndThenExpectNotifiesFirstObservers(t *testing.T) {
	firstOutcomes := make([]*synq.Outcome, 0)
	chainOutcomes := make([]*synq.Outcome, 0)
	onFirst := synq.ObserverFunc(func(ctx context.Context, o *synq.Outcome) { firstOutcomes = append(firstOutcomes, o) })
	onChain := synq.ObserverFunc(func(ctx context.Context, o *synq.Outcome) { chainOutcomes = append(chainOutcomes, o) })

	firstCalls, secondCalls := 0, 0
	first := synq.Expect("first", counter(3, &firstCalls)).ObservedBy(onFirst)
	second := synq.Expect("second", counter(2, &secondCalls))
	if _, err := synq.AndThenExpect(first, second).ObservedBy(onChain).WithClock(mock.NewClock()).WaitUpTo(time.Second); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if len(firstOutcomes) != 1 || len(chainOutcomes) != 1 {
		t.Fatalf("expected one outcome each got %d %d", len(firstOutcomes), len(chainOutcomes))
	}
	o := firstOutcomes[0]
	if o.Kind != synq.Succeeded || o.Description != "first" || o.Polls != 3 || o.Elapsed != 2*darcyk.DefaultPollInterval {
		t.Fatalf("unexpected first outcome %#v", o)
	}
	if chainOutcomes[0].Polls != 5 {
		t.Fatalf("expected the chain to count every poll got %d", chainOutcomes[0].Polls)
	}

	firstOutcomes = firstOutcomes[:0]
	never := synq.ExpectTrue("never", func(ctx context.Context) (bool, error) { return false, nil }).ObservedBy(onFirst)
	_, err := synq.AndThenExpect(never, second).WithClock(mock.NewClock()).WaitUpTo(100 * time.Millisecond)
	if !synq.IsTimeout(err) {
		t.Fatalf("expected timeout got %v", err)
	}
	if len(firstOutcomes) != 1 || firstOutcomes[0].Kind != synq.TimedOut {
		t.Fatalf("expected the first event's timeout observed got %#v", firstOutcomes)
	}
}

func TestExpectAfterKeepsStatePerWait(t *testing.T) {
	clock := mock.NewClock()
	acts := 0
	var ev synq.Event[int]
	ev = synq.ExpectAfter("own target", func(ctx context.Context) (synq.Condition[int], error) {
		acts++
		want := acts
		if acts == 1 {
			v, err := ev.WaitUpTo(time.Second)
			if err != nil || v != 2 {
				t.Fatalf("expected the overlapping wait to see its own target got %d %v", v, err)
			}
		}
		return func(ctx context.Context) (int, bool, error) { return want, true, nil }, nil
	}).WithClock(clock)

	v, err := ev.WaitUpTo(time.Second)
	if err != nil || v != 1 {
		t.Fatalf("expected the first wait to keep target 1 got %d %v", v, err)
	}
	if acts != 2 {
		t.Fatalf("expected one action per wait got %d", acts)
	}
	if ok, err := ev.Occurred(context.Background()); ok || err != nil {
		t.Fatalf("expected no condition outside a wait got %v %v", ok, err)
	}

	failing := synq.ExpectAfter("broken", func(ctx context.Context) (synq.Condition[int], error) {
		return nil, errors.New("no target")
	}).WithClock(clock)
	if _, err := failing.WaitUpTo(time.Second); err == nil || synq.IsTimeout(err) {
		t.Fatalf("expected the action error got %v", err)
	}
}

func TestExpectView(t *testing.T) {
	clock := mock.NewClock()
	view := mock.LoadedAfter("checkout page", 3)
	got, err := synq.ExpectView(view).WithClock(clock).WaitUpTo(time.Second)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if got != view || view.IsLoadedCalls != 3 {
		t.Fatalf("expected the view back after 3 polls got %d", view.IsLoadedCalls)
	}

	_, err = synq.ExpectView(mock.NeverLoaded("receipt page")).WithClock(clock).WaitUpTo(time.Second)
	if err == nil || !strings.Contains(err.Error(), "receipt page") {
		t.Fatalf("expected view description in %v", err)
	}
}

func TestContextCancelStopsWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := mock.NewClock()
	clock.OnSleep = func(now time.Time) { cancel() }
	calls := 0
	_, err := synq.Expect("forever", counter(1<<30, &calls)).WithClock(clock).Wait(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected to stop on the sleep after cancel, got %d polls", calls)
	}
}

func TestObserversNotified(t *testing.T) {
	outcomes := make([]*synq.Outcome, 0)
	record := synq.ObserverFunc(func(ctx context.Context, o *synq.Outcome) { outcomes = append(outcomes, o) })

	calls := 0
	ev := synq.Expect("observed", counter(2, &calls)).ObservedBy(record).WithClock(mock.NewClock())
	if _, err := ev.WaitUpTo(time.Second); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	calls = -1 << 30
	if _, err := ev.WaitUpTo(100 * time.Millisecond); !synq.IsTimeout(err) {
		t.Fatalf("expected timeout got %v", err)
	}

	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes got %d", len(outcomes))
	}
	if outcomes[0].Kind != synq.Succeeded || outcomes[0].Polls != 2 || outcomes[0].Description != "observed" {
		t.Fatalf("unexpected success outcome %#v", outcomes[0])
	}
	if outcomes[1].Kind != synq.TimedOut || outcomes[1].Elapsed != 100*time.Millisecond {
		t.Fatalf("unexpected timeout outcome %#v", outcomes[1])
	}
}

func TestDeterministicOutcome(t *testing.T) {
	for i := 0; i < 5; i++ {
		calls := 0
		v, err := synq.Expect("repeat", counter(4, &calls)).WithClock(mock.NewClock()).WaitUpTo(time.Second)
		if err != nil || v != 4 {
			t.Fatalf("run %d: expected 4 got %d %v", i, v, err)
		}
	}
}

func TestNoPrimary(t *testing.T) {
	var ev synq.Event[int]
	if _, err := ev.WithClock(mock.NewClock()).WaitUpTo(time.Second); err == nil {
		t.Fatalf("expected error for an event with nothing to expect")
	}
}
