package metrics_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gitlab.com/darcyk/darcyk"
	"gitlab.com/darcyk/metrics"
	"gitlab.com/darcyk/mock"
	"gitlab.com/darcyk/synq"
)

func TestWaitCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewWaitCollector(reg)

	clock := mock.NewClock()
	polls := 0
	ready := func(ctx context.Context) (bool, error) {
		polls++
		return polls >= 3, nil
	}
	_, err := synq.ExpectTrue("ready", ready).WithClock(clock).ObservedBy(c).WaitUpTo(time.Second)
	if err != nil {
		t.Fatalf("error waiting: %s", err)
	}

	never := func(ctx context.Context) (bool, error) { return false, nil }
	_, err = synq.ExpectTrue("never", never).WithClock(clock).ObservedBy(c).WaitUpTo(100 * time.Millisecond)
	if !synq.IsTimeout(err) {
		t.Fatalf("expected timeout got %v", err)
	}

	expected := `
		# HELP darcyk_wait_outcomes_total Total number of finished waits by outcome
		# TYPE darcyk_wait_outcomes_total counter
		darcyk_wait_outcomes_total{outcome="success"} 1
		darcyk_wait_outcomes_total{outcome="timeout"} 1
	`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "darcyk_wait_outcomes_total"); err != nil {
		t.Fatalf("unexpected outcome counts: %s", err)
	}
	if n, err := testutil.GatherAndCount(reg, "darcyk_wait_duration_seconds"); err != nil || n != 2 {
		t.Fatalf("expected a duration series per outcome got %d %v", n, err)
	}
}

type recorder struct {
	recorded []*darcyk.Transition
}

func (r *recorder) RecordTransition(ctx context.Context, t *darcyk.Transition) error {
	r.recorded = append(r.recorded, t)
	return nil
}

func TestRecordingCountsTransitions(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewWaitCollector(reg)
	next := &recorder{}
	rec := c.Recording(next)

	ctx := context.Background()
	rec.RecordTransition(ctx, &darcyk.Transition{ID: "1", Action: darcyk.ActOpen, State: darcyk.NavLoaded})
	rec.RecordTransition(ctx, &darcyk.Transition{ID: "2", Action: darcyk.ActOpen, State: darcyk.NavFailed})
	rec.RecordTransition(ctx, &darcyk.Transition{ID: "3", Action: darcyk.ActBack, State: darcyk.NavLoaded})

	if len(next.recorded) != 3 {
		t.Fatalf("expected transitions passed on got %d", len(next.recorded))
	}

	expected := `
		# HELP darcyk_navigation_transitions_total Total number of finished transitions by action and state
		# TYPE darcyk_navigation_transitions_total counter
		darcyk_navigation_transitions_total{action="back",state="loaded"} 1
		darcyk_navigation_transitions_total{action="open",state="failed"} 1
		darcyk_navigation_transitions_total{action="open",state="loaded"} 1
	`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "darcyk_navigation_transitions_total"); err != nil {
		t.Fatalf("unexpected transition counts: %s", err)
	}

	if err := c.Recording(nil).RecordTransition(ctx, &darcyk.Transition{ID: "4"}); err != nil {
		t.Fatalf("expected nil next recorder to be fine got %s", err)
	}
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewWaitCollector(reg)
	c.Observe(context.Background(), &synq.Outcome{Kind: synq.Errored, Elapsed: time.Second, Polls: 1})

	rr := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rr.Body.String(), `darcyk_wait_outcomes_total{outcome="error"} 1`) {
		t.Fatalf("expected error outcome in output got %s", rr.Body.String())
	}
}
