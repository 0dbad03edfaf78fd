package store

import (
	"context"
	"os"
	"sort"
	"time"

	"github.com/cayleygraph/cayley"
	"github.com/cayleygraph/quad"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gitlab.com/darcyk/darcyk"
)

const (
	predType        = quad.IRI("type")
	predAction      = quad.IRI("action")
	predURL         = quad.IRI("url")
	predFromURL     = quad.IRI("from_url")
	predToURL       = quad.IRI("to_url")
	predDestination = quad.IRI("destination")
	predState       = quad.IRI("state")
	predStarted     = quad.IRI("started")
	predElapsed     = quad.IRI("elapsed")
	predError       = quad.IRI("error")
	predLeftBy      = quad.IRI("left_by")
	predArrivedAt   = quad.IRI("arrived_at")

	transitionType = quad.IRI("transition")
)

// TransitionGraph records transitions as quads. Pages are nodes, a transition leaves
// one page and arrives at another.
type TransitionGraph struct {
	Store    *cayley.Handle
	dbType   string
	filepath string
}

// NewTransitionGraph of dbType ("bolt", "memstore") stored under filepath
func NewTransitionGraph(dbType, filepath string) *TransitionGraph {
	return &TransitionGraph{dbType: dbType, filepath: filepath}
}

// Init the graph
func (g *TransitionGraph) Init() error {
	var err error
	if g.dbType != "memstore" {
		if err = os.MkdirAll(g.filepath, 0700); err != nil {
			return err
		}
	}
	g.Store, err = InitGraph(g.dbType, g.filepath)
	return errors.Wrapf(err, "failed to open %s graph", g.dbType)
}

func transitionIRI(id string) quad.IRI {
	return quad.IRI("transition:" + id)
}

// RecordTransition implements darcyk.Recorder
func (g *TransitionGraph) RecordTransition(ctx context.Context, t *darcyk.Transition) error {
	if t.ID == "" {
		return errors.New("transition has no id")
	}
	subject := transitionIRI(t.ID)
	quads := []quad.Quad{
		quad.Make(subject, predType, transitionType, nil),
		quad.Make(subject, predAction, quad.String(t.Action.String()), nil),
		quad.Make(subject, predState, quad.String(t.State.String()), nil),
		quad.Make(subject, predStarted, quad.Time(t.Started), nil),
		quad.Make(subject, predElapsed, quad.Int(t.Elapsed), nil),
	}
	if t.Destination != "" {
		quads = append(quads, quad.Make(subject, predDestination, quad.String(t.Destination), nil))
	}
	if t.URL != "" {
		quads = append(quads, quad.Make(subject, predURL, quad.String(t.URL), nil))
	}
	if t.Error != "" {
		quads = append(quads, quad.Make(subject, predError, quad.String(t.Error), nil))
	}
	if t.FromURL != "" {
		quads = append(quads,
			quad.Make(subject, predFromURL, quad.String(t.FromURL), nil),
			quad.Make(quad.IRI(t.FromURL), predLeftBy, subject, nil),
		)
	}
	if t.ToURL != "" {
		quads = append(quads,
			quad.Make(subject, predToURL, quad.String(t.ToURL), nil),
			quad.Make(subject, predArrivedAt, quad.IRI(t.ToURL), nil),
		)
	}

	if err := g.Store.AddQuadSet(quads); err != nil {
		return errors.Wrapf(err, "failed to record transition %s", t.ID)
	}
	log.Ctx(ctx).Debug().Str("id", t.ID).Str("action", t.Action.String()).Msg("recorded transition")
	return nil
}

// Transitions ordered by the time they started
func (g *TransitionGraph) Transitions(ctx context.Context) ([]*darcyk.Transition, error) {
	ids := make([]quad.Value, 0)
	err := cayley.StartPath(g.Store).Has(predType, transitionType).Iterate(ctx).EachValue(nil, func(v quad.Value) {
		ids = append(ids, v)
	})
	if err != nil {
		return nil, err
	}

	transitions := make([]*darcyk.Transition, 0, len(ids))
	for _, id := range ids {
		t, err := g.load(ctx, id)
		if err != nil {
			return nil, err
		}
		transitions = append(transitions, t)
	}
	sort.SliceStable(transitions, func(i, j int) bool {
		return transitions[i].Started.Before(transitions[j].Started)
	})
	return transitions, nil
}

// Transition by id, nil if it was never recorded
func (g *TransitionGraph) Transition(ctx context.Context, id string) (*darcyk.Transition, error) {
	subject := transitionIRI(id)
	found := false
	err := cayley.StartPath(g.Store, subject).Has(predType, transitionType).Iterate(ctx).EachValue(nil, func(quad.Value) {
		found = true
	})
	if err != nil || !found {
		return nil, err
	}
	return g.load(ctx, subject)
}

// NextPages lists the distinct urls reached by transitions that left url
func (g *TransitionGraph) NextPages(ctx context.Context, url string) ([]string, error) {
	seen := make(map[string]struct{})
	pages := make([]string, 0)
	err := cayley.StartPath(g.Store, quad.IRI(url)).Out(predLeftBy).Out(predArrivedAt).Iterate(ctx).EachValue(nil, func(v quad.Value) {
		iri, ok := v.(quad.IRI)
		if !ok {
			return
		}
		if _, ok := seen[string(iri)]; ok {
			return
		}
		seen[string(iri)] = struct{}{}
		pages = append(pages, string(iri))
	})
	sort.Strings(pages)
	return pages, err
}

func (g *TransitionGraph) load(ctx context.Context, subject quad.Value) (*darcyk.Transition, error) {
	iri, ok := subject.(quad.IRI)
	if !ok {
		return nil, errors.Errorf("unexpected transition node %v", subject)
	}
	t := &darcyk.Transition{ID: string(iri)[len("transition:"):]}

	text := func(set func(string)) func(quad.Value) bool {
		return func(v quad.Value) bool {
			s, ok := v.(quad.String)
			if ok {
				set(string(s))
			}
			return ok
		}
	}
	fields := map[quad.IRI]func(quad.Value) bool{
		predAction:      text(func(s string) { t.Action = actionFromString(s) }),
		predURL:         text(func(s string) { t.URL = s }),
		predFromURL:     text(func(s string) { t.FromURL = s }),
		predToURL:       text(func(s string) { t.ToURL = s }),
		predDestination: text(func(s string) { t.Destination = s }),
		predState:       text(func(s string) { t.State = stateFromString(s) }),
		predError:       text(func(s string) { t.Error = s }),
		predStarted: func(v quad.Value) bool {
			ts, ok := v.(quad.Time)
			if ok {
				t.Started = time.Time(ts)
			}
			return ok
		},
		predElapsed: func(v quad.Value) bool {
			d, ok := v.(quad.Int)
			if ok {
				t.Elapsed = time.Duration(d)
			}
			return ok
		},
	}

	for pred, set := range fields {
		valid := true
		err := cayley.StartPath(g.Store, subject).Out(pred).Iterate(ctx).EachValue(nil, func(v quad.Value) {
			valid = set(v) && valid
		})
		if err != nil {
			return nil, err
		}
		if !valid {
			return nil, errors.Errorf("transition %s has an invalid %s", t.ID, pred)
		}
	}
	return t, nil
}

func actionFromString(s string) darcyk.TransitionAction {
	for a, name := range darcyk.TransitionActionMap {
		if name == s {
			return a
		}
	}
	return 0
}

func stateFromString(s string) darcyk.NavState {
	for state, name := range darcyk.NavStateMap {
		if name == s {
			return state
		}
	}
	return 0
}

// Close the graph
func (g *TransitionGraph) Close() error {
	return g.Store.Close()
}
