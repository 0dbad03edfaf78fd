package darcyk

import (
	"context"
	"time"
)

// NavState is the state of a browser's navigation
type NavState int8

const (
	// NavIdle nothing has been requested yet
	NavIdle NavState = iota + 1
	// NavNavigating the driver action was issued and we are waiting for the destination
	NavNavigating
	// NavLoaded the destination view reported loaded
	NavLoaded
	// NavFailed the destination did not load, or the driver action failed
	NavFailed
)

// NavStateMap to display the state
var NavStateMap = map[NavState]string{
	NavIdle:       "idle",
	NavNavigating: "navigating",
	NavLoaded:     "loaded",
	NavFailed:     "failed",
}

func (s NavState) String() string {
	if str, ok := NavStateMap[s]; ok {
		return str
	}
	return "invalid"
}

// TransitionAction is what initiated a transition
type TransitionAction int8

// revive:disable:var-naming
const (
	ActOpen TransitionAction = iota + 1
	ActBack
	ActForward
	ActRefresh
)

// TransitionActionMap to display the action
var TransitionActionMap = map[TransitionAction]string{
	ActOpen:    "open",
	ActBack:    "back",
	ActForward: "forward",
	ActRefresh: "refresh",
}

func (a TransitionAction) String() string {
	if s, ok := TransitionActionMap[a]; ok {
		return s
	}
	return "unknown"
}

// Transition associates an initiating action with the view expected to load because of it
type Transition struct {
	ID          string           `msgpack:"id"`
	Action      TransitionAction `msgpack:"action"`
	URL         string           `msgpack:"url"` // requested url, only for ActOpen
	FromURL     string           `msgpack:"from_url"`
	ToURL       string           `msgpack:"to_url"`
	Destination string           `msgpack:"destination"`
	State       NavState         `msgpack:"state"`
	Started     time.Time        `msgpack:"started"`
	Elapsed     time.Duration    `msgpack:"elapsed"`
	Error       string           `msgpack:"error,omitempty"`
}

// Recorder stores completed transitions
type Recorder interface {
	RecordTransition(ctx context.Context, t *Transition) error
}
