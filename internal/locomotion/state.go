package locomotion

import "strings"

type StateID uint8

const (
	StateNone StateID = iota
	StateIdle
	StateWalk
	StateRun
	StateSprint
	StateLightStop
	StateMediumStop
	StateHardStop
	StateJumping
	StateFalling
	StateSoftLanding
	StateHardLanding
	StateRolling
	StateSliding
)

var stateNames = [...]string{
	StateNone:        "none",
	StateIdle:        "idle",
	StateWalk:        "walk",
	StateRun:         "run",
	StateSprint:      "sprint",
	StateLightStop:   "light_stop",
	StateMediumStop:  "medium_stop",
	StateHardStop:    "hard_stop",
	StateJumping:     "jumping",
	StateFalling:     "falling",
	StateSoftLanding: "soft_landing",
	StateHardLanding: "hard_landing",
	StateRolling:     "rolling",
	StateSliding:     "sliding",
}

func (id StateID) String() string {
	if int(id) < len(stateNames) {
		return stateNames[id]
	}
	return "unknown"
}

// ParseStateID resolves a state name as printed by String.
func ParseStateID(name string) (StateID, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for id, n := range stateNames {
		if StateID(id) != StateNone && n == name {
			return StateID(id), true
		}
	}
	return StateNone, false
}

type TransitionReason uint8

const (
	ReasonInitial TransitionReason = iota
	ReasonEvaluated
	ReasonForced
)

func (r TransitionReason) String() string {
	switch r {
	case ReasonInitial:
		return "initial"
	case ReasonEvaluated:
		return "evaluated"
	case ReasonForced:
		return "forced"
	default:
		return "unknown"
	}
}

// State is one locomotion behavior. State values are built once per body
// and hold only state-local counters; Context and Config are passed in.
type State interface {
	ID() StateID
	Enter(ctx *Context, reason TransitionReason)
	// Exit must undo every side effect Enter put on the context.
	Exit(ctx *Context)
	HandleInput(ctx *Context)
	OnUpdate(ctx *Context, dt float64)
	OnPhysicsUpdate(ctx *Context, dt float64)
	// Evaluate returns the first matching transition target in the state's
	// priority order, or StateNone to stay.
	Evaluate(ctx *Context) StateID
}

// Lookup resolves a sibling state by id after every state is constructed.
type Lookup func(StateID) State

// Wirer is implemented by states that hold references to sibling states.
type Wirer interface {
	Wire(lookup Lookup)
}

// Snapper is implemented by states that control motor ground snapping.
// States without it allow snapping.
type Snapper interface {
	CanSnap(ctx *Context) bool
}

// Cued is implemented by states whose animation cue differs from the state
// name.
type Cued interface {
	Cue() string
}

// Transition describes one completed state change.
type Transition struct {
	From   StateID
	To     StateID
	Reason TransitionReason
	Tick   uint64
	Time   float64
	// Dwell is how long the previous state was active.
	Dwell float64
}

// IsLanding reports whether t ends a fall on the ground. A buffered jump or
// a slide taken on touchdown is not a landing.
func IsLanding(t Transition) bool {
	if t.From != StateFalling || t.Reason == ReasonForced {
		return false
	}
	switch t.To {
	case StateSoftLanding, StateHardLanding, StateRolling:
		return true
	}
	return false
}

type TransitionObserver interface {
	OnTransition(ctx *Context, t Transition)
}

// ObserverFunc adapts a function to TransitionObserver.
type ObserverFunc func(ctx *Context, t Transition)

func (f ObserverFunc) OnTransition(ctx *Context, t Transition) { f(ctx, t) }
