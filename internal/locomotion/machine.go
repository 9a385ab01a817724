package locomotion

import (
	"log/slog"

	"github.com/elliotchance/orderedmap/v2"
)

// Machine runs the active state's lifecycle and performs transitions.
type Machine struct {
	states    *orderedmap.OrderedMap[StateID, State]
	current   State
	observers []TransitionObserver
	log       *slog.Logger
}

type MachineOption func(*Machine)

func WithObserver(o TransitionObserver) MachineOption {
	return func(m *Machine) {
		if o != nil {
			m.observers = append(m.observers, o)
		}
	}
}

func WithLogger(l *slog.Logger) MachineOption {
	return func(m *Machine) {
		if l != nil {
			m.log = l
		}
	}
}

// WithStates replaces the built-in state set. Every state is wired after all
// of them are registered.
func WithStates(states ...State) MachineOption {
	return func(m *Machine) {
		m.states = orderedmap.NewOrderedMap[StateID, State]()
		for _, s := range states {
			m.states.Set(s.ID(), s)
		}
	}
}

// NewMachine builds every state first and wires cross references second.
// The machine has no active state until Start or the first Update.
func NewMachine(opts ...MachineOption) *Machine {
	m := &Machine{log: slog.Default()}
	m.states = orderedmap.NewOrderedMap[StateID, State]()
	for _, s := range defaultStates() {
		m.states.Set(s.ID(), s)
	}
	for _, opt := range opts {
		opt(m)
	}

	lookup := func(id StateID) State {
		s, _ := m.states.Get(id)
		return s
	}
	for _, id := range m.states.Keys() {
		s, _ := m.states.Get(id)
		if w, ok := s.(Wirer); ok {
			w.Wire(lookup)
		}
	}
	return m
}

func defaultStates() []State {
	return []State{
		newIdle(),
		newMove(StateWalk),
		newMove(StateRun),
		newMove(StateSprint),
		newStopping(StateLightStop, "stop_light"),
		newStopping(StateMediumStop, "stop_medium"),
		newStopping(StateHardStop, "stop_hard"),
		&Jumping{},
		&Falling{},
		&SoftLanding{},
		&HardLanding{},
		&Rolling{},
		&Sliding{},
	}
}

func (m *Machine) AddObserver(o TransitionObserver) {
	if o != nil {
		m.observers = append(m.observers, o)
	}
}

// Start enters Idle. It is a no-op once a state is active.
func (m *Machine) Start(ctx *Context) {
	if m.current != nil {
		return
	}
	m.transition(ctx, StateIdle, ReasonInitial)
}

func (m *Machine) Current() StateID {
	if m.current == nil {
		return StateNone
	}
	return m.current.ID()
}

// State returns the registered state with id, or nil.
func (m *Machine) State(id StateID) State {
	s, _ := m.states.Get(id)
	return s
}

// States lists registered ids in registration order.
func (m *Machine) States() []StateID {
	return m.states.Keys()
}

// Update runs the variable-rate phase: timers advance, then input handling,
// update and transition evaluation of the active state.
func (m *Machine) Update(ctx *Context, dt float64) {
	if m.current == nil {
		m.Start(ctx)
		if m.current == nil {
			return
		}
	}
	if dt < 0 {
		dt = 0
	}
	ctx.Tick++
	ctx.Time += dt
	ctx.StateTime += dt

	m.current.HandleInput(ctx)
	m.current.OnUpdate(ctx, dt)
	if next := m.current.Evaluate(ctx); next != StateNone {
		m.transition(ctx, next, ReasonEvaluated)
	}
}

// PhysicsUpdate runs the fixed-rate phase of the active state.
func (m *Machine) PhysicsUpdate(ctx *Context, dt float64) {
	if m.current == nil || dt <= 0 {
		return
	}
	m.current.OnPhysicsUpdate(ctx, dt)
}

// ForceState bypasses evaluation and re-enters id even when it is already
// active. Queued intents are dropped first.
func (m *Machine) ForceState(ctx *Context, id StateID) bool {
	if _, ok := m.states.Get(id); !ok {
		m.log.Warn("Force to unknown state ignored", "state", id.String())
		return false
	}
	ctx.Commands.Reset()
	m.transition(ctx, id, ReasonForced)
	return true
}

// CanSnap reports whether the active state allows motor ground snapping.
func (m *Machine) CanSnap(ctx *Context) bool {
	if s, ok := m.current.(Snapper); ok {
		return s.CanSnap(ctx)
	}
	return true
}

// Cue is the animation cue of the active state.
func (m *Machine) Cue() string {
	return CueOf(m.current)
}

// CueOf returns the animation cue of s.
func CueOf(s State) string {
	if s == nil {
		return ""
	}
	if c, ok := s.(Cued); ok {
		return c.Cue()
	}
	return s.ID().String()
}

func (m *Machine) transition(ctx *Context, to StateID, reason TransitionReason) {
	next, ok := m.states.Get(to)
	if !ok {
		m.log.Warn("Transition to unregistered state ignored", "state", to.String())
		return
	}
	from := m.Current()
	if from == to && reason != ReasonForced {
		return
	}

	dwell := ctx.StateTime
	if m.current != nil {
		m.current.Exit(ctx)
	}
	ctx.StateTime = 0
	m.current = next
	next.Enter(ctx, reason)

	t := Transition{
		From:   from,
		To:     to,
		Reason: reason,
		Tick:   ctx.Tick,
		Time:   ctx.Time,
		Dwell:  dwell,
	}
	if reason == ReasonForced {
		m.log.Info("Forced state", "from", from.String(), "to", to.String(), "tick", ctx.Tick)
	} else {
		m.log.Debug("State transition", "from", from.String(), "to", to.String(), "reason", reason.String(), "tick", ctx.Tick)
	}
	for _, o := range m.observers {
		o.OnTransition(ctx, t)
	}
}
