package locomotion

import "github.com/Versifine/stride/internal/kinematics"

// groundedExit checks the transitions every grounded state shares, in
// priority order: jump, slide, fall. Leaving the ground over an edge falls
// at once; Falling still honors the coyote window.
func groundedExit(ctx *Context, allowJump bool) StateID {
	cfg := ctx.Config()
	if allowJump && ctx.Input.JumpPressed && kinematics.CanJump(ctx.Grounded, ctx.TimeSinceGrounded, cfg.CoyoteTime) {
		return StateJumping
	}
	if ctx.OnGround() && !ctx.Ground.Walkable {
		return StateSliding
	}
	if !ctx.OnGround() && (ctx.Fall.OverEdge || ctx.TimeSinceGrounded > cfg.CoyoteTime) {
		return StateFalling
	}
	return StateNone
}

func dashRoll(ctx *Context) bool {
	cfg := ctx.Config()
	return ctx.Input.DashPressed && cfg.RollEnabled && cfg.DashRollEnabled && ctx.Grounded
}

// tierOrIdle is the exit of recovery states.
func tierOrIdle(ctx *Context) StateID {
	if tier := ctx.desiredTier(); tier != StateNone {
		return tier
	}
	return StateIdle
}

func stopTier(id StateID) StateID {
	switch id {
	case StateWalk:
		return StateLightStop
	case StateSprint:
		return StateHardStop
	default:
		return StateMediumStop
	}
}

func enterGrounded(ctx *Context, reason TransitionReason) {
	ctx.Motion = MotionGround
	if reason == ReasonForced {
		ctx.TimeSinceGrounded = 0
	}
}

type Idle struct{}

func newIdle() *Idle { return &Idle{} }

func (s *Idle) ID() StateID { return StateIdle }

func (s *Idle) Enter(ctx *Context, reason TransitionReason) {
	enterGrounded(ctx, reason)
	ctx.TargetSpeed = 0
}

func (s *Idle) Exit(ctx *Context) {}

func (s *Idle) HandleInput(ctx *Context) {}

func (s *Idle) OnUpdate(ctx *Context, dt float64) {
	ctx.TargetSpeed = 0
	ctx.Acceleration = ctx.Config().MediumStopDeceleration
	ctx.face()
}

func (s *Idle) OnPhysicsUpdate(ctx *Context, dt float64) {}

func (s *Idle) Evaluate(ctx *Context) StateID {
	if next := groundedExit(ctx, true); next != StateNone {
		return next
	}
	if dashRoll(ctx) {
		return StateRolling
	}
	return ctx.desiredTier()
}

// Move is the Walk, Run and Sprint state. Each tier accelerates toward its
// own speed and hands off to its own stopping tier when input ceases.
type Move struct {
	id StateID
}

func newMove(id StateID) *Move { return &Move{id: id} }

func (s *Move) ID() StateID { return s.id }

func (s *Move) Enter(ctx *Context, reason TransitionReason) {
	enterGrounded(ctx, reason)
}

func (s *Move) Exit(ctx *Context) {}

func (s *Move) HandleInput(ctx *Context) {}

func (s *Move) OnUpdate(ctx *Context, dt float64) {
	ctx.TargetSpeed, ctx.Acceleration = ctx.Config().tierSpeed(s.id)
	ctx.face()
}

func (s *Move) OnPhysicsUpdate(ctx *Context, dt float64) {}

func (s *Move) Evaluate(ctx *Context) StateID {
	if next := groundedExit(ctx, true); next != StateNone {
		return next
	}
	if dashRoll(ctx) {
		return StateRolling
	}
	tier := ctx.desiredTier()
	if tier == StateNone {
		return stopTier(s.id)
	}
	if tier != s.id {
		return tier
	}
	return StateNone
}
