package locomotion

// Stopping decelerates with its tier's deceleration while leaving
// TargetSpeed at the value the previous tier set, so systems keyed on the
// target speed see it decay with the velocity instead of snapping to zero.
type Stopping struct {
	id  StateID
	cue string
}

func newStopping(id StateID, cue string) *Stopping {
	return &Stopping{id: id, cue: cue}
}

func (s *Stopping) ID() StateID { return s.id }

func (s *Stopping) Cue() string { return s.cue }

func (s *Stopping) Enter(ctx *Context, reason TransitionReason) {
	enterGrounded(ctx, reason)
	ctx.DecelerationOverride = ctx.Config().StopDeceleration(s.id)
}

func (s *Stopping) Exit(ctx *Context) {
	ctx.DecelerationOverride = 0
}

func (s *Stopping) HandleInput(ctx *Context) {}

func (s *Stopping) OnUpdate(ctx *Context, dt float64) {}

func (s *Stopping) OnPhysicsUpdate(ctx *Context, dt float64) {}

func (s *Stopping) Evaluate(ctx *Context) StateID {
	if next := groundedExit(ctx, true); next != StateNone {
		return next
	}
	if tier := ctx.desiredTier(); tier != StateNone {
		// A hard stop only resumes into a running tier.
		if s.id == StateHardStop && tier == StateWalk {
			return StateRun
		}
		return tier
	}
	if ctx.HorizontalSpeed() <= ctx.Config().StopSpeedThreshold {
		return StateIdle
	}
	if ctx.CueComplete(s.cue) {
		return StateIdle
	}
	return StateNone
}
