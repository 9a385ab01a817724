package locomotion

// SoftLanding keeps ground control during a short recovery.
type SoftLanding struct{}

func (s *SoftLanding) ID() StateID { return StateSoftLanding }

func (s *SoftLanding) Enter(ctx *Context, reason TransitionReason) {
	enterGrounded(ctx, reason)
	ctx.DecelerationOverride = 0
}

func (s *SoftLanding) Exit(ctx *Context) {}

func (s *SoftLanding) HandleInput(ctx *Context) {}

func (s *SoftLanding) OnUpdate(ctx *Context, dt float64) {
	cfg := ctx.Config()
	if tier := ctx.desiredTier(); tier != StateNone {
		ctx.TargetSpeed, ctx.Acceleration = cfg.tierSpeed(tier)
	} else {
		ctx.TargetSpeed = 0
		ctx.Acceleration = cfg.LightStopDeceleration
	}
	ctx.face()
}

func (s *SoftLanding) OnPhysicsUpdate(ctx *Context, dt float64) {}

func (s *SoftLanding) Evaluate(ctx *Context) StateID {
	if next := groundedExit(ctx, true); next != StateNone {
		return next
	}
	if ctx.StateTime >= ctx.Config().SoftLandingRecovery {
		return tierOrIdle(ctx)
	}
	return StateNone
}

// HardLanding locks movement and brakes with the hard stop deceleration
// until recovery ends. Jumping is not accepted while recovering.
type HardLanding struct{}

func (s *HardLanding) ID() StateID { return StateHardLanding }

func (s *HardLanding) Enter(ctx *Context, reason TransitionReason) {
	enterGrounded(ctx, reason)
	ctx.Motion = MotionLocked
	ctx.DecelerationOverride = ctx.Config().HardStopDeceleration
}

func (s *HardLanding) Exit(ctx *Context) {
	ctx.DecelerationOverride = 0
}

func (s *HardLanding) HandleInput(ctx *Context) {}

func (s *HardLanding) OnUpdate(ctx *Context, dt float64) {}

func (s *HardLanding) OnPhysicsUpdate(ctx *Context, dt float64) {}

func (s *HardLanding) Evaluate(ctx *Context) StateID {
	if next := groundedExit(ctx, false); next != StateNone {
		return next
	}
	if ctx.StateTime >= ctx.Config().HardLandingRecovery {
		return tierOrIdle(ctx)
	}
	return StateNone
}
