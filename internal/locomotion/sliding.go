package locomotion

import "github.com/Versifine/stride/internal/physics"

// Sliding carries the character down unwalkable ground. It leaves only once
// the slope drops below MaxSlopeAngle - SlideExitHysteresis and the minimum
// dwell has passed; losing ground contact exits immediately.
type Sliding struct {
	jumping  *Jumping
	jump     bool
	prevStep bool
}

func (s *Sliding) ID() StateID { return StateSliding }

func (s *Sliding) Wire(lookup Lookup) {
	s.jumping, _ = lookup(StateJumping).(*Jumping)
}

func (s *Sliding) Enter(ctx *Context, reason TransitionReason) {
	s.prevStep = ctx.StepDetection
	s.jump = false
	ctx.StepDetection = false
	ctx.Sliding = true
	ctx.Motion = MotionSlide
	ctx.DecelerationOverride = 0
}

func (s *Sliding) Exit(ctx *Context) {
	ctx.StepDetection = s.prevStep
	ctx.Sliding = false
}

func (s *Sliding) HandleInput(ctx *Context) {
	if ctx.Config().SlideJumpEnabled && ctx.Input.JumpPressed {
		s.jump = true
	}
}

func (s *Sliding) OnUpdate(ctx *Context, dt float64) {
	ctx.TargetSpeed = ctx.Config().SlideMaxSpeed
}

// OnPhysicsUpdate turns the character toward the downhill heading.
func (s *Sliding) OnPhysicsUpdate(ctx *Context, dt float64) {
	downhill := physics.Horizontal(physics.Downhill(ctx.Ground.Normal))
	if downhill.Len() == 0 {
		return
	}
	ctx.Facing = physics.RotateTowards(ctx.Facing, downhill, ctx.Config().SlideTurnSpeed*dt)
}

func (s *Sliding) Evaluate(ctx *Context) StateID {
	cfg := ctx.Config()
	if !ctx.OnGround() {
		return StateFalling
	}
	if s.jump {
		if s.jumping != nil {
			s.jumping.PrimeForce(cfg.SlideJumpForceMultiplier)
		}
		return StateJumping
	}
	if ctx.StateTime < cfg.SlideMinDwell {
		return StateNone
	}
	if ctx.Ground.SlopeAngle < cfg.MaxSlopeAngle-cfg.SlideExitHysteresis {
		return tierOrIdle(ctx)
	}
	return StateNone
}
