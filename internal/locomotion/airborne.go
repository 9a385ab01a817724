package locomotion

import "github.com/Versifine/stride/internal/kinematics"

// JumpLaunchTimeout bounds how long Jumping waits for its jump intent to be
// applied before giving up and falling.
const JumpLaunchTimeout = 0.1

// airSteer keeps the air target speed on the tier the input asks for.
func airSteer(ctx *Context) {
	if tier := ctx.desiredTier(); tier != StateNone {
		ctx.TargetSpeed, _ = ctx.Config().tierSpeed(tier)
	}
	ctx.face()
}

// Jumping queues the takeoff on entry and hands off to Falling at the apex
// or on a ceiling hit.
type Jumping struct {
	force    float64
	primed   bool
	launched bool
	cut      bool
}

func (s *Jumping) ID() StateID { return StateJumping }

// PrimeForce scales the takeoff of the next entry only.
func (s *Jumping) PrimeForce(multiplier float64) {
	s.force = multiplier
	s.primed = true
}

func (s *Jumping) CanSnap(ctx *Context) bool { return false }

func (s *Jumping) Enter(ctx *Context, reason TransitionReason) {
	cfg := ctx.Config()
	force := 1.0
	if s.primed {
		force = s.force
	}
	s.primed, s.force = false, 0
	s.launched, s.cut = false, false

	if ctx.OnGround() {
		ctx.LastGroundedHeight = ctx.Position.Y()
	}
	ctx.Commands.Push(CommandJump, cfg.takeoffVelocity()*force)
	ctx.Motion = MotionAir
	ctx.DecelerationOverride = 0
}

func (s *Jumping) Exit(ctx *Context) {}

// HandleInput emits the variable-height cut at most once per jump.
func (s *Jumping) HandleInput(ctx *Context) {
	cfg := ctx.Config()
	if !cfg.VariableJump || s.cut || ctx.Input.JumpHeld {
		return
	}
	if s.launched && ctx.VerticalVelocity <= 0 {
		return
	}
	ctx.Commands.Push(CommandJumpCut, cfg.JumpCutMultiplier)
	s.cut = true
}

func (s *Jumping) OnUpdate(ctx *Context, dt float64) {
	if ctx.VerticalVelocity > 0 {
		s.launched = true
	}
	airSteer(ctx)
}

func (s *Jumping) OnPhysicsUpdate(ctx *Context, dt float64) {
	if ctx.VerticalVelocity > 0 {
		s.launched = true
	}
}

func (s *Jumping) Evaluate(ctx *Context) StateID {
	if ctx.StateTime >= kinematics.CeilingGraceDelay && ctx.ceilingHit(ctx.StateTime) {
		ctx.Commands.Push(CommandResetVertical, 0)
		return StateFalling
	}
	if s.launched && kinematics.IsFalling(ctx.VerticalVelocity) {
		return StateFalling
	}
	if !s.launched && ctx.StateTime > JumpLaunchTimeout {
		return StateFalling
	}
	return StateNone
}

// Falling waits for ground contact and classifies the landing. It refuses to
// land until it has seen at least one airborne tick, unless ground contact
// persists for FallGuardTicks consecutive physics ticks. A fall that did not
// start from a jump still accepts a jump inside the coyote window.
type Falling struct {
	seenAirborne  bool
	groundedTicks int
	buffered      bool
	pressedAt     float64
	coyote        bool
}

func (s *Falling) ID() StateID { return StateFalling }

func (s *Falling) Enter(ctx *Context, reason TransitionReason) {
	s.coyote = ctx.Motion == MotionGround && reason != ReasonForced
	ctx.Motion = MotionAir
	ctx.DecelerationOverride = 0
	s.seenAirborne = !ctx.OnGround()
	s.groundedTicks = 0
	s.buffered = false
}

func (s *Falling) Exit(ctx *Context) {}

func (s *Falling) HandleInput(ctx *Context) {
	if ctx.Input.JumpPressed {
		s.buffered = true
		s.pressedAt = ctx.Time
	}
}

func (s *Falling) OnUpdate(ctx *Context, dt float64) {
	airSteer(ctx)
}

func (s *Falling) OnPhysicsUpdate(ctx *Context, dt float64) {
	if ctx.OnGround() {
		s.groundedTicks++
		return
	}
	s.seenAirborne = true
	s.groundedTicks = 0
}

func (s *Falling) Evaluate(ctx *Context) StateID {
	cfg := ctx.Config()
	if s.coyote && ctx.Input.JumpPressed && kinematics.CanJump(false, ctx.TimeSinceGrounded, cfg.CoyoteTime) {
		return StateJumping
	}
	if !ctx.OnGround() {
		return StateNone
	}
	if !s.seenAirborne && s.groundedTicks < cfg.FallGuardTicks {
		return StateNone
	}
	return s.land(ctx)
}

func (s *Falling) land(ctx *Context) StateID {
	cfg := ctx.Config()
	speed := -kinematics.LandingVelocity(ctx.LastGroundedHeight, ctx.Position.Y(), cfg.Gravity)
	ctx.LandingSpeed = speed
	ctx.LandingImpact = kinematics.LandingImpact(speed, cfg.SoftLandingThreshold, cfg.HardLandingThreshold)

	if !ctx.Ground.Walkable {
		return StateSliding
	}
	if s.buffered && ctx.Time-s.pressedAt <= cfg.JumpBufferTime {
		return StateJumping
	}
	if kinematics.ClassifyLanding(speed, cfg.SoftLandingThreshold, cfg.HardLandingThreshold) == kinematics.LandingHard {
		if rollOnLanding(ctx) {
			return StateRolling
		}
		return StateHardLanding
	}
	return StateSoftLanding
}

func rollOnLanding(ctx *Context) bool {
	cfg := ctx.Config()
	if !cfg.RollEnabled {
		return false
	}
	if cfg.RollTrigger == RollOnButton {
		return ctx.Input.DashPressed
	}
	return ctx.Input.Moving()
}
