package locomotion

import (
	"math"

	"github.com/Versifine/stride/internal/kinematics"
	"github.com/Versifine/stride/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

// ascentGravity is the gravity applied while rising. Non-positive gravity
// disables gravity entirely, including the ascent.
func (c *Config) ascentGravity() float64 {
	if c.Gravity <= 0 {
		return 0
	}
	return kinematics.AscentGravity(c.Gravity, c.JumpHeight, c.JumpDuration)
}

func (c *Config) takeoffVelocity() float64 {
	return kinematics.TakeoffVelocity(c.ascentGravity(), c.JumpHeight)
}

// Integrate drains the tick's intents, applies gravity and moves horizontal
// velocity according to the motion mode. It returns the velocity to hand to
// the motor. The caller resets ctx.Commands afterwards.
func Integrate(ctx *Context, dt float64) mgl64.Vec3 {
	if dt <= 0 {
		return ctx.Velocity()
	}
	cfg := ctx.Config()

	ctx.Commands.Drain(func(c Command) {
		switch c.Kind {
		case CommandJump:
			ctx.VerticalVelocity = c.Value
			ctx.Motion = MotionAir
		case CommandJumpCut:
			if ctx.VerticalVelocity > 0 {
				ctx.VerticalVelocity *= c.Value
			}
		case CommandResetVertical:
			ctx.VerticalVelocity = 0
		}
	})

	if ctx.Motion == MotionAir || !ctx.OnGround() {
		g := cfg.Gravity
		if ctx.VerticalVelocity > 0 {
			g = cfg.ascentGravity()
		}
		if g > 0 {
			ctx.VerticalVelocity -= g * dt
		}
	} else {
		ctx.VerticalVelocity = 0
	}

	ctx.HorizontalVelocity = integrateHorizontal(ctx, cfg, dt)
	return ctx.Velocity()
}

func integrateHorizontal(ctx *Context, cfg *Config, dt float64) mgl64.Vec3 {
	hv := physics.Horizontal(ctx.HorizontalVelocity)
	switch ctx.Motion {
	case MotionAir:
		if ctx.MoveDirection.Len() > 0 {
			return physics.MoveTowards(hv, ctx.MoveDirection.Mul(ctx.TargetSpeed), cfg.AirControl*dt)
		}
		if cfg.AirDrag > 0 {
			return hv.Mul(math.Max(0, 1-cfg.AirDrag*dt))
		}
		return hv

	case MotionSlide:
		var target mgl64.Vec3
		if downhill := physics.Horizontal(physics.Downhill(ctx.Ground.Normal)); downhill.Len() > 0 {
			target = downhill.Normalize().Mul(cfg.SlideMaxSpeed)
		}
		return physics.MoveTowards(hv, target, cfg.SlideAcceleration*dt)

	case MotionRoll:
		facing := physics.Horizontal(ctx.Facing)
		if facing.Len() == 0 {
			return hv
		}
		return facing.Normalize().Mul(ctx.TargetSpeed)

	case MotionLocked:
		rate := ctx.DecelerationOverride
		if rate <= 0 {
			rate = cfg.HardStopDeceleration
		}
		return physics.MoveTowards(hv, mgl64.Vec3{}, rate*dt)

	default:
		rate := ctx.Acceleration
		if ctx.DecelerationOverride > 0 {
			rate = ctx.DecelerationOverride
		}
		return physics.MoveTowards(hv, ctx.MoveDirection.Mul(ctx.TargetSpeed), rate*dt)
	}
}
