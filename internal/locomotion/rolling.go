package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rolling moves at a fixed speed along the direction chosen on entry.
type Rolling struct{}

func (s *Rolling) ID() StateID { return StateRolling }

func (s *Rolling) Cue() string { return "roll" }

func (s *Rolling) Enter(ctx *Context, reason TransitionReason) {
	cfg := ctx.Config()
	dir := ctx.MoveDirection
	if dir.Len() == 0 {
		dir = ctx.Facing
	}
	if dir.Len() == 0 {
		dir = mgl64.Vec3{0, 0, 1}
	}
	ctx.Facing = dir.Normalize()
	ctx.TargetSpeed = math.Max(ctx.HorizontalSpeed(), cfg.RunSpeed) * cfg.RollSpeedModifier
	ctx.Motion = MotionRoll
	ctx.DecelerationOverride = 0
}

func (s *Rolling) Exit(ctx *Context) {}

func (s *Rolling) HandleInput(ctx *Context) {}

func (s *Rolling) OnUpdate(ctx *Context, dt float64) {}

func (s *Rolling) OnPhysicsUpdate(ctx *Context, dt float64) {}

func (s *Rolling) Evaluate(ctx *Context) StateID {
	if next := groundedExit(ctx, false); next != StateNone {
		return next
	}
	if ctx.StateTime >= ctx.Config().RollDuration {
		return tierOrIdle(ctx)
	}
	return StateNone
}
