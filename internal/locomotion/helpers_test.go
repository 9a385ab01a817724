package locomotion

import (
	"math"
	"testing"

	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/sensor"
	"github.com/go-gl/mathgl/mgl64"
)

const tick = 0.02

func approxEqual(t *testing.T, got, want, tol float64, field string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %.8f, want %.8f (tol=%.8f)", field, got, want, tol)
	}
}

func newRig(t *testing.T, mutate func(*Config)) (*Machine, *Context) {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	ctx := NewContext(&cfg)
	setGrounded(ctx)
	m := NewMachine()
	m.Start(ctx)
	if m.Current() != StateIdle {
		t.Fatalf("initial state = %v, want idle", m.Current())
	}
	return m, ctx
}

func step(m *Machine, ctx *Context) {
	m.Update(ctx, tick)
	m.PhysicsUpdate(ctx, tick)
}

func setGrounded(ctx *Context) {
	ctx.Grounded = true
	ctx.Ground = sensor.GroundInfo{
		Grounded:       true,
		Normal:         physics.Up,
		Walkable:       true,
		FoundAnyGround: true,
	}
	ctx.TimeSinceGrounded = 0
}

func setAirborne(ctx *Context) {
	ctx.Grounded = false
	ctx.Ground = sensor.Airborne()
}

// setSlope places the character on ground inclined by deg degrees.
func setSlope(ctx *Context, deg float64) {
	rad := mgl64.DegToRad(deg)
	walkable := deg <= ctx.Config().MaxSlopeAngle
	ctx.Grounded = walkable
	ctx.Ground = sensor.GroundInfo{
		Grounded:       walkable,
		Normal:         mgl64.Vec3{0, math.Cos(rad), math.Sin(rad)},
		SlopeAngle:     deg,
		Walkable:       walkable,
		FoundAnyGround: true,
	}
}

func moveInput(x, y float64) Input {
	return Input{Move: mgl64.Vec2{x, y}}
}

func expectState(t *testing.T, m *Machine, want StateID) {
	t.Helper()
	if got := m.Current(); got != want {
		t.Fatalf("state = %v, want %v", got, want)
	}
}

type recorder struct {
	transitions []Transition
}

func (r *recorder) OnTransition(ctx *Context, t Transition) {
	r.transitions = append(r.transitions, t)
}

type probeFunc func(checkDistance, sinceJump float64) bool

func (f probeFunc) CeilingHit(checkDistance, sinceJump float64) bool { return f(checkDistance, sinceJump) }

type cueSet map[string]bool

func (c cueSet) Finished(cue string) bool { return c[cue] }
