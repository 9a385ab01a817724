package locomotion

import (
	"testing"

	"github.com/Versifine/stride/internal/kinematics"
	"github.com/go-gl/mathgl/mgl64"
)

func TestTierSelection(t *testing.T) {
	tests := []struct {
		name   string
		input  Input
		toggle bool
		want   StateID
	}{
		{"full stick runs", moveInput(0, 1), false, StateRun},
		{"light stick walks", moveInput(0, 0.3), false, StateWalk},
		{"walk toggle walks", moveInput(0, 1), true, StateWalk},
		{"sprint beats walk toggle", Input{Move: mgl64.Vec2{0, 1}, SprintHeld: true}, true, StateSprint},
		{"sprint beats light stick", Input{Move: mgl64.Vec2{0.2, 0}, SprintHeld: true}, false, StateSprint},
		{"no input idles", Input{}, false, StateIdle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ctx := newRig(t, nil)
			ctx.WalkToggled = tt.toggle
			ctx.SetInput(tt.input, Camera{})
			step(m, ctx)
			expectState(t, m, tt.want)
		})
	}
}

func TestStopTierMatchesMovementTier(t *testing.T) {
	tests := []struct {
		from  Input
		tier  StateID
		stop  StateID
		decel func(Config) float64
	}{
		{moveInput(0, 0.3), StateWalk, StateLightStop, func(c Config) float64 { return c.LightStopDeceleration }},
		{moveInput(0, 1), StateRun, StateMediumStop, func(c Config) float64 { return c.MediumStopDeceleration }},
		{Input{Move: mgl64.Vec2{0, 1}, SprintHeld: true}, StateSprint, StateHardStop, func(c Config) float64 { return c.HardStopDeceleration }},
	}
	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			m, ctx := newRig(t, nil)
			ctx.SetInput(tt.from, Camera{})
			step(m, ctx)
			expectState(t, m, tt.tier)
			ctx.HorizontalVelocity = mgl64.Vec3{0, 0, 3}

			ctx.SetInput(Input{}, Camera{})
			step(m, ctx)

			expectState(t, m, tt.stop)
			approxEqual(t, ctx.DecelerationOverride, tt.decel(*ctx.Config()), 0, "decelerationOverride")
		})
	}
}

func TestRunningToMediumStopScenario(t *testing.T) {
	m, ctx := newRig(t, nil)
	ctx.SetInput(moveInput(0, 1), Camera{})
	step(m, ctx)
	step(m, ctx)
	expectState(t, m, StateRun)
	ctx.HorizontalVelocity = mgl64.Vec3{0, 0, 5}

	ctx.SetInput(Input{}, Camera{})
	m.Update(ctx, tick)
	expectState(t, m, StateMediumStop)
	approxEqual(t, ctx.DecelerationOverride, ctx.Config().MediumStopDeceleration, 0, "override after first tick")
	approxEqual(t, ctx.TargetSpeed, ctx.Config().RunSpeed, 0, "targetSpeed preserved")

	m.Update(ctx, tick)
	expectState(t, m, StateMediumStop)

	ctx.SetInput(moveInput(0, 1), Camera{})
	m.Update(ctx, tick)
	expectState(t, m, StateRun)
	approxEqual(t, ctx.DecelerationOverride, 0, 0, "override after exit")
}

func TestStoppingEnterExitClearsOverride(t *testing.T) {
	for _, id := range []StateID{StateLightStop, StateMediumStop, StateHardStop} {
		t.Run(id.String(), func(t *testing.T) {
			m, ctx := newRig(t, nil)
			s := m.State(id)

			s.Enter(ctx, ReasonEvaluated)
			if ctx.DecelerationOverride <= 0 {
				t.Fatalf("override = %v after enter, want positive", ctx.DecelerationOverride)
			}
			s.Exit(ctx)

			if ctx.DecelerationOverride != 0 {
				t.Fatalf("override = %v after exit, want exactly 0", ctx.DecelerationOverride)
			}
		})
	}
}

func TestStoppingSettlesToIdle(t *testing.T) {
	m, ctx := newRig(t, nil)
	m.ForceState(ctx, StateLightStop)
	ctx.HorizontalVelocity = mgl64.Vec3{0, 0, 2}

	step(m, ctx)
	expectState(t, m, StateLightStop)

	ctx.HorizontalVelocity = mgl64.Vec3{0, 0, 0.01}
	step(m, ctx)
	expectState(t, m, StateIdle)
	if ctx.DecelerationOverride != 0 {
		t.Fatalf("override leaked into idle: %v", ctx.DecelerationOverride)
	}
}

func TestStoppingEndsWhenCueCompletes(t *testing.T) {
	m, ctx := newRig(t, nil)
	cues := cueSet{}
	ctx.Cues = cues
	m.ForceState(ctx, StateMediumStop)
	ctx.HorizontalVelocity = mgl64.Vec3{0, 0, 4}

	step(m, ctx)
	expectState(t, m, StateMediumStop)

	cues["stop_medium"] = true
	step(m, ctx)
	expectState(t, m, StateIdle)
}

func TestHardStopResumesOnlyIntoRunningTiers(t *testing.T) {
	tests := []struct {
		name   string
		input  Input
		toggle bool
		want   StateID
	}{
		{"walk toggle resumes run", moveInput(0, 1), true, StateRun},
		{"light stick resumes run", moveInput(0, 0.2), false, StateRun},
		{"sprint resumes sprint", Input{Move: mgl64.Vec2{0, 1}, SprintHeld: true}, false, StateSprint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ctx := newRig(t, nil)
			m.ForceState(ctx, StateHardStop)
			ctx.HorizontalVelocity = mgl64.Vec3{0, 0, 6}
			ctx.WalkToggled = tt.toggle
			ctx.SetInput(tt.input, Camera{})

			step(m, ctx)
			expectState(t, m, tt.want)
		})
	}
}

func TestLightStopResumesIntoWalk(t *testing.T) {
	m, ctx := newRig(t, nil)
	m.ForceState(ctx, StateLightStop)
	ctx.HorizontalVelocity = mgl64.Vec3{0, 0, 1}
	ctx.SetInput(moveInput(0, 0.3), Camera{})

	step(m, ctx)
	expectState(t, m, StateWalk)
}

func TestCoyoteTime(t *testing.T) {
	tests := []struct {
		name  string
		since float64
		want  StateID
	}{
		{"inside window", 0.1, StateJumping},
		{"at window edge", 0.15, StateJumping},
		{"after window", 0.20, StateFalling},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ctx := newRig(t, nil)
			ctx.SetInput(moveInput(0, 1), Camera{})
			step(m, ctx)
			expectState(t, m, StateRun)

			setAirborne(ctx)
			ctx.TimeSinceGrounded = tt.since
			ctx.SetInput(Input{Move: mgl64.Vec2{0, 1}, JumpPressed: true, JumpHeld: true}, Camera{})
			m.Update(ctx, tick)
			expectState(t, m, tt.want)
		})
	}
}

func TestGroundedStaysDuringCoyoteWithoutJump(t *testing.T) {
	m, ctx := newRig(t, nil)
	ctx.SetInput(moveInput(0, 1), Camera{})
	step(m, ctx)

	setAirborne(ctx)
	ctx.TimeSinceGrounded = 0.1
	step(m, ctx)
	expectState(t, m, StateRun)
}

func TestOverEdgeFallsAtOnce(t *testing.T) {
	m, ctx := newRig(t, nil)
	ctx.SetInput(moveInput(0, 1), Camera{})
	step(m, ctx)

	setAirborne(ctx)
	ctx.Fall.OverEdge = true
	ctx.TimeSinceGrounded = tick
	step(m, ctx)
	expectState(t, m, StateFalling)
}

func TestFallingHonorsCoyoteAfterWalkingOff(t *testing.T) {
	tests := []struct {
		name  string
		since float64
		want  StateID
	}{
		{"inside window", 0.1, StateJumping},
		{"after window", 0.22, StateFalling},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ctx := newRig(t, nil)
			ctx.SetInput(moveInput(0, 1), Camera{})
			step(m, ctx)

			setAirborne(ctx)
			ctx.Fall.OverEdge = true
			ctx.TimeSinceGrounded = tick
			step(m, ctx)
			expectState(t, m, StateFalling)

			ctx.TimeSinceGrounded = tt.since
			ctx.SetInput(Input{Move: mgl64.Vec2{0, 1}, JumpPressed: true, JumpHeld: true}, Camera{})
			m.Update(ctx, tick)
			expectState(t, m, tt.want)
		})
	}
}

func TestFallingAfterJumpHasNoCoyote(t *testing.T) {
	m, ctx := newRig(t, nil)
	ctx.SetInput(Input{JumpPressed: true, JumpHeld: true}, Camera{})
	m.Update(ctx, tick)
	expectState(t, m, StateJumping)

	setAirborne(ctx)
	ctx.TimeSinceGrounded = 0.05
	ctx.SetInput(Input{JumpHeld: true}, Camera{})
	for i := 0; i < 20 && m.Current() == StateJumping; i++ {
		step(m, ctx)
	}
	expectState(t, m, StateFalling)

	ctx.SetInput(Input{JumpPressed: true, JumpHeld: true}, Camera{})
	m.Update(ctx, tick)
	expectState(t, m, StateFalling)
}

func TestJumpRecordsTakeoffHeight(t *testing.T) {
	m, ctx := newRig(t, nil)
	ctx.LastGroundedHeight = 10
	ctx.Position = mgl64.Vec3{0, 3, 0}
	ctx.SetInput(Input{JumpPressed: true, JumpHeld: true}, Camera{})
	m.Update(ctx, tick)
	expectState(t, m, StateJumping)
	approxEqual(t, ctx.LastGroundedHeight, 3, 0, "lastGroundedHeight")
}

func TestJumpQueuesTakeoff(t *testing.T) {
	m, ctx := newRig(t, func(c *Config) {
		c.Gravity = 20
		c.JumpHeight = 2
	})
	ctx.SetInput(Input{JumpPressed: true, JumpHeld: true}, Camera{})
	m.Update(ctx, tick)

	expectState(t, m, StateJumping)
	if ctx.Motion != MotionAir {
		t.Fatalf("motion = %v, want air", ctx.Motion)
	}
	var got []Command
	ctx.Commands.Drain(func(c Command) { got = append(got, c) })
	if len(got) != 1 || got[0].Kind != CommandJump {
		t.Fatalf("commands = %+v, want one jump", got)
	}
	approxEqual(t, got[0].Value, 8.94427191, 1e-6, "takeoff")
}

func TestJumpDurationDerivesTakeoff(t *testing.T) {
	m, ctx := newRig(t, func(c *Config) {
		c.JumpHeight = 2
		c.JumpDuration = 0.5
	})
	m.ForceState(ctx, StateJumping)

	var v float64
	ctx.Commands.Drain(func(c Command) { v = c.Value })
	approxEqual(t, v, 8, 1e-9, "takeoff")
}

// launch runs the jump intent through the integrator the way the driver does.
func launch(m *Machine, ctx *Context) {
	m.PhysicsUpdate(ctx, tick)
	Integrate(ctx, tick)
	ctx.Commands.Reset()
	setAirborne(ctx)
}

func TestVariableJumpCutEmittedOnce(t *testing.T) {
	m, ctx := newRig(t, nil)
	ctx.SetInput(Input{JumpPressed: true, JumpHeld: true}, Camera{})
	m.Update(ctx, tick)
	launch(m, ctx)

	ctx.SetInput(Input{JumpHeld: true}, Camera{})
	m.Update(ctx, tick)
	if ctx.Commands.Has(CommandJumpCut) {
		t.Fatalf("jump cut while the button is held")
	}

	ctx.SetInput(Input{}, Camera{})
	m.Update(ctx, tick)
	if !ctx.Commands.Has(CommandJumpCut) {
		t.Fatalf("no jump cut after release")
	}
	before := ctx.VerticalVelocity
	Integrate(ctx, tick)
	ctx.Commands.Reset()
	approxEqual(t, ctx.VerticalVelocity, before*ctx.Config().JumpCutMultiplier-ctx.Config().Gravity*tick, 1e-9, "cut velocity")

	m.Update(ctx, tick)
	if ctx.Commands.Has(CommandJumpCut) {
		t.Fatalf("jump cut emitted twice")
	}
}

func TestVariableJumpDisabled(t *testing.T) {
	m, ctx := newRig(t, func(c *Config) { c.VariableJump = false })
	ctx.SetInput(Input{JumpPressed: true, JumpHeld: true}, Camera{})
	m.Update(ctx, tick)
	launch(m, ctx)

	ctx.SetInput(Input{}, Camera{})
	m.Update(ctx, tick)
	if ctx.Commands.Has(CommandJumpCut) {
		t.Fatalf("jump cut with variable jump disabled")
	}
}

func TestJumpingFallsAtApex(t *testing.T) {
	m, ctx := newRig(t, nil)
	ctx.SetInput(Input{JumpPressed: true, JumpHeld: true}, Camera{})
	m.Update(ctx, tick)
	launch(m, ctx)
	ctx.SetInput(Input{JumpHeld: true}, Camera{})

	for i := 0; i < 100 && m.Current() == StateJumping; i++ {
		m.Update(ctx, tick)
		m.PhysicsUpdate(ctx, tick)
		Integrate(ctx, tick)
		ctx.Commands.Reset()
	}
	expectState(t, m, StateFalling)
	if ctx.VerticalVelocity > 0 {
		t.Fatalf("fell while still rising: vy=%v", ctx.VerticalVelocity)
	}
}

func TestJumpingCeilingHitAfterGrace(t *testing.T) {
	m, ctx := newRig(t, nil)
	var asked []float64
	ctx.Probe = probeFunc(func(_, since float64) bool {
		asked = append(asked, since)
		return true
	})
	ctx.SetInput(Input{JumpPressed: true, JumpHeld: true}, Camera{})
	m.Update(ctx, tick)
	launch(m, ctx)
	ctx.SetInput(Input{JumpHeld: true}, Camera{})

	m.Update(ctx, tick)
	expectState(t, m, StateJumping)

	m.Update(ctx, tick)
	expectState(t, m, StateJumping)

	m.Update(ctx, tick)
	expectState(t, m, StateFalling)
	if !ctx.Commands.Has(CommandResetVertical) {
		t.Fatalf("ceiling hit did not queue a vertical reset")
	}
	for _, since := range asked {
		if since < kinematics.CeilingGraceDelay {
			t.Fatalf("ceiling probed at %v, inside the grace window", since)
		}
	}
	Integrate(ctx, tick)
	if ctx.VerticalVelocity > 0 {
		t.Fatalf("vy = %v after ceiling reset, want <= 0", ctx.VerticalVelocity)
	}
}

func TestJumpingTimesOutWithoutLaunch(t *testing.T) {
	m, ctx := newRig(t, nil)
	m.ForceState(ctx, StateJumping)
	ctx.Commands.Reset()
	ctx.SetInput(Input{JumpHeld: true}, Camera{})

	for i := 0; i < 5; i++ {
		m.Update(ctx, tick)
	}
	expectState(t, m, StateJumping)
	m.Update(ctx, tick)
	expectState(t, m, StateFalling)
}

func TestFallingGuardWhileStillGrounded(t *testing.T) {
	m, ctx := newRig(t, nil)
	m.ForceState(ctx, StateFalling)

	for i := 0; i < 3; i++ {
		step(m, ctx)
		expectState(t, m, StateFalling)
	}
	m.Update(ctx, tick)
	expectState(t, m, StateSoftLanding)
}

func TestFallingGuardResetsOnAirborneTick(t *testing.T) {
	m, ctx := newRig(t, func(c *Config) { c.FallGuardTicks = 3 })
	ctx.LastGroundedHeight = 0
	m.ForceState(ctx, StateFalling)

	step(m, ctx)
	step(m, ctx)
	setAirborne(ctx)
	step(m, ctx)
	expectState(t, m, StateFalling)

	setGrounded(ctx)
	m.Update(ctx, tick)
	expectState(t, m, StateSoftLanding)
}

// fallingRig puts the character in Falling, airborne, dropping from lastY.
func fallingRig(t *testing.T, lastY float64, mutate func(*Config)) (*Machine, *Context) {
	t.Helper()
	m, ctx := newRig(t, mutate)
	setAirborne(ctx)
	ctx.LastGroundedHeight = lastY
	m.ForceState(ctx, StateFalling)
	step(m, ctx)
	expectState(t, m, StateFalling)
	return m, ctx
}

func landAt(m *Machine, ctx *Context, y float64, in Input) {
	setGrounded(ctx)
	ctx.Position = mgl64.Vec3{0, y, 0}
	ctx.SetInput(in, Camera{})
	m.Update(ctx, tick)
}

func TestLandingClassificationScenario(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		landY  float64
		input  Input
		want   StateID
	}{
		{"hard without input", nil, 8, Input{}, StateHardLanding},
		{"hard with movement rolls", nil, 8, moveInput(0, 1), StateRolling},
		{"roll disabled", func(c *Config) { c.RollEnabled = false }, 8, moveInput(0, 1), StateHardLanding},
		{"button trigger without dash", func(c *Config) { c.RollTrigger = RollOnButton }, 8, moveInput(0, 1), StateHardLanding},
		{"button trigger with dash", func(c *Config) { c.RollTrigger = RollOnButton }, 8, Input{DashPressed: true}, StateRolling},
		{"short drop is soft", nil, 9.8, Input{}, StateSoftLanding},
		{"mid band is soft", nil, 9.5, Input{}, StateSoftLanding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ctx := fallingRig(t, 10, func(c *Config) {
				c.Gravity = 20
				c.HardLandingThreshold = 8
				if tt.mutate != nil {
					tt.mutate(c)
				}
			})
			landAt(m, ctx, tt.landY, tt.input)
			expectState(t, m, tt.want)
		})
	}
}

func TestLandingSpeedAndImpact(t *testing.T) {
	m, ctx := fallingRig(t, 10, nil)
	landAt(m, ctx, 8, Input{})

	approxEqual(t, ctx.LandingSpeed, 8.94427191, 1e-6, "landingSpeed")
	approxEqual(t, ctx.LandingImpact, 1, 0, "landingImpact")
	expectState(t, m, StateHardLanding)
}

func TestLandingAtHardThresholdIsHard(t *testing.T) {
	// sqrt(2 * 32 * 1) == 8
	m, ctx := fallingRig(t, 10, func(c *Config) {
		c.Gravity = 32
		c.HardLandingThreshold = 8
	})
	landAt(m, ctx, 9, Input{})
	approxEqual(t, ctx.LandingSpeed, 8, 0, "landingSpeed")
	expectState(t, m, StateHardLanding)
}

func TestLandingOnSteepGroundSlides(t *testing.T) {
	m, ctx := fallingRig(t, 10, nil)
	setSlope(ctx, 60)
	ctx.Position = mgl64.Vec3{0, 8, 0}
	m.Update(ctx, tick)
	expectState(t, m, StateSliding)
}

func TestJumpBuffer(t *testing.T) {
	tests := []struct {
		name    string
		airTick int
		want    StateID
	}{
		{"lands inside buffer", 6, StateJumping},
		{"lands after buffer", 8, StateSoftLanding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ctx := fallingRig(t, 1, nil)
			ctx.SetInput(Input{JumpPressed: true, JumpHeld: true}, Camera{})
			step(m, ctx)
			ctx.SetInput(Input{JumpHeld: true}, Camera{})
			for i := 0; i < tt.airTick; i++ {
				step(m, ctx)
			}
			landAt(m, ctx, 0.9, Input{JumpHeld: true})
			expectState(t, m, tt.want)
		})
	}
}

func TestHardLandingLocksThenRecovers(t *testing.T) {
	m, ctx := fallingRig(t, 10, nil)
	landAt(m, ctx, 8, Input{})
	expectState(t, m, StateHardLanding)
	if ctx.Motion != MotionLocked {
		t.Fatalf("motion = %v, want locked", ctx.Motion)
	}

	ctx.SetInput(Input{JumpPressed: true, JumpHeld: true}, Camera{})
	step(m, ctx)
	expectState(t, m, StateHardLanding)

	ctx.SetInput(moveInput(0, 1), Camera{})
	for ctx.StateTime < ctx.Config().HardLandingRecovery-tick/2 {
		step(m, ctx)
		if m.Current() != StateHardLanding {
			break
		}
	}
	step(m, ctx)
	expectState(t, m, StateRun)
	if ctx.DecelerationOverride != 0 {
		t.Fatalf("override = %v after hard landing exit", ctx.DecelerationOverride)
	}
}

func TestSoftLandingAllowsJump(t *testing.T) {
	m, ctx := fallingRig(t, 1, nil)
	landAt(m, ctx, 0.9, Input{})
	expectState(t, m, StateSoftLanding)

	ctx.SetInput(Input{JumpPressed: true, JumpHeld: true}, Camera{})
	m.Update(ctx, tick)
	expectState(t, m, StateJumping)
}

// slidingRig enters Sliding from Idle on a slope just past the limit.
func slidingRig(t *testing.T) (*Machine, *Context) {
	t.Helper()
	m, ctx := newRig(t, nil)
	setSlope(ctx, ctx.Config().MaxSlopeAngle+0.5)
	step(m, ctx)
	expectState(t, m, StateSliding)
	return m, ctx
}

func TestSlidingHysteresis(t *testing.T) {
	m, ctx := slidingRig(t)
	cfg := ctx.Config()
	for ctx.StateTime < cfg.SlideMinDwell {
		step(m, ctx)
	}
	expectState(t, m, StateSliding)

	exit := cfg.MaxSlopeAngle - cfg.SlideExitHysteresis
	for _, deg := range []float64{cfg.MaxSlopeAngle, cfg.MaxSlopeAngle - 1, exit + 0.01} {
		setSlope(ctx, deg)
		step(m, ctx)
		expectState(t, m, StateSliding)
	}

	setSlope(ctx, exit-0.01)
	step(m, ctx)
	expectState(t, m, StateIdle)
}

func TestSlidingMinDwell(t *testing.T) {
	m, ctx := slidingRig(t)

	setSlope(ctx, 0)
	step(m, ctx)
	expectState(t, m, StateSliding)

	for ctx.StateTime < ctx.Config().SlideMinDwell {
		step(m, ctx)
	}
	step(m, ctx)
	expectState(t, m, StateIdle)
}

func TestSlidingGroundLossExitsImmediately(t *testing.T) {
	m, ctx := slidingRig(t)
	setAirborne(ctx)
	m.Update(ctx, tick)
	expectState(t, m, StateFalling)
}

func TestSlidingStepDetectionRestored(t *testing.T) {
	m, ctx := newRig(t, nil)
	if !ctx.StepDetection {
		t.Fatalf("step detection off before sliding")
	}
	setSlope(ctx, 60)
	step(m, ctx)
	expectState(t, m, StateSliding)
	if ctx.StepDetection || !ctx.Sliding {
		t.Fatalf("stepDetection=%t sliding=%t while sliding", ctx.StepDetection, ctx.Sliding)
	}

	setAirborne(ctx)
	m.Update(ctx, tick)
	if !ctx.StepDetection || ctx.Sliding {
		t.Fatalf("stepDetection=%t sliding=%t after exit", ctx.StepDetection, ctx.Sliding)
	}
}

func TestSlidingFacesDownhill(t *testing.T) {
	m, ctx := slidingRig(t)
	ctx.Facing = mgl64.Vec3{0, 0, -1}
	setSlope(ctx, 60)

	for i := 0; i < 50; i++ {
		m.PhysicsUpdate(ctx, tick)
	}
	// The normal leans toward +z, so downhill points along +z.
	approxEqual(t, ctx.Facing.Z(), 1, 1e-9, "facing.z")
}

func TestSlidingJumpOutUsesReducedForce(t *testing.T) {
	m, ctx := slidingRig(t)
	ctx.SetInput(Input{JumpPressed: true, JumpHeld: true}, Camera{})
	m.Update(ctx, tick)
	expectState(t, m, StateJumping)

	var v float64
	ctx.Commands.Drain(func(c Command) {
		if c.Kind == CommandJump {
			v = c.Value
		}
	})
	cfg := ctx.Config()
	approxEqual(t, v, kinematics.TakeoffVelocity(cfg.Gravity, cfg.JumpHeight)*cfg.SlideJumpForceMultiplier, 1e-9, "slide jump")

	ctx.Commands.Reset()
	m.ForceState(ctx, StateIdle)
	m.ForceState(ctx, StateJumping)
	ctx.Commands.Drain(func(c Command) { v = c.Value })
	approxEqual(t, v, kinematics.TakeoffVelocity(cfg.Gravity, cfg.JumpHeight), 1e-9, "regular jump after slide jump")
}

func TestGroundedOnSteepSlopeSlides(t *testing.T) {
	m, ctx := newRig(t, nil)
	ctx.SetInput(moveInput(0, 1), Camera{})
	step(m, ctx)
	expectState(t, m, StateRun)

	setSlope(ctx, 50)
	step(m, ctx)
	expectState(t, m, StateSliding)
}

func TestDashRoll(t *testing.T) {
	m, ctx := newRig(t, nil)
	ctx.SetInput(Input{Move: mgl64.Vec2{1, 0}, DashPressed: true}, Camera{Forward: mgl64.Vec3{0, 0, 1}})
	m.Update(ctx, tick)
	expectState(t, m, StateRolling)

	cfg := ctx.Config()
	approxEqual(t, ctx.TargetSpeed, cfg.RunSpeed*cfg.RollSpeedModifier, 1e-9, "roll speed")
	approxEqual(t, ctx.Facing.X(), 1, 1e-9, "facing.x")

	ctx.SetInput(Input{}, Camera{})
	for i := 0; i < 100 && m.Current() == StateRolling; i++ {
		step(m, ctx)
	}
	expectState(t, m, StateIdle)
	approxEqual(t, ctx.StateTime, 0, 0, "stateTime")
}

func TestDashRollDisabled(t *testing.T) {
	m, ctx := newRig(t, func(c *Config) { c.DashRollEnabled = false })
	ctx.SetInput(Input{Move: mgl64.Vec2{0, 1}, DashPressed: true}, Camera{})
	m.Update(ctx, tick)
	expectState(t, m, StateRun)
}

func TestSetInputIsCameraRelative(t *testing.T) {
	ctx := NewContext(nil)
	cam := Camera{Forward: mgl64.Vec3{1, 0, 0}}

	ctx.SetInput(moveInput(0, 2), cam)
	approxEqual(t, ctx.Input.Move.Len(), 1, 1e-12, "clamped magnitude")
	approxEqual(t, ctx.MoveDirection.X(), 1, 1e-12, "forward.x")

	ctx.SetInput(moveInput(1, 0), cam)
	approxEqual(t, ctx.MoveDirection.Z(), -1, 1e-12, "right.z")

	ctx.SetInput(moveInput(0.001, 0), cam)
	if ctx.MoveDirection.Len() != 0 {
		t.Fatalf("dead zone input produced direction %v", ctx.MoveDirection)
	}

	ctx.SetInput(Input{WalkTogglePressed: true}, cam)
	ctx.SetInput(Input{}, cam)
	if !ctx.WalkToggled {
		t.Fatalf("walk toggle edge not latched")
	}
}

func TestSteerModeFacesCamera(t *testing.T) {
	m, ctx := newRig(t, nil)
	ctx.SetInput(moveInput(1, 0), Camera{Forward: mgl64.Vec3{0, 0, 1}, SteerMode: true})
	step(m, ctx)
	approxEqual(t, ctx.Facing.Z(), 1, 1e-12, "facing.z")
}
