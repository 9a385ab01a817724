package locomotion

import (
	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/sensor"
	"github.com/go-gl/mathgl/mgl64"
)

// MotionMode tells the integrator how to move the character horizontally.
type MotionMode uint8

const (
	MotionGround MotionMode = iota
	MotionAir
	MotionSlide
	MotionRoll
	MotionLocked
)

func (m MotionMode) String() string {
	switch m {
	case MotionGround:
		return "ground"
	case MotionAir:
		return "air"
	case MotionSlide:
		return "slide"
	case MotionRoll:
		return "roll"
	case MotionLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Probe answers world queries states need mid-tick. A nil Probe reports no hits.
type Probe interface {
	CeilingHit(checkDistance, sinceJump float64) bool
}

// CueSource reports whether an animation cue has finished playing.
type CueSource interface {
	Finished(cue string) bool
}

// Context is the shared blackboard of one character. Only the active state
// and the driver write to it.
type Context struct {
	cfg *Config

	Input  Input
	Camera Camera

	// Tick counts machine updates; Time accumulates their dt.
	Tick      uint64
	Time      float64
	StateTime float64

	Position           mgl64.Vec3
	HorizontalVelocity mgl64.Vec3
	VerticalVelocity   float64

	Grounded           bool
	LastGroundedHeight float64
	TimeSinceGrounded  float64
	Ground             sensor.GroundInfo
	Fall               sensor.FallInfo

	// MoveDirection is the camera-relative move direction on the ground
	// plane, unit length or zero.
	MoveDirection mgl64.Vec3
	Facing        mgl64.Vec3

	TargetSpeed          float64
	Acceleration         float64
	DecelerationOverride float64

	StepDetection bool
	Sliding       bool
	WalkToggled   bool
	Motion        MotionMode

	LandingSpeed  float64
	LandingImpact float64

	Commands Commands
	Probe    Probe
	Cues     CueSource
}

// NewContext builds a context for cfg. A nil cfg uses DefaultConfig.
func NewContext(cfg *Config) *Context {
	if cfg == nil {
		d := DefaultConfig()
		cfg = &d
	}
	return &Context{
		cfg:           cfg,
		Ground:        sensor.Airborne(),
		Facing:        mgl64.Vec3{0, 0, 1},
		StepDetection: true,
	}
}

func (c *Context) Config() *Config { return c.cfg }

// OnGround reports any ground contact, walkable or not.
func (c *Context) OnGround() bool {
	return c.Grounded || c.Ground.FoundAnyGround
}

func (c *Context) HorizontalSpeed() float64 {
	return physics.Horizontal(c.HorizontalVelocity).Len()
}

func (c *Context) Velocity() mgl64.Vec3 {
	return mgl64.Vec3{c.HorizontalVelocity.X(), c.VerticalVelocity, c.HorizontalVelocity.Z()}
}

// SetInput stores the tick's input, applies the walk toggle edge and derives
// the camera-relative move direction.
func (c *Context) SetInput(in Input, cam Camera) {
	in = in.clamped()
	c.Input = in
	c.Camera = cam
	if in.WalkTogglePressed {
		c.WalkToggled = !c.WalkToggled
	}

	c.MoveDirection = mgl64.Vec3{}
	if !in.Moving() {
		return
	}
	forward, right := cam.basis()
	dir := forward.Mul(in.Move.Y()).Add(right.Mul(in.Move.X()))
	if dir.Len() >= InputDeadZone {
		c.MoveDirection = dir.Normalize()
	}
}

// CueComplete reports whether cue finished. Without a cue source nothing
// ever completes.
func (c *Context) CueComplete(cue string) bool {
	return c.Cues != nil && c.Cues.Finished(cue)
}

func (c *Context) ceilingHit(sinceJump float64) bool {
	return c.Probe != nil && c.Probe.CeilingHit(c.cfg.CeilingCheckDistance, sinceJump)
}

// desiredTier picks the movement state the input asks for, or StateNone
// when there is no input. Sprint beats walk, walk beats the run baseline.
func (c *Context) desiredTier() StateID {
	if !c.Input.Moving() {
		return StateNone
	}
	switch {
	case c.Input.SprintHeld:
		return StateSprint
	case c.WalkToggled || c.Input.Move.Len() < c.cfg.WalkInputThreshold:
		return StateWalk
	default:
		return StateRun
	}
}

// face turns the character toward the camera in steer mode, otherwise toward
// the move direction.
func (c *Context) face() {
	if c.Camera.SteerMode {
		forward, _ := c.Camera.basis()
		c.Facing = forward
		return
	}
	if c.MoveDirection.Len() > 0 {
		c.Facing = c.MoveDirection
	}
}
