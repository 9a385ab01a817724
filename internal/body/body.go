package body

import (
	"encoding/binary"
	"errors"
	"log/slog"
	"math"
	"sync"

	"github.com/Versifine/stride/internal/animation"
	"github.com/Versifine/stride/internal/event"
	"github.com/Versifine/stride/internal/kinematics"
	"github.com/Versifine/stride/internal/locomotion"
	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/sensor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
)

const (
	DefaultFixedStep = 1.0 / 50
	// maxSubsteps bounds the physics ticks run by one Advance; leftover time
	// is dropped.
	maxSubsteps = 8
)

// Motor is the movement solver a body drives.
type Motor interface {
	sensor.Motor
	Move(velocity mgl64.Vec3, dt float64)
	SetPosition(base mgl64.Vec3)
	SetStepDetection(on bool)
	SetSnapping(on bool)
	SetMaxStableAngle(deg float64)
}

// StateUpdater receives the body snapshot after every physics tick.
type StateUpdater interface {
	UpdateState(s Snapshot)
}

type Body struct {
	mu sync.Mutex

	id      uuid.UUID
	cfg     *locomotion.Config
	motor   Motor
	caster  sensor.Caster
	ground  sensor.GroundSensor
	fall    sensor.FallSensor
	ctx     *locomotion.Context
	machine *locomotion.Machine

	sink         animation.Sink
	bridge       *animation.Bridge
	clips        *animation.ClipPlayer
	bus          *event.Bus
	stateUpdater StateUpdater
	observers    []locomotion.TransitionObserver
	log          *slog.Logger

	fixedStep   float64
	accumulator float64
	physTicks   uint64
}

type Option func(*Body)

// WithName derives a stable id from name instead of a random one.
func WithName(name string) Option {
	return func(b *Body) {
		b.id = uuid.NewSHA1(uuid.NameSpaceOID, []byte("body:"+name))
	}
}

func WithObserver(o locomotion.TransitionObserver) Option {
	return func(b *Body) {
		if o != nil {
			b.observers = append(b.observers, o)
		}
	}
}

func WithAnimation(sink animation.Sink) Option {
	return func(b *Body) { b.sink = sink }
}

// WithClips plays cues on p and uses it to decide cue completion.
func WithClips(p *animation.ClipPlayer) Option {
	return func(b *Body) { b.clips = p }
}

// WithBus publishes transition, jump and landing events on bus.
func WithBus(bus *event.Bus) Option {
	return func(b *Body) { b.bus = bus }
}

func WithStateUpdater(u StateUpdater) Option {
	return func(b *Body) { b.stateUpdater = u }
}

func WithFixedStep(dt float64) Option {
	return func(b *Body) {
		if dt > 0 {
			b.fixedStep = dt
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Body) {
		if l != nil {
			b.log = l
		}
	}
}

// New builds a body on motor. The caster serves cast-based sensors and the
// ceiling probe and may be nil. cfg is sanitized and copied; issues are the
// caller's to report. The motor's stable angle is set to MaxSlopeAngle.
func New(cfg locomotion.Config, motor Motor, caster sensor.Caster, opts ...Option) (*Body, error) {
	if pm, ok := motor.(*physics.Motor); motor == nil || (ok && pm == nil) {
		return nil, errors.New("body: motor is nil")
	}
	clean := cfg.Sanitize()
	b := &Body{
		id:        uuid.New(),
		cfg:       &clean,
		motor:     motor,
		caster:    caster,
		fixedStep: DefaultFixedStep,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.log = b.log.With("body", b.id.String())

	b.motor.SetMaxStableAngle(b.cfg.MaxSlopeAngle)
	settings := b.cfg.SensorSettings()
	b.ground = sensor.NewGroundSensor(settings, caster)
	b.fall = sensor.NewFallSensor(settings, caster)

	b.ctx = locomotion.NewContext(b.cfg)
	b.ctx.Probe = ceilingProbe{body: b}
	if b.clips != nil {
		b.ctx.Cues = b.clips
	}

	mopts := []locomotion.MachineOption{locomotion.WithLogger(b.log)}
	for _, o := range b.observers {
		mopts = append(mopts, locomotion.WithObserver(o))
	}
	b.machine = locomotion.NewMachine(mopts...)

	var sinks []animation.Sink
	if b.sink != nil {
		sinks = append(sinks, b.sink)
	}
	if b.clips != nil {
		sinks = append(sinks, b.clips)
	}
	if len(sinks) > 0 {
		b.bridge = animation.NewBridge(animation.Tee(sinks...), func(id locomotion.StateID) string {
			return locomotion.CueOf(b.machine.State(id))
		})
		b.machine.AddObserver(b.bridge)
	}
	if b.bus != nil {
		b.machine.AddObserver(locomotion.ObserverFunc(b.publishTransition))
	}

	b.sense()
	b.ctx.LastGroundedHeight = b.ctx.Position.Y()
	b.machine.Start(b.ctx)
	return b, nil
}

func (b *Body) ID() uuid.UUID { return b.id }

func (b *Body) Config() *locomotion.Config { return b.cfg }

// Tick runs the variable-rate phase: input, timers and transition evaluation.
func (b *Body) Tick(in Input, cam Camera, dt float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tick(in, cam, dt)
}

func (b *Body) tick(in Input, cam Camera, dt float64) {
	if b.clips != nil {
		b.clips.Advance(dt)
	}
	b.ctx.SetInput(in, cam)
	b.machine.Update(b.ctx, dt)
	if b.bridge != nil {
		b.bridge.Sync(b.ctx)
	}
}

// PhysicsTick runs one fixed-rate step: the active state's physics update,
// velocity integration, the motor move and sensing for the next tick.
// Intents are cleared at the end whether or not they were consumed.
func (b *Body) PhysicsTick(dt float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.physicsTick(dt)
}

func (b *Body) physicsTick(dt float64) {
	if dt <= 0 {
		return
	}
	ctx := b.ctx
	b.machine.PhysicsUpdate(ctx, dt)

	if v, ok := ctx.Commands.Peek(locomotion.CommandJump); ok && b.bus != nil {
		b.bus.Publish(event.EventJump, &event.JumpEvent{BodyID: b.id.String(), Tick: ctx.Tick, Velocity: v})
	}
	velocity := locomotion.Integrate(ctx, dt)

	b.motor.SetStepDetection(ctx.StepDetection)
	b.motor.SetSnapping(b.machine.CanSnap(ctx))
	b.motor.Move(velocity, dt)

	b.sense()
	b.advanceGroundClock(dt)
	ctx.Commands.Reset()
	b.physTicks++

	if b.stateUpdater != nil {
		b.stateUpdater.UpdateState(b.snapshot())
	}
}

// Advance runs one variable tick and as many fixed physics ticks as the
// accumulated time allows.
func (b *Body) Advance(in Input, cam Camera, dt float64) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tick(in, cam, dt)
	if dt > 0 {
		b.accumulator += dt
	}
	steps := 0
	for b.accumulator >= b.fixedStep && steps < maxSubsteps {
		b.physicsTick(b.fixedStep)
		b.accumulator -= b.fixedStep
		steps++
	}
	if steps == maxSubsteps && b.accumulator >= b.fixedStep {
		b.log.Debug("Dropping physics backlog", "seconds", b.accumulator)
		b.accumulator = 0
	}
	return steps
}

// sense evaluates both sensors against the motor and copies the results
// into the context. The fall sensor never overrides a grounded result.
func (b *Body) sense() {
	ctx := b.ctx
	b.ground.Evaluate(b.motor)
	b.fall.Evaluate(b.motor)

	ctx.Ground = b.ground.Info()
	ctx.Grounded = b.ground.Grounded()
	ctx.Fall = sensor.FallInfo{OverEdge: b.fall.IsOverEdge()}
	ctx.Position = b.motor.Position()
}

// advanceGroundClock updates the coyote clock and the height landings are
// measured from. Any contact outside the air counts for the height, so a
// slide records the surface it slid on.
func (b *Body) advanceGroundClock(dt float64) {
	ctx := b.ctx
	if ctx.Grounded {
		ctx.TimeSinceGrounded = 0
	} else {
		ctx.TimeSinceGrounded += dt
	}
	if ctx.Motion != locomotion.MotionAir && ctx.OnGround() {
		ctx.LastGroundedHeight = ctx.Position.Y()
	}
}

// Respawn teleports the body, clears its velocity and forces Idle.
func (b *Body) Respawn(pos mgl64.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.motor.SetPosition(pos)
	ctx := b.ctx
	ctx.HorizontalVelocity = mgl64.Vec3{}
	ctx.VerticalVelocity = 0
	ctx.LandingSpeed = 0
	ctx.LandingImpact = 0
	b.accumulator = 0
	b.sense()
	ctx.LastGroundedHeight = ctx.Position.Y()
	b.machine.ForceState(ctx, locomotion.StateIdle)
	b.log.Info("Respawned", "x", pos.X(), "y", pos.Y(), "z", pos.Z())
}

// ForceState forces the machine into the named state.
func (b *Body) ForceState(name string) bool {
	id, ok := locomotion.ParseStateID(name)
	if !ok {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.machine.ForceState(b.ctx, id)
}

func (b *Body) State() locomotion.StateID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.machine.Current()
}

// Snapshot is a copy of the externally visible body state.
type Snapshot struct {
	ID            string     `json:"id"`
	State         string     `json:"state"`
	Cue           string     `json:"cue"`
	Motion        string     `json:"motion"`
	Tick          uint64     `json:"tick"`
	PhysicsTicks  uint64     `json:"physics_ticks"`
	Time          float64    `json:"time"`
	StateTime     float64    `json:"state_time"`
	Position      [3]float64 `json:"position"`
	Velocity      [3]float64 `json:"velocity"`
	Facing        [3]float64 `json:"facing"`
	Grounded      bool       `json:"grounded"`
	SlopeAngle    float64    `json:"slope_angle"`
	OverEdge      bool       `json:"over_edge"`
	Sliding       bool       `json:"sliding"`
	WalkToggled   bool       `json:"walk_toggled"`
	LandingSpeed  float64    `json:"landing_speed"`
	LandingImpact float64    `json:"landing_impact"`
}

func (b *Body) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot()
}

func (b *Body) snapshot() Snapshot {
	ctx := b.ctx
	return Snapshot{
		ID:            b.id.String(),
		State:         b.machine.Current().String(),
		Cue:           b.machine.Cue(),
		Motion:        ctx.Motion.String(),
		Tick:          ctx.Tick,
		PhysicsTicks:  b.physTicks,
		Time:          ctx.Time,
		StateTime:     ctx.StateTime,
		Position:      ctx.Position,
		Velocity:      ctx.Velocity(),
		Facing:        ctx.Facing,
		Grounded:      ctx.Grounded,
		SlopeAngle:    ctx.Ground.SlopeAngle,
		OverEdge:      ctx.Fall.OverEdge,
		Sliding:       ctx.Sliding,
		WalkToggled:   ctx.WalkToggled,
		LandingSpeed:  ctx.LandingSpeed,
		LandingImpact: ctx.LandingImpact,
	}
}

// Digest hashes the simulation-relevant state. Two bodies fed the same
// inputs from the same start produce the same digest every tick.
func (b *Body) Digest() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	ctx := b.ctx
	buf := make([]byte, 0, 160)
	buf = append(buf, byte(b.machine.Current()), byte(ctx.Motion))
	buf = binary.LittleEndian.AppendUint64(buf, ctx.Tick)
	for _, f := range []float64{
		ctx.Position.X(), ctx.Position.Y(), ctx.Position.Z(),
		ctx.HorizontalVelocity.X(), ctx.HorizontalVelocity.Z(), ctx.VerticalVelocity,
		ctx.Facing.X(), ctx.Facing.Z(),
		ctx.StateTime, ctx.TimeSinceGrounded, ctx.LastGroundedHeight,
		ctx.TargetSpeed, ctx.LandingSpeed,
	} {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
	}
	return xxh3.Hash(buf)
}

func (b *Body) publishTransition(ctx *locomotion.Context, t locomotion.Transition) {
	id := b.id.String()
	b.bus.Publish(event.EventStateTransition, &event.TransitionEvent{
		BodyID: id,
		From:   t.From.String(),
		To:     t.To.String(),
		Reason: t.Reason.String(),
		Tick:   t.Tick,
		Time:   t.Time,
		Dwell:  t.Dwell,
	})
	if locomotion.IsLanding(t) {
		b.bus.Publish(event.EventLanding, &event.LandingEvent{
			BodyID: id,
			Tick:   t.Tick,
			Kind:   t.To.String(),
			Speed:  ctx.LandingSpeed,
			Impact: ctx.LandingImpact,
		})
	}
}

// ceilingProbe answers the jumping state's ceiling query with an upward
// ray cast, or with the motor's collision flag when there is no caster.
type ceilingProbe struct {
	body *Body
}

func (p ceilingProbe) CeilingHit(checkDistance, sinceJump float64) bool {
	b := p.body
	if b.caster == nil {
		if hc, ok := b.motor.(interface{ HitCeiling() bool }); ok {
			return sinceJump >= kinematics.CeilingGraceDelay && hc.HitCeiling()
		}
		return false
	}
	return kinematics.CeilingHit(b.caster, b.motor, checkDistance, b.cfg.GroundMask(), sinceJump)
}

var _ Motor = (*physics.Motor)(nil)
