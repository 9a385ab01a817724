package physics

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// Motor is a penetration-free kinematic mover for an upright capsule in a
// block world. It owns its own grounding pass: after every Move it probes the
// ground, classifies stability against its max stable angle and, when
// snapping is enabled, snaps down small drops or reports that snapping was
// prevented at a ledge.
type Motor struct {
	store BlockStore

	pos            mgl64.Vec3
	radius         float64
	height         float64
	stepHeight     float64
	snapDistance   float64
	maxStableAngle float64

	stepDetection bool
	snapping      bool

	onGround          bool
	stable            bool
	snappingPrevented bool
	groundNormal      mgl64.Vec3
	collided          [3]bool
	hitCeiling        bool
	stepped           bool
}

type MotorOption func(*Motor)

func WithCapsule(radius, height float64) MotorOption {
	return func(m *Motor) {
		if radius > 0 {
			m.radius = radius
		}
		if height > 0 {
			m.height = height
		}
	}
}

func WithStepHeight(h float64) MotorOption {
	return func(m *Motor) {
		m.stepHeight = math.Max(0, h)
	}
}

func WithSnapDistance(d float64) MotorOption {
	return func(m *Motor) {
		m.snapDistance = math.Max(0, d)
	}
}

func WithMaxStableAngle(deg float64) MotorOption {
	return func(m *Motor) {
		m.maxStableAngle = mgl64.Clamp(deg, 0, 90)
	}
}

func NewMotor(store BlockStore, base mgl64.Vec3, opts ...MotorOption) *Motor {
	m := &Motor{
		store:          store,
		pos:            base,
		radius:         DefaultCapsuleRadius,
		height:         DefaultCapsuleHeight,
		stepHeight:     DefaultStepHeight,
		snapDistance:   DefaultSnapDistance,
		maxStableAngle: DefaultMaxStableAngle,
		stepDetection:  true,
		snapping:       true,
		groundNormal:   Up,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.probeGround()
	return m
}

func (m *Motor) Position() mgl64.Vec3 { return m.pos }
func (m *Motor) Radius() float64 { return m.radius }
func (m *Motor) Height() float64 { return m.height }
func (m *Motor) IsStableOnGround() bool { return m.stable }
func (m *Motor) SnappingPrevented() bool { return m.snappingPrevented }
func (m *Motor) GroundNormal() mgl64.Vec3 { return m.groundNormal }
func (m *Motor) FoundAnyGround() bool { return m.onGround }
func (m *Motor) HitCeiling() bool { return m.hitCeiling }
func (m *Motor) Collided() [3]bool { return m.collided }
func (m *Motor) Stepped() bool { return m.stepped }
func (m *Motor) StepDetection() bool { return m.stepDetection }
func (m *Motor) SetStepDetection(on bool) { m.stepDetection = on }
func (m *Motor) SetSnapping(on bool) { m.snapping = on }

// SetMaxStableAngle changes the steepest slope the capsule stands on and
// re-rates the current contact.
func (m *Motor) SetMaxStableAngle(deg float64) {
	m.maxStableAngle = mgl64.Clamp(deg, 0, 90)
	m.stable = m.onGround && SlopeAngle(m.groundNormal) <= m.maxStableAngle
}

func (m *Motor) Box() cube.BBox { return CapsuleBox(m.pos, m.radius, m.height) }

// SetPosition teleports the capsule and re-runs the grounding pass.
func (m *Motor) SetPosition(base mgl64.Vec3) {
	m.pos = base
	m.snappingPrevented = false
	m.collided = [3]bool{}
	m.hitCeiling = false
	m.stepped = false
	m.probeGround()
}

// Move displaces the capsule by velocity*dt and runs the grounding pass.
func (m *Motor) Move(velocity mgl64.Vec3, dt float64) {
	if m == nil || dt <= 0 {
		return
	}
	delta := velocity.Mul(dt)
	zeroResidual(&delta)

	wasGrounded := m.onGround
	box := m.Box()
	allowed, collided := ResolveMovement(box, delta, m.store)

	m.stepped = false
	if m.stepDetection && wasGrounded && delta.Y() <= 0 && (collided[0] || collided[2]) {
		if stepped, ok := m.tryStep(box, delta, allowed); ok {
			allowed = stepped
			collided[0], collided[2] = false, false
			m.stepped = true
		}
	}

	m.pos = m.pos.Add(allowed)
	m.collided = collided
	m.hitCeiling = collided[1] && delta.Y() > 0
	m.probeGround()

	m.snappingPrevented = false
	if wasGrounded && !m.onGround && delta.Y() <= 0 && m.snapping {
		if drop, ok := m.snapDrop(); ok {
			m.pos = m.pos.Add(mgl64.Vec3{0, -drop, 0})
			m.probeGround()
		} else {
			m.snappingPrevented = true
		}
	}
}

// tryStep raises the box by the step height, repeats the horizontal move and
// settles back down. The step is taken only when it makes more horizontal
// progress than the blocked move and ends on something solid.
func (m *Motor) tryStep(box cube.BBox, delta, blocked mgl64.Vec3) (mgl64.Vec3, bool) {
	if m.stepHeight <= 0 {
		return blocked, false
	}
	up, _ := ResolveMovement(box, mgl64.Vec3{0, m.stepHeight, 0}, m.store)
	raised := box.Translate(up)

	across, _ := ResolveMovement(raised, mgl64.Vec3{delta.X(), 0, delta.Z()}, m.store)
	moved := raised.Translate(across)

	down, landed := ResolveMovement(moved, mgl64.Vec3{0, -up.Y() + delta.Y(), 0}, m.store)
	if !landed[1] {
		return blocked, false
	}
	if Horizontal(across).Len() <= Horizontal(blocked).Len()+CollisionAxisTolerance {
		return blocked, false
	}
	return up.Add(across).Add(down), true
}

func (m *Motor) snapDrop() (float64, bool) {
	if m.snapDistance <= 0 {
		return 0, false
	}
	down, hit := ResolveMovement(m.Box(), mgl64.Vec3{0, -m.snapDistance, 0}, m.store)
	if !hit[1] {
		return 0, false
	}
	return -down.Y(), true
}

func (m *Motor) probeGround() {
	box := m.Box()
	probe := box.Translate(mgl64.Vec3{0, -GroundProbeDistance, 0})

	var (
		support cube.Pos
		top     = math.Inf(-1)
		found   bool
	)
	for _, b := range nearbyBlocks(probe, m.store) {
		if !intersects(probe, b.box) || intersects(box, b.box) {
			continue
		}
		if t := b.box.Max().Y(); t > top {
			top, support, found = t, b.pos, true
		}
	}

	m.onGround = found
	m.groundNormal = Up
	if found {
		m.groundNormal = surfaceNormal(m.store, support, Up)
	}
	m.stable = found && SlopeAngle(m.groundNormal) <= m.maxStableAngle
}

func zeroResidual(v *mgl64.Vec3) {
	for i := range v {
		if math.Abs(v[i]) < MinimumResidualSpeed*MinimumResidualSpeed {
			v[i] = 0
		}
	}
}
