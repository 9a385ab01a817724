package locomotion

import "github.com/go-gl/mathgl/mgl64"

// InputDeadZone is the move magnitude below which input counts as released.
const InputDeadZone = 0.01

// Input is the normalized per-tick input snapshot. Pressed flags are edges
// valid only for the tick they arrive on; Held flags are levels.
type Input struct {
	// Move is x = strafe right, y = forward. Magnitudes above 1 are clamped.
	Move mgl64.Vec2
	Look mgl64.Vec2

	JumpPressed       bool
	JumpHeld          bool
	SprintHeld        bool
	DashPressed       bool
	WalkTogglePressed bool
}

// Moving reports whether the move stick is outside the dead zone.
func (in Input) Moving() bool {
	return in.Move.Len() >= InputDeadZone
}

func (in Input) clamped() Input {
	if l := in.Move.Len(); l > 1 {
		in.Move = in.Move.Mul(1 / l)
	}
	return in
}

// Camera is the read-only view of the orbit camera.
type Camera struct {
	// Forward is a horizontal unit vector.
	Forward   mgl64.Vec3
	SteerMode bool
}

func (c Camera) basis() (forward, right mgl64.Vec3) {
	forward = mgl64.Vec3{c.Forward.X(), 0, c.Forward.Z()}
	if forward.Len() < InputDeadZone {
		forward = mgl64.Vec3{0, 0, 1}
	}
	forward = forward.Normalize()
	right = mgl64.Vec3{forward.Z(), 0, -forward.X()}
	return forward, right
}
