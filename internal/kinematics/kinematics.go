// Package kinematics holds the pure jump and landing math. Nothing here can
// fail: inputs that would produce NaN or division by zero saturate to zero.
package kinematics

import (
	"math"

	"github.com/Versifine/stride/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

// CeilingGraceDelay is how long after takeoff ceiling queries are ignored.
const CeilingGraceDelay = 0.05

// ceilingRayLift starts the ceiling ray just under the head so a block that
// begins exactly at head height is still entered by the ray.
const ceilingRayLift = 0.01

// TakeoffVelocity is the upward speed that reaches jumpHeight under gravity.
func TakeoffVelocity(gravity, jumpHeight float64) float64 {
	if gravity <= 0 || jumpHeight <= 0 {
		return 0
	}
	return math.Sqrt(2 * gravity * jumpHeight)
}

func IsFalling(verticalVelocity float64) bool {
	return verticalVelocity <= 0
}

// LandingVelocity is the vertical speed at impact after falling from
// lastGroundedHeight to currentHeight. It is zero or negative.
func LandingVelocity(lastGroundedHeight, currentHeight, gravity float64) float64 {
	if gravity <= 0 {
		return 0
	}
	drop := math.Max(0, lastGroundedHeight-currentHeight)
	if drop == 0 {
		return 0
	}
	return -math.Sqrt(2 * gravity * drop)
}

// AscentGravity returns the gravity used while rising. A positive duration
// derives the gravity that reaches jumpHeight in exactly that time.
func AscentGravity(gravity, jumpHeight, jumpDuration float64) float64 {
	if jumpDuration > 0 && jumpHeight > 0 {
		return 2 * jumpHeight / (jumpDuration * jumpDuration)
	}
	return gravity
}

// CanJump reports whether a jump is accepted. The coyote window is inclusive.
func CanJump(grounded bool, timeSinceGrounded, coyoteTime float64) bool {
	return grounded || timeSinceGrounded <= coyoteTime
}

type Landing int

const (
	LandingSoft Landing = iota
	LandingHard
)

func (l Landing) String() string {
	if l == LandingHard {
		return "hard"
	}
	return "soft"
}

// ClassifyLanding compares the landing speed magnitude against the hard
// threshold. Reaching the threshold exactly is a hard landing.
func ClassifyLanding(speed, softThreshold, hardThreshold float64) Landing {
	if math.Abs(speed) >= hardThreshold {
		return LandingHard
	}
	return LandingSoft
}

// LandingImpact places the landing speed inside the soft to hard band,
// returning 0 at or below the soft threshold and 1 at or above the hard one.
func LandingImpact(speed, softThreshold, hardThreshold float64) float64 {
	speed = math.Abs(speed)
	if hardThreshold <= softThreshold {
		if speed >= hardThreshold {
			return 1
		}
		return 0
	}
	return mgl64.Clamp((speed-softThreshold)/(hardThreshold-softThreshold), 0, 1)
}

// RayCaster is the world query CeilingHit needs.
type RayCaster interface {
	RayCast(origin, dir mgl64.Vec3, dist float64, mask physics.LayerMask) (physics.Hit, bool)
}

// Capsule is the character shape CeilingHit probes from.
type Capsule interface {
	Position() mgl64.Vec3
	Height() float64
}

// CeilingHit casts a short ray up from the top of the capsule. It always
// reports false inside the takeoff grace window.
func CeilingHit(caster RayCaster, body Capsule, checkDistance float64, mask physics.LayerMask, sinceJump float64) bool {
	if sinceJump < CeilingGraceDelay || caster == nil || body == nil || checkDistance <= 0 {
		return false
	}
	head := body.Position().Add(mgl64.Vec3{0, body.Height() - ceilingRayLift, 0})
	_, hit := caster.RayCast(head, physics.Up, checkDistance+ceilingRayLift, mask)
	return hit
}
