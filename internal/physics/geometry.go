package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var Up = mgl64.Vec3{0, 1, 0}

// SlopeAngle returns the angle in degrees between a surface normal and up.
// A zero normal is treated as flat ground.
func SlopeAngle(normal mgl64.Vec3) float64 {
	if normal.Len() < CollisionAxisTolerance {
		return 0
	}
	cos := mgl64.Clamp(normal.Normalize().Dot(Up), -1, 1)
	return mgl64.RadToDeg(math.Acos(cos))
}

// ProjectOnPlane removes the component of v along the plane normal.
func ProjectOnPlane(v, normal mgl64.Vec3) mgl64.Vec3 {
	if normal.Len() < CollisionAxisTolerance {
		return v
	}
	n := normal.Normalize()
	return v.Sub(n.Mul(v.Dot(n)))
}

// Downhill returns the unit direction of steepest descent on a surface, or
// the zero vector on flat ground.
func Downhill(normal mgl64.Vec3) mgl64.Vec3 {
	d := ProjectOnPlane(Up.Mul(-1), normal)
	if d.Len() < CollisionAxisTolerance {
		return mgl64.Vec3{}
	}
	return d.Normalize()
}

// Horizontal drops the vertical component.
func Horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// MoveTowards moves current toward target by at most maxDelta.
func MoveTowards(current, target mgl64.Vec3, maxDelta float64) mgl64.Vec3 {
	diff := target.Sub(current)
	dist := diff.Len()
	if dist <= maxDelta || dist < CollisionAxisTolerance {
		return target
	}
	return current.Add(diff.Mul(maxDelta / dist))
}

// RotateTowards turns a horizontal direction toward target by at most
// maxDegrees around the up axis. Zero inputs return the other operand.
func RotateTowards(from, to mgl64.Vec3, maxDegrees float64) mgl64.Vec3 {
	from, to = Horizontal(from), Horizontal(to)
	if to.Len() < CollisionAxisTolerance {
		return from
	}
	to = to.Normalize()
	if from.Len() < CollisionAxisTolerance {
		return to
	}
	from = from.Normalize()

	current := math.Atan2(from.X(), from.Z())
	target := math.Atan2(to.X(), to.Z())
	delta := target - current
	for delta > math.Pi {
		delta -= 2 * math.Pi
	}
	for delta < -math.Pi {
		delta += 2 * math.Pi
	}
	step := mgl64.DegToRad(maxDegrees)
	if math.Abs(delta) <= step {
		return to
	}
	if delta < 0 {
		step = -step
	}
	angle := current + step
	return mgl64.Vec3{math.Sin(angle), 0, math.Cos(angle)}
}

func nearlyZero(v float64) bool {
	return math.Abs(v) <= CollisionAxisTolerance
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= CollisionAxisTolerance
}
