// Package sensor classifies a character's footing once per physics tick.
//
// Two strategies exist for each sensor kind. Motor-derived sensors trust the
// movement solver's own grounding pass. Cast-derived sensors query the world
// independently with sphere and ray casts. Both read a Motor snapshot that has
// already finished its move for the tick.
package sensor

import (
	"strings"

	"github.com/Versifine/stride/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

// Mode selects a sensing strategy.
type Mode string

const (
	ModeMotor Mode = "motor"
	ModeCast  Mode = "cast"
)

// ParseMode normalizes a configured mode name. Unknown names report false.
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeMotor:
		return ModeMotor, true
	case ModeCast:
		return ModeCast, true
	default:
		return ModeMotor, false
	}
}

// Motor is the read-only view of the movement solver a sensor needs.
// Position is the base of the capsule. Sensors are always evaluated against a
// live motor; a nil Motor is a caller bug.
type Motor interface {
	Position() mgl64.Vec3
	Radius() float64
	Height() float64
	IsStableOnGround() bool
	SnappingPrevented() bool
	GroundNormal() mgl64.Vec3
	FoundAnyGround() bool
}

// Caster answers world queries. Trigger volumes never produce hits.
type Caster interface {
	SphereCast(origin mgl64.Vec3, radius float64, dir mgl64.Vec3, dist float64, mask physics.LayerMask) (physics.Hit, bool)
	RayCast(origin, dir mgl64.Vec3, dist float64, mask physics.LayerMask) (physics.Hit, bool)
}

// GroundInfo is the footing snapshot for one tick.
type GroundInfo struct {
	Grounded bool
	Normal   mgl64.Vec3
	// SlopeAngle is the angle between Normal and up, in degrees.
	SlopeAngle float64
	Walkable   bool
	// FoundAnyGround may be true while Grounded is false, e.g. on ground
	// steeper than the walkable limit.
	FoundAnyGround bool
}

// Airborne is the GroundInfo reported when nothing is underfoot.
func Airborne() GroundInfo {
	return GroundInfo{Normal: physics.Up, Walkable: true}
}

type FallInfo struct {
	OverEdge bool
}

type GroundSensor interface {
	Evaluate(m Motor)
	Info() GroundInfo
	Grounded() bool
}

type FallSensor interface {
	Evaluate(m Motor)
	IsOverEdge() bool
}

// Settings carries the tunables shared by all strategies.
type Settings struct {
	GroundMode Mode
	FallMode   Mode

	CheckDistance float64
	CheckRadius   float64
	RayDistance   float64
	MaxSlopeAngle float64
	Mask          physics.LayerMask
}

// NewGroundSensor builds the ground strategy selected by s.GroundMode.
// Unknown modes fall back to the motor-derived strategy.
func NewGroundSensor(s Settings, caster Caster) GroundSensor {
	if s.GroundMode == ModeCast {
		return &CastGround{settings: s, caster: caster, info: Airborne()}
	}
	return &MotorGround{maxSlope: s.MaxSlopeAngle, info: Airborne()}
}

// NewFallSensor builds the fall strategy selected by s.FallMode.
// Unknown modes fall back to the motor-derived strategy.
func NewFallSensor(s Settings, caster Caster) FallSensor {
	if s.FallMode == ModeCast {
		return &CastFall{settings: s, caster: caster}
	}
	return &MotorFall{}
}

func classify(normal mgl64.Vec3, maxSlope float64) (float64, bool) {
	angle := physics.SlopeAngle(normal)
	return angle, angle <= maxSlope
}
