package sensor

import (
	"github.com/Versifine/stride/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

// FallRayLift raises the fall ray origin above the capsule base so a ray
// starting flush with the floor still registers it.
const FallRayLift = 0.05

var down = mgl64.Vec3{0, -1, 0}

// CastGround sphere-casts down from the capsule base. The sphere starts one
// radius above the base, so the reach below the base is CheckDistance and the
// total sweep from the origin is CheckDistance + CheckRadius.
type CastGround struct {
	settings Settings
	caster   Caster
	info     GroundInfo
}

func (g *CastGround) Evaluate(m Motor) {
	g.info = Airborne()
	if g.caster == nil || g.settings.CheckRadius <= 0 {
		return
	}
	r := g.settings.CheckRadius
	origin := m.Position().Add(mgl64.Vec3{0, r, 0})
	hit, ok := g.caster.SphereCast(origin, r, down, g.settings.CheckDistance, g.settings.Mask)
	if !ok {
		return
	}
	info := GroundInfo{Grounded: true, Normal: hit.Normal, FoundAnyGround: true}
	info.SlopeAngle, info.Walkable = classify(hit.Normal, g.settings.MaxSlopeAngle)
	g.info = info
}

func (g *CastGround) Info() GroundInfo { return g.info }
func (g *CastGround) Grounded() bool { return g.info.Grounded }

// CastFall reports an edge when a downward ray from the capsule base finds no
// ground within RayDistance.
type CastFall struct {
	settings Settings
	caster   Caster
	overEdge bool
}

func (f *CastFall) Evaluate(m Motor) {
	f.overEdge = false
	if f.caster == nil {
		return
	}
	origin := m.Position().Add(mgl64.Vec3{0, FallRayLift, 0})
	_, hit := f.caster.RayCast(origin, down, f.settings.RayDistance+FallRayLift, f.settings.Mask)
	f.overEdge = !hit
}

func (f *CastFall) IsOverEdge() bool { return f.overEdge }

var _ Caster = (*physics.World)(nil)
