package physics

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/block/cube/trace"
	"github.com/go-gl/mathgl/mgl64"
)

// Hit describes the first surface found by a cast.
type Hit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
	Block    cube.Pos
	Layer    Layer
}

// World answers ray and sphere casts against a block store. Trigger blocks
// never produce hits.
type World struct {
	Store BlockStore
}

func NewWorld(store BlockStore) *World {
	return &World{Store: store}
}

func (w *World) accepts(pos cube.Pos, mask LayerMask) (Layer, bool) {
	if !w.Store.IsSolid(pos.X(), pos.Y(), pos.Z()) {
		return 0, false
	}
	layer := layerAt(w.Store, pos)
	if layer == LayerTrigger || !mask.Has(layer) {
		return 0, false
	}
	return layer, true
}

// RayCast walks the ray in small steps and resolves the exact entry point on
// the first accepted block with a box intercept.
func (w *World) RayCast(origin, dir mgl64.Vec3, dist float64, mask LayerMask) (Hit, bool) {
	if w == nil || w.Store == nil || dist <= 0 || dir.Len() < CollisionAxisTolerance {
		return Hit{}, false
	}
	dir = dir.Normalize()
	end := origin.Add(dir.Mul(dist))

	prev := cube.PosFromVec3(origin)
	if hit, ok := w.interceptBlock(prev, origin, end, mask); ok {
		return hit, true
	}
	for travelled := RayStep; travelled <= dist+RayStep; travelled += RayStep {
		step := math.Min(travelled, dist)
		pos := cube.PosFromVec3(origin.Add(dir.Mul(step)))
		if pos == prev {
			continue
		}
		// Diagonal steps can skip a shared edge neighbour; test all three.
		for _, candidate := range stepCandidates(prev, pos) {
			if hit, ok := w.interceptBlock(candidate, origin, end, mask); ok {
				return hit, true
			}
		}
		prev = pos
	}
	return Hit{}, false
}

func stepCandidates(prev, next cube.Pos) []cube.Pos {
	out := []cube.Pos{next}
	for axis := 0; axis < 3; axis++ {
		if prev[axis] == next[axis] {
			continue
		}
		p := prev
		p[axis] = next[axis]
		if p != next {
			out = append(out, p)
		}
	}
	return out
}

func (w *World) interceptBlock(pos cube.Pos, start, end mgl64.Vec3, mask LayerMask) (Hit, bool) {
	layer, ok := w.accepts(pos, mask)
	if !ok {
		return Hit{}, false
	}
	result, ok := trace.BBoxIntercept(blockBox(w.Store, pos), start, end)
	if !ok {
		return Hit{}, false
	}
	point := result.Position()
	normal := cube.Pos{}.Side(result.Face()).Vec3()
	if result.Face() == cube.FaceUp {
		normal = surfaceNormal(w.Store, pos, normal)
	}
	return Hit{
		Point:    point,
		Normal:   normal,
		Distance: point.Sub(start).Len(),
		Block:    pos,
		Layer:    layer,
	}, true
}

// SphereCast sweeps a sphere from origin along dir and reports the first
// accepted block it touches.
func (w *World) SphereCast(origin mgl64.Vec3, radius float64, dir mgl64.Vec3, dist float64, mask LayerMask) (Hit, bool) {
	if w == nil || w.Store == nil || radius <= 0 || dist < 0 || dir.Len() < CollisionAxisTolerance {
		return Hit{}, false
	}
	dir = dir.Normalize()
	step := radius * CastStepFraction

	for travelled := 0.0; ; travelled += step {
		if travelled > dist {
			travelled = dist
		}
		center := origin.Add(dir.Mul(travelled))
		if hit, ok := w.sphereOverlap(center, radius, mask); ok {
			hit.Distance = travelled
			return hit, true
		}
		if travelled >= dist {
			return Hit{}, false
		}
	}
}

func (w *World) sphereOverlap(center mgl64.Vec3, radius float64, mask LayerMask) (Hit, bool) {
	bounds := cube.Box(
		center.X()-radius, center.Y()-radius, center.Z()-radius,
		center.X()+radius, center.Y()+radius, center.Z()+radius,
	)
	var (
		best     Hit
		bestDist = math.MaxFloat64
		found    bool
	)
	for _, b := range nearbyBlocks(bounds, w.Store) {
		layer, ok := w.accepts(b.pos, mask)
		if !ok {
			continue
		}
		closest := closestPoint(b.box, center)
		d := closest.Sub(center).Len()
		// Touching is not overlapping; walls flush with the sphere are ignored.
		if d >= radius-SkinWidth || d >= bestDist {
			continue
		}
		normal := Up
		if d > CollisionAxisTolerance {
			normal = center.Sub(closest).Normalize()
		}
		if normal.Y() > 0.5 {
			normal = surfaceNormal(w.Store, b.pos, normal)
		}
		best = Hit{Point: closest, Normal: normal, Block: b.pos, Layer: layer}
		bestDist = d
		found = true
	}
	return best, found
}

func closestPoint(box cube.BBox, p mgl64.Vec3) mgl64.Vec3 {
	lo, hi := box.Min(), box.Max()
	return mgl64.Vec3{
		mgl64.Clamp(p.X(), lo.X(), hi.X()),
		mgl64.Clamp(p.Y(), lo.Y(), hi.Y()),
		mgl64.Clamp(p.Z(), lo.Z(), hi.Z()),
	}
}
