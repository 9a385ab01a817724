package physics

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// CapsuleBox approximates a capsule standing at base with an axis-aligned box.
func CapsuleBox(base mgl64.Vec3, radius, height float64) cube.BBox {
	return cube.Box(
		base.X()-radius, base.Y(), base.Z()-radius,
		base.X()+radius, base.Y()+height, base.Z()+radius,
	)
}

func blockBox(store BlockStore, pos cube.Pos) cube.BBox {
	x, y, z := float64(pos.X()), float64(pos.Y()), float64(pos.Z())
	return cube.Box(x, y, z, x+1, y+blockHeight(store, pos), z+1)
}

type blockResult struct {
	pos cube.Pos
	box cube.BBox
}

func nearbyBlocks(aabb cube.BBox, store BlockStore) []blockResult {
	if store == nil {
		return nil
	}
	lo, hi := aabb.Min(), aabb.Max()
	minX, maxX := floorForMin(lo.X()), floorForMax(hi.X())
	minY, maxY := floorForMin(lo.Y()), floorForMax(hi.Y())
	minZ, maxZ := floorForMin(lo.Z()), floorForMax(hi.Z())

	var out []blockResult
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			for z := minZ; z <= maxZ; z++ {
				if !store.IsSolid(x, y, z) {
					continue
				}
				pos := cube.Pos{x, y, z}
				out = append(out, blockResult{pos: pos, box: blockBox(store, pos)})
			}
		}
	}
	return out
}

func CollidesWithBlock(aabb cube.BBox, store BlockStore) bool {
	for _, b := range nearbyBlocks(aabb, store) {
		if intersects(aabb, b.box) {
			return true
		}
	}
	return false
}

// ResolveMovement sweeps box by delta against the solid blocks of store, one
// axis at a time in Y, X, Z order. It returns the allowed movement and which
// axes were clipped.
func ResolveMovement(box cube.BBox, delta mgl64.Vec3, store BlockStore) (mgl64.Vec3, [3]bool) {
	var collided [3]bool
	if store == nil {
		return delta, collided
	}

	blocks := nearbyBlocks(box.Extend(delta).Grow(SkinWidth), store)
	allowed := delta
	for _, axis := range [3]int{1, 0, 2} {
		d := delta[axis]
		if nearlyZero(d) {
			allowed[axis] = 0
			continue
		}
		for _, b := range blocks {
			d = axisOffset(box, b.box, axis, d)
		}
		if !nearlyEqual(d, delta[axis]) {
			collided[axis] = true
		}
		allowed[axis] = d
		var shift mgl64.Vec3
		shift[axis] = d
		box = box.Translate(shift)
	}
	return allowed, collided
}

func axisOffset(moving, static cube.BBox, axis int, delta float64) float64 {
	mMin, mMax := moving.Min(), moving.Max()
	sMin, sMax := static.Min(), static.Max()
	for other := 0; other < 3; other++ {
		if other == axis {
			continue
		}
		if mMax[other] <= sMin[other]+CollisionAxisTolerance || mMin[other] >= sMax[other]-CollisionAxisTolerance {
			return delta
		}
	}

	if delta > 0 && mMax[axis] <= sMin[axis]+CollisionAxisTolerance {
		if gap := sMin[axis] - mMax[axis]; gap < delta {
			delta = math.Max(gap, 0)
		}
	} else if delta < 0 && mMin[axis] >= sMax[axis]-CollisionAxisTolerance {
		if gap := sMax[axis] - mMin[axis]; gap > delta {
			delta = math.Min(gap, 0)
		}
	}
	return delta
}

func floorForMin(v float64) int {
	return int(math.Floor(v + CollisionAxisTolerance))
}

func floorForMax(v float64) int {
	return int(math.Floor(v - CollisionAxisTolerance))
}

func intersects(a, b cube.BBox) bool {
	aMin, aMax := a.Min(), a.Max()
	bMin, bMax := b.Min(), b.Max()
	return aMin.X() < bMax.X() &&
		aMax.X() > bMin.X() &&
		aMin.Y() < bMax.Y() &&
		aMax.Y() > bMin.Y() &&
		aMin.Z() < bMax.Z() &&
		aMax.Z() > bMin.Z()
}
