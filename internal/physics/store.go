package physics

import (
	"strings"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// Layer classifies a solid block for world queries.
type Layer uint32

const (
	LayerGround Layer = 1 << iota
	LayerProp
	LayerTrigger
)

// LayerMask selects the layers a query reports hits on.
type LayerMask uint32

const AllLayers LayerMask = LayerMask(LayerGround | LayerProp)

func (m LayerMask) Has(l Layer) bool {
	return uint32(m)&uint32(l) != 0
}

// ParseLayers builds a mask from layer names. Unknown names are returned separately.
func ParseLayers(names []string) (LayerMask, []string) {
	var (
		mask    LayerMask
		unknown []string
	)
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "ground":
			mask |= LayerMask(LayerGround)
		case "prop":
			mask |= LayerMask(LayerProp)
		case "trigger":
			mask |= LayerMask(LayerTrigger)
		default:
			unknown = append(unknown, name)
		}
	}
	return mask, unknown
}

type BlockStore interface {
	IsSolid(x, y, z int) bool
}

// LayerStore is implemented by block stores that tag blocks with layers.
// Solid blocks of stores without it are treated as LayerGround.
type LayerStore interface {
	LayerAt(x, y, z int) Layer
}

// ShapeStore is implemented by block stores with blocks shorter than a full
// cube. HeightAt returns the top of the block in (0, 1].
type ShapeStore interface {
	HeightAt(x, y, z int) float64
}

// SlopeStore is implemented by block stores that carry surface normals for
// blocks whose walkable face is not flat, e.g. ramp tiles.
type SlopeStore interface {
	NormalAt(x, y, z int) (mgl64.Vec3, bool)
}

func layerAt(store BlockStore, pos cube.Pos) Layer {
	if ls, ok := store.(LayerStore); ok {
		return ls.LayerAt(pos.X(), pos.Y(), pos.Z())
	}
	return LayerGround
}

func surfaceNormal(store BlockStore, pos cube.Pos, fallback mgl64.Vec3) mgl64.Vec3 {
	if ss, ok := store.(SlopeStore); ok {
		if n, ok := ss.NormalAt(pos.X(), pos.Y(), pos.Z()); ok && n.Len() > 0 {
			return n.Normalize()
		}
	}
	return fallback
}

func blockHeight(store BlockStore, pos cube.Pos) float64 {
	if ss, ok := store.(ShapeStore); ok {
		if h := ss.HeightAt(pos.X(), pos.Y(), pos.Z()); h > 0 && h < 1 {
			return h
		}
	}
	return 1
}

type gridCell struct {
	layer  Layer
	normal mgl64.Vec3
	sloped bool
	height float64
}

// Grid is an in-memory block store keyed by block position.
type Grid struct {
	cells map[cube.Pos]gridCell
}

func NewGrid() *Grid {
	return &Grid{cells: make(map[cube.Pos]gridCell)}
}

// Set marks a block solid on the given layer. LayerTrigger blocks are never
// solid for collision but remain visible to LayerAt.
func (g *Grid) Set(x, y, z int, layer Layer) {
	g.cells[cube.Pos{x, y, z}] = gridCell{layer: layer}
}

// SetSlope marks a ground block whose top surface reports the given normal.
func (g *Grid) SetSlope(x, y, z int, normal mgl64.Vec3) {
	g.cells[cube.Pos{x, y, z}] = gridCell{layer: LayerGround, normal: normal.Normalize(), sloped: true}
}

// SetSlab marks a ground block whose top sits at the given fraction of a block.
func (g *Grid) SetSlab(x, y, z int, height float64) {
	g.cells[cube.Pos{x, y, z}] = gridCell{layer: LayerGround, height: height}
}

func (g *Grid) Clear(x, y, z int) {
	delete(g.cells, cube.Pos{x, y, z})
}

// Fill sets every block in the inclusive box.
func (g *Grid) Fill(minX, minY, minZ, maxX, maxY, maxZ int, layer Layer) {
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				g.Set(x, y, z, layer)
			}
		}
	}
}

func (g *Grid) IsSolid(x, y, z int) bool {
	c, ok := g.cells[cube.Pos{x, y, z}]
	return ok && c.layer != LayerTrigger
}

func (g *Grid) LayerAt(x, y, z int) Layer {
	return g.cells[cube.Pos{x, y, z}].layer
}

func (g *Grid) HeightAt(x, y, z int) float64 {
	c, ok := g.cells[cube.Pos{x, y, z}]
	if !ok || c.height <= 0 {
		return 1
	}
	return c.height
}

func (g *Grid) NormalAt(x, y, z int) (mgl64.Vec3, bool) {
	c, ok := g.cells[cube.Pos{x, y, z}]
	if !ok || !c.sloped {
		return mgl64.Vec3{}, false
	}
	return c.normal, true
}
