package core

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// AtlasSize is the per-side tile count of the texture atlas (16x16 grid).
const AtlasSize = 16

// ErrEmptyRegion reports a region selection with no cells. SelectRegion
// always includes the center, so seeing this means an internal invariant
// broke; callers fall back to a single-cell region.
var ErrEmptyRegion = errors.New("region contains no cells")

// TerrainMesh is a flat tangent-plane mesh built from a selected region,
// plus the parallel triangle-to-cell map. Meshes are built whole and
// replaced whole on recenter; treat a mesh as an immutable snapshot.
//
// Counts are fixed per cell: 4 vertices, 6 indices (two triangles with
// winding 0,1,2 / 0,2,3), 4 UVs and 2 TriangleMap entries. Triangle t of
// Indices was emitted by cell TriangleMap[t]. Any collision structure
// built from this mesh must preserve the triangle order and count of
// Indices, or triangle indices reported back by raycasts will no longer
// line up with TriangleMap.
type TerrainMesh struct {
	CenterLon float64
	CenterLat float64

	// Vertices lie in the tangent plane: X east, Z south, Y always 0.
	Vertices []mgl64.Vec3
	Indices  []uint32
	// UVs address the cell's tile in the 16x16 texture atlas.
	UVs         []mgl64.Vec2
	TriangleMap []Address
}

// CellCount returns the number of quads in the mesh.
func (m *TerrainMesh) CellCount() int {
	return len(m.TriangleMap) / 2
}

// BuildGnomonicMesh projects a selected region onto the tangent plane at
// (centerLon, centerLat) and emits one textured quad per cell, in region
// order. Pure transform: no shared state is touched.
func BuildGnomonicMesh(p *Planisphere, region []RegionCell, centerLon, centerLat float64) (*TerrainMesh, error) {
	if len(region) == 0 {
		return nil, ErrEmptyRegion
	}

	mesh := &TerrainMesh{
		CenterLon:   centerLon,
		CenterLat:   centerLat,
		Vertices:    make([]mgl64.Vec3, 0, len(region)*4),
		Indices:     make([]uint32, 0, len(region)*6),
		UVs:         make([]mgl64.Vec2, 0, len(region)*4),
		TriangleMap: make([]Address, 0, len(region)*2),
	}

	for _, cell := range region {
		base := uint32(len(mesh.Vertices))

		// Corner order: top-left, top-right, bottom-right, bottom-left
		for _, corner := range cell.Corners {
			x, y := p.GeoToGnomonic(corner.Lon, corner.Lat, centerLon, centerLat)
			mesh.Vertices = append(mesh.Vertices, mgl64.Vec3{x, 0, y})
		}

		r, g, b, a := p.RGBAAtSubpixel(cell.Addr)
		tileU, tileV, tileSize := atlasTile(SelectTextureFromRGBA(r, g, b, a))
		mesh.UVs = append(mesh.UVs,
			mgl64.Vec2{tileU, tileV},
			mgl64.Vec2{tileU + tileSize, tileV},
			mgl64.Vec2{tileU + tileSize, tileV + tileSize},
			mgl64.Vec2{tileU, tileV + tileSize},
		)

		mesh.Indices = append(mesh.Indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)

		// Both triangles of the quad resolve to the same cell
		mesh.TriangleMap = append(mesh.TriangleMap, cell.Addr, cell.Addr)
	}

	return mesh, nil
}

// SelectTextureFromRGBA maps a cell's color to a texture atlas tile.
// Only the red channel participates: ten fixed thresholds at 0.1 steps
// select tiles 0 through 9. Deliberately simple, not data-driven; the
// other channels stay available for later classification layers.
func SelectTextureFromRGBA(red, _, _, _ float64) int {
	switch {
	case red < 0.1:
		return 0
	case red < 0.2:
		return 1
	case red < 0.3:
		return 2
	case red < 0.4:
		return 3
	case red < 0.5:
		return 4
	case red < 0.6:
		return 5
	case red < 0.7:
		return 6
	case red < 0.8:
		return 7
	case red < 0.9:
		return 8
	default:
		return 9
	}
}

// atlasTile returns the UV origin and edge size of an atlas tile.
func atlasTile(tileIndex int) (u, v, size float64) {
	size = 1.0 / AtlasSize
	u = float64(tileIndex%AtlasSize) * size
	v = float64(tileIndex/AtlasSize) * size
	return u, v, size
}
