package main

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"planetwalk/core"
)

// tilePalette maps the ten texture atlas indices emitted by
// core.SelectTextureFromRGBA to flat colors: deepwater, dirt, drygrass,
// grass, greenstone, moss, sand, stone, snow, lava.
var tilePalette = [10]rl.Color{
	{R: 18, G: 64, B: 120, A: 255},
	{R: 121, G: 85, B: 58, A: 255},
	{R: 168, G: 152, B: 82, A: 255},
	{R: 88, G: 140, B: 60, A: 255},
	{R: 96, G: 128, B: 96, A: 255},
	{R: 70, G: 110, B: 52, A: 255},
	{R: 202, G: 178, B: 128, A: 255},
	{R: 130, G: 130, B: 130, A: 255},
	{R: 235, G: 235, B: 240, A: 255},
	{R: 200, G: 70, B: 30, A: 255},
}

// terrainTriangle is one pre-converted render triangle.
type terrainTriangle struct {
	v0, v1, v2 rl.Vector3
	color      rl.Color
}

// TerrainView converts a terrain snapshot into raylib draw data once
// per recenter. It reads the snapshot but never mutates it.
type TerrainView struct {
	snap      *core.Snapshot
	triangles []terrainTriangle
	elements  []LandscapeElement
}

// NewTerrainView precomputes per-triangle colors and float32 vertices
// from a published snapshot. Triangle order follows the mesh's index
// buffer exactly, so view triangle t, collision triangle t and
// TriangleMap[t] all name the same quad half.
func NewTerrainView(p *core.Planisphere, snap *core.Snapshot) *TerrainView {
	mesh := snap.Mesh
	view := &TerrainView{
		snap:      snap,
		triangles: make([]terrainTriangle, 0, len(mesh.TriangleMap)),
		elements:  PlaceLandscapeElements(p, snap),
	}

	for t := 0; t*3+2 < len(mesh.Indices); t++ {
		addr, ok := ResolveCell(mesh, t)
		color := rl.Magenta // visibly wrong if the map ever desyncs
		if ok {
			r, g, b, a := p.RGBAAtSubpixel(addr)
			color = tilePalette[core.SelectTextureFromRGBA(r, g, b, a)]
		}

		view.triangles = append(view.triangles, terrainTriangle{
			v0:    toRaylib(mesh.Vertices[mesh.Indices[t*3]]),
			v1:    toRaylib(mesh.Vertices[mesh.Indices[t*3+1]]),
			v2:    toRaylib(mesh.Vertices[mesh.Indices[t*3+2]]),
			color: color,
		})
	}
	return view
}

// Draw renders the terrain, brightening the two triangles of the
// highlighted cell. Triangles are drawn double sided so the flat tiles
// stay visible from below.
func (tv *TerrainView) Draw(highlight core.Address, haveHighlight bool) {
	for t, tri := range tv.triangles {
		color := tri.color
		if haveHighlight {
			if addr, ok := ResolveCell(tv.snap.Mesh, t); ok && addr == highlight {
				color = rl.Color{R: saturate(color.R), G: saturate(color.G), B: saturate(color.B), A: 255}
			}
		}
		rl.DrawTriangle3D(tri.v0, tri.v1, tri.v2, color)
		rl.DrawTriangle3D(tri.v0, tri.v2, tri.v1, color)
	}
}

// DrawElements renders landscape decorations as simple solids.
func (tv *TerrainView) DrawElements(tileSize float64) {
	s := float32(tileSize)
	for _, e := range tv.elements {
		pos := rl.Vector3{X: float32(e.Pos.X()), Y: float32(e.YOffset) * s, Z: float32(e.Pos.Z())}
		switch e.Kind {
		case LandscapeTree:
			rl.DrawCylinder(rl.Vector3{X: pos.X, Z: pos.Z}, 0.08*s, 0.12*s, float32(e.YOffset)*s, 6, rl.Brown)
			rl.DrawSphere(pos, 0.4*s, rl.DarkGreen)
		case LandscapeRock:
			rl.DrawCube(pos, 0.5*s, 0.5*s, 0.5*s, rl.Gray)
		case LandscapeStone:
			rl.DrawSphere(pos, 0.2*s, rl.LightGray)
		}
	}
}

func saturate(c uint8) uint8 {
	v := int(c) + 70
	if v > 255 {
		v = 255
	}
	return uint8(v)
}
