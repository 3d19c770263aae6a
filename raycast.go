package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"planetwalk/core"
)

// down is the ground-probe direction.
var down = mgl64.Vec3{0, -1, 0}

// TriangleHit is the nearest triangle intersected by a ray, identified
// by its position in the mesh's emission order.
type TriangleHit struct {
	Triangle int
	Distance float64
	Point    mgl64.Vec3
}

// RaycastMesh walks the mesh's own index buffer in emission order, so a
// hit's triangle number indexes TriangleMap directly. Keeping collision
// and mapping on the same triangle list is what makes cell lookups
// reliable; a collision backend that reorders triangles would break the
// correspondence.
func RaycastMesh(mesh *core.TerrainMesh, origin, dir mgl64.Vec3) (TriangleHit, bool) {
	best := TriangleHit{Triangle: -1, Distance: math.MaxFloat64}

	for t := 0; t*3+2 < len(mesh.Indices); t++ {
		v0 := mesh.Vertices[mesh.Indices[t*3]]
		v1 := mesh.Vertices[mesh.Indices[t*3+1]]
		v2 := mesh.Vertices[mesh.Indices[t*3+2]]

		if dist, ok := intersectTriangle(origin, dir, v0, v1, v2); ok && dist < best.Distance {
			best = TriangleHit{
				Triangle: t,
				Distance: dist,
				Point:    origin.Add(dir.Mul(dist)),
			}
		}
	}

	return best, best.Triangle >= 0
}

// ResolveCell maps a hit triangle index to the grid cell that emitted
// it. An index past the end of the map is first folded back via modulo
// (the historical correction for misaligned collision backends); if the
// map is empty the lookup is dropped for this frame instead of failing
// upward.
func ResolveCell(mesh *core.TerrainMesh, triangle int) (core.Address, bool) {
	if mesh == nil || len(mesh.TriangleMap) == 0 || triangle < 0 {
		return core.Address{}, false
	}
	if triangle >= len(mesh.TriangleMap) {
		triangle %= len(mesh.TriangleMap)
	}
	return mesh.TriangleMap[triangle], true
}

// intersectTriangle is the Moller-Trumbore ray/triangle test. Returns
// the ray parameter of the hit; backface hits count, parallel rays and
// hits behind the origin do not.
func intersectTriangle(origin, dir, v0, v1, v2 mgl64.Vec3) (float64, bool) {
	const epsilon = 1e-9

	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)

	h := dir.Cross(edge2)
	a := edge1.Dot(h)
	if math.Abs(a) < epsilon {
		return 0, false
	}

	f := 1.0 / a
	s := origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	if t < epsilon {
		return 0, false
	}
	return t, true
}
