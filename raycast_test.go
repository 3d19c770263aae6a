package main

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"planetwalk/core"
)

func flatQuadMesh(addr core.Address) *core.TerrainMesh {
	return &core.TerrainMesh{
		Vertices: []mgl64.Vec3{
			{-1, 0, -1},
			{1, 0, -1},
			{1, 0, 1},
			{-1, 0, 1},
		},
		Indices:     []uint32{0, 1, 2, 0, 2, 3},
		TriangleMap: []core.Address{addr, addr},
	}
}

func TestRaycastMeshHitsQuad(t *testing.T) {
	addr := core.Address{I: 3, J: 4, K: 5}
	mesh := flatQuadMesh(addr)

	// Straight down onto the first triangle's half of the quad
	hit, ok := RaycastMesh(mesh, mgl64.Vec3{0.5, 5, -0.5}, down)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Triangle != 0 {
		t.Errorf("hit triangle %d, want 0", hit.Triangle)
	}
	if math.Abs(hit.Distance-5) > 1e-9 {
		t.Errorf("hit distance %v, want 5", hit.Distance)
	}
	if math.Abs(hit.Point.Y()) > 1e-9 {
		t.Errorf("hit point Y = %v, want 0", hit.Point.Y())
	}

	resolved, ok := ResolveCell(mesh, hit.Triangle)
	if !ok || resolved != addr {
		t.Errorf("ResolveCell = (%+v, %v), want (%+v, true)", resolved, ok, addr)
	}
}

func TestRaycastMeshSecondTriangle(t *testing.T) {
	mesh := flatQuadMesh(core.Address{})

	hit, ok := RaycastMesh(mesh, mgl64.Vec3{-0.5, 5, 0.5}, down)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Triangle != 1 {
		t.Errorf("hit triangle %d, want 1", hit.Triangle)
	}
}

func TestRaycastMeshMisses(t *testing.T) {
	mesh := flatQuadMesh(core.Address{})

	if _, ok := RaycastMesh(mesh, mgl64.Vec3{5, 5, 5}, down); ok {
		t.Error("ray outside the quad reported a hit")
	}
	// Pointing away from the quad
	if _, ok := RaycastMesh(mesh, mgl64.Vec3{0.5, 5, -0.5}, mgl64.Vec3{0, 1, 0}); ok {
		t.Error("ray pointing away reported a hit")
	}
}

func TestResolveCellFoldsOverflow(t *testing.T) {
	addr := core.Address{I: 1, J: 2, K: 3}
	mesh := flatQuadMesh(addr)

	// Indices past the map fold back via modulo
	resolved, ok := ResolveCell(mesh, 2)
	if !ok || resolved != addr {
		t.Errorf("ResolveCell(2) = (%+v, %v), want (%+v, true)", resolved, ok, addr)
	}
}

func TestResolveCellDropsInvalid(t *testing.T) {
	if _, ok := ResolveCell(nil, 0); ok {
		t.Error("nil mesh resolved")
	}
	if _, ok := ResolveCell(&core.TerrainMesh{}, 0); ok {
		t.Error("empty triangle map resolved")
	}
	if _, ok := ResolveCell(flatQuadMesh(core.Address{}), -1); ok {
		t.Error("negative triangle index resolved")
	}
}
