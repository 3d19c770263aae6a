package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newTestController(t *testing.T) (*Planisphere, *TerrainCenter, *Snapshot) {
	t.Helper()
	p := NewPlanisphere(128, 64, 4)
	p.SetRadius(2000)

	tc := NewTerrainCenter(p, 10, 1.0, 12, MetricChebyshev)
	start := p.GeoToSubpixel(0, 0)
	snap, err := tc.Recreate(start, 0)
	if err != nil {
		t.Fatalf("initial Recreate: %v", err)
	}
	return p, tc, snap
}

func TestRecreatePublishesConsistentSnapshot(t *testing.T) {
	_, tc, snap := newTestController(t)

	if tc.State() != StateStable {
		t.Errorf("state after Recreate = %v, want StateStable", tc.State())
	}
	if tc.Snapshot() != snap {
		t.Error("Snapshot() does not return the published snapshot")
	}
	if snap.Mesh == nil {
		t.Fatal("snapshot mesh is nil")
	}

	n := len(snap.Region)
	if n == 0 {
		t.Fatal("snapshot region is empty")
	}
	if len(snap.Mesh.Vertices) != 4*n || len(snap.Mesh.TriangleMap) != 2*n {
		t.Errorf("mesh and region out of sync: %d cells, %d vertices, %d map entries",
			n, len(snap.Mesh.Vertices), len(snap.Mesh.TriangleMap))
	}
	if snap.Region[0].Addr != snap.Center.Addr {
		t.Errorf("region starts at %+v, want center %+v", snap.Region[0].Addr, snap.Center.Addr)
	}
}

func TestTickBelowThresholdDoesNothing(t *testing.T) {
	p, tc, _ := newTestController(t)

	subject := mgl64.Vec3{5 * p.MeanTileSize, 0, 0}
	if d := tc.Tick(subject, 10); d.Recenter {
		t.Errorf("recenter triggered at 5 tiles with threshold 10")
	}
}

func TestTickCooldownSuppressesRecenter(t *testing.T) {
	p, tc, _ := newTestController(t)

	far := mgl64.Vec3{12 * p.MeanTileSize, 0, 0}
	if d := tc.Tick(far, 0.5); d.Recenter {
		t.Error("recenter triggered during cooldown")
	}
	if d := tc.Tick(far, 2.0); !d.Recenter {
		t.Error("recenter not triggered after cooldown")
	}
}

func TestTickRecentersOnSubjectCell(t *testing.T) {
	p, tc, snap := newTestController(t)

	subject := mgl64.Vec3{12 * p.MeanTileSize, 0, 3 * p.MeanTileSize}
	d := tc.Tick(subject, 5)
	if !d.Recenter {
		t.Fatal("recenter not triggered beyond threshold")
	}

	lon, lat := p.GnomonicToGeo(subject.X(), subject.Z(), snap.Center.Lon, snap.Center.Lat)
	if math.IsNaN(lon) || math.IsNaN(lat) {
		t.Fatal("subject position out of projection domain")
	}
	if want := p.GeoToSubpixel(lon, lat); d.NewCenter != want {
		t.Errorf("new center = %+v, want subject cell %+v", d.NewCenter, want)
	}

	// Completing the recenter publishes a snapshot rooted on that cell
	next, err := tc.Recreate(d.NewCenter, 5)
	if err != nil {
		t.Fatalf("Recreate: %v", err)
	}
	if next.Center.Addr != d.NewCenter {
		t.Errorf("snapshot center = %+v, want %+v", next.Center.Addr, d.NewCenter)
	}
	if tc.Snapshot() != next {
		t.Error("published snapshot not replaced")
	}
}

func TestTickDiagonalDistance(t *testing.T) {
	p, tc, _ := newTestController(t)

	// 8 tiles on each axis is ~11.3 tiles of planar distance, over the
	// 10-tile threshold even though neither axis alone is
	subject := mgl64.Vec3{8 * p.MeanTileSize, 0, 8 * p.MeanTileSize}
	if d := tc.Tick(subject, 5); !d.Recenter {
		t.Error("diagonal distance not measured as hypotenuse")
	}
}

func TestTickIgnoresHeight(t *testing.T) {
	p, tc, _ := newTestController(t)

	subject := mgl64.Vec3{0, 100 * p.MeanTileSize, 0}
	if d := tc.Tick(subject, 5); d.Recenter {
		t.Error("vertical offset alone triggered a recenter")
	}
}

func TestRebaseOffsetMovesSubjectToOrigin(t *testing.T) {
	subject := mgl64.Vec3{42.5, 3.0, -17.25}
	offset := RebaseOffset(subject)

	rebased := subject.Add(offset)
	if rebased.X() != 0 || rebased.Z() != 0 {
		t.Errorf("rebased subject = %+v, want planar origin", rebased)
	}
	if rebased.Y() != 3.0 {
		t.Errorf("rebased height = %v, want 3.0 (untouched)", rebased.Y())
	}
}

func TestApplyRebasePreservesRelativeOffsets(t *testing.T) {
	positions := []mgl64.Vec3{
		{10, 0, 20},
		{15, 0, 25},
	}
	before := positions[1].Sub(positions[0])

	ApplyRebase(RebaseOffset(positions[0]), positions)

	if positions[0].X() != 0 || positions[0].Z() != 0 {
		t.Errorf("first position = %+v, want planar origin", positions[0])
	}
	if after := positions[1].Sub(positions[0]); after != before {
		t.Errorf("relative offset changed: %+v -> %+v", before, after)
	}
}
