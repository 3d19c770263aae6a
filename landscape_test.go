package main

import (
	"testing"

	"planetwalk/core"
)

func TestDeterministicRandomStable(t *testing.T) {
	for _, c := range []core.Address{{0, 0, 0}, {1, 2, 3}, {519, 269, 63}} {
		a := deterministicRandom(c.I, c.J, c.K)
		b := deterministicRandom(c.I, c.J, c.K)
		if a != b {
			t.Errorf("hash of %+v not stable: %v != %v", c, a, b)
		}
		if a < 0 || a >= 1 {
			t.Errorf("hash of %+v = %v, outside [0, 1)", c, a)
		}
	}

	if deterministicRandom(1, 2, 3) == deterministicRandom(1, 2, 4) {
		t.Error("neighboring cells hashed identically")
	}
}

// findCellBelow scans for a cell whose hash clears a spawn probability.
func findCellBelow(t *testing.T, probability float64) (int, int, int) {
	t.Helper()
	for i := 0; i < 100000; i++ {
		if deterministicRandom(i, 7, 2) < probability {
			return i, 7, 2
		}
	}
	t.Fatalf("no cell hash below %v in search range", probability)
	return 0, 0, 0
}

func TestDetermineLandscapeElementByAlpha(t *testing.T) {
	i, j, k := findCellBelow(t, 0.003)

	tests := []struct {
		alpha    float64
		wantKind LandscapeKind
		wantY    float64
		wantOK   bool
	}{
		{0.9, LandscapeTree, 0.6, true},
		{0.8, LandscapeTree, 0.6, true},
		{0.7, LandscapeRock, 0.3, true},
		{0.5, LandscapeStone, 0.15, true},
		{0.2, 0, 0, false},
	}
	for _, tt := range tests {
		kind, y, ok := determineLandscapeElement(tt.alpha, i, j, k)
		if ok != tt.wantOK {
			t.Errorf("alpha %v: ok = %v, want %v", tt.alpha, ok, tt.wantOK)
			continue
		}
		if ok && (kind != tt.wantKind || y != tt.wantY) {
			t.Errorf("alpha %v: (%v, %v), want (%v, %v)", tt.alpha, kind, y, tt.wantKind, tt.wantY)
		}
	}
}

func TestDetermineLandscapeElementSparse(t *testing.T) {
	// With tree probability 0.003, the vast majority of cells stay empty
	spawned := 0
	for i := 0; i < 1000; i++ {
		if _, _, ok := determineLandscapeElement(0.9, i, 11, 3); ok {
			spawned++
		}
	}
	if spawned > 50 {
		t.Errorf("%d of 1000 cells spawned trees, distribution far too dense", spawned)
	}
}

func TestPlaceLandscapeElementsAnchoredToCells(t *testing.T) {
	p := core.NewPlanisphere(128, 64, 4)
	p.SetRadius(2000)

	tc := core.NewTerrainCenter(p, 10, 1.0, 20, core.MetricChebyshev)
	snap, err := tc.Recreate(p.GeoToSubpixel(0, 0), 0)
	if err != nil {
		t.Fatalf("Recreate: %v", err)
	}

	elements := PlaceLandscapeElements(p, snap)

	cells := make(map[core.Address]bool, len(snap.Region))
	for _, cell := range snap.Region {
		cells[cell.Addr] = true
	}
	for _, e := range elements {
		if !cells[e.Addr] {
			t.Errorf("element anchored to %+v, which is not in the region", e.Addr)
		}
		if e.YOffset <= 0 {
			t.Errorf("element at %+v has YOffset %v, want positive", e.Addr, e.YOffset)
		}
	}

	if PlaceLandscapeElements(p, nil) != nil {
		t.Error("nil snapshot produced elements")
	}
}
