package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
)

// RecenterState tracks whether a terrain rebuild is in progress.
type RecenterState int

const (
	StateStable RecenterState = iota
	StateRecreating
)

// ProjectionCenter is the tangent point of the projection currently in
// effect. Centers are replaced, never mutated: every recenter publishes
// a fresh value.
type ProjectionCenter struct {
	Lon, Lat float64
	Addr     Address
}

// Snapshot bundles everything recomputed by a recenter: the new center,
// the selected region and the projected mesh. The three are swapped in
// together; consumers must never see a new mesh with an old triangle
// map.
type Snapshot struct {
	Center ProjectionCenter
	Region []RegionCell
	Mesh   *TerrainMesh
}

// RecenterDecision is the outcome of a Tick.
type RecenterDecision struct {
	Recenter  bool
	NewCenter Address
}

// TerrainCenter owns the projection center and decides when the tracked
// subject has wandered far enough to re-root the projection. Tick-driven
// and single-threaded like the rest of the core.
type TerrainCenter struct {
	// RecreationCells is the trigger distance from the center, in
	// multiples of MeanTileSize.
	RecreationCells float64
	// CooldownSeconds throttles consecutive recreations.
	CooldownSeconds float64
	// RenderDistance is the subpixel radius handed to SelectRegion.
	RenderDistance int
	Metric         DistanceMetric

	p              *Planisphere
	state          RecenterState
	lastRecreation float64
	snapshot       *Snapshot
}

// NewTerrainCenter creates a controller with no terrain built yet; call
// Recreate with the initial center before the first frame.
func NewTerrainCenter(p *Planisphere, recreationCells, cooldownSeconds float64, renderDistance int, metric DistanceMetric) *TerrainCenter {
	return &TerrainCenter{
		RecreationCells: recreationCells,
		CooldownSeconds: cooldownSeconds,
		RenderDistance:  renderDistance,
		Metric:          metric,
		p:               p,
		state:           StateStable,
		lastRecreation:  -math.MaxFloat64,
	}
}

// Snapshot returns the currently published terrain snapshot, or nil
// before the first Recreate.
func (tc *TerrainCenter) Snapshot() *Snapshot {
	return tc.snapshot
}

// State returns the controller state.
func (tc *TerrainCenter) State() RecenterState {
	return tc.state
}

// Tick checks the subject's local-plane distance from the projection
// center (which sits at local origin) against the recreation threshold.
// A recenter is requested only when the distance in tile units exceeds
// RecreationCells and the cooldown has elapsed. The new center is the
// cell the subject occupies right now, recovered through the inverse
// projection.
func (tc *TerrainCenter) Tick(subjectLocal mgl64.Vec3, now float64) RecenterDecision {
	if tc.snapshot == nil || tc.state != StateStable {
		return RecenterDecision{}
	}
	if now-tc.lastRecreation < tc.CooldownSeconds {
		return RecenterDecision{}
	}

	planar := math.Hypot(subjectLocal.X(), subjectLocal.Z())
	if tc.p.MeanTileSize <= 0 || planar/tc.p.MeanTileSize <= tc.RecreationCells {
		return RecenterDecision{}
	}

	center := tc.snapshot.Center
	lon, lat := tc.p.GnomonicToGeo(subjectLocal.X(), subjectLocal.Z(), center.Lon, center.Lat)
	if math.IsNaN(lon) || math.IsNaN(lat) {
		// Subject is outside the projection's valid domain; skip this
		// frame rather than recenter onto garbage.
		return RecenterDecision{}
	}

	return RecenterDecision{Recenter: true, NewCenter: tc.p.GeoToSubpixel(lon, lat)}
}

// Recreate selects a region around addr, builds the mesh and swaps the
// published snapshot. Selection, mesh build and center replacement
// complete before the new snapshot becomes visible, so consumers always
// read mesh and triangle map from the same generation.
//
// An empty selection cannot happen (the center cell is always included)
// but is guarded anyway: the fallback is a minimal single-cell region,
// never an absent mesh.
func (tc *TerrainCenter) Recreate(addr Address, now float64) (*Snapshot, error) {
	tc.state = StateRecreating
	defer func() { tc.state = StateStable }()

	lon, lat := tc.p.SubpixelToGeo(addr)
	region := tc.p.SelectRegion(addr, tc.RenderDistance, tc.Metric)
	if len(region) == 0 {
		logrus.WithFields(logrus.Fields{
			"i": addr.I, "j": addr.J, "k": addr.K,
		}).Error("Region selection returned no cells, falling back to center cell")
		region = []RegionCell{{addr, tc.p.SubpixelCorners(addr)}}
	}

	mesh, err := BuildGnomonicMesh(tc.p, region, lon, lat)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		Center: ProjectionCenter{Lon: lon, Lat: lat, Addr: addr},
		Region: region,
		Mesh:   mesh,
	}
	tc.snapshot = snapshot
	tc.lastRecreation = now

	logrus.WithFields(logrus.Fields{
		"lon":   lon,
		"lat":   lat,
		"cells": len(region),
	}).Info("Terrain recreated")
	return snapshot, nil
}

// RebaseOffset returns the translation that moves the subject to the
// local-plane origin. Applied to every tracked position in the same
// frame as the snapshot swap, it preserves all relative offsets while
// the subject ends up exactly on the new projection center. Height is
// left alone.
func RebaseOffset(subjectLocal mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{-subjectLocal.X(), 0, -subjectLocal.Z()}
}

// ApplyRebase shifts tracked local positions in place by offset.
func ApplyRebase(offset mgl64.Vec3, positions []mgl64.Vec3) {
	for i := range positions {
		positions[i] = positions[i].Add(offset)
	}
}
