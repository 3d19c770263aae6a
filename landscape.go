package main

import (
	"github.com/go-gl/mathgl/mgl64"

	"planetwalk/core"
)

// LandscapeKind is a decorative surface element type.
type LandscapeKind int

const (
	LandscapeTree LandscapeKind = iota
	LandscapeRock
	LandscapeStone
)

// LandscapeElement is a decorative object anchored to a grid cell.
// Elements are recomputed from the snapshot on every recenter; their
// placement is a pure function of the cell address, so the same cell
// always grows the same tree.
type LandscapeElement struct {
	Addr    core.Address
	Kind    LandscapeKind
	Pos     mgl64.Vec3
	YOffset float64
}

// deterministicRandom hashes a cell address into [0, 1). Multiply-xor
// mixing with large primes, so neighboring cells decorrelate.
func deterministicRandom(i, j, k int) float64 {
	hash := uint64(i) * 0x9E3779B185EBCA87
	hash ^= uint64(j) * 0xC2B2AE3D27D4EB4F
	hash ^= uint64(k) * 0x165667B19E3779F9

	hash ^= hash >> 27
	hash *= 0x3C79AC492BA7B653
	hash ^= hash >> 33
	hash *= 0x1C69B3F74AC4AE35
	hash ^= hash >> 27

	return float64(hash) / float64(^uint64(0))
}

// determineLandscapeElement decides whether a cell hosts an element.
// The alpha channel picks the candidate type, the cell hash decides if
// it actually appears; spawn probabilities keep the distribution sparse.
func determineLandscapeElement(alpha float64, i, j, k int) (LandscapeKind, float64, bool) {
	var kind LandscapeKind
	var yOffset, probability float64

	switch {
	case alpha >= 0.8:
		kind, yOffset, probability = LandscapeTree, 0.6, 0.003
	case alpha >= 0.6:
		kind, yOffset, probability = LandscapeRock, 0.3, 0.006
	case alpha >= 0.3:
		kind, yOffset, probability = LandscapeStone, 0.15, 0.010
	default:
		return 0, 0, false
	}

	if deterministicRandom(i, j, k) >= probability {
		return 0, 0, false
	}
	return kind, yOffset, true
}

// PlaceLandscapeElements scans a terrain snapshot and returns the
// elements rooted in its cells, positioned at each cell's quad center
// in local-plane coordinates.
func PlaceLandscapeElements(p *core.Planisphere, snap *core.Snapshot) []LandscapeElement {
	if snap == nil || snap.Mesh == nil {
		return nil
	}

	var elements []LandscapeElement
	for c, cell := range snap.Region {
		_, _, _, alpha := p.RGBAAtSubpixel(cell.Addr)
		kind, yOffset, ok := determineLandscapeElement(alpha, cell.Addr.I, cell.Addr.J, cell.Addr.K)
		if !ok {
			continue
		}

		// Quad center: mean of the cell's four projected corners
		var center mgl64.Vec3
		for v := 0; v < 4; v++ {
			center = center.Add(snap.Mesh.Vertices[c*4+v])
		}
		center = center.Mul(0.25)

		elements = append(elements, LandscapeElement{
			Addr:    cell.Addr,
			Kind:    kind,
			Pos:     center,
			YOffset: yOffset,
		})
	}
	return elements
}
