package main

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"planetwalk/core"
)

// Player is the tracked subject walking the local tangent plane. Local
// is its position relative to the current projection center; Lon/Lat
// and Addr are kept in sync through the inverse projection each frame.
type Player struct {
	Local mgl64.Vec3
	// SpeedTiles is walking speed in tiles per second.
	SpeedTiles float64

	Lon, Lat float64
	Addr     core.Address
}

// NewPlayer places the player on the projection center.
func NewPlayer(center core.ProjectionCenter) *Player {
	return &Player{
		SpeedTiles: 6.0,
		Lon:        center.Lon,
		Lat:        center.Lat,
		Addr:       center.Addr,
	}
}

// Update applies WASD movement in the local plane and re-derives the
// player's geographic position from the current projection center. When
// the inverse projection reports out-of-domain (NaN), the previous
// geographic fix is kept for this frame.
func (pl *Player) Update(p *core.Planisphere, center core.ProjectionCenter, dt float64) {
	var move mgl64.Vec3
	if rl.IsKeyDown(rl.KeyW) {
		move[2] += 1 // north
	}
	if rl.IsKeyDown(rl.KeyS) {
		move[2] -= 1
	}
	if rl.IsKeyDown(rl.KeyD) {
		move[0] += 1 // east
	}
	if rl.IsKeyDown(rl.KeyA) {
		move[0] -= 1
	}

	if move.Len() > 0 {
		step := pl.SpeedTiles * p.MeanTileSize * dt
		pl.Local = pl.Local.Add(move.Normalize().Mul(step))
	}

	lon, lat := p.GnomonicToGeo(pl.Local.X(), pl.Local.Z(), center.Lon, center.Lat)
	if !math.IsNaN(lon) && !math.IsNaN(lat) {
		pl.Lon = lon
		pl.Lat = lat
		pl.Addr = p.GeoToSubpixel(lon, lat)
	}
}

// Rebase shifts the player by the recenter offset; afterwards the
// player sits at the local origin.
func (pl *Player) Rebase(offset mgl64.Vec3) {
	pl.Local = pl.Local.Add(offset)
}

// followCamera keeps a third-person camera behind and above the player.
func followCamera(camera *rl.Camera3D, pl *Player, tileSize float64) {
	s := float32(tileSize)
	target := toRaylib(pl.Local)
	camera.Target = target
	camera.Position = rl.Vector3{
		X: target.X,
		Y: target.Y + 14*s,
		Z: target.Z - 10*s,
	}
}

func toRaylib(v mgl64.Vec3) rl.Vector3 {
	return rl.Vector3{X: float32(v.X()), Y: float32(v.Y()), Z: float32(v.Z())}
}
