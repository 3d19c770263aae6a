package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/sirupsen/logrus"

	"planetwalk/config"
	"planetwalk/core"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load settings")
	}

	// Command line flags override settings.json
	var (
		mapPath  = flag.String("map", settings.Map.Path, "Elevation/classification map image (PNG or JPEG)")
		seed     = flag.Int64("seed", settings.Map.Seed, "Seed for the generated map when no image exists")
		radius   = flag.Float64("radius", settings.Terrain.PlanetRadius, "Planet radius in world units")
		subdiv   = flag.Int("subdiv", settings.Terrain.SubpixelDivisions, "Subpixel divisions per map pixel")
		distance = flag.Int("distance", settings.Terrain.RenderDistance, "Terrain render distance in subpixels")
		metricS  = flag.String("metric", settings.Terrain.DistanceMetric, "Region metric (manhattan, euclidean, chebyshev)")
		serve    = flag.Bool("serve", false, "Expose the websocket telemetry endpoint")
		port     = flag.Int("port", settings.Server.Port, "Telemetry server port")
		width    = flag.Int("width", 1280, "Window width")
		height   = flag.Int("height", 720, "Window height")
	)
	flag.Parse()

	metric, err := core.ParseMetric(*metricS)
	if err != nil {
		logrus.WithError(err).Fatal("Bad distance metric")
	}

	fmt.Println("=== Planet Walk ===")
	fmt.Printf("Map: %s\n", *mapPath)
	fmt.Printf("Planet radius: %.0f\n", *radius)
	fmt.Printf("Render distance: %d subpixels, metric %s\n", *distance, metric)

	planisphere := loadPlanisphere(*mapPath, *subdiv, settings.Map.Width, settings.Map.Height, *seed)
	planisphere.SetRadius(*radius)

	controller := core.NewTerrainCenter(planisphere,
		settings.Terrain.RecreationCells,
		settings.Terrain.CooldownSeconds,
		*distance, metric)

	// Root the projection on the configured start point (Greenwich/equator)
	start := planisphere.GeoToSubpixel(0, 0)
	snapshot, err := controller.Recreate(start, 0)
	if err != nil {
		logrus.WithError(err).Fatal("Initial terrain build failed")
	}

	var telemetry *TelemetryServer
	if *serve {
		telemetry = NewTelemetryServer(time.Duration(settings.Server.UpdateIntervalMs) * time.Millisecond)
		telemetry.Start(*port)
	}

	runGame(planisphere, controller, snapshot, telemetry, *width, *height)
}

// loadPlanisphere reads the map image, generating one in memory when the
// file does not exist. A file that exists but fails to decode is fatal.
func loadPlanisphere(path string, subdiv, genWidth, genHeight int, seed int64) *core.Planisphere {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logrus.WithFields(logrus.Fields{
			"width": genWidth, "height": genHeight, "seed": seed,
		}).Info("No map image found, generating one")
		img := core.GenerateElevationMap(genWidth, genHeight, seed)
		return core.PlanisphereFromImage(img, subdiv)
	}

	p, err := core.LoadElevationMap(path, subdiv)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load elevation map")
	}
	return p
}

func runGame(p *core.Planisphere, controller *core.TerrainCenter, snapshot *core.Snapshot, telemetry *TelemetryServer, width, height int) {
	rl.InitWindow(int32(width), int32(height), "planetwalk")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	player := NewPlayer(snapshot.Center)
	view := NewTerrainView(p, snapshot)
	recreations := 0

	camera := rl.Camera3D{
		Up:         rl.Vector3{Y: 1},
		Fovy:       50.0,
		Projection: rl.CameraPerspective,
	}

	startTime := time.Now()
	for !rl.WindowShouldClose() {
		dt := float64(rl.GetFrameTime())
		now := time.Since(startTime).Seconds()

		player.Update(p, snapshot.Center, dt)

		// One recenter unit per tick: select, build, publish, rebase.
		// Consumers below only ever see the finished swap.
		if decision := controller.Tick(player.Local, now); decision.Recenter {
			newSnapshot, err := controller.Recreate(decision.NewCenter, now)
			if err != nil {
				logrus.WithError(err).Error("Terrain recreation failed, keeping old terrain")
			} else {
				player.Rebase(core.RebaseOffset(player.Local))
				snapshot = newSnapshot
				view = NewTerrainView(p, snapshot)
				recreations++
			}
		}

		// Ground probe: straight down from above the player, resolved
		// through the triangle map to the cell being stood on.
		standing, haveStanding := core.Address{}, false
		origin := player.Local
		origin[1] = p.MeanTileSize * 10
		if hit, ok := RaycastMesh(snapshot.Mesh, origin, down); ok {
			standing, haveStanding = ResolveCell(snapshot.Mesh, hit.Triangle)
		}

		followCamera(&camera, player, p.MeanTileSize)

		rl.BeginDrawing()
		rl.ClearBackground(rl.SkyBlue)

		rl.BeginMode3D(camera)
		view.Draw(standing, haveStanding)
		view.DrawElements(p.MeanTileSize)
		playerPos := toRaylib(player.Local)
		playerPos.Y += float32(p.MeanTileSize) * 0.5
		rl.DrawCapsule(playerPos, rl.Vector3{X: playerPos.X, Y: playerPos.Y + float32(p.MeanTileSize), Z: playerPos.Z},
			float32(p.MeanTileSize)*0.3, 8, 8, rl.Red)
		rl.EndMode3D()

		rl.DrawFPS(10, 10)
		rl.DrawText(fmt.Sprintf("lon %.4f lat %.4f", player.Lon, player.Lat), 10, 34, 20, rl.Black)
		rl.DrawText(fmt.Sprintf("cell (%d, %d, %d)", player.Addr.I, player.Addr.J, player.Addr.K), 10, 58, 20, rl.Black)
		rl.DrawText(fmt.Sprintf("cells %d  recreations %d", snapshot.Mesh.CellCount(), recreations), 10, 82, 20, rl.Black)
		rl.EndDrawing()

		if telemetry != nil {
			telemetry.Publish(TelemetryMessage{
				Type:        "terrain_state",
				CenterLon:   snapshot.Center.Lon,
				CenterLat:   snapshot.Center.Lat,
				CenterCell:  [3]int{snapshot.Center.Addr.I, snapshot.Center.Addr.J, snapshot.Center.Addr.K},
				Cells:       snapshot.Mesh.CellCount(),
				Triangles:   len(snapshot.Mesh.TriangleMap),
				PlayerLon:   player.Lon,
				PlayerLat:   player.Lat,
				PlayerCell:  [3]int{player.Addr.I, player.Addr.J, player.Addr.K},
				Metric:      controller.Metric.String(),
				Recreations: recreations,
				Time:        now,
			})
		}
	}

	fmt.Println("Shutting down...")
}
