package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Settings struct {
	Terrain TerrainSettings `json:"terrain"`
	Map     MapSettings     `json:"map"`
	Server  ServerSettings  `json:"server"`
}

type TerrainSettings struct {
	SubpixelDivisions int     `json:"subpixelDivisions"`
	PlanetRadius      float64 `json:"planetRadius"`
	RenderDistance    int     `json:"renderDistance"`
	RecreationCells   float64 `json:"recreationCells"`
	CooldownSeconds   float64 `json:"cooldownSeconds"`
	DistanceMetric    string  `json:"distanceMetric"`
}

type MapSettings struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Seed   int64  `json:"seed"`
}

type ServerSettings struct {
	Port             int `json:"port"`
	UpdateIntervalMs int `json:"updateIntervalMs"`
}

// Load reads settings.json from the working directory, falling back to
// defaults when the file does not exist.
func Load() (Settings, error) {
	// Set defaults
	s := Settings{
		Terrain: TerrainSettings{
			SubpixelDivisions: 8,
			PlanetRadius:      2000.0,
			RenderDistance:    80,
			RecreationCells:   20, // render distance / 4
			CooldownSeconds:   1.0,
			DistanceMetric:    "chebyshev",
		},
		Map: MapSettings{
			Path:   "assets/maps/sphere_texture.png",
			Width:  520,
			Height: 270,
			Seed:   42,
		},
		Server: ServerSettings{
			Port:             8080,
			UpdateIntervalMs: 500,
		},
	}

	// Try to load from file
	file, err := os.Open("settings.json")
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No settings.json found, using defaults")
			return s, nil
		}
		return s, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&s); err != nil {
		return s, fmt.Errorf("error parsing settings.json: %v", err)
	}

	fmt.Printf("Loaded settings: %d subpixel divisions, render distance %d\n",
		s.Terrain.SubpixelDivisions, s.Terrain.RenderDistance)

	return s, nil
}
