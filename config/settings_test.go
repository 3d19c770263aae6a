package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	// No settings.json in the test directory: defaults apply
	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if s.Terrain.SubpixelDivisions != 8 {
		t.Errorf("SubpixelDivisions = %d, want 8", s.Terrain.SubpixelDivisions)
	}
	if s.Terrain.RenderDistance != 80 {
		t.Errorf("RenderDistance = %d, want 80", s.Terrain.RenderDistance)
	}
	if s.Terrain.RecreationCells != 20 {
		t.Errorf("RecreationCells = %v, want 20", s.Terrain.RecreationCells)
	}
	if s.Terrain.CooldownSeconds != 1.0 {
		t.Errorf("CooldownSeconds = %v, want 1.0", s.Terrain.CooldownSeconds)
	}
	if s.Terrain.DistanceMetric != "chebyshev" {
		t.Errorf("DistanceMetric = %q, want chebyshev", s.Terrain.DistanceMetric)
	}
	if s.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", s.Server.Port)
	}
}
