package core

import (
	"math"
	"testing"
)

func TestGnomonicRoundTrip(t *testing.T) {
	p := NewPlanisphere(360, 180, 8)
	p.SetRadius(2000)

	tests := []struct {
		name                 string
		lon, lat             float64
		centerLon, centerLat float64
	}{
		{"equator origin", 5.0, 3.0, 0, 0},
		{"offset center", 42.5, -17.3, 40, -15},
		{"high latitude", -120.0, 65.0, -118, 63},
		{"southern hemisphere", 10.0, -50.0, 12, -48},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := p.GeoToGnomonic(tt.lon, tt.lat, tt.centerLon, tt.centerLat)
			lon, lat := p.GnomonicToGeo(x, y, tt.centerLon, tt.centerLat)
			if math.IsNaN(lon) || math.IsNaN(lat) {
				t.Fatalf("inverse returned NaN for (%v, %v)", x, y)
			}
			if math.Abs(lon-tt.lon) > 1e-6 || math.Abs(lat-tt.lat) > 1e-6 {
				t.Errorf("round trip (%v, %v) -> (%v, %v) -> (%v, %v)",
					tt.lon, tt.lat, x, y, lon, lat)
			}
		})
	}
}

func TestGnomonicCenterMapsToOrigin(t *testing.T) {
	p := NewPlanisphere(360, 180, 8)
	p.SetRadius(1000)

	x, y := p.GeoToGnomonic(30, 20, 30, 20)
	if math.Abs(x) > 1e-9 || math.Abs(y) > 1e-9 {
		t.Errorf("tangent point projected to (%v, %v), want origin", x, y)
	}

	lon, lat := p.GnomonicToGeo(0, 0, 30, 20)
	if lon != 30 || lat != 20 {
		t.Errorf("inverse of origin = (%v, %v), want center (30, 20)", lon, lat)
	}
}

func TestGnomonicInverseOutOfDomain(t *testing.T) {
	p := NewPlanisphere(360, 180, 8)
	p.SetRadius(1000)

	// Beyond the validity radius of 10 planet radii
	lon, lat := p.GnomonicToGeo(11000, 0, 0, 0)
	if !math.IsNaN(lon) || !math.IsNaN(lat) {
		t.Errorf("inverse beyond validity radius = (%v, %v), want NaN", lon, lat)
	}
}

func TestGnomonicPolarCenter(t *testing.T) {
	p := NewPlanisphere(360, 180, 8)
	p.SetRadius(1000)

	// Longitude is undefined at a polar tangent point; the inverse keeps
	// the center's longitude instead of producing garbage.
	lon, lat := p.GnomonicToGeo(0, 100, 45, 90)
	if math.IsNaN(lat) {
		t.Fatal("polar inverse returned NaN latitude")
	}
	if lon != 45 {
		t.Errorf("polar inverse longitude = %v, want center longitude 45", lon)
	}
}

func TestGnomonicAntipodalBounded(t *testing.T) {
	p := NewPlanisphere(360, 180, 8)
	p.SetRadius(1000)

	// Near-antipodal points hit the cos(c) floor: the output is large but
	// finite, never Inf or NaN.
	x, y := p.GeoToGnomonic(179, 0, 0, 0)
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		t.Errorf("near-antipodal projection = (%v, %v), want finite", x, y)
	}
}
