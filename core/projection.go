package core

import "math"

// minCosC floors the angular-distance cosine in the forward projection.
// Near-antipodal input therefore produces a large but finite coordinate
// instead of a division blow-up; callers that care must apply their own
// sanity bound.
const minCosC = 0.01

// maxValidRho is the inverse projection validity radius in normalized
// (radius-relative) units.
const maxValidRho = 10.0

// GeoToGnomonic projects geographic coordinates onto the tangent plane
// touching the sphere at (centerLon, centerLat), scaled by the planet
// radius. Degrees in, world units out.
func (p *Planisphere) GeoToGnomonic(lon, lat, centerLon, centerLat float64) (x, y float64) {
	lonRad := lon * math.Pi / 180.0
	latRad := lat * math.Pi / 180.0
	centerLonRad := centerLon * math.Pi / 180.0
	centerLatRad := centerLat * math.Pi / 180.0

	cosC := math.Sin(latRad)*math.Sin(centerLatRad) +
		math.Cos(latRad)*math.Cos(centerLatRad)*math.Cos(lonRad-centerLonRad)
	if cosC < minCosC {
		cosC = minCosC
	}

	x = p.Radius * math.Cos(latRad) * math.Sin(lonRad-centerLonRad) / cosC
	y = p.Radius * (math.Sin(latRad)*math.Cos(centerLatRad) -
		math.Cos(latRad)*math.Sin(centerLatRad)*math.Cos(lonRad-centerLonRad)) / cosC
	return x, y
}

// GnomonicToGeo inverts the gnomonic projection. It returns (NaN, NaN)
// when the point lies beyond the projection's validity radius or the
// recovered coordinates fall outside geographic bounds; callers must
// check math.IsNaN before use. This is an expected outcome for points
// far from the tangent point, not an error.
func GnomonicToGeo(x, y, centerLon, centerLat, planetRadius float64) (lon, lat float64) {
	centerLonRad := centerLon * math.Pi / 180.0
	centerLatRad := centerLat * math.Pi / 180.0

	if math.Sqrt(x*x+y*y) < 1e-10 {
		return centerLon, centerLat
	}

	xNorm := x / planetRadius
	yNorm := y / planetRadius
	rho := math.Sqrt(xNorm*xNorm + yNorm*yNorm)
	if rho > maxValidRho {
		return math.NaN(), math.NaN()
	}

	c := math.Atan(rho)
	cosC := math.Cos(c)
	sinC := math.Sin(c)

	latNumerator := cosC*math.Sin(centerLatRad) + yNorm*sinC*math.Cos(centerLatRad)/rho
	if latNumerator > 1 {
		latNumerator = 1
	} else if latNumerator < -1 {
		latNumerator = -1
	}
	latRad := math.Asin(latNumerator)

	var lonRad float64
	if math.Abs(math.Cos(centerLatRad)) < 1e-10 {
		// Polar projection center: longitude is undefined, keep the center's
		lonRad = centerLonRad
	} else {
		denominator := rho*math.Cos(centerLatRad)*cosC - yNorm*math.Sin(centerLatRad)*sinC
		if math.Abs(denominator) < 1e-10 {
			lonRad = centerLonRad
		} else {
			lonRad = centerLonRad + math.Atan(xNorm*sinC/denominator)
		}
	}

	lon = lonRad * 180.0 / math.Pi
	lat = latRad * 180.0 / math.Pi

	if !math.IsInf(lon, 0) && !math.IsNaN(lon) && !math.IsInf(lat, 0) && !math.IsNaN(lat) &&
		lat >= -90.0 && lat <= 90.0 && lon >= -180.0 && lon <= 180.0 {
		return lon, lat
	}
	return math.NaN(), math.NaN()
}

// GnomonicToGeo is the method form using the planisphere's radius.
func (p *Planisphere) GnomonicToGeo(x, y, centerLon, centerLat float64) (lon, lat float64) {
	return GnomonicToGeo(x, y, centerLon, centerLat, p.Radius)
}
