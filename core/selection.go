package core

import (
	"fmt"
	"math"
	"strings"
)

// DistanceMetric selects the cell pattern returned by SelectRegion.
type DistanceMetric int

const (
	// MetricManhattan sums per-axis subpixel steps, giving a diamond
	// pattern. Historical default.
	MetricManhattan DistanceMetric = iota
	// MetricEuclidean measures straight-line distance in continuous
	// subpixel coordinates, giving a circular pattern.
	MetricEuclidean
	// MetricChebyshev returns the latitude-corrected bounding rectangle.
	// The per-cell max(|dx|,|dy|) check is intentionally not applied; the
	// rectangle itself is the contract. See SelectRegion.
	MetricChebyshev
)

func (m DistanceMetric) String() string {
	switch m {
	case MetricManhattan:
		return "manhattan"
	case MetricEuclidean:
		return "euclidean"
	case MetricChebyshev:
		return "chebyshev"
	}
	return fmt.Sprintf("DistanceMetric(%d)", int(m))
}

// ParseMetric maps a settings string to a DistanceMetric.
func ParseMetric(s string) (DistanceMetric, error) {
	switch strings.ToLower(s) {
	case "manhattan":
		return MetricManhattan, nil
	case "euclidean":
		return MetricEuclidean, nil
	case "chebyshev", "rectangular":
		return MetricChebyshev, nil
	}
	return MetricManhattan, fmt.Errorf("unknown distance metric %q", s)
}

// RegionCell is a selected cell together with its four geographic
// corners in clockwise order (top-left, top-right, bottom-right,
// bottom-left). Corners are derived on selection, never stored.
type RegionCell struct {
	Addr    Address
	Corners [4]GeoPoint
}

// SubpixelsInRectangle enumerates every subpixel of the pixels in the
// inclusive box [minI, maxI] x [minJ, maxJ]. Column indices wrap modulo
// the map width; rows outside [0, HeightPixels) are skipped. Each pixel
// contributes LonSubdivisions(row latitude) * SubpixelDivisions cells.
func (p *Planisphere) SubpixelsInRectangle(minI, maxI, minJ, maxJ int) []RegionCell {
	approx := (maxI - minI + 1) * (maxJ - minJ + 1) * p.SubpixelDivisions * p.SubpixelDivisions
	if approx < 0 {
		approx = 0
	}
	result := make([]RegionCell, 0, approx)

	for rawI := minI; rawI <= maxI; rawI++ {
		i := wrapIndex(rawI, p.WidthPixels)
		for j := minJ; j <= maxJ; j++ {
			if j < 0 || j >= p.HeightPixels {
				continue
			}
			lonSubdivisions := p.LonSubdivisions(p.PixelLatitude(j))
			for subI := 0; subI < lonSubdivisions; subI++ {
				for subJ := 0; subJ < p.SubpixelDivisions; subJ++ {
					addr := Address{i, j, subI*p.SubpixelDivisions + subJ}
					result = append(result, RegionCell{addr, p.SubpixelCorners(addr)})
				}
			}
		}
	}
	return result
}

// SelectRegion enumerates the cells within maxDistance subpixel steps of
// center under the chosen metric. The center cell is always the first
// element of the result.
//
// Chebyshev deliberately skips the distance filter and returns the whole
// bounding rectangle: the box is already latitude-corrected per axis
// (wider in longitude at the equator, narrower at the poles), and
// production terrain has always been built from the full rectangle.
func (p *Planisphere) SelectRegion(center Address, maxDistance int, metric DistanceMetric) []RegionCell {
	switch metric {
	case MetricEuclidean:
		return p.selectEuclidean(center, maxDistance)
	case MetricChebyshev:
		return p.selectRectangle(center, maxDistance)
	default:
		return p.selectManhattan(center, maxDistance)
	}
}

// searchBox returns the candidate cells around center for a symmetric
// pixel radius, with the center cell already placed first.
func (p *Planisphere) searchBox(center Address, radiusX, radiusY int) []RegionCell {
	minI := 0
	if center.I > radiusX {
		minI = center.I - radiusX
	}
	maxI := center.I + radiusX
	minJ := 0
	if center.J > radiusY {
		minJ = center.J - radiusY
	}
	maxJ := center.J + radiusY
	if maxJ > p.HeightPixels-1 {
		maxJ = p.HeightPixels - 1
	}

	candidates := p.SubpixelsInRectangle(minI, maxI, minJ, maxJ)
	result := make([]RegionCell, 0, len(candidates)+1)
	result = append(result, RegionCell{center, p.SubpixelCorners(center)})
	return append(result, candidates...)
}

// selectManhattan keeps cells whose per-axis subpixel step count sums to
// at most maxDistance: the diamond pattern. Step counts across a pixel
// boundary use the subdivision count of the pixel being exited or
// entered, so the metric tracks the latitude correction.
func (p *Planisphere) selectManhattan(center Address, maxDistance int) []RegionCell {
	radius := maxDistance/p.SubpixelDivisions + 1
	box := p.searchBox(center, radius, radius)

	centerSubI := center.K / p.SubpixelDivisions
	centerSubJ := center.K % p.SubpixelDivisions
	centerLonSubdivisions := p.LonSubdivisions(p.PixelLatitude(center.J))

	result := box[:1]
	for _, cell := range box[1:] {
		if cell.Addr == center {
			continue
		}
		subI := cell.Addr.K / p.SubpixelDivisions
		subJ := cell.Addr.K % p.SubpixelDivisions

		distI := absInt(cell.Addr.I - center.I)
		distJ := absInt(cell.Addr.J - center.J)

		steps := 0
		if cell.Addr.I != center.I {
			if cell.Addr.I > center.I {
				// exiting the center pixel eastward, entering from the west
				steps += (centerLonSubdivisions - centerSubI) + subI
			} else {
				cellLonSubdivisions := p.LonSubdivisions(p.PixelLatitude(cell.Addr.J))
				steps += centerSubI + (cellLonSubdivisions - subI)
			}
			if distI > 1 {
				steps += (distI - 1) * p.SubpixelDivisions
			}
		} else {
			steps += absInt(subI - centerSubI)
		}

		if cell.Addr.J != center.J {
			if cell.Addr.J > center.J {
				steps += (p.SubpixelDivisions - centerSubJ) + subJ
			} else {
				steps += centerSubJ + (p.SubpixelDivisions - subJ)
			}
			if distJ > 1 {
				steps += (distJ - 1) * p.SubpixelDivisions
			}
		} else {
			steps += absInt(subJ - centerSubJ)
		}

		if steps <= maxDistance {
			result = append(result, cell)
		}
	}
	return result
}

// selectEuclidean keeps cells whose continuous-coordinate straight-line
// distance is within maxDistance: the circular pattern. The pixel search
// box is padded by one extra pixel so the circle is never truncated.
func (p *Planisphere) selectEuclidean(center Address, maxDistance int) []RegionCell {
	radius := maxDistance/p.SubpixelDivisions + 2
	box := p.searchBox(center, radius, radius)

	centerX, centerY := p.continuousCoord(center)

	result := box[:1]
	for _, cell := range box[1:] {
		if cell.Addr == center {
			continue
		}
		x, y := p.continuousCoord(cell.Addr)
		dx := x - centerX
		dy := y - centerY
		if math.Sqrt(dx*dx+dy*dy) <= float64(maxDistance) {
			result = append(result, cell)
		}
	}
	return result
}

// selectRectangle returns the full bounding rectangle around center with
// per-axis pixel radii adjusted by the longitude subdivision count at
// the center's latitude. The Chebyshev distance of each candidate is
// computed but not applied as a filter; see SelectRegion.
func (p *Planisphere) selectRectangle(center Address, maxDistance int) []RegionCell {
	_, latitude := p.SubpixelToGeo(center)
	radiusY := maxDistance/p.SubpixelDivisions + 1
	radiusX := maxDistance/p.LonSubdivisions(latitude) + 1
	box := p.searchBox(center, radiusX, radiusY)

	centerX, centerY := p.continuousCoord(center)

	result := box[:1]
	for _, cell := range box[1:] {
		if cell.Addr == center {
			continue
		}
		x, y := p.continuousCoord(cell.Addr)
		_ = math.Max(math.Abs(x-centerX), math.Abs(y-centerY)) // filter disabled, rectangle is the contract
		result = append(result, cell)
	}
	return result
}

// continuousCoord flattens an address into continuous subpixel
// coordinates (pixel*S + sub) for distance calculations.
func (p *Planisphere) continuousCoord(addr Address) (x, y float64) {
	subI := addr.K / p.SubpixelDivisions
	subJ := addr.K % p.SubpixelDivisions
	x = float64(addr.I*p.SubpixelDivisions + subI)
	y = float64(addr.J*p.SubpixelDivisions + subJ)
	return x, y
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
