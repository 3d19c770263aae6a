package core

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/sirupsen/logrus"
)

// SeaLevel is the normalized elevation below which a pixel counts as sea.
const SeaLevel = 0.3

// Address identifies one cell of the planisphere grid: pixel column I in
// [0, WidthPixels), pixel row J in [0, HeightPixels), and composite
// subpixel index K = subI*SubpixelDivisions + subJ inside that pixel.
// J grows northward: row 0 is the south pole edge.
type Address struct {
	I, J, K int
}

// GeoPoint is a geographic position in degrees, longitude in [-180, 180)
// and latitude in [-90, 90].
type GeoPoint struct {
	Lon, Lat float64
}

// Planisphere holds the planet raster and performs every conversion
// between geographic coordinates, grid addresses and the local tangent
// plane. All arrays are immutable after load and safe to share.
type Planisphere struct {
	WidthPixels       int
	HeightPixels      int
	SubpixelDivisions int
	// Radius scales the gnomonic projection to world units.
	Radius float64
	// MeanTileSize is the world-unit edge length of a subpixel at the
	// grid center, recomputed by SetRadius.
	MeanTileSize float64

	elevation []float64 // normalized 0..1, luma of the source image
	sea       []bool    // elevation < SeaLevel
	red       []float64
	green     []float64
	blue      []float64
	alpha     []float64
}

// NewPlanisphere creates an empty planisphere with the given grid size.
func NewPlanisphere(widthPixels, heightPixels, subpixelDivisions int) *Planisphere {
	n := widthPixels * heightPixels
	p := &Planisphere{
		WidthPixels:       widthPixels,
		HeightPixels:      heightPixels,
		SubpixelDivisions: subpixelDivisions,
		Radius:            1.0,
		elevation:         make([]float64, n),
		sea:               make([]bool, n),
		red:               make([]float64, n),
		green:             make([]float64, n),
		blue:              make([]float64, n),
		alpha:             make([]float64, n),
	}
	for i := range p.alpha {
		p.alpha[i] = 1.0
	}
	return p
}

// LoadElevationMap decodes an elevation/classification image and builds a
// planisphere from it. Grayscale luma drives elevation, RGBA drives
// surface classification. Decoding failure is fatal to startup.
func LoadElevationMap(path string, subpixelDivisions int) (*Planisphere, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open elevation map %s: %w", path, err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode elevation map %s: %w", path, err)
	}
	logrus.WithFields(logrus.Fields{
		"path":   path,
		"format": format,
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
	}).Info("Loaded elevation map")

	return PlanisphereFromImage(img, subpixelDivisions), nil
}

// PlanisphereFromImage builds a planisphere from an already decoded image.
// Image row 0 is the northernmost scanline, so it maps to grid row
// HeightPixels-1: the raster is stored top-down but addressed bottom-up.
func PlanisphereFromImage(img image.Image, subpixelDivisions int) *Planisphere {
	bounds := img.Bounds()
	p := NewPlanisphere(bounds.Dx(), bounds.Dy(), subpixelDivisions)

	for j := 0; j < p.HeightPixels; j++ {
		imageY := bounds.Min.Y + (p.HeightPixels - 1 - j)
		for i := 0; i < p.WidthPixels; i++ {
			r16, g16, b16, a16 := img.At(bounds.Min.X+i, imageY).RGBA()
			r := float64(r16) / 65535.0
			g := float64(g16) / 65535.0
			b := float64(b16) / 65535.0
			a := float64(a16) / 65535.0

			// Rec. 601 luma, same weights image/color uses for grayscale
			elev := 0.299*r + 0.587*g + 0.114*b

			idx := p.index(i, j)
			p.elevation[idx] = elev
			p.sea[idx] = elev < SeaLevel
			p.red[idx] = r
			p.green[idx] = g
			p.blue[idx] = b
			p.alpha[idx] = a
		}
	}
	return p
}

func (p *Planisphere) index(i, j int) int {
	return j*p.WidthPixels + i
}

// SetRadius sets the planet radius used by the gnomonic projection and
// recomputes MeanTileSize.
func (p *Planisphere) SetRadius(radius float64) {
	p.Radius = radius
	p.computeMeanTileSize()
}

// computeMeanTileSize measures the projected distance between two
// adjacent subpixels at the grid center. Recentering thresholds are
// expressed in multiples of this size.
func (p *Planisphere) computeMeanTileSize() {
	centerI := p.WidthPixels / 2
	centerJ := p.HeightPixels / 2

	lon1, lat1 := p.SubpixelToGeo(Address{centerI, centerJ, 0})
	lon2, lat2 := p.SubpixelToGeo(Address{centerI, centerJ, 1})
	x1, y1 := p.GeoToGnomonic(lon1, lat1, 0, 0)
	x2, y2 := p.GeoToGnomonic(lon2, lat2, 0, 0)
	p.MeanTileSize = math.Abs(x2-x1) + math.Abs(y2-y1)
}

// LonSubdivisions returns the number of valid subI columns at a given
// latitude. The count shrinks with cos(lat) so subpixels keep a roughly
// constant footprint toward the poles, and is never below 1.
func (p *Planisphere) LonSubdivisions(latitude float64) int {
	return int(math.Max(1.0, float64(p.SubpixelDivisions)*math.Cos(latitude*math.Pi/180.0)))
}

// GeoToSubpixel converts geographic coordinates to a grid address.
// The conversion is lossy: an address names a finite cell, not a point.
// When LonSubdivisions shrinks at high latitude, subI wraps via modulo
// rather than erroring; this discards longitude resolution by design.
func (p *Planisphere) GeoToSubpixel(longitude, latitude float64) Address {
	normLon := (longitude + 180.0) / 360.0
	normLat := (latitude + 90.0) / 180.0

	i := wrapIndex(int(normLon*float64(p.WidthPixels)), p.WidthPixels)
	j := wrapIndex(int(normLat*float64(p.HeightPixels)), p.HeightPixels)

	lonSubdivisions := p.LonSubdivisions(latitude)
	subI := i % lonSubdivisions
	subJ := j % p.SubpixelDivisions

	return Address{I: i, J: j, K: subI*p.SubpixelDivisions + subJ}
}

// SubpixelToGeo converts a grid address to the geographic position of the
// cell's reference corner, interpolated inside the parent pixel. It is a
// near-inverse of GeoToSubpixel up to cell granularity.
func (p *Planisphere) SubpixelToGeo(addr Address) (longitude, latitude float64) {
	normLon := float64(addr.I) / float64(p.WidthPixels)
	normLat := float64(addr.J) / float64(p.HeightPixels)

	cornerLon := normLon*360.0 - 180.0
	cornerLat := normLat*180.0 - 90.0

	lonSubdivisions := p.LonSubdivisions(cornerLat)

	subI := addr.K / p.SubpixelDivisions
	subJ := addr.K % p.SubpixelDivisions

	nextLon := float64(addr.I+1)/float64(p.WidthPixels)*360.0 - 180.0
	nextLat := float64(addr.J+1)/float64(p.HeightPixels)*180.0 - 90.0

	longitude = cornerLon + float64(subI)/float64(lonSubdivisions)*(nextLon-cornerLon)
	latitude = cornerLat + float64(subJ)/float64(p.SubpixelDivisions)*(nextLat-cornerLat)
	return longitude, latitude
}

// PixelLatitude returns the latitude of pixel row j's southern edge.
func (p *Planisphere) PixelLatitude(j int) float64 {
	return float64(j)/float64(p.HeightPixels)*180.0 - 90.0
}

// RGBAAtPixel returns the normalized color of a pixel, or opaque black
// out of bounds.
func (p *Planisphere) RGBAAtPixel(i, j int) (r, g, b, a float64) {
	if i < 0 || i >= p.WidthPixels || j < 0 || j >= p.HeightPixels {
		return 0, 0, 0, 1
	}
	idx := p.index(i, j)
	return p.red[idx], p.green[idx], p.blue[idx], p.alpha[idx]
}

// RGBAAtSubpixel returns the parent pixel's color; subpixels within a
// pixel share color data.
func (p *Planisphere) RGBAAtSubpixel(addr Address) (r, g, b, a float64) {
	return p.RGBAAtPixel(addr.I, addr.J)
}

// ElevationAtPixel returns the normalized elevation, or 0 out of bounds.
func (p *Planisphere) ElevationAtPixel(i, j int) float64 {
	if i < 0 || i >= p.WidthPixels || j < 0 || j >= p.HeightPixels {
		return 0
	}
	return p.elevation[p.index(i, j)]
}

// IsSea reports whether a pixel is below sea level. Out of bounds counts
// as sea.
func (p *Planisphere) IsSea(i, j int) bool {
	if i < 0 || i >= p.WidthPixels || j < 0 || j >= p.HeightPixels {
		return true
	}
	return p.sea[p.index(i, j)]
}

// wrapIndex wraps v into [0, n).
func wrapIndex(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
