package core

import (
	"image"
	"image/color"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// channelParams describes one noise layer of the generated map, matching
// the offline map creator's per-channel settings.
type channelParams struct {
	scale       float64
	octaves     int
	persistence float64
}

// GenerateElevationMap synthesizes a sphere texture equivalent to the
// offline-generated map asset, for running without one. Each RGBA
// channel is an independent fractal noise field, periodic in longitude
// (sampled on a cylinder) and free in latitude. Elevation is whatever
// luma the RGB channels combine to, exactly as with a loaded image.
func GenerateElevationMap(width, height int, seed int64) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	params := []channelParams{
		{scale: 24.0, octaves: 4, persistence: 0.5}, // red: primary classification
		{scale: 12.0, octaves: 3, persistence: 0.6}, // green
		{scale: 6.0, octaves: 5, persistence: 0.4},  // blue
		{scale: 9.0, octaves: 3, persistence: 0.5},  // alpha: landscape element field
	}

	channels := make([][]float64, len(params))
	for c, param := range params {
		noise := opensimplex.NewNormalized(seed + int64(c))
		channels[c] = fractalChannel(noise, width, height, param)
	}

	// Per-channel shaping from the offline generator: red gains
	// contrast, green smooths, blue inverts, alpha stays raw.
	for i, v := range channels[0] {
		channels[0][i] = math.Pow(v, 0.7)
	}
	for i, v := range channels[1] {
		s := math.Sin(v * math.Pi)
		channels[1][i] = s * s
	}
	for i, v := range channels[2] {
		channels[2][i] = 1.0 - v
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			img.SetRGBA(x, y, color.RGBA{
				R: toByte(channels[0][idx]),
				G: toByte(channels[1][idx]),
				B: toByte(channels[2][idx]),
				A: toByte(channels[3][idx]),
			})
		}
	}
	return img
}

// fractalChannel accumulates noise octaves over the full raster. The x
// axis is traced around a cylinder so column 0 and column width-1 join
// seamlessly at the date line.
func fractalChannel(noise opensimplex.Noise, width, height int, param channelParams) []float64 {
	data := make([]float64, width*height)
	min, max := math.MaxFloat64, -math.MaxFloat64

	for octave := 0; octave < param.octaves; octave++ {
		frequency := param.scale * math.Pow(2, float64(octave))
		amplitude := math.Pow(param.persistence, float64(octave))
		ringRadius := frequency / (2 * math.Pi)

		for y := 0; y < height; y++ {
			v := float64(y) / float64(height) * frequency
			for x := 0; x < width; x++ {
				angle := float64(x) / float64(width) * 2 * math.Pi
				sample := noise.Eval3(
					math.Cos(angle)*ringRadius,
					math.Sin(angle)*ringRadius,
					v,
				)
				data[y*width+x] += sample * amplitude
			}
		}
	}

	for _, v := range data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max-min < 1e-12 {
		return data
	}
	for i, v := range data {
		data[i] = (v - min) / (max - min)
	}
	return data
}

func toByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255.0)
}
