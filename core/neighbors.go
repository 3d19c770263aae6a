package core

// neighborPixel returns the pixel at offset (di, dj), wrapping longitude
// at the date line and reflecting latitude at the poles. The raster's
// poles are lines, not points, so overflowing a pole mirrors j back into
// range and shifts i by half the map width: walking over the pole puts
// you on the opposite hemisphere, not back where a naive wrap would.
func (p *Planisphere) neighborPixel(i, j, di, dj int) (int, int) {
	ni := i + di
	nj := j + dj

	if nj >= p.HeightPixels {
		overflow := nj - p.HeightPixels + 1
		nj = p.HeightPixels - overflow
		ni += p.WidthPixels / 2
	}
	if nj < 0 {
		nj = -nj
		ni += p.WidthPixels / 2
	}

	return wrapIndex(ni, p.WidthPixels), nj
}

// NeighborSubpixel returns the address at subpixel offset (di, dj) from
// addr, crossing pixel boundaries where needed. Pixel crossings use
// neighborPixel's date-line and pole handling; north/south crossings
// rescale subI because the target row may have a different number of
// longitude subdivisions.
func (p *Planisphere) NeighborSubpixel(addr Address, di, dj int) Address {
	subI := addr.K / p.SubpixelDivisions
	subJ := addr.K % p.SubpixelDivisions

	currentLat := p.PixelLatitude(addr.J)
	currentLonSubdivisions := p.LonSubdivisions(currentLat)

	newSubI := subI + di
	newSubJ := subJ + dj

	pixelDi := 0
	pixelDj := 0
	finalSubI := newSubI
	finalSubJ := newSubJ

	if newSubI >= currentLonSubdivisions {
		pixelDi = 1
		finalSubI = 0 // leftmost column of the eastern pixel
	} else if newSubI < 0 {
		pixelDi = -1
		// rightmost column of the western pixel; same latitude, same count
		finalSubI = currentLonSubdivisions - 1
	}

	if newSubJ >= p.SubpixelDivisions {
		pixelDj = 1
		finalSubJ = 0
	} else if newSubJ < 0 {
		pixelDj = -1
		finalSubJ = p.SubpixelDivisions - 1
	}

	if pixelDi == 0 && pixelDj == 0 {
		return Address{addr.I, addr.J, finalSubI*p.SubpixelDivisions + finalSubJ}
	}

	wrappedI, wrappedJ := p.neighborPixel(addr.I, addr.J, pixelDi, pixelDj)

	if pixelDj != 0 && pixelDi == 0 {
		// Longitude subdivisions change across rows: keep the relative
		// column position inside the target pixel.
		targetLat := p.PixelLatitude(wrappedJ)
		targetLonSubdivisions := p.LonSubdivisions(targetLat)
		finalSubI = subI * targetLonSubdivisions / currentLonSubdivisions
	}

	return Address{wrappedI, wrappedJ, finalSubI*p.SubpixelDivisions + finalSubJ}
}

// PixelBoundaries returns the (left, right, top, bottom) geographic
// boundaries of a pixel. Cells that touch the date line are kept in the
// coordinate phase of their hemisphere so a cell's edges never cross
// each other when drawn.
func (p *Planisphere) PixelBoundaries(i, j int) (left, right, top, bottom float64) {
	pixelWidth := 360.0 / float64(p.WidthPixels)
	pixelHeight := 180.0 / float64(p.HeightPixels)

	left = -180.0 + float64(i)*pixelWidth
	right = left + pixelWidth
	top = -90.0 + float64(j)*pixelHeight
	bottom = top + pixelHeight

	if (left <= -180.0 && right >= -180.0) || (left <= 180.0 && right >= 180.0) {
		if i < p.WidthPixels/2 {
			// Western hemisphere keeps negative coordinates
			if left >= 0 {
				left -= 360.0
			}
			if right > 0 {
				right -= 360.0
			}
		} else {
			if left < 0 {
				left += 360.0
			}
			if right <= 0 {
				right += 360.0
			}
		}
	}
	return left, right, top, bottom
}

// SubpixelBoundaries returns the (left, right, top, bottom) geographic
// boundaries of a subpixel, in the same coordinate phase as its parent
// pixel.
func (p *Planisphere) SubpixelBoundaries(i, j, subI, subJ int) (left, right, top, bottom float64) {
	pixelLeft, pixelRight, pixelTop, pixelBottom := p.PixelBoundaries(i, j)

	lonSubdivisions := p.LonSubdivisions(p.PixelLatitude(j))

	subWidth := (pixelRight - pixelLeft) / float64(lonSubdivisions)
	subHeight := (pixelBottom - pixelTop) / float64(p.SubpixelDivisions)

	left = pixelLeft + float64(subI)*subWidth
	right = left + subWidth
	top = pixelTop + float64(subJ)*subHeight
	bottom = top + subHeight

	western := i < p.WidthPixels/2
	crossesDateLine := (left <= -180.0 && right >= -180.0) || (left <= 180.0 && right >= 180.0)
	switch {
	case crossesDateLine && western:
		if left >= 0 {
			left -= 360.0
		}
		if right > 0 {
			right -= 360.0
		}
	case crossesDateLine && !western:
		if left < 0 {
			left += 360.0
		}
		if right <= 0 {
			right += 360.0
		}
	case western && left > 0 && right > 0:
		left -= 360.0
		right -= 360.0
	case !western && left < 0 && right < 0:
		left += 360.0
		right += 360.0
	}
	return left, right, top, bottom
}

// SubpixelCorners returns the cell's four corners in clockwise order:
// top-left, top-right, bottom-right, bottom-left.
func (p *Planisphere) SubpixelCorners(addr Address) [4]GeoPoint {
	subI := addr.K / p.SubpixelDivisions
	subJ := addr.K % p.SubpixelDivisions
	left, right, top, bottom := p.SubpixelBoundaries(addr.I, addr.J, subI, subJ)
	return [4]GeoPoint{
		{left, top},
		{right, top},
		{right, bottom},
		{left, bottom},
	}
}

// PixelCorners returns a pixel's four corners in clockwise order.
func (p *Planisphere) PixelCorners(i, j int) [4]GeoPoint {
	left, right, top, bottom := p.PixelBoundaries(i, j)
	return [4]GeoPoint{
		{left, top},
		{right, top},
		{right, bottom},
		{left, bottom},
	}
}
