package geometry

// Footprint is the fixed box reserved for every desktop icon plus the minimum
// gap kept between an icon and any canvas edge.
type Footprint struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
	Margin int `json:"margin" yaml:"margin"`
}

// DefaultIconFootprint matches the rendered icon tile (label included).
var DefaultIconFootprint = Footprint{Width: 86, Height: 96, Margin: 8}

// Size returns the icon box without its margin.
func (f Footprint) Size() Size {
	return Size{Width: f.Width, Height: f.Height}
}

// Half returns half the icon box, used to center an icon under a pointer.
func (f Footprint) Half() Point {
	return Point{X: f.Width / 2, Y: f.Height / 2}
}

// ClampScalar restricts value to [min, max]. When min > max the lower bound
// wins.
func ClampScalar(value, min, max int) int {
	if value > max {
		value = max
	}
	if value < min {
		value = min
	}
	return value
}

// ClampWindowPosition keeps a window of surfaceW x surfaceH fully inside a
// containerW x containerH canvas. A surface larger than the canvas is pinned
// to the top-left corner.
func ClampWindowPosition(x, y, containerW, containerH, surfaceW, surfaceH int) Point {
	return Point{
		X: ClampScalar(x, 0, max(0, containerW-surfaceW)),
		Y: ClampScalar(y, 0, max(0, containerH-surfaceH)),
	}
}

// ClampIconPosition keeps an icon footprint at least fp.Margin away from every
// canvas edge. On a canvas too small for one footprint both bounds collapse to
// the margin.
func ClampIconPosition(x, y, containerW, containerH int, fp Footprint) Point {
	m := fp.Margin
	return Point{
		X: ClampScalar(x, m, max(m, containerW-fp.Width-m)),
		Y: ClampScalar(y, m, max(m, containerH-fp.Height-m)),
	}
}
