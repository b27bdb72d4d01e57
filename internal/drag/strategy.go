package drag

import "github.com/1broseidon/glassdesk/internal/geometry"

// Strategy constrains a proposed top-left corner for one surface class.
type Strategy interface {
	Clamp(p geometry.Point, canvas geometry.Size, subject geometry.Size) geometry.Point
}

// WindowStrategy keeps the whole window inside the canvas.
type WindowStrategy struct{}

func (WindowStrategy) Clamp(p geometry.Point, canvas geometry.Size, subject geometry.Size) geometry.Point {
	return geometry.ClampWindowPosition(p.X, p.Y, canvas.Width, canvas.Height, subject.Width, subject.Height)
}

// IconStrategy keeps a fixed icon footprint a margin away from the canvas
// edges. The measured subject size is ignored.
type IconStrategy struct {
	Footprint geometry.Footprint
}

func (s IconStrategy) Clamp(p geometry.Point, canvas geometry.Size, _ geometry.Size) geometry.Point {
	return geometry.ClampIconPosition(p.X, p.Y, canvas.Width, canvas.Height, s.Footprint)
}
