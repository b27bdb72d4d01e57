package geometry

// Point is a position in canvas pixels, relative to the canvas top-left.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p minus q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect represents a surface position and size
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RectAt builds a rect from an origin and a size.
func RectAt(origin Point, size Size) Rect {
	return Rect{X: origin.X, Y: origin.Y, Width: size.Width, Height: size.Height}
}

func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive; empty rects contain nothing.
func (r Rect) Contains(p Point) bool {
	if r.Width <= 0 || r.Height <= 0 {
		return false
	}
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Center returns the midpoint of r, rounded toward the origin.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// CenterIn returns the top-left corner that centers subject inside container.
// The result may be negative when subject is larger than container; callers
// clamp it.
func CenterIn(container Size, subject Size) Point {
	return Point{
		X: (container.Width - subject.Width) / 2,
		Y: (container.Height - subject.Height) / 2,
	}
}
