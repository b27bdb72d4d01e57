package x11

import (
	"testing"

	"github.com/1broseidon/glassdesk/internal/geometry"
)

func TestIntersect(t *testing.T) {
	tests := []struct {
		name   string
		a, b   geometry.Rect
		want   geometry.Rect
		wantOK bool
	}{
		{
			name:   "top panel",
			a:      geometry.Rect{Width: 1920, Height: 1080},
			b:      geometry.Rect{Y: 32, Width: 1920, Height: 1048},
			want:   geometry.Rect{Y: 32, Width: 1920, Height: 1048},
			wantOK: true,
		},
		{
			name:   "work area spans two monitors",
			a:      geometry.Rect{X: 1920, Width: 1280, Height: 1024},
			b:      geometry.Rect{Width: 3200, Height: 1040},
			want:   geometry.Rect{X: 1920, Width: 1280, Height: 1024},
			wantOK: true,
		},
		{
			name: "disjoint",
			a:    geometry.Rect{Width: 100, Height: 100},
			b:    geometry.Rect{X: 100, Width: 100, Height: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := intersect(tt.a, tt.b)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("intersect() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMonitorAt(t *testing.T) {
	monitors := []Monitor{
		{ID: 0, Name: "left", Bounds: geometry.Rect{Width: 1920, Height: 1080}},
		{ID: 1, Name: "right", Bounds: geometry.Rect{X: 1920, Width: 1280, Height: 1024}},
	}

	if got := monitorAt(monitors, geometry.Point{X: 2000, Y: 10}); got.Name != "right" {
		t.Fatalf("monitorAt(2000,10) = %q, want right", got.Name)
	}
	if got := monitorAt(monitors, geometry.Point{X: -5, Y: 5000}); got.Name != "left" {
		t.Fatalf("monitorAt(off-screen) = %q, want left fallback", got.Name)
	}
}
