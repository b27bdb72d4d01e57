package geometry

import "testing"

func TestClampScalar(t *testing.T) {
	tests := []struct {
		name            string
		value, min, max int
		want            int
	}{
		{"in range", 5, 0, 10, 5},
		{"below", -3, 0, 10, 0},
		{"above", 42, 0, 10, 10},
		{"at min", 0, 0, 10, 0},
		{"at max", 10, 0, 10, 10},
		{"collapsed range", 7, 4, 4, 4},
		{"inverted range favors min", 7, 8, 2, 8},
		{"inverted range below", -1, 8, 2, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampScalar(tt.value, tt.min, tt.max); got != tt.want {
				t.Fatalf("ClampScalar(%d, %d, %d) = %d, want %d", tt.value, tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestClampScalarStaysInRange(t *testing.T) {
	for min := -20; min <= 20; min += 5 {
		for max := min; max <= 40; max += 7 {
			for value := -50; value <= 50; value += 3 {
				got := ClampScalar(value, min, max)
				if got < min || got > max {
					t.Fatalf("ClampScalar(%d, %d, %d) = %d, outside range", value, min, max, got)
				}
				if value >= min && value <= max && got != value {
					t.Fatalf("ClampScalar(%d, %d, %d) = %d, want unchanged", value, min, max, got)
				}
			}
		}
	}
}

func TestClampWindowPosition(t *testing.T) {
	tests := []struct {
		name   string
		x, y   int
		cw, ch int
		sw, sh int
		want   Point
	}{
		{"inside", 100, 50, 1280, 800, 720, 440, Point{100, 50}},
		{"negative", -40, -10, 1280, 800, 720, 440, Point{0, 0}},
		{"past far edge", 900, 700, 1280, 800, 720, 440, Point{560, 360}},
		{"surface wider than canvas", 30, 30, 400, 800, 720, 440, Point{0, 30}},
		{"surface larger than canvas", 30, 30, 400, 300, 720, 440, Point{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampWindowPosition(tt.x, tt.y, tt.cw, tt.ch, tt.sw, tt.sh)
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClampWindowPositionKeepsFarEdgeInside(t *testing.T) {
	for cw := 100; cw <= 1600; cw += 250 {
		for sw := 10; sw <= cw; sw += 90 {
			for x := -300; x <= 2000; x += 170 {
				p := ClampWindowPosition(x, x, cw, cw, sw, sw)
				if p.X < 0 || p.X+sw > cw {
					t.Fatalf("x=%d canvas=%d surface=%d: got X=%d", x, cw, sw, p.X)
				}
				if p.Y < 0 || p.Y+sw > cw {
					t.Fatalf("y=%d canvas=%d surface=%d: got Y=%d", x, cw, sw, p.Y)
				}
			}
		}
	}
}

func TestClampIconPosition(t *testing.T) {
	fp := DefaultIconFootprint
	tests := []struct {
		name   string
		x, y   int
		cw, ch int
		want   Point
	}{
		{"inside", 200, 120, 1280, 800, Point{200, 120}},
		{"top-left", 0, 0, 1280, 800, Point{8, 8}},
		{"bottom-right", 1275, 795, 1280, 800, Point{1280 - 86 - 8, 800 - 96 - 8}},
		{"canvas narrower than icon", 50, 50, 60, 800, Point{8, 50}},
		{"canvas smaller than icon", 50, 50, 60, 40, Point{8, 8}},
		{"zero canvas", 50, 50, 0, 0, Point{8, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampIconPosition(tt.x, tt.y, tt.cw, tt.ch, fp)
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClampIconPositionRespectsMargin(t *testing.T) {
	fp := DefaultIconFootprint
	for cw := 0; cw <= 600; cw += 37 {
		for x := -100; x <= 700; x += 41 {
			p := ClampIconPosition(x, x, cw, cw, fp)
			if p.X < fp.Margin || p.Y < fp.Margin {
				t.Fatalf("canvas=%d x=%d: got %+v below margin", cw, x, p)
			}
			if cw >= fp.Width+2*fp.Margin && p.X+fp.Width+fp.Margin > cw {
				t.Fatalf("canvas=%d x=%d: got X=%d past far margin", cw, x, p.X)
			}
		}
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{10, 20}, true},
		{Point{109, 69}, true},
		{Point{110, 30}, false},
		{Point{50, 70}, false},
		{Point{9, 30}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if (Rect{X: 0, Y: 0}).Contains(Point{}) {
		t.Errorf("empty rect should contain nothing")
	}
}

func TestCenterIn(t *testing.T) {
	got := CenterIn(Size{Width: 1280, Height: 800}, Size{Width: 720, Height: 440})
	if want := (Point{X: 280, Y: 180}); got != want {
		t.Fatalf("CenterIn = %+v, want %+v", got, want)
	}
	got = CenterIn(Size{Width: 300, Height: 300}, Size{Width: 720, Height: 440})
	if got.X >= 0 || got.Y >= 0 {
		t.Fatalf("oversized subject should center to negative origin, got %+v", got)
	}
}
