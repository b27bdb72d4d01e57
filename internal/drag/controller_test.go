package drag

import (
	"testing"

	"github.com/1broseidon/glassdesk/internal/events"
	"github.com/1broseidon/glassdesk/internal/geometry"
	"github.com/1broseidon/glassdesk/internal/pointer"
)

// fakeScene is a canvas with surfaces whose sizes tests can change mid-drag.
type fakeScene struct {
	canvas   geometry.Rect
	surfaces map[string]geometry.Rect
	commits  int
}

func newFakeScene() *fakeScene {
	return &fakeScene{
		canvas: geometry.Rect{X: 0, Y: 30, Width: 1280, Height: 800},
		surfaces: map[string]geometry.Rect{
			"finder": {X: 100, Y: 100, Width: 720, Height: 440},
		},
	}
}

func (f *fakeScene) CanvasRect() geometry.Rect { return f.canvas }

func (f *fakeScene) SubjectRect(id string) (geometry.Rect, bool) {
	r, ok := f.surfaces[id]
	return r, ok
}

func (f *fakeScene) commit(id string, p geometry.Point) {
	r := f.surfaces[id]
	r.X, r.Y = p.X, p.Y
	f.surfaces[id] = r
	f.commits++
}

func newWindowController(scene *fakeScene, reg *events.Registry[pointer.Event]) *Controller {
	return NewController(Options{
		Name:     "drag:window",
		Strategy: WindowStrategy{},
		Measure:  scene,
		Commit:   scene.commit,
		Excluded: func(t pointer.Target) bool { return t.Region == pointer.RegionControls },
		Pointers: reg,
	})
}

func down(id int, x, y int) pointer.Event {
	return pointer.Event{Kind: pointer.Down, PointerID: id, Client: geometry.Point{X: x, Y: y}}
}

func TestBeginCapturesGrabOffset(t *testing.T) {
	scene := newFakeScene()
	c := newWindowController(scene, nil)

	// Canvas starts at y=30, so client (150, 145) is local (150, 115).
	if !c.Begin(down(1, 150, 145), "finder") {
		t.Fatalf("Begin refused")
	}
	s, ok := c.Active()
	if !ok {
		t.Fatalf("no active session")
	}
	if want := (geometry.Point{X: 50, Y: 15}); s.GrabOffset != want {
		t.Fatalf("GrabOffset = %+v, want %+v", s.GrabOffset, want)
	}

	// Moving by (+10, +20) moves the window by the same amount.
	c.Update(1, geometry.Point{X: 160, Y: 165})
	if got, want := scene.surfaces["finder"].Origin(), (geometry.Point{X: 110, Y: 120}); got != want {
		t.Fatalf("position = %+v, want %+v", got, want)
	}
}

func TestBeginRejections(t *testing.T) {
	tests := []struct {
		name    string
		ev      pointer.Event
		subject string
	}{
		{"secondary button", pointer.Event{Kind: pointer.Down, PointerID: 1, Button: 2}, "finder"},
		{"excluded region", pointer.Event{Kind: pointer.Down, PointerID: 1, Target: pointer.Target{Kind: pointer.SurfaceWindow, ID: "finder", Region: pointer.RegionControls}}, "finder"},
		{"unknown subject", down(1, 0, 0), "login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newWindowController(newFakeScene(), nil)
			if c.Begin(tt.ev, tt.subject) {
				t.Fatalf("Begin should refuse")
			}
			if _, ok := c.Active(); ok {
				t.Fatalf("session should not exist")
			}
		})
	}
}

func TestFirstGrabWins(t *testing.T) {
	scene := newFakeScene()
	c := newWindowController(scene, nil)
	c.Begin(down(1, 150, 145), "finder")
	if c.Begin(down(2, 400, 400), "finder") {
		t.Fatalf("second pointer started a session")
	}
	if s, _ := c.Active(); s.PointerID != 1 {
		t.Fatalf("active pointer = %d, want 1", s.PointerID)
	}
}

func TestMismatchedPointerIsIgnored(t *testing.T) {
	scene := newFakeScene()
	c := newWindowController(scene, nil)
	c.Begin(down(1, 150, 145), "finder")
	before := scene.surfaces["finder"]

	if c.Update(7, geometry.Point{X: 900, Y: 900}) {
		t.Fatalf("Update with foreign pointer reported success")
	}
	if c.End(7) {
		t.Fatalf("End with foreign pointer reported success")
	}
	if scene.surfaces["finder"] != before {
		t.Fatalf("foreign pointer moved the window")
	}
	if _, ok := c.Active(); !ok {
		t.Fatalf("foreign pointer ended the session")
	}
}

func TestUpdateClampsAgainstLiveSize(t *testing.T) {
	scene := newFakeScene()
	c := newWindowController(scene, nil)
	c.Begin(down(1, 150, 145), "finder")

	c.Update(1, geometry.Point{X: 5000, Y: 5000})
	if got, want := scene.surfaces["finder"].Origin(), (geometry.Point{X: 1280 - 720, Y: 800 - 440}); got != want {
		t.Fatalf("position = %+v, want %+v", got, want)
	}

	// Content grows mid-drag; the next frame clamps with the new size.
	r := scene.surfaces["finder"]
	r.Width, r.Height = 900, 600
	scene.surfaces["finder"] = r
	c.Update(1, geometry.Point{X: 5000, Y: 5000})
	if got, want := scene.surfaces["finder"].Origin(), (geometry.Point{X: 1280 - 900, Y: 800 - 600}); got != want {
		t.Fatalf("position = %+v, want %+v", got, want)
	}
}

func TestBeginReclampsStalePosition(t *testing.T) {
	scene := newFakeScene()
	scene.surfaces["finder"] = geometry.Rect{X: 1000, Y: 700, Width: 720, Height: 440}
	c := newWindowController(scene, nil)

	c.Begin(down(1, 600, 400), "finder")
	if got, want := scene.surfaces["finder"].Origin(), (geometry.Point{X: 560, Y: 360}); got != want {
		t.Fatalf("position after begin = %+v, want %+v", got, want)
	}
	s, _ := c.Active()
	if want := (geometry.Point{X: 40, Y: 10}); s.GrabOffset != want {
		t.Fatalf("GrabOffset = %+v, want %+v", s.GrabOffset, want)
	}
}

func TestCancelKeepsLastPosition(t *testing.T) {
	scene := newFakeScene()
	reg := events.NewRegistry[pointer.Event]()
	c := newWindowController(scene, reg)

	c.Begin(down(1, 150, 145), "finder")
	reg.Dispatch(pointer.Event{Kind: pointer.Move, PointerID: 1, Client: geometry.Point{X: 250, Y: 245}})
	moved := scene.surfaces["finder"].Origin()
	if want := (geometry.Point{X: 200, Y: 200}); moved != want {
		t.Fatalf("position after move = %+v, want %+v", moved, want)
	}

	reg.Dispatch(pointer.Event{Kind: pointer.Cancel, PointerID: 1})
	if _, ok := c.Active(); ok {
		t.Fatalf("cancel did not clear the session")
	}
	if reg.Len() != 0 {
		t.Fatalf("pointer listener still attached after cancel")
	}

	reg.Dispatch(pointer.Event{Kind: pointer.Move, PointerID: 1, Client: geometry.Point{X: 600, Y: 600}})
	c.Update(1, geometry.Point{X: 600, Y: 600})
	if got := scene.surfaces["finder"].Origin(); got != moved {
		t.Fatalf("move after cancel changed position to %+v", got)
	}
}

func TestListenerLeaseFollowsSession(t *testing.T) {
	scene := newFakeScene()
	reg := events.NewRegistry[pointer.Event]()
	c := newWindowController(scene, reg)

	for i := 0; i < 3; i++ {
		c.Begin(down(1, 150, 145), "finder")
		if reg.Len() != 1 {
			t.Fatalf("round %d: listeners = %d during drag, want 1", i, reg.Len())
		}
		reg.Dispatch(pointer.Event{Kind: pointer.Up, PointerID: 1})
		if reg.Len() != 0 {
			t.Fatalf("round %d: listeners = %d after up, want 0", i, reg.Len())
		}
	}

	c.Begin(down(1, 150, 145), "finder")
	c.Abort()
	if reg.Len() != 0 {
		t.Fatalf("listeners = %d after abort, want 0", reg.Len())
	}
}

func TestSubjectVanishingEndsSession(t *testing.T) {
	scene := newFakeScene()
	reg := events.NewRegistry[pointer.Event]()
	c := newWindowController(scene, reg)
	c.Begin(down(1, 150, 145), "finder")

	delete(scene.surfaces, "finder")
	if c.Update(1, geometry.Point{X: 10, Y: 10}) {
		t.Fatalf("Update succeeded for a missing subject")
	}
	if _, ok := c.Active(); ok || reg.Len() != 0 {
		t.Fatalf("session not torn down after subject vanished")
	}
}

func TestRecenter(t *testing.T) {
	scene := newFakeScene()
	c := newWindowController(scene, nil)
	p, ok := c.Recenter("finder")
	if !ok {
		t.Fatalf("Recenter failed")
	}
	if want := (geometry.Point{X: 280, Y: 180}); p != want {
		t.Fatalf("Recenter = %+v, want %+v", p, want)
	}

	// Oversized windows clamp to the origin.
	scene.surfaces["finder"] = geometry.Rect{Width: 2000, Height: 2000}
	if p, _ := c.Recenter("finder"); p != (geometry.Point{}) {
		t.Fatalf("Recenter oversized = %+v, want origin", p)
	}
}

func TestIconStrategyUsesFootprint(t *testing.T) {
	scene := newFakeScene()
	scene.surfaces["icon-1"] = geometry.Rect{X: 200, Y: 200, Width: 10, Height: 10}
	c := NewController(Options{
		Name:     "drag:icon",
		Strategy: IconStrategy{Footprint: geometry.DefaultIconFootprint},
		Measure:  scene,
		Commit:   scene.commit,
	})

	c.Begin(down(1, 205, 235), "icon-1")
	c.Update(1, geometry.Point{X: 5000, Y: 5000})
	if got, want := scene.surfaces["icon-1"].Origin(), (geometry.Point{X: 1280 - 86 - 8, Y: 800 - 96 - 8}); got != want {
		t.Fatalf("icon position = %+v, want %+v", got, want)
	}
	c.Update(1, geometry.Point{X: -50, Y: -50})
	if got, want := scene.surfaces["icon-1"].Origin(), (geometry.Point{X: 8, Y: 8}); got != want {
		t.Fatalf("icon position = %+v, want %+v", got, want)
	}
}

func TestOnEndRunsOnce(t *testing.T) {
	scene := newFakeScene()
	ended := 0
	c := NewController(Options{
		Name:    "drag:window",
		Measure: scene,
		Commit:  scene.commit,
		OnEnd:   func(Session) { ended++ },
	})
	c.Begin(down(1, 150, 145), "finder")
	c.End(1)
	c.End(1)
	c.Abort()
	if ended != 1 {
		t.Fatalf("OnEnd ran %d times, want 1", ended)
	}
}
