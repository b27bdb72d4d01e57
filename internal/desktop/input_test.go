package desktop

import (
	"testing"

	"github.com/1broseidon/glassdesk/internal/geometry"
	"github.com/1broseidon/glassdesk/internal/pointer"
)

// Finder starts at canvas (280,180); with the canvas 30px down, client
// (380,220) lands on its title bar 100px in and 10px down.
const finderTitleX, finderTitleY = 380, 220

func TestPointer_WindowDragFollowsGrabOffsetAndClamps(t *testing.T) {
	h := newHarness(t)

	if !h.d.Pointer(ev(pointer.Down, 1, finderTitleX, finderTitleY)) {
		t.Fatalf("expected title bar press to start a drag")
	}
	s := h.d.Snapshot()
	if s.Drags.Window == nil || s.Drags.Window.GrabOffset != pt(100, 10) {
		t.Fatalf("drag session = %+v, want grab offset (100,10)", s.Drags.Window)
	}
	if s.Listeners.Pointer != 1 {
		t.Fatalf("pointer listeners = %d, want 1", s.Listeners.Pointer)
	}

	tests := []struct {
		name   string
		client geometry.Point
		want   geometry.Point
	}{
		{"inside", pt(480, 260), pt(380, 220)},
		{"past far edge", pt(5000, 5000), pt(560, 360)},
		{"past near edge", pt(-50, -50), pt(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.d.Pointer(pointer.Event{Kind: pointer.Move, PointerID: 1, Client: tt.client})
			if got := h.window(t, Finder).Position; got != tt.want {
				t.Fatalf("finder at %+v, want %+v", got, tt.want)
			}
		})
	}

	h.d.Pointer(ev(pointer.Up, 1, 0, 0))
	s = h.d.Snapshot()
	if s.Drags.Window != nil || s.Listeners.Pointer != 0 {
		t.Fatalf("expected drag and listener cleared, got %+v / %+v", s.Drags.Window, s.Listeners)
	}
	if h.rec.drags["window"] != 1 {
		t.Fatalf("window drags recorded = %d, want 1", h.rec.drags["window"])
	}
}

func TestPointer_CancelKeepsLastPositionAndIgnoresLaterMoves(t *testing.T) {
	h := newHarness(t)
	h.d.Pointer(ev(pointer.Down, 7, finderTitleX, finderTitleY))
	h.d.Pointer(ev(pointer.Move, 7, 430, 250))
	moved := h.window(t, Finder).Position
	if moved != pt(330, 210) {
		t.Fatalf("finder at %+v, want (330,210)", moved)
	}

	h.d.Pointer(ev(pointer.Cancel, 7, 430, 250))
	if s := h.d.Snapshot(); s.Drags.Window != nil {
		t.Fatalf("expected drag cleared after cancel")
	}
	if h.d.Pointer(ev(pointer.Move, 7, 600, 600)) {
		t.Fatalf("expected move after cancel to be ignored")
	}
	if got := h.window(t, Finder).Position; got != moved {
		t.Fatalf("finder moved to %+v after cancel, want %+v", got, moved)
	}
}

func TestPointer_MismatchedPointerIgnored(t *testing.T) {
	h := newHarness(t)
	h.d.Pointer(ev(pointer.Down, 1, finderTitleX, finderTitleY))

	if h.d.Pointer(ev(pointer.Down, 2, finderTitleX+10, finderTitleY)) {
		t.Fatalf("second grab on the same class must be ignored")
	}
	h.d.Pointer(ev(pointer.Move, 2, 900, 700))
	h.d.Pointer(ev(pointer.Up, 2, 900, 700))

	s := h.d.Snapshot()
	if s.Drags.Window == nil || s.Drags.Window.PointerID != 1 {
		t.Fatalf("expected pointer 1 to keep the drag, got %+v", s.Drags.Window)
	}
	if got := h.window(t, Finder).Position; got != pt(280, 180) {
		t.Fatalf("finder moved to %+v by a foreign pointer", got)
	}
}

func TestPointer_DragStartSuppression(t *testing.T) {
	tests := []struct {
		name string
		ev   pointer.Event
	}{
		{"secondary button", pointer.Event{Kind: pointer.Down, PointerID: 1, Button: 2, Client: pt(finderTitleX, finderTitleY)}},
		{"finder body", ev(pointer.Down, 1, 500, 400)},
		{"outside canvas", ev(pointer.Down, 1, 500, 10)},
		{"explicit panel item", pointer.Event{
			Kind: pointer.Down, PointerID: 1, Client: pt(finderTitleX, finderTitleY),
			Target: pointer.Target{Kind: pointer.SurfaceWindow, ID: "finder", Region: pointer.RegionPanelItem},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.d.Pointer(tt.ev)
			if s := h.d.Snapshot(); s.Drags.Window != nil || s.Listeners.Pointer != 0 {
				t.Fatalf("expected no drag, got %+v", s.Drags.Window)
			}
		})
	}
}

func TestPointer_LoginFormIsExcluded(t *testing.T) {
	h := newHarness(t)
	if err := h.d.OpenWindow(Login); err != nil {
		t.Fatalf("open: %v", err)
	}
	// Login is centered at (430,170); its form starts below the title bar.
	if h.d.Pointer(ev(pointer.Down, 1, 600, 30+170+100)) {
		t.Fatalf("press on the login form must not drag")
	}
	if !h.d.Pointer(ev(pointer.Down, 1, 600, 30+170+5)) {
		t.Fatalf("press on the login title bar should drag")
	}
	if s := h.d.Snapshot(); s.Drags.Window.SubjectID != "login" {
		t.Fatalf("dragging %q, want login", s.Drags.Window.SubjectID)
	}
}

func TestPointer_TrafficLights(t *testing.T) {
	h := newHarness(t)

	// Drag the Finder off center, then press green.
	h.d.Pointer(ev(pointer.Down, 1, finderTitleX, finderTitleY))
	h.d.Pointer(ev(pointer.Move, 1, finderTitleX-200, finderTitleY-100))
	h.d.Pointer(ev(pointer.Up, 1, 0, 0))
	moved := h.window(t, Finder).Position
	if moved != pt(80, 80) {
		t.Fatalf("finder at %+v, want (80,80)", moved)
	}
	if !h.d.Pointer(ev(pointer.Down, 1, moved.X+55, 30+moved.Y+5)) {
		t.Fatalf("expected green press to be handled")
	}
	if got := h.window(t, Finder).Position; got != pt(280, 180) {
		t.Fatalf("finder at %+v after green, want (280,180)", got)
	}
	if s := h.d.Snapshot(); s.Drags.Window != nil {
		t.Fatalf("controls must not start a drag")
	}

	// Red closes and releases the window's resize listener.
	h.d.Pointer(ev(pointer.Down, 1, 280+5, 30+180+5))
	s := h.d.Snapshot()
	if w, _ := s.Window(Finder); w.Open {
		t.Fatalf("expected red to close the finder")
	}
	if s.Listeners.Resize != 1 {
		t.Fatalf("resize listeners = %d, want 1", s.Listeners.Resize)
	}

	if err := h.d.TrafficLight(Finder, LightGreen); err == nil {
		t.Fatalf("expected error for a closed window")
	}
	if err := h.d.TrafficLight("dock", LightRed); err == nil {
		t.Fatalf("expected error for an unknown window")
	}
}

func TestPointer_IconDragIndependentOfWindowDrag(t *testing.T) {
	h := newHarness(t)
	h.d.Pointer(ev(pointer.Down, 1, finderTitleX, finderTitleY))

	// Shortcut icon sits at canvas (1170,34).
	if !h.d.Pointer(ev(pointer.Down, 2, 1180, 30+34+10)) {
		t.Fatalf("expected icon press to be handled")
	}
	s := h.d.Snapshot()
	if s.Drags.Icon == nil || s.Drags.Window == nil {
		t.Fatalf("expected both drags active, got %+v", s.Drags)
	}
	if s.Listeners.Pointer != 2 {
		t.Fatalf("pointer listeners = %d, want 2", s.Listeners.Pointer)
	}
	if s.ActiveIcon != "desktop-mdp" {
		t.Fatalf("active icon = %q, want desktop-mdp", s.ActiveIcon)
	}

	h.d.Pointer(ev(pointer.Move, 2, 700, 30+800))
	s = h.d.Snapshot()
	icon, _ := s.Icon("desktop-mdp")
	if icon.Position != pt(690, 696) {
		t.Fatalf("icon at %+v, want (690,696)", icon.Position)
	}
	if w, _ := s.Window(Finder); w.Position != pt(280, 180) {
		t.Fatalf("finder moved to %+v by the icon pointer", w.Position)
	}

	h.d.Pointer(ev(pointer.Up, 2, 0, 0))
	s = h.d.Snapshot()
	if s.Drags.Icon != nil || s.Drags.Window == nil || s.Listeners.Pointer != 1 {
		t.Fatalf("expected only the window drag left, got %+v / %+v", s.Drags, s.Listeners)
	}
}

func TestPointer_CanvasPressClearsSelection(t *testing.T) {
	h := newHarness(t)
	if err := h.d.SelectIcon("desktop-mdp"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if !h.d.Pointer(ev(pointer.Down, 1, 50, 700)) {
		t.Fatalf("expected canvas press to clear selection")
	}
	if s := h.d.Snapshot(); s.ActiveIcon != "" {
		t.Fatalf("active icon = %q, want none", s.ActiveIcon)
	}
}

func TestHitTest_Order(t *testing.T) {
	h := newHarness(t)
	if err := h.d.OpenWindow(Login); err != nil {
		t.Fatalf("open: %v", err)
	}

	tests := []struct {
		name   string
		client geometry.Point
		want   pointer.Target
	}{
		{"menu bar", pt(10, 10), pointer.Target{}},
		{"empty canvas", pt(10, 700), pointer.Target{Kind: pointer.SurfaceCanvas}},
		{"login over finder", pt(600, 30+300), pointer.Target{Kind: pointer.SurfaceWindow, ID: "login", Region: pointer.RegionForm}},
		{"finder panel", pt(300, 30+400), pointer.Target{Kind: pointer.SurfaceWindow, ID: "finder", Region: pointer.RegionPanelItem}},
		{"finder controls", pt(290, 30+185), pointer.Target{Kind: pointer.SurfaceWindow, ID: "finder", Region: pointer.RegionControls}},
		{"icon", pt(1200, 30+50), pointer.Target{Kind: pointer.SurfaceIcon, ID: "desktop-mdp", Region: pointer.RegionBody}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.d.HitTest(tt.client); got != tt.want {
				t.Fatalf("HitTest(%+v) = %+v, want %+v", tt.client, got, tt.want)
			}
		})
	}
}

func TestPointer_SecondaryPressKeepsIconSelection(t *testing.T) {
	h := newHarness(t)
	press := pointer.Event{Kind: pointer.Down, PointerID: 1, Button: 2, Client: pt(1180, 30+34+10)}
	if h.d.Pointer(press) {
		t.Fatalf("secondary press on an icon should not be handled")
	}
	s := h.d.Snapshot()
	if s.ActiveIcon != "" || s.Drags.Icon != nil {
		t.Fatalf("secondary press selected %q / dragged %+v", s.ActiveIcon, s.Drags.Icon)
	}
}

func TestPointer_BusyIconPressIsNotHandled(t *testing.T) {
	h := newHarness(t)
	if !h.d.Pointer(ev(pointer.Down, 2, 1180, 30+34+10)) {
		t.Fatalf("expected first icon press to start a drag")
	}
	// Same icon, already selected and already dragged by pointer 2.
	if h.d.Pointer(ev(pointer.Down, 3, 1190, 30+34+20)) {
		t.Fatalf("second press on a busy icon reported as handled")
	}
	if s := h.d.Snapshot(); s.Drags.Icon == nil || s.Drags.Icon.PointerID != 2 {
		t.Fatalf("icon drag = %+v, want pointer 2", s.Drags.Icon)
	}
}

func TestPointer_LoginHonoursOnlyRedLight(t *testing.T) {
	h := newHarness(t)
	if err := h.d.OpenWindow(Login); err != nil {
		t.Fatalf("open: %v", err)
	}
	// Login sits at canvas (430,170); its 64px controls strip splits in thirds.
	y := 30 + 170 + 5
	for _, x := range []int{430 + 30, 430 + 50} {
		if h.d.Pointer(ev(pointer.Down, 1, x, y)) {
			t.Fatalf("press at x=%d on login controls reported as handled", x)
		}
	}
	for _, light := range []Light{LightYellow, LightGreen} {
		if err := h.d.TrafficLight(Login, light); err != nil {
			t.Fatalf("TrafficLight(%s): %v", light, err)
		}
	}
	if w := h.window(t, Login); !w.Open || w.Position != pt(430, 170) {
		t.Fatalf("login = %+v, want open at (430,170)", w)
	}

	if !h.d.Pointer(ev(pointer.Down, 1, 430+5, y)) {
		t.Fatalf("expected red press to be handled")
	}
	if w := h.window(t, Login); w.Open {
		t.Fatalf("expected red to close the login window")
	}
}
