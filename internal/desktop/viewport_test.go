package desktop

import (
	"testing"

	"github.com/1broseidon/glassdesk/internal/geometry"
	"github.com/1broseidon/glassdesk/internal/pointer"
)

func TestResize_ReclampsWithoutRecentering(t *testing.T) {
	h := newHarness(t)
	h.d.Resize(geometry.Size{Width: 800, Height: 600})

	s := h.d.Snapshot()
	finder, _ := s.Window(Finder)
	// Centering would give (40,80); the existing position is only clamped.
	if finder.Position != pt(80, 160) {
		t.Fatalf("finder at %+v, want (80,160)", finder.Position)
	}
	icon, _ := s.Icon("desktop-mdp")
	if icon.Position != pt(706, 34) {
		t.Fatalf("icon at %+v, want (706,34)", icon.Position)
	}
	if h.rec.resizes != 1 {
		t.Fatalf("resizes recorded = %d, want 1", h.rec.resizes)
	}

	h.d.Resize(geometry.Size{Width: 1600, Height: 1000})
	if got := h.window(t, Finder).Position; got != pt(80, 160) {
		t.Fatalf("finder at %+v after growing, want (80,160)", got)
	}
}

func TestOpenWindow_CentersOncePerOpenLifecycle(t *testing.T) {
	h := newHarness(t)

	if err := h.d.CloseWindow(Finder); err != nil {
		t.Fatalf("close: %v", err)
	}
	if w := h.window(t, Finder); w.Centered {
		t.Fatalf("close must reset centering")
	}

	h.d.Resize(geometry.Size{Width: 1000, Height: 700})
	if err := h.d.OpenWindow(Finder); err != nil {
		t.Fatalf("open: %v", err)
	}
	w := h.window(t, Finder)
	if !w.Centered || w.Position != pt(140, 130) {
		t.Fatalf("finder = %+v, want centered at (140,130)", w)
	}

	// Opening an open window is not a new lifecycle.
	h.d.Pointer(ev(pointer.Down, 1, 140+100, 30+130+10))
	h.d.Pointer(ev(pointer.Move, 1, 140+90, 30+130+10))
	h.d.Pointer(ev(pointer.Up, 1, 0, 0))
	if err := h.d.OpenWindow(Finder); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := h.window(t, Finder).Position; got != pt(130, 130) {
		t.Fatalf("finder at %+v, want (130,130)", got)
	}
}

func TestOpenClose_NoListenerAccumulation(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 5; i++ {
		if err := h.d.OpenWindow(Login); err != nil {
			t.Fatalf("open: %v", err)
		}
		if err := h.d.OpenWindow(Login); err != nil {
			t.Fatalf("open twice: %v", err)
		}
		if n := h.d.Snapshot().Listeners.Resize; n != 3 {
			t.Fatalf("round %d: resize listeners = %d, want 3", i, n)
		}
		if err := h.d.CloseWindow(Login); err != nil {
			t.Fatalf("close: %v", err)
		}
		if err := h.d.CloseWindow(Login); err != nil {
			t.Fatalf("close twice: %v", err)
		}
		if n := h.d.Snapshot().Listeners.Resize; n != 2 {
			t.Fatalf("round %d: resize listeners = %d, want 2", i, n)
		}
	}
}

func TestCloseWindow_AbortsDragOnIt(t *testing.T) {
	h := newHarness(t)
	h.d.Pointer(ev(pointer.Down, 1, finderTitleX, finderTitleY))
	if err := h.d.CloseWindow(Finder); err != nil {
		t.Fatalf("close: %v", err)
	}
	s := h.d.Snapshot()
	if s.Drags.Window != nil || s.Listeners.Pointer != 0 {
		t.Fatalf("expected drag released on close, got %+v / %+v", s.Drags.Window, s.Listeners)
	}
}

func TestNew_UnmeasuredCanvasDefersCentering(t *testing.T) {
	clock := &fakeScheduler{}
	d := New(Options{Scheduler: clock.schedule})
	defer d.Close()

	w, _ := d.Snapshot().Window(Finder)
	if !w.Open || w.Centered {
		t.Fatalf("finder = %+v, want open and not yet centered", w)
	}
	d.Resize(geometry.Size{Width: 1280, Height: 800})
	w, _ = d.Snapshot().Window(Finder)
	if !w.Centered || w.Position != pt(280, 180) {
		t.Fatalf("finder = %+v, want centered at (280,180)", w)
	}
}

func TestSetWindowSize_ReclampsOpenWindow(t *testing.T) {
	h := newHarness(t)
	if err := h.d.SetWindowSize(Finder, geometry.Size{Width: 1200, Height: 700}); err != nil {
		t.Fatalf("set size: %v", err)
	}
	w := h.window(t, Finder)
	if w.Position != pt(80, 100) {
		t.Fatalf("finder at %+v, want (80,100)", w.Position)
	}
	if w.Chrome.Size != (geometry.Size{Width: 1200, Height: 700}) {
		t.Fatalf("chrome size = %+v", w.Chrome.Size)
	}
	if err := h.d.SetWindowSize("dock", geometry.Size{}); err == nil {
		t.Fatalf("expected error for unknown window")
	}
}

func TestRecenterWindow(t *testing.T) {
	h := newHarness(t)
	h.d.Resize(geometry.Size{Width: 800, Height: 600})
	p, err := h.d.RecenterWindow(Finder)
	if err != nil {
		t.Fatalf("recenter: %v", err)
	}
	if p != pt(40, 80) {
		t.Fatalf("recentered at %+v, want (40,80)", p)
	}
	if _, err := h.d.RecenterWindow(Login); err == nil {
		t.Fatalf("expected error recentering a closed window")
	}

	h.d.MenuFinder()
	if got := h.window(t, Finder).Position; got != pt(40, 80) {
		t.Fatalf("menu recenter at %+v", got)
	}
	if err := h.d.CloseWindow(Finder); err != nil {
		t.Fatalf("close: %v", err)
	}
	h.d.MenuFinder()
	if w := h.window(t, Finder); !w.Open || !w.Centered {
		t.Fatalf("menu must reopen the finder, got %+v", w)
	}
}
