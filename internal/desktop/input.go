package desktop

import (
	"log/slog"

	"github.com/1broseidon/glassdesk/internal/geometry"
	"github.com/1broseidon/glassdesk/internal/pointer"
)

// Pointer feeds one pointer sample to the engine. A down event with no
// target is hit-tested against the current layout. Move, up and cancel
// events reach whichever drag controllers currently hold a listener.
// It reports whether the event changed anything.
func (d *Desktop) Pointer(ev pointer.Event) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	var handled bool
	if ev.Kind == pointer.Down {
		handled = d.pointerDownLocked(ev)
	} else {
		handled = d.pointers.Len() > 0
		d.pointers.Dispatch(ev)
	}
	if handled {
		d.notifyLocked()
	}
	return handled
}

// HitTest resolves a client point to the topmost surface under it.
func (d *Desktop) HitTest(client geometry.Point) pointer.Target {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hitTestLocked(client)
}

func (d *Desktop) pointerDownLocked(ev pointer.Event) bool {
	if ev.Target.Zero() {
		ev.Target = d.hitTestLocked(ev.Client)
	}

	switch ev.Target.Kind {
	case pointer.SurfaceWindow:
		id := WindowID(ev.Target.ID)
		w, ok := d.windows[id]
		if !ok || !w.Open || !ev.IsPrimary() {
			return false
		}
		if ev.Target.Region == pointer.RegionControls {
			if light, ok := d.lightAt(w, ev.Client); ok {
				return d.trafficLightLocked(id, light)
			}
			return false
		}
		// Only the title bar moves the Finder.
		if id == Finder && ev.Target.Region != pointer.RegionTitleBar {
			return false
		}
		if !d.windowDrag.Begin(ev, string(id)) {
			return false
		}
		d.opts.Recorder.DragStarted(windowDragClass)
		return true

	case pointer.SurfaceIcon:
		if d.iconIndex(ev.Target.ID) < 0 || !ev.IsPrimary() {
			return false
		}
		selected := d.activeIcon != ev.Target.ID
		d.activeIcon = ev.Target.ID
		if !d.iconDrag.Begin(ev, ev.Target.ID) {
			return selected
		}
		d.opts.Recorder.DragStarted(iconDragClass)
		return true

	case pointer.SurfaceCanvas:
		if d.activeIcon == "" {
			return false
		}
		d.activeIcon = ""
		return true
	}

	slog.Debug("Pointer down outside canvas", "x", ev.Client.X, "y", ev.Client.Y)
	return false
}

// hitTestLocked checks the login window, then the Finder, then icons from
// the most recently added.
func (d *Desktop) hitTestLocked(client geometry.Point) pointer.Target {
	canvas := d.canvasRect()
	if !canvas.Contains(client) {
		return pointer.Target{}
	}
	local := client.Sub(canvas.Origin())

	for i := len(Windows) - 1; i >= 0; i-- {
		w := d.windows[Windows[i]]
		if !w.Open || !w.Rect().Contains(local) {
			continue
		}
		return pointer.Target{
			Kind:   pointer.SurfaceWindow,
			ID:     string(w.ID),
			Region: windowRegion(w.ID, w.Chrome, local.Sub(w.Position)),
		}
	}

	box := d.opts.Icon.Size()
	for i := len(d.icons) - 1; i >= 0; i-- {
		if geometry.RectAt(d.icons[i].Position, box).Contains(local) {
			return pointer.Target{Kind: pointer.SurfaceIcon, ID: d.icons[i].ID, Region: pointer.RegionBody}
		}
	}
	return pointer.Target{Kind: pointer.SurfaceCanvas}
}

func windowRegion(id WindowID, c Chrome, rel geometry.Point) pointer.Region {
	if rel.Y < c.TitleBar {
		if rel.X < c.Controls {
			return pointer.RegionControls
		}
		return pointer.RegionTitleBar
	}
	if id == Login {
		return pointer.RegionForm
	}
	return pointer.RegionPanelItem
}

// lightAt splits the controls strip into equal thirds.
func (d *Desktop) lightAt(w *windowState, client geometry.Point) (Light, bool) {
	if w.Chrome.Controls <= 0 {
		return "", false
	}
	rel := client.Sub(d.opts.Origin).Sub(w.Position)
	if rel.X < 0 || rel.X >= w.Chrome.Controls {
		return "", false
	}
	idx := rel.X * len(lights) / w.Chrome.Controls
	return lights[idx], true
}
