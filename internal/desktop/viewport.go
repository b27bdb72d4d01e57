package desktop

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/glassdesk/internal/geometry"
)

// Resize applies a new canvas size. Open windows are centered if they have
// not been yet in this open lifecycle, otherwise re-clamped; every icon is
// re-clamped.
func (d *Desktop) Resize(size geometry.Size) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.canvas = nonNegative(size)
	d.opts.Recorder.CanvasResized(d.canvas)
	d.resizes.Dispatch(d.canvas)
	slog.Debug("Canvas resized", "width", d.canvas.Width, "height", d.canvas.Height)
	d.notifyLocked()
}

// Canvas returns the current canvas size.
func (d *Desktop) Canvas() geometry.Size {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.canvas
}

// SetWindowSize records a host measurement of a window's box and re-clamps
// the window when it is open.
func (d *Desktop) SetWindowSize(id WindowID, size geometry.Size) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, ok := d.windows[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWindow, id)
	}
	w.Chrome.Size = nonNegative(size)
	if w.Open {
		d.windowDrag.Clamp(string(id))
	}
	d.notifyLocked()
	return nil
}

// OpenWindow opens a window. A closed window is centered on open.
func (d *Desktop) OpenWindow(id WindowID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.windows[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWindow, id)
	}
	d.openLocked(id)
	d.notifyLocked()
	return nil
}

// CloseWindow closes a window, ends a drag on it and resets its centering.
func (d *Desktop) CloseWindow(id WindowID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.windows[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWindow, id)
	}
	d.closeLocked(id)
	d.notifyLocked()
	return nil
}

// RecenterWindow centers an open window in the canvas.
func (d *Desktop) RecenterWindow(id WindowID) (geometry.Point, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, ok := d.windows[id]
	if !ok {
		return geometry.Point{}, fmt.Errorf("%w: %q", ErrUnknownWindow, id)
	}
	if !w.Open {
		return geometry.Point{}, fmt.Errorf("%w: %q", ErrWindowClosed, id)
	}
	p, _ := d.windowDrag.Recenter(string(id))
	w.Centered = true
	d.notifyLocked()
	return p, nil
}

func (d *Desktop) openLocked(id WindowID) {
	w := d.windows[id]
	if !w.Open {
		w.Open = true
		w.Centered = false
		slog.Debug("Window opened", "window", id)
		if id == Login {
			d.revealSessionLocked()
		}
	}
	if w.resize == nil {
		w.resize = d.resizes.Acquire("viewport:"+string(id), func(geometry.Size) { d.syncWindow(id) })
	}
	d.syncWindow(id)
}

func (d *Desktop) closeLocked(id WindowID) {
	w := d.windows[id]
	d.windowDrag.AbortSubject(string(id))
	w.resize.Release()
	w.resize = nil
	if w.Open {
		slog.Debug("Window closed", "window", id)
	}
	w.Open = false
	w.Centered = false
	if id == Login {
		d.stopRevealLocked()
	}
}

// syncWindow runs one viewport pass for an open window.
func (d *Desktop) syncWindow(id WindowID) {
	w := d.windows[id]
	if !w.Open {
		return
	}
	if w.Centered {
		d.windowDrag.Clamp(string(id))
		return
	}
	// Nothing to center against until the host measured the canvas.
	if d.canvas.Width == 0 || d.canvas.Height == 0 {
		return
	}
	d.windowDrag.Recenter(string(id))
	w.Centered = true
}

func (d *Desktop) clampIcons() {
	for i := range d.icons {
		d.iconDrag.Clamp(d.icons[i].ID)
	}
}
