package desktop

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/glassdesk/internal/catalog"
)

// OpenApp launches an app from the Finder grid, the dock or a desktop icon.
// Launching is a toast; apps that open the login window also swap the
// Finder for a freshly centered login window.
func (d *Desktop) OpenApp(appID string, from Origin) (catalog.App, error) {
	app, ok := d.opts.Catalog.Lookup(appID)
	if !ok {
		return catalog.App{}, fmt.Errorf("%w: %q", ErrUnknownApp, appID)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	switch from {
	case FromFinder:
		d.finderApp = app.ID
	case FromDock:
		d.dockApp = app.ID
	}
	d.showToastLocked(app.Name + ": " + app.Description)

	if app.OpensLogin {
		login := d.windows[Login]
		d.windowDrag.AbortSubject(string(Login))
		login.Centered = false
		d.openLocked(Login)
		d.closeLocked(Finder)
	}
	slog.Debug("App opened", "app", app.ID, "from", from)
	d.notifyLocked()
	return app, nil
}

// OpenIcon launches the app behind a desktop icon.
func (d *Desktop) OpenIcon(iconID string) (catalog.App, error) {
	d.mu.Lock()
	i := d.iconIndex(iconID)
	var appID string
	if i >= 0 {
		appID = d.icons[i].AppID
		d.activeIcon = iconID
	}
	d.mu.Unlock()
	if i < 0 {
		return catalog.App{}, fmt.Errorf("%w: %q", ErrUnknownIcon, iconID)
	}
	return d.OpenApp(appID, FromDesktop)
}

// MenuFinder is the menu bar Finder entry: it reopens a closed Finder or
// recenters an open one.
func (d *Desktop) MenuFinder() {
	d.mu.Lock()
	defer d.mu.Unlock()
	f := d.windows[Finder]
	if !f.Open {
		d.openLocked(Finder)
	} else {
		d.windowDrag.Recenter(string(Finder))
		f.Centered = true
	}
	d.notifyLocked()
}

// TrafficLight presses a title bar button: red and yellow close the
// window, green recenters it. The login panel only honours red.
func (d *Desktop) TrafficLight(id WindowID, light Light) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, ok := d.windows[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWindow, id)
	}
	if !w.Open {
		return fmt.Errorf("window %q is closed", id)
	}
	if _, err := ParseLight(string(light)); err != nil {
		return err
	}
	d.trafficLightLocked(id, light)
	d.notifyLocked()
	return nil
}

// trafficLightLocked reports whether the press did anything.
func (d *Desktop) trafficLightLocked(id WindowID, light Light) bool {
	if id == Login && light != LightRed {
		return false
	}
	switch light {
	case LightRed, LightYellow:
		d.closeLocked(id)
	case LightGreen:
		d.windowDrag.Recenter(string(id))
		d.windows[id].Centered = true
	default:
		return false
	}
	return true
}
