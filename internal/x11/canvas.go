// Package x11 measures the usable desktop area of a running X server so the
// engine canvas can follow the real screen.
package x11

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/glassdesk/internal/geometry"
)

// Connection is an open display plus its root window.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// Connect opens the display named by $DISPLAY.
func Connect() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}
	return &Connection{XUtil: xu, Root: xu.RootWin()}, nil
}

func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

// CanvasSize returns the usable area of the monitor under the pointer: its
// bounds cut down to the EWMH work area of the current desktop, so panels
// and docks are excluded. Without RandR the root window size is used.
func (c *Connection) CanvasSize() (geometry.Size, error) {
	bounds, err := c.monitorBounds()
	if err != nil {
		return geometry.Size{}, err
	}

	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		slog.Debug("No EWMH work area, using monitor bounds", "error", err)
		return bounds.Size(), nil
	}

	desktopIndex := 0
	if current, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(current) < len(workArea) {
		desktopIndex = int(current)
	}
	wa := workArea[desktopIndex]
	area := geometry.Rect{X: wa.X, Y: wa.Y, Width: int(wa.Width), Height: int(wa.Height)}

	if usable, ok := intersect(bounds, area); ok {
		return usable.Size(), nil
	}
	return bounds.Size(), nil
}

func (c *Connection) monitorBounds() (geometry.Rect, error) {
	monitors, err := c.GetMonitors()
	if err == nil {
		if mon, ok := c.pointerMonitor(monitors); ok {
			return mon.Bounds, nil
		}
	} else {
		slog.Debug("RandR unavailable, using root geometry", "error", err)
	}

	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("failed to get root geometry: %w", err)
	}
	return geometry.Rect{Width: int(geom.Width), Height: int(geom.Height)}, nil
}

// intersect returns the overlap of a and b, if any.
func intersect(a, b geometry.Rect) (geometry.Rect, bool) {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.Width, b.X+b.Width)
	y2 := min(a.Y+a.Height, b.Y+b.Height)
	if x2 <= x1 || y2 <= y1 {
		return geometry.Rect{}, false
	}
	return geometry.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}, true
}

// Probe opens a connection, measures the canvas and closes it again.
func Probe() (geometry.Size, error) {
	conn, err := Connect()
	if err != nil {
		return geometry.Size{}, fmt.Errorf("failed to connect to X server: %w", err)
	}
	defer conn.Close()
	return conn.CanvasSize()
}
