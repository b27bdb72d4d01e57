package desktop

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/glassdesk/internal/geometry"
	"github.com/1broseidon/glassdesk/internal/transfer"
)

// DragOver reports the effect the canvas allows for a drag in progress.
// Only the payload types are inspected, as hosts do not expose data until
// the drop.
func (d *Desktop) DragOver(dt transfer.DataTransfer) transfer.Effect {
	if transfer.Accepts(dt) {
		return transfer.EffectCopy
	}
	return transfer.EffectNone
}

// Drop creates a desktop icon from a Finder drag released at client. The
// icon is centered on the pointer, clamped, appended and selected. A
// rejected drop changes nothing.
func (d *Desktop) Drop(dt transfer.DataTransfer, client geometry.Point) (Icon, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	icon, err := d.dropLocked(dt, client)
	if err != nil {
		reason := RejectReason(err)
		d.opts.Recorder.DropRejected(reason)
		slog.Debug("Drop ignored", "reason", reason, "error", err)
		return Icon{}, err
	}
	d.opts.Recorder.DropAccepted(icon.AppID)
	d.notifyLocked()
	return icon, nil
}

// DropApp is Drop for hosts without a native drag channel.
func (d *Desktop) DropApp(appID string, client geometry.Point) (Icon, error) {
	return d.Drop(transfer.NewFinderCarrier(appID), client)
}

func (d *Desktop) dropLocked(dt transfer.DataTransfer, client geometry.Point) (Icon, error) {
	p, err := transfer.Decode(dt)
	if err != nil {
		return Icon{}, err
	}
	if p.SourceTag != transfer.SourceFinder {
		return Icon{}, fmt.Errorf("%w: %q", ErrWrongSource, p.SourceTag)
	}
	if _, ok := d.opts.Catalog.Lookup(p.ApplicationID); !ok {
		return Icon{}, fmt.Errorf("%w: %q", ErrUnknownApp, p.ApplicationID)
	}

	local := client.Sub(d.opts.Origin)
	if f := d.windows[Finder]; f.Open && f.Rect().Contains(local) {
		return Icon{}, ErrOverFinder
	}

	want := local.Sub(d.opts.Icon.Half())
	icon := Icon{
		ID:       d.nextIconID(),
		AppID:    p.ApplicationID,
		Position: geometry.ClampIconPosition(want.X, want.Y, d.canvas.Width, d.canvas.Height, d.opts.Icon),
	}
	d.icons = append(d.icons, icon)
	d.activeIcon = icon.ID
	slog.Debug("Icon dropped", "icon", icon.ID, "app", icon.AppID, "x", icon.Position.X, "y", icon.Position.Y)
	return icon, nil
}

// RejectReason labels a Drop error for logs and metrics.
func RejectReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, transfer.ErrNoPayload):
		return "no_payload"
	case errors.Is(err, transfer.ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrWrongSource):
		return "wrong_source"
	case errors.Is(err, ErrUnknownApp):
		return "unknown_app"
	case errors.Is(err, ErrOverFinder):
		return "over_finder"
	}
	return "other"
}
