package desktop

import (
	"errors"
	"testing"

	"github.com/1broseidon/glassdesk/internal/geometry"
	"github.com/1broseidon/glassdesk/internal/transfer"
)

func TestDrop_NearBottomRightClampsToMargin(t *testing.T) {
	h := newHarness(t)

	// 5px from the bottom-right corner of the canvas.
	icon, err := h.d.Drop(transfer.NewFinderCarrier("wallet-app"), pt(1275, 30+795))
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if icon.Position != pt(1280-86-8, 800-96-8) {
		t.Fatalf("icon at %+v, want (1186,696)", icon.Position)
	}
	if icon.ID != "desktop-1-salt" || icon.AppID != "wallet-app" {
		t.Fatalf("unexpected icon %+v", icon)
	}

	s := h.d.Snapshot()
	if len(s.Icons) != 2 || s.ActiveIcon != icon.ID {
		t.Fatalf("expected the new icon appended and selected, got %d icons, active %q", len(s.Icons), s.ActiveIcon)
	}
	if h.rec.accepted != 1 {
		t.Fatalf("accepted drops = %d, want 1", h.rec.accepted)
	}
}

func TestDrop_CentersOnPointer(t *testing.T) {
	h := newHarness(t)
	icon, err := h.d.DropApp("home-app", pt(150, 30+700))
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if icon.Position != pt(107, 652) {
		t.Fatalf("icon at %+v, want (107,652)", icon.Position)
	}

	second, err := h.d.DropApp("home-app", pt(150, 30+700))
	if err != nil {
		t.Fatalf("second drop: %v", err)
	}
	if second.ID == icon.ID {
		t.Fatalf("icon ids collide: %q", second.ID)
	}
}

func TestDrop_TinyCanvasCollapsesToMargin(t *testing.T) {
	h := newHarness(t)
	if err := h.d.CloseWindow(Finder); err != nil {
		t.Fatalf("close: %v", err)
	}
	h.d.Resize(geometry.Size{Width: 50, Height: 40})

	for _, client := range []geometry.Point{pt(0, 30), pt(49, 69), pt(25, 50)} {
		icon, err := h.d.DropApp("mail-app", client)
		if err != nil {
			t.Fatalf("drop at %+v: %v", client, err)
		}
		if icon.Position != pt(8, 8) {
			t.Fatalf("drop at %+v landed at %+v, want (8,8)", client, icon.Position)
		}
	}
}

func TestDrop_Rejections(t *testing.T) {
	wrongSource := transfer.NewCarrier()
	if err := transfer.Encode(wrongSource, transfer.Payload{SourceTag: "dock", ApplicationID: "wallet-app"}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	malformed := transfer.NewCarrier()
	malformed.SetData(transfer.MediaType, "{")

	tests := []struct {
		name   string
		dt     transfer.DataTransfer
		client geometry.Point
		want   error
		reason string
	}{
		{"no payload", transfer.NewCarrier(), pt(100, 700), transfer.ErrNoPayload, "no_payload"},
		{"malformed", malformed, pt(100, 700), transfer.ErrMalformed, "malformed"},
		{"wrong source", wrongSource, pt(100, 700), ErrWrongSource, "wrong_source"},
		{"unknown app", transfer.NewFinderCarrier("nope"), pt(100, 700), ErrUnknownApp, "unknown_app"},
		{"over finder", transfer.NewFinderCarrier("wallet-app"), pt(500, 30+400), ErrOverFinder, "over_finder"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			before := h.d.Snapshot()

			_, err := h.d.Drop(tt.dt, tt.client)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if got := RejectReason(err); got != tt.reason {
				t.Fatalf("reason = %q, want %q", got, tt.reason)
			}
			after := h.d.Snapshot()
			if len(after.Icons) != len(before.Icons) || after.ActiveIcon != before.ActiveIcon {
				t.Fatalf("rejected drop changed state")
			}
			if h.rec.rejected[tt.reason] != 1 {
				t.Fatalf("rejections = %v", h.rec.rejected)
			}
		})
	}
}

func TestDrop_OverClosedFinderIsAccepted(t *testing.T) {
	h := newHarness(t)
	if err := h.d.CloseWindow(Finder); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := h.d.DropApp("wallet-app", pt(500, 30+400)); err != nil {
		t.Fatalf("drop: %v", err)
	}
}

func TestDrop_LegacyCarrier(t *testing.T) {
	h := newHarness(t)
	dt := transfer.NewCarrier()
	dt.SetData("application/x-mini-desktop-source", "finder")
	dt.SetData("application/x-mini-desktop-app", "locate-app")

	if got := h.d.DragOver(dt); got != transfer.EffectCopy {
		t.Fatalf("drag over = %q, want copy", got)
	}
	icon, err := h.d.Drop(dt, pt(100, 700))
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if icon.AppID != "locate-app" {
		t.Fatalf("app = %q, want locate-app", icon.AppID)
	}
}

func TestDragOver(t *testing.T) {
	h := newHarness(t)
	if got := h.d.DragOver(transfer.NewFinderCarrier("wallet-app")); got != transfer.EffectCopy {
		t.Fatalf("finder drag = %q, want copy", got)
	}
	plain := transfer.NewCarrier()
	plain.SetData("text/plain", "hello")
	if got := h.d.DragOver(plain); got != transfer.EffectNone {
		t.Fatalf("text drag = %q, want none", got)
	}
}

func TestIconDragAfterDropAndResize(t *testing.T) {
	h := newHarness(t)
	icon, err := h.d.DropApp("wallet-app", pt(1200, 30+700))
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	h.d.Resize(geometry.Size{Width: 900, Height: 600})
	got, _ := h.d.Snapshot().Icon(icon.ID)
	if got.Position != pt(806, 496) {
		t.Fatalf("icon at %+v after shrink, want (806,496)", got.Position)
	}
}
