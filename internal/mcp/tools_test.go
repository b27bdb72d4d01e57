package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/1broseidon/glassdesk/internal/desktop"
	"github.com/1broseidon/glassdesk/internal/geometry"
	"github.com/1broseidon/glassdesk/internal/pointer"
	"github.com/1broseidon/glassdesk/internal/session"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	desk := desktop.New(desktop.Options{
		Canvas: geometry.Size{Width: 1280, Height: 800},
		Origin: geometry.Point{X: 0, Y: 30},
		Salt:   func() string { return "salt" },
	})
	t.Cleanup(desk.Close)
	s := NewServer(desk)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s
}

func TestHandleDragSurface_Window(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		x, y        int
		want        geometry.Point
		wantClamped bool
	}{
		{"inside", 100, 50, geometry.Point{X: 100, Y: 50}, false},
		{"past bottom-right", 2000, 900, geometry.Point{X: 560, Y: 360}, true},
		{"past top-left", -40, -10, geometry.Point{X: 0, Y: 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := s.handleDragSurface(ctx, nil, DragSurfaceInput{Surface: "window", ID: "finder", X: tt.x, Y: tt.y})
			if err != nil {
				t.Fatalf("handleDragSurface() error: %v", err)
			}
			if out.Position != tt.want {
				t.Errorf("Position = %+v, want %+v", out.Position, tt.want)
			}
			if out.Clamped != tt.wantClamped {
				t.Errorf("Clamped = %v, want %v", out.Clamped, tt.wantClamped)
			}
		})
	}
}

func TestHandleDragSurface_Errors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	if _, _, err := s.handleDragSurface(ctx, nil, DragSurfaceInput{Surface: "window", ID: "login"}); !errors.Is(err, desktop.ErrWindowClosed) {
		t.Errorf("closed window error = %v, want ErrWindowClosed", err)
	}
	if _, _, err := s.handleDragSurface(ctx, nil, DragSurfaceInput{Surface: "icon", ID: "nope"}); !errors.Is(err, desktop.ErrUnknownIcon) {
		t.Errorf("unknown icon error = %v, want ErrUnknownIcon", err)
	}
	if _, _, err := s.handleDragSurface(ctx, nil, DragSurfaceInput{Surface: "dock", ID: "x"}); err == nil {
		t.Error("unknown surface error = nil")
	}
}

func TestHandleDropAppThenDragIcon(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, dropped, err := s.handleDropApp(ctx, nil, DropAppInput{AppID: "wallet-app", X: 1270, Y: 790})
	if err != nil {
		t.Fatalf("handleDropApp() error: %v", err)
	}
	if dropped.Icon.Position != (geometry.Point{X: 1186, Y: 696}) {
		t.Fatalf("icon position = %+v, want (1186,696)", dropped.Icon.Position)
	}

	_, out, err := s.handleDragSurface(ctx, nil, DragSurfaceInput{Surface: "icon", ID: dropped.Icon.ID, X: 0, Y: 0})
	if err != nil {
		t.Fatalf("handleDragSurface(icon) error: %v", err)
	}
	if out.Position != (geometry.Point{X: 8, Y: 8}) || !out.Clamped {
		t.Errorf("icon drag = %+v, want clamped to (8,8)", out)
	}

	// Over the open Finder.
	if _, _, err := s.handleDropApp(ctx, nil, DropAppInput{AppID: "wallet-app", X: 500, Y: 400}); !errors.Is(err, desktop.ErrOverFinder) {
		t.Errorf("drop over finder error = %v, want ErrOverFinder", err)
	}
}

func TestHandleDragSurface_IconBusy(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, dropped, err := s.handleDropApp(ctx, nil, DropAppInput{AppID: "wallet-app", X: 100, Y: 700})
	if err != nil {
		t.Fatalf("handleDropApp() error: %v", err)
	}
	// A user drag of the desktop shortcut at canvas (1170,34) holds the icon class.
	if !s.desk.Pointer(pointer.Event{Kind: pointer.Down, PointerID: 1, Client: geometry.Point{X: 1180, Y: 74}}) {
		t.Fatal("shortcut press not handled")
	}

	_, _, err = s.handleDragSurface(ctx, nil, DragSurfaceInput{Surface: "icon", ID: dropped.Icon.ID, X: 400, Y: 400})
	if err == nil {
		t.Fatal("drag of a second icon during a live icon drag error = nil")
	}
	st := s.desk.Snapshot()
	icon, _ := st.Icon(dropped.Icon.ID)
	if icon.Position != dropped.Icon.Position {
		t.Errorf("icon moved to %+v, want %+v", icon.Position, dropped.Icon.Position)
	}
	if st.Drags.Icon == nil || st.Drags.Icon.PointerID != 1 {
		t.Errorf("icon drag = %+v, want the user pointer", st.Drags.Icon)
	}
}

func TestHandlePointerEvent(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, out, err := s.handlePointerEvent(ctx, nil, PointerEventInput{Kind: "down", X: 400, Y: 220})
	if err != nil {
		t.Fatalf("down error: %v", err)
	}
	if !out.Handled || out.Target != "window:finder:title-bar" {
		t.Fatalf("down = %+v, want handled on finder title bar", out)
	}
	s.handlePointerEvent(ctx, nil, PointerEventInput{Kind: "move", X: 420, Y: 230})
	s.handlePointerEvent(ctx, nil, PointerEventInput{Kind: "up", X: 420, Y: 230})

	w, _ := s.desk.Snapshot().Window(desktop.Finder)
	if w.Position != (geometry.Point{X: 300, Y: 190}) {
		t.Errorf("finder = %+v, want (300,190)", w.Position)
	}

	if _, _, err := s.handlePointerEvent(ctx, nil, PointerEventInput{Kind: "wiggle"}); err == nil {
		t.Error("unknown kind error = nil")
	}
}

func TestHandleWindowsAndApps(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, opened, err := s.handleOpenApp(ctx, nil, OpenAppInput{AppID: "vault-app", From: "finder"})
	if err != nil {
		t.Fatalf("handleOpenApp() error: %v", err)
	}
	if opened.App.ID != "vault-app" {
		t.Fatalf("app = %+v", opened.App)
	}
	st := s.desk.Snapshot()
	if login, _ := st.Window(desktop.Login); !login.Open {
		t.Fatal("login window not open after vault-app")
	}

	_, out, err := s.handleRecenterWindow(ctx, nil, WindowInput{Window: "login"})
	if err != nil {
		t.Fatalf("handleRecenterWindow() error: %v", err)
	}
	if out.Window.Position != (geometry.Point{X: 430, Y: 170}) {
		t.Errorf("login = %+v, want (430,170)", out.Window.Position)
	}

	_, closed, err := s.handleCloseWindow(ctx, nil, WindowInput{Window: "login"})
	if err != nil || closed.Window.Open {
		t.Fatalf("handleCloseWindow() = %+v, %v", closed.Window, err)
	}
	if _, _, err := s.handleOpenWindow(ctx, nil, WindowInput{Window: "dock"}); !errors.Is(err, desktop.ErrUnknownWindow) {
		t.Errorf("open dock error = %v, want ErrUnknownWindow", err)
	}
	if _, _, err := s.handleOpenApp(ctx, nil, OpenAppInput{AppID: "wallet-app", From: "space"}); err == nil {
		t.Error("bad origin error = nil")
	}
}

func TestHandleResizeCanvas(t *testing.T) {
	s := newTestServer(t)
	_, st, err := s.handleResizeCanvas(context.Background(), nil, ResizeCanvasInput{Width: 800, Height: 500})
	if err != nil {
		t.Fatalf("handleResizeCanvas() error: %v", err)
	}
	if st.Canvas != (geometry.Size{Width: 800, Height: 500}) {
		t.Errorf("Canvas = %+v", st.Canvas)
	}
	finder, _ := st.Window(desktop.Finder)
	if finder.Position != (geometry.Point{X: 80, Y: 60}) {
		t.Errorf("finder after resize = %+v, want (80,60)", finder.Position)
	}
	if _, _, err := s.handleResizeCanvas(context.Background(), nil, ResizeCanvasInput{Width: -1}); err == nil {
		t.Error("negative resize error = nil")
	}
}

func TestHandleLoginFlow(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, bad, err := s.handleSubmitLogin(ctx, nil, LoginInput{Username: "Al", Email: "nope", Website: ""})
	if err != nil {
		t.Fatalf("invalid submit returned tool error: %v", err)
	}
	if bad.OK || len(bad.Errors) != len(session.Fields) {
		t.Fatalf("invalid submit = %+v, want three field errors", bad)
	}

	if _, _, err := s.handleGeneratePassword(ctx, nil, SwitchProfileInput{}); !errors.Is(err, session.ErrNotAuthenticated) {
		t.Fatalf("generate while anonymous error = %v", err)
	}

	_, good, err := s.handleSubmitLogin(ctx, nil, LoginInput{Username: "Ada", Email: "ada@example.com", Website: "https://www.example.com/"})
	if err != nil || !good.OK {
		t.Fatalf("valid submit = %+v, %v", good, err)
	}
	if good.Login.Website != "example.com" || len(good.Password) != 18 {
		t.Fatalf("login = %+v, password %q", good.Login, good.Password)
	}

	_, pw, err := s.handleGeneratePassword(ctx, nil, SwitchProfileInput{})
	if err != nil {
		t.Fatalf("handleGeneratePassword() error: %v", err)
	}
	if !pw.Coverage.Complete() {
		t.Errorf("coverage = %+v, want every class", pw.Coverage)
	}

	_, sess, err := s.handleSwitchProfile(ctx, nil, SwitchProfileInput{})
	if err != nil {
		t.Fatalf("handleSwitchProfile() error: %v", err)
	}
	if sess.Session.Phase != "anonymous" || sess.Session.Form.Username != "Ada" {
		t.Errorf("session after switch = %+v", sess.Session)
	}
}

func TestHandleDerivePassword(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, out, err := s.handleDerivePassword(ctx, nil, DerivePasswordInput{
		Username: "Ada",
		Email:    "ada@example.com",
		Website:  "example.com",
		AtMillis: 1700000000000,
	})
	if err != nil {
		t.Fatalf("handleDerivePassword() error: %v", err)
	}
	if out.Password != "NzucNw97_zsU*YLdSm" {
		t.Errorf("Password = %q, want NzucNw97_zsU*YLdSm", out.Password)
	}

	// Without a timestamp the server clock is used.
	_, now, err := s.handleDerivePassword(ctx, nil, DerivePasswordInput{Username: "Ada", Email: "ada@example.com", Website: "example.com"})
	if err != nil {
		t.Fatalf("handleDerivePassword(now) error: %v", err)
	}
	if now.AtMillis != 1700000000000 || now.Password != out.Password {
		t.Errorf("derive at now = %+v, want same as fixed clock", now)
	}

	_, _, err = s.handleDerivePassword(ctx, nil, DerivePasswordInput{Username: "Ada"})
	var verr *session.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("invalid derive error = %v, want *ValidationError", err)
	}
	if s.desk.Session().Phase != "anonymous" {
		t.Error("derive_password changed the desktop session")
	}
}
