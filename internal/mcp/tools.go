package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/glassdesk/internal/credential"
	"github.com/1broseidon/glassdesk/internal/desktop"
	"github.com/1broseidon/glassdesk/internal/geometry"
	"github.com/1broseidon/glassdesk/internal/pointer"
	"github.com/1broseidon/glassdesk/internal/session"
)

func (s *Server) handleGetState(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStateInput) (*mcpsdk.CallToolResult, desktop.State, error) {
	return nil, s.desk.Snapshot(), nil
}

func (s *Server) handlePointerEvent(_ context.Context, _ *mcpsdk.CallToolRequest, args PointerEventInput) (*mcpsdk.CallToolResult, PointerEventOutput, error) {
	kind, err := pointer.ParseKind(args.Kind)
	if err != nil {
		return nil, PointerEventOutput{}, err
	}
	pid := args.PointerID
	if pid == 0 {
		pid = 1
	}
	client := geometry.Point{X: args.X, Y: args.Y}

	var out PointerEventOutput
	if kind == pointer.Down {
		out.Target = describeTarget(s.desk.HitTest(client))
	}
	out.Handled = s.desk.Pointer(pointer.Event{
		Kind:      kind,
		PointerID: pid,
		Button:    args.Button,
		Client:    client,
	})
	return nil, out, nil
}

func describeTarget(t pointer.Target) string {
	if t.Zero() {
		return ""
	}
	parts := []string{string(t.Kind)}
	if t.ID != "" {
		parts = append(parts, t.ID)
	}
	if t.Region != "" {
		parts = append(parts, string(t.Region))
	}
	return strings.Join(parts, ":")
}

func (s *Server) handleDragSurface(_ context.Context, _ *mcpsdk.CallToolRequest, args DragSurfaceInput) (*mcpsdk.CallToolResult, DragSurfaceOutput, error) {
	st := s.desk.Snapshot()

	var (
		from   geometry.Point
		grab   geometry.Point
		target pointer.Target
	)
	switch strings.ToLower(strings.TrimSpace(args.Surface)) {
	case "window":
		id, err := desktop.ParseWindow(args.ID)
		if err != nil {
			return nil, DragSurfaceOutput{}, err
		}
		w, _ := st.Window(id)
		if !w.Open {
			return nil, DragSurfaceOutput{}, fmt.Errorf("%w: %q", desktop.ErrWindowClosed, id)
		}
		from = w.Position
		// Middle of the title bar strip right of the traffic lights.
		grab = geometry.Point{
			X: w.Chrome.Controls + (w.Chrome.Size.Width-w.Chrome.Controls)/2,
			Y: w.Chrome.TitleBar / 2,
		}
		target = pointer.Target{Kind: pointer.SurfaceWindow, ID: string(id), Region: pointer.RegionTitleBar}
	case "icon":
		icon, ok := st.Icon(args.ID)
		if !ok {
			return nil, DragSurfaceOutput{}, fmt.Errorf("%w: %q", desktop.ErrUnknownIcon, args.ID)
		}
		from = icon.Position
		grab = st.Footprint.Half()
		target = pointer.Target{Kind: pointer.SurfaceIcon, ID: icon.ID}
	default:
		return nil, DragSurfaceOutput{}, fmt.Errorf("unknown surface %q (want window or icon)", args.Surface)
	}

	want := geometry.Point{X: args.X, Y: args.Y}
	start := st.Origin.Add(from).Add(grab)
	end := st.Origin.Add(want).Add(grab)

	s.desk.Pointer(pointer.Event{Kind: pointer.Down, PointerID: dragPointerID, Client: start, Target: target})
	if !ownsDrag(s.desk.Snapshot(), target) {
		return nil, DragSurfaceOutput{}, fmt.Errorf("drag on %s %q did not start (another drag active?)", args.Surface, args.ID)
	}
	s.desk.Pointer(pointer.Event{Kind: pointer.Move, PointerID: dragPointerID, Client: end})
	s.desk.Pointer(pointer.Event{Kind: pointer.Up, PointerID: dragPointerID, Client: end})

	after := s.desk.Snapshot()
	var got geometry.Point
	if target.Kind == pointer.SurfaceWindow {
		w, _ := after.Window(desktop.WindowID(target.ID))
		got = w.Position
	} else {
		icon, _ := after.Icon(target.ID)
		got = icon.Position
	}
	slog.Debug("MCP drag", "surface", args.Surface, "id", args.ID, "x", got.X, "y", got.Y)
	return nil, DragSurfaceOutput{Position: got, Clamped: got != want}, nil
}

// ownsDrag reports whether the tool pointer holds the drag of target.
func ownsDrag(st desktop.State, target pointer.Target) bool {
	sess := st.Drags.Icon
	if target.Kind == pointer.SurfaceWindow {
		sess = st.Drags.Window
	}
	return sess != nil && sess.PointerID == dragPointerID && sess.SubjectID == target.ID
}

func (s *Server) handleDropApp(_ context.Context, _ *mcpsdk.CallToolRequest, args DropAppInput) (*mcpsdk.CallToolResult, DropAppOutput, error) {
	icon, err := s.desk.DropApp(args.AppID, geometry.Point{X: args.X, Y: args.Y})
	if err != nil {
		return nil, DropAppOutput{}, fmt.Errorf("drop rejected (%s): %w", desktop.RejectReason(err), err)
	}
	return nil, DropAppOutput{Icon: icon}, nil
}

func (s *Server) handleResizeCanvas(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeCanvasInput) (*mcpsdk.CallToolResult, desktop.State, error) {
	if args.Width < 0 || args.Height < 0 {
		return nil, desktop.State{}, fmt.Errorf("canvas size must not be negative")
	}
	s.desk.Resize(geometry.Size{Width: args.Width, Height: args.Height})
	return nil, s.desk.Snapshot(), nil
}

func (s *Server) windowResult(id desktop.WindowID) WindowOutput {
	w, _ := s.desk.Snapshot().Window(id)
	return WindowOutput{Window: w}
}

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	id, err := desktop.ParseWindow(args.Window)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	if err := s.desk.OpenWindow(id); err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, s.windowResult(id), nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	id, err := desktop.ParseWindow(args.Window)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	if err := s.desk.CloseWindow(id); err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, s.windowResult(id), nil
}

func (s *Server) handleRecenterWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	id, err := desktop.ParseWindow(args.Window)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	if _, err := s.desk.RecenterWindow(id); err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, s.windowResult(id), nil
}

func (s *Server) handleOpenApp(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenAppInput) (*mcpsdk.CallToolResult, OpenAppOutput, error) {
	from, err := desktop.ParseOrigin(args.From)
	if err != nil {
		return nil, OpenAppOutput{}, err
	}
	app, err := s.desk.OpenApp(args.AppID, from)
	if err != nil {
		return nil, OpenAppOutput{}, err
	}
	return nil, OpenAppOutput{App: app, Toast: s.desk.Snapshot().Toast}, nil
}

func (s *Server) handleSubmitLogin(_ context.Context, _ *mcpsdk.CallToolRequest, args LoginInput) (*mcpsdk.CallToolResult, SubmitLoginOutput, error) {
	s.desk.SetLoginForm(session.Form{Username: args.Username, Email: args.Email, Website: args.Website})
	login, err := s.desk.SubmitLogin()
	if err != nil {
		// Form errors are an answer, not a tool failure.
		if fields, ok := desktop.IsFieldError(err); ok {
			return nil, SubmitLoginOutput{OK: false, Errors: fields}, nil
		}
		return nil, SubmitLoginOutput{}, err
	}
	return nil, SubmitLoginOutput{OK: true, Login: &login, Password: s.desk.Session().Password}, nil
}

func (s *Server) handleGeneratePassword(_ context.Context, _ *mcpsdk.CallToolRequest, _ SwitchProfileInput) (*mcpsdk.CallToolResult, PasswordOutput, error) {
	pw, err := s.desk.GeneratePassword()
	if err != nil {
		return nil, PasswordOutput{}, err
	}
	return nil, PasswordOutput{Password: pw, Coverage: credential.Classify(pw)}, nil
}

func (s *Server) handleSwitchProfile(_ context.Context, _ *mcpsdk.CallToolRequest, _ SwitchProfileInput) (*mcpsdk.CallToolResult, SessionOutput, error) {
	if err := s.desk.SwitchProfile(); err != nil {
		return nil, SessionOutput{}, err
	}
	return nil, SessionOutput{Session: s.desk.Session()}, nil
}

func (s *Server) handleDerivePassword(_ context.Context, _ *mcpsdk.CallToolRequest, args DerivePasswordInput) (*mcpsdk.CallToolResult, DerivePasswordOutput, error) {
	login, errs := session.Validate(session.Form{Username: args.Username, Email: args.Email, Website: args.Website})
	if !errs.Empty() {
		return nil, DerivePasswordOutput{}, &session.ValidationError{Fields: errs}
	}
	at := args.AtMillis
	if at == 0 {
		at = s.now().UnixMilli()
	}
	pw := credential.Derive(login.Identity(), at)
	return nil, DerivePasswordOutput{
		Login:    login,
		Password: pw,
		Coverage: credential.Classify(pw),
		AtMillis: at,
	}, nil
}
