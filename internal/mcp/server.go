// Package mcp exposes the desktop engine as Model Context Protocol tools so
// an agent can drive drags, drops and the login flow.
package mcp

import (
	"context"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/glassdesk/internal/desktop"
)

const (
	ServerName    = "glassdesk"
	ServerVersion = "0.1.0"
)

// dragPointerID is the pointer drag_surface drives; it is distinct from the
// default pointer_event id so a scripted drag cannot hijack a manual one.
const dragPointerID = 99

// Server is the MCP server for one desktop.
type Server struct {
	mcpServer *mcpsdk.Server
	desk      *desktop.Desktop

	// now backs derive_password when no timestamp is given.
	now func() time.Time
}

// NewServer registers every tool against desk.
func NewServer(desk *desktop.Desktop) *Server {
	s := &Server{
		desk: desk,
		now:  time.Now,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_state",
		Description: "Return the full desktop snapshot: canvas size, windows with positions and open state, desktop icons, active drags, toast and login session.",
	}, s.handleGetState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "pointer_event",
		Description: "Feed one raw pointer event in client coordinates. A down event is hit-tested against the current layout; move, up and cancel go to the active drag.",
	}, s.handlePointerEvent)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "drag_surface",
		Description: "Drag a window by its title bar, or a desktop icon, so its top-left lands at (x, y) in canvas coordinates. The result is clamped to the canvas.",
	}, s.handleDragSurface)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "drop_app",
		Description: "Drag an application out of the Finder panel and drop it at a client position, creating a desktop icon centered under the pointer. Drops over the open Finder window are rejected.",
	}, s.handleDropApp)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_canvas",
		Description: "Resize the desktop canvas. Open windows and icons are re-clamped but never recentered.",
	}, s.handleResizeCanvas)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Open the finder or login window. A window is centered once on the first layout of each open.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close the finder or login window, aborting any drag on it.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "recenter_window",
		Description: "Center an open window in the canvas.",
	}, s.handleRecenterWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_app",
		Description: "Launch an application from the finder, dock or desktop. Apps that open the login window swap it in for the Finder.",
	}, s.handleOpenApp)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "submit_login",
		Description: "Fill and submit the login form. Invalid input returns ok=false with per-field errors; valid input starts a session and generates a password.",
	}, s.handleSubmitLogin)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "generate_password",
		Description: "Generate a fresh 18-character password for the signed-in session.",
	}, s.handleGeneratePassword)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "switch_profile",
		Description: "Sign out of the current session, keeping its values in the login form.",
	}, s.handleSwitchProfile)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "derive_password",
		Description: "Derive the password for an identity at a given time without touching the desktop session. Same identity and timestamp always give the same password.",
	}, s.handleDerivePassword)
}
