package mcp

import (
	"github.com/1broseidon/glassdesk/internal/catalog"
	"github.com/1broseidon/glassdesk/internal/credential"
	"github.com/1broseidon/glassdesk/internal/desktop"
	"github.com/1broseidon/glassdesk/internal/geometry"
	"github.com/1broseidon/glassdesk/internal/session"
)

// GetStateInput is the input for the get_state tool.
type GetStateInput struct{}

// PointerEventInput is the input for the pointer_event tool.
type PointerEventInput struct {
	Kind      string `json:"kind" jsonschema:"required,Event kind: down, move, up or cancel"`
	PointerID int    `json:"pointer_id,omitempty" jsonschema:"Pointer identifier (default: 1)"`
	Button    int    `json:"button,omitempty" jsonschema:"Button index; 0 is the primary button"`
	X         int    `json:"x" jsonschema:"required,Client x coordinate"`
	Y         int    `json:"y" jsonschema:"required,Client y coordinate"`
}

// PointerEventOutput is the output for the pointer_event tool.
type PointerEventOutput struct {
	Handled bool   `json:"handled"`
	Target  string `json:"target,omitempty"`
}

// DragSurfaceInput is the input for the drag_surface tool.
type DragSurfaceInput struct {
	Surface string `json:"surface" jsonschema:"required,Surface class: window or icon"`
	ID      string `json:"id" jsonschema:"required,Window id (finder, login) or icon id"`
	X       int    `json:"x" jsonschema:"required,Desired left edge in canvas coordinates"`
	Y       int    `json:"y" jsonschema:"required,Desired top edge in canvas coordinates"`
}

// DragSurfaceOutput is the output for the drag_surface tool.
type DragSurfaceOutput struct {
	Position geometry.Point `json:"position"`
	Clamped  bool           `json:"clamped"`
}

// DropAppInput is the input for the drop_app tool.
type DropAppInput struct {
	AppID string `json:"app_id" jsonschema:"required,Finder application id"`
	X     int    `json:"x" jsonschema:"required,Client x coordinate of the drop"`
	Y     int    `json:"y" jsonschema:"required,Client y coordinate of the drop"`
}

// DropAppOutput is the output for the drop_app tool.
type DropAppOutput struct {
	Icon desktop.Icon `json:"icon"`
}

// ResizeCanvasInput is the input for the resize_canvas tool.
type ResizeCanvasInput struct {
	Width  int `json:"width" jsonschema:"required,Canvas width in pixels"`
	Height int `json:"height" jsonschema:"required,Canvas height in pixels"`
}

// WindowInput is the input for the window tools.
type WindowInput struct {
	Window string `json:"window" jsonschema:"required,Window id: finder or login"`
}

// WindowOutput reports a window after a window tool ran.
type WindowOutput struct {
	Window desktop.Window `json:"window"`
}

// OpenAppInput is the input for the open_app tool.
type OpenAppInput struct {
	AppID string `json:"app_id" jsonschema:"required,Application id from the catalog"`
	From  string `json:"from,omitempty" jsonschema:"Launch origin: finder, dock or desktop (default: desktop)"`
}

// OpenAppOutput is the output for the open_app tool.
type OpenAppOutput struct {
	App   catalog.App `json:"app"`
	Toast string      `json:"toast"`
}

// LoginInput is the input for the submit_login tool.
type LoginInput struct {
	Username string `json:"username" jsonschema:"required,At least 3 characters"`
	Email    string `json:"email" jsonschema:"required,Email address"`
	Website  string `json:"website" jsonschema:"required,Website or bare hostname"`
}

// SubmitLoginOutput is the output for the submit_login tool.
type SubmitLoginOutput struct {
	OK       bool                `json:"ok"`
	Login    *session.Login      `json:"login,omitempty"`
	Password string              `json:"password,omitempty"`
	Errors   session.FieldErrors `json:"errors,omitempty"`
}

// PasswordOutput is the output for the password tools.
type PasswordOutput struct {
	Password string              `json:"password"`
	Coverage credential.Coverage `json:"coverage"`
}

// SwitchProfileInput is the input for the switch_profile tool.
type SwitchProfileInput struct{}

// SessionOutput is the output for the switch_profile tool.
type SessionOutput struct {
	Session session.Snapshot `json:"session"`
}

// DerivePasswordInput is the input for the derive_password tool.
type DerivePasswordInput struct {
	Username string `json:"username" jsonschema:"required,At least 3 characters"`
	Email    string `json:"email" jsonschema:"required,Email address"`
	Website  string `json:"website" jsonschema:"required,Website or bare hostname"`
	AtMillis int64  `json:"at_millis,omitempty" jsonschema:"Unix milliseconds to derive at (default: now)"`
}

// DerivePasswordOutput is the output for the derive_password tool.
type DerivePasswordOutput struct {
	Login    session.Login       `json:"login"`
	Password string              `json:"password"`
	Coverage credential.Coverage `json:"coverage"`
	AtMillis int64               `json:"at_millis"`
}
