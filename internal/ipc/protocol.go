package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/glassdesk/internal/geometry"
	"github.com/1broseidon/glassdesk/internal/pointer"
	"github.com/1broseidon/glassdesk/internal/session"
	"github.com/1broseidon/glassdesk/internal/transfer"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus     CommandType = "GET_STATUS"
	CommandGetState      CommandType = "GET_STATE"
	CommandPointer       CommandType = "POINTER"
	CommandDrop          CommandType = "DROP"
	CommandResize        CommandType = "RESIZE"
	CommandOpenWindow    CommandType = "OPEN_WINDOW"
	CommandCloseWindow   CommandType = "CLOSE_WINDOW"
	CommandCenterWindow  CommandType = "CENTER_WINDOW"
	CommandTrafficLight  CommandType = "TRAFFIC_LIGHT"
	CommandOpenApp       CommandType = "OPEN_APP"
	CommandSetLoginForm  CommandType = "SET_LOGIN_FORM"
	CommandSubmitLogin   CommandType = "SUBMIT_LOGIN"
	CommandGenerate      CommandType = "GENERATE_PASSWORD"
	CommandSwitchProfile CommandType = "SWITCH_PROFILE"
	CommandSelectSidebar CommandType = "SELECT_SIDEBAR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`

	// Fields carries per-input login errors on a rejected submit.
	Fields session.FieldErrors `json:"fields,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Canvas        geometry.Size `json:"canvas"`
	OpenWindows   []string      `json:"open_windows"`
	IconCount     int           `json:"icon_count"`
	Session       string        `json:"session"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	DaemonRunning bool          `json:"daemon_running"`
}

// PointerPayload is one pointer sample in client coordinates. Target is
// optional; without it the desktop hit-tests the press itself.
type PointerPayload struct {
	Kind      string          `json:"kind"`
	PointerID int             `json:"pointer_id"`
	Button    int             `json:"button,omitempty"`
	X         int             `json:"x"`
	Y         int             `json:"y"`
	Target    *pointer.Target `json:"target,omitempty"`
}

// Event converts the payload to a pointer event.
func (p PointerPayload) Event() (pointer.Event, error) {
	kind, err := pointer.ParseKind(p.Kind)
	if err != nil {
		return pointer.Event{}, err
	}
	ev := pointer.Event{
		Kind:      kind,
		PointerID: p.PointerID,
		Button:    p.Button,
		Client:    geometry.Point{X: p.X, Y: p.Y},
	}
	if p.Target != nil {
		ev.Target = *p.Target
	}
	return ev, nil
}

type PointerData struct {
	Handled bool `json:"handled"`
}

// DropPayload describes a drop at client position (X, Y). Data, when set,
// is the raw drag data keyed by format; otherwise a Finder drag of AppID is
// synthesized.
type DropPayload struct {
	AppID string            `json:"app_id,omitempty"`
	X     int               `json:"x"`
	Y     int               `json:"y"`
	Data  map[string]string `json:"data,omitempty"`
}

// Carrier builds the drag data channel for the drop.
func (p DropPayload) Carrier() *transfer.Carrier {
	if len(p.Data) == 0 {
		return transfer.NewFinderCarrier(p.AppID)
	}
	c := transfer.NewCarrier()
	for format, data := range p.Data {
		c.SetData(format, data)
	}
	c.SetEffectAllowed(transfer.EffectCopy)
	return c
}

func (p DropPayload) Client() geometry.Point {
	return geometry.Point{X: p.X, Y: p.Y}
}

type ResizePayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type WindowPayload struct {
	Window string `json:"window"`
	Light  string `json:"light,omitempty"`
}

type OpenAppPayload struct {
	AppID string `json:"app_id"`
	From  string `json:"from,omitempty"`
}

type SidebarPayload struct {
	Item string `json:"item"`
}

// LoginPayload is optional on SUBMIT_LOGIN; when present the form is
// replaced before submitting.
type LoginPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Website  string `json:"website"`
}

func (p LoginPayload) Form() session.Form {
	return session.Form{Username: p.Username, Email: p.Email, Website: p.Website}
}

type LoginData struct {
	Login    session.Login `json:"login"`
	Password string        `json:"password"`
}

type PasswordData struct {
	Password string `json:"password"`
}

type PositionData struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
